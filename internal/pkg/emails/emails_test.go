package emails

import (
	"net/url"
	"testing"
	"time"

	"github.com/portfolio-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Site{Name: "Data to Grow", URL: "https://example.com", Author: "Admin"})
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestOTP_ContainsCodeAndTTL(t *testing.T) {
	html, err := newRenderer(t).OTP("123456", 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, html, "123456")
	assert.Contains(t, html, "expire in 5 minutes")
	assert.Contains(t, html, "&copy; 2026 Data to Grow")
}

func TestContactAdmin_EscapesUserInput(t *testing.T) {
	c := &domain.ContactMessage{
		ContactID: "01HZZZZZZZZZZZZZZZABCDEFGH",
		Name:      "Eve <script>",
		Email:     "eve@x.com",
		Message:   "<b>hi</b>",
	}
	html, err := newRenderer(t).ContactAdmin(c)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<b>hi</b>")
	assert.Contains(t, html, "ABCDEFGH")
}

func TestContactUser_FirstNameAndExcerpt(t *testing.T) {
	c := &domain.ContactMessage{
		ContactID: "01HZZZZZZZZZZZZZZZABCDEFGH",
		Name:      "Jane Doe",
		Message:   "0123456789012345678901234567890123456789012345678901234567890",
	}
	html, err := newRenderer(t).ContactUser(c)
	require.NoError(t, err)
	assert.Contains(t, html, "Hi Jane,")
	assert.Contains(t, html, "01234567890123456789012345678901234567890123456789...")
}

func TestNewsletterWelcome_Variants(t *testing.T) {
	r := newRenderer(t)
	first, err := r.NewsletterWelcome("sam", "https://example.com/u", false)
	require.NoError(t, err)
	assert.Contains(t, first, "Welcome to the inner circle!")

	back, err := r.NewsletterWelcome("sam", "https://example.com/u", true)
	require.NoError(t, err)
	assert.Contains(t, back, "Welcome back!")
}

func TestNewsletterAdmin_ShowsStats(t *testing.T) {
	html, err := newRenderer(t).NewsletterAdmin("new@x.com", domain.SubscriberStats{Total: 10, Active: 8, ThisMonth: 3, GrowthRate: 50})
	require.NoError(t, err)
	assert.Contains(t, html, "new@x.com")
	assert.Contains(t, html, "50%")
}

func TestBlogNotification_OmitsImageWhenEmpty(t *testing.T) {
	html, err := newRenderer(t).BlogNotification(BlogNotification{Title: "Post", URL: "https://example.com/blog/1"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<img")
	assert.Contains(t, html, "https://example.com/blog/1")
}

func TestUnsubscribeURL_CarriesTokenInFragment(t *testing.T) {
	u := newRenderer(t).UnsubscribeURL("a+b@x.com", "tok")
	assert.Equal(t, "https://example.com/newsletter/unsubscribe#email=a%2Bb%40x.com&token=tok", u)

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	assert.Empty(t, parsed.RawQuery)
}
