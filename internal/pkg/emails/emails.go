// Package emails renders the HTML bodies of every message the site sends.
package emails

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/portfolio-api/internal/domain"
)

//go:embed templates/*.html
var files embed.FS

const (
	tmplOTP               = "otp"
	tmplContactAdmin      = "contact_admin"
	tmplContactUser       = "contact_user"
	tmplNewsletterWelcome = "newsletter_welcome"
	tmplNewsletterAdmin   = "newsletter_admin"
	tmplBlogNotification  = "blog_notification"
)

// UnsubscribePagePath is the site page that completes an unsubscribe link.
const UnsubscribePagePath = "/newsletter/unsubscribe"

// Site is the branding shared by every email.
type Site struct {
	Name   string
	URL    string
	Author string
}

// Renderer holds one parsed template set per email kind.
type Renderer struct {
	site Site
	now  func() time.Time
	sets map[string]*template.Template
}

type view struct {
	Site    Site
	Year    int
	Preview string
	Data    interface{}
}

// New parses the embedded templates. It fails only if a template is malformed.
func New(site Site) (*Renderer, error) {
	r := &Renderer{site: site, now: time.Now, sets: make(map[string]*template.Template)}
	for _, name := range []string{
		tmplOTP, tmplContactAdmin, tmplContactUser,
		tmplNewsletterWelcome, tmplNewsletterAdmin, tmplBlogNotification,
	} {
		t, err := template.ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse email template %s: %w", name, err)
		}
		r.sets[name] = t
	}
	return r, nil
}

func (r *Renderer) render(name, preview string, data interface{}) (string, error) {
	var buf bytes.Buffer
	v := view{Site: r.site, Year: r.now().Year(), Preview: preview, Data: data}
	if err := r.sets[name].ExecuteTemplate(&buf, "layout.html", v); err != nil {
		return "", fmt.Errorf("render email %s: %w", name, err)
	}
	return buf.String(), nil
}

// OTP renders the sign-in code email.
func (r *Renderer) OTP(code string, ttl time.Duration) (string, error) {
	return r.render(tmplOTP, "Your sign-in code", struct {
		Code    string
		Minutes int
	}{code, int(ttl.Minutes())})
}

type contactData struct {
	Name      string
	FirstName string
	Email     string
	Message   string
	Excerpt   string
	Reference string
}

func newContactData(c *domain.ContactMessage) contactData {
	first := c.Name
	if f := strings.Fields(c.Name); len(f) > 0 {
		first = f[0]
	}
	excerpt := c.Message
	if r := []rune(excerpt); len(r) > 50 {
		excerpt = string(r[:50]) + "..."
	}
	return contactData{
		Name:      c.Name,
		FirstName: first,
		Email:     c.Email,
		Message:   c.Message,
		Excerpt:   excerpt,
		Reference: strings.ToUpper(c.ReferenceID()),
	}
}

// ContactAdmin renders the new-inquiry notice sent to the site owner.
func (r *Renderer) ContactAdmin(c *domain.ContactMessage) (string, error) {
	return r.render(tmplContactAdmin, "New lead from "+c.Name, newContactData(c))
}

// ContactUser renders the acknowledgement sent back to the sender.
func (r *Renderer) ContactUser(c *domain.ContactMessage) (string, error) {
	return r.render(tmplContactUser, "I received your message!", newContactData(c))
}

// NewsletterWelcome renders the welcome (or welcome back) email.
func (r *Renderer) NewsletterWelcome(name, unsubscribeURL string, welcomeBack bool) (string, error) {
	return r.render(tmplNewsletterWelcome, "Welcome to "+r.site.Name, struct {
		Name           string
		SiteName       string
		UnsubscribeURL string
		WelcomeBack    bool
	}{name, r.site.Name, unsubscribeURL, welcomeBack})
}

// NewsletterAdmin renders the new-subscriber notice with current list stats.
func (r *Renderer) NewsletterAdmin(email string, stats domain.SubscriberStats) (string, error) {
	return r.render(tmplNewsletterAdmin, "New Newsletter Subscriber", struct {
		Email string
		Stats domain.SubscriberStats
	}{email, stats})
}

// BlogNotification is the per-subscriber data for a new post email.
type BlogNotification struct {
	SubscriberName string
	Title          string
	Excerpt        string
	Image          string
	Date           string
	Author         string
	URL            string
	UnsubscribeURL string
}

func (r *Renderer) BlogNotification(n BlogNotification) (string, error) {
	return r.render(tmplBlogNotification, "New Post: "+n.Title, n)
}

// UnsubscribeURL is the link placed in newsletter emails and the
// List-Unsubscribe header. The credentials ride in the fragment, which
// browsers never send, so they stay out of access logs; the page POSTs them.
func (r *Renderer) UnsubscribeURL(email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return r.site.URL + UnsubscribePagePath + "#" + q.Encode()
}

// BlogURL is the public link to a post.
func (r *Renderer) BlogURL(blogID string) string {
	return r.site.URL + "/blog/" + blogID
}
