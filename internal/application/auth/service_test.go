package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/infrastructure/smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- fakes ---

// memAccounts mirrors the conditional semantics of the DynamoDB account repo.
type memAccounts struct {
	mu       sync.Mutex
	byEmail  map[string]*domain.Account
	setErr   error
	setCalls int
}

func newMemAccounts(t *testing.T, email, password, role string) *memAccounts {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &memAccounts{byEmail: map[string]*domain.Account{
		email: {AccountID: "01HACCOUNT", Name: "Admin", Email: email, PasswordHash: string(hash), Role: role},
	}}
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	if a.OTPToken != nil {
		tok := *a.OTPToken
		cp.OTPToken = &tok
	}
	if a.OTPExpires != nil {
		exp := *a.OTPExpires
		cp.OTPExpires = &exp
	}
	return &cp, nil
}

func (m *memAccounts) find(id string) *domain.Account {
	for _, a := range m.byEmail {
		if a.AccountID == id {
			return a
		}
	}
	return nil
}

func (m *memAccounts) SetOTP(_ context.Context, accountID, hash string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	a := m.find(accountID)
	if a == nil {
		return domain.ErrNotFound
	}
	a.OTPToken = &hash
	a.OTPExpires = &expires
	return nil
}

func (m *memAccounts) ClearOTP(_ context.Context, accountID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.find(accountID)
	if a == nil || a.OTPToken == nil || *a.OTPToken != hash {
		return domain.ErrMissingOTP
	}
	a.OTPToken = nil
	a.OTPExpires = nil
	return nil
}

func (m *memAccounts) pending(email string) (*string, *time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.byEmail[email]
	return a.OTPToken, a.OTPExpires
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []smtp.Message
	err    error
	onSend func()
}

func (f *fakeMailer) Send(_ context.Context, msg smtp.Message) error {
	if f.onSend != nil {
		f.onSend()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

var codePattern = regexp.MustCompile(`code=(\d+)`)

func (f *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	m := codePattern.FindStringSubmatch(f.sent[len(f.sent)-1].HTML)
	require.Len(t, m, 2)
	return m[1]
}

type fakeRenderer struct{}

func (fakeRenderer) OTP(code string, ttl time.Duration) (string, error) {
	return "<p>code=" + code + " ttl=" + ttl.String() + "</p>", nil
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(subject, role, email, name string) (string, error) {
	args := m.Called(subject, role, email, name)
	return args.String(0), args.Error(1)
}

type fakeSigner struct{}

func (fakeSigner) Sign(subject, role, _, _ string) (string, error) {
	return "tok-" + subject + "-" + role, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	svc      Service
	accounts *memAccounts
	mailer   *fakeMailer
	clock    *clock
}

const (
	testEmail    = "a@x.com"
	testPassword = "pw123"
)

func newFixture(t *testing.T, codes ...string) *fixture {
	t.Helper()
	f := &fixture{
		accounts: newMemAccounts(t, testEmail, testPassword, domain.RoleAdmin),
		mailer:   &fakeMailer{},
		clock:    &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	deps := ServiceDeps{
		AccountRepo: f.accounts,
		Mailer:      f.mailer,
		Signer:      fakeSigner{},
		Templates:   fakeRenderer{},
		OTPTTL:      5 * time.Minute,
		HashCost:    bcrypt.MinCost,
		Now:         f.clock.now,
	}
	if len(codes) > 0 {
		i := 0
		deps.NewCode = func() (string, error) {
			c := codes[i%len(codes)]
			i++
			return c, nil
		}
	}
	f.svc = NewService(deps)
	return f
}

func (f *fixture) creds(otp string) Credentials {
	return Credentials{Email: testEmail, Password: testPassword, OTP: otp}
}

// --- SendOTP ---

func TestSendOTP_StoresHashAndEmailsCode(t *testing.T) {
	f := newFixture(t, "123456")

	require.NoError(t, f.svc.SendOTP(context.Background(), testEmail, testPassword))

	tok, exp := f.accounts.pending(testEmail)
	require.NotNil(t, tok)
	require.NotNil(t, exp)
	assert.NotEqual(t, "123456", *tok)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*tok), []byte("123456")))
	assert.Equal(t, f.clock.t.Add(5*time.Minute), *exp)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, testEmail, f.mailer.sent[0].To)
	assert.Equal(t, otpSubject, f.mailer.sent[0].Subject)
	assert.Equal(t, "123456", f.mailer.lastCode(t))
}

func TestSendOTP_DefaultCodeIsSixDigits(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.SendOTP(context.Background(), testEmail, testPassword))

	code := f.mailer.lastCode(t)
	assert.Len(t, code, 6)
	assert.NotEqual(t, '0', rune(code[0]))
}

func TestSendOTP_WrongPassword_NoCodeNoEmail(t *testing.T) {
	f := newFixture(t, "123456")

	err := f.svc.SendOTP(context.Background(), testEmail, "nope")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Empty(t, f.mailer.sent)
	assert.Zero(t, f.accounts.setCalls)
}

func TestSendOTP_UnknownEmail(t *testing.T) {
	f := newFixture(t, "123456")

	err := f.svc.SendOTP(context.Background(), "ghost@x.com", testPassword)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.mailer.sent)
}

func TestSendOTP_MissingFields(t *testing.T) {
	f := newFixture(t, "123456")
	assert.ErrorIs(t, f.svc.SendOTP(context.Background(), "", testPassword), domain.ErrInvalidCredentials)
	assert.ErrorIs(t, f.svc.SendOTP(context.Background(), testEmail, ""), domain.ErrInvalidCredentials)
}

func TestSendOTP_StoreFailure_IsInternalAndSendsNothing(t *testing.T) {
	f := newFixture(t, "123456")
	f.accounts.setErr = errors.New("throttled")

	err := f.svc.SendOTP(context.Background(), testEmail, testPassword)

	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.Empty(t, f.mailer.sent)
}

func TestSendOTP_DeliveryFailure_RollsBackCode(t *testing.T) {
	f := newFixture(t, "123456")
	f.mailer.err = errors.New("smtp down")

	err := f.svc.SendOTP(context.Background(), testEmail, testPassword)

	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	tok, exp := f.accounts.pending(testEmail)
	assert.Nil(t, tok)
	assert.Nil(t, exp)

	_, _, err = f.svc.Authorize(context.Background(), f.creds("123456"))
	assert.ErrorIs(t, err, domain.ErrMissingOTP)
}

func TestSendOTP_DeliveryFailure_KeepsNewerCode(t *testing.T) {
	f := newFixture(t, "111111")
	f.mailer.err = errors.New("smtp down")
	newer, err := bcrypt.GenerateFromPassword([]byte("222222"), bcrypt.MinCost)
	require.NoError(t, err)
	// A second request lands while the first is still being delivered.
	f.mailer.onSend = func() {
		require.NoError(t, f.accounts.SetOTP(context.Background(), "01HACCOUNT", string(newer), f.clock.t.Add(5*time.Minute)))
	}

	err = f.svc.SendOTP(context.Background(), testEmail, testPassword)

	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	tok, _ := f.accounts.pending(testEmail)
	require.NotNil(t, tok)
	assert.Equal(t, string(newer), *tok)
}

func TestSendOTP_ReissueReplacesPreviousCode(t *testing.T) {
	f := newFixture(t, "111111", "222222")
	ctx := context.Background()

	require.NoError(t, f.svc.SendOTP(ctx, testEmail, testPassword))
	first, _ := f.accounts.pending(testEmail)
	firstHash := *first
	require.NoError(t, f.svc.SendOTP(ctx, testEmail, testPassword))
	second, _ := f.accounts.pending(testEmail)

	assert.NotEqual(t, firstHash, *second)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*second), []byte("222222")))

	_, _, err := f.svc.Authorize(ctx, f.creds("111111"))
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	_, _, err = f.svc.Authorize(ctx, f.creds("222222"))
	assert.NoError(t, err)
}

// --- Authorize ---

func TestAuthorize_HappyPathThenCodeIsSpent(t *testing.T) {
	f := newFixture(t, "123456")
	ctx := context.Background()
	require.NoError(t, f.svc.SendOTP(ctx, testEmail, testPassword))

	f.clock.advance(3 * time.Minute)
	ident, token, err := f.svc.Authorize(ctx, f.creds("123456"))
	require.NoError(t, err)
	assert.Equal(t, &domain.Identity{ID: "01HACCOUNT", Email: testEmail, Name: "Admin", Role: domain.RoleAdmin}, ident)
	assert.Equal(t, "tok-01HACCOUNT-admin", token)

	tok, exp := f.accounts.pending(testEmail)
	assert.Nil(t, tok)
	assert.Nil(t, exp)

	_, _, err = f.svc.Authorize(ctx, f.creds("123456"))
	assert.ErrorIs(t, err, domain.ErrMissingOTP)
}

func TestAuthorize_Expired(t *testing.T) {
	f := newFixture(t, "123456")
	ctx := context.Background()
	require.NoError(t, f.svc.SendOTP(ctx, testEmail, testPassword))

	f.clock.advance(6 * time.Minute)
	_, _, err := f.svc.Authorize(ctx, f.creds("123456"))
	assert.ErrorIs(t, err, domain.ErrOTPExpired)
}

func TestAuthorize_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, "123456")
	require.NoError(t, f.svc.SendOTP(ctx, testEmail, testPassword))
	f.clock.advance(5 * time.Minute)
	_, _, err := f.svc.Authorize(ctx, f.creds("123456"))
	assert.NoError(t, err, "a code is still valid at its exact expiry instant")

	f = newFixture(t, "123456")
	require.NoError(t, f.svc.SendOTP(ctx, testEmail, testPassword))
	f.clock.advance(5*time.Minute + time.Second)
	_, _, err = f.svc.Authorize(ctx, f.creds("123456"))
	assert.ErrorIs(t, err, domain.ErrOTPExpired)
}

func TestAuthorize_WrongCodeDoesNotConsume(t *testing.T) {
	f := newFixture(t, "123456")
	ctx := context.Background()
	require.NoError(t, f.svc.SendOTP(ctx, testEmail, testPassword))

	_, _, err := f.svc.Authorize(ctx, f.creds("000000"))
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	tok, _ := f.accounts.pending(testEmail)
	assert.NotNil(t, tok)

	_, _, err = f.svc.Authorize(ctx, f.creds("123456"))
	assert.NoError(t, err)
}

func TestAuthorize_NoCodeIssued(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.Authorize(context.Background(), f.creds("123456"))
	assert.ErrorIs(t, err, domain.ErrMissingOTP)
}

func TestAuthorize_PasswordRecheckedBeforeCode(t *testing.T) {
	f := newFixture(t, "123456")
	ctx := context.Background()
	require.NoError(t, f.svc.SendOTP(ctx, testEmail, testPassword))

	_, _, err := f.svc.Authorize(ctx, Credentials{Email: testEmail, Password: "bad", OTP: "123456"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	tok, _ := f.accounts.pending(testEmail)
	assert.NotNil(t, tok, "a bad password must not touch the pending code")

	_, _, err = f.svc.Authorize(ctx, Credentials{Email: "ghost@x.com", Password: testPassword, OTP: "123456"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuthorize_ConcurrentUseMintsOneSession(t *testing.T) {
	f := newFixture(t, "123456")
	ctx := context.Background()
	require.NoError(t, f.svc.SendOTP(ctx, testEmail, testPassword))

	const n = 8
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.svc.Authorize(ctx, f.creds("123456"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrMissingOTP)
	}
	assert.Equal(t, 1, ok)
}

func TestAuthorize_SignerFailureIsInternal(t *testing.T) {
	accounts := newMemAccounts(t, testEmail, testPassword, domain.RoleAdmin)
	signer := &mockSigner{}
	signer.On("Sign", "01HACCOUNT", domain.RoleAdmin, testEmail, "Admin").Return("", errors.New("boom"))
	svc := NewService(ServiceDeps{
		AccountRepo: accounts,
		Mailer:      &fakeMailer{},
		Signer:      signer,
		Templates:   fakeRenderer{},
		HashCost:    bcrypt.MinCost,
		NewCode:     func() (string, error) { return "123456", nil },
	})
	ctx := context.Background()
	require.NoError(t, svc.SendOTP(ctx, testEmail, testPassword))

	_, _, err := svc.Authorize(ctx, Credentials{Email: testEmail, Password: testPassword, OTP: "123456"})
	assert.ErrorIs(t, err, domain.ErrInternal)
	signer.AssertExpectations(t)
}

func TestAuthorize_NonAdminStillGetsSession(t *testing.T) {
	f := newFixture(t, "123456")
	f.accounts.byEmail[testEmail].Role = domain.RoleUser
	ctx := context.Background()
	require.NoError(t, f.svc.SendOTP(ctx, testEmail, testPassword))

	ident, token, err := f.svc.Authorize(ctx, f.creds("123456"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, ident.Role)
	assert.True(t, strings.HasSuffix(token, "-user"))
}
