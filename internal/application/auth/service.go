package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/infrastructure/smtp"
	pkgtoken "github.com/portfolio-api/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpDigits  = 6
	otpSubject = "Your Admin Login OTP"
)

// Credentials is what the sign-in form submits in its second step.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp" validate:"required"`
}

// Service runs the two-step admin sign-in: password check plus an emailed
// one-time code, then a session token.
type Service interface {
	// SendOTP verifies email/password and emails a fresh code.
	SendOTP(ctx context.Context, email, password string) error
	// Authorize verifies all three factors and returns the identity and a
	// signed session token.
	Authorize(ctx context.Context, creds Credentials) (*domain.Identity, string, error)
}

type accountStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	SetOTP(ctx context.Context, accountID, hash string, expires time.Time) error
	ClearOTP(ctx context.Context, accountID, hash string) error
}

type sessionSigner interface {
	Sign(subject, role, email, name string) (string, error)
}

type otpRenderer interface {
	OTP(code string, ttl time.Duration) (string, error)
}

type service struct {
	accounts accountStore
	mailer   smtp.Mailer
	signer   sessionSigner
	render   otpRenderer
	otpTTL   time.Duration
	hashCost int
	now      func() time.Time
	newCode  func() (string, error)
}

type ServiceDeps struct {
	AccountRepo accountStore
	Mailer      smtp.Mailer
	Signer      sessionSigner
	Templates   otpRenderer
	OTPTTL      time.Duration
	// Optional; zero values fall back to bcrypt.DefaultCost, time.Now and a
	// crypto/rand six digit code.
	HashCost int
	Now      func() time.Time
	NewCode  func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		accounts: deps.AccountRepo,
		mailer:   deps.Mailer,
		signer:   deps.Signer,
		render:   deps.Templates,
		otpTTL:   deps.OTPTTL,
		hashCost: deps.HashCost,
		now:      deps.Now,
		newCode:  deps.NewCode,
	}
	if s.otpTTL <= 0 {
		s.otpTTL = 5 * time.Minute
	}
	if s.hashCost == 0 {
		s.hashCost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = func() (string, error) { return pkgtoken.NewNumericCode(otpDigits) }
	}
	return s
}

func (s *service) SendOTP(ctx context.Context, email, password string) error {
	acct, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return err
	}
	return s.issueOTP(ctx, acct)
}

func (s *service) Authorize(ctx context.Context, creds Credentials) (*domain.Identity, string, error) {
	acct, err := s.verifyCredentials(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, "", err
	}
	if !acct.HasPendingOTP() {
		return nil, "", fmt.Errorf("no code issued: %w", domain.ErrMissingOTP)
	}
	if s.now().After(*acct.OTPExpires) {
		return nil, "", fmt.Errorf("code expired at %s: %w", acct.OTPExpires.Format(time.RFC3339), domain.ErrOTPExpired)
	}
	hash := *acct.OTPToken
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.OTP)) != nil {
		return nil, "", fmt.Errorf("code mismatch: %w", domain.ErrInvalidOTP)
	}

	// Conditional on the hash just verified, so a code can mint at most one session.
	if err := s.accounts.ClearOTP(ctx, acct.AccountID, hash); err != nil {
		if errors.Is(err, domain.ErrMissingOTP) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("clear code: %v: %w", err, domain.ErrInternal)
	}

	token, err := s.signer.Sign(acct.AccountID, acct.Role, acct.Email, acct.Name)
	if err != nil {
		return nil, "", fmt.Errorf("sign session: %v: %w", err, domain.ErrInternal)
	}
	return acct.Identity(), token, nil
}

func (s *service) verifyCredentials(ctx context.Context, email, password string) (*domain.Account, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", domain.ErrInvalidCredentials)
	}
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("account lookup: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("account lookup: %v: %w", err, domain.ErrInternal)
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("password mismatch: %w", domain.ErrInvalidCredentials)
	}
	return acct, nil
}

// issueOTP replaces any pending code with a fresh one and emails it. The
// plaintext code only ever lives in this function and the outgoing message.
func (s *service) issueOTP(ctx context.Context, acct *domain.Account) error {
	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate code: %v: %w", err, domain.ErrInternal)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash code: %v: %w", err, domain.ErrInternal)
	}
	hash := string(hashed)
	expires := s.now().Add(s.otpTTL)
	if err := s.accounts.SetOTP(ctx, acct.AccountID, hash, expires); err != nil {
		return fmt.Errorf("store code: %v: %w", err, domain.ErrInternal)
	}

	html, err := s.render.OTP(code, s.otpTTL)
	if err != nil {
		s.rollback(ctx, acct.AccountID, hash)
		return fmt.Errorf("render code email: %v: %w", err, domain.ErrInternal)
	}
	if err := s.mailer.Send(ctx, smtp.Message{To: acct.Email, Subject: otpSubject, HTML: html}); err != nil {
		s.rollback(ctx, acct.AccountID, hash)
		return fmt.Errorf("send code: %v: %w", err, domain.ErrDeliveryFailed)
	}
	return nil
}

// rollback withdraws a code that never reached the user. A newer code issued
// concurrently has a different hash and is left alone.
func (s *service) rollback(ctx context.Context, accountID, hash string) {
	if err := s.accounts.ClearOTP(context.WithoutCancel(ctx), accountID, hash); err != nil && !errors.Is(err, domain.ErrMissingOTP) {
		slog.Warn("failed to withdraw undelivered code", "account_id", accountID, "err", err)
	}
}
