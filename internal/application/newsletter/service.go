package newsletter

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/infrastructure/smtp"
	"github.com/portfolio-api/internal/infrastructure/sns"
	"github.com/portfolio-api/internal/pkg/id"
	pkgtoken "github.com/portfolio-api/internal/pkg/token"
	"github.com/portfolio-api/internal/pkg/validate"
)

type Service interface {
	// Subscribe adds email to the list. created is false when an inactive
	// subscriber was reactivated. An active subscriber yields ErrConflict.
	Subscribe(ctx context.Context, req domain.SubscribeRequest) (sub *domain.Subscriber, created bool, err error)
	ListActive(ctx context.Context) ([]domain.Subscriber, error)
	Delete(ctx context.Context, subscriberID string) error
	Unsubscribe(ctx context.Context, req domain.UnsubscribeRequest) error
	Stats(ctx context.Context) (*domain.SubscriberStats, error)
}

type subscriberStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	Put(ctx context.Context, s *domain.Subscriber) error
	Reactivate(ctx context.Context, subscriberID, name, token string, at time.Time) (*domain.Subscriber, error)
	Deactivate(ctx context.Context, subscriberID string) error
	List(ctx context.Context, activeOnly bool) ([]domain.Subscriber, error)
	Delete(ctx context.Context, subscriberID string) error
	Count(ctx context.Context) (int, error)
}

type newsletterRenderer interface {
	NewsletterWelcome(name, unsubscribeURL string, welcomeBack bool) (string, error)
	NewsletterAdmin(email string, stats domain.SubscriberStats) (string, error)
	UnsubscribeURL(email, token string) string
}

type service struct {
	repo       subscriberStore
	mailer     smtp.Mailer
	alerter    sns.Alerter
	render     newsletterRenderer
	siteName   string
	adminEmail string
	now        func() time.Time
}

type ServiceDeps struct {
	SubscriberRepo subscriberStore
	Mailer         smtp.Mailer
	Alerter        sns.Alerter
	Templates      newsletterRenderer
	SiteName       string
	AdminEmail     string
	Now            func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:       deps.SubscriberRepo,
		mailer:     deps.Mailer,
		alerter:    deps.Alerter,
		render:     deps.Templates,
		siteName:   deps.SiteName,
		adminEmail: deps.AdminEmail,
		now:        deps.Now,
	}
	if s.alerter == nil {
		s.alerter = sns.NopAlerter{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Subscribe(ctx context.Context, req domain.SubscribeRequest) (*domain.Subscriber, bool, error) {
	email := normalizeEmail(req.Email)
	if !validate.Email(email) {
		return nil, false, fmt.Errorf("please provide a valid email address: %w", domain.ErrBadRequest)
	}
	name := strings.TrimSpace(req.Name)
	now := s.now().UTC()

	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.Active:
		return nil, false, fmt.Errorf("already subscribed to the newsletter: %w", domain.ErrConflict)
	case err == nil:
		sub, err := s.repo.Reactivate(ctx, existing.SubscriberID, name, pkgtoken.NewUnsubscribeToken(), now)
		if err != nil {
			return nil, false, err
		}
		s.welcome(ctx, sub, true)
		return sub, false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, err
	}

	sub := &domain.Subscriber{
		SubscriberID:     id.New(),
		Email:            email,
		Name:             name,
		Active:           true,
		SubscribedAt:     now,
		UnsubscribeToken: pkgtoken.NewUnsubscribeToken(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Put(ctx, sub); err != nil {
		return nil, false, err
	}
	s.welcome(ctx, sub, false)
	return sub, true, nil
}

// welcome sends the subscriber and admin emails. Failures are logged only.
func (s *service) welcome(ctx context.Context, sub *domain.Subscriber, welcomeBack bool) {
	name := sub.Name
	if name == "" {
		name = strings.SplitN(sub.Email, "@", 2)[0]
	}
	unsubscribeURL := s.render.UnsubscribeURL(sub.Email, sub.UnsubscribeToken)

	subject := fmt.Sprintf("Welcome to %s, %s!", s.siteName, name)
	if welcomeBack {
		subject = fmt.Sprintf("Welcome back to %s, %s!", s.siteName, name)
	}
	if html, err := s.render.NewsletterWelcome(name, unsubscribeURL, welcomeBack); err != nil {
		slog.Error("render newsletter welcome", "subscriber_id", sub.SubscriberID, "err", err)
	} else if err := s.mailer.Send(ctx, smtp.Message{
		To:      sub.Email,
		Subject: subject,
		HTML:    html,
		Headers: map[string]string{"List-Unsubscribe": "<" + unsubscribeURL + ">"},
	}); err != nil {
		slog.Warn("newsletter welcome email failed", "subscriber_id", sub.SubscriberID, "err", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		slog.Warn("newsletter stats unavailable", "err", err)
		stats = &domain.SubscriberStats{}
	}
	if s.adminEmail != "" {
		if html, err := s.render.NewsletterAdmin(sub.Email, *stats); err != nil {
			slog.Error("render newsletter admin", "subscriber_id", sub.SubscriberID, "err", err)
		} else if err := s.mailer.Send(ctx, smtp.Message{
			To:      s.adminEmail,
			Subject: "New Newsletter Subscriber: " + name,
			HTML:    html,
		}); err != nil {
			slog.Warn("newsletter admin email failed", "subscriber_id", sub.SubscriberID, "err", err)
		}
	}
	msg := fmt.Sprintf("%s subscribed (%d active)", sub.Email, stats.Active)
	if err := s.alerter.Alert(ctx, "New subscriber", msg); err != nil {
		slog.Warn("subscriber alert failed", "subscriber_id", sub.SubscriberID, "err", err)
	}
}

// ListActive returns active subscribers, most recent first.
func (s *service) ListActive(ctx context.Context) ([]domain.Subscriber, error) {
	subs, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].SubscribedAt.After(subs[j].SubscribedAt) })
	return subs, nil
}

func (s *service) Delete(ctx context.Context, subscriberID string) error {
	return s.repo.Delete(ctx, subscriberID)
}

// Unsubscribe deactivates the subscriber when the token matches. A wrong
// token is reported as not found so the endpoint can't be used to enumerate the list.
func (s *service) Unsubscribe(ctx context.Context, req domain.UnsubscribeRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	sub, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if sub.UnsubscribeToken == "" || subtle.ConstantTimeCompare([]byte(sub.UnsubscribeToken), []byte(req.Token)) != 1 {
		return fmt.Errorf("subscription not found: %w", domain.ErrNotFound)
	}
	if !sub.Active {
		return nil
	}
	return s.repo.Deactivate(ctx, sub.SubscriberID)
}

// Stats counts active subscribers who joined this calendar month and last,
// and the month-over-month growth in percent (100 when last month had none).
func (s *service) Stats(ctx context.Context) (*domain.SubscriberStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	st := &domain.SubscriberStats{Total: total, Active: len(active)}
	for _, sub := range active {
		switch at := sub.SubscribedAt; {
		case !at.Before(thisMonth):
			st.ThisMonth++
		case !at.Before(lastMonth):
			st.LastMonth++
		}
	}
	st.GrowthRate = 100
	if st.LastMonth > 0 {
		st.GrowthRate = int(math.Round(float64(st.ThisMonth-st.LastMonth) / float64(st.LastMonth) * 100))
	}
	return st, nil
}
