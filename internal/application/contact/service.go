package contact

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/infrastructure/smtp"
	"github.com/portfolio-api/internal/infrastructure/sns"
	"github.com/portfolio-api/internal/pkg/id"
	"github.com/portfolio-api/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldRead      = "read"
	fieldResponded = "responded"
)

type Service interface {
	// Submit stores a contact form message and notifies both parties.
	// Notification failures are logged; the message is still accepted.
	Submit(ctx context.Context, input domain.ContactInput) (*domain.ContactMessage, error)
	List(ctx context.Context) ([]domain.ContactMessage, error)
	Get(ctx context.Context, contactID string) (*domain.ContactMessage, error)
	Update(ctx context.Context, contactID string, req domain.UpdateContactRequest) (*domain.ContactMessage, error)
	Delete(ctx context.Context, contactID string) error
}

type contactStore interface {
	List(ctx context.Context) ([]domain.ContactMessage, error)
	Get(ctx context.Context, contactID string) (*domain.ContactMessage, error)
	Put(ctx context.Context, c *domain.ContactMessage) error
	Update(ctx context.Context, contactID string, updates map[string]interface{}) (*domain.ContactMessage, error)
	Delete(ctx context.Context, contactID string) error
}

type contactRenderer interface {
	ContactAdmin(c *domain.ContactMessage) (string, error)
	ContactUser(c *domain.ContactMessage) (string, error)
}

type service struct {
	repo       contactStore
	mailer     smtp.Mailer
	alerter    sns.Alerter
	render     contactRenderer
	adminEmail string
	now        func() time.Time
}

type ServiceDeps struct {
	ContactRepo contactStore
	Mailer      smtp.Mailer
	Alerter     sns.Alerter
	Templates   contactRenderer
	AdminEmail  string
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:       deps.ContactRepo,
		mailer:     deps.Mailer,
		alerter:    deps.Alerter,
		render:     deps.Templates,
		adminEmail: deps.AdminEmail,
		now:        time.Now,
	}
	if s.alerter == nil {
		s.alerter = sns.NopAlerter{}
	}
	return s
}

func (s *service) Submit(ctx context.Context, input domain.ContactInput) (*domain.ContactMessage, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	now := s.now().UTC()
	c := &domain.ContactMessage{
		ContactID: id.New(),
		Name:      input.Name,
		Email:     input.Email,
		Message:   input.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	s.notify(ctx, c)
	return c, nil
}

func (s *service) notify(ctx context.Context, c *domain.ContactMessage) {
	if s.adminEmail != "" {
		if html, err := s.render.ContactAdmin(c); err != nil {
			slog.Error("render contact admin email", "contact_id", c.ContactID, "err", err)
		} else if err := s.mailer.Send(ctx, smtp.Message{
			To:      s.adminEmail,
			Subject: "New Project Inquiry: " + c.Name,
			HTML:    html,
			ReplyTo: c.Email,
		}); err != nil {
			slog.Warn("contact admin email failed", "contact_id", c.ContactID, "err", err)
		}
	}

	if html, err := s.render.ContactUser(c); err != nil {
		slog.Error("render contact user email", "contact_id", c.ContactID, "err", err)
	} else if err := s.mailer.Send(ctx, smtp.Message{
		To:      c.Email,
		Subject: fmt.Sprintf("Thank you for your inquiry, %s!", c.Name),
		HTML:    html,
	}); err != nil {
		slog.Warn("contact acknowledgement email failed", "contact_id", c.ContactID, "err", err)
	}

	msg := fmt.Sprintf("New contact message from %s <%s>\n\n%s", c.Name, c.Email, c.Message)
	if err := s.alerter.Alert(ctx, "New contact: "+c.Name, msg); err != nil {
		slog.Warn("contact alert failed", "contact_id", c.ContactID, "err", err)
	}
}

// List returns messages newest first.
func (s *service) List(ctx context.Context) ([]domain.ContactMessage, error) {
	msgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
	return msgs, nil
}

func (s *service) Get(ctx context.Context, contactID string) (*domain.ContactMessage, error) {
	return s.repo.Get(ctx, contactID)
}

func (s *service) Update(ctx context.Context, contactID string, req domain.UpdateContactRequest) (*domain.ContactMessage, error) {
	updates := map[string]interface{}{}
	if req.Read != nil {
		updates[fieldRead] = *req.Read
	}
	if req.Responded != nil {
		updates[fieldResponded] = *req.Responded
	}
	return s.repo.Update(ctx, contactID, updates)
}

func (s *service) Delete(ctx context.Context, contactID string) error {
	return s.repo.Delete(ctx, contactID)
}
