package dashboard

import (
	"context"

	"github.com/portfolio-api/internal/domain"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type blogCounter interface {
	Count(ctx context.Context) (int, error)
	CountPublished(ctx context.Context) (int, error)
}

type testimonialCounter interface {
	Count(ctx context.Context) (int, error)
	CountApproved(ctx context.Context) (int, error)
}

type contactCounter interface {
	Count(ctx context.Context) (int, error)
	CountUnread(ctx context.Context) (int, error)
}

type subscriberCounter interface {
	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
}

type service struct {
	blogs        blogCounter
	testimonials testimonialCounter
	contacts     contactCounter
	subscribers  subscriberCounter
}

type ServiceDeps struct {
	BlogRepo        blogCounter
	TestimonialRepo testimonialCounter
	ContactRepo     contactCounter
	SubscriberRepo  subscriberCounter
}

func NewService(deps ServiceDeps) Service {
	return &service{
		blogs:        deps.BlogRepo,
		testimonials: deps.TestimonialRepo,
		contacts:     deps.ContactRepo,
		subscribers:  deps.SubscriberRepo,
	}
}

// Stats runs all eight counts concurrently. The first failure cancels the
// scans still in flight.
func (s *service) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var (
		blogs, published         int
		testimonials, approved   int
		contacts, unread         int
		subscribers, activeCount int
	)
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			*dst = n
			return err
		})
	}
	count(&blogs, s.blogs.Count)
	count(&published, s.blogs.CountPublished)
	count(&testimonials, s.testimonials.Count)
	count(&approved, s.testimonials.CountApproved)
	count(&contacts, s.contacts.Count)
	count(&unread, s.contacts.CountUnread)
	count(&subscribers, s.subscribers.Count)
	count(&activeCount, s.subscribers.CountActive)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.DashboardStats{
		Blogs:        domain.BlogStats{Total: blogs, Published: published, Draft: blogs - published},
		Testimonials: domain.TestimonialStats{Total: testimonials, Approved: approved, Pending: testimonials - approved},
		Messages:     domain.MessageStats{Total: contacts, Unread: unread, Read: contacts - unread},
		Subscribers:  domain.SubscriberCounts{Total: subscribers, Active: activeCount},
	}, nil
}
