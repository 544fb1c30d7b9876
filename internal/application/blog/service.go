package blog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/infrastructure/smtp"
	"github.com/portfolio-api/internal/pkg/emails"
	"github.com/portfolio-api/internal/pkg/id"
	"github.com/portfolio-api/internal/pkg/validate"
	"golang.org/x/sync/errgroup"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldTitle      = "title"
	fieldExcerpt    = "excerpt"
	fieldContent    = "content"
	fieldReadTime   = "read_time"
	fieldCategory   = "category"
	fieldTags       = "tags"
	fieldCoverImage = "cover_image"
	fieldFeatured   = "featured"
	fieldPublished  = "published"
)

const dateLayout = "2006-01-02"

// newsletterConcurrency caps simultaneous SMTP sessions during a post announcement.
const newsletterConcurrency = 5

// NewsletterResult summarizes a post announcement run.
type NewsletterResult struct {
	Message   string `json:"message"`
	SentTo    int    `json:"sentTo"`
	Failed    int    `json:"failed"`
	BlogTitle string `json:"blogTitle"`
}

type Service interface {
	List(ctx context.Context, publishedOnly bool) ([]domain.Blog, error)
	Get(ctx context.Context, blogID string) (*domain.Blog, error)
	Create(ctx context.Context, req domain.CreateBlogRequest) (*domain.Blog, error)
	Update(ctx context.Context, blogID string, req domain.UpdateBlogRequest) (*domain.Blog, error)
	Delete(ctx context.Context, blogID string) error
	// SendNewsletter emails a published post to every active subscriber.
	SendNewsletter(ctx context.Context, blogID string) (*NewsletterResult, error)
}

type blogStore interface {
	List(ctx context.Context, publishedOnly bool) ([]domain.Blog, error)
	Get(ctx context.Context, blogID string) (*domain.Blog, error)
	Put(ctx context.Context, b *domain.Blog) error
	Update(ctx context.Context, blogID string, updates map[string]interface{}) (*domain.Blog, error)
	Delete(ctx context.Context, blogID string) error
}

type subscriberLister interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Subscriber, error)
}

type notificationRenderer interface {
	BlogNotification(n emails.BlogNotification) (string, error)
	UnsubscribeURL(email, token string) string
	BlogURL(blogID string) string
}

type service struct {
	repo        blogStore
	subscribers subscriberLister
	mailer      smtp.Mailer
	render      notificationRenderer
	author      string
	now         func() time.Time
}

type ServiceDeps struct {
	BlogRepo       blogStore
	SubscriberRepo subscriberLister
	Mailer         smtp.Mailer
	Templates      notificationRenderer
	Author         string
	Now            func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:        deps.BlogRepo,
		subscribers: deps.SubscriberRepo,
		mailer:      deps.Mailer,
		render:      deps.Templates,
		author:      deps.Author,
		now:         deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.author == "" {
		s.author = "Admin"
	}
	return s
}

// List returns blogs newest first.
func (s *service) List(ctx context.Context, publishedOnly bool) ([]domain.Blog, error) {
	blogs, err := s.repo.List(ctx, publishedOnly)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(blogs, func(i, j int) bool {
		return blogs[i].CreatedAt.After(blogs[j].CreatedAt)
	})
	return blogs, nil
}

func (s *service) Get(ctx context.Context, blogID string) (*domain.Blog, error) {
	return s.repo.Get(ctx, blogID)
}

func (s *service) Create(ctx context.Context, req domain.CreateBlogRequest) (*domain.Blog, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	now := s.now().UTC()
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	b := &domain.Blog{
		BlogID:     id.New(),
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		Author:     s.author,
		Date:       now.Format(dateLayout),
		ReadTime:   req.ReadTime,
		Category:   req.Category,
		Tags:       tags,
		Featured:   req.Featured,
		CoverImage: req.CoverImage,
		Published:  req.Published,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Put(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, blogID string, req domain.UpdateBlogRequest) (*domain.Blog, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates[fieldTitle] = *req.Title
	}
	if req.Excerpt != nil {
		updates[fieldExcerpt] = *req.Excerpt
	}
	if req.Content != nil {
		updates[fieldContent] = *req.Content
	}
	if req.ReadTime != nil {
		updates[fieldReadTime] = *req.ReadTime
	}
	if req.Category != nil {
		updates[fieldCategory] = *req.Category
	}
	if req.Tags != nil {
		updates[fieldTags] = *req.Tags
	}
	if req.CoverImage != nil {
		updates[fieldCoverImage] = *req.CoverImage
	}
	if req.Featured != nil {
		updates[fieldFeatured] = *req.Featured
	}
	if req.Published != nil {
		updates[fieldPublished] = *req.Published
	}
	return s.repo.Update(ctx, blogID, updates)
}

func (s *service) Delete(ctx context.Context, blogID string) error {
	return s.repo.Delete(ctx, blogID)
}

func (s *service) SendNewsletter(ctx context.Context, blogID string) (*NewsletterResult, error) {
	b, err := s.repo.Get(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if !b.Published {
		return nil, fmt.Errorf("cannot send newsletter for unpublished blog: %w", domain.ErrBadRequest)
	}
	subs, err := s.subscribers.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, fmt.Errorf("no active subscribers found: %w", domain.ErrBadRequest)
	}

	base := emails.BlogNotification{
		Title:   b.Title,
		Excerpt: b.Excerpt,
		Date:    s.displayDate(b.Date),
		Author:  b.Author,
		URL:     s.render.BlogURL(b.BlogID),
	}
	if b.CoverImage != nil {
		base.Image = *b.CoverImage
	}
	subject := "New Blog Post: " + b.Title

	res := &NewsletterResult{Message: "Newsletter sent successfully", BlogTitle: b.Title}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(newsletterConcurrency)
	for _, sub := range subs {
		g.Go(func() error {
			n := base
			n.SubscriberName = sub.Name
			if n.SubscriberName == "" {
				n.SubscriberName = "there"
			}
			n.UnsubscribeURL = s.render.UnsubscribeURL(sub.Email, sub.UnsubscribeToken)
			html, err := s.render.BlogNotification(n)
			if err != nil {
				return fmt.Errorf("render newsletter: %v: %w", err, domain.ErrInternal)
			}
			msg := smtp.Message{
				To:      sub.Email,
				Subject: subject,
				HTML:    html,
				Headers: map[string]string{"List-Unsubscribe": "<" + n.UnsubscribeURL + ">"},
			}
			err = s.mailer.Send(gctx, msg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("newsletter delivery failed", "blog_id", b.BlogID, "subscriber_id", sub.SubscriberID, "err", err)
				res.Failed++
				return nil
			}
			res.SentTo++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if res.SentTo == 0 {
		return nil, fmt.Errorf("newsletter delivery failed for all %d subscribers: %w", res.Failed, domain.ErrInternal)
	}
	return res, nil
}

// displayDate renders a YYYY-MM-DD post date as "Monday, January 2, 2006".
func (s *service) displayDate(date string) string {
	if t, err := time.Parse(dateLayout, date); err == nil {
		return t.Format("Monday, January 2, 2006")
	}
	return s.now().Format("January 2, 2006")
}
