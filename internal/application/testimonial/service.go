package testimonial

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/pkg/id"
	"github.com/portfolio-api/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName     = "name"
	fieldPosition = "position"
	fieldCompany  = "company"
	fieldContent  = "content"
	fieldRating   = "rating"
	fieldImage    = "image"
	fieldFeatured = "featured"
	fieldApproved = "approved"
)

type Service interface {
	List(ctx context.Context, approvedOnly bool) ([]domain.Testimonial, error)
	Get(ctx context.Context, testimonialID string) (*domain.Testimonial, error)
	Create(ctx context.Context, input domain.TestimonialInput) (*domain.Testimonial, error)
	Update(ctx context.Context, testimonialID string, req domain.UpdateTestimonialRequest) (*domain.Testimonial, error)
	Delete(ctx context.Context, testimonialID string) error
}

type testimonialStore interface {
	List(ctx context.Context, approvedOnly bool) ([]domain.Testimonial, error)
	Get(ctx context.Context, testimonialID string) (*domain.Testimonial, error)
	Put(ctx context.Context, t *domain.Testimonial) error
	Update(ctx context.Context, testimonialID string, updates map[string]interface{}) (*domain.Testimonial, error)
	Delete(ctx context.Context, testimonialID string) error
}

type service struct {
	repo testimonialStore
	now  func() time.Time
}

func NewService(repo testimonialStore) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) List(ctx context.Context, approvedOnly bool) ([]domain.Testimonial, error) {
	ts, err := s.repo.List(ctx, approvedOnly)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].CreatedAt.After(ts[j].CreatedAt) })
	return ts, nil
}

func (s *service) Get(ctx context.Context, testimonialID string) (*domain.Testimonial, error) {
	return s.repo.Get(ctx, testimonialID)
}

func (s *service) Create(ctx context.Context, input domain.TestimonialInput) (*domain.Testimonial, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	now := s.now().UTC()
	t := &domain.Testimonial{
		TestimonialID: id.New(),
		Name:          input.Name,
		Position:      input.Position,
		Company:       input.Company,
		Content:       input.Content,
		Rating:        input.Rating,
		Image:         input.Image,
		Featured:      input.Featured,
		Approved:      input.Approved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, testimonialID string, req domain.UpdateTestimonialRequest) (*domain.Testimonial, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	updates := map[string]interface{}{}
	for field, v := range map[string]*string{
		fieldName:     req.Name,
		fieldPosition: req.Position,
		fieldCompany:  req.Company,
		fieldContent:  req.Content,
		fieldImage:    req.Image,
	} {
		if v != nil {
			updates[field] = *v
		}
	}
	if req.Rating != nil {
		updates[fieldRating] = *req.Rating
	}
	if req.Featured != nil {
		updates[fieldFeatured] = *req.Featured
	}
	if req.Approved != nil {
		updates[fieldApproved] = *req.Approved
	}
	return s.repo.Update(ctx, testimonialID, updates)
}

func (s *service) Delete(ctx context.Context, testimonialID string) error {
	return s.repo.Delete(ctx, testimonialID)
}
