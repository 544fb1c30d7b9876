package dynamo

import (
	"context"

	"github.com/portfolio-api/internal/domain"
)

const testimonialKey = "testimonial_id"

// TestimonialRepo provides typed DynamoDB operations for the testimonials table.
type TestimonialRepo struct {
	client    API
	tableName string
}

func NewTestimonialRepo(client API, tableName string) *TestimonialRepo {
	return &TestimonialRepo{client: client, tableName: tableName}
}

func (r *TestimonialRepo) Put(ctx context.Context, t *domain.Testimonial) error {
	return putItem(ctx, r.client, r.tableName, t)
}

func (r *TestimonialRepo) Get(ctx context.Context, testimonialID string) (*domain.Testimonial, error) {
	return getItem[domain.Testimonial](ctx, r.client, r.tableName, testimonialKey, testimonialID)
}

func (r *TestimonialRepo) List(ctx context.Context, approvedOnly bool) ([]domain.Testimonial, error) {
	var f *boolFilter
	if approvedOnly {
		f = &boolFilter{attr: fieldApproved, value: true}
	}
	return scanAll[domain.Testimonial](ctx, r.client, r.tableName, f)
}

func (r *TestimonialRepo) Update(ctx context.Context, testimonialID string, updates map[string]interface{}) (*domain.Testimonial, error) {
	return updateItem[domain.Testimonial](ctx, r.client, r.tableName, testimonialKey, testimonialID, updates)
}

func (r *TestimonialRepo) Delete(ctx context.Context, testimonialID string) error {
	return deleteItem(ctx, r.client, r.tableName, testimonialKey, testimonialID)
}

func (r *TestimonialRepo) Count(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName, nil)
}

func (r *TestimonialRepo) CountApproved(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName, &boolFilter{attr: fieldApproved, value: true})
}
