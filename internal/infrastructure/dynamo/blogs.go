package dynamo

import (
	"context"

	"github.com/portfolio-api/internal/domain"
)

const blogKey = "blog_id"

// BlogRepo provides typed DynamoDB operations for the blogs table.
type BlogRepo struct {
	client    API
	tableName string
}

func NewBlogRepo(client API, tableName string) *BlogRepo {
	return &BlogRepo{client: client, tableName: tableName}
}

func (r *BlogRepo) Put(ctx context.Context, b *domain.Blog) error {
	return putItem(ctx, r.client, r.tableName, b)
}

func (r *BlogRepo) Get(ctx context.Context, blogID string) (*domain.Blog, error) {
	return getItem[domain.Blog](ctx, r.client, r.tableName, blogKey, blogID)
}

// List returns all blogs, or only published ones when publishedOnly is set.
func (r *BlogRepo) List(ctx context.Context, publishedOnly bool) ([]domain.Blog, error) {
	var f *boolFilter
	if publishedOnly {
		f = &boolFilter{attr: fieldPublished, value: true}
	}
	return scanAll[domain.Blog](ctx, r.client, r.tableName, f)
}

func (r *BlogRepo) Update(ctx context.Context, blogID string, updates map[string]interface{}) (*domain.Blog, error) {
	return updateItem[domain.Blog](ctx, r.client, r.tableName, blogKey, blogID, updates)
}

func (r *BlogRepo) Delete(ctx context.Context, blogID string) error {
	return deleteItem(ctx, r.client, r.tableName, blogKey, blogID)
}

func (r *BlogRepo) Count(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName, nil)
}

func (r *BlogRepo) CountPublished(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName, &boolFilter{attr: fieldPublished, value: true})
}
