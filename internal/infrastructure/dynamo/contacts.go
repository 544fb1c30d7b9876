package dynamo

import (
	"context"

	"github.com/portfolio-api/internal/domain"
)

const contactKey = "contact_id"

// ContactRepo provides typed DynamoDB operations for the contacts table.
type ContactRepo struct {
	client    API
	tableName string
}

func NewContactRepo(client API, tableName string) *ContactRepo {
	return &ContactRepo{client: client, tableName: tableName}
}

func (r *ContactRepo) Put(ctx context.Context, c *domain.ContactMessage) error {
	return putItem(ctx, r.client, r.tableName, c)
}

func (r *ContactRepo) Get(ctx context.Context, contactID string) (*domain.ContactMessage, error) {
	return getItem[domain.ContactMessage](ctx, r.client, r.tableName, contactKey, contactID)
}

func (r *ContactRepo) List(ctx context.Context) ([]domain.ContactMessage, error) {
	return scanAll[domain.ContactMessage](ctx, r.client, r.tableName, nil)
}

func (r *ContactRepo) Update(ctx context.Context, contactID string, updates map[string]interface{}) (*domain.ContactMessage, error) {
	return updateItem[domain.ContactMessage](ctx, r.client, r.tableName, contactKey, contactID, updates)
}

func (r *ContactRepo) Delete(ctx context.Context, contactID string) error {
	return deleteItem(ctx, r.client, r.tableName, contactKey, contactID)
}

func (r *ContactRepo) Count(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName, nil)
}

func (r *ContactRepo) CountUnread(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName, &boolFilter{attr: fieldRead, value: false})
}
