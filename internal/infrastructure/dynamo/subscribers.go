package dynamo

import (
	"context"
	"strings"
	"time"

	"github.com/portfolio-api/internal/domain"
)

const subscriberKey = "subscriber_id"

// SubscriberRepo provides typed DynamoDB operations for the newsletter
// subscribers table. Emails are unique through email-index; uniqueness is
// enforced by the service looking up before insert.
type SubscriberRepo struct {
	client    API
	tableName string
}

func NewSubscriberRepo(client API, tableName string) *SubscriberRepo {
	return &SubscriberRepo{client: client, tableName: tableName}
}

func (r *SubscriberRepo) Put(ctx context.Context, s *domain.Subscriber) error {
	return putItem(ctx, r.client, r.tableName, s)
}

func (r *SubscriberRepo) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	return queryOne[domain.Subscriber](ctx, r.client, r.tableName, emailIndex, fieldEmail, strings.ToLower(strings.TrimSpace(email)))
}

// List returns every subscriber, or only active ones when activeOnly is set.
func (r *SubscriberRepo) List(ctx context.Context, activeOnly bool) ([]domain.Subscriber, error) {
	var f *boolFilter
	if activeOnly {
		f = &boolFilter{attr: fieldActive, value: true}
	}
	return scanAll[domain.Subscriber](ctx, r.client, r.tableName, f)
}

func (r *SubscriberRepo) Update(ctx context.Context, subscriberID string, updates map[string]interface{}) (*domain.Subscriber, error) {
	return updateItem[domain.Subscriber](ctx, r.client, r.tableName, subscriberKey, subscriberID, updates)
}

// Reactivate flips an inactive subscriber back on with a fresh unsubscribe token.
// name is only written when non-empty.
func (r *SubscriberRepo) Reactivate(ctx context.Context, subscriberID, name, token string, at time.Time) (*domain.Subscriber, error) {
	updates := map[string]interface{}{
		fieldActive:           true,
		fieldSubscribedAt:     at.UTC(),
		fieldUnsubscribeToken: token,
	}
	if name != "" {
		updates[fieldName] = name
	}
	return r.Update(ctx, subscriberID, updates)
}

// Deactivate marks a subscriber as unsubscribed. The record is kept.
func (r *SubscriberRepo) Deactivate(ctx context.Context, subscriberID string) error {
	_, err := r.Update(ctx, subscriberID, map[string]interface{}{fieldActive: false})
	return err
}

func (r *SubscriberRepo) Delete(ctx context.Context, subscriberID string) error {
	return deleteItem(ctx, r.client, r.tableName, subscriberKey, subscriberID)
}

func (r *SubscriberRepo) Count(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName, nil)
}

func (r *SubscriberRepo) CountActive(ctx context.Context) (int, error) {
	return countItems(ctx, r.client, r.tableName, &boolFilter{attr: fieldActive, value: true})
}
