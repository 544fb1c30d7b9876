package dynamo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/portfolio-api/internal/domain"
)

const accountKey = "account_id"

// AccountRepo provides typed DynamoDB operations for the accounts table.
type AccountRepo struct {
	client    API
	tableName string
}

func NewAccountRepo(client API, tableName string) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName}
}

func (r *AccountRepo) Put(ctx context.Context, a *domain.Account) error {
	return putItem(ctx, r.client, r.tableName, a)
}

// GetByEmail looks an account up through email-index. Emails are stored lowercased.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return queryOne[domain.Account](ctx, r.client, r.tableName, emailIndex, fieldEmail, strings.ToLower(strings.TrimSpace(email)))
}

// SetOTP stores a pending code hash and its expiry, replacing any previous one.
func (r *AccountRepo) SetOTP(ctx context.Context, accountID, hash string, expires time.Time) error {
	ue, err := buildUpdateExpr(withTimestamp(map[string]interface{}{
		fieldOTPToken:   hash,
		fieldOTPExpires: expires.UTC(),
	}))
	if err != nil {
		return err
	}
	ue.Names["#pk"] = accountKey
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(accountKey, accountID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("account %s: %w", accountID, domain.ErrNotFound)
		}
		return fmt.Errorf("set otp: %w", err)
	}
	return nil
}

// ClearOTP removes the pending code, but only while otp_token still equals
// hash. If another code was issued or the code was already consumed the
// update is rejected with ErrMissingOTP.
func (r *AccountRepo) ClearOTP(ctx context.Context, accountID, hash string) error {
	ue, err := buildUpdateExpr(withTimestamp(nil), fieldOTPExpires, fieldOTPToken)
	if err != nil {
		return err
	}
	ue.Names["#tok"] = fieldOTPToken
	ue.Values[":h"] = &types.AttributeValueMemberS{Value: hash}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(accountKey, accountID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#tok = :h"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("clear otp: %w", domain.ErrMissingOTP)
		}
		return fmt.Errorf("clear otp: %w", err)
	}
	return nil
}

// Ping issues a cheap keyed read to confirm the table is reachable.
func (r *AccountRepo) Ping(ctx context.Context) error {
	_, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  strKey(accountKey, "_ping"),
		ProjectionExpression: aws.String(accountKey),
	})
	if err != nil {
		return fmt.Errorf("ping %s: %w", r.tableName, err)
	}
	return nil
}
