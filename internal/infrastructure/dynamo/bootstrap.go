package dynamo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/portfolio-api/internal/config"
)

// emailIndex is the GSI used for lookups by email on accounts and subscribers.
const emailIndex = "email-index"

type tableCreator interface {
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

type tableSpec struct {
	name       string
	key        string
	emailIndex bool
}

func tableSpecs(tables config.DynamoTables) []tableSpec {
	return []tableSpec{
		{name: tables.Accounts, key: accountKey, emailIndex: true},
		{name: tables.Subscribers, key: subscriberKey, emailIndex: true},
		{name: tables.Blogs, key: blogKey},
		{name: tables.Projects, key: projectKey},
		{name: tables.Testimonials, key: testimonialKey},
		{name: tables.Contacts, key: contactKey},
	}
}

// Bootstrap creates every table (and its email GSI where needed) unless it
// already exists. It is run on each startup and by the seed command.
func Bootstrap(ctx context.Context, client tableCreator, tables config.DynamoTables) {
	for _, spec := range tableSpecs(tables) {
		createTable(ctx, client, spec.input())
	}
}

func (t tableSpec) input() *dynamodb.CreateTableInput {
	in := &dynamodb.CreateTableInput{
		TableName:   aws.String(t.name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(t.key), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(t.key), KeyType: types.KeyTypeHash},
		},
	}
	if t.emailIndex {
		in.AttributeDefinitions = append(in.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(fieldEmail), AttributeType: types.ScalarAttributeTypeS,
		})
		in.GlobalSecondaryIndexes = []types.GlobalSecondaryIndex{{
			IndexName: aws.String(emailIndex),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(fieldEmail), KeyType: types.KeyTypeHash},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}}
	}
	return in
}

func createTable(ctx context.Context, client tableCreator, input *dynamodb.CreateTableInput) {
	_, err := client.CreateTable(ctx, input)
	var exists *types.ResourceInUseException
	switch {
	case err == nil:
		slog.Info("created table", "table", *input.TableName)
	case errors.As(err, &exists):
	default:
		slog.Warn("could not create table", "table", *input.TableName, "err", err)
	}
}
