package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/portfolio-api/internal/domain"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// updateExpr is a ready-to-send UpdateExpression with its placeholder maps.
type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr converts a map of field->value into a DynamoDB SET expression,
// followed by a REMOVE clause for any removes. Keys are sorted so the output is
// deterministic.
func buildUpdateExpr(updates map[string]interface{}, removes ...string) (updateExpr, error) {
	ue := updateExpr{
		Names:  make(map[string]string),
		Values: make(map[string]types.AttributeValue),
	}
	if len(updates) == 0 && len(removes) == 0 {
		return updateExpr{}, fmt.Errorf("no fields to update")
	}

	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sets []string
	for i, k := range keys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(updates[k])
		if err != nil {
			return updateExpr{}, fmt.Errorf("marshal field %s: %w", k, err)
		}
		ue.Names[nameKey] = k
		ue.Values[valueKey] = av
		sets = append(sets, nameKey+" = "+valueKey)
	}

	var clauses []string
	if len(sets) > 0 {
		clauses = append(clauses, "SET "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		sorted := append([]string(nil), removes...)
		sort.Strings(sorted)
		var rm []string
		for i, k := range sorted {
			nameKey := fmt.Sprintf("#r%d", i)
			ue.Names[nameKey] = k
			rm = append(rm, nameKey)
		}
		clauses = append(clauses, "REMOVE "+strings.Join(rm, ", "))
	}
	ue.Expr = strings.Join(clauses, " ")
	if len(ue.Values) == 0 {
		ue.Values = nil
	}
	return ue, nil
}

// withTimestamp stamps updated_at on an update map.
func withTimestamp(updates map[string]interface{}) map[string]interface{} {
	if updates == nil {
		updates = make(map[string]interface{})
	}
	updates[fieldUpdatedAt] = time.Now().UTC()
	return updates
}

// isConditionFailed reports whether err is a failed ConditionExpression.
func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// boolFilter is a FilterExpression matching attr = value.
type boolFilter struct {
	attr  string
	value bool
}

func (f *boolFilter) apply(in *dynamodb.ScanInput) {
	if f == nil {
		return
	}
	in.FilterExpression = aws.String("#fa = :fv")
	in.ExpressionAttributeNames = map[string]string{"#fa": f.attr}
	in.ExpressionAttributeValues = map[string]types.AttributeValue{
		":fv": &types.AttributeValueMemberBOOL{Value: f.value},
	}
}

// scanAll walks every page of a table scan and unmarshals the items into T.
func scanAll[T any](ctx context.Context, client API, table string, filter *boolFilter) ([]T, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(table)}
	filter.apply(in)

	var items []T
	for {
		out, err := client.Scan(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		var page []T
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", table, err)
		}
		items = append(items, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// countItems returns the number of items matching filter using Select COUNT,
// so no item bodies cross the wire.
func countItems(ctx context.Context, client API, table string, filter *boolFilter) (int, error) {
	in := &dynamodb.ScanInput{
		TableName: aws.String(table),
		Select:    types.SelectCount,
	}
	filter.apply(in)

	total := 0
	for {
		out, err := client.Scan(ctx, in)
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", table, err)
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// getItem loads one item by its string key into T, or returns ErrNotFound.
func getItem[T any](ctx context.Context, client API, table, keyName, id string) (*T, error) {
	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       strKey(keyName, id),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("%s %s: %w", table, id, domain.ErrNotFound)
	}
	var v T
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", table, err)
	}
	return &v, nil
}

// putItem writes v in full.
func putItem(ctx context.Context, client API, table string, v interface{}) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", table, err)
	}
	_, err = client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}

// updateItem applies updates to an existing item and returns the new image.
// A missing item yields ErrNotFound rather than an upsert.
func updateItem[T any](ctx context.Context, client API, table, keyName, id string, updates map[string]interface{}) (*T, error) {
	ue, err := buildUpdateExpr(withTimestamp(updates))
	if err != nil {
		return nil, err
	}
	ue.Names["#pk"] = keyName
	out, err := client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       strKey(keyName, id),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return nil, fmt.Errorf("%s %s: %w", table, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	var v T
	if err := attributevalue.UnmarshalMap(out.Attributes, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", table, err)
	}
	return &v, nil
}

// deleteItem removes an item, returning ErrNotFound when it did not exist.
func deleteItem(ctx context.Context, client API, table, keyName, id string) error {
	_, err := client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(table),
		Key:                      strKey(keyName, id),
		ConditionExpression:      aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": keyName},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("%s %s: %w", table, id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// queryOne returns the first item of a GSI equality query, or ErrNotFound.
func queryOne[T any](ctx context.Context, client API, table, index, attr, value string) (*T, error) {
	out, err := client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", index, err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("%s %s: %w", table, value, domain.ErrNotFound)
	}
	var v T
	if err := attributevalue.UnmarshalMap(out.Items[0], &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", table, err)
	}
	return &v, nil
}
