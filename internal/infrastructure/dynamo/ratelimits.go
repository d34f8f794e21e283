package dynamo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// RateLimitRepo stores attempt counters keyed by (action, subject, windowStart).
// Increment is a single atomic ADD update, so concurrent attempts within one
// window never lose counts. Rows expire via TTL on expires_at.
type RateLimitRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRateLimitRepo(client *dynamodb.Client, tableName string) *RateLimitRepo {
	return &RateLimitRepo{client: client, tableName: tableName}
}

// Increment adds one attempt to the counter row and returns the new total.
// expiresAt sets the row TTL so stale windows are swept by DynamoDB.
func (r *RateLimitRepo) Increment(ctx context.Context, key string, expiresAt int64) (int64, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("limit_key", key),
		UpdateExpression: aws.String("ADD attempts :one SET expires_at = :exp"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":exp": &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt, 10)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("increment rate limit counter: %w", err)
	}
	attr, ok := out.Attributes["attempts"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("rate limit counter missing attempts attribute")
	}
	n, err := strconv.ParseInt(attr.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse attempts counter: %w", err)
	}
	return n, nil
}
