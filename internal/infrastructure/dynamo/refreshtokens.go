package dynamo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-qna-api/internal/domain"
)

// RefreshTokenRepo provides typed DynamoDB operations for the refresh tokens table.
// PK: token_id. The user_id GSI supports bulk revocation on logout and login.
type RefreshTokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRefreshTokenRepo(client *dynamodb.Client, tableName string) *RefreshTokenRepo {
	return &RefreshTokenRepo{client: client, tableName: tableName}
}

func (r *RefreshTokenRepo) Put(ctx context.Context, t *domain.RefreshToken) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal refresh token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *RefreshTokenRepo) Get(ctx context.Context, tokenID string) (*domain.RefreshToken, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("token_id", tokenID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("refresh token not found: %w", domain.ErrNotFound)
	}
	var t domain.RefreshToken
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *RefreshTokenRepo) FindByUser(ctx context.Context, userID string) ([]domain.RefreshToken, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var tokens []domain.RefreshToken
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Delete removes one token row. Deleting a non-existent token is not an error.
func (r *RefreshTokenRepo) Delete(ctx context.Context, tokenID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("token_id", tokenID),
	})
	return err
}

// DeleteByUser removes every token row for a user. Each per-row delete is
// atomic; there is no cross-item transaction, so a concurrent login for the
// same user resolves last-write-wins.
func (r *RefreshTokenRepo) DeleteByUser(ctx context.Context, userID string) error {
	tokens, err := r.FindByUser(ctx, userID)
	if err != nil {
		return err
	}
	var firstErr error
	for _, t := range tokens {
		if err := r.Delete(ctx, t.TokenID); err != nil {
			slog.Warn("failed to delete refresh token during revocation", "user_id", userID, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
