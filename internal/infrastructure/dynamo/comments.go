package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-qna-api/internal/domain"
)

// CommentRepo provides typed DynamoDB operations for the comments table.
// The parent_id GSI lists comments under one question or answer.
type CommentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCommentRepo(client *dynamodb.Client, tableName string) *CommentRepo {
	return &CommentRepo{client: client, tableName: tableName}
}

func (r *CommentRepo) Put(ctx context.Context, c *domain.Comment) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal comment: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CommentRepo) Get(ctx context.Context, commentID string) (*domain.Comment, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("comment_id", commentID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("comment not found: %w", domain.ErrNotFound)
	}
	var c domain.Comment
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) ListByParent(ctx context.Context, parentID string) ([]domain.Comment, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("parent_id-comment_id-index"),
		KeyConditionExpression: aws.String("parent_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: parentID},
		},
	})
	if err != nil {
		return nil, err
	}
	var comments []domain.Comment
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepo) Delete(ctx context.Context, commentID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("comment_id", commentID),
	})
	return err
}
