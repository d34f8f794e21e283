package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-qna-api/internal/domain"
)

// QuestionRepo provides typed DynamoDB operations for the questions table.
type QuestionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewQuestionRepo(client *dynamodb.Client, tableName string) *QuestionRepo {
	return &QuestionRepo{client: client, tableName: tableName}
}

func (r *QuestionRepo) Put(ctx context.Context, q *domain.Question) error {
	item, err := attributevalue.MarshalMap(q)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *QuestionRepo) Get(ctx context.Context, questionID string) (*domain.Question, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("question_id", questionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("question not found: %w", domain.ErrNotFound)
	}
	var q domain.Question
	if err := attributevalue.UnmarshalMap(out.Item, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepo) Update(ctx context.Context, questionID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("question_id", questionID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

// IncrementAnswerCount bumps the denormalized answer counter by delta
// (negative on answer deletion) with a single atomic ADD.
func (r *QuestionRepo) IncrementAnswerCount(ctx context.Context, questionID string, delta int) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("question_id", questionID),
		UpdateExpression: aws.String("ADD answer_count :d"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", delta)},
		},
	})
	return err
}

func (r *QuestionRepo) Delete(ctx context.Context, questionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("question_id", questionID),
	})
	return err
}

// ScanPage returns a page of questions. cursor is a base64-encoded question_id.
func (r *QuestionRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Question, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		questionID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("question_id", questionID)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var questions []domain.Question
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &questions); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["question_id"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return questions, nextCursor, nil
}
