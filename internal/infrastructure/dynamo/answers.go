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

// AnswerRepo provides typed DynamoDB operations for the answers table.
// The question_id GSI lists a question's answers; answer ids are ULIDs, so the
// ascending index order is creation order.
type AnswerRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAnswerRepo(client *dynamodb.Client, tableName string) *AnswerRepo {
	return &AnswerRepo{client: client, tableName: tableName}
}

func (r *AnswerRepo) Put(ctx context.Context, a *domain.Answer) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AnswerRepo) Get(ctx context.Context, answerID string) (*domain.Answer, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("answer_id", answerID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("answer not found: %w", domain.ErrNotFound)
	}
	var a domain.Answer
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnswerRepo) ListByQuestion(ctx context.Context, questionID string) ([]domain.Answer, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("question_id-answer_id-index"),
		KeyConditionExpression: aws.String("question_id = :qid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":qid": &types.AttributeValueMemberS{Value: questionID},
		},
	})
	if err != nil {
		return nil, err
	}
	var answers []domain.Answer
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *AnswerRepo) Update(ctx context.Context, answerID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("answer_id", answerID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *AnswerRepo) Delete(ctx context.Context, answerID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("answer_id", answerID),
	})
	return err
}
