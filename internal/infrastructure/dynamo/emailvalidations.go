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

// EmailValidationRepo manages email verification codes.
// PK: email, SK: validation_id (ULID). ULIDs are lexicographically ordered by
// creation time, so a descending query with Limit=1 yields the most recently
// created row — the only one the verification flow may accept.
type EmailValidationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewEmailValidationRepo(client *dynamodb.Client, tableName string) *EmailValidationRepo {
	return &EmailValidationRepo{client: client, tableName: tableName}
}

func (r *EmailValidationRepo) Put(ctx context.Context, v *domain.EmailValidation) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal email validation: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Latest returns the most recently created validation row for an email.
func (r *EmailValidationRepo) Latest(ctx context.Context, email string) (*domain.EmailValidation, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("email = :e"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("email validation not found: %w", domain.ErrNotFound)
	}
	var v domain.EmailValidation
	if err := attributevalue.UnmarshalMap(out.Items[0], &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *EmailValidationRepo) Get(ctx context.Context, email, validationID string) (*domain.EmailValidation, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("email", email, "validation_id", validationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("email validation not found: %w", domain.ErrNotFound)
	}
	var v domain.EmailValidation
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// MarkVerified flips the verified flag on a single row. The write is a
// single-item update, so concurrent verifications of the same row cannot both
// observe an unverified state after either completes.
func (r *EmailValidationRepo) MarkVerified(ctx context.Context, email, validationID string) error {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{fieldVerified: true})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey("email", email, "validation_id", validationID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *EmailValidationRepo) Delete(ctx context.Context, email, validationID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("email", email, "validation_id", validationID),
	})
	return err
}
