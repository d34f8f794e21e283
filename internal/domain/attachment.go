package domain

import "time"

type Attachment struct {
	AttachmentID string    `json:"id" dynamodbav:"attachment_id"`
	OwnerID      string    `json:"owner_id" dynamodbav:"owner_id"`
	QuestionID   string    `json:"question_id,omitempty" dynamodbav:"question_id"`
	FileName     string    `json:"file_name" dynamodbav:"file_name"`
	ContentType  string    `json:"content_type" dynamodbav:"content_type"`
	Size         int64     `json:"size" dynamodbav:"size"`
	S3Key        string    `json:"-" dynamodbav:"s3_key"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
}
