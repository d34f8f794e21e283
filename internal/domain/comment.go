package domain

import "time"

// Comment parent kinds.
const (
	ParentQuestion = "question"
	ParentAnswer   = "answer"
)

type Comment struct {
	CommentID  string    `json:"id" dynamodbav:"comment_id"`
	ParentType string    `json:"parent_type" dynamodbav:"parent_type"` // "question" | "answer"
	ParentID   string    `json:"parent_id" dynamodbav:"parent_id"`
	AuthorID   string    `json:"author_id" dynamodbav:"author_id"`
	Body       string    `json:"body" dynamodbav:"body"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
}

type CreateCommentRequest struct {
	ParentType string `json:"parent_type" validate:"required,oneof=question answer"`
	ParentID   string `json:"parent_id" validate:"required"`
	Body       string `json:"body" validate:"required,max=600"`
}
