package domain

import "time"

type Answer struct {
	AnswerID   string    `json:"id" dynamodbav:"answer_id"`
	QuestionID string    `json:"question_id" dynamodbav:"question_id"`
	AuthorID   string    `json:"author_id" dynamodbav:"author_id"`
	Body       string    `json:"body" dynamodbav:"body"`
	Accepted   bool      `json:"accepted" dynamodbav:"accepted"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateAnswerRequest struct {
	Body string `json:"body" validate:"required"`
}

type UpdateAnswerRequest struct {
	Body string `json:"body" validate:"required"`
}
