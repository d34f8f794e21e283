package domain

import "time"

type Question struct {
	QuestionID       string    `json:"id" dynamodbav:"question_id"`
	AuthorID         string    `json:"author_id" dynamodbav:"author_id"`
	Title            string    `json:"title" dynamodbav:"title"`
	Body             string    `json:"body" dynamodbav:"body"`
	Tags             []string  `json:"tags,omitempty" dynamodbav:"tags"`
	AnswerCount      int       `json:"answer_count" dynamodbav:"answer_count"`
	AcceptedAnswerID string    `json:"accepted_answer_id,omitempty" dynamodbav:"accepted_answer_id"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateQuestionRequest struct {
	Title string   `json:"title" validate:"required,min=8,max=180"`
	Body  string   `json:"body" validate:"required"`
	Tags  []string `json:"tags" validate:"max=5,dive,min=1,max=32"`
}

type UpdateQuestionRequest struct {
	Title *string   `json:"title" validate:"omitempty,min=8,max=180"`
	Body  *string   `json:"body"`
	Tags  *[]string `json:"tags" validate:"omitempty,max=5,dive,min=1,max=32"`
}
