package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         string    `json:"role" dynamodbav:"role"`
	Reputation   int       `json:"reputation" dynamodbav:"reputation"`
	About        string    `json:"about,omitempty" dynamodbav:"about"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=64"`
	About *string `json:"about"`
}
