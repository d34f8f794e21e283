package http

import (
	"context"
	"io"

	"github.com/go-qna-api/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	// GetByEmail resolves a user via the `email-index` GSI.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
}

// RefreshTokenRepository is the minimal interface the router requires from a
// refresh token store.
type RefreshTokenRepository interface {
	Put(ctx context.Context, t *domain.RefreshToken) error
	Get(ctx context.Context, tokenID string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, tokenID string) error
	// DeleteByUser removes every token for the user via the `user_id-index` GSI.
	DeleteByUser(ctx context.Context, userID string) error
}

// EmailValidationRepository is the minimal interface the router requires from
// an email validation store.
type EmailValidationRepository interface {
	Put(ctx context.Context, v *domain.EmailValidation) error
	// Latest returns the most recently issued validation row for the email.
	Latest(ctx context.Context, email string) (*domain.EmailValidation, error)
	MarkVerified(ctx context.Context, email, validationID string) error
}

// CounterStore is the minimal interface the router requires from the
// rate-limit counter backend.
type CounterStore interface {
	Increment(ctx context.Context, key string, expiresAt int64) (int64, error)
}

// QuestionRepository is the minimal interface the router requires from a question store.
type QuestionRepository interface {
	Put(ctx context.Context, q *domain.Question) error
	Get(ctx context.Context, questionID string) (*domain.Question, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Question, string, error)
	Update(ctx context.Context, questionID string, updates map[string]interface{}) error
	IncrementAnswerCount(ctx context.Context, questionID string, delta int) error
	Delete(ctx context.Context, questionID string) error
}

// AnswerRepository is the minimal interface the router requires from an answer store.
type AnswerRepository interface {
	Put(ctx context.Context, a *domain.Answer) error
	Get(ctx context.Context, answerID string) (*domain.Answer, error)
	ListByQuestion(ctx context.Context, questionID string) ([]domain.Answer, error)
	Update(ctx context.Context, answerID string, updates map[string]interface{}) error
	Delete(ctx context.Context, answerID string) error
}

// CommentRepository is the minimal interface the router requires from a comment store.
type CommentRepository interface {
	Put(ctx context.Context, c *domain.Comment) error
	Get(ctx context.Context, commentID string) (*domain.Comment, error)
	ListByParent(ctx context.Context, parentID string) ([]domain.Comment, error)
	Delete(ctx context.Context, commentID string) error
}

// AttachmentRepository is the minimal interface the router requires from an attachment store.
type AttachmentRepository interface {
	Put(ctx context.Context, a *domain.Attachment) error
	Get(ctx context.Context, attachmentID string) (*domain.Attachment, error)
	Delete(ctx context.Context, attachmentID string) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
