package question

import (
	"context"
	"fmt"
	"time"

	"github.com/go-qna-api/internal/domain"
	"github.com/go-qna-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, authorID string, req domain.CreateQuestionRequest) (*domain.Question, error)
	Get(ctx context.Context, questionID string) (*domain.Question, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.Question, string, error)
	Update(ctx context.Context, questionID, callerID string, req domain.UpdateQuestionRequest) (*domain.Question, error)
	Delete(ctx context.Context, questionID, callerID, callerRole string) error
}

type questionStore interface {
	Put(ctx context.Context, q *domain.Question) error
	Get(ctx context.Context, questionID string) (*domain.Question, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Question, string, error)
	Update(ctx context.Context, questionID string, updates map[string]interface{}) error
	Delete(ctx context.Context, questionID string) error
}

type service struct {
	repo questionStore
}

func NewService(repo questionStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, authorID string, req domain.CreateQuestionRequest) (*domain.Question, error) {
	now := time.Now().UTC()
	q := &domain.Question{
		QuestionID: id.New(),
		AuthorID:   authorID,
		Title:      req.Title,
		Body:       req.Body,
		Tags:       req.Tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Put(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *service) Get(ctx context.Context, questionID string) (*domain.Question, error) {
	return s.repo.Get(ctx, questionID)
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.Question, string, error) {
	if limit < 1 || limit > 50 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Update(ctx context.Context, questionID, callerID string, req domain.UpdateQuestionRequest) (*domain.Question, error) {
	q, err := s.repo.Get(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.AuthorID != callerID {
		return nil, fmt.Errorf("only the author can edit a question: %w", domain.ErrForbidden)
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if len(updates) == 0 {
		return q, nil
	}
	if err := s.repo.Update(ctx, questionID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, questionID)
}

func (s *service) Delete(ctx context.Context, questionID, callerID, callerRole string) error {
	q, err := s.repo.Get(ctx, questionID)
	if err != nil {
		return err
	}
	if q.AuthorID != callerID && callerRole != domain.RoleAdmin {
		return fmt.Errorf("only the author or an admin can delete a question: %w", domain.ErrForbidden)
	}
	return s.repo.Delete(ctx, questionID)
}
