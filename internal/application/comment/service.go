package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-qna-api/internal/domain"
	"github.com/go-qna-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, authorID string, req domain.CreateCommentRequest) (*domain.Comment, error)
	ListByParent(ctx context.Context, parentID string) ([]domain.Comment, error)
	Delete(ctx context.Context, commentID, callerID, callerRole string) error
}

type commentStore interface {
	Put(ctx context.Context, c *domain.Comment) error
	Get(ctx context.Context, commentID string) (*domain.Comment, error)
	ListByParent(ctx context.Context, parentID string) ([]domain.Comment, error)
	Delete(ctx context.Context, commentID string) error
}

type questionStore interface {
	Get(ctx context.Context, questionID string) (*domain.Question, error)
}

type answerStore interface {
	Get(ctx context.Context, answerID string) (*domain.Answer, error)
}

type service struct {
	comments  commentStore
	questions questionStore
	answers   answerStore
}

func NewService(comments commentStore, questions questionStore, answers answerStore) Service {
	return &service{comments: comments, questions: questions, answers: answers}
}

func (s *service) Create(ctx context.Context, authorID string, req domain.CreateCommentRequest) (*domain.Comment, error) {
	// The parent must exist; a dangling comment is useless to render.
	switch req.ParentType {
	case domain.ParentQuestion:
		if _, err := s.questions.Get(ctx, req.ParentID); err != nil {
			return nil, err
		}
	case domain.ParentAnswer:
		if _, err := s.answers.Get(ctx, req.ParentID); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown parent type %q: %w", req.ParentType, domain.ErrBadRequest)
	}
	c := &domain.Comment{
		CommentID:  id.New(),
		ParentType: req.ParentType,
		ParentID:   req.ParentID,
		AuthorID:   authorID,
		Body:       req.Body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.comments.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListByParent(ctx context.Context, parentID string) ([]domain.Comment, error) {
	return s.comments.ListByParent(ctx, parentID)
}

func (s *service) Delete(ctx context.Context, commentID, callerID, callerRole string) error {
	c, err := s.comments.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != callerID && callerRole != domain.RoleAdmin {
		return fmt.Errorf("only the author or an admin can delete a comment: %w", domain.ErrForbidden)
	}
	return s.comments.Delete(ctx, commentID)
}
