package answer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-qna-api/internal/domain"
	"github.com/go-qna-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, questionID, authorID string, req domain.CreateAnswerRequest) (*domain.Answer, error)
	ListByQuestion(ctx context.Context, questionID string) ([]domain.Answer, error)
	Update(ctx context.Context, answerID, callerID string, req domain.UpdateAnswerRequest) (*domain.Answer, error)
	Accept(ctx context.Context, answerID, callerID string) error
	Delete(ctx context.Context, answerID, callerID, callerRole string) error
}

type answerStore interface {
	Put(ctx context.Context, a *domain.Answer) error
	Get(ctx context.Context, answerID string) (*domain.Answer, error)
	ListByQuestion(ctx context.Context, questionID string) ([]domain.Answer, error)
	Update(ctx context.Context, answerID string, updates map[string]interface{}) error
	Delete(ctx context.Context, answerID string) error
}

type questionStore interface {
	Get(ctx context.Context, questionID string) (*domain.Question, error)
	Update(ctx context.Context, questionID string, updates map[string]interface{}) error
	IncrementAnswerCount(ctx context.Context, questionID string, delta int) error
}

type eventPublisher interface {
	Publish(ctx context.Context, subject, message string) error
}

type service struct {
	answers   answerStore
	questions questionStore
	events    eventPublisher // nil disables notifications
}

func NewService(answers answerStore, questions questionStore, events eventPublisher) Service {
	return &service{answers: answers, questions: questions, events: events}
}

func (s *service) Create(ctx context.Context, questionID, authorID string, req domain.CreateAnswerRequest) (*domain.Answer, error) {
	q, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	a := &domain.Answer{
		AnswerID:   id.New(),
		QuestionID: questionID,
		AuthorID:   authorID,
		Body:       req.Body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.answers.Put(ctx, a); err != nil {
		return nil, err
	}
	// Counter bump and author notification are best-effort: the answer row
	// is already durable.
	if err := s.questions.IncrementAnswerCount(ctx, questionID, 1); err != nil {
		slog.Warn("failed to bump answer count", "question_id", questionID, "err", err)
	}
	if s.events != nil && q.AuthorID != authorID {
		msg := fmt.Sprintf(`{"event":"answer.created","question_id":%q,"answer_id":%q,"author_id":%q}`,
			questionID, a.AnswerID, q.AuthorID)
		if err := s.events.Publish(ctx, "answer.created", msg); err != nil {
			slog.Warn("failed to publish answer notification", "question_id", questionID, "err", err)
		}
	}
	return a, nil
}

func (s *service) ListByQuestion(ctx context.Context, questionID string) ([]domain.Answer, error) {
	return s.answers.ListByQuestion(ctx, questionID)
}

func (s *service) Update(ctx context.Context, answerID, callerID string, req domain.UpdateAnswerRequest) (*domain.Answer, error) {
	a, err := s.answers.Get(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if a.AuthorID != callerID {
		return nil, fmt.Errorf("only the author can edit an answer: %w", domain.ErrForbidden)
	}
	if err := s.answers.Update(ctx, answerID, map[string]interface{}{"body": req.Body}); err != nil {
		return nil, err
	}
	return s.answers.Get(ctx, answerID)
}

// Accept marks an answer as the accepted one. Only the question author may
// accept, and accepting replaces any previously accepted answer.
func (s *service) Accept(ctx context.Context, answerID, callerID string) error {
	a, err := s.answers.Get(ctx, answerID)
	if err != nil {
		return err
	}
	q, err := s.questions.Get(ctx, a.QuestionID)
	if err != nil {
		return err
	}
	if q.AuthorID != callerID {
		return fmt.Errorf("only the question author can accept an answer: %w", domain.ErrForbidden)
	}
	if q.AcceptedAnswerID != "" && q.AcceptedAnswerID != answerID {
		if err := s.answers.Update(ctx, q.AcceptedAnswerID, map[string]interface{}{"accepted": false}); err != nil {
			return err
		}
	}
	if err := s.answers.Update(ctx, answerID, map[string]interface{}{"accepted": true}); err != nil {
		return err
	}
	return s.questions.Update(ctx, a.QuestionID, map[string]interface{}{"accepted_answer_id": answerID})
}

func (s *service) Delete(ctx context.Context, answerID, callerID, callerRole string) error {
	a, err := s.answers.Get(ctx, answerID)
	if err != nil {
		return err
	}
	if a.AuthorID != callerID && callerRole != domain.RoleAdmin {
		return fmt.Errorf("only the author or an admin can delete an answer: %w", domain.ErrForbidden)
	}
	if err := s.answers.Delete(ctx, answerID); err != nil {
		return err
	}
	if err := s.questions.IncrementAnswerCount(ctx, a.QuestionID, -1); err != nil {
		slog.Warn("failed to decrement answer count", "question_id", a.QuestionID, "err", err)
	}
	return nil
}
