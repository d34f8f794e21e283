package attachment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-qna-api/internal/domain"
	"github.com/go-qna-api/internal/pkg/id"
)

type Service interface {
	Upload(ctx context.Context, ownerID, questionID, fileName, contentType string, size int64, r io.Reader) (*domain.Attachment, error)
	Download(ctx context.Context, attachmentID string) (*domain.Attachment, io.ReadCloser, error)
	Delete(ctx context.Context, attachmentID, callerID, callerRole string) error
}

type attachmentStore interface {
	Put(ctx context.Context, a *domain.Attachment) error
	Get(ctx context.Context, attachmentID string) (*domain.Attachment, error)
	Delete(ctx context.Context, attachmentID string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo    attachmentStore
	objects objectStore
}

func NewService(repo attachmentStore, objects objectStore) Service {
	return &service{repo: repo, objects: objects}
}

func (s *service) Upload(ctx context.Context, ownerID, questionID, fileName, contentType string, size int64, r io.Reader) (*domain.Attachment, error) {
	a := &domain.Attachment{
		AttachmentID: id.New(),
		OwnerID:      ownerID,
		QuestionID:   questionID,
		FileName:     fileName,
		ContentType:  contentType,
		Size:         size,
		CreatedAt:    time.Now().UTC(),
	}
	a.S3Key = fmt.Sprintf("attachments/%s/%s", a.AttachmentID, fileName)
	if err := s.objects.Upload(ctx, a.S3Key, r, contentType); err != nil {
		return nil, err
	}
	if err := s.repo.Put(ctx, a); err != nil {
		// The object is orphaned if this cleanup fails; the key embeds the
		// attachment id, so a sweep can find it later.
		if delErr := s.objects.Delete(ctx, a.S3Key); delErr != nil {
			slog.Warn("failed to clean up orphaned attachment object", "key", a.S3Key, "err", delErr)
		}
		return nil, err
	}
	return a, nil
}

func (s *service) Download(ctx context.Context, attachmentID string) (*domain.Attachment, io.ReadCloser, error) {
	a, err := s.repo.Get(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.objects.Download(ctx, a.S3Key)
	if err != nil {
		return nil, nil, err
	}
	return a, body, nil
}

func (s *service) Delete(ctx context.Context, attachmentID, callerID, callerRole string) error {
	a, err := s.repo.Get(ctx, attachmentID)
	if err != nil {
		return err
	}
	if a.OwnerID != callerID && callerRole != domain.RoleAdmin {
		return fmt.Errorf("only the owner or an admin can delete an attachment: %w", domain.ErrForbidden)
	}
	if err := s.objects.Delete(ctx, a.S3Key); err != nil {
		return err
	}
	return s.repo.Delete(ctx, attachmentID)
}
