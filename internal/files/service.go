package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Service coordinates blob storage and metadata persistence for uploads.
type Service struct {
	repo  Repository
	store BlobStore
}

// NewService constructs a new Service.
func NewService(repo Repository, store BlobStore) *Service {
	return &Service{repo: repo, store: store}
}

// ListByCourse returns the files attached to a course.
func (s *Service) ListByCourse(ctx context.Context, courseID int64) ([]File, error) {
	return s.repo.ListByCourse(ctx, courseID)
}

// Upload stores the object under a fresh uuid key, then records metadata.
// If the metadata insert fails the stored object is removed again so the
// blob store does not accumulate orphans.
func (s *Service) Upload(ctx context.Context, name, contentType string, courseID, uploaderID int64, r io.Reader) (*File, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("files: name required")
	}
	key := uuid.NewString()
	size, err := s.store.Save(ctx, key, r)
	if err != nil {
		return nil, fmt.Errorf("files: store object: %w", err)
	}
	record, err := s.repo.Create(ctx, File{
		Name:        name,
		ObjectKey:   key,
		ContentType: contentType,
		SizeBytes:   size,
		CourseID:    courseID,
		UploaderID:  uploaderID,
	})
	if err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, err
	}
	return record, nil
}

// Download opens the stored object for a file record.
func (s *Service) Download(ctx context.Context, id int64) (*File, io.ReadCloser, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.store.Open(ctx, record.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("files: open object: %w", err)
	}
	return record, reader, nil
}

// Delete removes metadata first, then the stored object.
func (s *Service) Delete(ctx context.Context, id int64) error {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, record.ObjectKey)
}
