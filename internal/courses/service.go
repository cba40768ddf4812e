package courses

import (
	"context"
	"errors"
	"strings"
)

// Service wraps course business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of courses. Anonymous callers never see unpublished
// content regardless of what the filter asks for; the handler sets
// IncludeUnpublished only when an identity is attached.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Course, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListCourses(ctx, filter)
}

// Get fetches a single course.
func (s *Service) Get(ctx context.Context, id int64) (*Course, error) {
	return s.repo.GetCourse(ctx, id)
}

// Create registers a new course owned by the given lecturer.
func (s *Service) Create(ctx context.Context, title, description string, lecturerID int64) (*Course, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("courses: title required")
	}
	return s.repo.CreateCourse(ctx, title, strings.TrimSpace(description), lecturerID)
}

// Update changes course content and publication state.
func (s *Service) Update(ctx context.Context, id int64, title, description string, isPublished bool) (*Course, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("courses: title required")
	}
	return s.repo.UpdateCourse(ctx, id, title, strings.TrimSpace(description), isPublished)
}

// Delete removes a course.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteCourse(ctx, id)
}
