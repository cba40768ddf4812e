package courses

import "context"

// Repository defines persistence operations for courses.
type Repository interface {
	ListCourses(ctx context.Context, filter ListFilter) ([]Course, int, error)
	GetCourse(ctx context.Context, id int64) (*Course, error)
	CreateCourse(ctx context.Context, title, description string, lecturerID int64) (*Course, error)
	UpdateCourse(ctx context.Context, id int64, title, description string, isPublished bool) (*Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}
