package courses

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lectern-lms/lectern/internal/shared"
)

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const courseColumns = `id, title, description, lecturer_id, is_published, created_at, updated_at`

// ListCourses returns a filtered page of courses and the total match count.
func (r *PGRepository) ListCourses(ctx context.Context, filter ListFilter) ([]Course, int, error) {
	where := ``
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if !filter.IncludeUnpublished {
		where = ` WHERE is_published = TRUE`
	}
	if filter.LecturerID != nil {
		if where == "" {
			where = ` WHERE lecturer_id = ` + arg(*filter.LecturerID)
		} else {
			where += ` AND lecturer_id = ` + arg(*filter.LecturerID)
		}
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + courseColumns + ` FROM courses` + where +
		` ORDER BY id LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var result []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.LecturerID, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

// GetCourse fetches a course by primary key.
func (r *PGRepository) GetCourse(ctx context.Context, id int64) (*Course, error) {
	var c Course
	err := r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id).
		Scan(&c.ID, &c.Title, &c.Description, &c.LecturerID, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateCourse inserts a new unpublished course.
func (r *PGRepository) CreateCourse(ctx context.Context, title, description string, lecturerID int64) (*Course, error) {
	var c Course
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (title, description, lecturer_id, is_published) VALUES ($1, $2, $3, FALSE) RETURNING `+courseColumns,
		title, description, lecturerID).
		Scan(&c.ID, &c.Title, &c.Description, &c.LecturerID, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCourse updates title, description and publication state.
func (r *PGRepository) UpdateCourse(ctx context.Context, id int64, title, description string, isPublished bool) (*Course, error) {
	var c Course
	err := r.pool.QueryRow(ctx,
		`UPDATE courses SET title = $2, description = $3, is_published = $4, updated_at = NOW() WHERE id = $1 RETURNING `+courseColumns,
		id, title, description, isPublished).
		Scan(&c.ID, &c.Title, &c.Description, &c.LecturerID, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// DeleteCourse removes a course.
func (r *PGRepository) DeleteCourse(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
