package files

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lectern-lms/lectern/internal/shared"
)

// Repository defines persistence operations for file metadata.
type Repository interface {
	ListByCourse(ctx context.Context, courseID int64) ([]File, error)
	Get(ctx context.Context, id int64) (*File, error)
	Create(ctx context.Context, f File) (*File, error)
	Delete(ctx context.Context, id int64) error
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const fileColumns = `id, name, object_key, content_type, size_bytes, course_id, uploader_id, created_at`

// ListByCourse returns all files attached to a course.
func (r *PGRepository) ListByCourse(ctx context.Context, courseID int64) ([]File, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+fileColumns+` FROM files WHERE course_id = $1 ORDER BY id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.Name, &f.ObjectKey, &f.ContentType, &f.SizeBytes, &f.CourseID, &f.UploaderID, &f.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// Get fetches file metadata by primary key.
func (r *PGRepository) Get(ctx context.Context, id int64) (*File, error) {
	var f File
	err := r.pool.QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.ObjectKey, &f.ContentType, &f.SizeBytes, &f.CourseID, &f.UploaderID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Create inserts a metadata row for a stored object.
func (r *PGRepository) Create(ctx context.Context, f File) (*File, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO files (name, object_key, content_type, size_bytes, course_id, uploader_id) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		f.Name, f.ObjectKey, f.ContentType, f.SizeBytes, f.CourseID, f.UploaderID).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Delete removes a metadata row.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
