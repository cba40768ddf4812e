package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lectern-lms/lectern/internal/shared"
)

// Repository defines persistence operations for notifications.
type Repository interface {
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]Notification, error)
	Create(ctx context.Context, userID int64, title, body string) (*Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
	UserEmail(ctx context.Context, userID int64) (string, error)
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListForUser returns a page of the user's notifications, newest first.
func (r *PGRepository) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, body, read_at, created_at FROM notifications WHERE user_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// Create inserts a new unread notification.
func (r *PGRepository) Create(ctx context.Context, userID int64, title, body string) (*Notification, error) {
	var n Notification
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, title, body) VALUES ($1, $2, $3) RETURNING id, user_id, title, body, read_at, created_at`,
		userID, title, body).
		Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkRead stamps a notification as read. Scoped to the owning user so one
// user cannot mark another's notifications.
func (r *PGRepository) MarkRead(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read_at = NOW() WHERE id = $1 AND user_id = $2 AND read_at IS NULL`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *PGRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`, userID).Scan(&count)
	return count, err
}

// UserEmail resolves the recipient address for delivery fan-out.
func (r *PGRepository) UserEmail(ctx context.Context, userID int64) (string, error) {
	var email string
	err := r.pool.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return email, nil
}

var _ Repository = (*PGRepository)(nil)
