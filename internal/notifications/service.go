package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const unreadCacheTTL = 5 * time.Minute

// Enqueuer submits delivery jobs to the background worker.
type Enqueuer interface {
	EnqueueEmail(ctx context.Context, to, subject, body string) error
}

// Service wraps notification business rules. The unread counter is cached in
// Redis because the dashboard polls it on every page.
type Service struct {
	repo     Repository
	cache    *redis.Client
	enqueuer Enqueuer
	logger   *slog.Logger
}

// NewService constructs a new Service. Cache and enqueuer may be nil in
// tests; the service degrades to direct counting and in-app only delivery.
func NewService(repo Repository, cache *redis.Client, enqueuer Enqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, enqueuer: enqueuer, logger: logger}
}

// ListForUser returns a page of the user's notifications.
func (s *Service) ListForUser(ctx context.Context, userID int64, page, perPage int) ([]Notification, error) {
	return s.repo.ListForUser(ctx, userID, perPage, (page-1)*perPage)
}

// Notify stores an in-app notification and fans delivery out to email via
// the job queue. Email enqueue failures are logged, not surfaced: the in-app
// record is the source of truth.
func (s *Service) Notify(ctx context.Context, userID int64, title, body string) (*Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("notifications: title required")
	}
	record, err := s.repo.Create(ctx, userID, title, body)
	if err != nil {
		return nil, err
	}
	s.invalidateUnread(ctx, userID)

	if s.enqueuer != nil {
		email, err := s.repo.UserEmail(ctx, userID)
		if err == nil {
			err = s.enqueuer.EnqueueEmail(ctx, email, title, body)
		}
		if err != nil && s.logger != nil {
			s.logger.Warn("enqueue notification email",
				slog.Int64("user_id", userID), slog.Any("error", err))
		}
	}
	return record, nil
}

// MarkRead stamps a notification read and drops the cached counter.
func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// UnreadCount returns the user's unread total, served from cache when warm.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	key := unreadKey(userID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return count, nil
			}
		}
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, count, unreadCacheTTL).Err(); err != nil && s.logger != nil {
			s.logger.Warn("cache unread count", slog.Any("error", err))
		}
	}
	return count, nil
}

func (s *Service) invalidateUnread(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, unreadKey(userID)).Err(); err != nil && s.logger != nil {
		s.logger.Warn("invalidate unread count", slog.Any("error", err))
	}
}

func unreadKey(userID int64) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}
