// Package reports produces read-only aggregate counts for the dashboard.
package reports

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	summaryCacheKey = "reports:summary"
	summaryCacheTTL = 5 * time.Minute
)

// Summary aggregates platform-wide counts.
type Summary struct {
	TotalUsers        int64            `json:"total_users"`
	ActiveUsers       int64            `json:"active_users"`
	TotalCourses      int64            `json:"total_courses"`
	PublishedCourses  int64            `json:"published_courses"`
	TotalFiles        int64            `json:"total_files"`
	UsersPerRole      map[string]int64 `json:"users_per_role"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// Service computes summaries with short-lived Redis caching. Concurrent
// cache misses collapse into a single recomputation.
type Service struct {
	pool   *pgxpool.Pool
	cache  *redis.Client
	logger *slog.Logger
	group  singleflight.Group
}

// NewService constructs a new Service. The cache may be nil in tests.
func NewService(pool *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{pool: pool, cache: cache, logger: logger}
}

// Summary returns the aggregate counts, served from cache when warm.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, summaryCacheKey).Bytes(); err == nil {
			var cached Summary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	result, err, _ := s.group.Do(summaryCacheKey, func() (any, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Summary), nil
}

func (s *Service) compute(ctx context.Context) (*Summary, error) {
	summary := &Summary{UsersPerRole: map[string]int64{}, GeneratedAt: time.Now().UTC()}

	counts := []struct {
		query  string
		target *int64
	}{
		{`SELECT COUNT(*) FROM users`, &summary.TotalUsers},
		{`SELECT COUNT(*) FROM users WHERE is_active = TRUE`, &summary.ActiveUsers},
		{`SELECT COUNT(*) FROM courses`, &summary.TotalCourses},
		{`SELECT COUNT(*) FROM courses WHERE is_published = TRUE`, &summary.PublishedCourses},
		{`SELECT COUNT(*) FROM files`, &summary.TotalFiles},
	}
	for _, c := range counts {
		if err := s.pool.QueryRow(ctx, c.query).Scan(c.target); err != nil {
			return nil, err
		}
	}

	rows, err := s.pool.Query(ctx,
		`SELECT r.name, COUNT(u.id) FROM roles r LEFT JOIN users u ON u.role_id = r.id GROUP BY r.name ORDER BY r.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		summary.UsersPerRole[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, summaryCacheKey, raw, summaryCacheTTL).Err(); err != nil && s.logger != nil {
				s.logger.Warn("cache report summary", slog.Any("error", err))
			}
		}
	}
	return summary, nil
}
