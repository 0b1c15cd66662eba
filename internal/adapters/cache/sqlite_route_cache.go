package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store-route-assistant/internal/platform/obs"
	"strings"
	"time"
)

// SQLite backed cache for raw planner responses.
// Keys are expected to be normalized by the caller.
type SqliteRouteCache struct {
	DB *sql.DB
	// Entries older than MaxAge are treated as misses. Zero keeps them forever.
	MaxAge time.Duration
	now    func() time.Time
}

func NewSqliteRouteCache(db *sql.DB, maxAge time.Duration) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db, MaxAge: maxAge, now: time.Now}
}

// Fetch the cached body for key.
func (s *SqliteRouteCache) Get(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT
		body,
		created_at
	FROM route_cache
	WHERE cache_key = ?;
	`

	var body []byte
	var createdAt int64
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&body, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if expired(createdAt, s.MaxAge, s.clock()) {
		return nil, false, nil
	}

	return body, true, nil
}

// Store body under key, replacing any previous entry.
func (s *SqliteRouteCache) Put(ctx context.Context, key string, body []byte) (err error) {
	defer obs.Time(ctx, "route.cache.sqlite.Put")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO route_cache (
		cache_key,
		body,
		created_at
	)
	VALUES (?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, key, body, s.clock().Unix()); err != nil {
		return fmt.Errorf("insert route cache: exec insert: %w", err)
	}

	return nil
}

func (s *SqliteRouteCache) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func expired(createdAt int64, maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 {
		return false
	}
	return now.Sub(time.Unix(createdAt, 0)) > maxAge
}
