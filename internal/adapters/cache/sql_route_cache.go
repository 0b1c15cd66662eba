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

// SQLRouteCache is a Postgres-backed cache for raw planner responses, shared
// between server instances.
type SQLRouteCache struct {
	DB     *sql.DB
	MaxAge time.Duration
}

func NewSQLRouteCache(db *sql.DB, maxAge time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, MaxAge: maxAge}
}

// Fetch the cached body for key.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sql.Get")(&err)

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
	WHERE cache_key = $1;
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

	if expired(createdAt, s.MaxAge, time.Now()) {
		return nil, false, nil
	}

	return body, true, nil
}

// Store body under key, replacing any previous entry.
func (s *SQLRouteCache) Put(ctx context.Context, key string, body []byte) (err error) {
	defer obs.Time(ctx, "route.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	q := `
	INSERT INTO route_cache (
		cache_key,
		body,
		created_at
	)
	VALUES ($1, $2, $3)
	ON CONFLICT (cache_key)
	DO UPDATE SET
		body = EXCLUDED.body,
		created_at = EXCLUDED.created_at;
	`

	if _, err := s.DB.ExecContext(ctx, q, key, body, time.Now().Unix()); err != nil {
		return fmt.Errorf("insert route cache: exec upsert: %w", err)
	}

	return nil
}
