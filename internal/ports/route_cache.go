package ports

import "context"

// Optional store for raw planner responses keyed by a normalized request key.
type RouteCache interface {
	// Return the cached body for key. ok is false on a miss.
	Get(ctx context.Context, key string) (body []byte, ok bool, err error)
	// Store the body under key, replacing any previous entry.
	Put(ctx context.Context, key string, body []byte) error
}
