package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/platform/obs"
	"store-route-assistant/internal/ports"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type Options struct {
	// Per-attempt timeout. Zero means 10s.
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Optional cache of successful optimize responses.
	RouteCache ports.RouteCache
}

// HTTPPlanner implements SectionRegistry and TripPlanner against the
// route-planning backend.
//
// It coordinates:
//   - Section registry loading from /api/sections
//   - Route optimization via /api/optimize
//   - Optional response caching keyed by the normalized shopping list
//   - Retry/backoff on transient failures
//
// The planner is safe for concurrent use.
type HTTPPlanner struct {
	session    *retryablehttp.Client
	baseURL    string
	routeCache ports.RouteCache
}

type optimizeRequest struct {
	ShoppingList []string `json:"shopping_list"`
	StoreLayout  string   `json:"store_layout"`
}

func NewHTTPPlanner(baseURL string, opts Options) (*HTTPPlanner, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("planner base url is empty")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{Timeout: timeout}
	client.Logger = obs.RetryLogger{Entry: obs.Logger(context.Background()).WithField("component", "planner")}
	client.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	client.CheckRetry = retryPolicy
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPPlanner{
		session:    client,
		baseURL:    baseURL,
		routeCache: opts.RouteCache,
	}, nil
}

func (p *HTTPPlanner) BaseURL() string { return p.baseURL }

// FetchSections loads the section registry and item catalog.
func (p *HTTPPlanner) FetchSections(ctx context.Context) (_ *domain.Registry, err error) {
	defer obs.Time(ctx, "planner.FetchSections")(&err)

	req, err := p.newRequest(ctx, http.MethodGet, "/api/sections", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch sections: %w", err)
	}

	body, err := p.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sections: %w", err)
	}

	reg, err := DecodeRegistry(body)
	if err != nil {
		return nil, fmt.Errorf("fetch sections: %w", err)
	}

	return reg, nil
}

// Optimize asks the backend to order items into a walking route.
func (p *HTTPPlanner) Optimize(
	ctx context.Context,
	items []string,
	layout string,
) (_ *domain.PlanResult, err error) {
	defer obs.Time(ctx, "planner.Optimize")(&err)

	if len(items) == 0 {
		return nil, errors.New("optimize: shopping list is empty")
	}
	if layout == "" {
		layout = domain.DefaultStoreLayout
	}

	log := obs.Logger(ctx)
	key := CacheKey(items, layout)

	// Check the route cache before calling the backend.
	if p.routeCache != nil {
		body, ok, err := p.routeCache.Get(ctx, key)
		switch {
		case err != nil:
			log.WithError(err).Warn("route cache read failed")
		case ok:
			if res, err := DecodePlan(body); err == nil {
				log.WithField("key", key).Debug("route cache hit")
				return res, nil
			}
			log.WithField("key", key).Warn("discarding unreadable cached route")
		}
	}

	payload, err := json.Marshal(optimizeRequest{ShoppingList: items, StoreLayout: layout})
	if err != nil {
		return nil, fmt.Errorf("optimize: marshal request: %w", err)
	}

	req, err := p.newRequest(ctx, http.MethodPost, "/api/optimize", payload)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	body, err := p.do(req)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	res, err := DecodePlan(body)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	if p.routeCache != nil && res.HasRoute && res.HasPath {
		if err := p.routeCache.Put(ctx, key, body); err != nil {
			log.WithError(err).Warn("route cache write failed")
		}
	}

	return res, nil
}

// Health reports whether the backend answers its health endpoint.
func (p *HTTPPlanner) Health(ctx context.Context) error {
	req, err := p.newRequest(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return fmt.Errorf("planner health: %w", err)
	}

	if _, err := p.do(req); err != nil {
		return fmt.Errorf("planner health: %w", err)
	}
	return nil
}

// CacheKey identifies a request by layout and the items in the order they
// were sent. Order matters: the planner measures savings against walking the
// list as entered. Items are only trimmed; catalog entries are case-sensitive.
func CacheKey(items []string, layout string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, strings.TrimSpace(item))
	}
	return layout + "|" + strings.Join(parts, ",")
}
