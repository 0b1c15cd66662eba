package planner

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/ports"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sectionsBody = `{
  "sections": {
    "PRODUCE": {"items": ["eggs", "apples"], "coordinates": [465, 105]},
    "BAKERY": {"items": ["bread"], "coordinates": [210, 60]},
    "STOCKROOM": {"items": ["pallets"], "coordinates": null}
  },
  "supported_items": ["bread", "eggs", "apples", "pallets"]
}`

const optimizeBody = `{
  "optimized_route": [
    {"item": "bread", "section": "BAKERY", "coordinates": [210, 60], "step": 1},
    {"item": "apples", "section": "PRODUCE", "coordinates": [465, 105], "step": 2}
  ],
  "total_distance": 1013.42,
  "estimated_time": 15,
  "savings_percentage": 12.5,
  "directions": ["Start at entrance, head to BAKERY for bread", "Continue to PRODUCE for apples, then proceed to checkout"],
  "full_path": [[15, 15], [210, 60], [465, 105], [555, 585]]
}`

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
}

func newMemoryCache() *memoryCache { return &memoryCache{entries: map[string][]byte{}} }

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.entries[key]
	return b, ok, nil
}

func (c *memoryCache) Put(ctx context.Context, key string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = body
	return nil
}

func newTestPlanner(t *testing.T, baseURL string, cache ports.RouteCache) *HTTPPlanner {
	t.Helper()
	p, err := NewHTTPPlanner(baseURL, Options{
		Timeout:      2 * time.Second,
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
		RouteCache:   cache,
	})
	require.NoError(t, err)
	return p
}

func TestNewHTTPPlannerRejectsEmptyURL(t *testing.T) {
	_, err := NewHTTPPlanner("  ", Options{})
	assert.Error(t, err)

	p, err := NewHTTPPlanner("http://planner.local/", Options{})
	require.NoError(t, err)
	assert.Equal(t, "http://planner.local", p.BaseURL())
}

func TestFetchSectionsKeepsDocumentOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sections", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, sectionsBody)
	}))
	defer srv.Close()

	reg, err := newTestPlanner(t, srv.URL, nil).FetchSections(context.Background())
	require.NoError(t, err)

	want := &domain.Registry{
		Sections: []domain.SectionRecord{
			{Name: "PRODUCE", Coordinates: &domain.Point{X: 465, Y: 105}, Items: []string{"eggs", "apples"}},
			{Name: "BAKERY", Coordinates: &domain.Point{X: 210, Y: 60}, Items: []string{"bread"}},
			{Name: "STOCKROOM", Items: []string{"pallets"}},
		},
		SupportedItems: []string{"bread", "eggs", "apples", "pallets"},
	}
	if diff := cmp.Diff(want, reg); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchSectionsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"sections": {"BAKERY": {"coordinates": [1]}}}`)
	}))
	defer srv.Close()

	_, err := newTestPlanner(t, srv.URL, nil).FetchSections(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestOptimizeSendsListAndDecodes(t *testing.T) {
	var got optimizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/optimize", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, optimizeBody)
	}))
	defer srv.Close()

	res, err := newTestPlanner(t, srv.URL, nil).Optimize(context.Background(), []string{"apples", "bread"}, "")
	require.NoError(t, err)

	assert.Equal(t, optimizeRequest{ShoppingList: []string{"apples", "bread"}, StoreLayout: domain.DefaultStoreLayout}, got)
	assert.True(t, res.HasRoute)
	assert.True(t, res.HasPath)
	assert.Equal(t, []string{"bread", "apples"}, res.RouteOrder())
	assert.Equal(t, 2, res.Stops[1].Step)
	assert.Equal(t, domain.Point{X: 210, Y: 60}, *res.Stops[0].Coordinates)
	assert.Len(t, res.Path, 4)
	assert.Equal(t, 1013.42, res.TotalDistance)
	assert.Equal(t, 15.0, res.EstimatedTime)
	assert.Equal(t, 12.5, res.SavingsPercent)
	assert.Len(t, res.Directions, 2)
}

func TestOptimizeMissingFieldsAreFlagged(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantRoute bool
		wantPath  bool
	}{
		{"both", `{"optimized_route": [], "full_path": []}`, true, true},
		{"no route", `{"full_path": [[0, 0], [1, 1]]}`, false, true},
		{"null route", `{"optimized_route": null, "full_path": [[0, 0], [1, 1]]}`, false, true},
		{"no path", `{"optimized_route": []}`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodePlan([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoute, res.HasRoute)
			assert.Equal(t, tt.wantPath, res.HasPath)
		})
	}

	_, err := DecodePlan([]byte(`{"optimized_route": [], "full_path": [[0, "x"]]}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = DecodePlan([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDecodePlanRejectsStopsWithoutItem(t *testing.T) {
	for _, stop := range []string{
		`{"section": "BAKERY", "step": 1}`,
		`{"item": null, "section": "BAKERY", "step": 1}`,
		`{"item": 7, "section": "BAKERY", "step": 1}`,
		`{"item": "  ", "section": "BAKERY", "step": 1}`,
	} {
		_, err := DecodePlan([]byte(`{"optimized_route": [` + stop + `], "full_path": []}`))
		assert.ErrorIs(t, err, ErrMalformedResponse, stop)
	}
}

func TestOptimizeErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": "Missing shopping list"}`)
	}))
	defer srv.Close()

	_, err := newTestPlanner(t, srv.URL, nil).Optimize(context.Background(), []string{"milk"}, "")
	var te *ports.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadRequest, te.Status)
	assert.Equal(t, "Missing shopping list", te.Message)
}

func TestOptimizeErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `<html>nope</html>`)
	}))
	defer srv.Close()

	_, err := newTestPlanner(t, srv.URL, nil).Optimize(context.Background(), []string{"milk"}, "")
	var te *ports.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "API error", te.Message)
}

func TestOptimizeRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, optimizeBody)
	}))
	defer srv.Close()

	res, err := newTestPlanner(t, srv.URL, nil).Optimize(context.Background(), []string{"bread"}, "")
	require.NoError(t, err)
	assert.True(t, res.HasRoute)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOptimizeExhaustedRetriesKeepStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error": "Optimization failed: boom"}`)
	}))
	defer srv.Close()

	_, err := newTestPlanner(t, srv.URL, nil).Optimize(context.Background(), []string{"bread"}, "")
	var te *ports.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.Status)
	assert.Equal(t, "Optimization failed: boom", te.Message)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOptimizeNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p, err := NewHTTPPlanner(url, Options{RetryMax: 0})
	require.NoError(t, err)

	_, err = p.Optimize(context.Background(), []string{"bread"}, "")
	var te *ports.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "Network error", te.Message)
	assert.Zero(t, te.Status)
}

func TestOptimizeUsesRouteCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, optimizeBody)
	}))
	defer srv.Close()

	cache := newMemoryCache()
	p := newTestPlanner(t, srv.URL, cache)

	first, err := p.Optimize(context.Background(), []string{"bread", "apples"}, "")
	require.NoError(t, err)
	second, err := p.Optimize(context.Background(), []string{"bread ", "apples"}, "")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, first, second)
	assert.Contains(t, cache.entries, "walmart_default|bread,apples")
}

func TestOptimizeCacheKeepsListOrderApart(t *testing.T) {
	// Savings are measured against the entered order, so each order gets its
	// own figure from the backend.
	savings := map[string]float64{"near,far": 0, "far,near": 38.22}

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req optimizeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"optimized_route": []map[string]any{
				{"item": "near", "section": "NEAR", "coordinates": []float64{45, 45}, "step": 1},
				{"item": "far", "section": "FAR", "coordinates": []float64{500, 45}, "step": 2},
			},
			"full_path":          [][]float64{{15, 15}, {45, 45}, {500, 45}, {555, 585}},
			"savings_percentage": savings[strings.Join(req.ShoppingList, ",")],
		})
	}))
	defer srv.Close()

	p := newTestPlanner(t, srv.URL, newMemoryCache())

	for _, order := range [][]string{{"near", "far"}, {"far", "near"}, {"near", "far"}, {"far", "near"}} {
		res, err := p.Optimize(context.Background(), order, "")
		require.NoError(t, err)
		assert.Equal(t, savings[strings.Join(order, ",")], res.SavingsPercent, "order %v", order)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestOptimizeDoesNotCacheIncompletePlans(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"optimized_route": []}`)
	}))
	defer srv.Close()

	cache := newMemoryCache()
	res, err := newTestPlanner(t, srv.URL, cache).Optimize(context.Background(), []string{"bread"}, "")
	require.NoError(t, err)
	assert.False(t, res.HasPath)
	assert.Empty(t, cache.entries)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"status": "ok"}`)
	}))
	defer srv.Close()

	assert.NoError(t, newTestPlanner(t, srv.URL, nil).Health(context.Background()))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "walmart_default|Milk,bread", CacheKey([]string{" Milk", "bread"}, "walmart_default"))
	assert.NotEqual(t, CacheKey([]string{"milk", "bread"}, "x"), CacheKey([]string{"bread", "milk"}, "x"))
	assert.NotEqual(t, CacheKey([]string{"Milk"}, "x"), CacheKey([]string{"milk"}, "x"))
}
