package app

import (
	"context"
	"path/filepath"
	"store-route-assistant/internal/adapters/cache"
	"store-route-assistant/internal/adapters/planner"
	"store-route-assistant/internal/adapters/repositories"
	"store-route-assistant/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAdaptersOfflineBuiltin(t *testing.T) {
	cfg := config.Config{Offline: true, RegistrySource: config.RegistryBuiltin}

	registry, tripPlanner, err := BuildAdapters(cfg, nil, nil)
	require.NoError(t, err)

	assert.IsType(t, &planner.OfflinePlanner{}, tripPlanner)
	assert.Same(t, tripPlanner, registry)

	reg, err := registry.FetchSections(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, reg.SupportedItems)
}

func TestBuildAdaptersRemote(t *testing.T) {
	cfg := config.Config{
		PlannerURL:     "http://planner.local",
		HTTPTimeout:    time.Second,
		RegistrySource: config.RegistryPlanner,
	}

	registry, tripPlanner, err := BuildAdapters(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &planner.HTTPPlanner{}, tripPlanner)
	assert.Same(t, tripPlanner, registry)

	cfg.RegistrySource = config.RegistryBuiltin
	registry, _, err = BuildAdapters(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, repositories.StaticRegistry{}, registry)
}

func TestBuildAdaptersFromStore(t *testing.T) {
	cfg := config.Config{
		CachePath:      filepath.Join(t.TempDir(), "store.db"),
		CacheMaxAge:    time.Hour,
		Offline:        true,
		RegistrySource: config.RegistryDB,
	}

	store, dialect, err := OpenStore(cfg)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, repositories.SQLite, dialect)
	assert.IsType(t, &cache.SqliteRouteCache{}, RouteCache(cfg, store, dialect))

	// An empty store has no catalog to route over.
	_, _, err = BuildAdapters(cfg, store, nil)
	assert.Error(t, err)

	reg, err := repositories.DefaultRegistry()
	require.NoError(t, err)
	require.NoError(t, repositories.SeedRegistry(store, dialect, reg))

	registry, tripPlanner, err := BuildAdapters(cfg, store, nil)
	require.NoError(t, err)
	assert.IsType(t, &repositories.SQLSectionRegistry{}, registry)
	assert.IsType(t, &planner.OfflinePlanner{}, tripPlanner)
}

func TestOpenStoreWithoutDatabase(t *testing.T) {
	store, dialect, err := OpenStore(config.Config{})
	require.NoError(t, err)
	assert.Nil(t, store)
	assert.Nil(t, RouteCache(config.Config{}, store, dialect))
}
