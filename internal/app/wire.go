// Package app wires concrete adapters behind the ports for the server and
// the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"store-route-assistant/internal/adapters/cache"
	"store-route-assistant/internal/adapters/planner"
	"store-route-assistant/internal/adapters/repositories"
	"store-route-assistant/internal/config"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/platform/db"
	"store-route-assistant/internal/ports"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// BuildAdapters picks the registry and planner implementations for cfg.
func BuildAdapters(cfg config.Config, store *sql.DB, routeCache ports.RouteCache) (ports.SectionRegistry, ports.TripPlanner, error) {
	var registry ports.SectionRegistry
	switch cfg.RegistrySource {
	case config.RegistryFile:
		registry = repositories.NewFileRegistry(cfg.RegistryFile)
	case config.RegistryDB:
		registry = repositories.NewSQLSectionRegistry(store)
	}

	if cfg.Offline {
		reg, err := offlineRegistry(registry)
		if err != nil {
			return nil, nil, err
		}
		offline, err := planner.NewOfflinePlanner(reg, domain.DefaultLayout())
		if err != nil {
			return nil, nil, err
		}
		if registry == nil {
			registry = offline
		}
		return registry, offline, nil
	}

	remote, err := planner.NewHTTPPlanner(cfg.PlannerURL, planner.Options{
		Timeout:    cfg.HTTPTimeout,
		RetryMax:   cfg.RetryMax,
		RouteCache: routeCache,
	})
	if err != nil {
		return nil, nil, err
	}

	switch {
	case registry != nil:
	case cfg.RegistrySource == config.RegistryBuiltin:
		reg, err := repositories.DefaultRegistry()
		if err != nil {
			return nil, nil, err
		}
		registry = repositories.StaticRegistry{Registry: reg}
	default:
		registry = remote
	}
	return registry, remote, nil
}

// offlineRegistry resolves the catalog the offline planner routes over.
func offlineRegistry(src ports.SectionRegistry) (*domain.Registry, error) {
	if src == nil {
		return repositories.DefaultRegistry()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	reg, err := src.FetchSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("offline registry: %w", err)
	}
	return reg, nil
}

// OpenStore prefers the shared Postgres database, then a local SQLite file.
// Without either it returns a nil DB.
func OpenStore(cfg config.Config) (*sql.DB, repositories.Dialect, error) {
	switch {
	case cfg.DatabaseURL != "":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, repositories.Postgres, fmt.Errorf("open store: %w", err)
		}
		return conn, repositories.Postgres, nil
	case cfg.CachePath != "":
		conn, err := db.OpenSQLite(cfg.CachePath)
		if err != nil {
			return nil, repositories.SQLite, fmt.Errorf("open store: %w", err)
		}
		// Postgres schemas are owned by dbtool; local files are initialized here.
		if err := repositories.InitSchema(conn, repositories.SQLite); err != nil {
			_ = conn.Close()
			return nil, repositories.SQLite, fmt.Errorf("open store: %w", err)
		}
		return conn, repositories.SQLite, nil
	default:
		return nil, repositories.SQLite, nil
	}
}

// RouteCache returns nil when there is no store, leaving planner responses
// uncached.
func RouteCache(cfg config.Config, store *sql.DB, dialect repositories.Dialect) ports.RouteCache {
	switch {
	case store == nil:
		return nil
	case dialect == repositories.Postgres:
		return cache.NewSQLRouteCache(store, cfg.CacheMaxAge)
	default:
		return cache.NewSqliteRouteCache(store, cfg.CacheMaxAge)
	}
}
