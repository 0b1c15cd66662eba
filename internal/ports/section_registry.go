package ports

import (
	"context"
	"store-route-assistant/internal/domain"
)

// Port: a boundary for loading the store's section registry and item catalog.
type SectionRegistry interface {
	// Fetch the registry once at startup.
	FetchSections(ctx context.Context) (*domain.Registry, error)
}
