package repositories

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"store-route-assistant/internal/adapters/planner"
	"store-route-assistant/internal/domain"
)

//go:embed default_sections.json
var defaultSections []byte

// Registry for the built-in default store, as the planner backend serves it.
func DefaultRegistry() (*domain.Registry, error) {
	reg, err := planner.DecodeRegistry(defaultSections)
	if err != nil {
		return nil, fmt.Errorf("default registry: %w", err)
	}
	return reg, nil
}

// FileRegistry implements SectionRegistry from a sections document on disk,
// in the same shape the planner's /api/sections returns.
type FileRegistry struct {
	Path string
}

func NewFileRegistry(path string) *FileRegistry {
	return &FileRegistry{Path: path}
}

func (f *FileRegistry) FetchSections(ctx context.Context) (*domain.Registry, error) {
	body, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("file registry: read %q: %w", f.Path, err)
	}

	reg, err := planner.DecodeRegistry(body)
	if err != nil {
		return nil, fmt.Errorf("file registry: parse %q: %w", f.Path, err)
	}
	return reg, nil
}

// StaticRegistry serves a registry held in memory. Each fetch returns a copy.
type StaticRegistry struct {
	Registry *domain.Registry
}

func (s StaticRegistry) FetchSections(ctx context.Context) (*domain.Registry, error) {
	if s.Registry == nil {
		return nil, errors.New("static registry: no registry")
	}
	return s.Registry.Clone(), nil
}
