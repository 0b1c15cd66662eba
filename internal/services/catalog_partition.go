package services

import (
	"fmt"
	"slices"
	"strings"
)

type PartitionState int

const (
	StateIdle PartitionState = iota
	StateSubmitting
)

func (s PartitionState) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "idle"
}

// CatalogPartition splits the immutable catalog into items still available
// to add and items already selected for the trip.
//
// After every operation available and selected are disjoint and together
// equal the catalog. While a submission is outstanding, mutations fail with
// ErrBusy. The type is not safe for concurrent use; hosts serialize calls.
type CatalogPartition struct {
	catalog   []string
	members   map[string]struct{}
	available []string
	selected  []string
	state     PartitionState
}

// NewCatalogPartition starts with every catalog item available. Blank names
// are dropped and duplicates folded, keeping first-seen order.
func NewCatalogPartition(catalog []string) (*CatalogPartition, error) {
	members := make(map[string]struct{}, len(catalog))
	items := make([]string, 0, len(catalog))
	for _, item := range catalog {
		if strings.TrimSpace(item) == "" {
			continue
		}
		if _, ok := members[item]; ok {
			continue
		}
		members[item] = struct{}{}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("new catalog partition: %w", ErrInvalidCatalog)
	}

	p := &CatalogPartition{
		catalog: items,
		members: members,
	}
	p.ResetAfterTrip()
	return p, nil
}

// Select moves the available item matching raw (trimmed, case-insensitive,
// whole-name) to the end of the selection and returns its catalog spelling.
func (p *CatalogPartition) Select(raw string) (string, error) {
	if p.state == StateSubmitting {
		return "", ErrBusy
	}

	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", ErrEmptyInput
	}

	idx := indexFold(p.available, normalized)
	if idx < 0 {
		if indexFold(p.selected, normalized) >= 0 {
			return "", fmt.Errorf("select %q: %w", raw, ErrAlreadySelected)
		}
		return "", fmt.Errorf("select %q: %w", raw, ErrNotFound)
	}

	match := p.available[idx]
	if slices.Contains(p.selected, match) {
		return "", fmt.Errorf("select %q: %w", raw, ErrAlreadySelected)
	}

	p.available = slices.Delete(p.available, idx, idx+1)
	p.selected = append(p.selected, match)
	return match, nil
}

// Deselect removes item from the selection and returns it to available,
// which is then re-sorted alphabetically.
func (p *CatalogPartition) Deselect(item string) error {
	if p.state == StateSubmitting {
		return ErrBusy
	}

	idx := slices.Index(p.selected, item)
	if idx < 0 {
		return fmt.Errorf("deselect %q: %w", item, ErrNotSelected)
	}

	p.selected = slices.Delete(p.selected, idx, idx+1)
	if !slices.Contains(p.available, item) {
		p.available = append(p.available, item)
	}
	slices.Sort(p.available)
	return nil
}

// ValidateForSubmission checks the selection can be sent to the planner.
func (p *CatalogPartition) ValidateForSubmission() error {
	if len(p.selected) == 0 {
		return ErrEmptyTrip
	}

	for _, item := range p.selected {
		if _, ok := p.members[item]; !ok {
			return &StaleItemError{Item: item}
		}
	}
	return nil
}

// BeginSubmission validates the selection and enters the submitting state.
// It returns a copy of the selection to send to the planner.
func (p *CatalogPartition) BeginSubmission() ([]string, error) {
	if p.state == StateSubmitting {
		return nil, ErrBusy
	}

	if err := p.ValidateForSubmission(); err != nil {
		return nil, err
	}

	p.state = StateSubmitting
	return slices.Clone(p.selected), nil
}

// EndSubmission returns to idle. A successful trip resets the partition.
func (p *CatalogPartition) EndSubmission(success bool) {
	p.state = StateIdle
	if success {
		p.ResetAfterTrip()
	}
}

// ResetAfterTrip restores the startup state from the original catalog.
func (p *CatalogPartition) ResetAfterTrip() {
	p.available = slices.Clone(p.catalog)
	p.selected = []string{}
}

// Suggest returns available items whose name contains query,
// case-insensitively. A blank query returns every available item.
func (p *CatalogPartition) Suggest(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(p.available)
	}

	out := make([]string, 0, len(p.available))
	for _, item := range p.available {
		if strings.Contains(strings.ToLower(item), q) {
			out = append(out, item)
		}
	}
	return out
}

func (p *CatalogPartition) Available() []string { return slices.Clone(p.available) }
func (p *CatalogPartition) Selected() []string  { return slices.Clone(p.selected) }
func (p *CatalogPartition) Catalog() []string   { return slices.Clone(p.catalog) }
func (p *CatalogPartition) State() PartitionState {
	return p.state
}

func indexFold(items []string, normalized string) int {
	for i, item := range items {
		if strings.ToLower(item) == normalized {
			return i
		}
	}
	return -1
}
