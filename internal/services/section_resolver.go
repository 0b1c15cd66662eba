package services

import (
	"fmt"
	"slices"
	"store-route-assistant/internal/domain"
	"strings"
)

type PinStyle string

const (
	PinFaded    PinStyle = "faded"
	PinSelected PinStyle = "selected"
)

// Map marker for one item. Step is the 1-based route position, 0 when the
// item is not on the current route.
type Pin struct {
	Item     string
	Section  string
	Position domain.Point
	Step     int
	Style    PinStyle
}

// SectionResolver answers "where does this item live" from the registry.
//
// When several sections claim an item, the first one in registry order wins.
// The registry is read-only after construction.
type SectionResolver struct {
	reg domain.Registry
}

func NewSectionResolver(reg *domain.Registry) *SectionResolver {
	if reg == nil {
		return &SectionResolver{}
	}
	return &SectionResolver{reg: domain.Registry{Sections: slices.Clone(reg.Sections)}}
}

// Resolve returns the section stocking item. ok is false when no section
// claims the item or the claiming section has no coordinates.
func (r *SectionResolver) Resolve(item string) (domain.SectionRecord, bool) {
	return r.reg.Locate(item)
}

// Pins resolves a marker per item. Items present in routeOrder are styled as
// selected and numbered by their route position. Unmapped items are
// returned in input order and produce no pin.
func (r *SectionResolver) Pins(items []string, routeOrder []string) ([]Pin, []string) {
	pins := make([]Pin, 0, len(items))
	var unmapped []string

	for _, item := range items {
		section, ok := r.Resolve(item)
		if !ok {
			unmapped = append(unmapped, item)
			continue
		}

		pin := Pin{
			Item:     item,
			Section:  section.Name,
			Position: *section.Coordinates,
			Style:    PinFaded,
		}
		if idx := slices.Index(routeOrder, item); idx >= 0 {
			pin.Step = idx + 1
			pin.Style = PinSelected
		}
		pins = append(pins, pin)
	}

	return pins, unmapped
}

// Duplicates lists items claimed by more than one section, with the
// claiming sections in registry order.
func (r *SectionResolver) Duplicates() map[string][]string {
	claims := make(map[string][]string)
	for _, s := range r.reg.Sections {
		for _, item := range s.Items {
			claims[item] = append(claims[item], s.Name)
		}
	}

	out := make(map[string][]string)
	for item, sections := range claims {
		if len(sections) > 1 {
			out[item] = sections
		}
	}
	return out
}

// UnmappedWarning formats the single aggregated warning for unmapped items.
func UnmappedWarning(unmapped []string) string {
	if len(unmapped) == 0 {
		return ""
	}
	return fmt.Sprintf("Some items are not mapped to shelves: %s", strings.Join(unmapped, ", "))
}
