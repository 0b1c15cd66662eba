package domain

import "slices"

// Named area of the store with a fixed display coordinate and the items it
// stocks. Coordinates is nil when the registry has no position for the section.
type SectionRecord struct {
	Name        string
	Coordinates *Point
	Items       []string
}

// Report whether the section stocks the item (exact match).
func (s SectionRecord) Stocks(item string) bool {
	return slices.Contains(s.Items, item)
}

// Read-only section registry as fetched at startup. Sections keep the order
// the registry delivered them in; resolution depends on that order.
type Registry struct {
	Sections       []SectionRecord
	SupportedItems []string
}

// Locate returns the first section in registry order that stocks item.
// ok is false when none does or the claiming section has no coordinates.
func (r *Registry) Locate(item string) (SectionRecord, bool) {
	if r == nil {
		return SectionRecord{}, false
	}
	for _, s := range r.Sections {
		if !s.Stocks(item) {
			continue
		}
		if s.Coordinates == nil {
			return SectionRecord{}, false
		}
		return s, true
	}
	return SectionRecord{}, false
}

// Clone returns a deep copy; nil stays nil.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return nil
	}

	out := &Registry{
		Sections:       make([]SectionRecord, 0, len(r.Sections)),
		SupportedItems: slices.Clone(r.SupportedItems),
	}
	for _, s := range r.Sections {
		rec := SectionRecord{Name: s.Name, Items: slices.Clone(s.Items)}
		if s.Coordinates != nil {
			c := *s.Coordinates
			rec.Coordinates = &c
		}
		out.Sections = append(out.Sections, rec)
	}
	return out
}
