package domain

import "testing"

func testRegistry() *Registry {
	return &Registry{
		Sections: []SectionRecord{
			{Name: "DAIRY", Coordinates: &Point{X: 105, Y: 300}, Items: []string{"milk", "eggs"}},
			{Name: "PRODUCE", Coordinates: &Point{X: 465, Y: 105}, Items: []string{"eggs", "apples"}},
			{Name: "STOCKROOM", Items: []string{"pallets"}},
		},
		SupportedItems: []string{"milk", "eggs", "apples", "pallets"},
	}
}

func TestRegistryLocate(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		item   string
		want   string
		wantOK bool
	}{
		{"milk", "DAIRY", true},
		{"eggs", "DAIRY", true}, // first claiming section wins
		{"apples", "PRODUCE", true},
		{"pallets", "", false},
		{"caviar", "", false},
	}

	for _, tt := range tests {
		got, ok := reg.Locate(tt.item)
		if ok != tt.wantOK || got.Name != tt.want {
			t.Errorf("Locate(%q) = (%q, %v), want (%q, %v)", tt.item, got.Name, ok, tt.want, tt.wantOK)
		}
	}

	var empty *Registry
	if _, ok := empty.Locate("milk"); ok {
		t.Error("Locate on nil registry reported a section")
	}
}

func TestRegistryClone(t *testing.T) {
	reg := testRegistry()
	cp := reg.Clone()

	cp.Sections[0].Coordinates.X = 0
	cp.Sections[0].Items[0] = "changed"
	cp.SupportedItems[0] = "changed"

	if reg.Sections[0].Coordinates.X != 105 {
		t.Errorf("clone shares coordinates")
	}
	if reg.Sections[0].Items[0] != "milk" || reg.SupportedItems[0] != "milk" {
		t.Errorf("clone shares item slices")
	}
	if cp.Sections[2].Coordinates != nil {
		t.Errorf("missing coordinates should stay nil")
	}

	var empty *Registry
	if empty.Clone() != nil {
		t.Error("Clone of nil registry should be nil")
	}
}
