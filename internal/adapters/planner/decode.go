package planner

import (
	"errors"
	"fmt"
	"store-route-assistant/internal/domain"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrMalformedResponse = errors.New("malformed response")

// present reports whether a field was sent with a non-null value.
func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func decodePoint(r gjson.Result) (domain.Point, error) {
	if !r.IsArray() {
		return domain.Point{}, fmt.Errorf("%w: point is not an array", ErrMalformedResponse)
	}

	xy := r.Array()
	if len(xy) != 2 || xy[0].Type != gjson.Number || xy[1].Type != gjson.Number {
		return domain.Point{}, fmt.Errorf("%w: point must be two numbers, got %s", ErrMalformedResponse, r.Raw)
	}

	return domain.Point{X: xy[0].Float(), Y: xy[1].Float()}, nil
}

func decodeStrings(r gjson.Result) []string {
	var out []string
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}

// DecodeRegistry parses a sections document:
//
//	{"sections": {"NAME": {"coordinates": [x, y], "items": [...]}, ...},
//	 "supported_items": [...]}
//
// Section order follows the document.
func DecodeRegistry(body []byte) (*domain.Registry, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: sections body is not JSON", ErrMalformedResponse)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: sections body is not an object", ErrMalformedResponse)
	}

	sections := root.Get("sections")
	if present(sections) && !sections.IsObject() {
		return nil, fmt.Errorf("%w: sections is not an object", ErrMalformedResponse)
	}

	reg := &domain.Registry{}
	var decodeErr error
	sections.ForEach(func(name, value gjson.Result) bool {
		rec := domain.SectionRecord{Name: name.String()}

		if c := value.Get("coordinates"); present(c) {
			p, err := decodePoint(c)
			if err != nil {
				decodeErr = fmt.Errorf("section %q: %w", rec.Name, err)
				return false
			}
			rec.Coordinates = &p
		}

		rec.Items = decodeStrings(value.Get("items"))
		reg.Sections = append(reg.Sections, rec)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	supported := root.Get("supported_items")
	if present(supported) && !supported.IsArray() {
		return nil, fmt.Errorf("%w: supported_items is not an array", ErrMalformedResponse)
	}
	reg.SupportedItems = decodeStrings(supported)

	return reg, nil
}

// DecodePlan parses an optimize response. Absent optimized_route or
// full_path fields are recorded on the result rather than rejected so the
// caller can tell them apart from empty ones.
func DecodePlan(body []byte) (*domain.PlanResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: optimize body is not JSON", ErrMalformedResponse)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: optimize body is not an object", ErrMalformedResponse)
	}

	res := &domain.PlanResult{}

	route := root.Get("optimized_route")
	if present(route) {
		if !route.IsArray() {
			return nil, fmt.Errorf("%w: optimized_route is not an array", ErrMalformedResponse)
		}
		res.HasRoute = true

		for i, stop := range route.Array() {
			item := stop.Get("item")
			if item.Type != gjson.String || strings.TrimSpace(item.Str) == "" {
				return nil, fmt.Errorf("%w: stop %d has no item name", ErrMalformedResponse, i)
			}
			ps := domain.PlannedStop{
				Item:    item.Str,
				Section: stop.Get("section").String(),
				Step:    int(stop.Get("step").Int()),
			}
			if c := stop.Get("coordinates"); present(c) {
				p, err := decodePoint(c)
				if err != nil {
					return nil, fmt.Errorf("stop %q: %w", ps.Item, err)
				}
				ps.Coordinates = &p
			}
			res.Stops = append(res.Stops, ps)
		}
	}

	path := root.Get("full_path")
	if present(path) {
		if !path.IsArray() {
			return nil, fmt.Errorf("%w: full_path is not an array", ErrMalformedResponse)
		}
		res.HasPath = true

		for i, wp := range path.Array() {
			p, err := decodePoint(wp)
			if err != nil {
				return nil, fmt.Errorf("waypoint %d: %w", i, err)
			}
			res.Path = append(res.Path, p)
		}
	}

	res.TotalDistance = root.Get("total_distance").Float()
	res.EstimatedTime = root.Get("estimated_time").Float()
	res.SavingsPercent = root.Get("savings_percentage").Float()
	res.Directions = decodeStrings(root.Get("directions"))

	return res, nil
}
