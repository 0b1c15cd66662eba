package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/platform/obs"
	"store-route-assistant/internal/ports"
	"store-route-assistant/internal/services"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// OfflinePlanner implements SectionRegistry and TripPlanner without a
// backend, for demos and local runs.
//
// Routes are planned with a greedy nearest-neighbor walk from the entrance
// over the sections stocking each item, then straight to the exit. It does
// not attempt global optimization; ties break on item name so the same list
// always gives the same route.
type OfflinePlanner struct {
	reg    *domain.Registry
	layout domain.Layout
}

func NewOfflinePlanner(reg *domain.Registry, layout domain.Layout) (*OfflinePlanner, error) {
	if reg == nil || len(reg.SupportedItems) == 0 {
		return nil, errors.New("offline planner: registry has no supported items")
	}
	return &OfflinePlanner{reg: reg.Clone(), layout: layout}, nil
}

func (o *OfflinePlanner) FetchSections(ctx context.Context) (*domain.Registry, error) {
	return o.reg.Clone(), nil
}

func (o *OfflinePlanner) Optimize(
	ctx context.Context,
	items []string,
	layout string,
) (_ *domain.PlanResult, err error) {
	defer obs.Time(ctx, "offline.Optimize")(&err)

	if len(items) == 0 {
		return nil, &ports.TransportError{Status: 400, Message: "Missing shopping list"}
	}

	located := make(map[string]domain.SectionRecord, len(items))
	var invalid []string
	for _, item := range items {
		sec, ok := o.reg.Locate(item)
		if !ok {
			invalid = append(invalid, item)
			continue
		}
		located[item] = sec
	}
	if len(invalid) > 0 {
		return nil, &ports.TransportError{
			Status:  500,
			Message: "Optimization failed: Items not found or not mapped to shelves: " + strings.Join(invalid, ", "),
		}
	}

	remaining := make(map[string]struct{}, len(items))
	for _, item := range items {
		remaining[item] = struct{}{}
	}

	current := o.layout.Entrance
	order := make([]string, 0, len(remaining))

	for len(remaining) > 0 {
		var best string
		minDistance := math.Inf(1)

		// Select next item by minimum straight-line distance (greedy step).
		for item := range remaining {
			d := floats.Distance(current.PointToList(), located[item].Coordinates.PointToList(), 2)
			// Tie-breaker ensures deterministic ordering when distances are equal.
			if d < minDistance || (d == minDistance && (best == "" || item < best)) {
				minDistance = d
				best = item
			}
		}

		if best == "" {
			return nil, errors.New("offline optimize: failed to select next item")
		}

		order = append(order, best)
		current = *located[best].Coordinates
		delete(remaining, best)
	}

	bestPath := o.walk(order, located)
	bestDistance, err := services.ComputeDistance(bestPath)
	if err != nil {
		return nil, fmt.Errorf("offline optimize: %w", err)
	}

	naiveDistance, err := services.ComputeDistance(o.walk(items, located))
	if err != nil {
		return nil, fmt.Errorf("offline optimize: %w", err)
	}

	savings := 0.0
	if naiveDistance > 0 {
		savings = math.Max(0, (1-bestDistance/naiveDistance)*100)
	}

	res := &domain.PlanResult{
		Path:           bestPath,
		TotalDistance:  round2(bestDistance),
		EstimatedTime:  math.Ceil(bestDistance / services.WalkSpeedPxPerSec / 60),
		SavingsPercent: round2(savings),
		HasRoute:       true,
		HasPath:        true,
	}

	for i, item := range order {
		sec := located[item]
		c := *sec.Coordinates
		res.Stops = append(res.Stops, domain.PlannedStop{
			Item:        item,
			Section:     sec.Name,
			Coordinates: &c,
			Step:        i + 1,
		})
	}
	res.Directions = Directions(res.Stops)

	return res, nil
}

// walk builds the polyline entrance -> each item's section -> exit.
func (o *OfflinePlanner) walk(order []string, located map[string]domain.SectionRecord) []domain.Point {
	path := make([]domain.Point, 0, len(order)+2)
	path = append(path, o.layout.Entrance)
	for _, item := range order {
		path = append(path, *located[item].Coordinates)
	}
	return append(path, o.layout.Exit)
}

// Directions renders one instruction per stop; the last one also sends the
// shopper to checkout.
func Directions(stops []domain.PlannedStop) []string {
	out := make([]string, 0, len(stops))
	for i, s := range stops {
		if i == 0 {
			out = append(out, fmt.Sprintf("Start at entrance, head to %s for %s", s.Section, s.Item))
			continue
		}
		out = append(out, fmt.Sprintf("Continue to %s for %s", s.Section, s.Item))
	}
	if len(out) > 0 {
		out[len(out)-1] += ", then proceed to checkout"
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
