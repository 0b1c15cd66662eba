package services

import (
	"context"
	"fmt"
	"iter"
	"math"
	"slices"
	"store-route-assistant/internal/domain"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/floats"
)

const (
	// Walking speed in map pixels per second. The reference store treats one
	// pixel as one metre, so the estimate mixes units on purpose; keep it fixed.
	WalkSpeedPxPerSec = 1.2

	// Fraction of a segment the cursor advances per frame (34 frames per segment).
	InterpolationStep = 0.03
)

// ComputeDistance returns the Euclidean length of the polyline.
func ComputeDistance(path []domain.Point) (float64, error) {
	if len(path) < 2 {
		return 0, fmt.Errorf("compute distance: %d waypoints: %w", len(path), ErrDegenerateRoute)
	}

	total := 0.0
	for i := 1; i < len(path); i++ {
		total += floats.Distance(path[i-1].PointToList(), path[i].PointToList(), 2)
	}
	return total, nil
}

// EstimateTimeMinutes converts a walking distance in pixels to whole minutes,
// rounding up.
func EstimateTimeMinutes(distance float64) (int, error) {
	if distance < 0 {
		return 0, fmt.Errorf("estimate time: distance %.2f: %w", distance, ErrNegativeDistance)
	}
	return int(math.Ceil(distance / WalkSpeedPxPerSec / 60)), nil
}

// BuildTripMetrics derives distance and time from the path. Savings is the
// planner's figure and is never recomputed.
func BuildTripMetrics(path []domain.Point, savingsPercent float64) (domain.TripMetrics, error) {
	dist, err := ComputeDistance(path)
	if err != nil {
		return domain.TripMetrics{}, fmt.Errorf("build trip metrics: %w", err)
	}

	minutes, err := EstimateTimeMinutes(dist)
	if err != nil {
		return domain.TripMetrics{}, fmt.Errorf("build trip metrics: %w", err)
	}

	return domain.TripMetrics{
		TotalDistance:        dist,
		EstimatedTimeMinutes: minutes,
		SavingsPercent:       savingsPercent,
	}, nil
}

// Playback is a lazy cursor over a waypoint polyline.
//
// Each segment yields positions at t = 0, 0.03, ... 0.99; after the last
// segment the final waypoint is yielded once so the cursor rests on it.
// Next is meant for a single driver; Stop may be called from anywhere.
type Playback struct {
	path    []domain.Point
	seg     int
	step    int
	settled bool
	stopped atomic.Bool
}

func newPlayback(path []domain.Point) *Playback {
	return &Playback{path: slices.Clone(path)}
}

// Next returns the next cursor position. ok is false once the sequence is
// exhausted or stopped.
func (p *Playback) Next() (domain.Point, bool) {
	if p.stopped.Load() || p.settled {
		return domain.Point{}, false
	}

	for p.seg < len(p.path)-1 {
		t := float64(p.step) * InterpolationStep
		if t > 1 {
			p.seg++
			p.step = 0
			continue
		}

		from, to := p.path[p.seg], p.path[p.seg+1]
		p.step++
		return domain.Point{
			X: from.X + (to.X-from.X)*t,
			Y: from.Y + (to.Y-from.Y)*t,
		}, true
	}

	p.settled = true
	return p.path[len(p.path)-1], true
}

// Reset rewinds the cursor to the first waypoint. A stopped playback stays stopped.
func (p *Playback) Reset() {
	p.seg = 0
	p.step = 0
	p.settled = false
}

// Stop ends the sequence; later Next calls report exhaustion.
func (p *Playback) Stop() { p.stopped.Store(true) }

func (p *Playback) Stopped() bool { return p.stopped.Load() }

// Done reports whether the cursor reached the final waypoint.
func (p *Playback) Done() bool { return p.settled }

// Positions ranges over the remaining positions.
func (p *Playback) Positions() iter.Seq[domain.Point] {
	return func(yield func(domain.Point) bool) {
		for {
			pos, ok := p.Next()
			if !ok || !yield(pos) {
				return
			}
		}
	}
}

// FrameCount returns how many positions a full playback of path yields.
func FrameCount(path []domain.Point) int {
	if len(path) < 2 {
		return 0
	}
	perSegment := int(math.Floor(1/InterpolationStep)) + 1
	return perSegment*(len(path)-1) + 1
}

// RoutePlaybackEngine owns the single cursor animating on the map.
// Starting a new animation stops the previous one.
type RoutePlaybackEngine struct {
	active *Playback
}

func NewRoutePlaybackEngine() *RoutePlaybackEngine {
	return &RoutePlaybackEngine{}
}

// Animate starts a cursor over path, stopping any cursor already running.
func (e *RoutePlaybackEngine) Animate(path []domain.Point) (*Playback, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("animate cursor: %d waypoints: %w", len(path), ErrDegenerateRoute)
	}

	if e.active != nil {
		e.active.Stop()
	}
	e.active = newPlayback(path)
	return e.active, nil
}

// Active returns the current cursor, or nil before the first animation.
func (e *RoutePlaybackEngine) Active() *Playback { return e.active }

// Stop halts the current cursor, if any.
func (e *RoutePlaybackEngine) Stop() {
	if e.active != nil {
		e.active.Stop()
	}
}

// Drive emits one cursor position per frame tick until the playback is
// exhausted or stopped, or ctx ends. It returns ctx.Err() on cancellation.
func Drive(ctx context.Context, p *Playback, frames <-chan time.Time, emit func(domain.Point)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			pos, more := p.Next()
			if !more {
				return nil
			}
			emit(pos)
		}
	}
}
