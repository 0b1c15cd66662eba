package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/platform/obs"
	"store-route-assistant/internal/ports"
	"time"

	"github.com/google/uuid"
)

// A submitted trip as the planner returned it, with locally derived metrics.
type Trip struct {
	ID               string
	Items            []string
	Stops            []domain.PlannedStop
	Path             []domain.Point
	Metrics          domain.TripMetrics
	ReportedDistance float64
	ReportedTime     float64
	Directions       []string
	Pins             []Pin
	Unmapped         []string
	Playback         *Playback
}

// Snapshot of everything the rendering surface draws.
type ViewState struct {
	State         PartitionState
	Available     []string
	Selected      []string
	SelectedCount int
	Pins          []Pin
	Unmapped      []string
	Notice        *Notice
	LastTrip      *Trip
}

type SessionOptions struct {
	// Layout name sent with optimize requests.
	StoreLayout string
	NoticeTTL   time.Duration
	Now         func() time.Time
}

// TripSession owns the trip state for one user: the catalog partition, the
// section resolver, the cursor engine and the notice board.
//
// Like its parts it is not synchronized. Hosts that call it from several
// goroutines hold a lock around each call but not around the planner call;
// use BeginSubmit and CompleteSubmit for that.
type TripSession struct {
	partition *CatalogPartition
	resolver  *SectionResolver
	engine    *RoutePlaybackEngine
	notices   *NoticeBoard
	layout    string
	lastTrip  *Trip
}

func NewTripSession(reg *domain.Registry, opts SessionOptions) (*TripSession, error) {
	if reg == nil {
		return nil, errors.New("new trip session: registry is nil")
	}

	partition, err := NewCatalogPartition(reg.SupportedItems)
	if err != nil {
		return nil, fmt.Errorf("new trip session: %w", err)
	}

	layout := opts.StoreLayout
	if layout == "" {
		layout = domain.DefaultStoreLayout
	}

	return &TripSession{
		partition: partition,
		resolver:  NewSectionResolver(reg),
		engine:    NewRoutePlaybackEngine(),
		notices:   NewNoticeBoard(opts.NoticeTTL, opts.Now),
		layout:    layout,
	}, nil
}

func (s *TripSession) Partition() *CatalogPartition { return s.partition }
func (s *TripSession) Resolver() *SectionResolver   { return s.resolver }
func (s *TripSession) Engine() *RoutePlaybackEngine { return s.engine }
func (s *TripSession) Notices() *NoticeBoard        { return s.notices }
func (s *TripSession) LastTrip() *Trip              { return s.lastTrip }

// Select adds an item to the trip by user input.
func (s *TripSession) Select(raw string) (string, error) {
	item, err := s.partition.Select(raw)
	if err != nil {
		s.notices.ShowError(err)
		return "", err
	}

	s.refreshSelectionNotice()
	return item, nil
}

// Deselect removes an item from the trip.
func (s *TripSession) Deselect(item string) error {
	if err := s.partition.Deselect(item); err != nil {
		s.notices.ShowError(err)
		return err
	}

	s.refreshSelectionNotice()
	return nil
}

// BeginSubmit validates the selection and marks the session busy. The
// returned items go to the planner; CompleteSubmit must follow.
func (s *TripSession) BeginSubmit() ([]string, error) {
	items, err := s.partition.BeginSubmission()
	if err != nil {
		s.notices.ShowError(err)
		return nil, err
	}

	s.notices.Dismiss()
	return items, nil
}

// CompleteSubmit applies the planner outcome and always returns the session
// to idle. The selection is kept on failure so the user can retry.
func (s *TripSession) CompleteSubmit(
	ctx context.Context,
	items []string,
	res *domain.PlanResult,
	planErr error,
) (*Trip, error) {
	log := obs.Logger(ctx)

	trip, err := s.applyPlan(items, res, planErr)
	if err != nil {
		s.partition.EndSubmission(false)
		s.notices.ShowError(err)
		log.WithError(err).WithField("kind", Classify(err)).Warn("trip submission failed")
		return nil, err
	}

	s.partition.EndSubmission(true)
	s.lastTrip = trip

	if msg := UnmappedWarning(trip.Unmapped); msg != "" {
		s.notices.Show(msg, KindData)
	} else {
		s.notices.Dismiss()
	}

	if math.Abs(trip.ReportedDistance-trip.Metrics.TotalDistance) > 0.01 {
		log.WithFields(map[string]any{
			"trip_id":  trip.ID,
			"reported": trip.ReportedDistance,
			"computed": trip.Metrics.TotalDistance,
		}).Debug("planner distance differs from path length")
	}

	log.WithFields(map[string]any{
		"trip_id":  trip.ID,
		"stops":    len(trip.Stops),
		"distance": fmt.Sprintf("%.2f", trip.Metrics.TotalDistance),
		"minutes":  trip.Metrics.EstimatedTimeMinutes,
	}).Info("trip planned")

	return trip, nil
}

// Submit runs a full submission against planner.
func (s *TripSession) Submit(ctx context.Context, planner ports.TripPlanner) (_ *Trip, err error) {
	defer obs.Time(ctx, "session.Submit")(&err)

	items, err := s.BeginSubmit()
	if err != nil {
		return nil, err
	}

	res, planErr := planner.Optimize(ctx, items, s.layout)
	return s.CompleteSubmit(ctx, items, res, planErr)
}

func (s *TripSession) applyPlan(items []string, res *domain.PlanResult, planErr error) (*Trip, error) {
	if planErr != nil {
		var te *ports.TransportError
		if !errors.As(planErr, &te) {
			planErr = &ports.TransportError{Message: "Network error", Err: planErr}
		}
		return nil, fmt.Errorf("complete submit: %w", planErr)
	}
	if res == nil || !res.HasRoute {
		return nil, fmt.Errorf("complete submit: %w", ErrRouteMissing)
	}
	if !res.HasPath {
		return nil, fmt.Errorf("complete submit: %w", ErrPathMissing)
	}

	metrics, err := BuildTripMetrics(res.Path, res.SavingsPercent)
	if err != nil {
		return nil, fmt.Errorf("complete submit: %w", err)
	}

	playback, err := s.engine.Animate(res.Path)
	if err != nil {
		return nil, fmt.Errorf("complete submit: %w", err)
	}

	order := res.RouteOrder()
	pins, unmapped := s.resolver.Pins(order, order)

	return &Trip{
		ID:               uuid.NewString(),
		Items:            items,
		Stops:            res.Stops,
		Path:             res.Path,
		Metrics:          metrics,
		ReportedDistance: res.TotalDistance,
		ReportedTime:     res.EstimatedTime,
		Directions:       res.Directions,
		Pins:             pins,
		Unmapped:         unmapped,
		Playback:         playback,
	}, nil
}

// View returns what the rendering surface should show now.
func (s *TripSession) View() ViewState {
	selected := s.partition.Selected()
	pins, unmapped := s.resolver.Pins(selected, nil)

	v := ViewState{
		State:         s.partition.State(),
		Available:     s.partition.Available(),
		Selected:      selected,
		SelectedCount: len(selected),
		Pins:          pins,
		Unmapped:      unmapped,
		LastTrip:      s.lastTrip,
	}
	if n, ok := s.notices.Current(); ok {
		v.Notice = &n
	}
	return v
}

func (s *TripSession) refreshSelectionNotice() {
	_, unmapped := s.resolver.Pins(s.partition.Selected(), nil)
	if msg := UnmappedWarning(unmapped); msg != "" {
		s.notices.Show(msg, KindData)
		return
	}
	s.notices.Dismiss()
}
