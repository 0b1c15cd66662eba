package domain

// One stop of a planned trip, in the order the planner chose.
type PlannedStop struct {
	Item        string
	Section     string
	Coordinates *Point
	Step        int
}

// Represents a planner response for one trip.
// HasRoute and HasPath record whether the planner sent optimized_route and
// full_path at all; an absent field is a different failure from an empty one.
type PlanResult struct {
	Stops          []PlannedStop
	Path           []Point
	TotalDistance  float64
	EstimatedTime  float64
	SavingsPercent float64
	Directions     []string
	HasRoute       bool
	HasPath        bool
}

// Return the stop items in route order.
func (r *PlanResult) RouteOrder() []string {
	order := make([]string, 0, len(r.Stops))
	for _, s := range r.Stops {
		order = append(order, s.Item)
	}
	return order
}

// Aggregate metrics for a trip. Distance and time are derived from the
// waypoint polyline; savings is taken from the planner as-is.
type TripMetrics struct {
	TotalDistance        float64
	EstimatedTimeMinutes int
	SavingsPercent       float64
}
