package ports

import (
	"context"
	"fmt"
	"store-route-assistant/internal/domain"
)

// Contract for the remote service that orders a shopping list into a walking route.
type TripPlanner interface {
	// Return the planner's route for the items, in the store layout named by layout.
	Optimize(ctx context.Context, items []string, layout string) (*domain.PlanResult, error)
}

// Failure talking to the registry or planner: unreachable service or a
// non-success status. Message is what the user sees: the server's own error
// text when it sent one, otherwise a generic fallback.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }
