package services

import (
	"errors"
	"fmt"
	"store-route-assistant/internal/ports"
)

// Input errors: recovered locally, no state change.
var (
	ErrEmptyInput      = errors.New("item not supported or empty")
	ErrNotFound        = errors.New("item not supported")
	ErrAlreadySelected = errors.New("item already in list")
	ErrNotSelected     = errors.New("item is not in the list")
)

// State errors: the requested transition is refused.
var (
	ErrBusy           = errors.New("a trip is already being optimized")
	ErrEmptyTrip      = errors.New("shopping list is empty")
	ErrInvalidCatalog = errors.New("catalog must contain at least one item")
)

// Data errors: the planner or registry sent something unusable.
var (
	ErrRouteMissing     = errors.New("no route found")
	ErrPathMissing      = errors.New("route path is missing from backend")
	ErrDegenerateRoute  = errors.New("route needs at least two waypoints")
	ErrNegativeDistance = errors.New("distance must not be negative")
	ErrRegistryEmpty    = errors.New("registry has no supported items")
)

// A selected item that is no longer part of the catalog.
type StaleItemError struct {
	Item string
}

func (e *StaleItemError) Error() string {
	return fmt.Sprintf("item '%s' not available", e.Item)
}

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInput
	KindState
	KindData
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindState:
		return "state"
	case KindData:
		return "data"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Classify maps an error onto the user-facing taxonomy.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var stale *StaleItemError
	var transport *ports.TransportError

	switch {
	case errors.Is(err, ErrEmptyInput),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAlreadySelected),
		errors.Is(err, ErrNotSelected):
		return KindInput
	case errors.Is(err, ErrBusy),
		errors.Is(err, ErrEmptyTrip),
		errors.Is(err, ErrInvalidCatalog),
		errors.As(err, &stale):
		return KindState
	case errors.Is(err, ErrRouteMissing),
		errors.Is(err, ErrPathMissing),
		errors.Is(err, ErrDegenerateRoute),
		errors.Is(err, ErrNegativeDistance),
		errors.Is(err, ErrRegistryEmpty):
		return KindData
	case errors.As(err, &transport):
		return KindTransport
	default:
		return KindUnknown
	}
}

// UserMessage returns the text shown to the user for err.
func UserMessage(err error) string {
	var stale *StaleItemError
	var transport *ports.TransportError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &transport):
		return transport.Message
	case errors.As(err, &stale):
		return fmt.Sprintf("Item '%s' not available.", stale.Item)
	case errors.Is(err, ErrEmptyInput):
		return "Item not supported or empty."
	case errors.Is(err, ErrNotFound):
		return "Item not supported."
	case errors.Is(err, ErrAlreadySelected):
		return "Item already in list."
	case errors.Is(err, ErrNotSelected):
		return "Item is not in the list."
	case errors.Is(err, ErrBusy):
		return "Route optimization already in progress."
	case errors.Is(err, ErrEmptyTrip):
		return "Shopping list is empty."
	case errors.Is(err, ErrRouteMissing):
		return "No route found."
	case errors.Is(err, ErrPathMissing):
		return "Route path is missing from backend."
	default:
		return err.Error()
	}
}
