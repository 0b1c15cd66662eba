package dto

import "time"

type SelectRequest struct {
	Item string `json:"item"`
}

type PinResponse struct {
	Item     string     `json:"item"`
	Section  string     `json:"section"`
	Position [2]float64 `json:"position"`
	Step     int        `json:"step,omitempty"`
	Style    string     `json:"style"`
}

type NoticeResponse struct {
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
}

type StateResponse struct {
	State         string          `json:"state"`
	Available     []string        `json:"available"`
	Selected      []string        `json:"selected"`
	SelectedCount int             `json:"selected_count"`
	Pins          []PinResponse   `json:"pins"`
	Unmapped      []string        `json:"unmapped"`
	Notice        *NoticeResponse `json:"notice"`
	LastTrip      *TripResponse   `json:"last_trip"`
}

type SuggestResponse struct {
	Items []string `json:"items"`
}
