package dto

type TripStopResponse struct {
	Item        string      `json:"item"`
	Section     string      `json:"section"`
	Coordinates *[2]float64 `json:"coordinates"`
	Step        int         `json:"step"`
}

type TripResponse struct {
	ID                   string             `json:"id"`
	Items                []string           `json:"items"`
	Stops                []TripStopResponse `json:"stops"`
	Path                 [][2]float64       `json:"path"`
	TotalDistance        float64            `json:"total_distance"`
	EstimatedTimeMinutes int                `json:"estimated_time_minutes"`
	SavingsPercent       float64            `json:"savings_percent"`
	ReportedDistance     float64            `json:"reported_distance"`
	ReportedTime         float64            `json:"reported_time"`
	Directions           []string           `json:"directions"`
	Pins                 []PinResponse      `json:"pins"`
	Unmapped             []string           `json:"unmapped"`
}

// One Server-Sent Event on the cursor stream.
type CursorEvent struct {
	Frame int     `json:"frame"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}
