package dto

type ObstacleResponse struct {
	Label   string     `json:"label"`
	X       int        `json:"x"`
	Y       int        `json:"y"`
	W       int        `json:"w"`
	H       int        `json:"h"`
	Color   string     `json:"color"`
	LabelAt [2]float64 `json:"label_at"`
}

type LayoutResponse struct {
	Cols      int                `json:"cols"`
	Rows      int                `json:"rows"`
	GridSize  int                `json:"grid_size"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Obstacles []ObstacleResponse `json:"obstacles"`
	Entrance  [2]float64         `json:"entrance"`
	Exit      [2]float64         `json:"exit"`
}
