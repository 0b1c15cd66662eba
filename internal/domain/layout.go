package domain

// Store layout the planner and map share: the grid, its shelving and the
// two fixed anchors. Anchors are pixel coordinates, not derived from cells.
type Layout struct {
	Grid      Grid
	Obstacles []Obstacle
	Entrance  Point
	Exit      Point
}

const (
	GridSize = 30
	GridCols = 19
	GridRows = 20

	// Layout name the planner expects in optimize requests.
	DefaultStoreLayout = "walmart_default"
)

const (
	shelfGrey   = "#b2bec3"
	shelfBlue   = "#74b9ff"
	shelfRed    = "#ff7675"
	shelfViolet = "#a29bfe"
)

var defaultObstacles = []Obstacle{
	{Label: "DELI", X: 1, Y: 1, W: 4, H: 2, Color: shelfGrey},
	{Label: "BAKERY", X: 5, Y: 1, W: 4, H: 2, Color: shelfGrey},
	{Label: "PRODUCE", X: 13, Y: 1, W: 5, H: 5, Color: shelfBlue},
	{Label: "", X: 18, Y: 1, W: 1, H: 19, Color: shelfGrey},
	{Label: "MEAT", X: 1, Y: 3, W: 4, H: 2, Color: shelfRed},
	{Label: "SEAFOOD", X: 5, Y: 3, W: 4, H: 2, Color: shelfRed},
	{Label: "GROCERY 1", X: 1, Y: 5, W: 4, H: 2, Color: shelfGrey},
	{Label: "GROCERY 2", X: 5, Y: 5, W: 4, H: 2, Color: shelfGrey},
	{Label: "BEVERAGES", X: 1, Y: 7, W: 4, H: 2, Color: shelfViolet},
	{Label: "SNACKS", X: 5, Y: 7, W: 4, H: 2, Color: shelfViolet},
	{Label: "DAIRY PRODUCTS 1", X: 12, Y: 7, W: 1, H: 6, Color: shelfBlue, LabelOffset: Point{X: -30, Y: -8}},
	{Label: "DAIRY PRODUCTS 2", X: 16, Y: 7, W: 1, H: 6, Color: shelfBlue, LabelOffset: Point{X: 30, Y: -8}},
	{Label: "", X: 1, Y: 11, W: 7, H: 1, Color: shelfGrey},
	{Label: "", X: 1, Y: 12, W: 1, H: 4, Color: shelfGrey},
	{Label: "", X: 2, Y: 15, W: 6, H: 1, Color: shelfGrey},
	{Label: "", X: 3, Y: 17, W: 8, H: 1, Color: shelfGrey},
	{Label: "FROZEN FOODS", X: 12, Y: 17, W: 7, H: 2, Color: shelfBlue},
}

// Return the reference store layout. The obstacle slice is a fresh copy.
func DefaultLayout() Layout {
	obstacles := make([]Obstacle, len(defaultObstacles))
	copy(obstacles, defaultObstacles)

	return Layout{
		Grid:      Grid{Cols: GridCols, Rows: GridRows, Size: GridSize},
		Obstacles: obstacles,
		Entrance:  Point{X: 0.5 * GridSize, Y: 0.5 * GridSize},
		Exit:      Point{X: 18.5 * GridSize, Y: 19.5 * GridSize},
	}
}

// Report whether any shelf covers the cell.
func (l Layout) IsObstacleCell(c Cell) bool {
	for _, o := range l.Obstacles {
		if o.Covers(c) {
			return true
		}
	}
	return false
}
