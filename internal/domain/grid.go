package domain

import "math"

// A pixel coordinate on the store map.
type Point struct {
	X float64
	Y float64
}

// Return the point as [x, y] for external API compatibility.
func (p Point) PointToList() []float64 { return []float64{p.X, p.Y} }

// An integer (column, row) position on the store grid.
type Cell struct {
	Col int
	Row int
}

// Fixed-size cell grid. Size is the edge length of one cell in pixels.
type Grid struct {
	Cols int
	Rows int
	Size int
}

// Report whether the cell lies inside the grid.
func (g Grid) Contains(c Cell) bool {
	return c.Col >= 0 && c.Col < g.Cols && c.Row >= 0 && c.Row < g.Rows
}

// Return the pixel centre of a cell.
func (g Grid) CellToPixel(c Cell) Point {
	size := float64(g.Size)
	return Point{
		X: float64(c.Col)*size + size/2,
		Y: float64(c.Row)*size + size/2,
	}
}

// Return the cell containing a pixel. ok is false when the pixel is off the map.
func (g Grid) PixelToCell(p Point) (Cell, bool) {
	if g.Size <= 0 || p.X < 0 || p.Y < 0 {
		return Cell{}, false
	}

	c := Cell{
		Col: int(math.Floor(p.X / float64(g.Size))),
		Row: int(math.Floor(p.Y / float64(g.Size))),
	}
	return c, g.Contains(c)
}

// Return the map size in pixels.
func (g Grid) PixelBounds() (width int, height int) {
	return g.Cols * g.Size, g.Rows * g.Size
}

// Axis-aligned pixel rectangle.
type Rect struct {
	Min Point
	Max Point
}

// Static shelving rectangle in cell units.
//
// LabelOffset shifts the label away from the rectangle centre; narrow aisles
// use it to place a two-line label beside the shelf instead of on top of it.
type Obstacle struct {
	Label       string
	X, Y, W, H  int
	Color       string
	LabelOffset Point
}

// Report whether the obstacle covers the cell.
func (o Obstacle) Covers(c Cell) bool {
	return c.Col >= o.X && c.Col < o.X+o.W && c.Row >= o.Y && c.Row < o.Y+o.H
}

// Return the obstacle rectangle in pixels.
func (o Obstacle) Bounds(size int) Rect {
	s := float64(size)
	return Rect{
		Min: Point{X: float64(o.X) * s, Y: float64(o.Y) * s},
		Max: Point{X: float64(o.X+o.W) * s, Y: float64(o.Y+o.H) * s},
	}
}

// Return the label anchor in pixels: rectangle centre, 5px below for the
// text baseline, then the obstacle's own offset.
func (o Obstacle) LabelPosition(size int) Point {
	b := o.Bounds(size)
	return Point{
		X: (b.Min.X+b.Max.X)/2 + o.LabelOffset.X,
		Y: (b.Min.Y+b.Max.Y)/2 + 5 + o.LabelOffset.Y,
	}
}
