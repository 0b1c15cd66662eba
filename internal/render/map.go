package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/services"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	floorColor    = color.RGBA{R: 245, G: 246, B: 250, A: 255}
	gridColor     = color.RGBA{R: 223, G: 230, B: 233, A: 255}
	routeColor    = color.RGBA{R: 9, G: 132, B: 227, A: 255}
	pinColor      = color.RGBA{R: 214, G: 48, B: 49, A: 255}
	fadedPinColor = color.RGBA{R: 99, G: 110, B: 114, A: 140}
	cursorColor   = color.RGBA{R: 0, G: 184, B: 148, A: 255}
	anchorColor   = color.RGBA{R: 45, G: 52, B: 54, A: 255}
)

// Scene is one frame of the store map.
type Scene struct {
	Layout domain.Layout
	Pins   []services.Pin
	Path   []domain.Point
	// Cursor position, nil when no trip is playing.
	Cursor *domain.Point
	Title  string
}

// Plot draws the scene in pixel coordinates with the origin at the top left,
// like the interactive map.
func Plot(scene Scene) (*plot.Plot, error) {
	width, height := scene.Layout.Grid.PixelBounds()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("plot map: empty grid %dx%d", width, height)
	}
	h := float64(height)
	flip := func(p domain.Point) plotter.XY { return plotter.XY{X: p.X, Y: h - p.Y} }

	p := plot.New()
	p.Title.Text = scene.Title
	p.BackgroundColor = floorColor
	p.X.Min, p.X.Max = 0, float64(width)
	p.Y.Min, p.Y.Max = 0, h
	p.HideAxes()

	if err := addGrid(p, scene.Layout.Grid, flip); err != nil {
		return nil, err
	}
	if err := addObstacles(p, scene.Layout, flip); err != nil {
		return nil, err
	}

	if len(scene.Path) >= 2 {
		pts := make(plotter.XYs, 0, len(scene.Path))
		for _, wp := range scene.Path {
			pts = append(pts, flip(wp))
		}
		route, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("plot map: route: %w", err)
		}
		route.Color = routeColor
		route.Width = vg.Points(3)
		route.Dashes = []vg.Length{vg.Points(8), vg.Points(4)}
		p.Add(route)
	}

	anchors, err := plotter.NewScatter(plotter.XYs{flip(scene.Layout.Entrance), flip(scene.Layout.Exit)})
	if err != nil {
		return nil, fmt.Errorf("plot map: anchors: %w", err)
	}
	anchors.GlyphStyle = draw.GlyphStyle{Color: anchorColor, Radius: vg.Points(5), Shape: draw.BoxGlyph{}}
	p.Add(anchors)

	if err := addPins(p, scene.Pins, flip); err != nil {
		return nil, err
	}

	if scene.Cursor != nil {
		cursor, err := plotter.NewScatter(plotter.XYs{flip(*scene.Cursor)})
		if err != nil {
			return nil, fmt.Errorf("plot map: cursor: %w", err)
		}
		cursor.GlyphStyle = draw.GlyphStyle{Color: cursorColor, Radius: vg.Points(7), Shape: draw.CircleGlyph{}}
		p.Add(cursor)
	}

	return p, nil
}

func addGrid(p *plot.Plot, g domain.Grid, flip func(domain.Point) plotter.XY) error {
	width, height := g.PixelBounds()

	line := func(a, b domain.Point) error {
		l, err := plotter.NewLine(plotter.XYs{flip(a), flip(b)})
		if err != nil {
			return fmt.Errorf("plot map: grid: %w", err)
		}
		l.Color = gridColor
		l.Width = vg.Points(0.5)
		p.Add(l)
		return nil
	}

	for c := 0; c <= g.Cols; c++ {
		x := float64(c * g.Size)
		if err := line(domain.Point{X: x}, domain.Point{X: x, Y: float64(height)}); err != nil {
			return err
		}
	}
	for r := 0; r <= g.Rows; r++ {
		y := float64(r * g.Size)
		if err := line(domain.Point{Y: y}, domain.Point{X: float64(width), Y: y}); err != nil {
			return err
		}
	}
	return nil
}

func addObstacles(p *plot.Plot, layout domain.Layout, flip func(domain.Point) plotter.XY) error {
	var labels plotter.XYLabels

	for _, o := range layout.Obstacles {
		b := o.Bounds(layout.Grid.Size)
		poly, err := plotter.NewPolygon(plotter.XYs{
			flip(b.Min),
			flip(domain.Point{X: b.Max.X, Y: b.Min.Y}),
			flip(b.Max),
			flip(domain.Point{X: b.Min.X, Y: b.Max.Y}),
		})
		if err != nil {
			return fmt.Errorf("plot map: obstacle %q: %w", o.Label, err)
		}
		poly.Color = parseHex(o.Color)
		poly.LineStyle.Width = vg.Points(0.5)
		poly.LineStyle.Color = anchorColor
		p.Add(poly)

		if o.Label != "" {
			labels.XYs = append(labels.XYs, flip(o.LabelPosition(layout.Grid.Size)))
			labels.Labels = append(labels.Labels, o.Label)
		}
	}

	if len(labels.Labels) == 0 {
		return nil
	}

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return fmt.Errorf("plot map: labels: %w", err)
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = text.XCenter
		l.TextStyle[i].YAlign = text.YCenter
		l.TextStyle[i].Font.Size = vg.Points(7)
	}
	p.Add(l)
	return nil
}

func addPins(p *plot.Plot, pins []services.Pin, flip func(domain.Point) plotter.XY) error {
	var faded, selected plotter.XYs
	var steps plotter.XYLabels

	for _, pin := range pins {
		if pin.Style != services.PinSelected {
			faded = append(faded, flip(pin.Position))
			continue
		}
		pt := flip(pin.Position)
		selected = append(selected, pt)
		steps.XYs = append(steps.XYs, pt)
		steps.Labels = append(steps.Labels, strconv.Itoa(pin.Step))
	}

	if len(faded) > 0 {
		s, err := plotter.NewScatter(faded)
		if err != nil {
			return fmt.Errorf("plot map: pins: %w", err)
		}
		s.GlyphStyle = draw.GlyphStyle{Color: fadedPinColor, Radius: vg.Points(6), Shape: draw.CircleGlyph{}}
		p.Add(s)
	}

	if len(selected) > 0 {
		s, err := plotter.NewScatter(selected)
		if err != nil {
			return fmt.Errorf("plot map: pins: %w", err)
		}
		s.GlyphStyle = draw.GlyphStyle{Color: pinColor, Radius: vg.Points(8), Shape: draw.CircleGlyph{}}
		p.Add(s)

		l, err := plotter.NewLabels(steps)
		if err != nil {
			return fmt.Errorf("plot map: pin steps: %w", err)
		}
		for i := range l.TextStyle {
			l.TextStyle[i].Color = color.White
			l.TextStyle[i].XAlign = text.XCenter
			l.TextStyle[i].YAlign = text.YCenter
		}
		p.Add(l)
	}

	return nil
}

// WritePNG renders the scene at one point per map pixel.
func WritePNG(scene Scene, w io.Writer) error {
	p, err := Plot(scene)
	if err != nil {
		return err
	}

	width, height := scene.Layout.Grid.PixelBounds()
	wt, err := p.WriterTo(vg.Points(float64(width)), vg.Points(float64(height)), "png")
	if err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SavePNG renders the scene to a file.
func SavePNG(scene Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save png %q: %w", path, err)
	}

	if err := WritePNG(scene, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("save png %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save png %q: %w", path, err)
	}
	return nil
}

// parseHex reads #rrggbb, falling back to grey.
func parseHex(s string) color.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return color.RGBA{R: 178, G: 190, B: 195, A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
