package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScene() Scene {
	cursor := domain.Point{X: 120, Y: 40}
	return Scene{
		Layout: domain.DefaultLayout(),
		Pins: []services.Pin{
			{Item: "bread", Section: "BAKERY", Position: domain.Point{X: 210, Y: 60}, Step: 1, Style: services.PinSelected},
			{Item: "milk", Section: "DAIRY PRODUCTS 1", Position: domain.Point{X: 375, Y: 300}, Style: services.PinFaded},
		},
		Path:   []domain.Point{{X: 15, Y: 15}, {X: 210, Y: 60}, {X: 555, Y: 585}},
		Cursor: &cursor,
		Title:  "trip",
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(testScene(), &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	b := img.Bounds()
	assert.Greater(t, b.Dx(), 0)
	assert.Less(t, b.Dx(), b.Dy(), "map is taller than wide")
}

func TestSavePNGEmptyScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, SavePNG(Scene{Layout: domain.DefaultLayout()}, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotRejectsEmptyGrid(t *testing.T) {
	_, err := Plot(Scene{})
	assert.Error(t, err)
}

func TestParseHex(t *testing.T) {
	r, g, b, _ := parseHex("#74b9ff").RGBA()
	assert.Equal(t, uint32(0x74), r>>8)
	assert.Equal(t, uint32(0xb9), g>>8)
	assert.Equal(t, uint32(0xff), b>>8)

	fr, _, _, _ := parseHex("nope").RGBA()
	assert.Equal(t, uint32(178), fr>>8)
}
