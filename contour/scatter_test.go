package contour_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celldyn/physigo/contour"
)

func isWhite(r, g, b uint32) bool {
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestRenderScatterDrawsDots(t *testing.T) {
	points := []contour.Point{
		{X: 5, Y: 5, V: 0},
		{X: 2, Y: 8, V: 1},
	}
	opts := contour.DefaultOptions()
	opts.BgColor = "white"
	opts.XLim = [2]float64{0, 10}
	opts.YLim = [2]float64{0, 10}
	opts.FigSizePx = [2]int{320, 240}

	img, err := contour.RenderScatter(points, opts)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())

	// the dot at the window center leaves non-background pixels
	found := false
	for y := 111; y <= 119 && !found; y++ {
		for x := 146; x <= 154; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if !isWhite(r, g, b) {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "no dot rendered near the plot center")
}

func TestRenderScatterSkipsOutOfWindowPoints(t *testing.T) {
	points := []contour.Point{{X: 50, Y: 50, V: 0}}
	opts := contour.DefaultOptions()
	opts.BgColor = "white"
	opts.XLim = [2]float64{0, 10}
	opts.YLim = [2]float64{0, 10}
	opts.Grid = false
	opts.FigSizePx = [2]int{320, 240}

	img, err := contour.RenderScatter(points, opts)
	require.NoError(t, err)

	// interior of the plot area stays background-colored
	for y := 40; y < 190; y += 9 {
		for x := 70; x < 230; x += 9 {
			r, g, b, _ := img.At(x, y).RGBA()
			assert.True(t, isWhite(r, g, b), "pixel (%d,%d) was drawn", x, y)
		}
	}
}

func TestRenderScatterEmpty(t *testing.T) {
	img, err := contour.RenderScatter(nil, contour.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestRenderScatterErrors(t *testing.T) {
	opts := contour.DefaultOptions()
	opts.Cmap = "inferno"
	_, err := contour.RenderScatter(nil, opts)
	assert.ErrorIs(t, err, contour.ErrUnknownColormap)

	opts = contour.DefaultOptions()
	opts.BgColor = "not-a-color"
	_, err = contour.RenderScatter(nil, opts)
	assert.ErrorIs(t, err, contour.ErrBadColor)
}

func TestRenderScatterFixedScale(t *testing.T) {
	opts := contour.DefaultOptions()
	opts.BgColor = "white"
	opts.VMin = 0
	opts.VMax = 1
	opts.XLim = [2]float64{0, 10}
	opts.YLim = [2]float64{0, 10}
	opts.FigSizePx = [2]int{320, 240}

	low, err := contour.RenderScatter([]contour.Point{{X: 5, Y: 5, V: 0}}, opts)
	require.NoError(t, err)
	high, err := contour.RenderScatter([]contour.Point{{X: 5, Y: 5, V: 1}}, opts)
	require.NoError(t, err)
	assert.NotEqual(t, low, high, "scale ends share a color")
}
