package contour_test

import (
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/celldyn/physigo/contour"
)

// gradientField returns a ny x nx field rising left to right.
func gradientField(ny, nx int) *mat.Dense {
	f := mat.NewDense(ny, nx, nil)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			f.Set(j, i, float64(i))
		}
	}
	return f
}

func axis(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestDefaultOptions(t *testing.T) {
	opts := contour.DefaultOptions()
	assert.True(t, math.IsNaN(opts.VMin))
	assert.True(t, math.IsNaN(opts.VMax))
	assert.Equal(t, 25, opts.Levels)
	assert.True(t, opts.Fill)
	assert.Equal(t, "viridis", opts.Cmap)
	assert.Equal(t, [2]int{640, 480}, opts.FigSizePx)
	assert.Equal(t, 6, opts.MarkerPx)
}

func TestRenderSize(t *testing.T) {
	field := gradientField(4, 6)
	opts := contour.DefaultOptions()
	opts.FigSizePx = [2]int{321, 241}

	img, err := contour.Render(field, axis(6, -25, 10), axis(4, -15, 10), opts)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, 320, b.Dx(), "odd width rounds down")
	assert.Equal(t, 240, b.Dy(), "odd height rounds down")
}

func TestRenderBackground(t *testing.T) {
	field := gradientField(3, 3)
	xs := axis(3, 0, 10)
	ys := axis(3, 0, 10)

	opts := contour.DefaultOptions()
	img, err := contour.Render(field, xs, ys, opts)
	require.NoError(t, err)
	_, _, _, a := img.At(1, 1).RGBA()
	assert.Zero(t, a, "default margins stay transparent")

	opts.BgColor = "white"
	img, err = contour.Render(field, xs, ys, opts)
	require.NoError(t, err)
	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestRenderGradientChangesColor(t *testing.T) {
	field := gradientField(8, 32)
	opts := contour.DefaultOptions()
	opts.FigSizePx = [2]int{320, 240}

	img, err := contour.Render(field, axis(32, 0, 10), axis(8, 0, 10), opts)
	require.NoError(t, err)

	b := img.Bounds()
	midY := (b.Min.Y + b.Max.Y) / 2
	left := img.At(b.Min.X+70, midY)
	right := img.At(b.Max.X-90, midY)
	assert.NotEqual(t, left, right, "low and high regions share a color")
}

func TestRenderErrors(t *testing.T) {
	good := gradientField(2, 2)
	tests := []struct {
		name  string
		field *mat.Dense
		xs    []float64
		ys    []float64
		mut   func(*contour.Options)
		want  error
	}{
		{
			name: "empty field", field: mat.NewDense(1, 1, nil),
			xs: nil, ys: nil, want: contour.ErrAxisMismatch,
		},
		{
			name: "axis mismatch", field: good,
			xs: axis(3, 0, 1), ys: axis(2, 0, 1),
			want: contour.ErrAxisMismatch,
		},
		{
			name: "unknown colormap", field: good,
			xs: axis(2, 0, 1), ys: axis(2, 0, 1),
			mut:  func(o *contour.Options) { o.Cmap = "inferno" },
			want: contour.ErrUnknownColormap,
		},
		{
			name: "bad color", field: good,
			xs: axis(2, 0, 1), ys: axis(2, 0, 1),
			mut:  func(o *contour.Options) { o.BgColor = "chartreuse-ish" },
			want: contour.ErrBadColor,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := contour.DefaultOptions()
			if tc.mut != nil {
				tc.mut(&opts)
			}
			_, err := contour.Render(tc.field, tc.xs, tc.ys, opts)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := contour.ParseColor("")
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = contour.ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 128, 0, 255}, c)

	c, err = contour.ParseColor("Black")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, c)

	_, err = contour.ParseColor("#zzzzzz")
	assert.ErrorIs(t, err, contour.ErrBadColor)
}

func TestEvenSize(t *testing.T) {
	w, h := contour.EvenSize(641, 481)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	w, h = contour.EvenSize(0, -3)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestNormalizeExt(t *testing.T) {
	for in, want := range map[string]string{
		"": "jpeg", "jpg": "jpeg", "jpeg": "jpeg",
		"png": "png", "tif": "tiff", "tiff": "tiff",
	} {
		got, err := contour.NormalizeExt(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := contour.NormalizeExt("bmp")
	assert.ErrorIs(t, err, contour.ErrBadExtension)
}

func TestWriteImage(t *testing.T) {
	field := gradientField(4, 4)
	opts := contour.DefaultOptions()
	opts.FigSizePx = [2]int{160, 120}
	img, err := contour.Render(field, axis(4, 0, 1), axis(4, 0, 1), opts)
	require.NoError(t, err)

	dir := t.TempDir()

	pngPath := filepath.Join(dir, "nested", "slice.png")
	require.NoError(t, contour.WriteImage(pngPath, img, "png", nil))
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	jpgPath := filepath.Join(dir, "slice.jpeg")
	require.NoError(t, contour.WriteImage(jpgPath, img, "jpeg", nil))
	info, err := os.Stat(jpgPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	err = contour.WriteImage(filepath.Join(dir, "slice.bmp"), img, "bmp", nil)
	assert.ErrorIs(t, err, contour.ErrBadExtension)
}

func TestRenderLineMode(t *testing.T) {
	field := gradientField(8, 32)
	opts := contour.DefaultOptions()
	opts.Fill = false
	opts.BgColor = "white"
	opts.FigSizePx = [2]int{320, 240}

	img, err := contour.Render(field, axis(32, 0, 10), axis(8, 0, 10), opts)
	require.NoError(t, err)

	// in line mode most of the plot stays background-colored
	white := 0
	b := img.Bounds()
	for x := b.Min.X + 80; x < b.Max.X-100; x += 7 {
		r, g, bb, _ := img.At(x, (b.Min.Y+b.Max.Y)/2).RGBA()
		if r == 0xffff && g == 0xffff && bb == 0xffff {
			white++
		}
	}
	assert.Positive(t, white)
}

func TestRenderEmptyField(t *testing.T) {
	_, err := contour.Render(&mat.Dense{}, nil, nil, contour.DefaultOptions())
	assert.ErrorIs(t, err, contour.ErrEmptyField)
}
