package contour

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmptyField is returned when the field has no rows or columns.
	ErrEmptyField = errors.New("contour: empty field")
	// ErrAxisMismatch is returned when axis lengths disagree with the
	// field dimensions.
	ErrAxisMismatch = errors.New("contour: axis length does not match field")
	// ErrBadColor is returned for an unparseable color spec.
	ErrBadColor = errors.New("contour: bad color")
)

// Options controls a single contour render.
//
// Zero values mean "pick a sensible default"; use DefaultOptions and
// override fields from there.
type Options struct {
	// VMin / VMax fix the color scale. NaN derives floor(min) and
	// ceil(max) from the field.
	VMin, VMax float64
	// Levels is the number of filled bands (or iso-lines + 1).
	Levels int
	// Fill draws filled bands; false draws band boundary lines only.
	Fill bool
	// Alpha in [0,1] applied to the field colors.
	Alpha float64
	// Cmap names the colormap: viridis, plasma, jet, gray.
	Cmap string
	// Grid overlays grid lines at the axis ticks.
	Grid bool
	// XLim / YLim clip the data window. NaN components fall back to
	// the axis extent.
	XLim, YLim [2]float64
	// XYEqual pads the narrower limit so both axes share one scale.
	XYEqual bool
	// FigSizePx is the output width and height; odd components are
	// rounded down to even.
	FigSizePx [2]int
	// MarkerPx is the scatter dot diameter in pixels. Render ignores
	// it; RenderScatter uses it.
	MarkerPx int
	// BgColor is "" (transparent), a name (white, black, ...) or
	// "#rrggbb".
	BgColor string
	// Title is centered above the plot.
	Title string
}

// DefaultOptions returns the render defaults: filled viridis bands,
// 25 levels, full alpha, auto limits, 640x480.
func DefaultOptions() Options {
	return Options{
		VMin:      math.NaN(),
		VMax:      math.NaN(),
		Levels:    25,
		Fill:      true,
		Alpha:     1,
		Cmap:      "viridis",
		XLim:      [2]float64{math.NaN(), math.NaN()},
		YLim:      [2]float64{math.NaN(), math.NaN()},
		FigSizePx: [2]int{640, 480},
		MarkerPx:  6,
	}
}

// plot-area margins in pixels.
const (
	marginLeft   = 56
	marginRight  = 76
	marginTop    = 28
	marginBottom = 36
	colorbarW    = 16
)

// Render rasterizes a scalar field sampled at (xAxis, yAxis) mesh
// centers. The field is row-major with Dims() = (len(yAxis),
// len(xAxis)); row 0 is the lowest y coordinate and y grows upward in
// the image. Values between centers are bilinearly interpolated.
func Render(field *mat.Dense, xAxis, yAxis []float64, opts Options) (image.Image, error) {
	ny, nx := field.Dims()
	if ny == 0 || nx == 0 {
		return nil, ErrEmptyField
	}
	if len(xAxis) != nx || len(yAxis) != ny {
		return nil, fmt.Errorf("%w: field %dx%d, axes %dx%d",
			ErrAxisMismatch, ny, nx, len(yAxis), len(xAxis))
	}
	cm, err := lookupColormap(cmapOrDefault(opts.Cmap))
	if err != nil {
		return nil, err
	}
	bg, err := ParseColor(opts.BgColor)
	if err != nil {
		return nil, err
	}

	vmin, vmax := scaleRange(field, opts.VMin, opts.VMax)
	levels := opts.Levels
	if levels <= 0 {
		levels = 25
	}
	alpha := opts.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}

	xlim := limOrExtent(opts.XLim, xAxis)
	ylim := limOrExtent(opts.YLim, yAxis)

	w, h := EvenSize(opts.FigSizePx[0], opts.FigSizePx[1])
	if opts.XYEqual {
		xlim, ylim = equalize(xlim, ylim,
			w-marginLeft-marginRight, h-marginTop-marginBottom)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	plot := image.Rect(marginLeft, marginTop, w-marginRight, h-marginBottom)
	drawField(img, plot, field, xAxis, yAxis, xlim, ylim, vmin, vmax, levels, cm, alpha, opts.Fill)

	xTicks := niceTicks(xlim[0], xlim[1], 5)
	yTicks := niceTicks(ylim[0], ylim[1], 5)
	if opts.Grid {
		drawGrid(img, plot, xTicks, yTicks, xlim, ylim)
	}
	drawFrame(img, plot)
	drawAxisLabels(img, plot, xTicks, yTicks, xlim, ylim)
	drawColorbar(img, plot, cm, vmin, vmax)
	if opts.Title != "" {
		drawTextCentered(img, (plot.Min.X+plot.Max.X)/2, marginTop-10, opts.Title)
	}
	return img, nil
}

func cmapOrDefault(name string) string {
	if name == "" {
		return "viridis"
	}
	return name
}

// scaleRange derives the color scale, filling NaN ends from the data.
func scaleRange(field *mat.Dense, vmin, vmax float64) (float64, float64) {
	if math.IsNaN(vmin) {
		vmin = math.Floor(mat.Min(field))
	}
	if math.IsNaN(vmax) {
		vmax = math.Ceil(mat.Max(field))
	}
	if vmax <= vmin {
		vmax = vmin + 1
	}
	return vmin, vmax
}

func limOrExtent(lim [2]float64, axis []float64) [2]float64 {
	if math.IsNaN(lim[0]) {
		lim[0] = axis[0]
	}
	if math.IsNaN(lim[1]) {
		lim[1] = axis[len(axis)-1]
	}
	if lim[1] <= lim[0] {
		lim[1] = lim[0] + 1
	}
	return lim
}

// equalize widens the shorter-scaled limit around its midpoint so one
// data unit spans the same number of pixels on both axes.
func equalize(xlim, ylim [2]float64, plotW, plotH int) ([2]float64, [2]float64) {
	if plotW <= 0 || plotH <= 0 {
		return xlim, ylim
	}
	sx := (xlim[1] - xlim[0]) / float64(plotW)
	sy := (ylim[1] - ylim[0]) / float64(plotH)
	if sx > sy {
		mid := (ylim[0] + ylim[1]) / 2
		half := sx * float64(plotH) / 2
		ylim = [2]float64{mid - half, mid + half}
	} else if sy > sx {
		mid := (xlim[0] + xlim[1]) / 2
		half := sy * float64(plotW) / 2
		xlim = [2]float64{mid - half, mid + half}
	}
	return xlim, ylim
}

// drawField paints the plot area pixel by pixel. Fill mode colors the
// quantized band each sample falls in; line mode marks pixels whose
// band differs from the pixel to the left or above.
func drawField(img *image.RGBA, plot image.Rectangle, field *mat.Dense,
	xAxis, yAxis []float64, xlim, ylim [2]float64,
	vmin, vmax float64, levels int, cm colormap, alpha float64, fill bool) {

	pw := plot.Dx()
	ph := plot.Dy()
	bands := make([]int, pw*ph)
	for py := 0; py < ph; py++ {
		// y grows upward in data space, downward in image space.
		dy := ylim[1] - (float64(py)+0.5)/float64(ph)*(ylim[1]-ylim[0])
		for px := 0; px < pw; px++ {
			dx := xlim[0] + (float64(px)+0.5)/float64(pw)*(xlim[1]-xlim[0])
			v := bilinear(field, xAxis, yAxis, dx, dy)
			t := (v - vmin) / (vmax - vmin)
			band := int(math.Min(1, math.Max(0, t)) * float64(levels))
			if band >= levels {
				band = levels - 1
			}
			bands[py*pw+px] = band
		}
	}
	lineColor := color.NRGBA{40, 40, 40, uint8(math.Round(alpha * 255))}
	for py := 0; py < ph; py++ {
		for px := 0; px < pw; px++ {
			band := bands[py*pw+px]
			if fill {
				t := (float64(band) + 0.5) / float64(levels)
				blend(img, plot.Min.X+px, plot.Min.Y+py, cm.at(t, alpha))
				continue
			}
			edge := (px > 0 && bands[py*pw+px-1] != band) ||
				(py > 0 && bands[(py-1)*pw+px] != band)
			if edge {
				blend(img, plot.Min.X+px, plot.Min.Y+py, lineColor)
			}
		}
	}
}

// bilinear samples the field at data coordinates, clamping to the edge
// outside the sampled axes.
func bilinear(field *mat.Dense, xAxis, yAxis []float64, x, y float64) float64 {
	i0, i1, fx := bracket(xAxis, x)
	j0, j1, fy := bracket(yAxis, y)
	v00 := field.At(j0, i0)
	v01 := field.At(j0, i1)
	v10 := field.At(j1, i0)
	v11 := field.At(j1, i1)
	return (v00*(1-fx)+v01*fx)*(1-fy) + (v10*(1-fx)+v11*fx)*fy
}

// bracket finds the axis cell containing v and the fraction within it.
func bracket(axis []float64, v float64) (lo, hi int, frac float64) {
	n := len(axis)
	if n == 1 || v <= axis[0] {
		return 0, 0, 0
	}
	if v >= axis[n-1] {
		return n - 1, n - 1, 0
	}
	for i := 1; i < n; i++ {
		if v <= axis[i] {
			span := axis[i] - axis[i-1]
			if span <= 0 {
				return i - 1, i, 0
			}
			return i - 1, i, (v - axis[i-1]) / span
		}
	}
	return n - 1, n - 1, 0
}

// blend composites src over the current pixel.
func blend(img *image.RGBA, x, y int, src color.NRGBA) {
	if src.A == 255 {
		img.Set(x, y, src)
		return
	}
	dst := img.RGBAAt(x, y)
	a := float64(src.A) / 255
	img.Set(x, y, color.RGBA{
		R: uint8(float64(src.R)*a + float64(dst.R)*(1-a)),
		G: uint8(float64(src.G)*a + float64(dst.G)*(1-a)),
		B: uint8(float64(src.B)*a + float64(dst.B)*(1-a)),
		A: uint8(math.Min(255, float64(src.A)+float64(dst.A)*(1-a))),
	})
}

var (
	frameColor = color.NRGBA{30, 30, 30, 255}
	gridColor  = color.NRGBA{150, 150, 150, 110}
	textColor  = color.NRGBA{20, 20, 20, 255}
)

func drawFrame(img *image.RGBA, plot image.Rectangle) {
	for x := plot.Min.X; x < plot.Max.X; x++ {
		img.Set(x, plot.Min.Y, frameColor)
		img.Set(x, plot.Max.Y-1, frameColor)
	}
	for y := plot.Min.Y; y < plot.Max.Y; y++ {
		img.Set(plot.Min.X, y, frameColor)
		img.Set(plot.Max.X-1, y, frameColor)
	}
}

func drawGrid(img *image.RGBA, plot image.Rectangle, xTicks, yTicks []float64, xlim, ylim [2]float64) {
	for _, t := range xTicks {
		x := dataToPxX(t, xlim, plot)
		for y := plot.Min.Y; y < plot.Max.Y; y++ {
			blend(img, x, y, gridColor)
		}
	}
	for _, t := range yTicks {
		y := dataToPxY(t, ylim, plot)
		for x := plot.Min.X; x < plot.Max.X; x++ {
			blend(img, x, y, gridColor)
		}
	}
}

func drawAxisLabels(img *image.RGBA, plot image.Rectangle, xTicks, yTicks []float64, xlim, ylim [2]float64) {
	for _, t := range xTicks {
		x := dataToPxX(t, xlim, plot)
		for dy := 0; dy < 4; dy++ {
			img.Set(x, plot.Max.Y+dy, frameColor)
		}
		drawTextCentered(img, x, plot.Max.Y+16, formatTick(t))
	}
	for _, t := range yTicks {
		y := dataToPxY(t, ylim, plot)
		for dx := 1; dx <= 4; dx++ {
			img.Set(plot.Min.X-dx, y, frameColor)
		}
		drawTextRight(img, plot.Min.X-6, y+4, formatTick(t))
	}
}

// drawColorbar paints the vertical scale strip to the right of the
// plot with its extrema labelled.
func drawColorbar(img *image.RGBA, plot image.Rectangle, cm colormap, vmin, vmax float64) {
	x0 := plot.Max.X + 10
	for y := plot.Min.Y; y < plot.Max.Y; y++ {
		t := float64(plot.Max.Y-1-y) / float64(plot.Dy()-1)
		c := cm.at(t, 1)
		for x := x0; x < x0+colorbarW; x++ {
			img.Set(x, y, c)
		}
	}
	for x := x0; x < x0+colorbarW; x++ {
		img.Set(x, plot.Min.Y, frameColor)
		img.Set(x, plot.Max.Y-1, frameColor)
	}
	for y := plot.Min.Y; y < plot.Max.Y; y++ {
		img.Set(x0, y, frameColor)
		img.Set(x0+colorbarW-1, y, frameColor)
	}
	drawText(img, x0+colorbarW+3, plot.Max.Y, formatTick(vmin))
	drawText(img, x0+colorbarW+3, plot.Min.Y+8, formatTick(vmax))
}

func dataToPxX(v float64, lim [2]float64, plot image.Rectangle) int {
	f := (v - lim[0]) / (lim[1] - lim[0])
	x := plot.Min.X + int(math.Round(f*float64(plot.Dx()-1)))
	return clampInt(x, plot.Min.X, plot.Max.X-1)
}

func dataToPxY(v float64, lim [2]float64, plot image.Rectangle) int {
	f := (v - lim[0]) / (lim[1] - lim[0])
	y := plot.Max.Y - 1 - int(math.Round(f*float64(plot.Dy()-1)))
	return clampInt(y, plot.Min.Y, plot.Max.Y-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// niceTicks picks ~n round tick positions within [lo, hi] using a
// 1/2/5 step ladder.
func niceTicks(lo, hi float64, n int) []float64 {
	span := hi - lo
	if span <= 0 || n < 2 {
		return []float64{lo}
	}
	raw := span / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	var step float64
	switch norm := raw / mag; {
	case norm <= 1:
		step = mag
	case norm <= 2:
		step = 2 * mag
	case norm <= 5:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	first := math.Ceil(lo/step) * step
	var ticks []float64
	for v := first; v <= hi+step*1e-9; v += step {
		ticks = append(ticks, v)
	}
	return ticks
}

func formatTick(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e7 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func drawText(img *image.RGBA, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func drawTextCentered(img *image.RGBA, x, y int, s string) {
	w := font.MeasureString(basicfont.Face7x13, s).Ceil()
	drawText(img, x-w/2, y, s)
}

func drawTextRight(img *image.RGBA, x, y int, s string) {
	w := font.MeasureString(basicfont.Face7x13, s).Ceil()
	drawText(img, x-w, y, s)
}

// EvenSize rounds both dimensions down to even pixel counts, keeping
// frames acceptable to video codecs, and floors tiny sizes.
func EvenSize(w, h int) (int, int) {
	if w < 64 {
		w = 640
	}
	if h < 64 {
		h = 480
	}
	return w &^ 1, h &^ 1
}

// ParseColor resolves "" to nil (transparent), a small named palette,
// or a "#rrggbb" hex triple.
func ParseColor(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}
	if named, ok := namedColors[strings.ToLower(s)]; ok {
		return named, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrBadColor, s)
}

var namedColors = map[string]color.NRGBA{
	"white":     {255, 255, 255, 255},
	"black":     {0, 0, 0, 255},
	"gray":      {128, 128, 128, 255},
	"grey":      {128, 128, 128, 255},
	"lightgray": {211, 211, 211, 255},
	"lightgrey": {211, 211, 211, 255},
	"red":       {255, 0, 0, 255},
	"green":     {0, 128, 0, 255},
	"blue":      {0, 0, 255, 255},
	"yellow":    {255, 255, 0, 255},
	"cyan":      {0, 255, 255, 255},
	"magenta":   {255, 0, 255, 255},
}
