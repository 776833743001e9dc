package contour

import (
	"image"
	"image/draw"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Point is one scatter sample: an xy position and the value mapped
// through the colormap.
type Point struct {
	X, Y, V float64
}

// RenderScatter rasterizes points as colored dots over the same frame,
// grid, axis and colorbar furniture Render draws. NaN limits fall back
// to the point extents; NaN VMin/VMax to floor/ceil of the point
// values. An empty point set renders an empty plot rather than
// failing, so a time step without agents still yields a frame.
func RenderScatter(points []Point, opts Options) (image.Image, error) {
	cm, err := lookupColormap(cmapOrDefault(opts.Cmap))
	if err != nil {
		return nil, err
	}
	bg, err := ParseColor(opts.BgColor)
	if err != nil {
		return nil, err
	}

	vmin, vmax := scatterScale(points, opts.VMin, opts.VMax)
	alpha := opts.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	marker := opts.MarkerPx
	if marker <= 0 {
		marker = 6
	}

	xlim := limOrSpread(opts.XLim, points, func(p Point) float64 { return p.X })
	ylim := limOrSpread(opts.YLim, points, func(p Point) float64 { return p.Y })

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
	xTicks := niceTicks(xlim[0], xlim[1], 5)
	yTicks := niceTicks(ylim[0], ylim[1], 5)
	if opts.Grid {
		drawGrid(img, plot, xTicks, yTicks, xlim, ylim)
	}
	for _, p := range points {
		drawDot(img, plot, p, xlim, ylim, vmin, vmax, marker, cm, alpha)
	}
	drawFrame(img, plot)
	drawAxisLabels(img, plot, xTicks, yTicks, xlim, ylim)
	drawColorbar(img, plot, cm, vmin, vmax)
	if opts.Title != "" {
		drawTextCentered(img, (plot.Min.X+plot.Max.X)/2, marginTop-10, opts.Title)
	}
	return img, nil
}

// drawDot paints one filled disc, clipped to the plot area. Points
// outside the data window are skipped entirely.
func drawDot(img *image.RGBA, plot image.Rectangle, p Point,
	xlim, ylim [2]float64, vmin, vmax float64, marker int, cm colormap, alpha float64) {

	fx := (p.X - xlim[0]) / (xlim[1] - xlim[0])
	fy := (p.Y - ylim[0]) / (ylim[1] - ylim[0])
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return
	}
	cx := plot.Min.X + int(math.Round(fx*float64(plot.Dx()-1)))
	cy := plot.Max.Y - 1 - int(math.Round(fy*float64(plot.Dy()-1)))

	t := (p.V - vmin) / (vmax - vmin)
	c := cm.at(math.Min(1, math.Max(0, t)), alpha)

	r := marker / 2
	if r < 1 {
		r = 1
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			x, y := cx+dx, cy+dy
			if x < plot.Min.X || x >= plot.Max.X || y < plot.Min.Y || y >= plot.Max.Y {
				continue
			}
			blend(img, x, y, c)
		}
	}
}

// scatterScale derives the color scale, filling NaN ends from the
// point values.
func scatterScale(points []Point, vmin, vmax float64) (float64, float64) {
	if math.IsNaN(vmin) {
		vmin = 0
		if len(points) > 0 {
			vmin = math.Floor(floats.Min(pointValues(points)))
		}
	}
	if math.IsNaN(vmax) {
		vmax = vmin + 1
		if len(points) > 0 {
			vmax = math.Ceil(floats.Max(pointValues(points)))
		}
	}
	if vmax <= vmin {
		vmax = vmin + 1
	}
	return vmin, vmax
}

func pointValues(points []Point) []float64 {
	vs := make([]float64, len(points))
	for i, p := range points {
		vs[i] = p.V
	}
	return vs
}

// limOrSpread fills NaN limit components from the point spread along
// one coordinate.
func limOrSpread(lim [2]float64, points []Point, coord func(Point) float64) [2]float64 {
	if math.IsNaN(lim[0]) {
		lim[0] = 0
		for i, p := range points {
			if i == 0 || coord(p) < lim[0] {
				lim[0] = coord(p)
			}
		}
	}
	if math.IsNaN(lim[1]) {
		lim[1] = lim[0] + 1
		for i, p := range points {
			if i == 0 || coord(p) > lim[1] {
				lim[1] = coord(p)
			}
		}
	}
	if lim[1] <= lim[0] {
		lim[1] = lim[0] + 1
	}
	return lim
}
