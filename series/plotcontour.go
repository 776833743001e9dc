package series

import (
	"fmt"
	"math"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/celldyn/physigo/contour"
	"github.com/celldyn/physigo/mcds"
)

// PlotOptions controls a contour image series.
type PlotOptions struct {
	// ZSlice is the plane to render; it snaps against the first
	// snapshot's mesh and the snapped value applies to every step.
	ZSlice float64
	// Ext selects the image format: jpeg (default), png or tiff.
	Ext string
	// Render tunes each frame. NaN VMin/VMax derive floor/ceil of the
	// substrate extrema across the whole series, keeping the color
	// scale fixed between frames.
	Render contour.Options
}

// DefaultPlotOptions renders jpeg frames of the z=0 plane with the
// contour defaults and a series-wide color scale.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Ext: "jpeg", Render: contour.DefaultOptions()}
}

// PlotContour renders one image per time step into
// <outputPath>/substrate_<focus>_z<zslice>/, each named
// <xmlbase>_<focus>.<ext>, and returns that directory.
func (s *Series) PlotContour(focus string, opts PlotOptions) (string, error) {
	ext, err := contour.NormalizeExt(opts.Ext)
	if err != nil {
		return "", err
	}
	bg, err := contour.ParseColor(opts.Render.BgColor)
	if err != nil {
		return "", err
	}

	first := s.steps[0]
	z := first.Mesh().SnapZ(opts.ZSlice)

	ropts := opts.Render
	if math.IsNaN(ropts.VMin) || math.IsNaN(ropts.VMax) {
		lo, hi, err := s.extrema(focus)
		if err != nil {
			return "", err
		}
		if math.IsNaN(ropts.VMin) {
			ropts.VMin = math.Floor(lo)
		}
		if math.IsNaN(ropts.VMax) {
			ropts.VMax = math.Ceil(hi)
		}
	}
	ropts.FigSizePx[0], ropts.FigSizePx[1] = contour.EvenSize(ropts.FigSizePx[0], ropts.FigSizePx[1])

	dir := filepath.Join(s.path, fmt.Sprintf("substrate_%s_z%g", focus, z))
	for _, step := range s.steps {
		img, err := step.Contour(focus, mcds.ContourOptions{ZSlice: z, Render: ropts})
		if err != nil {
			return "", err
		}
		frame := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", step.BaseName(), focus, ext))
		if err = contour.WriteImage(frame, img, ext, bg); err != nil {
			return "", err
		}
		s.log.Info("wrote frame", zap.String("file", frame))
	}
	return dir, nil
}

// extrema scans the substrate field of every step for the series-wide
// concentration range.
func (s *Series) extrema(focus string) (lo, hi float64, err error) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, step := range s.steps {
		f, err := step.Field(focus)
		if err != nil {
			return 0, 0, err
		}
		lo = math.Min(lo, f.Min())
		hi = math.Max(hi, f.Max())
	}
	return lo, hi, nil
}
