package series

import (
	"fmt"
	"math"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/celldyn/physigo/contour"
	"github.com/celldyn/physigo/mcds"
)

// PlotCells renders one cell scatter image per time step into
// <outputPath>/cell_<focus>_z<zslice>/, each named
// <xmlbase>_<focus>.<ext>, and returns that directory. The frames feed
// the same gif and movie pipeline as the substrate contours.
func (s *Series) PlotCells(focus string, opts PlotOptions) (string, error) {
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
		lo, hi, err := s.columnExtrema(focus)
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

	dir := filepath.Join(s.path, fmt.Sprintf("cell_%s_z%g", focus, z))
	for _, step := range s.steps {
		img, err := step.CellScatter(focus, mcds.ScatterOptions{ZSlice: z, Render: ropts})
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

// columnExtrema scans one cell-table column of every step for the
// series-wide value range, keeping the color scale fixed between
// frames.
func (s *Series) columnExtrema(focus string) (lo, hi float64, err error) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, step := range s.steps {
		c, err := step.Cells().Column(focus)
		if err != nil {
			return 0, 0, err
		}
		lo = math.Min(lo, c.Min())
		hi = math.Max(hi, c.Max())
	}
	return lo, hi, nil
}
