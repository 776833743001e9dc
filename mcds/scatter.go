package mcds

import (
	"fmt"
	"image"
	"math"

	"github.com/celldyn/physigo/contour"
)

// ScatterOptions controls a single-snapshot cell scatter render.
type ScatterOptions struct {
	// ZSlice is the z position of the xy plane; it snaps to the
	// nearest mesh center, ties to the lower one. Cells within half a
	// voxel depth of the snapped plane are drawn.
	ZSlice float64
	// Render tunes the raster output. NaN limits fall back to the
	// mesh bounding box; NaN VMin/VMax to the focus column extrema
	// over the whole cell table.
	Render contour.Options
}

// DefaultScatterOptions returns a render of the z=0 plane with the
// contour package defaults.
func DefaultScatterOptions() ScatterOptions {
	return ScatterOptions{Render: contour.DefaultOptions()}
}

// CellScatter renders the cells around a z position as a scatter of xy
// centers colored by one cell-table column. Categorical and flag
// columns color by their numeric codes, so two cell types get two
// distinct colors.
func (s *Snapshot) CellScatter(focus string, opts ScatterOptions) (image.Image, error) {
	col, err := s.cells.Column(focus)
	if err != nil {
		return nil, err
	}
	px, errX := s.cells.Column("position_x")
	py, errY := s.cells.Column("position_y")
	pz, errZ := s.cells.Column("position_z")
	if errX != nil || errY != nil || errZ != nil {
		return nil, ErrColumnNotFound
	}

	z := s.mesh.SnapZ(opts.ZSlice)
	half := slabHalfDepth(s.mesh)

	points := make([]contour.Point, 0, s.cells.Len())
	for r := 0; r < s.cells.Len(); r++ {
		if math.Abs(pz.Float(r)-z) > half {
			continue
		}
		points = append(points, contour.Point{X: px.Float(r), Y: py.Float(r), V: col.Float(r)})
	}

	ropts := opts.Render
	if math.IsNaN(ropts.XLim[0]) {
		ropts.XLim[0] = s.mesh.XRange[0]
	}
	if math.IsNaN(ropts.XLim[1]) {
		ropts.XLim[1] = s.mesh.XRange[1]
	}
	if math.IsNaN(ropts.YLim[0]) {
		ropts.YLim[0] = s.mesh.YRange[0]
	}
	if math.IsNaN(ropts.YLim[1]) {
		ropts.YLim[1] = s.mesh.YRange[1]
	}
	if math.IsNaN(ropts.VMin) {
		ropts.VMin = math.Floor(col.Min())
	}
	if math.IsNaN(ropts.VMax) {
		ropts.VMax = math.Ceil(col.Max())
	}
	if ropts.Title == "" {
		ropts.Title = fmt.Sprintf("%s z=%g %g%s %d cells",
			focus, z, s.time, timeUnitOrDefault(s.timeUnit), len(points))
	}
	return contour.RenderScatter(points, ropts)
}

// slabHalfDepth is half the voxel depth, the tolerance for counting a
// cell into a z plane.
func slabHalfDepth(m *Mesh) float64 {
	sp, err := m.VoxelSpacing()
	if err != nil {
		sp = m.Spacing()
	}
	return sp[2] / 2
}
