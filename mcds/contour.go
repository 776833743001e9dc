package mcds

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"

	"github.com/celldyn/physigo/contour"
)

// ContourOptions controls a single-snapshot substrate render.
type ContourOptions struct {
	// ZSlice is the z position of the xy plane; it snaps to the
	// nearest mesh center, ties to the lower one.
	ZSlice float64
	// Render tunes the raster output. NaN limits fall back to the
	// mesh bounding box.
	Render contour.Options
}

// DefaultContourOptions returns a render of the z=0 plane with the
// contour package defaults.
func DefaultContourOptions() ContourOptions {
	return ContourOptions{Render: contour.DefaultOptions()}
}

// Contour renders the xy plane of one substrate field at a z position.
// The sampled mesh-center grid is extended to the bounding-box border
// first, so the image covers the whole simulated domain rather than
// stopping half a voxel short.
func (s *Snapshot) Contour(focus string, opts ContourOptions) (image.Image, error) {
	grid, z, err := s.ConcentrationSlice(focus, opts.ZSlice)
	if err != nil {
		return nil, err
	}
	field, xs, ys := extendToBorder(grid, s.mesh.XAxis, s.mesh.YAxis, s.mesh.XRange, s.mesh.YRange)

	ropts := opts.Render
	if ropts.Title == "" {
		ropts.Title = fmt.Sprintf("%s z=%g %g%s", focus, z, s.time, timeUnitOrDefault(s.timeUnit))
	}
	return contour.Render(field, xs, ys, ropts)
}

// extendToBorder pads a mesh-center grid with duplicated edge samples
// at the bounding-box faces when those lie beyond the outer centers.
func extendToBorder(grid *mat.Dense, xAxis, yAxis []float64, xRange, yRange [2]float64) (*mat.Dense, []float64, []float64) {
	xs := extendAxis(xAxis, xRange)
	ys := extendAxis(yAxis, yRange)
	if len(xs) == len(xAxis) && len(ys) == len(yAxis) {
		return grid, xs, ys
	}

	ny, nx := grid.Dims()
	padLeft := len(xs) - len(xAxis)
	padBottom := len(ys) - len(yAxis)
	// extendAxis pads symmetrically or not at all per side.
	left := 0
	if padLeft > 0 && xs[0] < xAxis[0] {
		left = 1
	}
	bottom := 0
	if padBottom > 0 && ys[0] < yAxis[0] {
		bottom = 1
	}

	out := mat.NewDense(len(ys), len(xs), nil)
	for j := 0; j < len(ys); j++ {
		sj := clampIndex(j-bottom, ny-1)
		for i := 0; i < len(xs); i++ {
			out.Set(j, i, grid.At(sj, clampIndex(i-left, nx-1)))
		}
	}
	return out, xs, ys
}

// extendAxis prepends/appends the range faces when they extend past
// the outer centers.
func extendAxis(axis []float64, rng [2]float64) []float64 {
	out := axis
	if rng[0] < axis[0] {
		out = append([]float64{rng[0]}, out...)
	}
	if rng[1] > axis[len(axis)-1] {
		out = append(append([]float64{}, out...), rng[1])
	}
	return out
}
