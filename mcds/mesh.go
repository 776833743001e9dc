package mcds

import (
	"math"
	"sort"
)

// Mesh is the rectilinear voxel mesh of one snapshot. It is immutable
// once loaded.
type Mesh struct {
	// XAxis, YAxis, ZAxis are the sorted, deduplicated mesh center
	// coordinates along each axis.
	XAxis, YAxis, ZAxis []float64

	// XRange, YRange, ZRange span the mesh bounding box (voxel faces,
	// not centers).
	XRange, YRange, ZRange [2]float64

	// Centers holds every voxel center in file order; Volumes the
	// matching voxel volume.
	Centers [][3]float64
	Volumes []float64

	// SpatialUnit is the length unit from the settings, e.g. "micron".
	SpatialUnit string
}

// CenterRange returns the lowest and highest mesh center per axis.
func (m *Mesh) CenterRange() (x, y, z [2]float64) {
	x = [2]float64{m.XAxis[0], m.XAxis[len(m.XAxis)-1]}
	y = [2]float64{m.YAxis[0], m.YAxis[len(m.YAxis)-1]}
	z = [2]float64{m.ZAxis[0], m.ZAxis[len(m.ZAxis)-1]}
	return x, y, z
}

// VoxelRange returns the inclusive voxel index range per axis,
// always (0, len(axis)-1).
func (m *Mesh) VoxelRange() (i, j, k [2]int) {
	return [2]int{0, len(m.XAxis) - 1}, [2]int{0, len(m.YAxis) - 1}, [2]int{0, len(m.ZAxis) - 1}
}

// Spacing returns the distance between mesh centers along x, y, z.
// A degenerate axis (single plane) reports spacing 1.
func (m *Mesh) Spacing() [3]float64 {
	return [3]float64{axisSpacing(m.XAxis), axisSpacing(m.YAxis), axisSpacing(m.ZAxis)}
}

func axisSpacing(axis []float64) float64 {
	if len(axis) < 2 {
		return 1
	}
	return (axis[len(axis)-1] - axis[0]) / float64(len(axis)-1)
}

// VoxelVolume returns the single voxel volume shared by the whole mesh.
// Returns ErrBadVoxelVolume when the mesh mixes volumes.
func (m *Mesh) VoxelVolume() (float64, error) {
	if len(m.Volumes) == 0 {
		return 0, ErrBadVoxelVolume
	}
	v := m.Volumes[0]
	for _, w := range m.Volumes[1:] {
		if math.Abs(w-v) > 1e-9 {
			return 0, ErrBadVoxelVolume
		}
	}
	return v, nil
}

// VoxelSpacing returns the voxel width, height and depth. Width and
// height follow the center spacing; depth derives from the voxel
// volume so flat 2D meshes report their real thickness.
func (m *Mesh) VoxelSpacing() ([3]float64, error) {
	vol, err := m.VoxelVolume()
	if err != nil {
		return [3]float64{}, err
	}
	sp := m.Spacing()
	return [3]float64{sp[0], sp[1], vol / (sp[0] * sp[1])}, nil
}

// IsInMesh reports whether (x, y, z) lies inside the bounding box.
func (m *Mesh) IsInMesh(x, y, z float64) bool {
	return x >= m.XRange[0] && x <= m.XRange[1] &&
		y >= m.YRange[0] && y <= m.YRange[1] &&
		z >= m.ZRange[0] && z <= m.ZRange[1]
}

// VoxelIJK maps a position to voxel indices. Returns ErrOutOfMesh when
// the position falls outside the bounding box.
func (m *Mesh) VoxelIJK(x, y, z float64) (i, j, k int, err error) {
	if !m.IsInMesh(x, y, z) {
		return 0, 0, 0, ErrOutOfMesh
	}
	i, j, k = m.voxelIJKClamped(x, y, z)
	return i, j, k, nil
}

// voxelIJKClamped rounds a position to voxel indices and clamps each
// index into range, the behavior the cell table relies on for cells
// sitting on or past the outermost voxel faces.
func (m *Mesh) voxelIJKClamped(x, y, z float64) (i, j, k int) {
	sp, err := m.VoxelSpacing()
	if err != nil {
		sp = m.Spacing()
	}
	i = clampIndex(int(math.Round((x-m.XAxis[0])/sp[0])), len(m.XAxis)-1)
	j = clampIndex(int(math.Round((y-m.YAxis[0])/sp[1])), len(m.YAxis)-1)
	k = clampIndex(int(math.Round((z-m.ZAxis[0])/sp[2])), len(m.ZAxis)-1)
	return i, j, k
}

func clampIndex(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// SnapZ snaps z to the nearest mesh center along the z axis, resolving
// exact midpoints to the lower center.
func (m *Mesh) SnapZ(z float64) float64 {
	return snapToAxis(m.ZAxis, z)
}

// snapToAxis returns the axis value nearest v; ties pick the lower one.
// The axis is sorted, so a binary search bounds the candidates.
// Complexity: O(log n).
func snapToAxis(axis []float64, v float64) float64 {
	n := len(axis)
	hi := sort.SearchFloat64s(axis, v)
	if hi == 0 {
		return axis[0]
	}
	if hi == n {
		return axis[n-1]
	}
	lo := hi - 1
	if v-axis[lo] <= axis[hi]-v {
		return axis[lo]
	}
	return axis[hi]
}

// nearestAxisIndex returns the index of the axis value nearest v.
func nearestAxisIndex(axis []float64, v float64) int {
	snapped := snapToAxis(axis, v)
	for idx, a := range axis {
		if a == snapped {
			return idx
		}
	}
	return 0
}
