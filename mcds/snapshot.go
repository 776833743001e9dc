package mcds

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Snapshot is one fully loaded PhysiCell time step.
type Snapshot struct {
	opts Options

	dir      string
	baseName string

	multiCellDSVersion string
	physiCellVersion   string
	timestamp          string
	time               float64
	timeUnit           string
	runtime            float64
	runtimeUnit        string

	substrateIDs map[int]string
	cellTypeIDs  map[int]string

	mesh   *Mesh
	fields map[string]*Field
	cells  *CellTable
	units  map[string]string

	neighbor *CellGraph
	attached *CellGraph
}

// Dir returns the output directory the snapshot was loaded from.
func (s *Snapshot) Dir() string { return s.dir }

// BaseName returns the XML file name without extension,
// e.g. "output00000024".
func (s *Snapshot) BaseName() string { return s.baseName }

// MultiCellDSVersion returns the MultiCellDS version that stored the data.
func (s *Snapshot) MultiCellDSVersion() string { return s.multiCellDSVersion }

// PhysiCellVersion returns the PhysiCell version that generated the data.
func (s *Snapshot) PhysiCellVersion() string { return s.physiCellVersion }

// Timestamp returns the creation timestamp string from the metadata.
func (s *Snapshot) Timestamp() string { return s.timestamp }

// Time returns the simulated time, in the metadata time unit
// (minutes for stock PhysiCell).
func (s *Snapshot) Time() float64 { return s.time }

// Runtime returns the wall time the simulation took up to this step.
func (s *Snapshot) Runtime() float64 { return s.runtime }

// TimeUnit and RuntimeUnit return the metadata clock units.
func (s *Snapshot) TimeUnit() string { return s.timeUnit }

// RuntimeUnit returns the wall clock unit.
func (s *Snapshot) RuntimeUnit() string { return s.runtimeUnit }

// SpatialUnit returns the mesh length unit, e.g. "micron".
func (s *Snapshot) SpatialUnit() string { return s.mesh.SpatialUnit }

// Mesh returns the voxel mesh.
func (s *Snapshot) Mesh() *Mesh { return s.mesh }

// CellTypeNames maps cell type IDs to names, as read from the
// settings file. Empty when settings were not loaded.
func (s *Snapshot) CellTypeNames() map[int]string { return s.cellTypeIDs }

// SubstrateIDs maps substrate IDs to names, as read from the settings
// file. Empty when settings were not loaded.
func (s *Snapshot) SubstrateIDs() map[int]string { return s.substrateIDs }

// SubstrateNames returns the tracked substrate names in alphabetical
// order.
func (s *Snapshot) SubstrateNames() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field returns the concentration field for one substrate.
func (s *Snapshot) Field(substrate string) (*Field, error) {
	if s.fields == nil {
		return nil, ErrMicroenvNotLoaded
	}
	f, ok := s.fields[substrate]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSubstrateNotFound, substrate)
	}
	return f, nil
}

// ConcentrationSlice extracts the xy-plane of a substrate field at the
// given z position. The position snaps to the nearest mesh center
// (ties to the lower one); the snapped value is returned alongside the
// ny x nx matrix.
func (s *Snapshot) ConcentrationSlice(substrate string, zSlice float64) (*mat.Dense, float64, error) {
	f, err := s.Field(substrate)
	if err != nil {
		return nil, 0, err
	}
	z := s.mesh.SnapZ(zSlice)
	layer, err := f.Layer(nearestAxisIndex(s.mesh.ZAxis, z))
	if err != nil {
		return nil, 0, err
	}
	return layer, z, nil
}

// ConcentrationTable flattens every substrate field into one table:
// a row per voxel, sorted by (voxel_i, voxel_j, voxel_k), with the
// voxel indices, the mesh center coordinates and one column per
// substrate. The table shares the Column/CellTable machinery of the
// cell data.
func (s *Snapshot) ConcentrationTable() (*CellTable, error) {
	if s.fields == nil {
		return nil, ErrMicroenvNotLoaded
	}
	nx, ny, nz := len(s.mesh.XAxis), len(s.mesh.YAxis), len(s.mesh.ZAxis)
	n := nx * ny * nz

	vi := make([]float64, 0, n)
	vj := make([]float64, 0, n)
	vk := make([]float64, 0, n)
	cx := make([]float64, 0, n)
	cy := make([]float64, 0, n)
	cz := make([]float64, 0, n)
	names := s.SubstrateNames()
	conc := make([][]float64, len(names))
	for c := range conc {
		conc[c] = make([]float64, 0, n)
	}

	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				vi = append(vi, float64(i))
				vj = append(vj, float64(j))
				vk = append(vk, float64(k))
				cx = append(cx, s.mesh.XAxis[i])
				cy = append(cy, s.mesh.YAxis[j])
				cz = append(cz, s.mesh.ZAxis[k])
				for c, name := range names {
					conc[c] = append(conc[c], s.fields[name].At(i, j, k))
				}
			}
		}
	}

	table := newCellTable(n)
	table.add(&Column{Name: "voxel_i", Kind: KindInt, Floats: vi})
	table.add(&Column{Name: "voxel_j", Kind: KindInt, Floats: vj})
	table.add(&Column{Name: "voxel_k", Kind: KindInt, Floats: vk})
	table.addFloats("mesh_center_m", s.mesh.SpatialUnit, cx)
	table.addFloats("mesh_center_n", s.mesh.SpatialUnit, cy)
	table.addFloats("mesh_center_p", s.mesh.SpatialUnit, cz)
	for c, name := range names {
		table.addFloats(name, s.fields[name].Unit, conc[c])
	}
	return table, nil
}

// ConcentrationAt returns the concentration of every substrate (in
// SubstrateNames order) inside the voxel containing (x, y, z).
func (s *Snapshot) ConcentrationAt(x, y, z float64) ([]float64, error) {
	if s.fields == nil {
		return nil, ErrMicroenvNotLoaded
	}
	i, j, k, err := s.mesh.VoxelIJK(x, y, z)
	if err != nil {
		return nil, err
	}
	names := s.SubstrateNames()
	out := make([]float64, len(names))
	for n, name := range names {
		out[n] = s.fields[name].At(i, j, k)
	}
	return out, nil
}

// Cells returns the typed cell table.
func (s *Snapshot) Cells() *CellTable { return s.cells }

// CellsAt returns the rows of the cell table whose positions fall in
// the voxel containing (x, y, z).
func (s *Snapshot) CellsAt(x, y, z float64) ([]int, error) {
	i, j, k, err := s.mesh.VoxelIJK(x, y, z)
	if err != nil {
		return nil, err
	}
	vi, errI := s.cells.Column("voxel_i")
	vj, errJ := s.cells.Column("voxel_j")
	vk, errK := s.cells.Column("voxel_k")
	if errI != nil || errJ != nil || errK != nil {
		return nil, ErrColumnNotFound
	}
	var rows []int
	for r := 0; r < s.cells.Len(); r++ {
		if int(vi.Int(r)) == i && int(vj.Int(r)) == j && int(vk.Int(r)) == k {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// Graph returns the requested cell graph.
func (s *Snapshot) Graph(graphType GraphType) (*CellGraph, error) {
	if s.neighbor == nil && s.attached == nil {
		return nil, ErrGraphNotLoaded
	}
	switch graphType {
	case NeighborGraph:
		return s.neighbor, nil
	case AttachedGraph:
		return s.attached, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadGraphType, graphType)
	}
}

// Units maps every tracked variable — metadata clocks, substrates and
// their rates, cell variables — to its unit string.
func (s *Snapshot) Units() map[string]string {
	out := make(map[string]string, len(s.units)+3)
	out["time"] = s.timeUnit
	out["runtime"] = s.runtimeUnit
	out["spatial_unit"] = s.mesh.SpatialUnit
	for name, unit := range s.units {
		if name == "ID" {
			continue
		}
		out[name] = unit
	}
	return out
}
