package mcds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celldyn/physigo/internal/pcfixture"
	"github.com/celldyn/physigo/mcds"
)

// loadFixture writes one synthetic time step and loads it with the
// default options.
func loadFixture(t *testing.T) *mcds.Snapshot {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, pcfixture.WriteSettings(dir))
	xmlPath, err := pcfixture.WriteStep(dir, 0, 720)
	require.NoError(t, err)

	s, err := mcds.Load(xmlPath, mcds.DefaultOptions())
	require.NoError(t, err)
	return s
}

func TestLoadMetadata(t *testing.T) {
	s := loadFixture(t)

	assert.Equal(t, "output00000000", s.BaseName())
	assert.Equal(t, "MultiCellDS_2", s.MultiCellDSVersion())
	assert.Equal(t, "PhysiCell_1.10.4", s.PhysiCellVersion())
	assert.Equal(t, "2024-01-15T10:00:00Z", s.Timestamp())
	assert.Equal(t, 720.0, s.Time())
	assert.Equal(t, "min", s.TimeUnit())
	assert.Equal(t, 15.5, s.Runtime())
	assert.Equal(t, "sec", s.RuntimeUnit())
	assert.Equal(t, "micron", s.SpatialUnit())
}

func TestLoadMesh(t *testing.T) {
	s := loadFixture(t)
	m := s.Mesh()

	assert.Equal(t, pcfixture.XAxis, m.XAxis)
	assert.Equal(t, pcfixture.YAxis, m.YAxis)
	assert.Equal(t, pcfixture.ZAxis, m.ZAxis)
	assert.Equal(t, [2]float64{-20, 20}, m.XRange)
	assert.Equal(t, [2]float64{-15, 15}, m.YRange)
	assert.Equal(t, [2]float64{-10, 10}, m.ZRange)
	assert.Equal(t, [3]float64{10, 10, 10}, m.Spacing())

	vol, err := m.VoxelVolume()
	require.NoError(t, err)
	assert.Equal(t, 1000.0, vol)

	assert.True(t, m.IsInMesh(0, 0, 0))
	assert.False(t, m.IsInMesh(25, 0, 0))
}

func TestSnapZTieGoesLower(t *testing.T) {
	s := loadFixture(t)
	m := s.Mesh()

	// centers at -5 and 5; 0 is the exact midpoint
	assert.Equal(t, -5.0, m.SnapZ(0))
	assert.Equal(t, -5.0, m.SnapZ(-2.5))
	assert.Equal(t, 5.0, m.SnapZ(2.6))
	assert.Equal(t, 5.0, m.SnapZ(99))
	assert.Equal(t, -5.0, m.SnapZ(-99))
}

func TestSubstrates(t *testing.T) {
	s := loadFixture(t)

	assert.Equal(t, []string{"glucose", "oxygen"}, s.SubstrateNames())
	assert.Equal(t, map[int]string{0: "oxygen", 1: "glucose"}, s.SubstrateIDs())

	f, err := s.Field("oxygen")
	require.NoError(t, err)
	assert.Equal(t, "mmHg", f.Unit)
	assert.Equal(t, 100000.0, f.DiffusionCoefficient)
	assert.Equal(t, 0.1, f.DecayRate)
	nx, ny, nz := f.Dims()
	assert.Equal(t, [3]int{pcfixture.NX, pcfixture.NY, pcfixture.NZ}, [3]int{nx, ny, nz})

	_, err = s.Field("lactate")
	assert.ErrorIs(t, err, mcds.ErrSubstrateNotFound)
}

func TestConcentrationSlice(t *testing.T) {
	s := loadFixture(t)

	grid, z, err := s.ConcentrationSlice("oxygen", -2.5)
	require.NoError(t, err)
	assert.Equal(t, -5.0, z, "snaps to the nearest lower center")

	ny, nx := grid.Dims()
	require.Equal(t, pcfixture.NY, ny)
	require.Equal(t, pcfixture.NX, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			assert.InDelta(t, pcfixture.Oxygen(i, j, 0, 720), grid.At(j, i), 1e-12)
		}
	}

	_, _, err = s.ConcentrationSlice("lactate", 0)
	assert.ErrorIs(t, err, mcds.ErrSubstrateNotFound)
}

func TestConcentrationAt(t *testing.T) {
	s := loadFixture(t)

	conc, err := s.ConcentrationAt(-15, -10, -5)
	require.NoError(t, err)
	// SubstrateNames order: glucose, oxygen
	require.Len(t, conc, 2)
	assert.InDelta(t, pcfixture.Glucose, conc[0], 1e-12)
	assert.InDelta(t, pcfixture.Oxygen(0, 0, 0, 720), conc[1], 1e-12)

	_, err = s.ConcentrationAt(500, 0, 0)
	assert.ErrorIs(t, err, mcds.ErrOutOfMesh)
}

func TestConcentrationTable(t *testing.T) {
	s := loadFixture(t)

	table, err := s.ConcentrationTable()
	require.NoError(t, err)
	require.Equal(t, pcfixture.NX*pcfixture.NY*pcfixture.NZ, table.Len())

	vi, err := table.Column("voxel_i")
	require.NoError(t, err)
	cz, err := table.Column("mesh_center_p")
	require.NoError(t, err)
	oxy, err := table.Column("oxygen")
	require.NoError(t, err)

	// first row is voxel (0,0,0), rows sorted by (i,j,k)
	assert.Equal(t, int64(0), vi.Int(0))
	assert.Equal(t, -5.0, cz.Float(0))
	assert.InDelta(t, pcfixture.Oxygen(0, 0, 0, 720), oxy.Float(0), 1e-12)
	// second row advances k
	assert.Equal(t, 5.0, cz.Float(1))
	assert.InDelta(t, pcfixture.Oxygen(0, 0, 1, 720), oxy.Float(1), 1e-12)
	// last row is voxel (3,2,1)
	last := table.Len() - 1
	assert.Equal(t, int64(pcfixture.NX-1), vi.Int(last))
	assert.InDelta(t, pcfixture.Oxygen(3, 2, 1, 720), oxy.Float(last), 1e-12)
}

func TestCellTableColumns(t *testing.T) {
	s := loadFixture(t)
	cells := s.Cells()
	require.Equal(t, pcfixture.NumCells, cells.Len())

	for _, name := range []string{
		"ID", "position_x", "position_y", "position_z", "total_volume",
		"cell_type", "cycle_model", "current_phase", "dead",
		"secretion_rates_oxygen", "secretion_rates_glucose",
		"velocity_x", "velocity_y", "velocity_z",
		// derived
		"voxel_i", "voxel_j", "voxel_k", "cell_count_voxel",
		"cell_density_micron3", "velocity_vectorlength",
		"position_vectorlength", "oxygen", "glucose",
		"oxygen_decay_rate", "oxygen_diffusion_coefficient",
	} {
		_, err := cells.Column(name)
		assert.NoError(t, err, name)
	}

	_, err := cells.Column("no_such_column")
	assert.ErrorIs(t, err, mcds.ErrColumnNotFound)
}

func TestCellTableValues(t *testing.T) {
	s := loadFixture(t)
	cells := s.Cells()

	ids, err := cells.Column("ID")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, ids.Floats)

	vi, err := cells.Column("voxel_i")
	require.NoError(t, err)
	assert.Equal(t, mcds.KindInt, vi.Kind)
	assert.Equal(t, []float64{0, 1, 0, 3}, vi.Floats, "out-of-mesh cell clamps to the last voxel")

	count, err := cells.Column("cell_count_voxel")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 2, 1}, count.Floats)

	density, err := cells.Column("cell_density_micron3")
	require.NoError(t, err)
	assert.InDelta(t, 0.002, density.Float(0), 1e-12)

	speed, err := cells.Column("velocity_vectorlength")
	require.NoError(t, err)
	assert.InDelta(t, 5, speed.Float(0), 1e-12)
	assert.InDelta(t, 1, speed.Float(1), 1e-12)
	assert.InDelta(t, 2, speed.Float(2), 1e-12)

	oxy, err := cells.Column("oxygen")
	require.NoError(t, err)
	assert.InDelta(t, pcfixture.Oxygen(0, 0, 0, 720), oxy.Float(0), 1e-12)
	assert.InDelta(t, pcfixture.Oxygen(1, 0, 0, 720), oxy.Float(1), 1e-12)
	assert.InDelta(t, pcfixture.Oxygen(3, 2, 1, 720), oxy.Float(3), 1e-12)
}

func TestCellTableCategoricalDecoding(t *testing.T) {
	s := loadFixture(t)
	cells := s.Cells()

	ctype, err := cells.Column("cell_type")
	require.NoError(t, err)
	assert.Equal(t, mcds.KindString, ctype.Kind)
	assert.Equal(t, "default", ctype.String(0))
	assert.Equal(t, "cancer_cell", ctype.String(1))

	model, err := cells.Column("cycle_model")
	require.NoError(t, err)
	assert.Equal(t, "live_cells_cycle_model", model.String(0))
	assert.Equal(t, "flow_cytometry_separated_cycle_model", model.String(1))
	assert.Equal(t, "apoptosis_death_model", model.String(3))

	phase, err := cells.Column("current_phase")
	require.NoError(t, err)
	assert.Equal(t, "live", phase.String(0))
	assert.Equal(t, "apoptotic", phase.String(3))

	dead, err := cells.Column("dead")
	require.NoError(t, err)
	assert.Equal(t, mcds.KindBool, dead.Kind)
	assert.False(t, dead.Bool(0))
	assert.True(t, dead.Bool(3))
}

func TestCellsAt(t *testing.T) {
	s := loadFixture(t)

	rows, err := s.CellsAt(-15, -10, -5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, rows)

	// cell 3 sits outside the mesh; its position clamps into the corner voxel
	rows, err = s.CellsAt(15, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, rows)

	rows, err = s.CellsAt(5, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGraphs(t *testing.T) {
	s := loadFixture(t)

	ng, err := s.Graph(mcds.NeighborGraph)
	require.NoError(t, err)
	assert.Equal(t, 4, ng.Len())
	assert.Equal(t, []int64{0, 1, 2, 3}, ng.IDs())
	assert.Equal(t, []int64{1, 2}, ng.Neighbors(0))
	assert.Empty(t, ng.Neighbors(3), "isolated cell keeps its node")
	assert.Equal(t, 2, ng.EdgeCount())

	ag, err := s.Graph(mcds.AttachedGraph)
	require.NoError(t, err)
	assert.Equal(t, 1, ag.EdgeCount())

	_, err = s.Graph(mcds.GraphType("mystery"))
	assert.ErrorIs(t, err, mcds.ErrBadGraphType)
}

func TestUnits(t *testing.T) {
	s := loadFixture(t)
	units := s.Units()

	assert.Equal(t, "min", units["time"])
	assert.Equal(t, "sec", units["runtime"])
	assert.Equal(t, "micron", units["spatial_unit"])
	assert.Equal(t, "micron", units["position_x"])
	assert.Equal(t, "1/min", units["secretion_rates_oxygen"])
	assert.Equal(t, "mmHg", units["oxygen"])
	_, tracked := units["ID"]
	assert.False(t, tracked)
}

func TestLoadWithoutMicroenvAndGraphs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, pcfixture.WriteSettings(dir))
	xmlPath, err := pcfixture.WriteStep(dir, 0, 60)
	require.NoError(t, err)

	opts := mcds.DefaultOptions()
	opts.Microenv = false
	opts.Graph = false
	s, err := mcds.Load(xmlPath, opts)
	require.NoError(t, err)

	_, err = s.Field("oxygen")
	assert.ErrorIs(t, err, mcds.ErrMicroenvNotLoaded)
	_, err = s.Graph(mcds.NeighborGraph)
	assert.ErrorIs(t, err, mcds.ErrGraphNotLoaded)

	// the cell table still loads, without the merged substrate columns
	require.Equal(t, pcfixture.NumCells, s.Cells().Len())
	_, err = s.Cells().Column("oxygen")
	assert.ErrorIs(t, err, mcds.ErrColumnNotFound)
}

func TestLoadWithoutSettingsKeepsNumericCategories(t *testing.T) {
	dir := t.TempDir()
	xmlPath, err := pcfixture.WriteStep(dir, 0, 60)
	require.NoError(t, err)

	opts := mcds.DefaultOptions()
	opts.SettingXML = ""
	s, err := mcds.Load(xmlPath, opts)
	require.NoError(t, err)

	// without the ID map, cell types decode to their numeric codes and
	// substrate-indexed variables get numeric suffixes
	ctype, err := s.Cells().Column("cell_type")
	require.NoError(t, err)
	assert.Equal(t, "0", ctype.String(0))
	assert.Equal(t, "1", ctype.String(1))

	_, err = s.Cells().Column("secretion_rates_0")
	assert.NoError(t, err)
}

func TestLoadCustomType(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, pcfixture.WriteSettings(dir))
	xmlPath, err := pcfixture.WriteStep(dir, 0, 60)
	require.NoError(t, err)

	opts := mcds.DefaultOptions()
	opts.CustomType = map[string]mcds.Kind{"total_volume": mcds.KindInt}
	s, err := mcds.Load(xmlPath, opts)
	require.NoError(t, err)

	vol, err := s.Cells().Column("total_volume")
	require.NoError(t, err)
	assert.Equal(t, mcds.KindInt, vol.Kind)
	assert.Equal(t, int64(2494), vol.Int(0))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := mcds.Load("/no/such/dir/output00000000.xml", mcds.Options{})
	assert.Error(t, err)
}
