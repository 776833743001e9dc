package mcds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celldyn/physigo/mcds"
)

func TestSnapshotCellScatter(t *testing.T) {
	s := loadFixture(t)

	opts := mcds.DefaultScatterOptions()
	opts.Render.FigSizePx = [2]int{320, 240}
	img, err := s.CellScatter("cell_type", opts)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, 320, b.Dx())
	assert.Equal(t, 240, b.Dy())
}

func TestSnapshotCellScatterSlabSelectsPlane(t *testing.T) {
	s := loadFixture(t)

	// three live cells sit in the z=-5 voxel plane, only the dead one
	// reaches the z=5 plane, so the two renders cannot agree
	opts := mcds.DefaultScatterOptions()
	opts.Render.FigSizePx = [2]int{320, 240}
	opts.Render.BgColor = "white"
	opts.Render.Title = "slab"

	opts.ZSlice = -5
	lower, err := s.CellScatter("cell_type", opts)
	require.NoError(t, err)

	opts.ZSlice = 5
	upper, err := s.CellScatter("cell_type", opts)
	require.NoError(t, err)

	assert.NotEqual(t, lower, upper)
}

func TestSnapshotCellScatterUnknownColumn(t *testing.T) {
	s := loadFixture(t)

	_, err := s.CellScatter("no_such_column", mcds.DefaultScatterOptions())
	assert.ErrorIs(t, err, mcds.ErrColumnNotFound)
}

func TestSnapshotCellScatterBadOptions(t *testing.T) {
	s := loadFixture(t)

	opts := mcds.DefaultScatterOptions()
	opts.Render.Cmap = "rainbow"
	_, err := s.CellScatter("cell_type", opts)
	assert.Error(t, err)
}
