package mcds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celldyn/physigo/mcds"
)

func TestSnapshotContour(t *testing.T) {
	s := loadFixture(t)

	opts := mcds.DefaultContourOptions()
	opts.Render.FigSizePx = [2]int{320, 240}
	img, err := s.Contour("oxygen", opts)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, 320, b.Dx())
	assert.Equal(t, 240, b.Dy())
}

func TestSnapshotContourUnknownSubstrate(t *testing.T) {
	s := loadFixture(t)

	_, err := s.Contour("lactate", mcds.DefaultContourOptions())
	assert.ErrorIs(t, err, mcds.ErrSubstrateNotFound)
}

func TestSnapshotContourBadOptions(t *testing.T) {
	s := loadFixture(t)

	opts := mcds.DefaultContourOptions()
	opts.Render.Cmap = "rainbow"
	_, err := s.Contour("oxygen", opts)
	assert.Error(t, err)
}
