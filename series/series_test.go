package series_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celldyn/physigo/internal/pcfixture"
	"github.com/celldyn/physigo/mcds"
	"github.com/celldyn/physigo/series"
)

// writeRun generates a three-step output directory.
func writeRun(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, pcfixture.WriteSettings(dir))
	for n, timeMin := range []float64{0, 60, 120} {
		_, err := pcfixture.WriteStep(dir, n, timeMin)
		require.NoError(t, err)
	}
	return dir
}

func TestNew(t *testing.T) {
	dir := writeRun(t)

	ts, err := series.New(dir, mcds.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, dir, ts.Path())
	require.Len(t, ts.Snapshots(), 3)
	assert.Equal(t, []float64{0, 60, 120}, ts.Times())
	assert.Equal(t, "output00000000", ts.Snapshots()[0].BaseName())
	assert.Equal(t, "output00000002", ts.Snapshots()[2].BaseName())
}

func TestNewEmptyDir(t *testing.T) {
	_, err := series.New(t.TempDir(), mcds.DefaultOptions())
	assert.ErrorIs(t, err, series.ErrNoSnapshots)
}

func TestMakeGraphGML(t *testing.T) {
	dir := writeRun(t)
	ts, err := series.New(dir, mcds.DefaultOptions())
	require.NoError(t, err)

	paths, err := ts.MakeGraphGML(mcds.NeighborGraph, true, nil)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	for n, path := range paths {
		assert.Equal(t, filepath.Join(dir, fmt.Sprintf("output%08d_neighbor.gml", n)), path)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestPlotContour(t *testing.T) {
	dir := writeRun(t)
	ts, err := series.New(dir, mcds.DefaultOptions())
	require.NoError(t, err)

	opts := series.DefaultPlotOptions()
	opts.ZSlice = -2.5 // snaps to -5
	opts.Render.FigSizePx = [2]int{161, 121}
	frameDir, err := ts.PlotContour("oxygen", opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "substrate_oxygen_z-5"), frameDir)

	for n := 0; n < 3; n++ {
		frame := filepath.Join(frameDir, fmt.Sprintf("output%08d_oxygen.jpeg", n))
		info, err := os.Stat(frame)
		require.NoError(t, err, frame)
		assert.Positive(t, info.Size())
	}
}

func TestPlotContourErrors(t *testing.T) {
	dir := writeRun(t)
	ts, err := series.New(dir, mcds.DefaultOptions())
	require.NoError(t, err)

	_, err = ts.PlotContour("lactate", series.DefaultPlotOptions())
	assert.ErrorIs(t, err, mcds.ErrSubstrateNotFound)

	opts := series.DefaultPlotOptions()
	opts.Ext = "bmp"
	_, err = ts.PlotContour("oxygen", opts)
	assert.Error(t, err)
}

func TestPlotCells(t *testing.T) {
	dir := writeRun(t)
	ts, err := series.New(dir, mcds.DefaultOptions())
	require.NoError(t, err)

	opts := series.DefaultPlotOptions()
	opts.ZSlice = -2.5 // snaps to -5
	opts.Render.FigSizePx = [2]int{161, 121}
	frameDir, err := ts.PlotCells("cell_type", opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cell_cell_type_z-5"), frameDir)

	for n := 0; n < 3; n++ {
		frame := filepath.Join(frameDir, fmt.Sprintf("output%08d_cell_type.jpeg", n))
		info, err := os.Stat(frame)
		require.NoError(t, err, frame)
		assert.Positive(t, info.Size())
	}
}

func TestPlotCellsErrors(t *testing.T) {
	dir := writeRun(t)
	ts, err := series.New(dir, mcds.DefaultOptions())
	require.NoError(t, err)

	_, err = ts.PlotCells("no_such_column", series.DefaultPlotOptions())
	assert.ErrorIs(t, err, mcds.ErrColumnNotFound)

	opts := series.DefaultPlotOptions()
	opts.Ext = "bmp"
	_, err = ts.PlotCells("cell_type", opts)
	assert.Error(t, err)
}

func TestMakeGifAndMovie(t *testing.T) {
	dir := writeRun(t)
	ts, err := series.New(dir, mcds.DefaultOptions())
	require.NoError(t, err)

	opts := series.DefaultPlotOptions()
	opts.Render.FigSizePx = [2]int{160, 120}
	frameDir, err := ts.PlotContour("oxygen", opts)
	require.NoError(t, err)

	gifPath, err := ts.MakeGif(frameDir, "jpeg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(frameDir, "substrate_oxygen_z-5_jpeg.gif"), gifPath)
	info, err := os.Stat(gifPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	aviPath, err := ts.MakeMovie(frameDir, "jpeg", 12)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(frameDir, "substrate_oxygen_z-5_jpeg12.avi"), aviPath)
	info, err = os.Stat(aviPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestMakeGifNoFrames(t *testing.T) {
	dir := writeRun(t)
	ts, err := series.New(dir, mcds.DefaultOptions())
	require.NoError(t, err)

	_, err = ts.MakeGif(t.TempDir(), "jpeg")
	assert.ErrorIs(t, err, series.ErrNoFrames)
}

func TestPlotTimeseries(t *testing.T) {
	dir := writeRun(t)
	ts, err := series.New(dir, mcds.DefaultOptions())
	require.NoError(t, err)

	path, err := ts.PlotTimeseries("cell_type", "oxygen", series.Mean, series.DefaultTimeseriesOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "timeseries_cell_type_oxygen_mean.png"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPlotTimeseriesCount(t *testing.T) {
	dir := writeRun(t)
	ts, err := series.New(dir, mcds.DefaultOptions())
	require.NoError(t, err)

	path, err := ts.PlotTimeseries("", "", series.Count, series.DefaultTimeseriesOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "timeseries_total_count_count.png"), path)
}

func TestPlotTimeseriesErrors(t *testing.T) {
	dir := writeRun(t)
	ts, err := series.New(dir, mcds.DefaultOptions())
	require.NoError(t, err)

	_, err = ts.PlotTimeseries("cell_type", "oxygen", series.Aggregate("mode"), series.DefaultTimeseriesOptions())
	assert.ErrorIs(t, err, series.ErrBadAggregate)

	_, err = ts.PlotTimeseries("no_such_column", "", series.Count, series.DefaultTimeseriesOptions())
	assert.ErrorIs(t, err, mcds.ErrColumnNotFound)
}
