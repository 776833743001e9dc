// Package series post-processes a whole PhysiCell output directory:
// every time step loaded in order, plus the batch exports that need
// the full run.
//
// What:
//
//   - New globs output*.xml under a directory and loads each step
//     through the mcds loader.
//   - PlotContour renders a substrate z-slice of every step into one
//     frame directory with a fixed, series-wide color scale.
//   - PlotCells renders the cells around a z plane of every step as a
//     scatter colored by one cell-table column, same frame layout.
//   - MakeGraphGML exports the neighbor or attachment graph of every
//     step.
//   - MakeGif and MakeMovie assemble the rendered frames into an
//     animated GIF or an MJPEG AVI, in process.
//   - PlotTimeseries aggregates a cell variable per category over
//     simulation time and renders a line chart.
//
// Errors:
//
//   - ErrNoSnapshots, ErrNoFrames, ErrBadAggregate, plus everything
//     the mcds and contour packages return.
package series
