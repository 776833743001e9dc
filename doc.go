// Package physigo post-processes PhysiCell simulation output in pure
// Go — from raw MultiCellDS files to analysis-ready tables, graphs
// and images.
//
// What is physigo?
//
//	A toolkit that reads the files a PhysiCell run leaves behind and
//	turns them into things downstream tooling understands:
//		• Snapshots: mesh, substrate fields, typed cell tables, cell graphs
//		• GML/DOT export of the neighbor and attachment graphs
//		• Contour images of substrate z-slices, per step or as a series
//		• Animated GIFs and MJPEG movies assembled from the frames
//		• Aggregated cell-variable charts over simulation time
//
// Everything is organized under focused subpackages:
//
//	mat4/    — MATLAB Level-4 matrix I/O (the PhysiCell sidecar format)
//	mcds/    — one time step: loader, mesh, fields, cells, graphs, GML export
//	gml/     — graph document model with GML and Graphviz DOT encoders
//	contour/ — scalar-field rasterization: bands, axes, colorbar
//	series/  — a whole output directory: batch exports, GIF, movie, charts
//	cmd/     — the physigo command line tool
//
// Quick start:
//
//	s, err := mcds.Load("output/output00000024.xml", mcds.DefaultOptions())
//	if err != nil { ... }
//	path, err := s.MakeGraphGML(mcds.NeighborGraph, true, []string{"cell_type"})
//
// See examples/ for complete walkthroughs.
package physigo
