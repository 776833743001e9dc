// Package mcds loads a single PhysiCell time step — one MultiCellDS
// XML file plus the sidecar files it references — and exposes the
// snapshot to Go code: the voxel mesh, substrate concentration fields,
// a typed per-cell attribute table, and the cell neighbor/attachment
// graphs, together with GML export of those graphs.
//
// What:
//
//   - Load reads output<NNNNNNNN>.xml, PhysiCell_settings.xml (ID→name
//     mappings), the mesh/microenvironment/cell MAT matrices, and the
//     plain-text graph files, into a Snapshot.
//   - Snapshot answers metadata queries (simulation time, versions,
//     units), mesh geometry queries (axes, ranges, spacing, voxel
//     addressing), substrate queries (fields, z-slices, point lookups)
//     and cell queries (typed table with derived columns).
//   - MakeGraphGML serializes the neighbor or attachment graph to a
//     .gml file beside the XML, optionally weighting edges by the
//     Euclidean distance between cell centers and copying cell-table
//     columns onto the nodes.
//   - Contour renders a z-slice of a substrate field to an image.
//
// Conventions:
//
// Concentration fields are indexed [j, i, k] — row j along the y axis,
// column i along x, layer k along z — matching the meshgrid layout the
// upstream tooling uses. A z coordinate that is not an exact mesh
// center snaps to the nearest center, resolving ties to the lower
// coordinate.
//
// Errors:
//
//   - ErrSubstrateNotFound, ErrColumnNotFound, ErrBadGraphType,
//     ErrOutOfMesh, ErrBadVoxelVolume, ErrBadFormat.
package mcds
