// Package mat4 reads and writes MATLAB Level 4 MAT-files, the container
// format PhysiCell uses for its numeric sidecar files (mesh voxel
// coordinates, microenvironment concentrations, the cell matrix).
//
// What:
//
//   - Matrix holds one named, column-major float64 matrix.
//   - Read / ReadFile decode the first matrix of a MAT-file.
//   - ReadAll decodes every matrix in a file.
//   - Write / WriteFile encode a Matrix as little-endian doubles.
//
// Why:
//
// A Level 4 file is a 20-byte header (type code, rows, cols, imaginary
// flag, name length), a NUL-terminated name, and the raw element block.
// PhysiCell emits little-endian numeric full matrices only, so that is
// the envelope this package accepts; text matrices, sparse matrices and
// complex data are rejected with sentinel errors.
//
// Errors:
//
//   - ErrBadHeader: header is malformed or the type code is out of range.
//   - ErrUnsupportedType: big-endian, sparse, text, or complex payload.
//   - ErrTruncated: the element block ends before rows*cols elements.
package mat4
