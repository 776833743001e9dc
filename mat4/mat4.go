package mat4

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Sentinel errors for MAT-file decoding.
var (
	// ErrBadHeader indicates a malformed Level 4 header.
	ErrBadHeader = errors.New("mat4: malformed MAT-file header")
	// ErrUnsupportedType indicates a payload this package does not decode.
	ErrUnsupportedType = errors.New("mat4: unsupported matrix type")
	// ErrTruncated indicates the element block ended early.
	ErrTruncated = errors.New("mat4: truncated element block")
)

// Element precision codes from the Level 4 type field (the P digit).
const (
	precFloat64 = 0
	precFloat32 = 1
	precInt32   = 2
	precInt16   = 3
	precUint16  = 4
	precUint8   = 5
)

// Matrix is one named matrix from a Level 4 MAT-file.
// Data is column-major: element (r,c) lives at Data[c*Rows+r].
type Matrix struct {
	Name string
	Rows int
	Cols int
	Data []float64
}

// At returns element (r, c). It panics on out-of-range indices,
// mirroring slice indexing.
func (m *Matrix) At(r, c int) float64 {
	if r < 0 || r >= m.Rows || c < 0 || c >= m.Cols {
		panic(fmt.Sprintf("mat4: index (%d,%d) out of range %dx%d", r, c, m.Rows, m.Cols))
	}
	return m.Data[c*m.Rows+r]
}

// Row returns row r as a newly allocated slice of length Cols.
func (m *Matrix) Row(r int) []float64 {
	out := make([]float64, m.Cols)
	for c := 0; c < m.Cols; c++ {
		out[c] = m.Data[c*m.Rows+r]
	}
	return out
}

// Col returns column c as a newly allocated slice of length Rows.
func (m *Matrix) Col(c int) []float64 {
	out := make([]float64, m.Rows)
	copy(out, m.Data[c*m.Rows:(c+1)*m.Rows])
	return out
}

// Read decodes the next matrix from r.
// It returns io.EOF when r is exhausted before a header begins.
func Read(r io.Reader) (*Matrix, error) {
	var hdr [5]int32
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	typ, rows, cols, imagf, namlen := hdr[0], hdr[1], hdr[2], hdr[3], hdr[4]
	if typ < 0 || typ > 9999 || rows < 0 || cols < 0 || namlen < 1 || namlen > 1<<16 {
		return nil, ErrBadHeader
	}

	// type = M*1000 + O*100 + P*10 + T
	byteOrder := typ / 1000 % 10
	prec := typ / 10 % 10
	storage := typ % 10
	if byteOrder != 0 {
		return nil, fmt.Errorf("%w: big-endian data", ErrUnsupportedType)
	}
	if storage != 0 {
		return nil, fmt.Errorf("%w: storage class %d", ErrUnsupportedType, storage)
	}
	if imagf != 0 {
		return nil, fmt.Errorf("%w: complex data", ErrUnsupportedType)
	}

	name := make([]byte, namlen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("%w: name", ErrTruncated)
	}
	name = bytes.TrimRight(name, "\x00")

	n := int(rows) * int(cols)
	data, err := readElements(r, prec, n)
	if err != nil {
		return nil, err
	}

	return &Matrix{
		Name: string(name),
		Rows: int(rows),
		Cols: int(cols),
		Data: data,
	}, nil
}

// readElements decodes n elements of the given precision into float64.
func readElements(r io.Reader, prec int32, n int) ([]float64, error) {
	data := make([]float64, n)
	switch prec {
	case precFloat64:
		if err := binary.Read(r, binary.LittleEndian, data); err != nil {
			return nil, ErrTruncated
		}
	case precFloat32:
		buf := make([]float32, n)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, ErrTruncated
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	case precInt32:
		buf := make([]int32, n)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, ErrTruncated
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	case precInt16:
		buf := make([]int16, n)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, ErrTruncated
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	case precUint16:
		buf := make([]uint16, n)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, ErrTruncated
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	case precUint8:
		buf := make([]uint8, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, ErrTruncated
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("%w: precision code %d", ErrUnsupportedType, prec)
	}
	return data, nil
}

// ReadAll decodes every matrix in r, in file order.
func ReadAll(r io.Reader) ([]*Matrix, error) {
	var out []*Matrix
	br := bufio.NewReader(r)
	for {
		m, err := Read(br)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
}

// ReadFile decodes the first matrix of the MAT-file at path.
func ReadFile(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mat4: %w", err)
	}
	defer f.Close()
	m, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("mat4: read %s: %w", path, err)
	}
	return m, nil
}

// Write encodes m as a little-endian double-precision full matrix.
func Write(w io.Writer, m *Matrix) error {
	if len(m.Data) != m.Rows*m.Cols {
		return fmt.Errorf("mat4: data length %d does not match %dx%d", len(m.Data), m.Rows, m.Cols)
	}
	name := append([]byte(m.Name), 0)
	hdr := [5]int32{0, int32(m.Rows), int32(m.Cols), 0, int32(len(name))}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("mat4: write header: %w", err)
	}
	if _, err := w.Write(name); err != nil {
		return fmt.Errorf("mat4: write name: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.Data); err != nil {
		return fmt.Errorf("mat4: write data: %w", err)
	}
	return nil
}

// WriteFile writes m to a new MAT-file at path.
func WriteFile(path string, m *Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mat4: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err = Write(bw, m); err != nil {
		f.Close()
		return err
	}
	if err = bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("mat4: flush %s: %w", path, err)
	}
	return f.Close()
}

// NewMatrix builds a Rows x Cols matrix from row-major values,
// converting to the column-major layout MAT-files use.
func NewMatrix(name string, rows, cols int, rowMajor []float64) (*Matrix, error) {
	if len(rowMajor) != rows*cols {
		return nil, fmt.Errorf("mat4: %d values do not fill %dx%d", len(rowMajor), rows, cols)
	}
	data := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data[c*rows+r] = rowMajor[r*cols+c]
		}
	}
	return &Matrix{Name: name, Rows: rows, Cols: cols, Data: data}, nil
}

// IsFinite reports whether every element is a finite number.
func (m *Matrix) IsFinite() bool {
	for _, v := range m.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
