package mat4_test

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celldyn/physigo/mat4"
)

// TestRoundTrip verifies Write followed by Read reproduces the matrix.
func TestRoundTrip(t *testing.T) {
	m, err := mat4.NewMatrix("mesh", 2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, mat4.Write(&buf, m))

	got, err := mat4.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "mesh", got.Name)
	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, 3, got.Cols)
	assert.Equal(t, 6.0, got.At(1, 2))
	assert.Equal(t, []float64{1, 2, 3}, got.Row(0))
	assert.Equal(t, []float64{3, 6}, got.Col(2))
}

// TestRoundTripFile exercises the file based entry points.
func TestRoundTripFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells.mat")
	m, err := mat4.NewMatrix("cells", 3, 2, []float64{
		0, 1,
		-12.5, 42,
		7, 0.25,
	})
	require.NoError(t, err)
	require.NoError(t, mat4.WriteFile(path, m))

	got, err := mat4.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, m.Data, got.Data)
	assert.True(t, got.IsFinite())
}

// TestReadAll decodes two concatenated matrices.
func TestReadAll(t *testing.T) {
	var buf bytes.Buffer
	a, _ := mat4.NewMatrix("a", 1, 2, []float64{1, 2})
	b, _ := mat4.NewMatrix("b", 2, 1, []float64{3, 4})
	require.NoError(t, mat4.Write(&buf, a))
	require.NoError(t, mat4.Write(&buf, b))

	ms, err := mat4.ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "a", ms[0].Name)
	assert.Equal(t, "b", ms[1].Name)
}

// TestReadAll_Empty returns no matrices for an empty stream.
func TestReadAll_Empty(t *testing.T) {
	ms, err := mat4.ReadAll(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, ms)
}

// TestRead_Int16 decodes a non-double precision payload.
func TestRead_Int16(t *testing.T) {
	var buf bytes.Buffer
	// type 30: little-endian int16 full matrix, 1x3 named "v".
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [5]int32{30, 1, 3, 0, 2}))
	buf.Write([]byte{'v', 0})
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, []int16{-1, 0, 7}))

	m, err := mat4.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 7}, m.Data)
}

// TestRead_Errors covers the rejection paths.
func TestRead_Errors(t *testing.T) {
	cases := []struct {
		name string
		hdr  [5]int32
		err  error
	}{
		{"BigEndian", [5]int32{1000, 1, 1, 0, 2}, mat4.ErrUnsupportedType},
		{"Sparse", [5]int32{2, 1, 1, 0, 2}, mat4.ErrUnsupportedType},
		{"Complex", [5]int32{0, 1, 1, 1, 2}, mat4.ErrUnsupportedType},
		{"BadNameLen", [5]int32{0, 1, 1, 0, 0}, mat4.ErrBadHeader},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, tc.hdr))
			buf.Write([]byte{'v', 0})
			_, err := mat4.Read(&buf)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

// TestRead_Truncated errors when the element block is short.
func TestRead_Truncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [5]int32{0, 2, 2, 0, 2}))
	buf.Write([]byte{'v', 0})
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, []float64{1, 2})) // 2 of 4

	_, err := mat4.Read(&buf)
	assert.ErrorIs(t, err, mat4.ErrTruncated)
}
