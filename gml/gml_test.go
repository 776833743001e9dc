package gml_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celldyn/physigo/gml"
)

// buildDoc returns a small undirected document used across tests.
func buildDoc() *gml.Document {
	d := &gml.Document{
		Creator: "physigo_v0.1.0",
		ID:      1440,
		Comment: "time_min",
		Label:   "neighbor_graph",
	}
	d.AddNode(1, gml.Attr{Key: "dead", Val: gml.Bool(false)})
	d.AddNode(0,
		gml.Attr{Key: "cell_type", Val: gml.String("cancer_cell")},
		gml.Attr{Key: "cell_count_voxel", Val: gml.Int(2)},
	)
	d.AddEdge(0, 1, gml.Attr{Key: "distance_microns", Val: gml.Float(17.25)})
	return d
}

// TestEncode_Canonical checks header shape, node sorting, and attribute
// rendering against the canonical text format.
func TestEncode_Canonical(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, buildDoc().Encode(&buf))
	s := buf.String()

	assert.True(t, strings.HasPrefix(s, "Creator \"physigo_v0.1.0\"\n"))
	assert.Contains(t, s, "graph [\n  id 1440\n  comment \"time_min\"\n  label \"neighbor_graph\"\n  directed 0\n")
	// node 0 sorts before node 1 regardless of insertion order
	i0 := strings.Index(s, "node [\n    id 0\n")
	i1 := strings.Index(s, "node [\n    id 1\n")
	require.GreaterOrEqual(t, i0, 0)
	require.GreaterOrEqual(t, i1, 0)
	assert.Less(t, i0, i1)
	assert.Contains(t, s, "    cell_type \"cancer_cell\"\n")
	assert.Contains(t, s, "    cell_count_voxel 2\n")
	assert.Contains(t, s, "    dead 0\n")
	assert.Contains(t, s, "edge [\n    source 0\n    target 1\n    distance_microns 17.25\n  ]\n")
	assert.True(t, strings.HasSuffix(s, "]\n"))
}

// TestEncode_Deterministic serializes twice and compares bytes.
func TestEncode_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	d := buildDoc()
	require.NoError(t, d.Encode(&a))
	require.NoError(t, d.Encode(&b))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

// TestEncode_FloatStaysFloat verifies whole-valued floats keep a decimal point.
func TestEncode_FloatStaysFloat(t *testing.T) {
	d := &gml.Document{ID: 0}
	d.AddNode(0, gml.Attr{Key: "volume", Val: gml.Float(2494)})
	var buf bytes.Buffer
	require.NoError(t, d.Encode(&buf))
	assert.Contains(t, buf.String(), "volume 2494.0\n")
}

// TestEncode_Errors covers dangling edges and invalid keys.
func TestEncode_Errors(t *testing.T) {
	d := &gml.Document{ID: 0}
	d.AddNode(0)
	d.AddEdge(0, 99)
	assert.ErrorIs(t, d.Encode(&bytes.Buffer{}), gml.ErrDanglingEdge)

	d = &gml.Document{ID: 0}
	d.AddNode(0, gml.Attr{Key: "2bad", Val: gml.Int(1)})
	assert.ErrorIs(t, d.Encode(&bytes.Buffer{}), gml.ErrBadKey)
}

// TestDOT renders the same document through gonum's DOT encoder.
func TestDOT(t *testing.T) {
	out, err := gml.DOT(buildDoc())
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "graph neighbor_graph")
	assert.Contains(t, s, "cell_type")
	assert.Contains(t, s, "distance_microns")
	assert.Contains(t, s, "0 -- 1")
}

// TestDOT_Directed renders a directed edge.
func TestDOT_Directed(t *testing.T) {
	d := &gml.Document{Label: "attached_graph", Directed: true}
	d.AddNode(3)
	d.AddNode(4)
	d.AddEdge(3, 4)
	out, err := gml.DOT(d)
	require.NoError(t, err)
	assert.Contains(t, string(out), "3 -> 4")
}
