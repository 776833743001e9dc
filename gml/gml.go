package gml

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Sentinel errors for document encoding.
var (
	// ErrBadKey indicates an attribute key that is not a GML identifier.
	ErrBadKey = errors.New("gml: attribute key is not a valid GML key")
	// ErrDanglingEdge indicates an edge endpoint with no matching node.
	ErrDanglingEdge = errors.New("gml: edge references unknown node id")
)

// valueKind discriminates the GML lexical class of a Value.
type valueKind int

const (
	kindInt valueKind = iota
	kindFloat
	kindString
)

// Value is one typed GML attribute value.
type Value struct {
	kind valueKind
	i    int64
	f    float64
	s    string
}

// Int wraps an integer attribute value.
func Int(v int64) Value { return Value{kind: kindInt, i: v} }

// Float wraps a floating point attribute value.
func Float(v float64) Value { return Value{kind: kindFloat, f: v} }

// Bool wraps a boolean attribute value as the GML integers 0/1.
func Bool(v bool) Value {
	if v {
		return Value{kind: kindInt, i: 1}
	}
	return Value{kind: kindInt, i: 0}
}

// String wraps a quoted string attribute value.
func String(v string) Value { return Value{kind: kindString, s: v} }

// text renders the value in GML syntax.
func (v Value) text() string {
	switch v.kind {
	case kindInt:
		return strconv.FormatInt(v.i, 10)
	case kindFloat:
		// GML floats need a decimal point or exponent to stay floats.
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && s != "NaN" {
			s += ".0"
		}
		return s
	default:
		return strconv.Quote(v.s)
	}
}

// Attr is a single key/value attribute on a node or edge.
type Attr struct {
	Key string
	Val Value
}

// Node is one graph node identified by an integer id.
type Node struct {
	ID    int64
	Attrs []Attr
}

// Edge connects two node ids, optionally carrying attributes.
type Edge struct {
	Source int64
	Target int64
	Attrs  []Attr
}

// Document is a complete single-graph GML file.
type Document struct {
	// Creator becomes the leading `Creator "..."` line when non-empty.
	Creator string
	// ID, Comment and Label populate the graph header.
	ID      int64
	Comment string
	Label   string
	// Directed selects `directed 1` (true) or `directed 0` (false).
	Directed bool

	Nodes []Node
	Edges []Edge
}

// AddNode appends a node.
func (d *Document) AddNode(id int64, attrs ...Attr) {
	d.Nodes = append(d.Nodes, Node{ID: id, Attrs: attrs})
}

// AddEdge appends an edge.
func (d *Document) AddEdge(source, target int64, attrs ...Attr) {
	d.Edges = append(d.Edges, Edge{Source: source, Target: target, Attrs: attrs})
}

// validKey reports whether k is a GML key: a letter followed by
// letters, digits, or underscores.
func validKey(k string) bool {
	if k == "" {
		return false
	}
	for i, r := range k {
		letter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if i == 0 && !letter {
			return false
		}
		if !letter && !digit && r != '_' {
			return false
		}
	}
	return true
}

// Encode writes the document as canonical GML text.
// Nodes are sorted by id and edges by (source, target) first, so the
// same Document always serializes to the same bytes.
// Complexity: O(V log V + E log E).
func (d *Document) Encode(w io.Writer) error {
	known := make(map[int64]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		known[n.ID] = struct{}{}
	}
	for _, e := range d.Edges {
		if _, ok := known[e.Source]; !ok {
			return fmt.Errorf("%w: source %d", ErrDanglingEdge, e.Source)
		}
		if _, ok := known[e.Target]; !ok {
			return fmt.Errorf("%w: target %d", ErrDanglingEdge, e.Target)
		}
	}
	for _, n := range d.Nodes {
		for _, a := range n.Attrs {
			if !validKey(a.Key) {
				return fmt.Errorf("%w: %q", ErrBadKey, a.Key)
			}
		}
	}
	for _, e := range d.Edges {
		for _, a := range e.Attrs {
			if !validKey(a.Key) {
				return fmt.Errorf("%w: %q", ErrBadKey, a.Key)
			}
		}
	}

	nodes := make([]Node, len(d.Nodes))
	copy(nodes, d.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := make([]Edge, len(d.Edges))
	copy(edges, d.Edges)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	bw := bufio.NewWriter(w)
	if d.Creator != "" {
		fmt.Fprintf(bw, "Creator %s\n", strconv.Quote(d.Creator))
	}
	fmt.Fprintf(bw, "graph [\n")
	fmt.Fprintf(bw, "  id %d\n", d.ID)
	if d.Comment != "" {
		fmt.Fprintf(bw, "  comment %s\n", strconv.Quote(d.Comment))
	}
	if d.Label != "" {
		fmt.Fprintf(bw, "  label %s\n", strconv.Quote(d.Label))
	}
	directed := 0
	if d.Directed {
		directed = 1
	}
	fmt.Fprintf(bw, "  directed %d\n", directed)

	for _, n := range nodes {
		fmt.Fprintf(bw, "  node [\n")
		fmt.Fprintf(bw, "    id %d\n", n.ID)
		for _, a := range n.Attrs {
			fmt.Fprintf(bw, "    %s %s\n", a.Key, a.Val.text())
		}
		fmt.Fprintf(bw, "  ]\n")
	}
	for _, e := range edges {
		fmt.Fprintf(bw, "  edge [\n")
		fmt.Fprintf(bw, "    source %d\n", e.Source)
		fmt.Fprintf(bw, "    target %d\n", e.Target)
		for _, a := range e.Attrs {
			fmt.Fprintf(bw, "    %s %s\n", a.Key, a.Val.text())
		}
		fmt.Fprintf(bw, "  ]\n")
	}
	fmt.Fprintf(bw, "]\n")

	return bw.Flush()
}

// EncodeFile writes the document to a new file at path.
func (d *Document) EncodeFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gml: %w", err)
	}
	if err = d.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
