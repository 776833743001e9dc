package gml

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// dotNode adapts a Node onto gonum's graph.Node and encoding.Attributer.
type dotNode struct {
	id    int64
	attrs []encoding.Attribute
}

func (n dotNode) ID() int64 { return n.id }

func (n dotNode) Attributes() []encoding.Attribute { return n.attrs }

// dotEdge adapts an Edge; simple graphs return the stored edge value
// from lookups, so attributes survive into dot.Marshal.
type dotEdge struct {
	from, to graph.Node
	attrs    []encoding.Attribute
}

func (e dotEdge) From() graph.Node { return e.from }

func (e dotEdge) To() graph.Node { return e.to }

func (e dotEdge) ReversedEdge() graph.Edge { return dotEdge{from: e.to, to: e.from, attrs: e.attrs} }

func (e dotEdge) Attributes() []encoding.Attribute { return e.attrs }

// dotBuilder is the subset of gonum mutators both simple graph kinds share.
type dotBuilder interface {
	graph.Graph
	AddNode(graph.Node)
	SetEdge(graph.Edge)
}

// asDOTAttrs converts GML attributes to DOT attributes.
func asDOTAttrs(attrs []Attr) []encoding.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]encoding.Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = encoding.Attribute{Key: a.Key, Value: a.Val.text()}
	}
	return out
}

// DOT renders the document as Graphviz DOT text via gonum encoding/dot.
// Self-loop edges are dropped: simple graphs reject them and DOT output
// of a cell graph has no use for them.
func DOT(d *Document) ([]byte, error) {
	known := make(map[int64]graph.Node, len(d.Nodes))

	var g dotBuilder
	if d.Directed {
		g = simple.NewDirectedGraph()
	} else {
		g = simple.NewUndirectedGraph()
	}
	for _, n := range d.Nodes {
		dn := dotNode{id: n.ID, attrs: asDOTAttrs(n.Attrs)}
		g.AddNode(dn)
		known[n.ID] = dn
	}
	for _, e := range d.Edges {
		if e.Source == e.Target {
			continue
		}
		from, ok := known[e.Source]
		if !ok {
			return nil, fmt.Errorf("%w: source %d", ErrDanglingEdge, e.Source)
		}
		to, ok := known[e.Target]
		if !ok {
			return nil, fmt.Errorf("%w: target %d", ErrDanglingEdge, e.Target)
		}
		g.SetEdge(dotEdge{from: from, to: to, attrs: asDOTAttrs(e.Attrs)})
	}

	out, err := dot.Marshal(g, d.Label, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("gml: dot marshal: %w", err)
	}
	return out, nil
}
