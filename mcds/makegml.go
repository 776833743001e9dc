package mcds

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/celldyn/physigo/gml"
)

// MakeGraphGML serializes the neighbor or attachment cell graph to
// `<basename>_<graphtype>.gml` beside the XML file and returns the
// written path.
//
// Every cell appearing as a key in the graph becomes a node; nodeAttr
// names cell-table columns to copy onto nodes (booleans as 0/1,
// integers bare, floats with full precision, categoricals quoted).
// With edgeAttr, each undirected edge carries its Euclidean length
// between the two cell centers as `distance_<spatialunit>s`.
func (s *Snapshot) MakeGraphGML(graphType GraphType, edgeAttr bool, nodeAttr []string) (string, error) {
	doc, err := s.graphDocument(graphType, edgeAttr, nodeAttr)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.gml", s.baseName, graphType))
	if err = doc.EncodeFile(path); err != nil {
		return "", err
	}
	return path, nil
}

// MakeGraphDOT renders the same graph as Graphviz DOT text instead of
// writing a file.
func (s *Snapshot) MakeGraphDOT(graphType GraphType, edgeAttr bool, nodeAttr []string) ([]byte, error) {
	doc, err := s.graphDocument(graphType, edgeAttr, nodeAttr)
	if err != nil {
		return nil, err
	}
	return gml.DOT(doc)
}

// graphDocument builds the attributed document both exports share.
func (s *Snapshot) graphDocument(graphType GraphType, edgeAttr bool, nodeAttr []string) (*gml.Document, error) {
	g, err := s.Graph(graphType)
	if err != nil {
		return nil, err
	}
	cols := make([]*Column, len(nodeAttr))
	for n, name := range nodeAttr {
		if cols[n], err = s.cells.Column(name); err != nil {
			return nil, err
		}
	}
	rows := s.cells.rowIndex()

	doc := &gml.Document{
		Creator: fmt.Sprintf("physigo_v%s", Version),
		ID:      int64(math.Round(s.time)),
		Comment: "time_" + timeUnitOrDefault(s.timeUnit),
		Label:   string(graphType) + "_graph",
	}

	for _, id := range g.IDs() {
		attrs := make([]gml.Attr, 0, len(cols))
		if r, ok := rows[id]; ok {
			for n, c := range cols {
				attrs = append(attrs, gml.Attr{Key: nodeAttr[n], Val: columnValue(c, r)})
			}
		}
		doc.AddNode(id, attrs...)
	}

	distanceKey := "distance_" + s.mesh.SpatialUnit + "s"
	for _, id := range g.IDs() {
		for _, nb := range g.Neighbors(id) {
			if id >= nb {
				continue // unordered pair emitted once
			}
			var attrs []gml.Attr
			if edgeAttr {
				d, derr := s.cellDistance(rows, id, nb)
				if derr != nil {
					return nil, derr
				}
				attrs = append(attrs, gml.Attr{Key: distanceKey, Val: gml.Float(d)})
			}
			doc.AddEdge(id, nb, attrs...)
		}
	}
	return doc, nil
}

// cellDistance computes the Euclidean distance between two cell centers.
func (s *Snapshot) cellDistance(rows map[int64]int, a, b int64) (float64, error) {
	px, errX := s.cells.Column("position_x")
	py, errY := s.cells.Column("position_y")
	pz, errZ := s.cells.Column("position_z")
	if errX != nil || errY != nil || errZ != nil {
		return 0, ErrColumnNotFound
	}
	ra, okA := rows[a]
	rb, okB := rows[b]
	if !okA || !okB {
		return 0, fmt.Errorf("%w: cell ID missing from table", ErrColumnNotFound)
	}
	dx := px.Float(ra) - px.Float(rb)
	dy := py.Float(ra) - py.Float(rb)
	dz := pz.Float(ra) - pz.Float(rb)
	return math.Sqrt(dx*dx + dy*dy + dz*dz), nil
}

// columnValue converts one table cell into a typed GML value.
func columnValue(c *Column, r int) gml.Value {
	switch c.Kind {
	case KindBool:
		return gml.Bool(c.Bool(r))
	case KindInt:
		return gml.Int(c.Int(r))
	case KindString:
		return gml.String(c.String(r))
	default:
		return gml.Float(c.Float(r))
	}
}

// timeUnitOrDefault falls back to PhysiCell's stock clock unit.
func timeUnitOrDefault(unit string) string {
	if unit == "" {
		return "min"
	}
	return unit
}
