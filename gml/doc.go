// Package gml models a single attributed graph and serializes it to the
// Graph Modelling Language text format, with an optional bridge onto
// gonum's graph interfaces for Graphviz DOT output.
//
// What:
//
//   - Document: creator line, graph header (id, comment, label,
//     directedness), nodes and edges with typed key/value attributes.
//   - Encode / EncodeFile: canonical GML text, two-space nesting,
//     nodes sorted by id and edges by (source, target) so output is
//     byte-deterministic.
//   - DOT: the same Document rendered through gonum encoding/dot.
//
// Value types follow GML's lexical classes: integers and floats print
// bare, strings print quoted, and booleans print as the integers 0/1
// since GML has no boolean class.
//
// Errors:
//
//   - ErrBadKey: an attribute key is empty or not a GML identifier.
//   - ErrDanglingEdge: an edge references a node id that is absent.
package gml
