package mcds

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// CellGraph is an adjacency structure over cell IDs. Every cell that
// appears as a line key is a node, including isolated cells with no
// neighbors. The graph is undirected; both endpoints list each other.
type CellGraph struct {
	adj map[int64][]int64
}

// Len returns the number of nodes.
func (g *CellGraph) Len() int { return len(g.adj) }

// IDs returns all node IDs in ascending order.
func (g *CellGraph) IDs() []int64 {
	ids := make([]int64, 0, len(g.adj))
	for id := range g.adj {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Neighbors returns the sorted neighbor IDs of a node. The returned
// slice is shared; callers must not mutate it.
func (g *CellGraph) Neighbors(id int64) []int64 { return g.adj[id] }

// EdgeCount returns the number of undirected edges, counting each
// unordered pair once.
func (g *CellGraph) EdgeCount() int {
	n := 0
	for id, nbs := range g.adj {
		for _, nb := range nbs {
			if id < nb {
				n++
			}
		}
	}
	return n
}

// parseGraph reads PhysiCell's graph text format: one line per cell,
// `id: id,id,...` with an empty right-hand side for isolated cells.
func parseGraph(r io.Reader) (*CellGraph, error) {
	adj := make(map[int64][]int64)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		key, rest, ok := strings.Cut(text, ":")
		if !ok {
			return nil, fmt.Errorf("%w: graph line %d has no key", ErrBadFormat, line)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: graph line %d: %v", ErrBadFormat, line, err)
		}
		var nbs []int64
		rest = strings.TrimSpace(rest)
		if rest != "" {
			for _, part := range strings.Split(rest, ",") {
				nb, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: graph line %d: %v", ErrBadFormat, line, err)
				}
				nbs = append(nbs, nb)
			}
			sort.Slice(nbs, func(i, j int) bool { return nbs[i] < nbs[j] })
		}
		adj[id] = nbs
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	return &CellGraph{adj: adj}, nil
}

// parseGraphFile reads a graph text file from disk.
func parseGraphFile(path string) (*CellGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mcds: %w", err)
	}
	defer f.Close()
	g, err := parseGraph(f)
	if err != nil {
		return nil, fmt.Errorf("mcds: parse %s: %w", path, err)
	}
	return g, nil
}
