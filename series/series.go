package series

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/celldyn/physigo/mcds"
)

// Sentinel errors for time series operations.
var (
	// ErrNoSnapshots indicates a directory without output XML files.
	ErrNoSnapshots = errors.New("series: no output*.xml files found")
	// ErrNoFrames indicates a frame directory without matching images.
	ErrNoFrames = errors.New("series: no frame images found")
	// ErrBadAggregate indicates an unknown aggregation name.
	ErrBadAggregate = errors.New("series: unknown aggregate")
)

// Series is a whole PhysiCell output directory: every time step,
// loaded in chronological order.
type Series struct {
	path  string
	steps []*mcds.Snapshot
	log   *zap.Logger
}

// New discovers and loads every output*.xml under outputPath, sorted
// by filename, which PhysiCell keeps chronological through the
// zero-padded step index.
func New(outputPath string, opts mcds.Options) (*Series, error) {
	matches, err := filepath.Glob(filepath.Join(outputPath, "output*.xml"))
	if err != nil {
		return nil, fmt.Errorf("series: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshots, outputPath)
	}
	sort.Strings(matches)

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("loading series",
		zap.String("path", outputPath), zap.Int("steps", len(matches)))

	steps := make([]*mcds.Snapshot, len(matches))
	for n, xmlfile := range matches {
		if steps[n], err = mcds.Load(xmlfile, opts); err != nil {
			return nil, err
		}
	}
	return &Series{path: outputPath, steps: steps, log: log}, nil
}

// Path returns the output directory.
func (s *Series) Path() string { return s.path }

// Snapshots returns every loaded time step in chronological order.
func (s *Series) Snapshots() []*mcds.Snapshot { return s.steps }

// Times returns the simulation time of every step.
func (s *Series) Times() []float64 {
	out := make([]float64, len(s.steps))
	for n, step := range s.steps {
		out[n] = step.Time()
	}
	return out
}

// MakeGraphGML exports the chosen cell graph of every time step and
// returns the written paths in step order.
func (s *Series) MakeGraphGML(graphType mcds.GraphType, edgeAttr bool, nodeAttr []string) ([]string, error) {
	paths := make([]string, len(s.steps))
	for n, step := range s.steps {
		path, err := step.MakeGraphGML(graphType, edgeAttr, nodeAttr)
		if err != nil {
			return nil, err
		}
		s.log.Info("wrote graph", zap.String("file", path))
		paths[n] = path
	}
	return paths, nil
}
