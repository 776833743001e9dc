package mcds

import (
	"errors"

	"go.uber.org/zap"
)

// Version is the toolkit version stamped into exported artifacts
// (the GML Creator line).
const Version = "0.1.0"

// Sentinel errors for snapshot operations.
var (
	// ErrSubstrateNotFound indicates an unknown substrate name.
	ErrSubstrateNotFound = errors.New("mcds: substrate not found")
	// ErrColumnNotFound indicates an unknown cell-table column.
	ErrColumnNotFound = errors.New("mcds: cell table column not found")
	// ErrBadGraphType indicates a graph type other than neighbor/attached.
	ErrBadGraphType = errors.New("mcds: unknown graph type")
	// ErrGraphNotLoaded indicates graphs were skipped at load time.
	ErrGraphNotLoaded = errors.New("mcds: graphs not loaded (Options.Graph is false)")
	// ErrMicroenvNotLoaded indicates the microenvironment was skipped at load time.
	ErrMicroenvNotLoaded = errors.New("mcds: microenvironment not loaded (Options.Microenv is false)")
	// ErrOutOfMesh indicates a coordinate outside the mesh bounding box.
	ErrOutOfMesh = errors.New("mcds: position outside mesh bounding box")
	// ErrBadVoxelVolume indicates the mesh is not built from one voxel volume.
	ErrBadVoxelVolume = errors.New("mcds: mesh voxel volumes are not uniform")
	// ErrBadFormat indicates malformed output files.
	ErrBadFormat = errors.New("mcds: malformed PhysiCell output")
)

// Kind is the logical type of a cell-table column.
type Kind int

const (
	// KindFloat is a numeric column (the default for all variables).
	KindFloat Kind = iota
	// KindInt is an integer-valued column.
	KindInt
	// KindBool is a 0/1 flag column.
	KindBool
	// KindString is a categorical column decoded to labels.
	KindString
)

// GraphType selects which cell graph an operation works on.
type GraphType string

const (
	// NeighborGraph connects spatially proximate cells.
	NeighborGraph GraphType = "neighbor"
	// AttachedGraph connects cells with explicit attachment relations.
	AttachedGraph GraphType = "attached"
)

// Options configures Load. Zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// Microenv controls whether substrate fields are extracted.
	// Disabling it saves memory and skips the microenvironment MAT file.
	Microenv bool

	// Graph controls whether the neighbor/attachment graph files are read.
	Graph bool

	// SettingXML is the settings file (relative to the output directory)
	// holding substrate and cell type ID→name mappings. Empty disables
	// the lookup; IDs then stay numeric in the cell table.
	SettingXML string

	// CustomType overrides the column kind for custom_data variables,
	// which PhysiCell stores untyped as doubles.
	CustomType map[string]Kind

	// Logger receives progress and recovery messages. Nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions mirrors the upstream loader defaults: everything on,
// settings file at its conventional name, no logging.
func DefaultOptions() Options {
	return Options{
		Microenv:   true,
		Graph:      true,
		SettingXML: "PhysiCell_settings.xml",
	}
}

// logger returns the configured logger or a nop.
func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
