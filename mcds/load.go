package mcds

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/celldyn/physigo/mat4"
)

// Load reads one PhysiCell time step: the given MultiCellDS XML file
// and every sidecar file it references, all expected in the same
// directory. The returned Snapshot is immutable.
func Load(xmlfile string, opts Options) (*Snapshot, error) {
	log := opts.logger()
	dir := filepath.Dir(xmlfile)
	base := strings.TrimSuffix(filepath.Base(xmlfile), filepath.Ext(xmlfile))

	s := &Snapshot{
		opts:     opts,
		dir:      dir,
		baseName: base,
	}

	// ID → name mappings from the settings file.
	var substrateNames, cellTypeNames map[int]string
	if opts.SettingXML != "" {
		var err error
		substrateNames, cellTypeNames, err = loadSettings(filepath.Join(dir, opts.SettingXML), log)
		if err != nil {
			return nil, err
		}
	}
	s.substrateIDs = substrateNames
	s.cellTypeIDs = cellTypeNames

	var out xmlOutput
	if err := decodeXMLFile(xmlfile, &out); err != nil {
		return nil, err
	}
	log.Info("reading", zap.String("file", xmlfile))

	if err := s.loadMetadata(&out); err != nil {
		return nil, err
	}
	if err := s.loadMesh(&out); err != nil {
		return nil, err
	}
	if opts.Microenv {
		if err := s.loadMicroenv(&out, log); err != nil {
			return nil, err
		}
	}
	if err := s.loadCells(&out, log); err != nil {
		return nil, err
	}
	if opts.Graph {
		if err := s.loadGraphs(&out, log); err != nil {
			return nil, err
		}
	}

	log.Info("done", zap.String("snapshot", base), zap.Float64("time_min", s.time))
	return s, nil
}

// loadSettings extracts the substrate and cell type ID → name maps and
// warns about untyped custom_data variables.
func loadSettings(path string, log *zap.Logger) (map[int]string, map[int]string, error) {
	var set xmlSettings
	if err := decodeXMLFile(path, &set); err != nil {
		return nil, nil, err
	}
	log.Info("reading", zap.String("file", path))

	substrates := make(map[int]string, len(set.MicroenvironmentSetup.Variable))
	for _, v := range set.MicroenvironmentSetup.Variable {
		substrates[v.ID] = sanitizeName(v.Name)
	}
	cellTypes := make(map[int]string, len(set.CellDefinitions.CellDefinition))
	custom := make(map[string]struct{})
	for _, d := range set.CellDefinitions.CellDefinition {
		cellTypes[d.ID] = sanitizeName(d.Name)
		for _, e := range d.CustomData.Entries {
			custom[e.XMLName.Local] = struct{}{}
		}
	}
	if len(custom) > 0 {
		names := make([]string, 0, len(custom))
		for n := range custom {
			names = append(names, n)
		}
		sort.Strings(names)
		log.Warn("custom_data without variable type setting detected",
			zap.Strings("variables", names))
	}
	return substrates, cellTypes, nil
}

// loadMetadata copies version, timestamp and clock information.
func (s *Snapshot) loadMetadata(out *xmlOutput) error {
	s.multiCellDSVersion = "MultiCellDS_" + out.Version
	s.physiCellVersion = out.Metadata.Software.Name + "_" + out.Metadata.Software.Version
	s.timestamp = strings.TrimSpace(out.Metadata.Created)

	var err error
	if s.time, err = out.Metadata.CurrentTime.float(); err != nil {
		return err
	}
	s.timeUnit = out.Metadata.CurrentTime.Units
	if s.runtime, err = out.Metadata.CurrentRuntime.float(); err != nil {
		return err
	}
	s.runtimeUnit = out.Metadata.CurrentRuntime.Units
	return nil
}

// loadMesh builds the Mesh from the XML axes, the bounding box, and
// the voxel MAT file (centers + volumes).
func (s *Snapshot) loadMesh(out *xmlOutput) error {
	xm := &out.Microenvironment.Domain.Mesh

	xAxis, err := xm.XCoordinates.floats()
	if err != nil {
		return err
	}
	yAxis, err := xm.YCoordinates.floats()
	if err != nil {
		return err
	}
	zAxis, err := xm.ZCoordinates.floats()
	if err != nil {
		return err
	}
	bbox, err := xm.BoundingBox.floats()
	if err != nil {
		return err
	}
	if len(bbox) != 6 {
		return fmt.Errorf("%w: bounding box needs 6 values, got %d", ErrBadFormat, len(bbox))
	}

	mesh := &Mesh{
		XAxis:       uniqueSorted(xAxis),
		YAxis:       uniqueSorted(yAxis),
		ZAxis:       uniqueSorted(zAxis),
		XRange:      [2]float64{bbox[0], bbox[3]},
		YRange:      [2]float64{bbox[1], bbox[4]},
		ZRange:      [2]float64{bbox[2], bbox[5]},
		SpatialUnit: xm.Units,
	}

	voxels, err := mat4.ReadFile(filepath.Join(s.dir, xm.Voxels.Filename))
	if err != nil {
		return err
	}
	if voxels.Rows < 4 {
		return fmt.Errorf("%w: voxel matrix needs 4 rows, got %d", ErrBadFormat, voxels.Rows)
	}
	mesh.Centers = make([][3]float64, voxels.Cols)
	mesh.Volumes = make([]float64, voxels.Cols)
	for c := 0; c < voxels.Cols; c++ {
		mesh.Centers[c] = [3]float64{voxels.At(0, c), voxels.At(1, c), voxels.At(2, c)}
		mesh.Volumes[c] = voxels.At(3, c)
	}

	s.mesh = mesh
	return nil
}

// loadMicroenv reads the microenvironment matrix and scatters each
// substrate row into a meshgrid-shaped Field. The matrix layout is
// [x, y, z, volume, substrate0, substrate1, ...] per voxel column.
func (s *Snapshot) loadMicroenv(out *xmlOutput, log *zap.Logger) error {
	domain := &out.Microenvironment.Domain
	path := filepath.Join(s.dir, domain.Data.Filename)
	env, err := mat4.ReadFile(path)
	if err != nil {
		return err
	}
	log.Info("reading", zap.String("file", path))

	nx, ny, nz := len(s.mesh.XAxis), len(s.mesh.YAxis), len(s.mesh.ZAxis)
	if env.Rows < 4+len(domain.Variables.Variable) {
		return fmt.Errorf("%w: microenvironment matrix has %d rows for %d substrates",
			ErrBadFormat, env.Rows, len(domain.Variables.Variable))
	}

	s.fields = make(map[string]*Field, len(domain.Variables.Variable))
	for vi, v := range domain.Variables.Variable {
		name := sanitizeName(v.Name)
		log.Info("parsing substrate data", zap.String("substrate", name))

		f := newField(name, v.Units, nx, ny, nz)
		if f.DiffusionCoefficient, err = v.PhysicalParameterSet.DiffusionCoefficient.float(); err != nil {
			return err
		}
		f.DiffusionCoefficientUnit = v.PhysicalParameterSet.DiffusionCoefficient.Units
		if f.DecayRate, err = v.PhysicalParameterSet.DecayRate.float(); err != nil {
			return err
		}
		f.DecayRateUnit = v.PhysicalParameterSet.DecayRate.Units

		for c := 0; c < env.Cols; c++ {
			i := nearestAxisIndex(s.mesh.XAxis, env.At(0, c))
			j := nearestAxisIndex(s.mesh.YAxis, env.At(1, c))
			k := nearestAxisIndex(s.mesh.ZAxis, env.At(2, c))
			f.set(i, j, k, env.At(4+vi, c))
		}
		s.fields[name] = f
	}
	return nil
}

// expandLabels turns the XML label list into flat column names plus a
// name → unit map, applying the PhysiCell expansion conventions for
// substrate-, death-, cell-type- and axis-indexed variables.
func (s *Snapshot) expandLabels(labels []xmlLabel) (names []string, units map[string]string) {
	units = make(map[string]string)
	push := func(name, unit string) {
		names = append(names, name)
		units[name] = unit
	}

	for _, l := range labels {
		name := sanitizeName(l.Text)
		switch {
		case substrateIndexedVars[name]:
			for _, sub := range s.substrateSuffixes(l.Size) {
				push(name+"_"+sub, l.Units)
			}
		case deathIndexedVars[name]:
			for d := 0; d < l.Size; d++ {
				push(name+"_"+strconv.Itoa(d), l.Units)
			}
		case celltypeIndexedVars[name]:
			for _, ct := range s.cellTypeSuffixes(l.Size) {
				push(name+"_"+ct, l.Units)
			}
		case spatialVars[name]:
			for _, axis := range []string{"_x", "_y", "_z"} {
				push(name+axis, l.Units)
			}
		default:
			push(name, l.Units)
		}
	}
	return names, units
}

// substrateSuffixes lists substrate names sorted by ID, or numeric
// indices when no settings file was read.
func (s *Snapshot) substrateSuffixes(n int) []string {
	if len(s.substrateIDs) == 0 {
		out := make([]string, n)
		for i := range out {
			out[i] = strconv.Itoa(i)
		}
		return out
	}
	return namesByID(s.substrateIDs)
}

// cellTypeSuffixes lists cell type names sorted by ID, or numeric
// indices when no settings file was read.
func (s *Snapshot) cellTypeSuffixes(n int) []string {
	if len(s.cellTypeIDs) == 0 {
		out := make([]string, n)
		for i := range out {
			out[i] = strconv.Itoa(i)
		}
		return out
	}
	return namesByID(s.cellTypeIDs)
}

// namesByID flattens an ID → name map into a name list ordered by ID.
func namesByID(m map[int]string) []string {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = m[id]
	}
	return out
}

// loadCells reads the cell matrix, expands labels into base columns,
// and derives the voxel, density, vector-length, rate and
// concentration columns.
func (s *Snapshot) loadCells(out *xmlOutput, log *zap.Logger) error {
	custom := &out.CellularInformation.CellPopulations.CellPopulation.Custom

	var sd *xmlSimplifiedData
	for i := range custom.SimplifiedData {
		if custom.SimplifiedData[i].Source == "PhysiCell" {
			sd = &custom.SimplifiedData[i]
			break
		}
	}
	if sd == nil {
		return fmt.Errorf("%w: no PhysiCell simplified_data block", ErrBadFormat)
	}

	names, units := s.expandLabels(sd.Labels.Label)
	s.units = units

	path := filepath.Join(s.dir, sd.Filename)
	cellMat, err := mat4.ReadFile(path)
	if err != nil {
		// Old PhysiCell versions write a corrupt cells.mat when a time
		// step holds zero cells; recover with an empty matrix.
		if errors.Is(err, mat4.ErrBadHeader) || errors.Is(err, mat4.ErrTruncated) {
			log.Warn("corrupt cell matrix, assuming zero cells",
				zap.String("file", path), zap.Error(err))
			cellMat = &mat4.Matrix{Name: "cells", Rows: len(names), Cols: 0}
		} else {
			return err
		}
	}
	log.Info("reading", zap.String("file", path))
	if cellMat.Rows != len(names) {
		return fmt.Errorf("%w: cell matrix has %d rows for %d labels",
			ErrBadFormat, cellMat.Rows, len(names))
	}

	table := newCellTable(cellMat.Cols)
	for r, name := range names {
		table.addFloats(name, units[name], cellMat.Row(r))
	}

	s.deriveVoxelColumns(table)
	s.deriveVectorLengths(table)
	if s.opts.Microenv {
		s.deriveMicroenvColumns(table)
	}
	s.applyColumnTypes(table)

	s.cells = table
	return nil
}

// deriveVoxelColumns appends voxel_i/j/k (clamped to the voxel range),
// cell_count_voxel and cell_density_<unit>3.
func (s *Snapshot) deriveVoxelColumns(table *CellTable) {
	n := table.Len()
	px, errX := table.Column("position_x")
	py, errY := table.Column("position_y")
	pz, errZ := table.Column("position_z")
	if errX != nil || errY != nil || errZ != nil {
		return
	}

	vi := make([]float64, n)
	vj := make([]float64, n)
	vk := make([]float64, n)
	count := make(map[[3]int]float64, n)
	voxels := make([][3]int, n)
	for r := 0; r < n; r++ {
		i, j, k := s.mesh.voxelIJKClamped(px.Float(r), py.Float(r), pz.Float(r))
		vi[r], vj[r], vk[r] = float64(i), float64(j), float64(k)
		voxels[r] = [3]int{i, j, k}
		count[voxels[r]]++
	}
	table.add(&Column{Name: "voxel_i", Kind: KindInt, Floats: vi})
	table.add(&Column{Name: "voxel_j", Kind: KindInt, Floats: vj})
	table.add(&Column{Name: "voxel_k", Kind: KindInt, Floats: vk})

	occupancy := make([]float64, n)
	for r := 0; r < n; r++ {
		occupancy[r] = count[voxels[r]]
	}
	table.add(&Column{Name: "cell_count_voxel", Kind: KindInt, Floats: occupancy})

	if vol, err := s.mesh.VoxelVolume(); err == nil && vol > 0 {
		density := make([]float64, n)
		for r := 0; r < n; r++ {
			density[r] = occupancy[r] / vol
		}
		table.addFloats("cell_density_"+s.mesh.SpatialUnit+"3", "", density)
	}
}

// deriveVectorLengths appends <var>_vectorlength for every spatial
// variable whose _x/_y/_z components are present.
func (s *Snapshot) deriveVectorLengths(table *CellTable) {
	for name := range spatialVars {
		cx, errX := table.Column(name + "_x")
		cy, errY := table.Column(name + "_y")
		cz, errZ := table.Column(name + "_z")
		if errX != nil || errY != nil || errZ != nil {
			continue
		}
		n := table.Len()
		length := make([]float64, n)
		for r := 0; r < n; r++ {
			x, y, z := cx.Float(r), cy.Float(r), cz.Float(r)
			length[r] = math.Sqrt(x*x + y*y + z*z)
		}
		table.addFloats(name+"_vectorlength", "", length)
	}
}

// deriveMicroenvColumns appends the per-substrate decay/diffusion
// constants and the voxel concentration each cell sits in.
func (s *Snapshot) deriveMicroenvColumns(table *CellTable) {
	n := table.Len()
	vi, errI := table.Column("voxel_i")
	vj, errJ := table.Column("voxel_j")
	vk, errK := table.Column("voxel_k")
	hasVoxels := errI == nil && errJ == nil && errK == nil

	for _, name := range s.SubstrateNames() {
		f := s.fields[name]

		decay := make([]float64, n)
		diff := make([]float64, n)
		for r := 0; r < n; r++ {
			decay[r] = f.DecayRate
			diff[r] = f.DiffusionCoefficient
		}
		table.addFloats(name+"_decay_rate", f.DecayRateUnit, decay)
		table.addFloats(name+"_diffusion_coefficient", f.DiffusionCoefficientUnit, diff)
		s.units[name+"_decay_rate"] = f.DecayRateUnit
		s.units[name+"_diffusion_coefficient"] = f.DiffusionCoefficientUnit
		s.units[name] = f.Unit

		if !hasVoxels {
			continue
		}
		conc := make([]float64, n)
		for r := 0; r < n; r++ {
			conc[r] = f.At(int(vi.Int(r)), int(vj.Int(r)), int(vk.Int(r)))
		}
		table.addFloats(name, f.Unit, conc)
	}
}

// applyColumnTypes assigns the built-in and custom column kinds and
// decodes categorical codes into labels.
func (s *Snapshot) applyColumnTypes(table *CellTable) {
	kinds := make(map[string]Kind, len(builtinColumnKind)+len(s.opts.CustomType))
	for name, kind := range builtinColumnKind {
		kinds[name] = kind
	}
	for name, kind := range s.opts.CustomType {
		kinds[name] = kind
	}

	for name, kind := range kinds {
		c, err := table.Column(name)
		if err != nil {
			continue
		}
		c.Kind = kind
		if kind == KindInt || kind == KindBool || kind == KindString {
			for r := range c.Floats {
				c.Floats[r] = math.Round(c.Floats[r])
			}
		}
		if kind == KindString {
			c.Labels = s.decodeCategory(name, c.Floats)
		}
	}
}

// decodeCategory maps integer codes to their label set per column.
// Codes outside the known maps keep their numeric spelling.
func (s *Snapshot) decodeCategory(column string, codes []float64) []string {
	lookup := func(code int) (string, bool) {
		switch column {
		case "cycle_model":
			if v, ok := cycleModelName[code]; ok {
				return v, true
			}
			v, ok := deathModelName[code]
			return v, ok
		case "current_phase":
			if v, ok := cyclePhaseName[code]; ok {
				return v, true
			}
			v, ok := deathPhaseName[code]
			return v, ok
		case "cell_type":
			v, ok := s.cellTypeIDs[code]
			return v, ok
		default:
			return "", false
		}
	}

	labels := make([]string, len(codes))
	for r, raw := range codes {
		code := int(math.Round(raw))
		if v, ok := lookup(code); ok {
			labels[r] = v
		} else {
			labels[r] = strconv.Itoa(code)
		}
	}
	return labels
}

// loadGraphs reads the neighbor and attachment graph text files.
func (s *Snapshot) loadGraphs(out *xmlOutput, log *zap.Logger) error {
	custom := &out.CellularInformation.CellPopulations.CellPopulation.Custom

	var err error
	neighborPath := filepath.Join(s.dir, custom.NeighborGraph.Filename)
	if s.neighbor, err = parseGraphFile(neighborPath); err != nil {
		return err
	}
	log.Info("reading", zap.String("file", neighborPath))

	attachedPath := filepath.Join(s.dir, custom.AttachedGraph.Filename)
	if s.attached, err = parseGraphFile(attachedPath); err != nil {
		return err
	}
	log.Info("reading", zap.String("file", attachedPath))
	return nil
}

// uniqueSorted sorts values and strips duplicates.
func uniqueSorted(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}
