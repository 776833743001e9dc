package mcds

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Field is one substrate concentration over the whole mesh, stored in
// the meshgrid layout [j, i, k]: row j along y, column i along x,
// layer k along z.
type Field struct {
	// Substrate is the chemical species name, spaces replaced by
	// underscores.
	Substrate string
	// Unit is the concentration unit.
	Unit string

	// DiffusionCoefficient and DecayRate are the microenvironment
	// parameters for this species, with their units.
	DiffusionCoefficient     float64
	DiffusionCoefficientUnit string
	DecayRate                float64
	DecayRateUnit            string

	nx, ny, nz int
	data       []float64 // index (j*nx+i)*nz + k
}

// newField allocates a zeroed field over an nx x ny x nz mesh.
func newField(substrate, unit string, nx, ny, nz int) *Field {
	return &Field{
		Substrate: substrate,
		Unit:      unit,
		nx:        nx,
		ny:        ny,
		nz:        nz,
		data:      make([]float64, nx*ny*nz),
	}
}

// Dims returns the field extents along x, y, z.
func (f *Field) Dims() (nx, ny, nz int) { return f.nx, f.ny, f.nz }

// At returns the concentration in voxel (i, j, k).
func (f *Field) At(i, j, k int) float64 {
	return f.data[(j*f.nx+i)*f.nz+k]
}

// set stores the concentration for voxel (i, j, k).
func (f *Field) set(i, j, k int, v float64) {
	f.data[(j*f.nx+i)*f.nz+k] = v
}

// Layer extracts the xy-plane at z layer k as a dense ny x nx matrix,
// rows along y and columns along x.
func (f *Field) Layer(k int) (*mat.Dense, error) {
	if k < 0 || k >= f.nz {
		return nil, fmt.Errorf("%w: z layer %d of %d", ErrOutOfMesh, k, f.nz)
	}
	d := mat.NewDense(f.ny, f.nx, nil)
	for j := 0; j < f.ny; j++ {
		for i := 0; i < f.nx; i++ {
			d.Set(j, i, f.At(i, j, k))
		}
	}
	return d, nil
}

// Min and Max report the concentration extrema over the whole field.
func (f *Field) Min() float64 { return floats.Min(f.data) }

// Max reports the largest concentration in the field.
func (f *Field) Max() float64 { return floats.Max(f.data) }
