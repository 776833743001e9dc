// Package pcfixture synthesizes a miniature PhysiCell output
// directory for tests: a settings file, per-step MultiCellDS XML with
// its mesh, microenvironment and cell matrices, and the two graph
// text files. The generated values are deterministic so tests can
// assert exact loader output.
package pcfixture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/celldyn/physigo/mat4"
)

// Mesh extents: 4 x 3 x 2 voxels, 10 micron spacing.
const (
	NX = 4
	NY = 3
	NZ = 2
)

// Mesh center axes.
var (
	XAxis = []float64{-15, -5, 5, 15}
	YAxis = []float64{-10, 0, 10}
	ZAxis = []float64{-5, 5}
)

// Oxygen returns the synthetic oxygen concentration of voxel (i,j,k)
// at a simulation time: the voxel address encoded in decimal digits
// plus a slow drift so extrema differ between time steps.
func Oxygen(i, j, k int, timeMin float64) float64 {
	return float64(i) + 10*float64(j) + 100*float64(k) + timeMin/1000
}

// Glucose is constant everywhere.
const Glucose = 5.5

// WriteSettings writes PhysiCell_settings.xml with two substrates
// (oxygen, glucose) and two cell types (default, cancer_cell).
func WriteSettings(dir string) error {
	const settings = `<?xml version="1.0" encoding="UTF-8"?>
<PhysiCell_settings version="development">
  <microenvironment_setup>
    <variable name="oxygen" units="mmHg" ID="0"/>
    <variable name="glucose" units="mM" ID="1"/>
  </microenvironment_setup>
  <cell_definitions>
    <cell_definition name="default" ID="0">
      <custom_data>
        <sample units="dimensionless">1.0</sample>
      </custom_data>
    </cell_definition>
    <cell_definition name="cancer cell" ID="1"/>
  </cell_definitions>
</PhysiCell_settings>
`
	return os.WriteFile(filepath.Join(dir, "PhysiCell_settings.xml"), []byte(settings), 0o644)
}

// WriteStep writes one complete time step (XML plus sidecars) named
// output<index padded to 8>.xml and returns the XML path.
func WriteStep(dir string, index int, timeMin float64) (string, error) {
	base := fmt.Sprintf("output%08d", index)

	if err := writeMeshMat(dir); err != nil {
		return "", err
	}
	if err := writeMicroenvMat(dir, base, timeMin); err != nil {
		return "", err
	}
	if err := writeCellsMat(dir, base); err != nil {
		return "", err
	}
	if err := writeGraphs(dir, base); err != nil {
		return "", err
	}

	xmlPath := filepath.Join(dir, base+".xml")
	body := fmt.Sprintf(outputTemplate, timeMin, base, base, base, base)
	if err := os.WriteFile(xmlPath, []byte(body), 0o644); err != nil {
		return "", err
	}
	return xmlPath, nil
}

const outputTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<MultiCellDS version="2">
  <metadata>
    <software>
      <name>PhysiCell</name>
      <version>1.10.4</version>
    </software>
    <created>2024-01-15T10:00:00Z</created>
    <current_time units="min">%g</current_time>
    <current_runtime units="sec">15.5</current_runtime>
  </metadata>
  <microenvironment>
    <domain>
      <mesh units="micron">
        <x_coordinates delimiter=" ">-15 -5 5 15</x_coordinates>
        <y_coordinates delimiter=" ">-10 0 10</y_coordinates>
        <z_coordinates delimiter=" ">-5 5</z_coordinates>
        <bounding_box delimiter=" ">-20 -15 -10 20 15 10</bounding_box>
        <voxels>
          <filename>initial_mesh0.mat</filename>
        </voxels>
      </mesh>
      <variables>
        <variable name="oxygen" units="mmHg">
          <physical_parameter_set>
            <diffusion_coefficient units="micron^2/min">100000.0</diffusion_coefficient>
            <decay_rate units="1/min">0.1</decay_rate>
          </physical_parameter_set>
        </variable>
        <variable name="glucose" units="mM">
          <physical_parameter_set>
            <diffusion_coefficient units="micron^2/min">30000.0</diffusion_coefficient>
            <decay_rate units="1/min">0.02</decay_rate>
          </physical_parameter_set>
        </variable>
      </variables>
      <data>
        <filename>%s_microenvironment0.mat</filename>
      </data>
    </domain>
  </microenvironment>
  <cellular_information>
    <cell_populations>
      <cell_population>
        <custom>
          <simplified_data source="PhysiCell">
            <labels>
              <label size="1" units="none">ID</label>
              <label size="3" units="micron">position</label>
              <label size="1" units="micron3">total_volume</label>
              <label size="1" units="none">cell_type</label>
              <label size="1" units="none">cycle_model</label>
              <label size="1" units="none">current_phase</label>
              <label size="1" units="none">dead</label>
              <label size="2" units="1/min">secretion_rates</label>
              <label size="3" units="micron/min">velocity</label>
            </labels>
            <filename>%s_cells_physicell.mat</filename>
          </simplified_data>
          <neighbor_graph>
            <filename>%s_cell_neighbor_graph.txt</filename>
          </neighbor_graph>
          <attached_cells_graph>
            <filename>%s_attached_cells_graph.txt</filename>
          </attached_cells_graph>
        </custom>
      </cell_population>
    </cell_populations>
  </cellular_information>
</MultiCellDS>
`

// writeMeshMat writes the voxel matrix: rows x, y, z center plus
// volume, one column per voxel.
func writeMeshMat(dir string) error {
	n := NX * NY * NZ
	rows := make([]float64, 0, 4*n)
	var xs, ys, zs, vols []float64
	for k := 0; k < NZ; k++ {
		for j := 0; j < NY; j++ {
			for i := 0; i < NX; i++ {
				xs = append(xs, XAxis[i])
				ys = append(ys, YAxis[j])
				zs = append(zs, ZAxis[k])
				vols = append(vols, 1000)
			}
		}
	}
	rows = append(rows, xs...)
	rows = append(rows, ys...)
	rows = append(rows, zs...)
	rows = append(rows, vols...)

	m, err := mat4.NewMatrix("mesh", 4, n, rows)
	if err != nil {
		return err
	}
	return mat4.WriteFile(filepath.Join(dir, "initial_mesh0.mat"), m)
}

// writeMicroenvMat writes [x, y, z, volume, oxygen, glucose] rows.
func writeMicroenvMat(dir, base string, timeMin float64) error {
	n := NX * NY * NZ
	var xs, ys, zs, vols, oxy, glu []float64
	for k := 0; k < NZ; k++ {
		for j := 0; j < NY; j++ {
			for i := 0; i < NX; i++ {
				xs = append(xs, XAxis[i])
				ys = append(ys, YAxis[j])
				zs = append(zs, ZAxis[k])
				vols = append(vols, 1000)
				oxy = append(oxy, Oxygen(i, j, k, timeMin))
				glu = append(glu, Glucose)
			}
		}
	}
	rows := make([]float64, 0, 6*n)
	for _, r := range [][]float64{xs, ys, zs, vols, oxy, glu} {
		rows = append(rows, r...)
	}
	m, err := mat4.NewMatrix("microenvironment", 6, n, rows)
	if err != nil {
		return err
	}
	return mat4.WriteFile(filepath.Join(dir, base+"_microenvironment0.mat"), m)
}

// Cell matrix rows, in expanded-label order. Four cells:
//
//	0  default cell at (-15,-10,-5), live, moving at speed 5
//	1  cancer cell at (-5,-10,-5), live
//	2  default cell at (-14,-9,-5), same voxel as cell 0
//	3  dead cancer cell at (25,20,9), outside the mesh
var cellRows = []float64{
	0, 1, 2, 3, // ID
	-15, -5, -14, 25, // position_x
	-10, -10, -9, 20, // position_y
	-5, -5, -5, 9, // position_z
	2494, 2494, 2494, 2494, // total_volume
	0, 1, 0, 1, // cell_type
	5, 6, 5, 100, // cycle_model
	14, 14, 14, 100, // current_phase
	0, 0, 0, 1, // dead
	0.1, 0, 0.25, 0, // secretion_rates oxygen
	0.2, 0, 0, 0, // secretion_rates glucose
	3, 1, 0, 0, // velocity_x
	4, 0, 0, 0, // velocity_y
	0, 0, 2, 0, // velocity_z
}

// NumCells is the number of cells every step carries.
const NumCells = 4

func writeCellsMat(dir, base string) error {
	m, err := mat4.NewMatrix("cells", len(cellRows)/NumCells, NumCells, cellRows)
	if err != nil {
		return err
	}
	return mat4.WriteFile(filepath.Join(dir, base+"_cells_physicell.mat"), m)
}

func writeGraphs(dir, base string) error {
	neighbor := "0: 1,2\n1: 0\n2: 0\n3: \n"
	if err := os.WriteFile(filepath.Join(dir, base+"_cell_neighbor_graph.txt"), []byte(neighbor), 0o644); err != nil {
		return err
	}
	attached := "0: 2\n1: \n2: 0\n3: \n"
	return os.WriteFile(filepath.Join(dir, base+"_attached_cells_graph.txt"), []byte(attached), 0o644)
}
