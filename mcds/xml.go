package mcds

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MultiCellDS output XML layout, trimmed to the nodes the loader uses.

type xmlOutput struct {
	XMLName  xml.Name `xml:"MultiCellDS"`
	Version  string   `xml:"version,attr"`
	Metadata struct {
		Software struct {
			Name    string `xml:"name"`
			Version string `xml:"version"`
		} `xml:"software"`
		Created        string       `xml:"created"`
		CurrentTime    xmlUnitValue `xml:"current_time"`
		CurrentRuntime xmlUnitValue `xml:"current_runtime"`
	} `xml:"metadata"`
	Microenvironment struct {
		Domain struct {
			Mesh      xmlMesh `xml:"mesh"`
			Variables struct {
				Variable []xmlVariable `xml:"variable"`
			} `xml:"variables"`
			Data struct {
				Filename string `xml:"filename"`
			} `xml:"data"`
		} `xml:"domain"`
	} `xml:"microenvironment"`
	CellularInformation struct {
		CellPopulations struct {
			CellPopulation struct {
				Custom xmlCellCustom `xml:"custom"`
			} `xml:"cell_population"`
		} `xml:"cell_populations"`
	} `xml:"cellular_information"`
}

type xmlUnitValue struct {
	Units string `xml:"units,attr"`
	Text  string `xml:",chardata"`
}

// float parses the element text as a number.
func (v xmlUnitValue) float() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrBadFormat, v.Text)
	}
	return f, nil
}

type xmlMesh struct {
	Units        string        `xml:"units,attr"`
	XCoordinates xmlCoordinate `xml:"x_coordinates"`
	YCoordinates xmlCoordinate `xml:"y_coordinates"`
	ZCoordinates xmlCoordinate `xml:"z_coordinates"`
	BoundingBox  xmlCoordinate `xml:"bounding_box"`
	Voxels       struct {
		Filename string `xml:"filename"`
	} `xml:"voxels"`
}

type xmlCoordinate struct {
	Delimiter string `xml:"delimiter,attr"`
	Text      string `xml:",chardata"`
}

// floats splits the element text on its declared delimiter.
func (c xmlCoordinate) floats() ([]float64, error) {
	delim := c.Delimiter
	if delim == "" {
		delim = " "
	}
	parts := strings.Split(strings.TrimSpace(c.Text), delim)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: coordinate %q", ErrBadFormat, p)
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty coordinate list", ErrBadFormat)
	}
	return out, nil
}

type xmlVariable struct {
	Name                 string `xml:"name,attr"`
	Units                string `xml:"units,attr"`
	PhysicalParameterSet struct {
		DiffusionCoefficient xmlUnitValue `xml:"diffusion_coefficient"`
		DecayRate            xmlUnitValue `xml:"decay_rate"`
	} `xml:"physical_parameter_set"`
}

type xmlCellCustom struct {
	SimplifiedData []xmlSimplifiedData `xml:"simplified_data"`
	NeighborGraph  struct {
		Filename string `xml:"filename"`
	} `xml:"neighbor_graph"`
	AttachedGraph struct {
		Filename string `xml:"filename"`
	} `xml:"attached_cells_graph"`
}

type xmlSimplifiedData struct {
	Source string `xml:"source,attr"`
	Labels struct {
		Label []xmlLabel `xml:"label"`
	} `xml:"labels"`
	Filename string `xml:"filename"`
}

type xmlLabel struct {
	Size  int    `xml:"size,attr"`
	Units string `xml:"units,attr"`
	Text  string `xml:",chardata"`
}

// PhysiCell_settings.xml layout, trimmed to the ID→name mappings and
// the custom_data probe.

type xmlSettings struct {
	MicroenvironmentSetup struct {
		Variable []struct {
			ID   int    `xml:"ID,attr"`
			Name string `xml:"name,attr"`
		} `xml:"variable"`
	} `xml:"microenvironment_setup"`
	CellDefinitions struct {
		CellDefinition []struct {
			ID         int    `xml:"ID,attr"`
			Name       string `xml:"name,attr"`
			CustomData struct {
				Entries []xmlAnyElement `xml:",any"`
			} `xml:"custom_data"`
		} `xml:"cell_definition"`
	} `xml:"cell_definitions"`
}

type xmlAnyElement struct {
	XMLName xml.Name
}

// decodeXMLFile unmarshals an XML file into dst.
func decodeXMLFile(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("mcds: %w", err)
	}
	if err = xml.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadFormat, path, err)
	}
	return nil
}

// sanitizeName replaces spaces with underscores, the normalization
// applied to substrate, cell type and variable names throughout.
func sanitizeName(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}
