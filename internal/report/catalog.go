package report

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Division is one group of services in the catalogue.
type Division struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Services    []string `yaml:"services"`
}

// Catalog is the static service catalogue printed on the second page.
type Catalog struct {
	Divisions []Division `yaml:"divisions"`
}

// DivisionCount is the fixed number of divisions a catalogue must have.
const DivisionCount = 4

// ParseCatalog decodes and validates a catalogue.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, eris.Wrap(err, "report: parse catalog")
	}
	if len(c.Divisions) != DivisionCount {
		return Catalog{}, eris.Errorf("report: catalog must have %d divisions, got %d", DivisionCount, len(c.Divisions))
	}
	for i, d := range c.Divisions {
		if d.Name == "" {
			return Catalog{}, eris.Errorf("report: catalog division %d has no name", i)
		}
	}
	return c, nil
}

// LoadCatalog reads a catalogue from path. An empty path returns the
// embedded default.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, eris.Wrapf(err, "report: read catalog %s", path)
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the embedded catalogue.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}
