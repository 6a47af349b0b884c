/*
Package catalog provides the fixed product and bank catalogs.

PURPOSE:
  Origins, processes, roasters, and the simulated bank list are static
  reference data. They ship embedded as YAML so operators can audit or
  fork the catalog without touching code.

ORDERING:
  Catalog lists are kept in fixed alphabetical order in the YAML and
  served as-is; no sorting happens at runtime.
*/
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Bank is a simulated bank the demo Open-Banking flow can "connect".
type Bank struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Catalog holds all static reference data.
type Catalog struct {
	Origins   []string `yaml:"origins" json:"origins"`
	Processes []string `yaml:"processes" json:"processes"`
	Roasters  []string `yaml:"roasters" json:"roasters"`
	Banks     []Bank   `yaml:"banks" json:"banks"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	if len(c.Origins) == 0 || len(c.Roasters) == 0 {
		return nil, fmt.Errorf("embedded catalog is incomplete")
	}
	return &c, nil
}

// MustLoad is Load for initialization paths where the embedded catalog
// being broken is a programming error.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// FindBank returns the bank with the given id, or nil.
func (c *Catalog) FindBank(id string) *Bank {
	for i := range c.Banks {
		if c.Banks[i].ID == id {
			return &c.Banks[i]
		}
	}
	return nil
}

// HasRoaster reports whether the roaster is in the catalog.
func (c *Catalog) HasRoaster(name string) bool {
	for _, r := range c.Roasters {
		if r == name {
			return true
		}
	}
	return false
}
