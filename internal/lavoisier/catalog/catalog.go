package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed examples.yaml
var defaultData []byte

// ErrInvalidCatalog is returned for catalogs that fail validation
var ErrInvalidCatalog = errors.New("invalid catalog")

// Example is one sample equation with its expected outcome
type Example struct {
	Name         string   `yaml:"name" json:"name"`
	Equation     string   `yaml:"equation" json:"equation"`
	Coefficients []int    `yaml:"coefficients,omitempty" json:"coefficients,omitempty"`
	Error        string   `yaml:"error,omitempty" json:"error,omitempty"`
	Tags         []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Balanceable reports whether the example expects coefficients
func (e Example) Balanceable() bool {
	return e.Error == ""
}

// Catalog is an ordered list of examples
type Catalog struct {
	Examples []Example `yaml:"examples" json:"examples"`

	byName map[string]int
}

// Default returns the embedded catalog
func Default() (*Catalog, error) {
	return Parse(defaultData)
}

// Load reads a catalog file. An empty path yields the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c.byName = make(map[string]int, len(c.Examples))
	for i, ex := range c.Examples {
		switch {
		case ex.Name == "":
			return nil, fmt.Errorf("%w: example %d has no name", ErrInvalidCatalog, i+1)
		case ex.Equation == "":
			return nil, fmt.Errorf("%w: example %q has no equation", ErrInvalidCatalog, ex.Name)
		case ex.Error != "" && len(ex.Coefficients) > 0:
			return nil, fmt.Errorf("%w: example %q has both coefficients and an error", ErrInvalidCatalog, ex.Name)
		}
		if _, dup := c.byName[ex.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate example %q", ErrInvalidCatalog, ex.Name)
		}
		c.byName[ex.Name] = i
	}
	return &c, nil
}

// Lookup returns the example with the given name
func (c *Catalog) Lookup(name string) (Example, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Example{}, false
	}
	return c.Examples[i], true
}

// Names returns the example names in sorted order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Examples))
	for _, ex := range c.Examples {
		names = append(names, ex.Name)
	}
	sort.Strings(names)
	return names
}

// WithTag returns the examples carrying tag, in catalog order
func (c *Catalog) WithTag(tag string) []Example {
	var out []Example
	for _, ex := range c.Examples {
		for _, t := range ex.Tags {
			if t == tag {
				out = append(out, ex)
				break
			}
		}
	}
	return out
}

// Len returns the number of examples
func (c *Catalog) Len() int {
	return len(c.Examples)
}
