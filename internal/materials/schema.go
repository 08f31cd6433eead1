package materials

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// PropertySchema lists the physical properties every material is expected to
// carry. Gap analysis and range completeness checks run against this list.
var PropertySchema = []string{
	"density",
	"meltingPoint",
	"thermalConductivity",
	"hardness",
	"laserAbsorption",
	"reflectivity",
	"ablationThreshold",
	"oxidationResistance",
}

// ValidationRange is an inclusive [Min, Max] bound for a property within a
// category, in the given unit.
type ValidationRange struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Unit string  `yaml:"unit"`
}

// Contains reports whether v falls inside the range.
func (r ValidationRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Category describes a material category and its per-property ranges.
type Category struct {
	Description string                     `yaml:"description,omitempty"`
	Ranges      map[string]ValidationRange `yaml:"ranges"`
}

// Categories is the full Categories.yaml document.
type Categories struct {
	Categories map[string]Category `yaml:"categories"`
}

// LoadCategories reads and parses Categories.yaml.
func LoadCategories(path string) (*Categories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}

	var c Categories
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse categories file: %w", err)
	}
	if c.Categories == nil {
		return nil, fmt.Errorf("categories file has no 'categories' key: %s", path)
	}
	return &c, nil
}

// Range returns the validation range for a property within a category.
func (c *Categories) Range(category, property string) (ValidationRange, error) {
	cat, ok := c.Categories[category]
	if !ok {
		return ValidationRange{}, fmt.Errorf("unknown category: %s", category)
	}
	r, ok := cat.Ranges[property]
	if !ok {
		return ValidationRange{}, fmt.Errorf("category %s has no range for property %s", category, property)
	}
	return r, nil
}

// CheckRangeCompleteness verifies every category carries a validation range
// for every property in the schema. Returns one error line per missing range.
func (c *Categories) CheckRangeCompleteness() []string {
	var missing []string
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cat := c.Categories[name]
		for _, prop := range PropertySchema {
			if _, ok := cat.Ranges[prop]; !ok {
				missing = append(missing, fmt.Sprintf("%s: missing range for %s", name, prop))
			}
		}
	}
	return missing
}
