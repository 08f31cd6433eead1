package materials

import (
	"fmt"

	"github.com/z-beam/zbeam/internal/logging"
)

// PropertyUpdate is a researched value proposed for merge into a material.
type PropertyUpdate struct {
	Material string
	Property string
	Value    float64
	Unit     string
	Source   string
}

// Apply merges a researched property update into the materials file. The
// property must be part of the schema and the value must fall inside the
// category's validation range. The update replaces any existing triple.
func (f *File) Apply(update PropertyUpdate, cats *Categories) error {
	m, ok := f.Materials[update.Material]
	if !ok {
		return fmt.Errorf("unknown material: %s", update.Material)
	}

	if !schemaHas(update.Property) {
		return fmt.Errorf("property %s is not in the schema", update.Property)
	}

	r, err := cats.Range(m.Category, update.Property)
	if err != nil {
		return fmt.Errorf("cannot validate %s.%s: %w", update.Material, update.Property, err)
	}
	if !r.Contains(update.Value) {
		return fmt.Errorf("%s.%s value %g out of range [%g, %g]",
			update.Material, update.Property, update.Value, r.Min, r.Max)
	}
	if update.Unit != r.Unit {
		return fmt.Errorf("%s.%s unit %q does not match expected %q",
			update.Material, update.Property, update.Unit, r.Unit)
	}

	if m.Properties == nil {
		m.Properties = make(map[string]Property)
	}
	m.Properties[update.Property] = Property{
		Value:  update.Value,
		Unit:   update.Unit,
		Source: update.Source,
	}
	f.Materials[update.Material] = m

	logging.Materials("Applied %s.%s = %g %s (source: %s)",
		update.Material, update.Property, update.Value, update.Unit, update.Source)
	return nil
}

func schemaHas(property string) bool {
	for _, p := range PropertySchema {
		if p == property {
			return true
		}
	}
	return false
}
