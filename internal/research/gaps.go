// Package research proposes and validates physical-property values for
// materials. Gap analysis finds what is missing or wrong; researchers fill
// the gaps, either through an LLM or a simulated offline lookup.
package research

import (
	"fmt"
	"sort"

	"github.com/z-beam/zbeam/internal/materials"
)

// Gap kinds.
const (
	GapMissing    = "missing"
	GapInvalid    = "invalid"
	GapOutOfRange = "out_of_range"
)

// Gap describes one problem found in a material's property data.
type Gap struct {
	Material string
	Property string
	Kind     string
	Detail   string
}

func (g Gap) String() string {
	return fmt.Sprintf("%s.%s: %s (%s)", g.Material, g.Property, g.Kind, g.Detail)
}

// Analyze compares every material against the property schema and its
// category's validation ranges. Results are sorted by material then property.
func Analyze(file *materials.File, cats *materials.Categories) []Gap {
	var gaps []Gap

	for _, slug := range file.Slugs() {
		m := file.Materials[slug]
		for _, prop := range materials.PropertySchema {
			p, ok := m.Properties[prop]
			if !ok {
				gaps = append(gaps, Gap{
					Material: slug,
					Property: prop,
					Kind:     GapMissing,
					Detail:   "no value recorded",
				})
				continue
			}

			r, err := cats.Range(m.Category, prop)
			if err != nil {
				gaps = append(gaps, Gap{
					Material: slug,
					Property: prop,
					Kind:     GapInvalid,
					Detail:   err.Error(),
				})
				continue
			}

			if p.Unit != r.Unit {
				gaps = append(gaps, Gap{
					Material: slug,
					Property: prop,
					Kind:     GapInvalid,
					Detail:   fmt.Sprintf("unit %q, expected %q", p.Unit, r.Unit),
				})
				continue
			}
			if !r.Contains(p.Value) {
				gaps = append(gaps, Gap{
					Material: slug,
					Property: prop,
					Kind:     GapOutOfRange,
					Detail:   fmt.Sprintf("value %g outside [%g, %g]", p.Value, r.Min, r.Max),
				})
			}
		}
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Material != gaps[j].Material {
			return gaps[i].Material < gaps[j].Material
		}
		return gaps[i].Property < gaps[j].Property
	})
	return gaps
}
