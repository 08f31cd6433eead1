package quality

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/z-beam/zbeam/internal/materials"
)

// TechnicalAccuracyChecker verifies numeric claims in generated text against
// a material's recorded property values. A number carrying a known property
// unit must sit near the recorded value; text making no checkable claims
// receives the neutral score.
type TechnicalAccuracyChecker struct {
	// Tolerance is the allowed relative deviation from the recorded value.
	Tolerance float64
}

// NewTechnicalAccuracyChecker returns a checker with default settings.
func NewTechnicalAccuracyChecker() *TechnicalAccuracyChecker {
	return &TechnicalAccuracyChecker{Tolerance: 0.05}
}

// claimPattern matches a number optionally followed by a unit token.
var claimPattern = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*([%°µa-zA-Z][^\s,.;)]*)?`)

// Score returns the fraction of checkable claims consistent with the
// recorded properties, stretched onto 0..100.
func (c *TechnicalAccuracyChecker) Score(text string, props map[string]materials.Property) float64 {
	// unit -> recorded values; units may repeat across properties.
	recorded := make(map[string][]float64)
	for _, p := range props {
		if p.Unit != "" {
			u := normalizeUnit(p.Unit)
			recorded[u] = append(recorded[u], p.Value)
		}
	}
	if len(recorded) == 0 {
		return neutralScore
	}

	checked, consistent := 0, 0
	for _, m := range claimPattern.FindAllStringSubmatch(text, -1) {
		values, ok := recorded[normalizeUnit(m[2])]
		if !ok {
			continue
		}
		claimed, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}

		checked++
		for _, want := range values {
			if withinTolerance(claimed, want, c.Tolerance) {
				consistent++
				break
			}
		}
	}
	if checked == 0 {
		return neutralScore
	}
	return float64(consistent) / float64(checked) * 100
}

func withinTolerance(claimed, want, tolerance float64) bool {
	if want == 0 {
		return math.Abs(claimed) <= tolerance
	}
	return math.Abs(claimed-want) <= tolerance*math.Abs(want)
}

func normalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(unit), ".,;:)"))
}
