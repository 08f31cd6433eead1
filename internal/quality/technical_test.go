package quality

import (
	"testing"

	"github.com/z-beam/zbeam/internal/materials"
)

var aluminumProps = map[string]materials.Property{
	"density":       {Value: 2.7, Unit: "g/cm³", Source: "handbook"},
	"melting_point": {Value: 660, Unit: "°C", Source: "handbook"},
}

func TestTechnicalScore_ConsistentClaims(t *testing.T) {
	c := NewTechnicalAccuracyChecker()
	text := "With a density of 2.7 g/cm³ and a melting point near 660 °C, aluminum responds well to pulsed cleaning."
	if got := c.Score(text, aluminumProps); got != 100 {
		t.Errorf("Consistent claims scored %g, want 100", got)
	}
}

func TestTechnicalScore_WrongValueScoresLow(t *testing.T) {
	c := NewTechnicalAccuracyChecker()
	text := "Aluminum has a density of 8.9 g/cm³."
	if got := c.Score(text, aluminumProps); got != 0 {
		t.Errorf("Contradicted claim scored %g, want 0", got)
	}
}

func TestTechnicalScore_MixedClaims(t *testing.T) {
	c := NewTechnicalAccuracyChecker()
	text := "Density is 2.7 g/cm³ but it supposedly melts at 1500 °C."
	if got := c.Score(text, aluminumProps); got != 50 {
		t.Errorf("Half-right claims scored %g, want 50", got)
	}
}

func TestTechnicalScore_NoClaimsNeutral(t *testing.T) {
	c := NewTechnicalAccuracyChecker()

	// No numbers at all.
	if got := c.Score("Aluminum cleans beautifully under the right fluence.", aluminumProps); got != neutralScore {
		t.Errorf("Claim-free text scored %g, want neutral", got)
	}

	// Numbers with units no property records.
	if got := c.Score("A 1064 nm source at 20 W works well.", aluminumProps); got != neutralScore {
		t.Errorf("Unknown-unit claims scored %g, want neutral", got)
	}

	// No recorded units to check against.
	if got := c.Score("Density is 2.7 g/cm³.", nil); got != neutralScore {
		t.Errorf("Propertyless material scored %g, want neutral", got)
	}
}

func TestTechnicalScore_ToleranceAndUnitCase(t *testing.T) {
	c := NewTechnicalAccuracyChecker()

	// Within 5% of 2.7.
	if got := c.Score("Density is roughly 2.75 G/CM³.", aluminumProps); got != 100 {
		t.Errorf("Near-value claim scored %g, want 100", got)
	}
	// Outside 5%.
	if got := c.Score("Density is roughly 3.0 g/cm³.", aluminumProps); got != 0 {
		t.Errorf("Out-of-tolerance claim scored %g, want 0", got)
	}
}
