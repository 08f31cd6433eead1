package quality

import "testing"

func TestReadabilityScore_ShortTextNeutral(t *testing.T) {
	c := NewReadabilityChecker()
	if got := c.Score("Laser cleaning."); got != neutralScore {
		t.Errorf("Short text scored %g, want neutral %g", got, neutralScore)
	}
}

func TestReadabilityScore_SimpleBeatsDense(t *testing.T) {
	c := NewReadabilityChecker()

	simple := "The laser cleans the part. The dirt comes off fast. The metal stays cool. The job is done in one pass."
	dense := "Photothermal ablation characteristics demonstrate significant dependence upon irradiation parameters, necessitating comprehensive characterization of substrate-specific interaction phenomena throughout representative operational envelopes."

	simpleScore := c.Score(simple)
	denseScore := c.Score(dense)
	if simpleScore <= denseScore {
		t.Errorf("Simple prose scored %g, dense prose %g; expected simple to read easier", simpleScore, denseScore)
	}
}

func TestReadabilityScore_Range(t *testing.T) {
	c := NewReadabilityChecker()
	texts := []string{
		"The laser cleans the part. The dirt comes off fast. The metal stays cool. The job is done quickly.",
		"Photothermal ablation characteristics demonstrate significant dependence upon irradiation parameters, necessitating comprehensive characterization of substrate-specific interaction phenomena throughout representative operational envelopes under consideration.",
	}
	for _, text := range texts {
		got := c.Score(text)
		if got < 0 || got > 100 {
			t.Errorf("Score %g out of range for %q", got, text)
		}
	}
}

func TestCountSyllables(t *testing.T) {
	cases := map[string]int{
		"laser":    2,
		"cleaning": 2,
		"a":        1,
		"surface":  2,
		"oxide":    2,
	}
	for word, want := range cases {
		if got := countSyllables(word); got != want {
			t.Errorf("countSyllables(%q) = %d, want %d", word, got, want)
		}
	}
}
