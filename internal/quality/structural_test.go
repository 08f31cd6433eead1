package quality

import "testing"

func TestStructuralScore_ShortTextNeutral(t *testing.T) {
	c := NewStructuralVariationChecker()
	if got := c.Score("One sentence only."); got != neutralScore {
		t.Errorf("Expected neutral score for short text, got %g", got)
	}
}

func TestStructuralScore_UniformTextScoresLow(t *testing.T) {
	c := NewStructuralVariationChecker()
	uniform := "The laser cleans metal. The laser cleans stone. The laser cleans glass. The laser cleans wood."
	varied := "Laser cleaning works. Unlike abrasive blasting, it removes contaminants without touching the substrate beneath, which matters for delicate restoration work. Operators like it. Maintenance costs drop because there is no media to replace, no slurry to dispose of, and no masking to apply."

	low := c.Score(uniform)
	high := c.Score(varied)
	if low >= high {
		t.Errorf("Uniform text (%g) should score below varied text (%g)", low, high)
	}
}

func TestStructuralScore_Range(t *testing.T) {
	c := NewStructuralVariationChecker()
	texts := []string{
		"A. B. C. D.",
		"Short one. Then a much longer sentence with many more words in it. Tiny. Another medium length sentence here.",
		"",
	}
	for _, text := range texts {
		got := c.Score(text)
		if got < 0 || got > 100 {
			t.Errorf("Score out of range for %q: %g", text, got)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First. Second! Third? Trailing fragment")
	if len(got) != 4 {
		t.Fatalf("Expected 4 sentences, got %d: %v", len(got), got)
	}
	if got[3] != "Trailing fragment" {
		t.Errorf("Trailing fragment lost: %v", got)
	}
}

func TestOpenerVariationScore(t *testing.T) {
	same := []string{"The laser cleans.", "The beam moves.", "The result shines."}
	diff := []string{"Lasers clean.", "Beams move.", "Results shine."}
	if openerVariationScore(same) >= openerVariationScore(diff) {
		t.Error("Repeated openers should score below distinct openers")
	}
}
