package quality

import (
	"math"
	"strings"
)

// StructuralVariationChecker scores how much generated prose varies in
// sentence length and sentence openers. Uniform machine-like texture scores
// low; natural variation scores high. Scores are 0..100 to match the other
// composite signals.
type StructuralVariationChecker struct {
	// MinSentences below which the text is too short to judge and receives
	// a neutral score.
	MinSentences int
}

// NewStructuralVariationChecker returns a checker with default settings.
func NewStructuralVariationChecker() *StructuralVariationChecker {
	return &StructuralVariationChecker{MinSentences: 3}
}

// neutralScore is returned for texts too short to judge.
const neutralScore = 60.0

// Score computes the structural variation score for a text.
func (c *StructuralVariationChecker) Score(text string) float64 {
	sentences := splitSentences(text)
	if len(sentences) < c.MinSentences {
		return neutralScore
	}

	lengthScore := lengthVariationScore(sentences)
	openerScore := openerVariationScore(sentences)

	// Length variation dominates; opener repetition is a strong tell.
	return 0.6*lengthScore + 0.4*openerScore
}

// splitSentences performs a cheap sentence split on terminal punctuation.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(current.String())
			if len(s) > 1 {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); len(s) > 1 {
		sentences = append(sentences, s)
	}
	return sentences
}

// lengthVariationScore maps the coefficient of variation of sentence word
// counts onto 0..100. A CV of 0 (all sentences identical length) scores 0;
// a CV of 0.5 or more scores 100.
func lengthVariationScore(sentences []string) float64 {
	lengths := make([]float64, len(sentences))
	for i, s := range sentences {
		lengths[i] = float64(len(strings.Fields(s)))
	}

	mean := 0.0
	for _, l := range lengths {
		mean += l
	}
	mean /= float64(len(lengths))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))

	cv := math.Sqrt(variance) / mean
	score := cv / 0.5 * 100
	if score > 100 {
		score = 100
	}
	return score
}

// openerVariationScore penalizes repeated sentence-opening words. The score
// is the fraction of distinct openers, stretched onto 0..100.
func openerVariationScore(sentences []string) float64 {
	openers := make(map[string]int)
	for _, s := range sentences {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			continue
		}
		opener := strings.ToLower(strings.Trim(fields[0], ",.;:"))
		openers[opener]++
	}
	if len(sentences) == 0 {
		return 0
	}

	distinct := float64(len(openers)) / float64(len(sentences))
	// distinct==1 means every sentence opens differently.
	return distinct * 100
}
