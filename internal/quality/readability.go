package quality

import "strings"

// ReadabilityChecker scores prose on the Flesch reading-ease scale, clamped
// to 0..100 so it composes with the other signals. Texts too short to judge
// receive the neutral score.
type ReadabilityChecker struct {
	// MinWords below which the text receives the neutral score.
	MinWords int
}

// NewReadabilityChecker returns a checker with default settings.
func NewReadabilityChecker() *ReadabilityChecker {
	return &ReadabilityChecker{MinWords: 10}
}

// Score computes the clamped Flesch reading ease for a text.
func (c *ReadabilityChecker) Score(text string) float64 {
	sentences := splitSentences(text)
	words := strings.Fields(text)
	if len(sentences) == 0 || len(words) < c.MinWords {
		return neutralScore
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(len(sentences))
	syllablesPerWord := float64(syllables) / float64(len(words))

	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// countSyllables counts vowel groups, with a silent-e discount and a floor
// of one per word.
func countSyllables(word string) int {
	word = strings.ToLower(strings.Trim(word, ".,!?;:\"'()"))

	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if count > 1 && strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}
