// Package request maps free-text requests onto pipeline actions by keyword
// matching. It is deliberately dumb: no grammar, no model call, just word
// lookups against known action and material vocabularies.
package request

import (
	"fmt"
	"strings"
)

// Action identifies what the pipeline should do.
type Action string

const (
	ActionCaption       Action = "caption"
	ActionFAQ           Action = "faq"
	ActionSubtitle      Action = "subtitle"
	ActionFrontmatter   Action = "frontmatter"
	ActionImages        Action = "images"
	ActionGaps          Action = "gaps"
	ActionResearch      Action = "research"
	ActionContamination Action = "contamination"
	ActionThresholds    Action = "thresholds"
)

// actionKeywords maps trigger words to actions. A request must resolve to
// exactly one action.
var actionKeywords = map[string]Action{
	"caption":       ActionCaption,
	"captions":      ActionCaption,
	"faq":           ActionFAQ,
	"faqs":          ActionFAQ,
	"question":      ActionFAQ,
	"questions":     ActionFAQ,
	"subtitle":      ActionSubtitle,
	"subtitles":     ActionSubtitle,
	"frontmatter":   ActionFrontmatter,
	"export":        ActionFrontmatter,
	"image":         ActionImages,
	"images":        ActionImages,
	"photo":         ActionImages,
	"hero":          ActionImages,
	"gap":           ActionGaps,
	"gaps":          ActionGaps,
	"research":      ActionResearch,
	"enhance":       ActionResearch,
	"contamination": ActionContamination,
	"contaminant":   ActionContamination,
	"contaminants":  ActionContamination,
	"threshold":     ActionThresholds,
	"thresholds":    ActionThresholds,
}

// Parsed is the structured form of a free-text request.
type Parsed struct {
	Action    Action
	Materials []string
	All       bool
}

// Parse matches a free-text request against the known material slugs.
// "all" or "every" selects the whole catalog.
func Parse(text string, knownMaterials []string) (Parsed, error) {
	words := tokenize(text)
	if len(words) == 0 {
		return Parsed{}, fmt.Errorf("empty request")
	}

	matched := make(map[Action]bool)
	for _, w := range words {
		if a, ok := actionKeywords[w]; ok {
			matched[a] = true
		}
	}
	// "research gaps" and "research contamination" are one request, not two.
	if matched[ActionResearch] && matched[ActionGaps] {
		delete(matched, ActionResearch)
	}
	if matched[ActionResearch] && matched[ActionContamination] {
		delete(matched, ActionResearch)
	}
	if len(matched) == 0 {
		return Parsed{}, fmt.Errorf("could not understand request %q", text)
	}
	if len(matched) > 1 {
		return Parsed{}, fmt.Errorf("request %q asks for more than one action", text)
	}

	var p Parsed
	for a := range matched {
		p.Action = a
	}

	known := make(map[string]bool, len(knownMaterials))
	for _, m := range knownMaterials {
		known[strings.ToLower(m)] = true
	}

	seen := make(map[string]bool)
	for _, w := range words {
		if w == "all" || w == "every" || w == "everything" {
			p.All = true
			continue
		}
		if known[w] && !seen[w] {
			p.Materials = append(p.Materials, w)
			seen[w] = true
		}
	}

	if !p.All && len(p.Materials) == 0 && actionNeedsMaterial(p.Action) {
		return Parsed{}, fmt.Errorf("request %q names no known material", text)
	}
	return p, nil
}

func actionNeedsMaterial(a Action) bool {
	switch a {
	case ActionGaps, ActionThresholds, ActionFrontmatter:
		return false
	}
	return true
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,!?;:\"'()")
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
