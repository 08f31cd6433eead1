// Package content generates the per-material web content sections (captions,
// FAQs, subtitles) by assembling persona-voiced prompts and calling the
// configured LLM with JSON repair and retry.
package content

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/z-beam/zbeam/internal/llm"
	"github.com/z-beam/zbeam/internal/logging"
	"github.com/z-beam/zbeam/internal/materials"
	"github.com/z-beam/zbeam/internal/persona"
)

// SubtitleMaxLen is the hard cap on generated subtitles.
const SubtitleMaxLen = 80

// Caption is a before/after microscopy caption pair.
type Caption struct {
	Before string `json:"before" yaml:"before"`
	After  string `json:"after" yaml:"after"`
}

// FAQ is a single question/answer pair.
type FAQ struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Generator produces content sections for materials.
type Generator struct {
	client      llm.Client
	maxAttempts int
}

// NewGenerator creates a content generator.
func NewGenerator(client llm.Client, maxAttempts int) *Generator {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return &Generator{client: client, maxAttempts: maxAttempts}
}

// Caption generates a before/after caption pair for a material.
func (g *Generator) Caption(ctx context.Context, m materials.Material, author persona.Author) (*Caption, error) {
	timer := logging.StartTimer(logging.CategoryPipeline, "Caption")
	defer timer.StopWithInfo()

	var c Caption
	err := llm.GenerateJSON(ctx, g.client, systemPrompt(author), captionPrompt(m), &c, g.maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("caption generation for %s failed: %w", m.Name, err)
	}
	if strings.TrimSpace(c.Before) == "" || strings.TrimSpace(c.After) == "" {
		return nil, fmt.Errorf("caption generation for %s returned empty fields", m.Name)
	}
	return &c, nil
}

// FAQs generates n question/answer pairs for a material.
func (g *Generator) FAQs(ctx context.Context, m materials.Material, author persona.Author, n int) ([]FAQ, error) {
	timer := logging.StartTimer(logging.CategoryPipeline, "FAQs")
	defer timer.StopWithInfo()

	if n < 1 {
		n = 3
	}

	var out struct {
		FAQs []FAQ `json:"faqs"`
	}
	err := llm.GenerateJSON(ctx, g.client, systemPrompt(author), faqPrompt(m, n), &out, g.maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("FAQ generation for %s failed: %w", m.Name, err)
	}
	if len(out.FAQs) == 0 {
		return nil, fmt.Errorf("FAQ generation for %s returned no entries", m.Name)
	}
	for i, f := range out.FAQs {
		if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
			return nil, fmt.Errorf("FAQ generation for %s returned empty entry %d", m.Name, i)
		}
	}
	return out.FAQs, nil
}

// Subtitle generates a single-line subtitle, enforcing SubtitleMaxLen.
func (g *Generator) Subtitle(ctx context.Context, m materials.Material, author persona.Author) (string, error) {
	timer := logging.StartTimer(logging.CategoryPipeline, "Subtitle")
	defer timer.StopWithInfo()

	var out struct {
		Subtitle string `json:"subtitle"`
	}
	err := llm.GenerateJSON(ctx, g.client, systemPrompt(author), subtitlePrompt(m, SubtitleMaxLen), &out, g.maxAttempts)
	if err != nil {
		return "", fmt.Errorf("subtitle generation for %s failed: %w", m.Name, err)
	}

	subtitle := strings.TrimSpace(out.Subtitle)
	if subtitle == "" {
		return "", fmt.Errorf("subtitle generation for %s returned empty text", m.Name)
	}
	if strings.ContainsRune(subtitle, '\n') {
		return "", fmt.Errorf("subtitle generation for %s returned multiple lines", m.Name)
	}
	if len(subtitle) > SubtitleMaxLen {
		logging.PipelineDebug("Subtitle for %s over limit (%d chars), truncating", m.Name, len(subtitle))
		subtitle = truncateAtWord(subtitle, SubtitleMaxLen)
	}
	return subtitle, nil
}

// truncateAtWord cuts s to at most max bytes, preferring a word boundary.
// The cut never lands inside a multibyte rune.
func truncateAtWord(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	cut := s[:max]
	if idx := strings.LastIndexByte(cut, ' '); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:-")
}
