package content

import (
	"fmt"
	"strings"

	"github.com/z-beam/zbeam/internal/materials"
	"github.com/z-beam/zbeam/internal/persona"
)

// systemPrompt builds the persona-voiced system instruction shared by all
// content sections.
func systemPrompt(author persona.Author) string {
	var b strings.Builder
	b.WriteString("You are ")
	b.WriteString(author.Name)
	b.WriteString(", ")
	b.WriteString(author.Title)
	b.WriteString(", a laser-cleaning specialist writing for the Z-Beam website. ")
	b.WriteString(author.Voice)
	b.WriteString(" Never mention that you are an AI. Output ONLY valid JSON when JSON is requested.")
	return b.String()
}

// materialContext renders the shared material facts block for prompts.
func materialContext(m materials.Material) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Material: %s (category: %s)\n", m.Name, m.Category)
	if m.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", m.Description)
	}
	if len(m.Properties) > 0 {
		b.WriteString("Known properties:\n")
		for _, name := range materials.PropertySchema {
			p, ok := m.Properties[name]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "  - %s: %g %s\n", name, p.Value, p.Unit)
		}
	}
	return b.String()
}

func captionPrompt(m materials.Material) string {
	var b strings.Builder
	b.WriteString(materialContext(m))
	b.WriteString("\nWrite a before/after microscopy caption pair for a laser-cleaning result photo of this material.\n")
	b.WriteString("The 'before' text describes the contaminated surface at 500x magnification; ")
	b.WriteString("the 'after' text describes the cleaned surface. Each 1-2 sentences.\n")
	b.WriteString("Respond with a JSON object: {\"before\": \"...\", \"after\": \"...\"}")
	return b.String()
}

func faqPrompt(m materials.Material, n int) string {
	var b strings.Builder
	b.WriteString(materialContext(m))
	fmt.Fprintf(&b, "\nWrite %d frequently asked questions about laser cleaning this material, ", n)
	b.WriteString("covering safety, surface damage risk, and typical contaminants. Answers 2-3 sentences each.\n")
	b.WriteString("Respond with a JSON object: {\"faqs\": [{\"question\": \"...\", \"answer\": \"...\"}]}")
	return b.String()
}

func subtitlePrompt(m materials.Material, maxLen int) string {
	var b strings.Builder
	b.WriteString(materialContext(m))
	fmt.Fprintf(&b, "\nWrite a single-line page subtitle for this material's laser-cleaning page, at most %d characters.\n", maxLen)
	b.WriteString("Respond with a JSON object: {\"subtitle\": \"...\"}")
	return b.String()
}
