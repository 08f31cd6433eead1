package images

import (
	"fmt"
	"regexp"
	"strings"
)

// contradiction is a pair of patterns that must not both appear in a prompt.
type contradiction struct {
	a, b *regexp.Regexp
	desc string
}

var contradictions = []contradiction{
	{
		a:    regexp.MustCompile(`(?i)\bblack[- ]and[- ]white\b|\bmonochrome\b`),
		b:    regexp.MustCompile(`(?i)\bvibrant colou?rs?\b|\bcolou?rful\b`),
		desc: "monochrome vs colorful",
	},
	{
		a:    regexp.MustCompile(`(?i)\bclose[- ]?up\b|\bmacro\b`),
		b:    regexp.MustCompile(`(?i)\bwide[- ]angle\b|\baerial view\b|\bpanoram`),
		desc: "close-up vs wide shot",
	},
	{
		a:    regexp.MustCompile(`(?i)\bmodern\b|\bfuturistic\b`),
		b:    regexp.MustCompile(`(?i)\bvintage\b|\bhistorical\b|\bantique\b`),
		desc: "modern vs historical",
	},
	{
		a:    regexp.MustCompile(`(?i)\bpristine\b|\bspotless\b|\bclean surface\b`),
		b:    regexp.MustCompile(`(?i)\bheavily corroded\b|\bthick rust\b|\bcontaminated surface\b`),
		desc: "pristine vs contaminated",
	},
}

// bannedTerms are never allowed in outbound image prompts.
var bannedTerms = []string{
	"logo",
	"trademark",
	"brand name",
	"watermark",
	"celebrity",
	"text overlay",
}

// PromptValidator lints image prompts before they are sent to the API.
type PromptValidator struct {
	// MaxLen is the maximum prompt length in bytes.
	MaxLen int
	// RequiredSubject must appear somewhere in the prompt, case-insensitive.
	// Empty disables the check.
	RequiredSubject string
}

// NewPromptValidator returns a validator with the given length limit.
func NewPromptValidator(maxLen int) *PromptValidator {
	if maxLen <= 0 {
		maxLen = 1800
	}
	return &PromptValidator{MaxLen: maxLen}
}

// Validate returns an error describing the first rule the prompt breaks,
// or nil when the prompt is acceptable.
func (v *PromptValidator) Validate(prompt string) error {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return fmt.Errorf("image prompt is empty")
	}
	if len(prompt) > v.MaxLen {
		return fmt.Errorf("image prompt is %d bytes, limit is %d", len(prompt), v.MaxLen)
	}

	lower := strings.ToLower(prompt)
	for _, term := range bannedTerms {
		if strings.Contains(lower, term) {
			return fmt.Errorf("image prompt contains banned term %q", term)
		}
	}

	for _, c := range contradictions {
		if c.a.MatchString(prompt) && c.b.MatchString(prompt) {
			return fmt.Errorf("image prompt contradicts itself (%s)", c.desc)
		}
	}

	if v.RequiredSubject != "" && !strings.Contains(lower, strings.ToLower(v.RequiredSubject)) {
		return fmt.Errorf("image prompt missing required subject %q", v.RequiredSubject)
	}

	return nil
}
