package llm

import (
	"strings"
)

// Repair attempts to recover parseable JSON from sloppy LLM output.
// The pipeline is: strip markdown fences, cut to the outermost JSON value,
// fix string bodies (bare newlines, tabs, unescaped inner quotes), then
// drop trailing commas. Each step is safe to run on already-valid JSON.
func Repair(raw string) string {
	s := stripFences(raw)
	s = extractJSON(s)
	s = fixStrings(s)
	s = stripTrailingCommas(s)
	return s
}

// stripFences removes ```json ... ``` (or bare ```) markdown fences.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// extractJSON cuts the input down to the outermost balanced object or array.
// Prose before or after the JSON value is discarded. If no balanced value is
// found the input is returned unchanged.
func extractJSON(s string) string {
	start := -1
	var open, close byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			open = s[i]
			if open == '{' {
				close = '}'
			} else {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return s
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	// Unbalanced: return from the opening bracket and let the parser report it.
	return s[start:]
}

// fixStrings walks the input and repairs string bodies: raw newlines and tabs
// become \n and \t, and an unescaped double quote inside a string is escaped
// when the following non-space character shows the string cannot be ending
// (i.e. it is not one of , } ] : or end of input).
func fixStrings(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]

		if !inString {
			if ch == '"' {
				inString = true
			}
			b.WriteByte(ch)
			continue
		}

		if escaped {
			escaped = false
			b.WriteByte(ch)
			continue
		}

		switch ch {
		case '\\':
			escaped = true
			b.WriteByte(ch)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// Swallow; a following \n is handled above.
		case '\t':
			b.WriteString(`\t`)
		case '"':
			if stringEndsAt(s, i) {
				inString = false
				b.WriteByte(ch)
			} else {
				b.WriteString(`\"`)
			}
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// stringEndsAt reports whether the quote at index i plausibly terminates a
// JSON string: the next non-whitespace character must be a structural one.
func stringEndsAt(s string, i int) bool {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case ',', '}', ']', ':':
			return true
		default:
			return false
		}
	}
	return true // end of input
}

// stripTrailingCommas removes commas that directly precede a closing } or ].
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			b.WriteByte(ch)
			continue
		}

		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue // drop the comma
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}
