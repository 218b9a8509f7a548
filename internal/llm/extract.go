package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the JSON document contained in text. The text is first
// parsed as-is (after stripping Markdown code fences); failing that, the span
// from the first '[' or '{' to the last ']' or '}' is tried.
func ExtractJSON(text string) (json.RawMessage, bool) {
	text = stripFences(text)
	if text == "" {
		return nil, false
	}
	if json.Valid([]byte(text)) {
		return json.RawMessage(text), true
	}

	start := firstIndexAny(text, '[', '{')
	end := strings.LastIndexAny(text, "]}")
	if start < 0 || end <= start {
		return nil, false
	}
	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func firstIndexAny(s string, a, b byte) int {
	i, j := strings.IndexByte(s, a), strings.IndexByte(s, b)
	switch {
	case i < 0:
		return j
	case j < 0:
		return i
	case i < j:
		return i
	default:
		return j
	}
}
