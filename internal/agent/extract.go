package agent

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls the first JSON object embedded in free text, using
// first-"{" to last-"}" slicing. Tolerant of surrounding prose; returns nil
// on any parse failure, never an error.
func ExtractJSON(text string) map[string]any {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil
	}
	return out
}

// StripJSON removes the embedded JSON region from text so the remaining
// prose can be shown to the user.
func StripJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:start] + text[end+1:])
}
