package classify

import (
	"encoding/json"
	"strings"
)

// crisisKeywords is the fixed floor of self-harm-adjacent phrases that force
// crisis escalation. Configured extras may extend this list at runtime but
// can never remove an entry.
var crisisKeywords = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"end it all",
	"hurt myself",
	"harm myself",
	"self harm",
	"self-harm",
	"want to die",
	"don't want to live",
	"no reason to live",
	"better off dead",
}

// CrisisDetected scans a report's message and metadata for crisis keywords.
// The metadata map is JSON-stringified so nested values are searched too.
// extra keywords (from configuration) are matched alongside the fixed list.
func CrisisDetected(message string, metadata map[string]any, extra []string) bool {
	text := strings.ToLower(message)
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			text += " " + strings.ToLower(string(raw))
		}
	}

	for _, kw := range crisisKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	for _, kw := range extra {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
