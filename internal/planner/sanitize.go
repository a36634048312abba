package planner

import (
	"encoding/json"
	"strings"
)

// stripControlChars removes Unicode control characters in the ranges
// U+0000-U+001F and U+007F-U+009F. The completion service occasionally
// leaks raw control bytes into otherwise valid JSON strings.
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			return -1
		}
		return r
	}, s)
}

// extractJSON locates and parses the JSON object embedded in a raw service
// response, tolerating leading/trailing prose. The span is the greedy match
// from the first '{' to the last '}'; stray braces in surrounding prose can
// therefore over-capture, which the parse step then rejects.
func extractJSON(raw string) (map[string]any, error) {
	cleaned := stripControlChars(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, formatErr("no JSON object found in response")
	}

	span := cleaned[start : end+1]

	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		// Covers malformed and truncated responses alike; both are
		// surfaced as the retryable format error.
		return nil, formatErr("malformed JSON: " + err.Error())
	}

	return obj, nil
}
