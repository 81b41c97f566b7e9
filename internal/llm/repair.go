package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/docchamp/docchamp/internal/common"
)

var jsonFenceRe = regexp.MustCompile("(?i)```json")

// RepairJSON recovers the first JSON object from a model response that may
// be wrapped in markdown fences or surrounded by prose. Idempotent: feeding
// its own output back returns the same string.
func RepairJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", common.NewAppError("EMPTY_RESPONSE", "model returned no content", common.ErrEmptyResponse)
	}

	s = jsonFenceRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	start := strings.Index(s, "{")
	if start < 0 {
		return "", common.NewAppError("NO_JSON", "no json object in model response", common.ErrNoJSONFound)
	}

	// Scan to the matching close brace. Braces inside string literals can
	// miscount; the validity check below catches those cases.
	depth, end := 0, -1
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			end = i
			break
		}
	}
	if end < 0 {
		return "", common.NewAppError("UNBALANCED_JSON", "json object is not closed", common.ErrUnbalancedJSON)
	}

	candidate := s[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", common.NewAppError("INVALID_JSON", "model response is not valid json", common.ErrInvalidJSON)
	}
	return candidate, nil
}
