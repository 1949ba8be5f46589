package response

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/spigell/cv-evaluator/internal/utils"
)

const (
	jsonFence = "```json"
	fence     = "```"

	previewLength = 200
)

var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ParseError is returned when no JSON object can be recovered from a model answer.
type ParseError struct {
	// Preview holds the leading characters of the raw answer.
	Preview string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable model response %q: %v", e.Preview, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse turns a model answer into a JSON object. Fenced blocks are unwrapped
// first; when the remaining text is not valid JSON, the widest {...} span is
// tried before giving up.
func Parse(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	data, err := decodeObject(cleaned)
	if err == nil {
		return data, nil
	}

	if span := objectPattern.FindString(cleaned); span != "" && span != cleaned {
		if recovered, recoverErr := decodeObject(span); recoverErr == nil {
			return recovered, nil
		}
	}

	return nil, &ParseError{Preview: utils.Head(raw, previewLength), Err: err}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	marker := ""
	switch {
	case strings.Contains(raw, jsonFence):
		marker = jsonFence
	case strings.Contains(raw, fence):
		marker = fence
	default:
		return raw
	}

	start := strings.Index(raw, marker) + len(marker)
	body := raw[start:]
	if end := strings.Index(body, fence); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func decodeObject(s string) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	return data, nil
}
