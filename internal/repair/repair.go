// Package repair recovers structured JSON from free-form model output.
// Extraction is purely syntactic: fenced code blocks first, then the
// outermost brace span. No retries, no re-prompting; a payload that still
// fails to decode is a terminal malformed-output error.
package repair

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// MalformedOutputError reports output that could not be repaired into the
// expected structure. Raw carries the full original text for diagnostics.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("repair: malformed structured output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// ExtractStructured pulls the most plausible JSON payload out of raw text.
// Preference order: the first fenced code block, then the outermost
// {...} span, then the trimmed text as-is.
func ExtractStructured(raw string) string {
	if m := fencedRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start >= 0 && end > start {
		return strings.TrimSpace(raw[start : end+1])
	}

	return strings.TrimSpace(raw)
}

// Decode extracts a JSON payload from raw and unmarshals it into v. On
// failure it returns a *MalformedOutputError carrying the original text.
func Decode(raw string, v any) error {
	payload := ExtractStructured(raw)
	if payload == "" {
		return &MalformedOutputError{Raw: raw, Err: fmt.Errorf("no JSON payload found")}
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return &MalformedOutputError{Raw: raw, Err: err}
	}
	return nil
}
