// Package generation runs the full object pipeline: type lookup, context
// assembly, prompt rendering, provider call, payload validation, and
// persistence.
package generation

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sethtw/saga-sub000/internal/schema"
)

// ValidationError reports a generated payload that could not be parsed or
// did not satisfy the object type's schema.
type ValidationError struct {
	ObjectType string
	Reason     string
	cause      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s payload: %s", e.ObjectType, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.cause }

// fencedBlock matches a markdown code fence with an optional language tag.
var fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\n?(.*?)```")

// ExtractPayload pulls the structured payload out of raw model output.
// Preference order: the first fenced code block, then the outermost brace
// span, then the raw text.
func ExtractPayload(raw string) string {
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			return strings.TrimSpace(raw[start : end+1])
		}
	}
	return strings.TrimSpace(raw)
}

// ParseAndValidate extracts, parses, and schema-checks model output for the
// named object type. Either the complete object comes back or an error does;
// partial payloads are never returned.
func ParseAndValidate(objectType, raw string, s schema.Schema) (map[string]any, error) {
	payload := ExtractPayload(raw)
	if payload == "" {
		return nil, &ValidationError{ObjectType: objectType, Reason: "empty response body"}
	}

	var data map[string]any
	if err := yaml.Unmarshal([]byte(payload), &data); err != nil {
		return nil, &ValidationError{
			ObjectType: objectType,
			Reason:     "response is not a parseable object",
			cause:      err,
		}
	}
	if data == nil {
		return nil, &ValidationError{ObjectType: objectType, Reason: "response parsed to nothing"}
	}

	validated, err := s.Validate(data)
	if err != nil {
		return nil, &ValidationError{
			ObjectType: objectType,
			Reason:     err.Error(),
			cause:      err,
		}
	}
	return validated, nil
}
