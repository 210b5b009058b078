// Package schema defines the field-descriptor schemas object types are
// validated against. Each object type carries one Schema; generated payloads
// either satisfy it completely or fail with the full violation list.
package schema

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind is the closed set of field kinds a schema may declare.
type Kind string

const (
	KindString  Kind = "string"
	KindText    Kind = "text"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

var validKinds = map[Kind]bool{
	KindString:  true,
	KindText:    true,
	KindNumber:  true,
	KindInteger: true,
	KindBoolean: true,
	KindArray:   true,
	KindObject:  true,
}

// ValidKind reports whether k belongs to the closed kind set.
func ValidKind(k Kind) bool { return validKinds[k] }

// Field describes one constrained field of a payload.
type Field struct {
	Key      string   `json:"key"`
	Kind     Kind     `json:"kind"`
	Required bool     `json:"required"`
	Enum     []string `json:"enum,omitempty"`
	// string length or array item-count bounds; zero means unbounded
	MinLen int `json:"min_len,omitempty"`
	MaxLen int `json:"max_len,omitempty"`
	// numeric bounds; nil means unbounded
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Schema is an ordered set of field descriptors.
type Schema struct {
	Fields []Field `json:"fields"`
}

// Violation is one constraint failure.
type Violation struct {
	Field   string
	Message string
}

// ViolationList is the error returned when validation fails. It is never
// partial: a payload either validates fully or this carries every failure.
type ViolationList []Violation

func (v ViolationList) Error() string {
	msgs := make([]string, len(v))
	for i, violation := range v {
		msgs[i] = fmt.Sprintf("%s: %s", violation.Field, violation.Message)
	}
	return strings.Join(msgs, "; ")
}

var validate = validator.New()

// Validate checks data against the schema and returns the canonical payload.
// Keys not covered by the schema pass through untouched.
func (s Schema) Validate(data map[string]any) (map[string]any, error) {
	var violations ViolationList

	for _, f := range s.Fields {
		value, present := data[f.Key]

		if !present || value == nil {
			if f.Required {
				violations = append(violations, Violation{Field: f.Key, Message: "required field is missing"})
			}
			continue
		}

		if v := f.check(value); v != nil {
			violations = append(violations, *v)
		}
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return data, nil
}

func (f Field) check(value any) *Violation {
	switch f.Kind {
	case KindString, KindText:
		str, ok := value.(string)
		if !ok {
			return &Violation{Field: f.Key, Message: "expected a string"}
		}
		if tag := f.stringTag(); tag != "" {
			if err := validate.Var(str, tag); err != nil {
				return &Violation{Field: f.Key, Message: describeTagFailure(f, err)}
			}
		}
		if len(f.Enum) > 0 && !contains(f.Enum, str) {
			return &Violation{Field: f.Key, Message: fmt.Sprintf("must be one of [%s]", strings.Join(f.Enum, ", "))}
		}

	case KindNumber:
		num, ok := asFloat(value)
		if !ok {
			return &Violation{Field: f.Key, Message: "expected a number"}
		}
		if tag := f.numericTag(); tag != "" {
			if err := validate.Var(num, tag); err != nil {
				return &Violation{Field: f.Key, Message: describeTagFailure(f, err)}
			}
		}

	case KindInteger:
		num, ok := asFloat(value)
		if !ok || num != float64(int64(num)) {
			return &Violation{Field: f.Key, Message: "expected an integer"}
		}
		if tag := f.numericTag(); tag != "" {
			if err := validate.Var(num, tag); err != nil {
				return &Violation{Field: f.Key, Message: describeTagFailure(f, err)}
			}
		}

	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return &Violation{Field: f.Key, Message: "expected a boolean"}
		}

	case KindArray:
		items, ok := value.([]any)
		if !ok {
			return &Violation{Field: f.Key, Message: "expected an array"}
		}
		if f.MinLen > 0 && len(items) < f.MinLen {
			return &Violation{Field: f.Key, Message: fmt.Sprintf("needs at least %d items", f.MinLen)}
		}
		if f.MaxLen > 0 && len(items) > f.MaxLen {
			return &Violation{Field: f.Key, Message: fmt.Sprintf("allows at most %d items", f.MaxLen)}
		}

	case KindObject:
		if _, ok := value.(map[string]any); !ok {
			return &Violation{Field: f.Key, Message: "expected an object"}
		}
	}

	return nil
}

func (f Field) stringTag() string {
	var parts []string
	if f.Required {
		parts = append(parts, "required")
	}
	if f.MinLen > 0 {
		parts = append(parts, fmt.Sprintf("min=%d", f.MinLen))
	}
	if f.MaxLen > 0 {
		parts = append(parts, fmt.Sprintf("max=%d", f.MaxLen))
	}
	return strings.Join(parts, ",")
}

func (f Field) numericTag() string {
	var parts []string
	if f.Min != nil {
		parts = append(parts, fmt.Sprintf("min=%v", *f.Min))
	}
	if f.Max != nil {
		parts = append(parts, fmt.Sprintf("max=%v", *f.Max))
	}
	return strings.Join(parts, ",")
}

func describeTagFailure(f Field, err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err.Error()
	}
	switch errs[0].Tag() {
	case "required":
		return "must not be empty"
	case "min":
		return fmt.Sprintf("below minimum %s", errs[0].Param())
	case "max":
		return fmt.Sprintf("above maximum %s", errs[0].Param())
	default:
		return fmt.Sprintf("failed %s constraint", errs[0].Tag())
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// Float is a convenience for building bound pointers in schema literals.
func Float(v float64) *float64 { return &v }
