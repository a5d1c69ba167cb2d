// Package validation applies ordered predicate rules to input values and
// raises typed validation errors on the first violation.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"

	"plugin-resilience/internal/common/errors"
)

// Rule inspects a value and returns a violation message, or "" when the
// value passes. Rules must be side-effect free; a rule that panics is a
// programmer error and propagates to the caller.
type Rule func(value interface{}) string

// Validate evaluates rules in order against value. On the first violation it
// returns a non-recoverable validation error carrying the field name and the
// offending value. On success the value is returned unchanged for chaining.
func Validate(value interface{}, rules []Rule, field string) (interface{}, error) {
	for _, rule := range rules {
		if msg := rule(value); msg != "" {
			return nil, errors.NewValidationError(field, value, msg)
		}
	}
	return value, nil
}

// ==========================
// Rule constructors
// ==========================

const genericViolation = "value is invalid"

// Pred adapts a boolean predicate to a Rule. A false result maps to msg, or
// to a generic message when msg is empty.
func Pred(fn func(value interface{}) bool, msg string) Rule {
	return func(value interface{}) string {
		if fn(value) {
			return ""
		}
		if msg == "" {
			return genericViolation
		}
		return msg
	}
}

// NonEmpty requires a non-empty string.
func NonEmpty() Rule {
	return func(value interface{}) string {
		s, ok := value.(string)
		if !ok || s == "" {
			return "value must be a non-empty string"
		}
		return ""
	}
}

// MinLength requires a string of at least n characters.
func MinLength(n int) Rule {
	return func(value interface{}) string {
		s, ok := value.(string)
		if !ok || len(s) < n {
			return fmt.Sprintf("value must be at least %d characters", n)
		}
		return ""
	}
}

// MaxLength requires a string of at most n characters.
func MaxLength(n int) Rule {
	return func(value interface{}) string {
		s, ok := value.(string)
		if !ok || len(s) > n {
			return fmt.Sprintf("value must be at most %d characters", n)
		}
		return ""
	}
}

// Matches requires a string matching the given pattern. The pattern is
// compiled eagerly; an invalid pattern panics at rule construction.
func Matches(pattern string) Rule {
	re := regexp.MustCompile(pattern)
	return func(value interface{}) string {
		s, ok := value.(string)
		if !ok || !re.MatchString(s) {
			return fmt.Sprintf("value must match pattern %s", pattern)
		}
		return ""
	}
}

// Min requires a numeric value of at least min.
func Min(min float64) Rule {
	return func(value interface{}) string {
		n, ok := asFloat(value)
		if !ok || n < min {
			return fmt.Sprintf("value must be at least %v", min)
		}
		return ""
	}
}

// Max requires a numeric value of at most max.
func Max(max float64) Rule {
	return func(value interface{}) string {
		n, ok := asFloat(value)
		if !ok || n > max {
			return fmt.Sprintf("value must be at most %v", max)
		}
		return ""
	}
}

// MatchesSchema validates the value against a JSON schema document. The
// value is marshaled to JSON first, so structs, maps and scalars all work.
// An invalid schema surfaces as a violation, not a panic.
func MatchesSchema(schemaJSON string) Rule {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	return func(value interface{}) string {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("value is not serializable: %v", err)
		}
		result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return fmt.Sprintf("schema validation failed: %v", err)
		}
		if !result.Valid() {
			return result.Errors()[0].String()
		}
		return ""
	}
}

func asFloat(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
