package drafting

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrInvalidJSON is matched by every ParseError.
var ErrInvalidJSON = errors.New("invalid json")

// ParseError reports raw text that is not a syntactically valid JSON object.
// No partial draft accompanies it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse draft: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrInvalidJSON }

// Draft maps every schema field to a value of the declared kind, or nil.
type Draft map[string]any

// Outcome records what normalization did with one field.
type Outcome int

const (
	// Kept means the value already had the declared kind.
	Kept Outcome = iota + 1
	// Missing means the field was absent and is nil in the draft.
	Missing
	// Coerced means the value was converted to the declared kind.
	Coerced
	// CoercionSkipped means the value could not be converted and is nil.
	CoercionSkipped
	// PassedThrough means a string field held another kind and was left as is.
	PassedThrough
)

func (o Outcome) String() string {
	switch o {
	case Kept:
		return "kept"
	case Missing:
		return "missing"
	case Coerced:
		return "coerced"
	case CoercionSkipped:
		return "coercion_skipped"
	case PassedThrough:
		return "passed_through"
	default:
		return "unknown"
	}
}

// Report holds the outcome of every schema field.
type Report map[string]Outcome

// Count returns how many fields ended with outcome o.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, got := range r {
		if got == o {
			n++
		}
	}
	return n
}

// Normalize parses raw and shapes it to schema. It fails only when raw is not
// a JSON object.
func Normalize(raw string, schema Schema) (Draft, error) {
	draft, _, err := NormalizeWithReport(raw, schema)
	return draft, err
}

// NormalizeWithReport is Normalize plus the per-field outcomes.
func NormalizeWithReport(raw string, schema Schema) (Draft, Report, error) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, nil, &ParseError{Err: err}
	}

	record, ok := parsed.(map[string]any)
	if !ok {
		return nil, nil, &ParseError{Err: fmt.Errorf("expected a JSON object, got %s", jsonKindName(parsed))}
	}

	draft := make(Draft, len(schema))
	report := make(Report, len(schema))

	for _, field := range schema {
		value, present := record[field.Name]
		if !present {
			draft[field.Name] = nil
			report[field.Name] = Missing
			continue
		}

		if kindOf(value) == field.Kind {
			draft[field.Name] = value
			report[field.Name] = Kept
			continue
		}

		converted, outcome := coerce(value, field.Kind)
		draft[field.Name] = converted
		report[field.Name] = outcome
	}

	return draft, report, nil
}

func coerce(value any, kind FieldKind) (any, Outcome) {
	switch kind {
	case Number:
		n, ok := parseNumber(value)
		if !ok {
			return nil, CoercionSkipped
		}
		return n, Coerced
	case Boolean:
		// Only true and "true" count as true; "TRUE", "yes" and 1 are false.
		if b, ok := value.(bool); ok && b {
			return true, Coerced
		}
		if s, ok := value.(string); ok && s == "true" {
			return true, Coerced
		}
		return false, Coerced
	default:
		return value, PassedThrough
	}
}

func parseNumber(value any) (float64, bool) {
	s, ok := value.(string)
	if !ok {
		return 0, false
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func kindOf(value any) FieldKind {
	switch value.(type) {
	case string:
		return String
	case float64:
		return Number
	case bool:
		return Boolean
	default:
		return 0
	}
}

func jsonKindName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// Decode copies a draft into out, a pointer to a struct tagged with json
// names. Numbers land in integer fields, nil leaves the target untouched and
// mismatched kinds are converted where mapstructure's weak typing allows it.
func Decode(draft Draft, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build draft decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(draft)); err != nil {
		return fmt.Errorf("decode draft: %w", err)
	}
	return nil
}
