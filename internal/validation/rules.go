// Package validation evaluates declarative, per-entity rule tables against raw
// request bodies.
//
// A Schema is an ordered list of fields. Each field is checked in the same
// order: type, trim, emptiness, then its rules, stopping at the first failure,
// so every violated field yields exactly one message. Rules are
// go-playground/validator tags evaluated against the trimmed value.
package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"restaurant_reviews/internal/apperr"

	"github.com/go-playground/validator/v10"
)

// ErrNothingToUpdate is returned in Update mode when no field survives the
// empty-value filter.
var ErrNothingToUpdate = errors.New("nothing to update")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Mode selects how required fields are treated.
type Mode int

const (
	// Create enforces required fields.
	Create Mode = iota
	// Update makes every field optional and drops null or empty values first.
	Update
)

// Kind is the expected JSON type of a field.
type Kind int

const (
	Text Kind = iota
	Number
)

// Rule is a validator tag paired with the message reported when it fails.
type Rule struct {
	Tag     string
	Message string
}

// Field describes one input key.
type Field struct {
	Name       string
	Kind       Kind
	Required   bool
	CreateOnly bool // rejected as unknown in Update mode

	TypeMessage     string
	EmptyMessage    string
	RequiredMessage string

	Rules []Rule

	// Equals names an earlier field whose sanitized value this one must match.
	Equals        string
	EqualsMessage string
}

// Schema is an ordered rule table.
type Schema struct {
	Fields       []Field
	AllowUnknown bool
}

// Values is the sanitized output of a successful validation.
type Values map[string]any

// String returns a text field.
func (v Values) String(key string) (string, bool) {
	s, ok := v[key].(string)
	return s, ok
}

// StringPtr returns a text field as a pointer, nil when absent.
func (v Values) StringPtr(key string) *string {
	if s, ok := v.String(key); ok {
		return &s
	}
	return nil
}

// Int64 returns a number field.
func (v Values) Int64(key string) (int64, bool) {
	n, ok := v[key].(int64)
	return n, ok
}

// Pick returns a schema restricted to the named fields that ignores every other key.
func (s Schema) Pick(names ...string) Schema {
	picked := Schema{AllowUnknown: true}
	for _, f := range s.Fields {
		for _, name := range names {
			if f.Name == name {
				picked.Fields = append(picked.Fields, f)
			}
		}
	}
	return picked
}

// Validate checks input against the schema. It returns the sanitized values,
// ErrNothingToUpdate, or an *apperr.Error of kind Validation.
func (s Schema) Validate(input map[string]any, mode Mode) (Values, error) {
	if mode == Update {
		input = dropEmpty(input)
		if len(input) == 0 {
			return nil, ErrNothingToUpdate
		}
	}

	out := make(Values, len(input))
	var violations []apperr.FieldError
	known := make(map[string]bool, len(s.Fields))

	for _, f := range s.Fields {
		if mode == Update && f.CreateOnly {
			continue
		}
		known[f.Name] = true

		raw, present := input[f.Name]
		if !present || raw == nil {
			if f.Required && mode == Create {
				violations = append(violations, apperr.FieldError{Field: f.Name, Message: f.RequiredMessage})
			}
			continue
		}

		value, msg := f.check(raw)
		if msg == "" && f.Equals != "" {
			if other, ok := out[f.Equals]; ok && other != value {
				msg = f.EqualsMessage
			}
		}
		if msg != "" {
			violations = append(violations, apperr.FieldError{Field: f.Name, Message: msg})
			continue
		}
		out[f.Name] = value
	}

	if !s.AllowUnknown {
		var unknown []string
		for key := range input {
			if !known[key] {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)
		for _, key := range unknown {
			violations = append(violations, apperr.FieldError{Field: key, Message: fmt.Sprintf("%q is not allowed", key)})
		}
	}

	if len(violations) > 0 {
		return nil, apperr.Validation(violations...)
	}
	return out, nil
}

func (f Field) check(raw any) (any, string) {
	switch f.Kind {
	case Number:
		return f.checkNumber(raw)
	default:
		return f.checkText(raw)
	}
}

func (f Field) checkText(raw any) (any, string) {
	s, ok := raw.(string)
	if !ok {
		return nil, f.TypeMessage
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, f.EmptyMessage
	}
	for _, rule := range f.Rules {
		if err := Validator().Var(s, rule.Tag); err != nil {
			return nil, rule.Message
		}
	}
	return s, ""
}

func (f Field) checkNumber(raw any) (any, string) {
	var n int64
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, f.TypeMessage
		}
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
		if v >= math.MaxInt64 || v < math.MinInt64 {
			return nil, f.TypeMessage
		}
		n = int64(v)
	case int:
		n = int64(v)
	case int64:
		n = v
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, f.EmptyMessage
		}
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, f.TypeMessage
		}
		n = parsed
	default:
		return nil, f.TypeMessage
	}
	for _, rule := range f.Rules {
		if err := Validator().Var(n, rule.Tag); err != nil {
			return nil, rule.Message
		}
	}
	return n, ""
}

func dropEmpty(input map[string]any) map[string]any {
	kept := make(map[string]any, len(input))
	for key, value := range input {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		kept[key] = value
	}
	return kept
}
