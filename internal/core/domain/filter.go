package domain

import (
	"fmt"
	"strings"
	"time"
)

// Filter operators.
const (
	OpEq = "eq"
	OpGe = "ge"
	OpLe = "le"
)

// Condition is a single field predicate within a filter.
type Condition struct {
	// Field is one of source, path, document_type, created, modified.
	Field string

	// Op is the comparison operator (eq, ge, le).
	Op string

	// Value is the string value for text fields.
	Value string

	// Time is the parsed value for the created/modified fields.
	Time time.Time
}

// Filter is a structured predicate applied at the index level before
// ranking. All conditions are combined with AND.
type Filter struct {
	Conditions []Condition
}

// Text fields support eq; time fields support eq, ge and le.
var filterFields = map[string]bool{
	"source":        false,
	"path":          false,
	"document_type": false,
	"created":       true,
	"modified":      true,
}

// ParseFilter parses a filter expression of the form
//
//	field op value [and field op value ...]
//
// e.g. "document_type eq pdf" or "modified ge 2024-01-01". Values with
// spaces can be quoted with single quotes. A blank expression yields a
// nil filter.
func ParseFilter(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}

	var filter Filter
	for i := 0; i < len(tokens); {
		if len(tokens)-i < 3 {
			return nil, fmt.Errorf("%w: incomplete filter condition near %q", ErrInvalidInput, strings.Join(tokens[i:], " "))
		}

		cond, err := parseCondition(tokens[i], tokens[i+1], tokens[i+2])
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
		i += 3

		if i < len(tokens) {
			if !strings.EqualFold(tokens[i], "and") {
				return nil, fmt.Errorf("%w: expected 'and', got %q", ErrInvalidInput, tokens[i])
			}
			i++
		}
	}

	return &filter, nil
}

func parseCondition(field, op, value string) (Condition, error) {
	field = strings.ToLower(field)
	op = strings.ToLower(op)

	isTime, ok := filterFields[field]
	if !ok {
		return Condition{}, fmt.Errorf("%w: unknown filter field %q", ErrInvalidInput, field)
	}

	switch op {
	case OpEq:
	case OpGe, OpLe:
		if !isTime {
			return Condition{}, fmt.Errorf("%w: operator %q not supported for field %q", ErrInvalidInput, op, field)
		}
	default:
		return Condition{}, fmt.Errorf("%w: unknown filter operator %q", ErrInvalidInput, op)
	}

	cond := Condition{Field: field, Op: op, Value: value}
	if isTime {
		t, err := parseFilterTime(value)
		if err != nil {
			return Condition{}, fmt.Errorf("%w: bad timestamp %q for field %q", ErrInvalidInput, value, field)
		}
		cond.Time = t
	}
	return cond, nil
}

func parseFilterTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

// tokenize splits the expression on whitespace, honouring single-quoted
// values.
func tokenize(expr string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inQuote := false

	for _, r := range expr {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case !inQuote && (r == ' ' || r == '\t'):
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unterminated quote in filter", ErrInvalidInput)
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
