package amisform

import (
	"errors"
	"fmt"
	"strings"
)

// Parse error codes.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// Violation is a single constraint failure. An empty Field marks a
// form-level (cross-field) violation.
type Violation struct {
	Field   string `json:"name"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

// Violations is the ordered result of a validation. It implements error so
// callers can return it directly from request handlers.
type Violations []Violation

// Error summarizes the first few violations.
func (vs Violations) Error() string {
	if len(vs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(vs), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		v := vs[i]
		if v.Field == "" {
			fmt.Fprintf(b, "form: %s", v.Message)
		} else {
			fmt.Fprintf(b, "%s: %s", v.Field, v.Message)
		}
	}
	if len(vs) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(vs))
	}
	return b.String()
}

// Valid reports whether no violation was found.
func (vs Violations) Valid() bool { return len(vs) == 0 }

// Field returns the violations reported for the named field.
func (vs Violations) Field(name string) Violations {
	var out Violations
	for _, v := range vs {
		if v.Field == name {
			out = append(out, v)
		}
	}
	return out
}

// AsViolations extracts Violations from an error using errors.As.
func AsViolations(err error) (Violations, bool) {
	if err == nil {
		return nil, false
	}
	var vs Violations
	if errors.As(err, &vs) {
		return vs, true
	}
	return nil, false
}

// ParseError reports malformed schema or data text. It is returned to the
// caller, never folded into a violation list.
type ParseError struct {
	Code string // CodeParseError, CodeDuplicateKey or CodeTruncated.
	Path string // JSON Pointer when known.
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("amisform: %s at %s: %v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("amisform: %s: %v", e.Code, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a form schema the validator could not work with.
// Validate never returns it: a schema without a body simply yields no
// violations. Only the lookup entry points surface it.
type SchemaError struct {
	Op  string
	Msg string
}

func (e *SchemaError) Error() string { return "amisform: " + e.Op + ": " + e.Msg }

// Is matches SchemaErrors with the same Op and Msg so the sentinels below
// work with errors.Is.
func (e *SchemaError) Is(target error) bool {
	t, ok := target.(*SchemaError)
	return ok && t.Op == e.Op && t.Msg == e.Msg
}

// ErrFormNotFound is returned when no form with the requested name exists.
var ErrFormNotFound = &SchemaError{Op: "find form", Msg: "form not found"}
