package amisform

// Severity expresses how strictly a parse-time condition is enforced.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Ignore, Warn (logged) or Error (parse fails).
}

// ParseOpt bundles parsing options for schema and data documents.
//
// Input is read as strict JSON first. When that fails and unquoted keys are
// allowed, it is reread as a YAML flow document. Comments are stripped and
// single-quoted strings are rewritten as JSON strings, escapes included,
// before either reader runs.
type ParseOpt struct {
	AllowComments     bool // Accept // and /* */ comments.
	AllowUnquotedKeys bool // Accept {name: "x"}.
	AllowSingleQuotes bool // Accept {'name': 'x'}.

	Strictness Strictness
	MaxDepth   int   // Maximum container nesting (0 = unlimited).
	MaxBytes   int64 // Maximum input size in bytes (0 = unlimited).
}

// LenientParseOpt enables every relaxation amis page schemas are commonly
// written with.
func LenientParseOpt() ParseOpt {
	return ParseOpt{AllowComments: true, AllowUnquotedKeys: true, AllowSingleQuotes: true}
}

func (o ParseOpt) relaxed() bool { return o.AllowUnquotedKeys }
