package config

import (
	"fmt"
	"strings"

	"github.com/reoring/amisform/i18n"
)

// FieldError is a validation failure of one configuration field.
type FieldError struct {
	Field   string // dotted path, e.g. "server.addr"
	Message string
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

// ValidationError collects every FieldError of a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "configuration validation failed: " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:", len(e.Errors))
	for _, fe := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(fe.Error())
	}
	return sb.String()
}

// Validate checks cfg and returns a ValidationError listing every problem.
func Validate(cfg *Config) error {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if _, ok := i18n.ForLanguage(cfg.Language); !ok {
		add("language", "unsupported language %q (have %s)", cfg.Language, strings.Join(i18n.Languages(), ", "))
	}
	switch strings.ToLower(cfg.Parse.DuplicateKeys) {
	case "", "ignore", "warn", "error":
	default:
		add("parse.duplicate_keys", "must be ignore, warn or error, got %q", cfg.Parse.DuplicateKeys)
	}
	if cfg.Parse.MaxDepth < 0 {
		add("parse.max_depth", "must not be negative")
	}
	if cfg.Parse.MaxBytes < 0 {
		add("parse.max_bytes", "must not be negative")
	}
	if cfg.Expression.Timeout < 0 {
		add("expression.timeout", "must not be negative")
	}
	if cfg.Expression.CacheSize < 0 {
		add("expression.cache_size", "must not be negative")
	}
	if cfg.Server.Watch && cfg.Server.SchemaDir == "" {
		add("server.watch", "requires server.schema_dir")
	}
	if cfg.Server.MetricsPath != "" && !strings.HasPrefix(cfg.Server.MetricsPath, "/") {
		add("server.metrics_path", "must start with /")
	}
	if cfg.Server.MaxBodyBytes < 0 {
		add("server.max_body_bytes", "must not be negative")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		add("log.level", "must be debug, info, warn or error, got %q", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "text", "json":
	default:
		add("log.format", "must be text or json, got %q", cfg.Log.Format)
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
