package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	amisform "github.com/reoring/amisform"
	"github.com/reoring/amisform/expr"
	"github.com/reoring/amisform/i18n"
)

// ParseOpt converts the parse section.
func (c *Config) ParseOpt() amisform.ParseOpt {
	opt := amisform.ParseOpt{
		AllowComments:     c.Parse.AllowComments,
		AllowUnquotedKeys: c.Parse.AllowUnquotedKeys,
		AllowSingleQuotes: c.Parse.AllowSingleQuotes,
		MaxDepth:          c.Parse.MaxDepth,
		MaxBytes:          c.Parse.MaxBytes,
	}
	switch strings.ToLower(c.Parse.DuplicateKeys) {
	case "warn":
		opt.Strictness.OnDuplicateKey = amisform.Warn
	case "error":
		opt.Strictness.OnDuplicateKey = amisform.Error
	}
	return opt
}

// MessageTable resolves the language table and applies the file and inline
// overrides.
func (c *Config) MessageTable() (i18n.Table, error) {
	table, _ := i18n.ForLanguage(c.Language)
	if c.MessagesFile != "" {
		m, err := i18n.LoadFile(c.MessagesFile)
		if err != nil {
			return nil, fmt.Errorf("messages_file: %w", err)
		}
		table = table.Merge(m)
	}
	return table.Merge(c.Messages), nil
}

// NewValidator builds a Validator from the configuration. logger and
// observer may be nil.
func (c *Config) NewValidator(logger *slog.Logger, observer amisform.Observer) (*amisform.Validator, error) {
	table, err := c.MessageTable()
	if err != nil {
		return nil, err
	}
	opts := []amisform.Option{
		amisform.WithMessages(table),
		amisform.WithEvaluator(expr.NewJavaScript(expr.JavaScriptOptions{
			Timeout:   c.Expression.Timeout,
			CacheSize: c.Expression.CacheSize,
		})),
		amisform.WithScriptDisabled(c.DisableScript),
		amisform.WithParseOpt(c.ParseOpt()),
		amisform.WithLogger(logger),
	}
	if observer != nil {
		opts = append(opts, amisform.WithObserver(observer))
	}
	return amisform.New(opts...), nil
}

// NewLogger builds the slog logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: parseLevel(c.Log.Level)}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
