package amisform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	eng "github.com/reoring/amisform/internal/engine"
	"github.com/reoring/amisform/node"
	"github.com/reoring/amisform/source/gojson"
	"github.com/reoring/amisform/source/yamlflow"
)

// Parse turns JSON text into an ordered node tree. The last ParseOpt wins.
// Strict JSON runs through the go-json token driver; input it rejects is
// reread by the relaxed reader when ParseOpt allows it. Failures are
// returned as *ParseError.
func Parse(data []byte, opts ...ParseOpt) (*node.Node, error) {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return parseWith(data, opt, nil)
}

// ParseString is Parse for string input.
func ParseString(s string, opts ...ParseOpt) (*node.Node, error) {
	return Parse([]byte(s), opts...)
}

// parseData parses a submission payload: blank text is an empty object.
func parseData(data []byte, opt ParseOpt, logger *slog.Logger) (*node.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return node.Object(), nil
	}
	return parseWith(data, opt, logger)
}

func parseWith(data []byte, opt ParseOpt, logger *slog.Logger) (*node.Node, error) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, &ParseError{Code: CodeTruncated, Err: fmt.Errorf("input of %d bytes exceeds limit of %d", len(data), opt.MaxBytes)}
	}
	if opt.AllowComments {
		data = eng.StripComments(data)
	}
	if opt.AllowSingleQuotes {
		data = eng.DoubleQuote(data)
	}
	n, err := decode(gojson.NewBytes(data), opt, logger)
	if err != nil && opt.relaxed() && !isEnforcement(err) {
		// most schemas are plain JSON; only reread the ones that are not
		n, err = decode(yamlflow.NewBytes(data), opt, logger)
	}
	if err != nil {
		return nil, toParseError(err)
	}
	return n, nil
}

func decode(src eng.TokenSource, opt ParseOpt, logger *slog.Logger) (*node.Node, error) {
	src = eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		IssueSink: func(si eng.SimpleIssue) {
			if logger != nil {
				logger.Warn("duplicate key in input", "path", si.Path)
			}
		},
	})
	return eng.DecodeNode(src)
}

func isEnforcement(err error) bool {
	var ie eng.IssueError
	return errors.As(err, &ie)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

func toParseError(err error) *ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &ParseError{Code: ie.Code, Path: ie.Path, Err: errors.New(ie.Message)}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return &ParseError{Code: CodeTruncated, Err: err}
	}
	return &ParseError{Code: CodeParseError, Err: err}
}
