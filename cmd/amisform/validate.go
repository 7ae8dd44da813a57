package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	amisform "github.com/reoring/amisform"
	"github.com/reoring/amisform/config"
	"github.com/reoring/amisform/middleware"
	"github.com/reoring/amisform/node"
)

type validateFlags struct {
	schema   string
	form     string
	data     string
	lang     string
	format   string
	noScript bool
}

func newValidateCmd(load configLoader) *cobra.Command {
	var f validateFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a data payload against a form",
		Long: `Validate a data payload against a form schema.

--schema is a page schema containing the form (select it with --form) or the
form itself when --form is omitted. --data is a JSON file, or - for stdin;
without it the payload is an empty object.

The exit status is 1 when violations are found.

Examples:
  amisform validate --schema page.json --form myForm --data data.json
  echo '{"age": 16}' | amisform validate --schema form.json --data - --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runValidate(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cfg, f)
		},
	}
	cmd.Flags().StringVarP(&f.schema, "schema", "s", "", "page or form schema file")
	cmd.Flags().StringVarP(&f.form, "form", "f", "", "name of the form inside the page schema")
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "data file, - for stdin")
	cmd.Flags().StringVar(&f.lang, "lang", "", "message language (zh-CN, en-US)")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text or json")
	cmd.Flags().BoolVar(&f.noScript, "no-script", false, "skip conditions and form rules")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func runValidate(ctx context.Context, stdin io.Reader, out io.Writer, cfg *config.Config, f validateFlags) error {
	if f.format != "text" && f.format != "json" {
		return fmt.Errorf("unknown format %q", f.format)
	}
	if f.lang != "" {
		cfg.Language = f.lang
	}
	if f.noScript {
		cfg.DisableScript = true
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	form, err := loadForm(cfg, f.schema, f.form)
	if err != nil {
		return err
	}
	data, err := loadData(cfg, stdin, f.data)
	if err != nil {
		return err
	}
	v, err := cfg.NewValidator(cfg.NewLogger(os.Stderr), nil)
	if err != nil {
		return err
	}
	vs := v.Validate(ctx, form, data)

	if f.format == "json" {
		b, err := j.MarshalIndent(middleware.ErrorPayload(vs), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	} else {
		printViolations(out, vs)
	}
	if len(vs) > 0 {
		return errViolations
	}
	return nil
}

func printViolations(out io.Writer, vs amisform.Violations) {
	if len(vs) == 0 {
		fmt.Fprintln(out, "OK")
		return
	}
	for _, v := range vs {
		name := v.Field
		if name == "" {
			name = "(form)"
		}
		fmt.Fprintf(out, "%s: %s\n", name, v.Message)
	}
}

// schemaParseOpt is the configured parse options with every relaxation
// turned on, since page schemas are hand written.
func schemaParseOpt(cfg *config.Config) amisform.ParseOpt {
	opt := cfg.ParseOpt()
	opt.AllowComments = true
	opt.AllowUnquotedKeys = true
	opt.AllowSingleQuotes = true
	return opt
}

func loadForm(cfg *config.Config, path, name string) (*node.Node, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	page, err := amisform.Parse(b, schemaParseOpt(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if name == "" {
		return page, nil
	}
	form := amisform.FindForm(page, name)
	if form == nil {
		return nil, fmt.Errorf("%s: %w: %s", path, amisform.ErrFormNotFound, name)
	}
	return form, nil
}

func loadData(cfg *config.Config, stdin io.Reader, path string) (*node.Node, error) {
	var b []byte
	var err error
	switch path {
	case "":
		return node.Object(), nil
	case "-":
		b, err = io.ReadAll(stdin)
	default:
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return node.Object(), nil
	}
	data, err := amisform.Parse(b, cfg.ParseOpt())
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	return data, nil
}
