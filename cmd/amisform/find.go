package main

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	amisform "github.com/reoring/amisform"
	"github.com/reoring/amisform/config"
)

func newFindCmd(load configLoader) *cobra.Command {
	var schema, form string
	var list bool
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Print a form located in a page schema",
		Long: `Print the form named --form found anywhere in the page schema, or with
--list the names of every form in it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runFind(cmd.OutOrStdout(), cfg, schema, form, list)
		},
	}
	cmd.Flags().StringVarP(&schema, "schema", "s", "", "page schema file")
	cmd.Flags().StringVarP(&form, "form", "f", "", "form name")
	cmd.Flags().BoolVar(&list, "list", false, "list every form name")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func runFind(out io.Writer, cfg *config.Config, schema, form string, list bool) error {
	if list {
		page, err := loadForm(cfg, schema, "")
		if err != nil {
			return err
		}
		forms := amisform.FindForms(page)
		names := make([]string, 0, len(forms))
		for n := range forms {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintln(out, strings.Join(names, "\n"))
		return nil
	}
	if form == "" {
		return fmt.Errorf("--form or --list is required")
	}
	f, err := loadForm(cfg, schema, form)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := j.Indent(&buf, []byte(f.String()), "", "  "); err != nil {
		return err
	}
	fmt.Fprintln(out, buf.String())
	return nil
}
