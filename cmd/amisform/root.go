package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/reoring/amisform/config"
)

// errViolations makes the process exit with status 1 without printing an
// error; the violations themselves are already on stdout.
var errViolations = errors.New("violations found")

func newRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:   "amisform",
		Short: "Server-side validation for amis forms",
		Long: `amisform checks submitted data against the validation rules declared in
amis form schemas: required fields, conditional visibility, per-field rules
and form-level expression rules.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (.yaml, .yml or .toml)")

	load := func() (*config.Config, error) {
		if cfgFile == "" {
			return config.Default(), nil
		}
		return config.Load(cfgFile)
	}
	root.AddCommand(newValidateCmd(load), newFindCmd(load), newServeCmd(load))
	return root
}

type configLoader func() (*config.Config, error)
