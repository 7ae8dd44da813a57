// amisform validates amis form submissions from the command line and serves
// the validation endpoint over HTTP.
//
// Usage:
//
//	# Validate a payload against a form inside a page schema
//	amisform validate --schema page.json --form myForm --data data.json
//
//	# Print a form located in a page schema
//	amisform find --schema page.json --form myForm
//
//	# Serve POST /forms/{name}/validate for every form in a directory
//	amisform serve --config amisform.yaml
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errViolations) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
