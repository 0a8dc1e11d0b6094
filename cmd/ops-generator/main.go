// Package main provides the CLI entrypoint for ops-generator.
//
// ops-generator expands operator directives in Rust sources into complete
// sets of core::ops trait implementations:
//   - gen: generate files for a project or a list of paths
//   - expand: expand a single file or stdin to stdout
//   - explain: show how each directive is parsed and expanded
//   - watch: regenerate on change
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
