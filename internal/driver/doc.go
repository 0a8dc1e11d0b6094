// Package driver runs the generator over a set of input files.
//
// Key capabilities:
//   - Input collection: files are taken as given, directories are walked for
//     the configured extensions; the list is sorted and deduplicated
//   - Parallel generation with a bounded errgroup, results kept in input order
//   - Disk cache lookups keyed by tool version, settings and content
//   - Watch mode: regenerate when inputs change, debounced
//
// Every file is independent: an error in one file never stops the others.
package driver
