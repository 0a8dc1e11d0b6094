// Package config loads the ops-generator project configuration.
//
// A project is configured by ops-generator.yaml (or .yml / .toml) at its
// root:
//
//	version: "1"
//	requires: ">= 0.3"
//	inputs: [src]
//	extensions: [.ops.rs]
//	output_dir: ""          # next to each input when empty
//	suffix: _ops.rs
//	ops_path: ::core::ops
//	inline: false
//	comments: true
//	strict_commutative: false
//	jobs: 0                 # GOMAXPROCS when zero
//	cache: true
//	cache_dir: ""           # user cache dir when empty
//
// Fields left out keep their defaults. Command-line flags override the file.
package config
