// Package cmd implements the saiyan subcommands.
//
//   - run: evaluate source files in one session
//   - fmt: print a parsed program as source, JSON, YAML, a tree, or tokens
//   - init: write a configuration file from the current flag values
//   - repl: the interactive shell (package repl)
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the configuration file path.
	ConfigIdentifier = "config"

	// MaxCallDepthIdentifier is the kong variable holding the default call
	// depth bound.
	MaxCallDepthIdentifier = "maxCallDepth"
)
