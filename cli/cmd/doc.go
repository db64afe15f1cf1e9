// Package cmd provides the render, deps, and watch subcommands.
//
// Commands take their context from the CLI: a [kong.Context] via
// [WithContext], and optionally replacement streams and logger via
// [WithStreams] and [WithLogger].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the configuration file.
	ConfigIdentifier = "config"
)
