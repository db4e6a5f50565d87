// Package cmd implements the subcommands of the ecoscript command line:
// run, tokens, ast and init.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// (see [WithContext]), from which they read the kong variables named by the
// identifiers below.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the configuration file without its extension.
	ConfigIdentifier = "config"
)
