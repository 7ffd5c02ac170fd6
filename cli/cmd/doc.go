// Package cmd implements the wordy subcommands: run, tokens, fmt, demo,
// repl, and init.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// (see [WithContext]) and the interpreter options chosen on the command
// line (see [WithOptions]). Output goes to the kong context's Stdout, so
// commands can be run against buffers in tests.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the wordy configuration file.
	ConfigIdentifier = "config"
)
