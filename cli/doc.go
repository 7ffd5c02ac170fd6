// Package cli contains the command line interface for wordy.
//
// # Usage
//
//	wordy [flags] [run] [file ...]
//	wordy tokens [--render] [file ...]
//	wordy fmt {native,json,yaml,ast} [file ...]
//	wordy demo [--print]
//	wordy repl [file ...]
//	wordy init [--force]
//
// Scripts are read from the named files in order, or from stdin when no file
// or "-" is given.
//
// # Configuration
//
// Flags may be set in a configuration file written in wordy itself, located
// at config.wdy in the user configuration directory (see [pkg.ConfigDir]).
// The file is run once at startup and each variable it declares sets the
// flag of the same name, with hyphens written as underscores:
//
//	integerNamed <max_depth> hasTheValueOf <64>#
//	textValueNamed <log_level> hasTheValueOf <"debug">#
//
// "wordy init" writes the current value of every flag to that file. A JSON
// file of the same name with a .json suffix is also read. Command-line flags
// override both.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: log output format (text, json)
//   - --log-time-layout: timestamp layout name or Go layout, or "none"
//   - --log-caller: include caller information
//   - --log-pretty: colorize output
//
// # Interpreter Options
//
//   - --strict: fail on characters outside the token set instead of
//     dropping them
//   - --max-depth: maximum function call depth
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o wordy .
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory
package cli
