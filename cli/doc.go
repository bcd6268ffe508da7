// Package cli contains the command line interface for saiyan.
//
// # Usage
//
//	saiyan [flags] [command]
//
// Without a command, saiyan starts the interactive shell (repl). The other
// commands are:
//
//   - run: evaluate source files in one session and print the final value
//   - fmt: print the canonical source, syntax tree, or tokens of a program
//   - init: write the current global flags to the configuration file
//
// # Configuration File
//
// Flags are also read from a YAML file, config.yaml in the user configuration
// directory. Keys name flags; nested mappings join their keys with "-":
//
//	log:
//	  level: debug
//	  format: text
//	max-call-depth: 512
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o saiyan .
//
// Then:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: <cache dir>/pprof)
package cli
