// Package cli contains the command line interface for rowan.
//
// # Usage
//
// With no arguments, rowan starts an interactive REPL:
//
//	rowan
//
// With one or more positional arguments, the first is a script path loaded
// via `load-file`; any remaining arguments are bound to the language symbol
// `*ARGV*`:
//
//	rowan script.rw arg1 arg2
//
// Logging and profiling are configured with flags:
//
//	rowan --log-level=debug --pprof-mode=cpu script.rw
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-output: Log output file(s), '-' for stdout
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o rowan .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: $XDG_CACHE_HOME/rowan/pprof)
package cli
