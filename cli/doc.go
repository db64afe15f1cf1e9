// Package cli contains the command line interface for webuild.
//
// # Usage
//
//	webuild [flags] render INPUT [OUTPUT] [NAME=VALUE ...]
//	webuild [flags] deps [--format=tree|json|yaml] INPUT
//	webuild [flags] watch INPUT [OUTPUT] [NAME=VALUE ...]
//
// render is the default command, so the subcommand name may be omitted.
// A Blueprint input writes each of its outputs beneath --output-dir; any
// other input writes to OUTPUT, or standard output if OUTPUT is absent or
// '-'. An INPUT of '-' reads standard input.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (for example ~/.config/webuild). YAML keys may be
// nested by flag prefix:
//
//	log:
//	  level: debug
//	  pretty: false
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp layout, or 'none'
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o webuild .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/webuild/pprof)
package cli
