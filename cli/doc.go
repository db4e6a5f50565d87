// Package cli contains the command line interface for ecoscript.
//
// # Usage
//
//	ecoscript [flags] [run] [FILE ...]
//	ecoscript tokens [-o text|json|yaml] [SOURCE]
//	ecoscript ast [-o text|json|yaml] [SOURCE]
//	ecoscript init [-f] [-o eco|json|yaml]
//
// The run command is the default. Without files it starts the interactive
// interpreter.
//
// # Configuration Files
//
// Flag defaults are read from the configuration directory
// (~/.config/ecoscript on Linux), from any of:
//
//   - config.json: a flat JSON object keyed by flag name
//   - config.yaml: YAML whose nested keys are joined with "-"
//   - config.eco:  an EcoScript program whose globals name the flags,
//     with "_" in place of "-"
//
// For example, the following config.eco raises the log level:
//
//	let log_level = "info"
//
// Command-line flags override config file values. The init command writes
// the current flag values in any of these formats.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, ms, ...)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/ecoscript/pprof)
//
// # Examples
//
//	# Run a script with a global bound from the environment
//	ecoscript -D 'home=env("HOME")' script.eco
//
//	# Debug logging with CPU profiling
//	ecoscript --log-level=debug --pprof-mode=cpu script.eco
//
//	# Inspect how a script parses
//	ecoscript ast -o yaml script.eco
package cli
