// Package log provides leveled, structured logging on top of [log/slog].
//
// A [Logger] is an immutable value configured with functional options when
// it is made:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("ms"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options changed, and
// [Logger.With] one that adds attributes to every message:
//
//	parse := logger.With(slog.String("stage", "parse"))
//	parse.Trace("tokenized", slog.Int("tokens", len(toks)))
//
// The zero Logger discards everything, which lets library types carry an
// optional Logger field without nil checks.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Trace sits below slog's debug level and is
// printed as "TRACE".
//
// # Formats
//
// [FormatText] and [FormatJSON] select slog's text and JSON handlers. With
// [WithPretty], values are written unquoted and, when the output is a
// color terminal, styled by kind and severity.
//
// # Package-level logging
//
// The functions [Trace], [Debug], [Info], [Warn] and [Error], and their
// Context variants, write through a package-level logger that initially
// writes text to [os.Stderr]. [Config] reconfigures it. Functions without a
// context argument use [DefaultContextProvider].
package log
