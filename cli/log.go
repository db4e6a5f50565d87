package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ecoscript/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-level flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevel}"  enum:"${logLevelEnum}"  help:"Set log level (${enum})."`
	Format     logFormat `default:"${logFormat}" enum:"${logFormatEnum}" help:"Set log format (${enum})."`
	TimeLayout string    `default:"RFC3339"                               help:"Set timestamp format."`
	Caller     bool      `default:"false"                                 help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                  help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":      log.DefaultLevel.String(),
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormat":     log.DefaultFormat.String(),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logger flags found in args before kong parses them, so that
// messages logged during parsing already use the requested configuration.
// Unlike Level and Format, the boolean flags have no parse hook of their own.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args) && args[i] != "--"; i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		key, ok := strings.CutPrefix(name, "--log-")
		negated := false

		if !ok {
			if key, negated = strings.CutPrefix(name, "--no-log-"); !negated {
				continue
			}
		}

		// Non-boolean flags consume the next argument when not assigned.
		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		switch key {
		case "level":
			_ = f.Level.UnmarshalText([]byte(next()))

		case "format":
			_ = f.Format.UnmarshalText([]byte(next()))

		case "time-layout":
			f.TimeLayout = next()
			log.Config(log.WithTimeLayout(f.TimeLayout))

		case "pretty":
			if v, ok := scanBool(value, assigned, negated); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}

		case "caller":
			if v, ok := scanBool(value, assigned, negated); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}
		}
	}
}

// scanBool returns the value of a boolean flag. A bare flag is true, and a
// "--no-" prefix inverts the result.
func scanBool(value string, assigned, negated bool) (bool, bool) {
	v := true

	if assigned {
		var err error
		if v, err = strconv.ParseBool(value); err != nil {
			return false, false
		}
	}

	return v != negated, true
}
