package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ecoscript/lang"
	"github.com/ardnew/ecoscript/log"
)

// resolveEco returns a [kong.ConfigurationLoader] for configuration files
// written in EcoScript.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolveEco(ctx), "/path/to/config.eco")
//
// The file is run as a program with output discarded, and every global it
// declares becomes the value of the flag with the same name. Underscores in
// global names stand for the hyphens of flag names, and functions are
// ignored.
//
// Example config.eco:
//
//	let log_level = "debug"
//	let log_format = "json"
//	let log_pretty = false
//
// A file that fails to parse or run is reported as a warning and yields an
// empty configuration. Command-line flags override config file values.
func resolveEco(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		prog, err := lang.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration", slog.Any("error", err))

			return config{}, nil
		}

		eval := lang.NewEvaluator(
			lang.WithOutput(io.Discard),
			lang.WithLogger(log.Default()),
		)

		if _, err := eval.Evaluate(ctx, prog, nil); err != nil {
			log.WarnContext(ctx, "ignoring configuration", slog.Any("error", err))

			return config{}, nil
		}

		conf := config{}

		for name, value := range eval.Global().Local() {
			if _, ok := value.(lang.Callable); ok || value == nil {
				continue
			}

			conf[name] = flagText(value)
		}

		return conf, nil
	}
}

// resolveYAML is a [kong.ConfigurationLoader] for YAML configuration files.
// Nested mappings are flattened by joining keys with "-", so
//
//	log:
//	  level: debug
//
// sets the --log-level flag.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	conf := config{}
	flatten(conf, "", doc)

	return conf, nil
}

func flatten(conf config, prefix string, m map[string]any) {
	for key, value := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			flatten(conf, key, v)

		case []any:
			items := make([]any, len(v))
			for i, item := range v {
				items[i] = flagText(item)
			}

			conf[key] = items

		case nil:

		default:
			conf[key] = flagText(v)
		}
	}
}

// flagText returns v in a form kong accepts for any flag type. Numbers are
// formatted as strings.
func flagText(v any) any {
	switch v := lang.FromGo(v).(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return v
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but EcoScript identifiers
	// use underscores. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
