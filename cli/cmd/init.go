package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ecoscript/lang"
	"github.com/ardnew/ecoscript/log"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Configuration file formats.
const (
	formatEco = "eco"
)

// Init generates a default configuration file with current flag values.
type Init struct {
	Force  bool   `help:"Overwrite existing configuration file"                    short:"f"`
	Format string `help:"Configuration file format (${enum})." default:"eco" enum:"eco,json,yaml" short:"o"`
}

// configEntry is a flag and its current value.
type configEntry struct {
	value any
	name  string
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	base := kongVar(ctx, ConfigIdentifier)
	if base == "" {
		panic("internal error: config path undefined")
	}

	confPath := base + "." + i.Format

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			File(confPath).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			File(confPath).
			Wrap(err)
	}
	defer file.Close()

	if err := i.write(file, i.entries(ctx)); err != nil {
		return ErrWriteConfig.
			File(confPath).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.String("format", i.Format),
	)

	return nil
}

// entries returns the application flags and their current values, in
// declaration order. Unset values are omitted.
func (i *Init) entries(ctx context.Context) []configEntry {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	prefixIgnore := []string{"help", "version", "pprof"}

	var entries []configEntry

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx, flag); val != nil {
			entries = append(entries, configEntry{name: flag.Name, value: val})
		}
	}

	return entries
}

// flagValue returns the value of flag as a bool, int64, float64, string or
// []string, or nil if unset.
func flagValue(ktx *kong.Context, flag *kong.Flag) any {
	switch v := ktx.FlagValue(flag).(type) {
	case nil:
		return nil

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return lang.FromGo(v)

	default:
		return fmt.Sprint(v)
	}
}

// write encodes entries in the configured format.
func (i *Init) write(w io.Writer, entries []configEntry) error {
	switch i.Format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", strings.Repeat(" ", defaultConfigIndent))

		if err := enc.Encode(entryMap(entries)); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	case formatYAML:
		data, err := yaml.MarshalWithOptions(
			entryMap(entries), yaml.Indent(defaultConfigIndent),
		)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err
	}

	return writeEco(w, entries)
}

func entryMap(entries []configEntry) map[string]any {
	m := make(map[string]any, len(entries))
	for _, e := range entries {
		m[e.name] = e.value
	}

	return m
}

// writeEco writes one global declaration per entry. Flag names map to
// identifiers by replacing "-" with "_", and lists are joined with ",".
func writeEco(w io.Writer, entries []configEntry) error {
	bw := bufio.NewWriter(w)

	for _, e := range entries {
		value := e.value
		if list, ok := value.([]string); ok {
			value = strings.Join(list, ",")
		}

		fmt.Fprintf(bw, "let %s = %s\n",
			strings.ReplaceAll(e.name, "-", "_"), lang.Repr(value))
	}

	return bw.Flush()
}
