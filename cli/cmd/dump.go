package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/ecoscript/lang"
	"github.com/ardnew/ecoscript/log"
)

// Output formats of the tokens and ast commands.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// dumpFlags are shared by the tokens and ast commands.
type dumpFlags struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})." short:"o"`
	Indent int    `default:"2"                           help:"Indent width of JSON and YAML output." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// read returns the text of the source file.
func (d *dumpFlags) read() (string, error) {
	var r io.Reader = os.Stdin

	if d.Source != stdinSource {
		file, err := os.Open(d.Source)
		if err != nil {
			return "", ErrOpenSource.File(d.Source).Wrap(err)
		}
		defer file.Close()

		r = file
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", lang.ErrReadInput.Wrap(err).With(slog.String("file", d.Source))
	}

	return string(data), nil
}

// encode writes v in the JSON or YAML format.
func (d *dumpFlags) encode(w io.Writer, v any) error {
	switch d.Format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", fmt.Sprintf("%*s", d.Indent, ""))

		if err := enc.Encode(v); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	case formatYAML:
		data, err := yaml.MarshalWithOptions(v, yaml.Indent(max(d.Indent, 1)))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err
	}

	return ErrJSONMarshal.With(slog.String("format", d.Format))
}

// Tokens prints the token stream of a script.
type Tokens dumpFlags

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	d := (*dumpFlags)(t)

	src, err := d.read()
	if err != nil {
		return err
	}

	toks, err := lang.Tokenize(src)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "tokenized",
		slog.String("file", t.Source),
		slog.Int("token_count", len(toks)))

	w := stdout(ctx)

	if t.Format != formatText {
		return d.encode(w, lang.TokensToMaps(toks))
	}

	bw := bufio.NewWriter(w)
	for _, tok := range toks {
		fmt.Fprintf(bw, "%d:%d\t%s\n", tok.Line, tok.Column, tok)
	}

	return bw.Flush()
}

// AST prints the syntax tree of a script.
type AST dumpFlags

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	d := (*dumpFlags)(a)

	src, err := d.read()
	if err != nil {
		return err
	}

	prog, err := lang.ParseString(ctx, src, lang.WithParseLogger(log.Default()))
	if err != nil {
		return err
	}

	w := stdout(ctx)

	if a.Format != formatText {
		return d.encode(w, lang.NodeToMap(prog))
	}

	return lang.Fprint(w, prog)
}
