package cmd

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"

	"github.com/ardnew/ecoscript/cli/cmd/repl"
	"github.com/ardnew/ecoscript/lang"
	"github.com/ardnew/ecoscript/log"
)

// Run runs scripts, or starts the interactive interpreter when none are
// named.
type Run struct {
	Define   []string `help:"Bind global NAME to the value of expression EXPR before running." placeholder:"NAME=EXPR" sep:"none" short:"D"`
	Path     string   `help:"Directories searched for script names."                            placeholder:"DIRS"      env:"ECOSCRIPT_PATH"`
	MaxDepth int      `help:"Limit the nesting of function calls (0 is unlimited)."             default:"0"`
	Plain    bool     `help:"Use the plain line interface even on a terminal."`

	Files []string `arg:"" help:"Script files to run in order, or '-' for stdin." name:"file" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()

	globals, err := defineGlobals(r.Define)
	if err != nil {
		return err
	}

	opts := []lang.Option{
		lang.WithLogger(logger),
		lang.WithMaxDepth(r.MaxDepth),
	}

	setup := bindGlobals(globals)

	if len(r.Files) == 0 {
		return repl.Run(ctx,
			repl.WithOutput(stdout(ctx)),
			repl.WithLogger(logger),
			repl.WithHistoryDir(kongVar(ctx, CacheIdentifier)),
			repl.WithPlain(r.Plain),
			repl.WithEvaluatorOptions(opts...),
			repl.WithSetup(setup),
		)
	}

	srcs, err := openSources(r.Files, searchPath(r.Path))
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	eval := lang.NewEvaluator(append(opts, lang.WithOutput(stdout(ctx)))...)
	if err := setup(eval); err != nil {
		return ErrRun.Wrap(err)
	}

	for _, src := range srcs {
		logger.DebugContext(ctx, "run script", slog.String("file", src.name))

		prog, err := lang.ParseReader(ctx, src, lang.WithParseLogger(logger))
		if err != nil {
			return ErrRun.File(src.name).Wrap(err)
		}

		if _, err := eval.Evaluate(ctx, prog, nil); err != nil {
			return ErrRun.File(src.name).Wrap(err)
		}
	}

	return nil
}

// global is a host value bound before a program runs.
type global struct {
	value any
	name  string
}

// defineGlobals evaluates each NAME=EXPR definition with expr. Later
// definitions of a name replace earlier ones.
func defineGlobals(defs []string) ([]global, error) {
	env := defineEnv()
	out := make([]global, 0, len(defs))

	for _, def := range defs {
		name, src, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)

		if !ok || !isIdentifier(name) {
			return nil, ErrDefine.With(slog.String("define", def))
		}

		program, err := expr.Compile(src, expr.Env(env))
		if err != nil {
			return nil, ErrDefine.With(slog.String("define", def)).Wrap(err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return nil, ErrDefine.With(slog.String("define", def)).Wrap(err)
		}

		value, err := hostValue(result)
		if err != nil {
			return nil, ErrDefine.With(slog.String("define", def)).Wrap(err)
		}

		out = append(out, global{name: name, value: value})
	}

	return out, nil
}

// bindGlobals returns a function defining globals in the root environment
// of an evaluator.
func bindGlobals(globals []global) func(*lang.Evaluator) error {
	return func(e *lang.Evaluator) error {
		for _, g := range globals {
			if g.name == "" {
				return ErrDefine.With(slog.Any("value", g.value))
			}

			e.Define(g.name, g.value)
		}

		return nil
	}
}

// defineEnv is the environment of definition expressions.
func defineEnv() map[string]any {
	return map[string]any{
		"env":      os.Getenv,
		"platform": runtime.GOOS + "/" + runtime.GOARCH,
		"cwd": func() string {
			dir, _ := os.Getwd()

			return dir
		},
		"prefix": func(list string, items ...string) string {
			return mung.Make(
				mung.WithSubjectItems(list),
				mung.WithDelim(string(os.PathListSeparator)),
				mung.WithPrefixItems(items...),
			).String()
		},
	}
}

// hostValue converts the result of a definition expression to a runtime
// value.
func hostValue(v any) (any, error) {
	switch v := lang.FromGo(v).(type) {
	case nil, bool, int64, float64, string:
		return v, nil
	default:
		return nil, lang.ErrType.Errorf("unsupported definition type %T", v)
	}
}

func isIdentifier(name string) bool {
	if name == "" || slices.Contains(lang.Keywords(), name) {
		return false
	}

	for i, c := range name {
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && '0' <= c && c <= '9':
		default:
			return false
		}
	}

	return true
}
