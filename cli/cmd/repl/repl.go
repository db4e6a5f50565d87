// Package repl implements the interactive front end of the interpreter.
//
// [Session] holds the line-buffering rules shared by every front end.
// [Run] drives a Session either through a terminal user interface, when
// both input and output are terminals, or through a plain line loop.
package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/ecoscript/lang"
	"github.com/ardnew/ecoscript/log"
)

// maxLineSize bounds the length of one line read by the plain loop.
const maxLineSize = 1 << 20

// Option configures [Run].
type Option func(*config)

type config struct {
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	logger     log.Logger
	setup      func(*lang.Evaluator) error
	historyDir string
	evalOpts   []lang.Option
	plain      bool
}

func makeConfig(opts ...Option) config {
	cfg := config{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithInput sets the input. The default is [os.Stdin].
func WithInput(r io.Reader) Option { return func(c *config) { c.in = r } }

// WithOutput sets the output for results and print. The default is
// [os.Stdout].
func WithOutput(w io.Writer) Option { return func(c *config) { c.out = w } }

// WithErrorOutput sets where the plain loop reports errors. The default is
// [os.Stderr].
func WithErrorOutput(w io.Writer) Option { return func(c *config) { c.errOut = w } }

// WithLogger sets the logger of the session and its evaluator.
func WithLogger(logger log.Logger) Option { return func(c *config) { c.logger = logger } }

// WithHistoryDir persists the terminal interface's history in dir.
func WithHistoryDir(dir string) Option { return func(c *config) { c.historyDir = dir } }

// WithPlain forces the plain line loop.
func WithPlain(plain bool) Option { return func(c *config) { c.plain = plain } }

// WithEvaluatorOptions adds options for the session's evaluator.
func WithEvaluatorOptions(opts ...lang.Option) Option {
	return func(c *config) { c.evalOpts = append(c.evalOpts, opts...) }
}

// WithSetup registers fn to prepare the evaluator, e.g. by binding host
// globals, before the first line is read.
func WithSetup(fn func(*lang.Evaluator) error) Option {
	return func(c *config) { c.setup = fn }
}

// Run reads and evaluates input until it ends, the user exits or ctx is
// done.
func Run(ctx context.Context, opts ...Option) error {
	cfg := makeConfig(opts...)

	cache, err := lang.NewCache(lang.DefaultCacheSize)
	if err != nil {
		return err
	}
	defer cache.Close()

	tui := !cfg.plain && isTerminal(cfg.in) && isTerminal(cfg.out)

	cfg.logger.TraceContext(ctx, "repl start",
		slog.Bool("tui", tui),
		slog.String("history_dir", cfg.historyDir))

	if tui {
		return runTUI(ctx, cfg, cache)
	}

	return runPlain(ctx, cfg, cache)
}

func (c config) newSession(cache *lang.Cache, out io.Writer) (*Session, error) {
	opts := append(
		[]lang.Option{lang.WithOutput(out), lang.WithLogger(c.logger)},
		c.evalOpts...,
	)

	eval := lang.NewEvaluator(opts...)

	if c.setup != nil {
		if err := c.setup(eval); err != nil {
			return nil, err
		}
	}

	return NewSession(eval, cache, c.logger), nil
}

// runPlain reads lines until end of input. Prompts are written only when
// the input is a terminal. Input held for more indented lines when input
// ends is evaluated before returning.
func runPlain(ctx context.Context, cfg config, cache *lang.Cache) error {
	sess, err := cfg.newSession(cache, cfg.out)
	if err != nil {
		return err
	}

	prompt := isTerminal(cfg.in)

	scanner := bufio.NewScanner(cfg.in)
	scanner.Buffer(nil, maxLineSize)

	report := func(res Result, err error) (exit bool) {
		switch {
		case err != nil:
			_, _ = fmt.Fprintf(cfg.errOut, "error: %v\n", err)
		case res.Status == StatusExit:
			return true
		case res.Status == StatusDone && res.Value != nil:
			_, _ = fmt.Fprintln(cfg.out, lang.Repr(res.Value))
		}

		return ctx.Err() != nil
	}

	for {
		if prompt {
			_, _ = io.WriteString(cfg.out, sess.Prompt())
		}

		if !scanner.Scan() {
			break
		}

		if report(sess.Feed(ctx, scanner.Text())) {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return lang.ErrReadInput.Wrap(err)
	}

	if sess.Pending() {
		report(sess.Feed(ctx, ""))
	}

	return nil
}

func runTUI(ctx context.Context, cfg config, cache *lang.Cache) error {
	out := &printer{}

	sess, err := cfg.newSession(cache, out)
	if err != nil {
		return err
	}

	var path string
	if cfg.historyDir != "" {
		path = filepath.Join(cfg.historyDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		cfg.logger.WarnContext(ctx, "history not loaded",
			slog.String("path", path),
			slog.Any("error", err))
	}

	m := newModel(ctx, sess, history, cfg.logger)
	m.flush = out.Flush

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cfg.in),
		tea.WithOutput(cfg.out))

	out.emit = func(line string) { p.Println(line) }

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

// printer forwards the evaluator's output to the terminal interface one
// complete line at a time, so it appears above the prompt.
type printer struct {
	emit func(string)
	buf  bytes.Buffer
	mu   sync.Mutex
}

func (p *printer) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf.Write(b)

	for {
		i := bytes.IndexByte(p.buf.Bytes(), '\n')
		if i < 0 {
			break
		}

		line := string(p.buf.Next(i + 1))
		p.emitLine(line[:i])
	}

	return len(b), nil
}

// Flush emits a trailing partial line.
func (p *printer) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.buf.Len() > 0 {
		p.emitLine(p.buf.String())
		p.buf.Reset()
	}
}

func (p *printer) emitLine(line string) {
	if p.emit != nil {
		p.emit(outputStyle.Render(line))
	}
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
