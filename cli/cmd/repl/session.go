package repl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/ardnew/ecoscript/lang"
	"github.com/ardnew/ecoscript/log"
)

const (
	primaryPrompt      = "> "
	continuationPrompt = "... "

	// exitCommand ends a session when it is entered on a line by itself.
	exitCommand = "exit"
)

// Status tells a front end what [Session.Feed] did with a line.
type Status int

const (
	// StatusPending means the line was buffered and more input is needed.
	StatusPending Status = iota
	// StatusDone means the buffer was evaluated, or failed, and was reset.
	StatusDone
	// StatusExit means the session ended.
	StatusExit
)

// Result is the outcome of feeding one line to a [Session].
type Result struct {
	// Value is the program value when Status is StatusDone and evaluation
	// succeeded.
	Value  any
	Status Status
}

// Session accumulates interactive input and evaluates it once it forms a
// complete program. Bindings persist in the evaluator's root environment
// for the life of the session, including across failed lines.
//
// A line whose parse fails only because input ended inside an open
// construct is buffered silently. An indented line is also held, even when
// the buffer already parses, so that an indentation block can receive more
// than one statement; an empty line or a line at column 1 releases it.
// An empty line does not release input that is still incomplete.
//
// A Session is not safe for concurrent use.
type Session struct {
	eval   *lang.Evaluator
	cache  *lang.Cache
	logger log.Logger
	lines  []string
}

// NewSession returns a session evaluating with eval. A nil cache parses
// every attempt from scratch.
func NewSession(eval *lang.Evaluator, cache *lang.Cache, logger log.Logger) *Session {
	if eval == nil {
		eval = lang.NewEvaluator(lang.WithLogger(logger))
	}

	return &Session{eval: eval, cache: cache, logger: logger}
}

// Evaluator returns the evaluator holding the session's bindings.
func (s *Session) Evaluator() *lang.Evaluator { return s.eval }

// Pending reports whether input is buffered awaiting more lines.
func (s *Session) Pending() bool { return len(s.lines) > 0 }

// Prompt returns the prompt to show before the next line.
func (s *Session) Prompt() string {
	if s.Pending() {
		return continuationPrompt
	}

	return primaryPrompt
}

// Reset discards buffered input.
func (s *Session) Reset() {
	s.lines = s.lines[:0]
}

// Names returns the keywords and the names bound in the root environment,
// sorted and without duplicates.
func (s *Session) Names() []string {
	names := append(lang.Keywords(), s.eval.Global().Names()...)
	slices.Sort(names)

	return slices.Compact(names)
}

// Feed processes one line of input.
//
// A failed parse or evaluation is returned as the error, with Status
// StatusDone and the buffer reset.
func (s *Session) Feed(ctx context.Context, line string) (Result, error) {
	line = strings.TrimRight(line, "\r\n")

	if strings.TrimSpace(line) == exitCommand {
		s.Reset()

		return Result{Status: StatusExit}, nil
	}

	blank := strings.TrimSpace(line) == ""

	switch {
	case blank && !s.Pending():
		return Result{Status: StatusDone}, nil
	case !blank:
		s.lines = append(s.lines, line)
	}

	source := strings.Join(s.lines, "\n")

	prog, err := s.parse(ctx, source)
	if lang.IsIncomplete(err) {
		s.logger.TraceContext(ctx, "session buffering",
			slog.Int("lines", len(s.lines)))

		return Result{Status: StatusPending}, nil
	}

	if err == nil && !blank && indented(line) {
		return Result{Status: StatusPending}, nil
	}

	s.Reset()

	if err != nil {
		return Result{Status: StatusDone}, err
	}

	value, err := s.eval.Evaluate(ctx, prog, nil)
	if err != nil {
		return Result{Status: StatusDone}, err
	}

	return Result{Value: value, Status: StatusDone}, nil
}

func (s *Session) parse(ctx context.Context, source string) (*lang.Program, error) {
	if s.cache != nil {
		return s.cache.Parse(ctx, source, lang.WithParseLogger(s.logger))
	}

	return lang.ParseString(ctx, source, lang.WithParseLogger(s.logger))
}

func indented(line string) bool {
	return line != "" && unicode.IsSpace(rune(line[0]))
}
