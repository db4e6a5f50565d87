package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ardnew/ecoscript/log"
)

// Evaluator executes syntax trees against a root [Environment].
//
// The root environment persists across calls to [Evaluator.Evaluate] and
// [Evaluator.Run], so bindings made by one program are visible to the next.
// An Evaluator is not safe for concurrent use.
type Evaluator struct {
	global   *Environment
	out      io.Writer
	logger   log.Logger
	maxDepth int
	depth    int
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithOutput sets the writer used by the print builtin. The default is
// [os.Stdout].
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) {
		if w == nil {
			w = io.Discard
		}

		e.out = w
	}
}

// WithLogger sets the logger used for evaluation tracing.
func WithLogger(logger log.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// WithMaxDepth limits the nesting of calls. Exceeding the limit fails with
// [ErrMaxDepthExceeded]. Zero, the default, means no limit.
func WithMaxDepth(depth int) Option {
	return func(e *Evaluator) { e.maxDepth = max(depth, 0) }
}

// NewEvaluator returns an Evaluator whose root environment binds the print
// builtin.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{out: os.Stdout}

	for _, opt := range opts {
		opt(e)
	}

	e.global = NewEnvironment(nil)
	e.global.Set("print", NewBuiltin("print", e.print))

	return e
}

// Global returns the root environment.
func (e *Evaluator) Global() *Environment { return e.global }

// Define binds name in the root environment. Go numeric values are
// converted with [FromGo].
func (e *Evaluator) Define(name string, value any) {
	e.global.Set(name, FromGo(value))
}

// Run parses source and evaluates it in the root environment, returning the
// value of the last top-level statement.
func (e *Evaluator) Run(ctx context.Context, source string) (any, error) {
	prog, err := ParseString(ctx, source, WithParseLogger(e.logger))
	if err != nil {
		return nil, err
	}

	return e.Evaluate(ctx, prog, nil)
}

// Evaluate evaluates node in env, or in the root environment when env is
// nil.
//
// A [*Program] yields the value of its last statement. Declarations,
// blocks, conditionals and loops yield nil. A return statement reached
// outside any function call fails with [ErrReturnOutsideFunction].
func (e *Evaluator) Evaluate(
	ctx context.Context,
	node Node,
	env *Environment,
) (any, error) {
	if env == nil {
		env = e.global
	}

	start := time.Now()

	var (
		c   completion
		err error
	)

	switch n := node.(type) {
	case Expr:
		c.value, err = e.eval(ctx, n, env)
	default:
		c, err = e.exec(ctx, n, env)
	}

	if err == nil && c.returning {
		err = ErrReturnOutsideFunction.At(c.at)
	}

	if err != nil {
		e.logger.TraceContext(ctx, "evaluate failed",
			slog.Any("error", err),
			slog.Duration("elapsed", time.Since(start)))

		return nil, err
	}

	e.logger.TraceContext(ctx, "evaluate complete",
		slog.String("result_type", TypeName(c.value)),
		slog.Duration("elapsed", time.Since(start)))

	return c.value, nil
}

// completion is the outcome of executing a statement. A set returning flag
// means a return statement is unwinding toward the nearest call, carrying
// value.
type completion struct {
	value     any
	at        Position
	returning bool
}

// exec executes a statement or program.
func (e *Evaluator) exec(
	ctx context.Context,
	node Node,
	env *Environment,
) (completion, error) {
	switch n := node.(type) {
	case *Program:
		var last any

		for _, s := range n.Body {
			c, err := e.exec(ctx, s, env)
			if err != nil || c.returning {
				return c, err
			}

			last = c.value
		}

		return completion{value: last}, nil

	case *LetStmt:
		var (
			v   any
			err error
		)

		if n.Expr != nil {
			if v, err = e.eval(ctx, n.Expr, env); err != nil {
				return completion{}, err
			}
		}

		env.Set(n.Name, v)

		return completion{}, nil

	case *ExprStmt:
		v, err := e.eval(ctx, n.Expr, env)

		return completion{value: v}, err

	case *PrintStmt:
		v, err := e.eval(ctx, n.Expr, env)
		if err != nil {
			return completion{}, err
		}

		if fn, ok := env.Lookup("print"); ok {
			if _, ok := fn.(Callable); ok {
				v, err = e.call(ctx, fn, []any{v}, n.Pos())

				return completion{value: v}, err
			}
		}

		return completion{}, e.writeLine(v)

	case *Block:
		return e.execBlock(ctx, n, env.Child())

	case *IfStmt:
		cond, err := e.eval(ctx, n.Condition, env)
		if err != nil {
			return completion{}, err
		}

		switch {
		case Truthy(cond):
			return e.branch(ctx, n.Then, env)
		case n.Else != nil:
			return e.branch(ctx, n.Else, env)
		}

		return completion{}, nil

	case *WhileStmt:
		for {
			if err := interrupted(ctx, n.Pos()); err != nil {
				return completion{}, err
			}

			cond, err := e.eval(ctx, n.Condition, env)
			if err != nil {
				return completion{}, err
			}

			if !Truthy(cond) {
				return completion{}, nil
			}

			c, err := e.execBlock(ctx, n.Body, env.Child())
			if err != nil || c.returning {
				return c, err
			}
		}

	case *FunctionDecl:
		env.Set(n.Name, &Function{Decl: n, Env: env})

		return completion{}, nil

	case *ReturnStmt:
		var (
			v   any
			err error
		)

		if n.Expr != nil {
			if v, err = e.eval(ctx, n.Expr, env); err != nil {
				return completion{}, err
			}
		}

		return completion{value: v, returning: true, at: n.Pos()}, nil

	case nil:
		return completion{}, ErrInvalidNode.Errorf("nil node")
	}

	return completion{}, ErrInvalidNode.
		Errorf("%T is not a statement", node).
		At(node.Pos())
}

// branch executes a conditional branch in a child of env. Only a returning
// completion escapes; a branch otherwise yields nil.
func (e *Evaluator) branch(
	ctx context.Context,
	b *Block,
	env *Environment,
) (completion, error) {
	c, err := e.execBlock(ctx, b, env.Child())
	if err != nil || c.returning {
		return c, err
	}

	return completion{}, nil
}

// execBlock executes the statements of b directly in scope.
func (e *Evaluator) execBlock(
	ctx context.Context,
	b *Block,
	scope *Environment,
) (completion, error) {
	if b == nil {
		return completion{}, nil
	}

	for _, s := range b.Statements {
		c, err := e.exec(ctx, s, scope)
		if err != nil || c.returning {
			return c, err
		}
	}

	return completion{}, nil
}

// eval evaluates an expression.
func (e *Evaluator) eval(
	ctx context.Context,
	x Expr,
	env *Environment,
) (any, error) {
	switch n := x.(type) {
	case *NumberLiteral:
		return FromGo(n.Value), nil

	case *StringLiteral:
		return n.Value, nil

	case *BooleanLiteral:
		return n.Value, nil

	case *Identifier:
		v, err := env.Get(n.Name)

		return v, locate(err, n.Pos())

	case *BinaryOp:
		l, err := e.eval(ctx, n.Left, env)
		if err != nil {
			return nil, err
		}

		r, err := e.eval(ctx, n.Right, env)
		if err != nil {
			return nil, err
		}

		v, err := binaryOp(n.Op, l, r)

		return v, locate(err, n.Pos())

	case *UnaryOp:
		v, err := e.eval(ctx, n.Operand, env)
		if err != nil {
			return nil, err
		}

		v, err = unaryOp(n.Op, v)

		return v, locate(err, n.Pos())

	case *CallExpr:
		var (
			callee any
			err    error
		)

		if id, ok := n.Callee.(*Identifier); ok {
			callee, err = env.Get(id.Name)
			err = locate(err, id.Pos())
		} else {
			callee, err = e.eval(ctx, n.Callee, env)
		}

		if err != nil {
			return nil, err
		}

		args := make([]any, len(n.Args))

		for i, a := range n.Args {
			if args[i], err = e.eval(ctx, a, env); err != nil {
				return nil, err
			}
		}

		return e.call(ctx, callee, args, n.Pos())

	case nil:
		return nil, ErrInvalidNode.Errorf("nil expression")
	}

	return nil, ErrInvalidNode.Errorf("%T is not an expression", x).At(x.Pos())
}

// call invokes callee with evaluated arguments.
//
// A user function runs its body in a new scope enclosed by the scope it was
// declared in, with parameters bound positionally. Missing arguments bind
// nil and extra arguments are ignored.
func (e *Evaluator) call(
	ctx context.Context,
	callee any,
	args []any,
	at Position,
) (any, error) {
	if err := interrupted(ctx, at); err != nil {
		return nil, err
	}

	if e.maxDepth > 0 && e.depth >= e.maxDepth {
		return nil, ErrMaxDepthExceeded.
			With(slog.Int("max_depth", e.maxDepth)).
			At(at)
	}

	switch fn := callee.(type) {
	case *Builtin:
		e.depth++
		defer func() { e.depth-- }()

		v, err := fn.Call(ctx, args...)

		return FromGo(v), locate(err, at)

	case *Function:
		e.depth++
		defer func() { e.depth-- }()

		scope := fn.Env.Child()

		for i, p := range fn.Decl.Params {
			var v any
			if i < len(args) {
				v = args[i]
			}

			scope.Set(p, v)
		}

		c, err := e.execBlock(ctx, fn.Decl.Body, scope)
		if err != nil {
			return nil, err
		}

		if c.returning {
			return c.value, nil
		}

		return nil, nil
	}

	return nil, ErrNotCallable.Errorf("%s", TypeName(callee)).At(at)
}

// print is the print builtin: it writes the textual forms of its arguments
// separated by spaces and followed by a newline.
func (e *Evaluator) print(_ context.Context, args ...any) (any, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Stringify(a)
	}

	_, err := io.WriteString(e.out, strings.Join(parts, " ")+"\n")
	if err != nil {
		return nil, WrapError(err)
	}

	return nil, nil
}

// writeLine is the print statement fallback used when print is unbound or
// not callable.
func (e *Evaluator) writeLine(v any) error {
	_, err := e.print(context.Background(), v)

	return err
}

// interrupted fails with [ErrInterrupted] once ctx is done.
func interrupted(ctx context.Context, at Position) error {
	if err := ctx.Err(); err != nil {
		return ErrInterrupted.Wrap(err).At(at)
	}

	return nil
}

// locate records pos on err when it is an [*Error] without a position.
func locate(err error, pos Position) error {
	if err == nil {
		return nil
	}

	var ee *Error
	if errors.As(err, &ee) && err == error(ee) {
		return ee.At(pos)
	}

	return err
}
