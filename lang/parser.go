package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/ecoscript/log"
)

// ParseOption configures [ParseString] and [ParseReader].
type ParseOption func(*parseConfig)

type parseConfig struct {
	logger log.Logger
}

// WithParseLogger sets the logger used for parse tracing.
func WithParseLogger(logger log.Logger) ParseOption {
	return func(c *parseConfig) { c.logger = logger }
}

func makeParseConfig(opts ...ParseOption) parseConfig {
	var c parseConfig

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// ParseString tokenizes and parses source.
func ParseString(
	ctx context.Context,
	source string,
	opts ...ParseOption,
) (*Program, error) {
	cfg := makeParseConfig(opts...)

	toks, err := Tokenize(source)
	if err != nil {
		cfg.logger.TraceContext(ctx, "tokenize failed", slog.Any("error", err))

		return nil, err
	}

	prog, err := Parse(toks)
	if err != nil {
		cfg.logger.TraceContext(ctx, "parse failed",
			slog.Any("error", err),
			slog.Bool("incomplete", IsIncomplete(err)))

		return nil, err
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(toks)),
		slog.Int("statement_count", len(prog.Body)))

	return prog, nil
}

// ParseReader parses all input read from r.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...ParseOption,
) (*Program, error) {
	// Read ahead asynchronously so I/O overlaps with buffering.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}

// Parse builds a [Program] from a token sequence as produced by [Tokenize].
//
// Parsing stops at the first error, which is always a [*SyntaxError].
func Parse(toks []Token) (*Program, error) {
	if n := len(toks); n == 0 || toks[n-1].Kind != KindEOF {
		eof := Token{Kind: KindEOF}
		if n > 0 {
			eof.Line = toks[n-1].Line
		}

		toks = append(toks[:n:n], eof)
	}

	p := &parser{toks: toks}

	return p.parseProgram()
}

type parser struct {
	toks []Token
	pos  int

	// owed counts dedents consumed inside braces that close enclosing
	// indentation blocks. stray counts upcoming dedents that close
	// indentation opened inside braces already closed.
	owed, stray int
}

func (p *parser) peek() Token { return p.toks[p.pos] }

// advance consumes the current token. The final EOF is never consumed.
func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != KindEOF {
		p.pos++
	}

	return t
}

// accept consumes the current token when it matches.
func (p *parser) accept(kind Kind, text ...string) bool {
	if p.peek().Is(kind, text...) {
		p.advance()

		return true
	}

	return false
}

func (p *parser) expect(kind Kind) (Token, error) {
	if t := p.peek(); t.Kind == kind {
		return p.advance(), nil
	}

	return Token{}, p.errorf(kind.String(), "")
}

// errorf reports a syntax error at the current token.
func (p *parser) errorf(expected, msg string) error {
	return &SyntaxError{
		Msg:        msg,
		Expected:   expected,
		Found:      p.peek(),
		Incomplete: p.exhausted(),
	}
}

// exhausted reports whether only structural tokens remain.
func (p *parser) exhausted() bool {
	for _, t := range p.toks[p.pos:] {
		if !t.Kind.isStructural() {
			return false
		}
	}

	return true
}

// skipSeparators consumes statement separators and stray dedents.
func (p *parser) skipSeparators() {
	for {
		switch p.peek().Kind {
		case KindNewline, KindSemicol:
		case KindDedent:
			if p.stray == 0 {
				return
			}

			p.stray--
		default:
			return
		}

		p.advance()
	}
}

// skipLayout consumes separators and indentation inside braces, returning
// the net indentation change.
func (p *parser) skipLayout() (depth int) {
	for {
		switch p.peek().Kind {
		case KindNewline, KindSemicol:
		case KindIndent:
			depth++
		case KindDedent:
			if p.stray > 0 {
				p.stray--
			} else {
				depth--
			}
		default:
			return depth
		}

		p.advance()
	}
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{Position: p.peek().Position()}

	for {
		p.skipSeparators()

		if p.peek().Kind == KindEOF {
			return prog, nil
		}

		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		prog.Body = append(prog.Body, s)
	}
}

func (p *parser) parseStatement() (Stmt, error) {
	switch p.peek().Kind {
	case KindLet, KindVar, KindConst:
		return p.parseLet()
	case KindFunction:
		return p.parseFunction()
	case KindPrint:
		return p.parsePrint()
	case KindIf:
		return p.parseIf()
	case KindWhile:
		return p.parseWhile()
	case KindReturn:
		return p.parseReturn()
	}

	pos := p.peek().Position()

	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	p.accept(KindSemicol)

	return &ExprStmt{Expr: x, Position: pos}, nil
}

// parseLet parses: (let|var|const) IDENT ['=' expression] [';'].
func (p *parser) parseLet() (Stmt, error) {
	kw := p.advance()

	name, err := p.expect(KindIdent)
	if err != nil {
		return nil, err
	}

	s := &LetStmt{Name: name.Text, Keyword: kw.Text, Position: kw.Position()}

	if p.accept(KindOp, "=") {
		if s.Expr, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}

	p.accept(KindSemicol)

	return s, nil
}

// parseFunction parses: function IDENT '(' [IDENT {',' IDENT}] ')' block.
func (p *parser) parseFunction() (Stmt, error) {
	kw := p.advance()

	name, err := p.expect(KindIdent)
	if err != nil {
		return nil, err
	}

	if _, err = p.expect(KindLParen); err != nil {
		return nil, err
	}

	var params []string

	if p.peek().Kind != KindRParen {
		for {
			param, err := p.expect(KindIdent)
			if err != nil {
				return nil, err
			}

			params = append(params, param.Text)

			if !p.accept(KindComma) {
				break
			}
		}
	}

	if _, err = p.expect(KindRParen); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FunctionDecl{
		Name:     name.Text,
		Params:   params,
		Body:     body,
		Position: kw.Position(),
	}, nil
}

// parseCondition parses: '(' expression ')'.
func (p *parser) parseCondition() (Expr, error) {
	if _, err := p.expect(KindLParen); err != nil {
		return nil, err
	}

	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err = p.expect(KindRParen); err != nil {
		return nil, err
	}

	return x, nil
}

// parsePrint parses: print '(' expression ')' [';'].
func (p *parser) parsePrint() (Stmt, error) {
	kw := p.advance()

	x, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	p.accept(KindSemicol)

	return &PrintStmt{Expr: x, Position: kw.Position()}, nil
}

// parseIf parses: if '(' expression ')' block [else block].
func (p *parser) parseIf() (Stmt, error) {
	kw := p.advance()

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	s := &IfStmt{Condition: cond, Position: kw.Position()}

	if s.Then, err = p.parseBlock(); err != nil {
		return nil, err
	}

	if p.accept(KindElse) {
		if s.Else, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// parseWhile parses: while '(' expression ')' block.
func (p *parser) parseWhile() (Stmt, error) {
	kw := p.advance()

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &WhileStmt{Condition: cond, Body: body, Position: kw.Position()}, nil
}

// parseReturn parses: return [expression] [';'].
//
// The expression is omitted when the statement ends at the keyword.
func (p *parser) parseReturn() (Stmt, error) {
	kw := p.advance()
	s := &ReturnStmt{Position: kw.Position()}

	switch p.peek().Kind {
	case KindSemicol:
		p.advance()

		return s, nil

	case KindNewline, KindRBrace, KindDedent, KindEOF:
		return s, nil
	}

	var err error

	if s.Expr, err = p.parseExpression(); err != nil {
		return nil, err
	}

	p.accept(KindSemicol)

	return s, nil
}

// parseBlock parses a brace block or an indentation block, selected by the
// current token.
func (p *parser) parseBlock() (*Block, error) {
	if p.peek().Kind == KindLBrace {
		return p.parseBraceBlock()
	}

	return p.parseIndentBlock()
}

// parseBraceBlock parses: '{' {statement} '}'. Line structure inside braces,
// including indentation, is insignificant.
//
// Indentation levels left open or closed past the opening line when the
// brace closes are settled with the enclosing blocks through owed and stray.
func (p *parser) parseBraceBlock() (*Block, error) {
	open := p.advance()
	b := &Block{Position: open.Position()}

	depth := 0

	for {
		depth -= p.owed
		p.owed = 0
		depth += p.skipLayout()

		switch p.peek().Kind {
		case KindRBrace:
			p.advance()

			if depth > 0 {
				p.stray += depth
			} else {
				p.owed -= depth
			}

			return b, nil

		case KindEOF:
			return nil, p.errorf("", "unexpected EOF in block")
		}

		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		b.Statements = append(b.Statements, s)
	}
}

// parseIndentBlock parses: [NEWLINE] INDENT {statement} DEDENT.
func (p *parser) parseIndentBlock() (*Block, error) {
	p.accept(KindNewline)

	open, err := p.expect(KindIndent)
	if err != nil {
		return nil, err
	}

	b := &Block{Position: open.Position()}

	for {
		if p.owed > 0 {
			p.owed--

			return b, nil
		}

		p.skipSeparators()

		switch p.peek().Kind {
		case KindDedent:
			p.advance()

			return b, nil

		case KindEOF:
			return nil, p.errorf("", "unexpected EOF in indented block")
		}

		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		b.Statements = append(b.Statements, s)
	}
}

// binaryLevels lists binary operators from lowest to highest precedence.
// All levels are left-associative.
//
//nolint:gochecknoglobals
var binaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"==", "!="},
	{"<", ">", "<=", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseBinary(0)
}

// parseBinary parses one precedence level, climbing to the next for operands.
func (p *parser) parseBinary(level int) (Expr, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for p.peek().Is(KindOp, binaryLevels[level]...) {
		op := p.advance()

		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}

		left = &BinaryOp{
			Op:       op.Text,
			Left:     left,
			Right:    right,
			Position: left.Pos(),
		}
	}

	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek().Is(KindOp, "-", "!") {
		op := p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &UnaryOp{Op: op.Text, Operand: operand, Position: op.Position()}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()

	switch t.Kind {
	case KindNumber:
		p.advance()

		return &NumberLiteral{Value: t.Value, Position: t.Position()}, nil

	case KindString:
		p.advance()

		s, _ := t.Value.(string)

		return &StringLiteral{Value: s, Position: t.Position()}, nil

	case KindTrue, KindFalse:
		p.advance()

		return &BooleanLiteral{Value: t.Kind == KindTrue, Position: t.Position()}, nil

	case KindIdent:
		p.advance()

		id := &Identifier{Name: t.Text, Position: t.Position()}
		if p.peek().Kind == KindLParen {
			return p.parseCall(id)
		}

		return id, nil

	case KindLParen:
		p.advance()

		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err = p.expect(KindRParen); err != nil {
			return nil, err
		}

		return x, nil
	}

	return nil, p.errorf("", "")
}

// parseCall parses the argument list following callee.
func (p *parser) parseCall(callee Expr) (Expr, error) {
	p.advance()

	call := &CallExpr{Callee: callee, Position: callee.Pos()}

	if p.peek().Kind != KindRParen {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			call.Args = append(call.Args, arg)

			if !p.accept(KindComma) {
				break
			}
		}
	}

	if _, err := p.expect(KindRParen); err != nil {
		return nil, err
	}

	return call, nil
}
