package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"log/slog"
	"strconv"
)

// Kind classifies a [Token].
type Kind int

const (
	KindInvalid Kind = iota // INVALID

	KindNumber // NUMBER
	KindString // STRING
	KindIdent  // IDENT
	KindOp     // OP

	KindLet      // LET
	KindVar      // VAR
	KindConst    // CONST
	KindFunction // FUNCTION
	KindReturn   // RETURN
	KindIf       // IF
	KindElse     // ELSE
	KindWhile    // WHILE
	KindFor      // FOR
	KindPrint    // PRINT
	KindTrue     // TRUE
	KindFalse    // FALSE

	KindLParen  // LPAREN
	KindRParen  // RPAREN
	KindLBrace  // LBRACE
	KindRBrace  // RBRACE
	KindComma   // COMMA
	KindSemicol // SEMICOL

	KindIndent  // INDENT
	KindDedent  // DEDENT
	KindNewline // NEWLINE
	KindEOF     // EOF
)

// keywords maps reserved words to their token kinds. Matching is
// case-sensitive.
//
//nolint:gochecknoglobals
var keywords = map[string]Kind{
	"let":      KindLet,
	"var":      KindVar,
	"const":    KindConst,
	"function": KindFunction,
	"return":   KindReturn,
	"if":       KindIf,
	"else":     KindElse,
	"while":    KindWhile,
	"for":      KindFor,
	"print":    KindPrint,
	"true":     KindTrue,
	"false":    KindFalse,
}

// Keywords returns the reserved words of the language in declaration order.
func Keywords() []string {
	return []string{
		"let", "var", "const", "function", "return", "if",
		"else", "while", "for", "print", "true", "false",
	}
}

// IsKeyword reports whether k is the kind of a reserved word.
func (k Kind) IsKeyword() bool { return k >= KindLet && k <= KindFalse }

// isStructural reports whether k carries no content of its own. A parse that
// fails with only structural tokens remaining ran out of input.
func (k Kind) isStructural() bool {
	return k == KindNewline || k == KindDedent || k == KindEOF
}

// Token is a single lexical unit.
//
// Value holds the decoded payload of NUMBER (int64 or float64) and STRING
// (escapes resolved) tokens, and the raw text for all other kinds. Structural
// tokens have an empty Text.
type Token struct {
	Value  any
	Text   string
	Kind   Kind
	Line   int
	Column int
}

// Is reports whether the token has the given kind and, when text is given,
// one of the given texts.
func (t Token) Is(kind Kind, text ...string) bool {
	if t.Kind != kind {
		return false
	}

	if len(text) == 0 {
		return true
	}

	for _, s := range text {
		if t.Text == s {
			return true
		}
	}

	return false
}

// String returns a compact representation used in diagnostics.
func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}

	return t.Kind.String() + "(" + strconv.Quote(t.Text) + ")"
}

// LogValue implements [slog.LogValuer].
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", t.Kind.String()),
		slog.String("text", t.Text),
		slog.Int("line", t.Line),
		slog.Int("column", t.Column),
	)
}

// Position returns the source position of the token.
func (t Token) Position() Position {
	return Position{Line: t.Line, Column: t.Column}
}
