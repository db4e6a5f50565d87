package lang

import (
	"errors"
	"slices"
	"testing"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}

	return out
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Kind
	}{
		{
			name:  "empty",
			input: "",
			want:  []Kind{KindEOF},
		},
		{
			name:  "declaration",
			input: "let x = 10",
			want:  []Kind{KindLet, KindIdent, KindOp, KindNumber, KindNewline, KindEOF},
		},
		{
			name:  "indent and dedent",
			input: "if (a)\n  b\nc",
			want: []Kind{
				KindIf, KindLParen, KindIdent, KindRParen, KindNewline,
				KindIndent, KindIdent, KindNewline,
				KindDedent, KindIdent, KindNewline,
				KindEOF,
			},
		},
		{
			name:  "trailing dedent",
			input: "while (x)\n  y\n",
			want: []Kind{
				KindWhile, KindLParen, KindIdent, KindRParen, KindNewline,
				KindIndent, KindIdent, KindNewline,
				KindDedent, KindEOF,
			},
		},
		{
			name:  "blank lines skipped",
			input: "a\n\n   \n\t\nb",
			want:  []Kind{KindIdent, KindNewline, KindIdent, KindNewline, KindEOF},
		},
		{
			name:  "tab counts as four",
			input: "f\n\tx\n    y",
			want: []Kind{
				KindIdent, KindNewline,
				KindIndent, KindIdent, KindNewline,
				KindIdent, KindNewline,
				KindDedent, KindEOF,
			},
		},
		{
			name:  "multiple dedents",
			input: "a\n  b\n    c\nd",
			want: []Kind{
				KindIdent, KindNewline,
				KindIndent, KindIdent, KindNewline,
				KindIndent, KindIdent, KindNewline,
				KindDedent, KindDedent, KindIdent, KindNewline,
				KindEOF,
			},
		},
		{
			name:  "crlf line endings",
			input: "a\r\nb\r\n",
			want:  []Kind{KindIdent, KindNewline, KindIdent, KindNewline, KindEOF},
		},
		{
			name:  "keywords",
			input: "let var const function return if else while for print true false",
			want: []Kind{
				KindLet, KindVar, KindConst, KindFunction, KindReturn, KindIf,
				KindElse, KindWhile, KindFor, KindPrint, KindTrue, KindFalse,
				KindNewline, KindEOF,
			},
		},
		{
			name:  "keywords are case sensitive",
			input: "Let IF",
			want:  []Kind{KindIdent, KindIdent, KindNewline, KindEOF},
		},
		{
			name:  "punctuation",
			input: "(){},;",
			want: []Kind{
				KindLParen, KindRParen, KindLBrace, KindRBrace, KindComma,
				KindSemicol, KindNewline, KindEOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := kinds(toks); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTokenize_Operators_LongestMatch(t *testing.T) {
	toks, err := Tokenize("a<=b==c&&d||!e!=f>=g<h>i=j")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ops []string

	for _, tok := range toks {
		if tok.Kind == KindOp {
			ops = append(ops, tok.Text)
		}
	}

	want := []string{"<=", "==", "&&", "||", "!", "!=", ">=", "<", ">", "="}
	if !slices.Equal(ops, want) {
		t.Errorf("expected %v, got %v", want, ops)
	}
}

func TestTokenize_Values(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		want  any
	}{
		{"42", KindNumber, int64(42)},
		{"3.14", KindNumber, 3.14},
		{"007", KindNumber, int64(7)},
		{`"hello"`, KindString, "hello"},
		{`'single'`, KindString, "single"},
		{`"a\nb"`, KindString, "a\nb"},
		{`"tab\there"`, KindString, "tab\there"},
		{`'it\'s'`, KindString, "it's"},
		{`"say \"hi\""`, KindString, `say "hi"`},
		{`"back\\slash"`, KindString, `back\slash`},
		{`"\x41é"`, KindString, "Aé"},
		{`"\q"`, KindString, `\q`},
		{`"it's"`, KindString, "it's"},
		{"name_1", KindIdent, "name_1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if toks[0].Kind != tt.kind {
				t.Fatalf("expected kind %v, got %v", tt.kind, toks[0].Kind)
			}

			if toks[0].Value != tt.want {
				t.Errorf("expected value %#v, got %#v", tt.want, toks[0].Value)
			}
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	toks, err := Tokenize("let x = 10\n  print(x)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		kind      Kind
		line, col int
	}{
		{KindLet, 1, 1},
		{KindIdent, 1, 5},
		{KindOp, 1, 7},
		{KindNumber, 1, 9},
		{KindNewline, 1, 10},
		{KindIndent, 2, 1},
		{KindPrint, 2, 3},
		{KindLParen, 2, 8},
		{KindIdent, 2, 9},
		{KindRParen, 2, 10},
		{KindNewline, 2, 10},
		{KindDedent, 2, 1},
		{KindEOF, 2, 0},
	}

	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}

	for i, w := range want {
		got := toks[i]
		if got.Kind != w.kind || got.Line != w.line || got.Column != w.col {
			t.Errorf(
				"token %d: expected %v@%d:%d, got %v@%d:%d",
				i, w.kind, w.line, w.col, got.Kind, got.Line, got.Column,
			)
		}
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		char      rune
		line, col int
	}{
		{"unknown character", "x = @", '@', 1, 5},
		{"dangling decimal point", "42 3.14 7.", '.', 1, 10},
		{"unterminated string", `print("abc)`, '"', 1, 7},
		{"second line", "a\n  b # c", '#', 2, 5},
		{"form feed inside line", "a\fb", '\f', 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !errors.Is(err, ErrLex) {
				t.Errorf("expected ErrLex, got %v", err)
			}

			var le *LexError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LexError, got %T", err)
			}

			if le.Char != tt.char || le.Line != tt.line || le.Column != tt.col {
				t.Errorf(
					"expected %q@%d:%d, got %q@%d:%d",
					tt.char, tt.line, tt.col, le.Char, le.Line, le.Column,
				)
			}
		})
	}
}

func FuzzTokenize(f *testing.F) {
	f.Add("let x = 1 + 2")
	f.Add("function f(a)\n  return a\n")
	f.Add("if (x) { print(\"y\") } else { print('z') }")
	f.Add("\t\t\n  \r\n'\\")

	f.Fuzz(func(t *testing.T, src string) {
		toks, err := Tokenize(src)
		if err != nil {
			if !errors.Is(err, ErrLex) {
				t.Fatalf("unexpected error kind: %v", err)
			}

			return
		}

		if toks[len(toks)-1].Kind != KindEOF {
			t.Fatalf("last token is %v, not EOF", toks[len(toks)-1])
		}

		depth := 0

		for _, tok := range toks {
			switch tok.Kind {
			case KindIndent:
				depth++
			case KindDedent:
				depth--
			}

			if depth < 0 {
				t.Fatal("dedent without matching indent")
			}
		}

		if depth != 0 {
			t.Fatalf("unbalanced indentation: %d", depth)
		}

		// Parsing must not panic on any token stream.
		_, _ = Parse(toks)
	})
}
