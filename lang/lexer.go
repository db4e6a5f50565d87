package lang

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// tabWidth is the indentation width of a tab character.
const tabWidth = 4

// Tokenize converts source text into a token sequence terminated by
// [KindEOF].
//
// Source is processed line by line. Lines holding only whitespace produce no
// tokens. Each remaining line is preceded by at most one [KindIndent] or any
// number of [KindDedent] tokens, reflecting how its leading indentation
// compares to the enclosing levels, and is followed by one [KindNewline].
// Levels still open at the end of input are closed before [KindEOF].
//
// The only failure is a [*LexError] for a character that starts no token.
func Tokenize(source string) ([]Token, error) {
	lines := splitLines(source)
	toks := make([]Token, 0, len(source)/2+1)
	stack := []int{0}

	for i, line := range lines {
		lineno := i + 1

		if strings.TrimSpace(line) == "" {
			continue
		}

		width, offset := indentation(line)

		if width > stack[len(stack)-1] {
			stack = append(stack, width)
			toks = append(toks, Token{Kind: KindIndent, Line: lineno, Column: 1})
		}

		for width < stack[len(stack)-1] {
			stack = stack[:len(stack)-1]
			toks = append(toks, Token{Kind: KindDedent, Line: lineno, Column: 1})
		}

		var err error

		toks, err = scanLine(toks, line, offset, lineno)
		if err != nil {
			return nil, err
		}

		toks = append(toks, Token{
			Kind:   KindNewline,
			Line:   lineno,
			Column: utf8.RuneCountInString(line),
		})
	}

	last := max(len(lines), 1)

	for len(stack) > 1 {
		stack = stack[:len(stack)-1]
		toks = append(toks, Token{Kind: KindDedent, Line: last, Column: 1})
	}

	return append(toks, Token{Kind: KindEOF, Line: last}), nil
}

// splitLines splits s at "\n", "\r\n" and "\r". A trailing line break does
// not start another line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")

	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}

// indentation returns the indentation width of line and the byte offset of
// its first non-indent character.
func indentation(line string) (width, offset int) {
	for offset < len(line) {
		switch line[offset] {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			return width, offset
		}

		offset++
	}

	return width, offset
}

// scanLine appends the tokens of line, starting at byte offset pos, to toks.
func scanLine(toks []Token, line string, pos, lineno int) ([]Token, error) {
	col := pos + 1 // indentation is ASCII

	for pos < len(line) {
		c := line[pos]
		start, startCol := pos, col

		tok := Token{Line: lineno, Column: startCol}

		switch {
		case c == ' ' || c == '\t':
			pos++

		case isDigit(c):
			pos = scanNumber(line, pos)
			tok.Kind = KindNumber
			tok.Text = line[start:pos]
			tok.Value = numberValue(tok.Text)

		case c == '"' || c == '\'':
			end, ok := scanString(line, pos)
			if !ok {
				return nil, &LexError{Char: rune(c), Line: lineno, Column: startCol}
			}

			pos = end
			tok.Kind = KindString
			tok.Text = line[start:pos]
			tok.Value = unescape(tok.Text[1 : len(tok.Text)-1])

		case isIdentStart(c):
			for pos < len(line) && isIdentPart(line[pos]) {
				pos++
			}

			tok.Text = line[start:pos]
			tok.Value = tok.Text

			tok.Kind = KindIdent
			if kw, ok := keywords[tok.Text]; ok {
				tok.Kind = kw
			}

		default:
			kind, n := scanSymbol(line[pos:])
			if n == 0 {
				r, _ := utf8.DecodeRuneInString(line[pos:])

				return nil, &LexError{Char: r, Line: lineno, Column: startCol}
			}

			pos += n
			tok.Kind = kind
			tok.Text = line[start:pos]
			tok.Value = tok.Text
		}

		col += utf8.RuneCountInString(line[start:pos])

		if tok.Kind != KindInvalid {
			toks = append(toks, tok)
		}
	}

	return toks, nil
}

// scanNumber returns the end of the number starting at pos. A fraction is
// consumed only when at least one digit follows the decimal point.
func scanNumber(line string, pos int) int {
	for pos < len(line) && isDigit(line[pos]) {
		pos++
	}

	if pos+1 < len(line) && line[pos] == '.' && isDigit(line[pos+1]) {
		pos++
		for pos < len(line) && isDigit(line[pos]) {
			pos++
		}
	}

	return pos
}

// numberValue converts a NUMBER lexeme into int64, or float64 when it
// contains a decimal point. Integer literals too large for int64 become
// float64.
func numberValue(text string) any {
	if !strings.Contains(text, ".") {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n
		}
	}

	f, _ := strconv.ParseFloat(text, 64)

	return f
}

// scanString returns the end of the quoted string starting at pos, and false
// when the closing quote is missing on this line.
func scanString(line string, pos int) (int, bool) {
	quote := line[pos]

	for pos++; pos < len(line); pos++ {
		switch line[pos] {
		case '\\':
			pos++
		case quote:
			return pos + 1, true
		}
	}

	return 0, false
}

// unescape resolves backslash escapes in a string body. Escapes that
// [strconv.UnquoteChar] does not recognize are kept verbatim.
func unescape(body string) string {
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var sb strings.Builder

	sb.Grow(len(body))

	for body != "" {
		if body[0] != '\\' || len(body) == 1 {
			r, n := utf8.DecodeRuneInString(body)
			sb.WriteRune(r)
			body = body[n:]

			continue
		}

		if q := body[1]; q == '\'' || q == '"' {
			sb.WriteByte(q)
			body = body[2:]

			continue
		}

		r, _, tail, err := strconv.UnquoteChar(body, 0)
		if err != nil {
			sb.WriteByte('\\')
			body = body[1:]

			continue
		}

		sb.WriteRune(r)
		body = tail
	}

	return sb.String()
}

// scanSymbol matches an operator or punctuation at the start of s, longest
// first, returning its kind and byte length (0 when nothing matches).
func scanSymbol(s string) (Kind, int) {
	if len(s) >= 2 {
		switch s[:2] {
		case "==", "!=", "<=", ">=", "&&", "||":
			return KindOp, 2
		}
	}

	switch s[0] {
	case '+', '-', '*', '/', '%', '<', '>', '!', '=':
		return KindOp, 1
	case '(':
		return KindLParen, 1
	case ')':
		return KindRParen, 1
	case '{':
		return KindLBrace, 1
	case '}':
		return KindRBrace, 1
	case ',':
		return KindComma, 1
	case ';':
		return KindSemicol, 1
	}

	return KindInvalid, 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
