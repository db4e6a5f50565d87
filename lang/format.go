package lang

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Stringify returns the textual form of a runtime value as written by
// print. Strings are written verbatim.
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case string:
		return v
	case *Function:
		return "<function " + v.Name() + ">"
	case *Builtin:
		return "<builtin " + v.Name() + ">"
	default:
		return fmt.Sprint(v)
	}
}

// Repr is like [Stringify] but quotes strings.
func Repr(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}

	return Stringify(v)
}

// formatFloat formats f in its shortest round-trip form. Integral values
// keep a trailing ".0", and very large or small magnitudes use exponent
// notation.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// Fprint writes an indented outline of the tree rooted at n to w, one node
// per line.
func Fprint(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)

	fprint(bw, n, 0)

	return bw.Flush()
}

func fprint(w *bufio.Writer, n Node, depth int) {
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString(label(n))

	if p := n.Pos(); p.IsValid() {
		fmt.Fprintf(w, " @%d:%d", p.Line, p.Column)
	}

	w.WriteByte('\n')

	for _, c := range children(n) {
		fprint(w, c, depth+1)
	}
}

// label describes n without its children.
func label(n Node) string {
	switch n := n.(type) {
	case *Program:
		return "Program"
	case *LetStmt:
		return "LetStmt " + n.Keyword + " " + n.Name
	case *ExprStmt:
		return "ExprStmt"
	case *PrintStmt:
		return "PrintStmt"
	case *Block:
		return "Block"
	case *IfStmt:
		if n.Else != nil {
			return "IfStmt else"
		}

		return "IfStmt"
	case *WhileStmt:
		return "WhileStmt"
	case *FunctionDecl:
		return "FunctionDecl " + n.Name + "(" + strings.Join(n.Params, ", ") + ")"
	case *ReturnStmt:
		return "ReturnStmt"
	case *NumberLiteral:
		return "NumberLiteral " + Stringify(FromGo(n.Value))
	case *StringLiteral:
		return "StringLiteral " + strconv.Quote(n.Value)
	case *BooleanLiteral:
		return "BooleanLiteral " + strconv.FormatBool(n.Value)
	case *Identifier:
		return "Identifier " + n.Name
	case *BinaryOp:
		return "BinaryOp " + n.Op
	case *UnaryOp:
		return "UnaryOp " + n.Op
	case *CallExpr:
		return "CallExpr"
	default:
		return fmt.Sprintf("%T", n)
	}
}

// children returns the direct child nodes of n in source order.
func children(n Node) []Node {
	var out []Node

	Inspect(n, func(c Node) bool {
		if c == n {
			return true
		}

		out = append(out, c)

		return false
	})

	return out
}
