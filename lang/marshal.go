package lang

import (
	"encoding/json"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to nested native Go maps and slices, suitable
// for generic encoders.
func (p *Program) ToMap() map[string]any {
	return NodeToMap(p)
}

// NodeToMap converts a syntax tree to nested native Go maps. Every map has
// a "node" key naming the node type, and "line" and "column" keys when the
// position is known.
func NodeToMap(n Node) map[string]any {
	if n == nil {
		return nil
	}

	m := make(map[string]any)

	switch n := n.(type) {
	case *Program:
		m["node"] = "Program"
		m["body"] = stmtsToMaps(n.Body)

	case *LetStmt:
		m["node"] = "LetStmt"
		m["keyword"] = n.Keyword
		m["name"] = n.Name
		m["expr"] = exprToMap(n.Expr)

	case *ExprStmt:
		m["node"] = "ExprStmt"
		m["expr"] = exprToMap(n.Expr)

	case *PrintStmt:
		m["node"] = "PrintStmt"
		m["expr"] = exprToMap(n.Expr)

	case *Block:
		m["node"] = "Block"
		m["statements"] = stmtsToMaps(n.Statements)

	case *IfStmt:
		m["node"] = "IfStmt"
		m["condition"] = exprToMap(n.Condition)
		m["then"] = blockToMap(n.Then)
		m["else"] = blockToMap(n.Else)

	case *WhileStmt:
		m["node"] = "WhileStmt"
		m["condition"] = exprToMap(n.Condition)
		m["body"] = blockToMap(n.Body)

	case *FunctionDecl:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = p
		}

		m["node"] = "FunctionDecl"
		m["name"] = n.Name
		m["params"] = params
		m["body"] = blockToMap(n.Body)

	case *ReturnStmt:
		m["node"] = "ReturnStmt"
		m["expr"] = exprToMap(n.Expr)

	case *NumberLiteral:
		m["node"] = "NumberLiteral"
		m["value"] = FromGo(n.Value)

	case *StringLiteral:
		m["node"] = "StringLiteral"
		m["value"] = n.Value

	case *BooleanLiteral:
		m["node"] = "BooleanLiteral"
		m["value"] = n.Value

	case *Identifier:
		m["node"] = "Identifier"
		m["name"] = n.Name

	case *BinaryOp:
		m["node"] = "BinaryOp"
		m["op"] = n.Op
		m["left"] = exprToMap(n.Left)
		m["right"] = exprToMap(n.Right)

	case *UnaryOp:
		m["node"] = "UnaryOp"
		m["op"] = n.Op
		m["operand"] = exprToMap(n.Operand)

	case *CallExpr:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprToMap(a)
		}

		m["node"] = "CallExpr"
		m["callee"] = exprToMap(n.Callee)
		m["args"] = args
	}

	if p := n.Pos(); p.IsValid() {
		m["line"] = p.Line
		m["column"] = p.Column
	}

	return m
}

// exprToMap converts an optional expression, mapping nil to a nil any
// rather than a typed nil map.
func exprToMap(x Expr) any {
	if x == nil {
		return nil
	}

	return NodeToMap(x)
}

func blockToMap(b *Block) any {
	if b == nil {
		return nil
	}

	return NodeToMap(b)
}

func stmtsToMaps(stmts []Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = NodeToMap(s)
	}

	return out
}

// TokensToMaps converts tokens to native Go maps with "kind", "text",
// "line" and "column" keys, plus "value" for numbers and strings.
func TokensToMaps(toks []Token) []any {
	out := make([]any, len(toks))

	for i, t := range toks {
		m := map[string]any{
			"kind":   t.Kind.String(),
			"text":   t.Text,
			"line":   t.Line,
			"column": t.Column,
		}

		if t.Kind == KindNumber || t.Kind == KindString {
			m["value"] = t.Value
		}

		out[i] = m
	}

	return out
}
