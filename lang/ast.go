package lang

import "iter"

// Position is a 1-based line and column in source text.
// The zero value means the position is unknown.
type Position struct {
	Line   int
	Column int
}

// Pos returns p. Every syntax tree node embeds a Position and so satisfies
// [Node] through this method.
func (p Position) Pos() Position { return p }

// IsValid reports whether p refers to a source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// Node is implemented by every syntax tree node.
//
// The set of nodes is closed. Evaluation and the encoders in this package
// switch over the concrete types exhaustively.
type Node interface {
	Pos() Position
	node()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of a parsed source.
type Program struct {
	Body []Stmt
	Position
}

// All returns an iterator over the top-level statements.
func (p *Program) All() iter.Seq2[int, Stmt] {
	return func(yield func(int, Stmt) bool) {
		for i, s := range p.Body {
			if !yield(i, s) {
				return
			}
		}
	}
}

// LetStmt declares Name in the current scope. Keyword is the declaration
// keyword used ("let", "var" or "const"); all three behave the same. Expr is
// nil when no initializer was given.
type LetStmt struct {
	Expr    Expr
	Name    string
	Keyword string
	Position
}

// ExprStmt evaluates an expression for its value.
type ExprStmt struct {
	Expr Expr
	Position
}

// PrintStmt is the print statement.
type PrintStmt struct {
	Expr Expr
	Position
}

// Block is a sequence of statements evaluated in a fresh child scope.
// Brace and indentation blocks produce the same node.
type Block struct {
	Statements []Stmt
	Position
}

// IfStmt is a conditional. Else is nil without an else branch.
type IfStmt struct {
	Condition Expr
	Then      *Block
	Else      *Block
	Position
}

// WhileStmt is a pre-tested loop.
type WhileStmt struct {
	Condition Expr
	Body      *Block
	Position
}

// FunctionDecl binds a closure named Name in the current scope.
type FunctionDecl struct {
	Body   *Block
	Name   string
	Params []string
	Position
}

// ReturnStmt leaves the innermost function call. Expr is nil for a bare
// return.
type ReturnStmt struct {
	Expr Expr
	Position
}

// NumberLiteral holds an int64 or float64.
type NumberLiteral struct {
	Value any
	Position
}

// StringLiteral holds a decoded string.
type StringLiteral struct {
	Value string
	Position
}

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Value bool
	Position
}

// Identifier is a name reference.
type Identifier struct {
	Name string
	Position
}

// BinaryOp applies Op to two operands.
type BinaryOp struct {
	Left  Expr
	Right Expr
	Op    string
	Position
}

// UnaryOp applies Op ("-" or "!") to one operand.
type UnaryOp struct {
	Operand Expr
	Op      string
	Position
}

// CallExpr calls Callee with positional arguments.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Position
}

func (*Program) node()        {}
func (*LetStmt) node()        {}
func (*ExprStmt) node()       {}
func (*PrintStmt) node()      {}
func (*Block) node()          {}
func (*IfStmt) node()         {}
func (*WhileStmt) node()      {}
func (*FunctionDecl) node()   {}
func (*ReturnStmt) node()     {}
func (*NumberLiteral) node()  {}
func (*StringLiteral) node()  {}
func (*BooleanLiteral) node() {}
func (*Identifier) node()     {}
func (*BinaryOp) node()       {}
func (*UnaryOp) node()        {}
func (*CallExpr) node()       {}

func (*LetStmt) stmtNode()      {}
func (*ExprStmt) stmtNode()     {}
func (*PrintStmt) stmtNode()    {}
func (*Block) stmtNode()        {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*FunctionDecl) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}

func (*NumberLiteral) exprNode()  {}
func (*StringLiteral) exprNode()  {}
func (*BooleanLiteral) exprNode() {}
func (*Identifier) exprNode()     {}
func (*BinaryOp) exprNode()       {}
func (*UnaryOp) exprNode()        {}
func (*CallExpr) exprNode()       {}

// Inspect traverses the tree rooted at n in depth-first order, calling fn
// for each node. Children of a node are skipped when fn returns false.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *Program:
		for _, s := range n.Body {
			Inspect(s, fn)
		}
	case *Block:
		for _, s := range n.Statements {
			Inspect(s, fn)
		}
	case *LetStmt:
		if n.Expr != nil {
			Inspect(n.Expr, fn)
		}
	case *ExprStmt:
		Inspect(n.Expr, fn)
	case *PrintStmt:
		Inspect(n.Expr, fn)
	case *IfStmt:
		Inspect(n.Condition, fn)
		Inspect(n.Then, fn)

		if n.Else != nil {
			Inspect(n.Else, fn)
		}
	case *WhileStmt:
		Inspect(n.Condition, fn)
		Inspect(n.Body, fn)
	case *FunctionDecl:
		Inspect(n.Body, fn)
	case *ReturnStmt:
		if n.Expr != nil {
			Inspect(n.Expr, fn)
		}
	case *BinaryOp:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *UnaryOp:
		Inspect(n.Operand, fn)
	case *CallExpr:
		Inspect(n.Callee, fn)

		for _, a := range n.Args {
			Inspect(a, fn)
		}
	}
}
