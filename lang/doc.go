// Package lang implements the EcoScript language: a small, dynamically typed
// scripting language with lexical scoping and first-class closures.
//
// Source text flows through three stages:
//
//	Tokenize   source  -> []Token   (INDENT/DEDENT/NEWLINE mark line structure)
//	Parse      []Token -> *Program  (recursive descent, precedence climbing)
//	Evaluate   *Program -> value    (tree walking over chained environments)
//
// [ParseString] combines the first two stages, and [Evaluator.Run] all three.
//
// # Syntax
//
// Informal EBNF:
//
//	Program     → {Statement | ';' | NEWLINE} EOF
//	Statement   → Declaration | Function | Print | If | While | Return
//	            | Expression [';']
//	Declaration → ('let' | 'var' | 'const') IDENT ['=' Expression] [';']
//	Function    → 'function' IDENT '(' [IDENT {',' IDENT}] ')' Block
//	Print       → 'print' '(' Expression ')' [';']
//	If          → 'if' '(' Expression ')' Block ['else' Block]
//	While       → 'while' '(' Expression ')' Block
//	Return      → 'return' [Expression] [';']
//	Block       → '{' {Statement} '}'
//	            | [NEWLINE] INDENT {Statement} DEDENT
//
// Binary operators, loosest first, all left-associative:
//
//	||
//	&&
//	==  !=
//	<  <=  >  >=
//	+  -
//	*  /  %
//
// followed by prefix '-' and '!', then literals (numbers, strings, true,
// false), identifiers, calls on identifiers and parenthesized expressions.
//
// A block may be delimited by braces or by indentation, independently at
// each use:
//
//	function fact(n)
//	  if (n <= 1) { return 1 }
//	  return n * fact(n - 1)
//
// Indentation inside braces is free, and the closing brace may sit at any
// column. A return with no expression yields null.
//
// # Scoping
//
// Every program root, entered block and function call has its own
// [Environment]. Declarations always bind in the innermost one, shadowing
// outer bindings of the same name without modifying them. Consequently a
// loop body that redeclares the loop variable
//
//	let i = 0
//	while (i < 3)
//	  let i = i + 1
//
// never changes the i its condition reads, and does not terminate. Hosts
// bound such programs through the context passed to [Evaluator.Evaluate]:
// cancellation stops evaluation with [ErrInterrupted].
//
// # Values
//
// Runtime values are nil (null), int64, float64, bool, string, [*Function]
// and [*Builtin]. Division with '/' always yields a float64, and '%' takes
// the sign of its divisor. The logical operators evaluate both operands and
// yield a bool.
package lang
