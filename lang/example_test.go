package lang_test

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/ecoscript/lang"
)

func ExampleEvaluator_Run() {
	ev := lang.NewEvaluator(lang.WithOutput(os.Stdout))

	v, err := ev.Run(context.Background(), `
function make_adder(x)
  function inner(y)
    return x + y
  return inner

let add5 = make_adder(5)
print(add5(3))
add5(10) / 2
`)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Println(lang.Repr(v))
	// Output:
	// 8
	// 7.5
}

func ExampleTokenize() {
	toks, err := lang.Tokenize("if (x)\n  print(x)")
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	for _, tok := range toks {
		fmt.Println(tok)
	}
	// Output:
	// IF("if")
	// LPAREN("(")
	// IDENT("x")
	// RPAREN(")")
	// NEWLINE
	// INDENT
	// PRINT("print")
	// LPAREN("(")
	// IDENT("x")
	// RPAREN(")")
	// NEWLINE
	// DEDENT
	// EOF
}

func ExampleIsIncomplete() {
	for _, src := range []string{"function f(a)", "let x = 1 +", "let = 1"} {
		_, err := lang.ParseString(context.Background(), src)
		fmt.Printf("%-14q incomplete=%t\n", src, lang.IsIncomplete(err))
	}
	// Output:
	// "function f(a)" incomplete=true
	// "let x = 1 +"  incomplete=true
	// "let = 1"      incomplete=false
}

func ExampleFprint() {
	prog, err := lang.ParseString(context.Background(), "print(-n * 2)")
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	_ = lang.Fprint(os.Stdout, prog)
	// Output:
	// Program @1:1
	//   PrintStmt @1:1
	//     BinaryOp * @1:7
	//       UnaryOp - @1:7
	//         Identifier n @1:8
	//       NumberLiteral 2 @1:12
}
