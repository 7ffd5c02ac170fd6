package lang_test

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/wordy/lang"
)

func ExampleRun() {
	results, err := lang.Run(context.Background(), `
		integerNamed <counter> hasTheValueOf <5>#
		functionNamed <sayHello> withParameters <name> {
			print <name> toterminal#
		}
		callFunction <sayHello> withArguments <"LeBron">#
		ifCondition <counter < 10> isTrue {
			print <counter * 2> toterminal#
		}
	`)
	if err != nil {
		fmt.Println(err)

		return
	}

	for out := range results.Outputs() {
		fmt.Println(out)
	}
	// Output:
	// LeBron
	// 10
}

func ExampleEvaluator_Arithmetic() {
	ev := lang.NewEvaluator()
	env := lang.NewEnv()

	for _, text := range []string{`"hello"`, "(1 + 2) ^ 2", "7 / 2", "3 +"} {
		fmt.Println(ev.Arithmetic(context.Background(), env, text).Display())
	}
	// Output:
	// hello
	// 9
	// 3.5
	// 3 +
}

func ExampleProgram_FormatNative() {
	prog, err := lang.ParseString(context.Background(),
		`ifCondition <x == 1> isTrue { print <"one"> toterminal# } elseCondition { print <x> toterminal# }`)
	if err != nil {
		fmt.Println(err)

		return
	}

	_ = prog.FormatNative(context.Background(), os.Stdout, 2)
	// Output:
	// ifCondition <x == 1> isTrue {
	//   print <"one"> toterminal#
	// } elseCondition {
	//   print <x> toterminal#
	// }
}

func ExampleFormatSourceError() {
	source := "integerNamed <x> hasTheValueOf <abc>#"

	_, err := lang.Run(context.Background(), source)
	fmt.Print(lang.FormatSourceError(source, err))
	// Output:
	// invalid integer value at 1:1 (name=x) (value=abc)
	//   1 | integerNamed <x> hasTheValueOf <abc>#
	//       ^
}
