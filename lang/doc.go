// Package lang implements wordy, a verbose keyword language for teaching
// programming concepts.
//
// Source text passes through three stages: [Lex] turns it into tokens,
// [Parse] builds a [Program] of statement nodes, and an [Evaluator] walks the
// program against an [Env], producing [Results].
//
// # Syntax
//
// Every statement begins with a keyword. Values are written in value groups
// delimited by < and >, and most statements end with #. Text after % is a
// comment.
//
//	integerNamed <counter> hasTheValueOf <5>#
//	textValueNamed <greeting> hasTheValueOf <"Hello">#
//
//	functionNamed <sayHello> withParameters <name> {
//	    print <greeting> toterminal#
//	    print <name> toterminal#
//	}
//
//	callFunction <sayHello> withArguments <"LeBron">#
//
//	ifCondition <counter < 10> isTrue {
//	    print <"small"> toterminal#
//	} elseCondition {
//	    print <"large"> toterminal#
//	}
//
// A parameter written "callFunction f" receives a function, which may be a
// declared function's name or a function literal passed as an argument:
//
//	callFunction <apply> withArguments <withParameters <x> { print <x> toterminal# }>#
//
// # Values
//
// Value groups are kept as raw text by the parser. The evaluator interprets
// the text where it is used: [Evaluator.Arithmetic] for printed expressions
// and [Evaluator.Condition] for conditions. Neither ever executes code; the
// arithmetic evaluator accepts only number literals and the operators
// + - * / % ^ with parentheses.
//
// Function calls bind arguments as written, unevaluated, and run the body
// with a variable table holding only the parameters. A return statement
// records its text as a result but does not leave the function.
//
// # Errors
//
// Errors are [*Error] values derived from the sentinels in this package, so
// they can be matched with [errors.Is] and carry source positions and
// structured attributes for logging. [FormatSourceError] renders an error
// with the offending line of source.
package lang
