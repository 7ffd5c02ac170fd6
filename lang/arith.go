package lang

import (
	"context"
	"log/slog"
	"math"
	"math/bits"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"
	exprparser "github.com/expr-lang/expr/parser"
)

const (
	arithOperators = "+-*/%^()"
	arithAllowed   = "0123456789+-*/%^() ."
)

// Arithmetic evaluates raw expression text against the active variables of
// env. It never fails:
//
//   - text wrapped in double quotes yields the text between them;
//   - the exact name of a variable yields that variable's value;
//   - otherwise each variable name is replaced, as a whole word, by its
//     value, and text containing an operator or parenthesis and nothing but
//     digits, operators, parentheses, dots, and spaces is computed;
//   - anything else, including a computation that fails, yields the text
//     after substitution.
//
// Computed results that are integral are integers; others are rounded to six
// decimal places.
func (ev *Evaluator) Arithmetic(ctx context.Context, env *Env, text string) Value {
	if strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		if len(text) < 2 {
			return Text("")
		}

		return Text(text[1 : len(text)-1])
	}

	if v, ok := env.vars.get(text); ok {
		return v
	}

	for name, v := range env.vars.all() {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			continue
		}

		text = re.ReplaceAllLiteralString(text, v.String())
	}

	if !strings.ContainsAny(text, arithOperators) {
		return Text(text)
	}

	if strings.IndexFunc(text, func(r rune) bool {
		return !strings.ContainsRune(arithAllowed, r)
	}) >= 0 {
		return Text(text)
	}

	v, err := compute(text)
	if err != nil {
		ev.opts.logger.TraceContext(ctx, "arithmetic fallback",
			slog.String("run_id", env.id.String()),
			slog.String("expression", text),
			slog.String("reason", err.Error()),
		)

		return Text(text)
	}

	return v
}

// octalLiteral matches an integer literal with a leading zero, such as 08,
// which is not a valid number.
var octalLiteral = regexp.MustCompile(`(?:^|[^0-9.])0+[1-9][0-9]*(?:[^0-9.]|$)`)

var (
	errArithSyntax   = NewError("unsupported arithmetic syntax")
	errArithDomain   = NewError("arithmetic result out of range")
	errArithDivision = NewError("division by zero")
)

// compute evaluates a numeric expression. The expression is parsed with the
// expr-lang parser, but only number literals and the unary and binary
// arithmetic operators are accepted; nothing is ever executed.
func compute(text string) (Value, error) {
	// expr-lang reads // and /* as comments, which would drop the rest of
	// the expression.
	if strings.Contains(text, "//") || strings.Contains(text, "/*") {
		return Value{}, errArithSyntax.With(slog.String("reason", "comment"))
	}

	if octalLiteral.MatchString(text) {
		return Value{}, errArithSyntax.With(slog.String("reason", "leading zero"))
	}

	tree, err := exprparser.Parse(text)
	if err != nil {
		return Value{}, errArithSyntax.Wrap(err)
	}

	n, err := walk(tree.Node)
	if err != nil {
		return Value{}, err
	}

	if n.integer {
		return Integer(n.i), nil
	}

	f := n.f
	if f == math.Trunc(f) {
		if f >= math.MinInt64 && f < math.MaxInt64 {
			return Integer(int64(f)), nil
		}

		return Text(strconv.FormatFloat(f, 'f', 0, 64)), nil
	}

	return Float(math.RoundToEven(f*1e6) / 1e6), nil
}

// number is an intermediate arithmetic result. Integer arithmetic that
// overflows continues in floating point.
type number struct {
	i       int64
	f       float64
	integer bool
}

func intNumber(i int64) number     { return number{i: i, f: float64(i), integer: true} }
func floatNumber(f float64) number { return number{f: f} }

func walk(node ast.Node) (number, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return intNumber(int64(n.Value)), nil

	case *ast.FloatNode:
		return floatNumber(n.Value), nil

	case *ast.UnaryNode:
		x, err := walk(n.Node)
		if err != nil {
			return number{}, err
		}

		switch n.Operator {
		case "+":
			return x, nil
		case "-":
			if x.integer && x.i != math.MinInt64 {
				return intNumber(-x.i), nil
			}

			return floatNumber(-x.f), nil
		}

	case *ast.BinaryNode:
		x, err := walk(n.Left)
		if err != nil {
			return number{}, err
		}

		y, err := walk(n.Right)
		if err != nil {
			return number{}, err
		}

		return binary(n.Operator, x, y)
	}

	return number{}, errArithSyntax.With(slog.String("node", node.String()))
}

func binary(op string, x, y number) (number, error) {
	ints := x.integer && y.integer

	var r number

	switch op {
	case "+":
		if s, ok := addInt(x, y); ints && ok {
			return intNumber(s), nil
		}

		r = floatNumber(x.f + y.f)

	case "-":
		if d, ok := addInt(x, intNegate(y)); ints && y.i != math.MinInt64 && ok {
			return intNumber(d), nil
		}

		r = floatNumber(x.f - y.f)

	case "*":
		if p, ok := mulInt(x.i, y.i); ints && ok {
			return intNumber(p), nil
		}

		r = floatNumber(x.f * y.f)

	case "/":
		if y.f == 0 {
			return number{}, errArithDivision
		}

		r = floatNumber(x.f / y.f)

	case "%":
		if y.f == 0 {
			return number{}, errArithDivision
		}

		if ints {
			m := x.i % y.i
			if m != 0 && (m < 0) != (y.i < 0) {
				m += y.i
			}

			return intNumber(m), nil
		}

		m := math.Mod(x.f, y.f)
		if m != 0 && (m < 0) != (y.f < 0) {
			m += y.f
		}

		r = floatNumber(m)

	case "^":
		if ints && y.i >= 0 {
			if p, ok := powInt(x.i, y.i); ok {
				return intNumber(p), nil
			}
		}

		if x.f == 0 && y.f < 0 {
			return number{}, errArithDivision
		}

		r = floatNumber(math.Pow(x.f, y.f))

	default:
		return number{}, errArithSyntax.With(slog.String("operator", op))
	}

	if math.IsNaN(r.f) || math.IsInf(r.f, 0) {
		return number{}, errArithDomain.With(slog.String("operator", op))
	}

	return r, nil
}

func intNegate(x number) number {
	if x.i == math.MinInt64 {
		return x
	}

	return number{i: -x.i, f: -x.f, integer: x.integer}
}

func addInt(x, y number) (int64, bool) {
	s := x.i + y.i

	// overflow when both operands share a sign the sum lacks
	return s, (x.i >= 0) != (y.i >= 0) || (s >= 0) == (x.i >= 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	neg := (a < 0) != (b < 0)

	hi, lo := bits.Mul64(absInt(a), absInt(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}

	if neg {
		return -int64(lo), true
	}

	return int64(lo), true
}

// powInt computes base^exp for exp >= 0.
func powInt(base, exp int64) (int64, bool) {
	switch {
	case exp == 0 || base == 1:
		return 1, true
	case base == 0:
		return 0, true
	case base == -1:
		if exp%2 == 0 {
			return 1, true
		}

		return -1, true
	}

	result := int64(1)

	for ; exp > 0; exp-- {
		var ok bool

		result, ok = mulInt(result, base)
		if !ok {
			return 0, false
		}
	}

	return result, true
}

func absInt(i int64) uint64 {
	if i < 0 {
		return uint64(-i)
	}

	return uint64(i)
}
