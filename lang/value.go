package lang

import (
	"math"
	"strconv"
)

// ValueKind classifies a [Value].
type ValueKind int

const (
	ValueText     ValueKind = iota // text
	ValueInteger                   // integer
	ValueFloat                     // float
	ValueFunction                  // function
)

func (k ValueKind) String() string {
	switch k {
	case ValueInteger:
		return "integer"
	case ValueFloat:
		return "float"
	case ValueFunction:
		return "function"
	default:
		return "text"
	}
}

// Value is a runtime scalar. Variables hold text, integers, or function
// values; floats only arise from arithmetic.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
	fn   *function
}

// Text returns a text value holding s verbatim.
func Text(s string) Value { return Value{kind: ValueText, s: s} }

// Integer returns an integer value.
func Integer(i int64) Value { return Value{kind: ValueInteger, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: ValueFloat, f: f} }

func functionValue(fn *function) Value { return Value{kind: ValueFunction, fn: fn} }

// Kind returns the kind of v.
func (v Value) Kind() ValueKind { return v.kind }

// Int returns the integer held by v.
func (v Value) Int() (int64, bool) { return v.i, v.kind == ValueInteger }

// String returns v as written into variable substitutions and
// acknowledgements: text verbatim, numbers in decimal.
func (v Value) String() string {
	switch v.kind {
	case ValueInteger:
		return strconv.FormatInt(v.i, 10)
	case ValueFloat:
		return formatFloat(v.f)
	case ValueFunction:
		return v.fn.String()
	default:
		return v.s
	}
}

// Display returns v as printed: like [Value.String], with one surrounding
// pair of double quotes removed from text.
func (v Value) Display() string {
	if v.kind == ValueText {
		return unquote(v.s)
	}

	return v.String()
}

// formatFloat renders f the way the arithmetic evaluator reports rounded
// results: integral values keep one decimal place and very small magnitudes
// use an exponent.
func formatFloat(f float64) string {
	a := math.Abs(f)

	switch {
	case f == math.Trunc(f) && a < 1e16:
		return strconv.FormatFloat(f, 'f', 1, 64)
	case a != 0 && (a < 1e-4 || a >= 1e16):
		return strconv.FormatFloat(f, 'e', -1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// unquote removes one pair of surrounding double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}
