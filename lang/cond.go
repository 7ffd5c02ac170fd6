package lang

import (
	"cmp"
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// Condition evaluates raw condition text against the active variables of
// env.
//
// The text is split on substrings, not parsed: if it contains " and ", every
// part must hold; otherwise if it contains " or ", any part must hold;
// otherwise a leading "not " negates the rest. What remains must be exactly
// three fields "left op right" with op one of < > <= >= == !=; anything else
// is false. Operands resolve to a variable's value, else an integer when
// they look like one, else their own text.
//
// Ordering an integer against text fails with [ErrIncomparable].
func (ev *Evaluator) Condition(ctx context.Context, env *Env, text string) (bool, error) {
	text = strings.TrimSpace(text)

	if strings.Contains(text, " and ") {
		for part := range strings.SplitSeq(text, " and ") {
			ok, err := ev.Condition(ctx, env, part)
			if err != nil || !ok {
				return false, err
			}
		}

		return true, nil
	}

	if strings.Contains(text, " or ") {
		for part := range strings.SplitSeq(text, " or ") {
			ok, err := ev.Condition(ctx, env, part)
			if err != nil || ok {
				return ok, err
			}
		}

		return false, nil
	}

	if rest, ok := strings.CutPrefix(text, "not "); ok {
		ok, err := ev.Condition(ctx, env, rest)

		return !ok && err == nil, err
	}

	fields := strings.Fields(text)
	if len(fields) != 3 {
		ev.opts.logger.TraceContext(ctx, "condition shape",
			slog.String("run_id", env.id.String()),
			slog.String("condition", text),
			slog.Int("fields", len(fields)),
		)

		return false, nil
	}

	return compare(fields[1], operand(env, fields[0]), operand(env, fields[2]))
}

func operand(env *Env, field string) Value {
	if v, ok := env.vars.get(field); ok {
		return v
	}

	digits := strings.TrimPrefix(field, "-")
	if digits != "" && strings.Trim(digits, "0123456789") == "" {
		if i, err := strconv.ParseInt(field, 10, 64); err == nil {
			return Integer(i)
		}
	}

	return Text(field)
}

func compare(op string, left, right Value) (bool, error) {
	switch op {
	case "==":
		return equal(left, right), nil
	case "!=":
		return !equal(left, right), nil
	case "<", ">", "<=", ">=":
	default:
		return false, nil
	}

	var c int

	switch {
	case numeric(left) && numeric(right):
		c = compareNumbers(left, right)
	case !numeric(left) && !numeric(right):
		c = strings.Compare(left.String(), right.String())
	default:
		return false, ErrIncomparable.With(
			slog.String("operator", op),
			slog.String("left", left.kind.String()),
			slog.String("right", right.kind.String()),
		)
	}

	switch op {
	case "<":
		return c < 0, nil
	case ">":
		return c > 0, nil
	case "<=":
		return c <= 0, nil
	default:
		return c >= 0, nil
	}
}

func equal(left, right Value) bool {
	switch {
	case numeric(left) && numeric(right):
		return compareNumbers(left, right) == 0
	case numeric(left) || numeric(right):
		return false
	case left.kind == ValueFunction || right.kind == ValueFunction:
		return left.kind == right.kind && left.fn == right.fn
	default:
		return left.s == right.s
	}
}

func numeric(v Value) bool { return v.kind == ValueInteger || v.kind == ValueFloat }

func compareNumbers(a, b Value) int {
	if a.kind == ValueInteger && b.kind == ValueInteger {
		return cmp.Compare(a.i, b.i)
	}

	return cmp.Compare(a.number(), b.number())
}

func (v Value) number() float64 {
	if v.kind == ValueInteger {
		return float64(v.i)
	}

	return v.f
}
