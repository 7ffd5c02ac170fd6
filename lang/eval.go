package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// Evaluator executes programs against an [Env].
type Evaluator struct {
	opts options
}

// NewEvaluator returns an Evaluator configured by opts.
func NewEvaluator(opts ...Option) *Evaluator {
	return &Evaluator{opts: makeOptions(opts...)}
}

// Run lexes, parses, and executes source in a fresh [Env].
func Run(ctx context.Context, source string, opts ...Option) (Results, error) {
	prog, err := ParseString(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	return NewEvaluator(opts...).Run(ctx, NewEnv(), prog)
}

// Run executes the statements of prog in order and returns their results.
// A failing statement aborts the run; no results are returned with the
// error.
func (ev *Evaluator) Run(ctx context.Context, env *Env, prog *Program) (Results, error) {
	logger := ev.opts.logger.With(slog.String("run_id", env.id.String()))

	logger.TraceContext(ctx, "run start",
		slog.Int("statement_count", len(prog.Statements)))

	results, err := ev.block(ctx, env, prog.Statements)
	if err != nil {
		logger.DebugContext(ctx, "run failed", slog.Any("error", err))

		return nil, err
	}

	logger.TraceContext(ctx, "run complete",
		slog.Int("result_count", len(results)))

	return results, nil
}

// Exec executes a single statement. It returns a nil result for statements
// that produce nothing.
func (ev *Evaluator) Exec(ctx context.Context, env *Env, n Node) (*Result, error) {
	switch n := n.(type) {
	case *FunctionDecl:
		params := make([]Param, len(n.Parameters))
		for i, name := range n.Parameters {
			params[i] = Param{Name: name}
		}

		env.functions[n.Name] = &function{name: n.Name, params: params, body: n.Body}

		return notice("Function '" + n.Name + "' defined."), nil

	case *HigherOrderFunction:
		env.functions[n.Name] = &function{name: n.Name, params: n.Parameters, body: n.Body}

		return notice("Higher-order function '" + n.Name + "' defined."), nil

	case *AnonymousFunction:
		return nil, nil

	case *Call:
		return ev.call(ctx, env, n)

	case *Return:
		return &Result{Kind: ResultReturn, Text: n.Value}, nil

	case *Print:
		return ev.print(ctx, env, n)

	case *VarDecl:
		return ev.declare(env, n)

	case *IfCondition:
		ok, err := ev.Condition(ctx, env, n.Condition)
		if err != nil {
			return nil, WrapError(err).WithPosition(n.Pos)
		}

		body := n.Body
		if !ok {
			if !n.HasElse() {
				return nil, nil
			}

			body = n.Else
		}

		items, err := ev.block(ctx, env, body)
		if err != nil {
			return nil, err
		}

		return &Result{Kind: ResultGroup, Items: items}, nil
	}

	return nil, ErrInvalidNode.With(slog.String("type", nodeType(n)))
}

func (ev *Evaluator) block(ctx context.Context, env *Env, body []Node) (Results, error) {
	results := Results{}

	for _, n := range body {
		r, err := ev.Exec(ctx, env, n)
		if err != nil {
			return nil, err
		}

		if r != nil {
			results = append(results, *r)
		}
	}

	return results, nil
}

// call binds each argument to its parameter and runs the function body with
// a variable table holding only those bindings. The caller's table is
// restored afterward. Arguments are bound as written, never evaluated.
func (ev *Evaluator) call(ctx context.Context, env *Env, n *Call) (*Result, error) {
	fn, ok := env.callable(n.Name)
	if !ok {
		err := ErrFunctionNotDefined.WithPosition(n.Pos).
			With(slog.String("name", n.Name))
		if alt, ok := suggest(n.Name, env.Functions()); ok {
			err = err.With(slog.String("suggest", alt))
		}

		return nil, err
	}

	if len(fn.params) != len(n.Arguments) {
		return nil, ErrArityMismatch.WithPosition(n.Pos).
			With(
				slog.String("name", n.Name),
				slog.Int("expected", len(fn.params)),
				slog.Int("got", len(n.Arguments)),
			)
	}

	if env.depth >= ev.opts.maxDepth {
		return nil, ErrMaxDepthExceeded.WithPosition(n.Pos).
			With(
				slog.String("name", n.Name),
				slog.Int("max_depth", ev.opts.maxDepth),
			)
	}

	bindings := newTable()

	for i, param := range fn.params {
		arg := n.Arguments[i]

		switch {
		case arg.Function != nil:
			params := make([]Param, len(arg.Function.Parameters))
			for j, name := range arg.Function.Parameters {
				params[j] = Param{Name: name}
			}

			bindings.set(param.Name, functionValue(&function{
				params: params,
				body:   arg.Function.Body,
			}))

		case param.Callable:
			name := strings.TrimSpace(arg.Raw)

			target, ok := env.callable(name)
			if !ok {
				return nil, ErrFunctionNotDefined.WithPosition(n.Pos).
					With(
						slog.String("name", name),
						slog.String("parameter", param.Name),
					)
			}

			bindings.set(param.Name, functionValue(target))

		default:
			bindings.set(param.Name, Text(arg.Raw))
		}
	}

	ev.opts.logger.TraceContext(ctx, "call",
		slog.String("run_id", env.id.String()),
		slog.String("name", n.Name),
		slog.Int("depth", env.depth+1),
	)

	caller := env.vars
	env.vars = bindings
	env.depth++

	defer func() {
		env.vars = caller
		env.depth--
	}()

	items, err := ev.block(ctx, env, fn.body)
	if err != nil {
		return nil, err
	}

	return &Result{Kind: ResultGroup, Items: items}, nil
}

func (ev *Evaluator) print(ctx context.Context, env *Env, n *Print) (*Result, error) {
	var text string

	switch {
	case n.Expression != "":
		text = ev.Arithmetic(ctx, env, n.Expression).Display()

	case n.IsVariable:
		v, ok := env.vars.get(n.Value)
		if !ok {
			err := ErrVariableNotDefined.WithPosition(n.Pos).
				With(slog.String("name", n.Value))
			if alt, ok := suggest(n.Value, env.variableNames()); ok {
				err = err.With(slog.String("suggest", alt))
			}

			return nil, err
		}

		text = v.Display()

	default:
		text = unquote(n.Value)
	}

	return &Result{Kind: ResultOutput, Text: text}, nil
}

func (*Evaluator) declare(env *Env, n *VarDecl) (*Result, error) {
	v := Text(n.Value)

	if n.Type == TypeInteger {
		i, err := strconv.ParseInt(strings.TrimSpace(n.Value), 10, 64)
		if err != nil {
			return nil, ErrInvalidInteger.WithPosition(n.Pos).
				With(
					slog.String("name", n.Name),
					slog.String("value", n.Value),
				)
		}

		v = Integer(i)
	}

	env.vars.set(n.Name, v)

	return notice("Variable '" + n.Name + "' defined with value: " + n.Value), nil
}

func notice(text string) *Result {
	return &Result{Kind: ResultNotice, Text: text}
}

func nodeType(n Node) string {
	if n == nil {
		return "<nil>"
	}

	return n.NodeType()
}
