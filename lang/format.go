package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatNative writes prog as wordy source. With indent > 0 every statement is on
// its own line and block bodies are indented by that many spaces per level;
// otherwise statements are separated by single spaces.
func (prog *Program) FormatNative(_ context.Context, w io.Writer, indent int) error {
	p := &printer{w: w, indent: indent}

	p.statements(prog.Statements, 0)

	if p.err == nil {
		_, p.err = fmt.Fprintln(w)
	}

	return p.err
}

// FormatJSON writes the tree of prog as JSON.
func (prog *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(prog.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(prog.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the tree of prog as YAML. Without indentation the
// output uses flow style.
func (prog *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, prog.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// FormatTree writes an outline of prog with one node per line.
func (prog *Program) FormatTree(_ context.Context, w io.Writer) error {
	p := &printer{w: w, indent: 2}

	p.printf("Program (%d)\n", len(prog.Statements))

	for _, n := range prog.Statements {
		p.tree(n, 1)
	}

	return p.err
}

// ToMap converts prog into plain maps and slices suitable for encoding.
// Each node becomes a map with a "type" key.
func (prog *Program) ToMap() map[string]any {
	return map[string]any{"statements": nodesToMaps(prog.Statements)}
}

func nodesToMaps(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = nodeToMap(n)
	}

	return out
}

func nodeToMap(n Node) map[string]any {
	m := map[string]any{
		"type": n.NodeType(),
		"line": n.Position().Line,
	}

	switch n := n.(type) {
	case *FunctionDecl:
		m["name"] = n.Name
		m["parameters"] = n.Parameters
		m["body"] = nodesToMaps(n.Body)

	case *HigherOrderFunction:
		params := make([]any, len(n.Parameters))
		for i, p := range n.Parameters {
			params[i] = map[string]any{"name": p.Name, "callable": p.Callable}
		}

		m["name"] = n.Name
		m["parameters"] = params
		m["body"] = nodesToMaps(n.Body)

	case *AnonymousFunction:
		m["parameters"] = n.Parameters
		m["body"] = nodesToMaps(n.Body)

	case *Call:
		args := make([]any, len(n.Arguments))
		for i, a := range n.Arguments {
			if a.Function != nil {
				args[i] = nodeToMap(a.Function)
			} else {
				args[i] = a.Raw
			}
		}

		m["name"] = n.Name
		m["arguments"] = args

	case *Return:
		m["value"] = n.Value

	case *Print:
		if n.Expression != "" {
			m["expression"] = n.Expression
		} else {
			m["value"] = n.Value
			m["is_variable"] = n.IsVariable
		}

	case *VarDecl:
		m["var_type"] = n.Type.String()
		m["name"] = n.Name
		m["value"] = n.Value

	case *IfCondition:
		m["condition"] = n.Condition
		m["body"] = nodesToMaps(n.Body)

		if n.HasElse() {
			m["else_body"] = nodesToMaps(n.Else)
		}
	}

	return m
}

// printer writes source and outlines, remembering the first write error.
type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) pad(depth int) {
	if p.indent > 0 {
		p.printf("%s", strings.Repeat(" ", depth*p.indent))
	}
}

func (p *printer) separate(first bool) {
	switch {
	case p.indent > 0:
		p.printf("\n")
	case !first:
		p.printf(" ")
	}
}

func (p *printer) statements(nodes []Node, depth int) {
	for i, n := range nodes {
		if i > 0 {
			p.separate(false)
		}

		p.pad(depth)
		p.statement(n, depth)
	}
}

func (p *printer) statement(n Node, depth int) {
	switch n := n.(type) {
	case *FunctionDecl:
		p.printf("%s <%s> %s <%s> ",
			KeywordFunctionNamed, n.Name,
			KeywordWithParameters, strings.Join(n.Parameters, ", "))
		p.block(n.Body, depth)

	case *HigherOrderFunction:
		params := make([]string, len(n.Parameters))
		for i, param := range n.Parameters {
			params[i] = param.Name
			if param.Callable {
				params[i] = KeywordCallFunction + " " + param.Name
			}
		}

		p.printf("%s <%s> %s <%s> ",
			KeywordFunctionNamed, n.Name,
			KeywordWithParameters, strings.Join(params, ", "))
		p.block(n.Body, depth)

	case *AnonymousFunction:
		p.printf("%s <%s> ", KeywordWithParameters, strings.Join(n.Parameters, ", "))
		p.block(n.Body, depth)

	case *Call:
		p.printf("%s <%s> %s <", KeywordCallFunction, n.Name, KeywordWithArguments)

		for i, a := range n.Arguments {
			if i > 0 {
				p.printf(", ")
			}

			if a.Function != nil {
				inline := &printer{w: p.w, err: p.err}
				inline.statement(a.Function, 0)
				p.err = inline.err
			} else {
				p.printf("%s", a.Raw)
			}
		}

		p.printf(">#")

	case *Return:
		p.printf("%s <%s>#", KeywordReturn, n.Value)

	case *Print:
		value := n.Value
		if n.Expression != "" {
			value = n.Expression
		}

		p.printf("%s <%s> %s#", KeywordPrint, value, KeywordToTerminal)

	case *VarDecl:
		kw := KeywordTextValueNamed
		if n.Type == TypeInteger {
			kw = KeywordIntegerNamed
		}

		p.printf("%s <%s> %s <%s>#", kw, n.Name, KeywordHasTheValueOf, n.Value)

	case *IfCondition:
		p.printf("%s <%s> %s ", KeywordIfCondition, n.Condition, KeywordIsTrue)
		p.block(n.Body, depth)

		if n.HasElse() {
			p.printf(" %s ", KeywordElseCondition)
			p.block(n.Else, depth)
		}
	}
}

func (p *printer) block(body []Node, depth int) {
	p.printf("{")

	if len(body) > 0 {
		p.separate(true)
		p.statements(body, depth+1)
		p.separate(true)
		p.pad(depth)
	}

	p.printf("}")
}

func (p *printer) tree(n Node, depth int) {
	p.pad(depth)

	switch n := n.(type) {
	case *FunctionDecl:
		p.printf("FunctionDecl %s(%s)\n", n.Name, strings.Join(n.Parameters, ", "))
		p.trees(n.Body, depth+1)

	case *HigherOrderFunction:
		params := make([]string, len(n.Parameters))
		for i, param := range n.Parameters {
			params[i] = param.Name
			if param.Callable {
				params[i] += "()"
			}
		}

		p.printf("HigherOrderFunction %s(%s)\n", n.Name, strings.Join(params, ", "))
		p.trees(n.Body, depth+1)

	case *AnonymousFunction:
		p.printf("AnonymousFunction (%s)\n", strings.Join(n.Parameters, ", "))
		p.trees(n.Body, depth+1)

	case *Call:
		p.printf("Call %s\n", n.Name)

		for _, a := range n.Arguments {
			if a.Function != nil {
				p.tree(a.Function, depth+1)
			} else {
				p.pad(depth + 1)
				p.printf("Argument %s\n", a.Raw)
			}
		}

	case *Return:
		p.printf("Return %s\n", n.Value)

	case *Print:
		switch {
		case n.Expression != "":
			p.printf("Print expression %s\n", n.Expression)
		case n.IsVariable:
			p.printf("Print variable %s\n", n.Value)
		default:
			p.printf("Print literal %s\n", n.Value)
		}

	case *VarDecl:
		p.printf("VarDecl %s %s = %s\n", n.Type, n.Name, n.Value)

	case *IfCondition:
		p.printf("IfCondition %s\n", n.Condition)
		p.trees(n.Body, depth+1)

		if n.HasElse() {
			p.pad(depth)
			p.printf("Else\n")
			p.trees(n.Else, depth+1)
		}
	}
}

func (p *printer) trees(nodes []Node, depth int) {
	for _, n := range nodes {
		p.tree(n, depth)
	}
}
