package lang

import (
	"context"
	"log/slog"
)

// Parse builds a [Program] from a token sequence produced by [Lex].
//
// Statement structure is parsed eagerly. Value groups (the text between
// < and >) are kept as raw text and interpreted by the evaluator.
func Parse(ctx context.Context, tokens []Token, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	p := &parser{tokens: tokens}

	prog, err := p.program()
	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.Int("statement_count", len(prog.Statements)),
	)

	return prog, nil
}

// parser holds the parser state.
type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) program() (*Program, error) {
	prog := &Program{Statements: []Node{}}

	for !p.eof() {
		n, err := p.statement()
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, n)
	}

	return prog, nil
}

func (p *parser) statement() (Node, error) {
	tok := p.peek()

	if tok.Kind == KindKeyword {
		switch tok.Lexeme {
		case KeywordIntegerNamed, KeywordTextValueNamed:
			return p.varDecl()
		case KeywordFunctionNamed:
			return p.function()
		case KeywordCallFunction:
			return p.call()
		case KeywordReturn:
			return p.ret()
		case KeywordPrint:
			return p.print()
		case KeywordIfCondition:
			return p.ifCondition()
		}

		if IsReserved(tok.Lexeme) {
			return nil, ErrReservedKeyword.WithPosition(tok.Pos).
				With(slog.String("keyword", tok.Lexeme))
		}
	}

	return nil, p.unexpected(tok, "statement")
}

// varDecl parses: ("integerNamed"|"textValueNamed") <NAME> hasTheValueOf <value> #.
func (p *parser) varDecl() (*VarDecl, error) {
	kw := p.next()

	name, err := p.name(KeywordHasTheValueOf)
	if err != nil {
		return nil, err
	}

	value, err := p.group("#", isTerminator)
	if err != nil {
		return nil, err
	}

	if err := p.terminator(); err != nil {
		return nil, err
	}

	n := &VarDecl{
		Type:  TypeText,
		Name:  name,
		Value: Render(value),
		Pos:   kw.Pos,
	}

	if kw.Lexeme == KeywordIntegerNamed {
		n.Type = TypeInteger
	}

	return n, nil
}

// function parses: functionNamed <NAME> withParameters <params> { statement* }.
// A declaration with a callable parameter is a [HigherOrderFunction].
func (p *parser) function() (Node, error) {
	kw := p.next()

	name, err := p.name(KeywordWithParameters)
	if err != nil {
		return nil, err
	}

	params, err := p.params(true)
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(params))
	higher := false

	for i, param := range params {
		names[i] = param.Name
		higher = higher || param.Callable
	}

	if higher {
		return &HigherOrderFunction{
			Name:       name,
			Parameters: params,
			Body:       body,
			Pos:        kw.Pos,
		}, nil
	}

	return &FunctionDecl{
		Name:       name,
		Parameters: names,
		Body:       body,
		Pos:        kw.Pos,
	}, nil
}

// anonymous parses: withParameters <params> { statement* }.
func (p *parser) anonymous() (*AnonymousFunction, error) {
	kw := p.next()

	params, err := p.params(false)
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(params))
	for i, param := range params {
		names[i] = param.Name
	}

	return &AnonymousFunction{
		Parameters: names,
		Body:       body,
		Pos:        kw.Pos,
	}, nil
}

// params parses the parameter group that follows withParameters. A
// parameter written "callFunction NAME" is callable, which only declarations
// allow.
func (p *parser) params(callable bool) ([]Param, error) {
	group, err := p.group("{", isBraceOpen)
	if err != nil {
		return nil, err
	}

	params := []Param{}

	for i := 0; i < len(group); {
		var param Param

		if callable && group[i].isKeyword(KeywordCallFunction) {
			param.Callable = true
			i++
		}

		if i >= len(group) || group[i].Kind != KindName {
			return nil, p.unexpectedAt(group, i, "parameter name")
		}

		param.Name = group[i].Lexeme
		params = append(params, param)
		i++

		if i < len(group) {
			if group[i].Kind != KindComma {
				return nil, p.unexpectedAt(group, i, ",")
			}

			if i == len(group)-1 {
				return nil, p.unexpectedAt(group, i+1, "parameter name")
			}

			i++
		}
	}

	return params, nil
}

// call parses: callFunction <NAME> withArguments <args> #.
func (p *parser) call() (*Call, error) {
	kw := p.next()

	name, err := p.name(KeywordWithArguments)
	if err != nil {
		return nil, err
	}

	group, err := p.group("#", isTerminator)
	if err != nil {
		return nil, err
	}

	args, err := p.arguments(group)
	if err != nil {
		return nil, err
	}

	if err := p.terminator(); err != nil {
		return nil, err
	}

	return &Call{Name: name, Arguments: args, Pos: kw.Pos}, nil
}

// arguments splits an argument group on top-level commas. Arguments are
// kept as raw text except for function literals.
func (p *parser) arguments(group []Token) ([]Argument, error) {
	args := []Argument{}

	if len(group) == 0 {
		return args, nil
	}

	start, braces, angles := 0, 0, 0

	for i := 0; i <= len(group); i++ {
		if i < len(group) {
			tok := group[i]

			switch {
			case tok.is(KindBrace, "{"):
				braces++
			case tok.is(KindBrace, "}"):
				braces--
			case tok.is(KindBracket, "<"):
				angles++
			case tok.is(KindBracket, ">"):
				angles = max(angles-1, 0)
			}

			if tok.Kind != KindComma || braces > 0 || angles > 0 {
				continue
			}
		}

		part := group[start:i]
		if len(part) == 0 {
			return nil, p.unexpectedAt(group, i, "argument")
		}

		arg := Argument{Raw: Render(part)}

		if part[0].isKeyword(KeywordWithParameters) {
			sub := &parser{tokens: part}

			fn, err := sub.anonymous()
			if err != nil {
				return nil, err
			}

			if !sub.eof() {
				return nil, sub.unexpected(sub.peek(), ",")
			}

			arg.Function = fn
		}

		args = append(args, arg)
		start = i + 1
	}

	return args, nil
}

// ret parses: return <expr> #.
func (p *parser) ret() (*Return, error) {
	kw := p.next()

	group, err := p.group("#", isTerminator)
	if err != nil {
		return nil, err
	}

	if err := p.terminator(); err != nil {
		return nil, err
	}

	return &Return{Value: Render(group), Pos: kw.Pos}, nil
}

// print parses: print <value> toterminal #. A lone string or number is a
// literal, a lone name is a variable reference, and anything else is an
// arithmetic expression.
func (p *parser) print() (*Print, error) {
	kw := p.next()

	group, err := p.group(KeywordToTerminal, isKeyword(KeywordToTerminal))
	if err != nil {
		return nil, err
	}

	p.next() // toterminal

	if err := p.terminator(); err != nil {
		return nil, err
	}

	n := &Print{Pos: kw.Pos}

	switch {
	case len(group) == 0:
	case len(group) == 1 && group[0].Kind == KindName:
		n.IsVariable = true
		n.Value = group[0].Lexeme
	case len(group) == 1 && (group[0].Kind == KindString || group[0].Kind == KindNumber):
		n.Value = group[0].Lexeme
	default:
		n.Expression = Render(group)
	}

	return n, nil
}

// ifCondition parses:
//
//	ifCondition <cond> isTrue { statement* } (elseCondition { statement* })?
func (p *parser) ifCondition() (*IfCondition, error) {
	kw := p.next()

	group, err := p.group(KeywordIsTrue, isKeyword(KeywordIsTrue))
	if err != nil {
		return nil, err
	}

	p.next() // isTrue

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	n := &IfCondition{Condition: Render(group), Body: body, Pos: kw.Pos}

	if !p.eof() && p.peek().isKeyword(KeywordElseCondition) {
		p.next()

		n.Else, err = p.block()
		if err != nil {
			return nil, err
		}
	}

	return n, nil
}

// block parses: { statement* }. The returned slice is never nil.
func (p *parser) block() ([]Node, error) {
	open := p.peek()
	if p.eof() || !isBraceOpen(open) {
		return nil, p.unexpected(open, "{")
	}

	p.next()

	body := []Node{}

	for {
		if p.eof() {
			return nil, ErrUnbalancedBrace.WithPosition(open.Pos).
				With(slog.String("expected", "}"))
		}

		if p.peek().is(KindBrace, "}") {
			p.next()

			return body, nil
		}

		n, err := p.statement()
		if err != nil {
			return nil, err
		}

		body = append(body, n)
	}
}

// name parses a value group holding a single name, followed by the keyword
// want, which is consumed.
func (p *parser) name(want string) (string, error) {
	open := p.peek()

	group, err := p.group(want, isKeyword(want))
	if err != nil {
		return "", err
	}

	if len(group) != 1 || group[0].Kind != KindName {
		pos := open.Pos
		if len(group) > 0 {
			pos = group[0].Pos
		}

		return "", ErrUnexpectedToken.WithPosition(pos).
			With(
				slog.String("token", Render(group)),
				slog.String("expected", "name"),
			)
	}

	p.next() // want

	return group[0].Lexeme, nil
}

// group consumes a value group and returns the tokens between its
// delimiters. The group closes at the first > outside any braces that is
// followed by a token accepted by follow; want names that token for error
// reporting. The token after the group is not consumed.
func (p *parser) group(want string, follow func(Token) bool) ([]Token, error) {
	open := p.peek()
	if p.eof() || !open.isOpen() {
		return nil, p.unexpected(open, "<")
	}

	p.next()

	start, depth, seen := p.pos, 0, -1

scan:
	for i := start; i < len(p.tokens); i++ {
		tok := p.tokens[i]

		switch {
		case isBraceOpen(tok):
			depth++

		case tok.is(KindBrace, "}"):
			depth--
			if depth < 0 {
				break scan
			}

		case depth > 0:

		case tok.isClose():
			if i+1 < len(p.tokens) && follow(p.tokens[i+1]) {
				p.pos = i + 1

				return p.tokens[start:i], nil
			}

			if seen < 0 {
				seen = i
			}

		case tok.Kind == KindTerminator:
			break scan
		}
	}

	if seen < 0 {
		return nil, ErrUnbalancedGroup.WithPosition(open.Pos).
			With(slog.String("expected", ">"))
	}

	after := p.tokenAfter(seen)

	if want == "#" {
		return nil, ErrMissingTerminator.WithPosition(after.Pos).
			With(slog.String("expected", "#"))
	}

	return nil, p.unexpected(after, want)
}

// terminator consumes a statement terminator.
func (p *parser) terminator() error {
	if p.eof() || p.peek().Kind != KindTerminator {
		return ErrMissingTerminator.WithPosition(p.peek().Pos).
			With(slog.String("expected", "#"))
	}

	p.next()

	return nil
}

func (*parser) unexpected(tok Token, expected string) error {
	token := tok.Lexeme
	if token == "" {
		token = "EOF"
	}

	return ErrUnexpectedToken.WithPosition(tok.Pos).
		With(
			slog.String("token", token),
			slog.String("expected", expected),
		)
}

// unexpectedAt reports the token at index i of group, or the end of the
// group when i is out of range.
func (p *parser) unexpectedAt(group []Token, i int, expected string) error {
	tok := p.peek()
	if i < len(group) {
		tok = group[i]
	} else if len(group) > 0 {
		tok = endOf(group[len(group)-1])
	}

	return ErrUnexpectedToken.WithPosition(tok.Pos).
		With(
			slog.String("token", tok.Lexeme),
			slog.String("expected", expected),
		)
}

// peek returns the current token, or a zero-width token positioned just
// past the last token at end of input.
func (p *parser) peek() Token {
	if p.eof() {
		if len(p.tokens) == 0 {
			return Token{Pos: Position{Line: 1, Column: 1}}
		}

		return endOf(p.tokens[len(p.tokens)-1])
	}

	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.peek()
	if !p.eof() {
		p.pos++
	}

	return tok
}

func (p *parser) eof() bool { return p.pos >= len(p.tokens) }

func (p *parser) tokenAfter(i int) Token {
	if i+1 < len(p.tokens) {
		return p.tokens[i+1]
	}

	return endOf(p.tokens[i])
}

// endOf returns a zero-width token positioned just past tok.
func endOf(tok Token) Token {
	width := tok.End - tok.Pos.Offset

	return Token{
		Pos: Position{
			Offset: tok.End,
			Line:   tok.Pos.Line,
			Column: tok.Pos.Column + width,
		},
		End: tok.End,
	}
}

func isTerminator(t Token) bool { return t.Kind == KindTerminator }

func isBraceOpen(t Token) bool { return t.is(KindBrace, "{") }

func isKeyword(kw string) func(Token) bool {
	return func(t Token) bool { return t.isKeyword(kw) }
}
