package lang

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lex splits source into tokens, discarding whitespace and comments.
//
// The characters < and > either delimit value groups or compare operands.
// Lex resolves them from the previous token and the number of open groups:
// a < after a keyword opens a group, a < after a name outside any group is a
// comparison, and any other < opens a group. A > closes the innermost open
// group, or is a comparison when none is open.
//
// Characters matching no token pattern are dropped, unless [WithStrictLex]
// is set, in which case Lex fails with [ErrUnexpectedChar].
func Lex(ctx context.Context, source string, opts ...Option) ([]Token, error) {
	o := makeOptions(opts...)

	l := &lexer{
		src:    source,
		line:   1,
		col:    1,
		strict: o.strict,
	}

	tokens, err := l.run()
	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "lex complete",
		slog.Int("source_bytes", len(source)),
		slog.Int("token_count", len(tokens)),
		slog.Int("dropped", l.dropped),
	)

	return tokens, nil
}

type lexer struct {
	src     string
	pos     int
	line    int
	col     int
	tokens  []Token
	open    int // value groups currently open
	dropped int
	strict  bool
}

func (l *lexer) run() ([]Token, error) {
	for l.pos < len(l.src) {
		start := l.position()
		c := l.src[l.pos]

		switch {
		case isWordStart(c):
			l.word(start)

		case isDigit(c) || (c == '-' && l.digitAt(l.pos+1)):
			l.number(start)

		case c == '"':
			if end := strings.IndexByte(l.src[l.pos+1:], '"'); end >= 0 {
				l.emit(KindString, start, end+2)
			} else if err := l.drop(start); err != nil {
				return nil, err
			}

		case strings.IndexByte("+-*/^", c) >= 0:
			l.emit(KindOperator, start, 1)

		case l.comparison():
			l.emit(KindComparison, start, 2)

		case c == '<':
			l.less(start)

		case c == '>':
			l.greater(start)

		case c == '(' || c == ')':
			l.emit(KindParenthesis, start, 1)

		case c == '{' || c == '}':
			l.emit(KindBrace, start, 1)

		case c == '[' || c == ']':
			l.emit(KindSquareBracket, start, 1)

		case c == ',':
			l.emit(KindComma, start, 1)

		case c == '#':
			l.emit(KindTerminator, start, 1)

		case c == '%':
			n := strings.IndexByte(l.src[l.pos:], '\n')
			if n < 0 {
				n = len(l.src) - l.pos
			}

			l.advance(n)

		case strings.IndexByte(" \t\n\r\f\v", c) >= 0:
			l.advance(1)

		default:
			if err := l.drop(start); err != nil {
				return nil, err
			}
		}
	}

	return l.tokens, nil
}

// word scans an identifier-shaped lexeme. Keywords and logical operators
// only count as such when no word character touches them on either side.
func (l *lexer) word(start Position) {
	n := 1
	for l.pos+n < len(l.src) && isWordPart(l.src[l.pos+n]) {
		n++
	}

	text := l.src[l.pos : l.pos+n]
	kind := KindName

	if !l.glued(l.pos, l.pos+n) {
		if _, ok := keywords[text]; ok {
			kind = KindKeyword
		} else if _, ok := logicals[text]; ok {
			kind = KindLogical
		}
	}

	l.emit(kind, start, n)
}

// number scans -?\d+(\.\d+)?.
func (l *lexer) number(start Position) {
	n := 0
	if l.src[l.pos] == '-' {
		n++
	}

	for l.digitAt(l.pos + n) {
		n++
	}

	if l.pos+n < len(l.src) && l.src[l.pos+n] == '.' && l.digitAt(l.pos+n+1) {
		n++
		for l.digitAt(l.pos + n) {
			n++
		}
	}

	l.emit(KindNumber, start, n)
}

func (l *lexer) comparison() bool {
	if l.pos+1 >= len(l.src) || l.src[l.pos+1] != '=' {
		return false
	}

	return strings.IndexByte("=!<>", l.src[l.pos]) >= 0
}

func (l *lexer) less(start Position) {
	prev, ok := l.last()

	switch {
	case ok && prev.Kind == KindKeyword:
		l.open++
		l.emit(KindBracket, start, 1)

	case ok && prev.Kind == KindName && l.open == 0:
		l.emit(KindComparison, start, 1)

	default:
		l.open++
		l.emit(KindBracket, start, 1)
	}
}

func (l *lexer) greater(start Position) {
	if l.open > 0 {
		l.open--
		l.emit(KindBracket, start, 1)

		return
	}

	l.emit(KindComparison, start, 1)
}

// drop skips the character at the current position, or reports it in
// strict mode.
func (l *lexer) drop(start Position) error {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])

	if l.strict {
		return ErrUnexpectedChar.WithPosition(start).
			With(slog.String("char", string(r)))
	}

	l.dropped++
	l.advance(size)

	return nil
}

func (l *lexer) emit(kind Kind, start Position, n int) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.src[l.pos : l.pos+n],
		Pos:    start,
		End:    l.pos + n,
	})

	l.advance(n)
}

func (l *lexer) advance(n int) {
	for _, c := range []byte(l.src[l.pos : l.pos+n]) {
		if c == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}

	l.pos += n
}

func (l *lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *lexer) last() (Token, bool) {
	if len(l.tokens) == 0 {
		return Token{}, false
	}

	return l.tokens[len(l.tokens)-1], true
}

func (l *lexer) digitAt(i int) bool {
	return i < len(l.src) && isDigit(l.src[i])
}

// glued reports whether a word character immediately precedes start or
// follows end.
func (l *lexer) glued(start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(l.src[:start])
		if isWordRune(r) {
			return true
		}
	}

	if end < len(l.src) {
		r, _ := utf8.DecodeRuneInString(l.src[end:])
		if isWordRune(r) {
			return true
		}
	}

	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordPart(c byte) bool { return isWordStart(c) || isDigit(c) }

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
