package lang

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Kind classifies a [Token].
type Kind int

const (
	KindKeyword       Kind = iota // KEYWORD
	KindLogical                   // LOGICAL
	KindNumber                    // NUMBER
	KindString                    // STRING
	KindName                      // NAME
	KindOperator                  // OPERATOR
	KindComparison                // COMPARISON
	KindBracket                   // BRACKET
	KindParenthesis               // PARENTHESIS
	KindBrace                     // BRACE
	KindSquareBracket             // SQUARE_BRACKET
	KindComma                     // COMMA
	KindTerminator                // TERMINATOR
)

var kindName = [...]string{
	KindKeyword:       "KEYWORD",
	KindLogical:       "LOGICAL",
	KindNumber:        "NUMBER",
	KindString:        "STRING",
	KindName:          "NAME",
	KindOperator:      "OPERATOR",
	KindComparison:    "COMPARISON",
	KindBracket:       "BRACKET",
	KindParenthesis:   "PARENTHESIS",
	KindBrace:         "BRACE",
	KindSquareBracket: "SQUARE_BRACKET",
	KindComma:         "COMMA",
	KindTerminator:    "TERMINATOR",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Keywords of the language. The reserved group is recognized by the lexer but
// has no statement form.
const (
	KeywordPrint          = "print"
	KeywordToTerminal     = "toterminal"
	KeywordFunctionNamed  = "functionNamed"
	KeywordWithParameters = "withParameters"
	KeywordCallFunction   = "callFunction"
	KeywordReturn         = "return"
	KeywordWithArguments  = "withArguments"
	KeywordIntegerNamed   = "integerNamed"
	KeywordTextValueNamed = "textValueNamed"
	KeywordHasTheValueOf  = "hasTheValueOf"
	KeywordIfCondition    = "ifCondition"
	KeywordIsTrue         = "isTrue"
	KeywordElseCondition  = "elseCondition"
)

var keywords = map[string]bool{
	KeywordPrint:          false,
	KeywordToTerminal:     false,
	KeywordFunctionNamed:  false,
	KeywordWithParameters: false,
	KeywordCallFunction:   false,
	KeywordReturn:         false,
	KeywordWithArguments:  false,
	KeywordIntegerNamed:   false,
	KeywordTextValueNamed: false,
	KeywordHasTheValueOf:  false,
	KeywordIfCondition:    false,
	KeywordIsTrue:         false,
	KeywordElseCondition:  false,
	// reserved
	"whileLoop":   true,
	"repeatUntil": true,
	"forLoop":     true,
	"from":        true,
	"to":          true,
	"step":        true,
	"arrayNamed":  true,
	"structNamed": true,
	"withFields":  true,
	"accessField": true,
	"withIndex":   true,
}

var logicals = map[string]struct{}{"and": {}, "or": {}, "not": {}}

// Keywords returns every keyword in sorted order.
func Keywords() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(keywords)))
}

// IsReserved reports whether word is a keyword without a statement form.
func IsReserved(word string) bool { return keywords[word] }

// Position is a location in source text. Line and Column are 1-based; Column
// counts bytes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a classified lexeme. End is the byte offset just past the lexeme.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
	End    int
}

func (t Token) String() string {
	return t.Kind.String() + " = " + strconv.Quote(t.Lexeme)
}

// is reports whether t has kind k and lexeme s.
func (t Token) is(k Kind, s string) bool { return t.Kind == k && t.Lexeme == s }

func (t Token) isKeyword(s string) bool { return t.is(KindKeyword, s) }

// isOpen reports whether t opens a value group.
func (t Token) isOpen() bool {
	return t.Lexeme == "<" && (t.Kind == KindBracket || t.Kind == KindComparison)
}

// isClose reports whether t may close a value group.
func (t Token) isClose() bool {
	return t.Lexeme == ">" && (t.Kind == KindBracket || t.Kind == KindComparison)
}

// Render joins the lexemes of tokens, separating two tokens with a single
// space wherever the source had a gap between them.
func Render(tokens []Token) string {
	var sb strings.Builder

	for i, tok := range tokens {
		if i > 0 && tok.Pos.Offset > tokens[i-1].End {
			sb.WriteByte(' ')
		}

		sb.WriteString(tok.Lexeme)
	}

	return sb.String()
}
