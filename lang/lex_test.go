package lang

import (
	"context"
	"errors"
	"slices"
	"testing"
	"unicode/utf8"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}

	return out
}

func lexemes(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Lexeme
	}

	return out
}

func TestLex_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Kind
	}{
		{
			name:  "integer declaration",
			input: `integerNamed <x> hasTheValueOf <5>#`,
			want: []Kind{
				KindKeyword, KindBracket, KindName, KindBracket,
				KindKeyword, KindBracket, KindNumber, KindBracket,
				KindTerminator,
			},
		},
		{
			name:  "string literal",
			input: `"hello world"`,
			want:  []Kind{KindString},
		},
		{
			name:  "logical operators",
			input: `and or not`,
			want:  []Kind{KindLogical, KindLogical, KindLogical},
		},
		{
			name:  "arithmetic operators",
			input: `+ - * / ^`,
			want: []Kind{
				KindOperator, KindOperator, KindOperator,
				KindOperator, KindOperator,
			},
		},
		{
			name:  "two character comparisons",
			input: `a == b != c <= d >= e`,
			want: []Kind{
				KindName, KindComparison, KindName, KindComparison,
				KindName, KindComparison, KindName, KindComparison,
				KindName,
			},
		},
		{
			name:  "punctuation",
			input: `( ) { } [ ] , #`,
			want: []Kind{
				KindParenthesis, KindParenthesis, KindBrace, KindBrace,
				KindSquareBracket, KindSquareBracket, KindComma, KindTerminator,
			},
		},
		{
			name:  "negative and decimal numbers",
			input: `-3 2.75`,
			want:  []Kind{KindNumber, KindNumber},
		},
		{
			name:  "comment runs to end of line",
			input: "% a comment print\nprint",
			want:  []Kind{KindKeyword},
		},
		{
			name:  "reserved keyword",
			input: `whileLoop`,
			want:  []Kind{KindKeyword},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if got := kinds(tokens); !slices.Equal(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLex_Lexemes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "minus binds to a following digit",
			input: `5-3`,
			want:  []string{"5", "-3"},
		},
		{
			name:  "minus before space is an operator",
			input: `x - 3`,
			want:  []string{"x", "-", "3"},
		},
		{
			name:  "trailing dot is not part of a number",
			input: `3.`,
			want:  []string{"3"},
		},
		{
			name:  "string keeps its quotes",
			input: `"LeBron"`,
			want:  []string{`"LeBron"`},
		},
		{
			name:  "unterminated quote is dropped",
			input: `"abc`,
			want:  []string{"abc"},
		},
		{
			name:  "unknown characters are dropped",
			input: `print @ x $`,
			want:  []string{"print", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if got := lexemes(tokens); !slices.Equal(got, tt.want) {
				t.Errorf("lexemes = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLex_GluedKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  []Kind
	}{
		{input: `print`, want: []Kind{KindKeyword}},
		{input: `printer`, want: []Kind{KindName}},
		{input: `_print`, want: []Kind{KindName}},
		{input: `5print`, want: []Kind{KindNumber, KindName}},
		{input: `print5`, want: []Kind{KindName}},
		{input: `android`, want: []Kind{KindName}},
		{input: `print#`, want: []Kind{KindKeyword, KindTerminator}},
		{input: `printé`, want: []Kind{KindName}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Lex(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if got := kinds(tokens); !slices.Equal(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLex_AngleBrackets(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Kind
	}{
		{
			name:  "after keyword opens a group",
			input: `print <x>`,
			want:  []Kind{KindKeyword, KindBracket, KindName, KindBracket},
		},
		{
			name:  "after name outside a group compares",
			input: `a < b`,
			want:  []Kind{KindName, KindComparison, KindName},
		},
		{
			name:  "after name inside a group opens another",
			input: `ifCondition <a < b> isTrue`,
			want: []Kind{
				KindKeyword, KindBracket, KindName, KindBracket,
				KindName, KindBracket, KindKeyword,
			},
		},
		{
			name:  "greater with no open group compares",
			input: `a > b`,
			want:  []Kind{KindName, KindComparison, KindName},
		},
		{
			name:  "greater inside a group closes it first",
			input: `ifCondition <a > 5> isTrue`,
			want: []Kind{
				KindKeyword, KindBracket, KindName, KindBracket,
				KindNumber, KindComparison, KindKeyword,
			},
		},
		{
			name:  "after number opens a group",
			input: `5 <`,
			want:  []Kind{KindNumber, KindBracket},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if got := kinds(tokens); !slices.Equal(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLex_Positions(t *testing.T) {
	tokens, err := Lex(context.Background(), "print\n  <x>")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	want := []Position{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 8, Line: 2, Column: 3},
		{Offset: 9, Line: 2, Column: 4},
		{Offset: 10, Line: 2, Column: 5},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}

	for i, tok := range tokens {
		if tok.Pos != want[i] {
			t.Errorf("token %d at %+v, want %+v", i, tok.Pos, want[i])
		}
	}
}

func TestLex_Strict(t *testing.T) {
	_, err := Lex(context.Background(), "print <x>\n  @", WithStrictLex(true))
	if !errors.Is(err, ErrUnexpectedChar) {
		t.Fatalf("expected ErrUnexpectedChar, got %v", err)
	}

	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("expected *Error, got %T", err)
	}

	pos, ok := ee.Position()
	if !ok || pos.Line != 2 || pos.Column != 3 {
		t.Errorf("position = %v (%t), want 2:3", pos, ok)
	}

	if v, ok := ee.Attr("char"); !ok || v.String() != "@" {
		t.Errorf("char attribute = %v, want @", v)
	}

	if _, err := Lex(context.Background(), "print <x>", WithStrictLex(true)); err != nil {
		t.Errorf("clean source failed in strict mode: %v", err)
	}
}

func TestRender(t *testing.T) {
	tests := []string{
		`integerNamed <x> hasTheValueOf <5>#`,
		`print <x+5> toterminal#`,
		`ifCondition <a < 10 and b == "yes"> isTrue { print <"ok"> toterminal# }`,
		`callFunction <f> withArguments <"a", 2, c>#`,
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens, err := Lex(context.Background(), input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if got := Render(tokens); got != input {
				t.Errorf("Render = %q, want %q", got, input)
			}
		})
	}
}

func TestRender_CollapsesWhitespace(t *testing.T) {
	tokens, err := Lex(context.Background(), "print   <x>\n\t toterminal  % done\n#")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	if got, want := Render(tokens), "print <x> toterminal #"; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestKeywords(t *testing.T) {
	words := slices.Collect(Keywords())

	if !slices.IsSorted(words) {
		t.Errorf("keywords not sorted: %v", words)
	}

	for _, kw := range []string{KeywordPrint, KeywordIfCondition, "forLoop"} {
		if !slices.Contains(words, kw) {
			t.Errorf("missing keyword %q", kw)
		}
	}

	if IsReserved(KeywordPrint) {
		t.Error("print should not be reserved")
	}

	if !IsReserved("structNamed") {
		t.Error("structNamed should be reserved")
	}
}

// FuzzLex checks that lexing never panics and that every token is an
// ordered slice of the source.
func FuzzLex(f *testing.F) {
	f.Add(`integerNamed <x> hasTheValueOf <5>#`)
	f.Add(`ifCondition <a < b> isTrue { print <"x"> toterminal# }`)
	f.Add(`% comment`)
	f.Add(`5print -3.2 "unterminated`)
	f.Add(`<<>>><`)

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		tokens, err := Lex(context.Background(), input)
		if err != nil {
			t.Fatalf("lex error: %v", err)
		}

		end := 0

		for i, tok := range tokens {
			if tok.Pos.Offset < end {
				t.Fatalf("token %d at %d overlaps previous end %d", i, tok.Pos.Offset, end)
			}

			if tok.End > len(input) || input[tok.Pos.Offset:tok.End] != tok.Lexeme {
				t.Fatalf("token %d lexeme %q does not match source", i, tok.Lexeme)
			}

			end = tok.End
		}
	})
}
