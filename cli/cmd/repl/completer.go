package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/wordy/lang"
)

// commands are the control commands, without their ':' prefix.
var commands = []string{"help", "vars", "funcs", "reset", "edit", "clear", "quit"}

// statements are the keywords that begin a statement.
var statements = []string{
	lang.KeywordPrint,
	lang.KeywordIntegerNamed,
	lang.KeywordTextValueNamed,
	lang.KeywordFunctionNamed,
	lang.KeywordCallFunction,
	lang.KeywordIfCondition,
	lang.KeywordReturn,
}

// followers maps a keyword to the keyword expected after its group.
var followers = map[string]string{
	lang.KeywordPrint:          lang.KeywordToTerminal,
	lang.KeywordIntegerNamed:   lang.KeywordHasTheValueOf,
	lang.KeywordTextValueNamed: lang.KeywordHasTheValueOf,
	lang.KeywordFunctionNamed:  lang.KeywordWithParameters,
	lang.KeywordCallFunction:   lang.KeywordWithArguments,
	lang.KeywordIfCondition:    lang.KeywordIsTrue,
}

// isWordBoundary reports whether r delimits words for completion.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n',
		'<', '>', '{', '}', '(', ')', '[', ']',
		'+', '-', '*', '/', '^', '=', '!',
		',', '#', '"', '%':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// scope describes where in a statement a position falls.
type scope struct {
	keyword string // last keyword before the position
	inGroup bool   // inside an unclosed <...> group
	group   string // text of the open group up to the position
}

// scopeAt returns the scope of the position pos within input.
func scopeAt(input string, pos int) scope {
	prefix := input[:min(pos, len(input))]

	var sc scope

	open := strings.LastIndexAny(prefix, "<>#{}")
	if open >= 0 && prefix[open] == '<' {
		sc.inGroup = true
		sc.group = prefix[open+1:]
		prefix = prefix[:open]
	}

	fields := strings.FieldsFunc(prefix, isWordBoundary)
	for _, f := range slices.Backward(fields) {
		if isKeyword(f) {
			sc.keyword = f

			break
		}
	}

	return sc
}

// isKeyword reports whether word is a keyword with a statement form.
func isKeyword(word string) bool {
	if lang.IsReserved(word) {
		return false
	}

	for kw := range lang.Keywords() {
		if kw == word {
			return true
		}
	}

	return false
}

// expectsGroup reports whether keyword is followed by a <...> group.
func expectsGroup(keyword string) bool {
	switch keyword {
	case lang.KeywordToTerminal, lang.KeywordIsTrue, lang.KeywordElseCondition, "":
		return false
	}

	return true
}

// candidates returns the completions valid at the word starting at
// wordStart.
func candidates(s *Session, input string, wordStart int) []string {
	if strings.HasPrefix(input, ":") {
		if strings.ContainsAny(input[:wordStart], " \t") {
			return nil
		}

		return commands
	}

	sc := scopeAt(input, wordStart)

	if !sc.inGroup {
		trimmed := strings.TrimSpace(input[:wordStart])

		switch {
		case sc.keyword != "" && expectsGroup(sc.keyword) && strings.HasSuffix(trimmed, sc.keyword):
			return nil

		case strings.HasSuffix(trimmed, "}"):
			return append([]string{lang.KeywordElseCondition}, statements...)
		}

		if next, ok := followers[sc.keyword]; ok && strings.HasSuffix(trimmed, ">") {
			return []string{next}
		}

		return statements
	}

	switch sc.keyword {
	case lang.KeywordIntegerNamed, lang.KeywordTextValueNamed,
		lang.KeywordFunctionNamed, lang.KeywordWithParameters:
		return nil

	case lang.KeywordCallFunction:
		return slices.Collect(s.Env().Functions())
	}

	var names []string

	for name := range s.Env().Variables() {
		names = append(names, name)
	}

	return append(names, slices.Collect(s.Env().Functions())...)
}

// completions returns the fuzzy matches for the word at cursor, ranked
// best-first, along with the word boundaries. An empty word matches nothing.
func completions(s *Session, input string, cursor int) (matches fuzzy.Matches, start, end int) {
	word, start, end := wordBounds(input, cursor)
	if word == "" {
		return nil, start, end
	}

	names := candidates(s, input, start)
	if len(names) == 0 {
		return nil, start, end
	}

	return fuzzy.Find(word, names), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	s *Session,
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(s, match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted. Declared functions get a "()" suffix.
func renderCandidate(s *Session, match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if _, ok := s.Env().Parameters(match.Str); ok {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
