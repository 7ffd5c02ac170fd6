package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/wordy/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is a call statement being typed at the cursor.
type functionCall struct {
	name     string
	argIndex int // -1 while the function name is being typed
	inCall   bool
}

// detectFunctionCall reports whether the cursor is inside the name or
// argument group of a callFunction statement. The argument index counts the
// commas before the cursor.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	sc := scopeAt(input, cursor)
	if !sc.inGroup {
		return functionCall{}
	}

	switch sc.keyword {
	case lang.KeywordCallFunction:
		return functionCall{name: strings.TrimSpace(sc.group), argIndex: -1, inCall: true}

	case lang.KeywordWithArguments:
		at := strings.LastIndex(input[:cursor], lang.KeywordCallFunction)
		if at < 0 {
			return functionCall{}
		}

		rest := input[at+len(lang.KeywordCallFunction) : cursor]

		open := strings.IndexByte(rest, '<')
		if open < 0 {
			return functionCall{}
		}

		end := strings.IndexByte(rest[open:], '>')
		if end < 0 {
			return functionCall{}
		}

		name := strings.TrimSpace(rest[open+1 : open+end])
		if name == "" {
			return functionCall{}
		}

		return functionCall{
			name:     name,
			argIndex: strings.Count(sc.group, ","),
			inCall:   true,
		}
	}

	return functionCall{}
}

// renderSignatureHint renders name(p1, p2, ...) with the parameter at
// argIndex highlighted. It returns the empty string for unknown functions.
func renderSignatureHint(s *Session, call functionCall) string {
	params, ok := s.Env().Parameters(call.name)
	if !ok {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(call.name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == call.argIndex {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
