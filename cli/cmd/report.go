package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/wordy/lang"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6"))
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	systemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// sections selects what a script report includes besides program output.
type sections struct {
	tokens  bool
	nodes   bool
	notices bool
}

func (s sections) any() bool { return s.tokens || s.nodes || s.notices }

// report lexes, parses, and runs source, writing the selected sections to
// w. Section headers are written only when a section other than output is
// selected.
//
// On failure the offending source line is written to errw and the error is
// returned with name attached.
func report(ctx context.Context, w, errw io.Writer, name, source string, s sections) error {
	opts := optionsFrom(ctx)

	fail := func(err error) error {
		_, _ = fmt.Fprintln(errw, lang.FormatSourceError(source, err))

		return lang.WrapError(err).With(slog.String("file", name))
	}

	if s.tokens {
		tokens, err := lang.Lex(ctx, source, opts...)
		if err != nil {
			return fail(err)
		}

		header(w, "Tokens")
		writeTokens(w, tokens)
	}

	prog, err := lang.ParseString(ctx, source, opts...)
	if err != nil {
		return fail(err)
	}

	if s.nodes {
		header(w, "Nodes")
		writeNodes(w, prog)
	}

	results, err := lang.NewEvaluator(opts...).Run(ctx, lang.NewEnv(), prog)
	if err != nil {
		return fail(err)
	}

	if s.any() {
		header(w, "Output")
	}

	writeResults(w, results, s.notices)

	return nil
}

func header(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, headerStyle.Render("== "+title+" =="))
}

// writeTokens lists tokens as "i: KIND = 'lexeme'" followed by the total.
func writeTokens(w io.Writer, tokens []lang.Token) {
	for i, tok := range tokens {
		_, _ = fmt.Fprintf(w, "%d: %s = '%s'\n", i, kindStyle.Render(tok.Kind.String()), tok.Lexeme)
	}

	_, _ = fmt.Fprintf(w, "Total tokens: %d\n", len(tokens))
}

// writeNodes lists the type of each top-level statement, numbered from 1.
func writeNodes(w io.Writer, prog *lang.Program) {
	for i, n := range prog.Statements {
		_, _ = fmt.Fprintf(w, "Node %d: %s\n", i+1, n.NodeType())
	}
}

// writeResults writes output values one per line. With notices set,
// acknowledgements and return values are interleaved in execution order.
func writeResults(w io.Writer, results lang.Results, notices bool) {
	for r := range results.All() {
		switch {
		case r.Kind == lang.ResultOutput:
			_, _ = fmt.Fprintln(w, r.Text)

		case !notices:

		case r.Kind == lang.ResultReturn:
			_, _ = fmt.Fprintln(w, systemStyle.Render("[Return]: "+r.Text))

		default:
			_, _ = fmt.Fprintln(w, systemStyle.Render("[System]: "+r.Text))
		}
	}
}
