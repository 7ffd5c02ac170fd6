package repl

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/ardnew/wordy/lang"
)

// Session accumulates input lines into complete statements and runs them
// against one [lang.Env] that persists for the life of the session.
type Session struct {
	env        *lang.Env
	ev         *lang.Evaluator
	opts       []lang.Option
	pending    []string
	transcript []string

	// held is set while pending is a complete chunk ending in an ifCondition
	// block that the next line may extend with elseCondition.
	held bool
}

// NewSession returns a session with an empty environment.
func NewSession(opts ...lang.Option) *Session {
	return &Session{
		env:  lang.NewEnv(),
		ev:   lang.NewEvaluator(opts...),
		opts: opts,
	}
}

// Env returns the environment shared by every statement of the session.
func (s *Session) Env() *lang.Env { return s.env }

// Pending reports whether an incomplete statement is buffered.
func (s *Session) Pending() bool { return len(s.pending) > 0 }

// Transcript yields the source of every chunk that ran without error.
func (s *Session) Transcript() iter.Seq[string] { return slices.Values(s.transcript) }

// AwaitingElse reports whether the buffered input is a complete
// ifCondition block held back in case the next line begins with
// elseCondition.
func (s *Session) AwaitingElse() bool { return s.held }

// Feed appends line to the buffered input. Once the buffer holds complete
// statements they are parsed and run, and ready is true. A chunk that fails
// to parse or run is discarded.
//
// A chunk ending with an ifCondition block is held until the next line. If
// that line begins with elseCondition it joins the chunk; otherwise the held
// chunk runs first and line is fed on its own. A blank line runs the held
// chunk.
func (s *Session) Feed(ctx context.Context, line string) (results lang.Results, ready bool, err error) {
	if s.held && !startsWith(ctx, line, lang.KeywordElseCondition) {
		results, err = s.Flush(ctx)
		if blank(ctx, line) {
			return results, true, err
		}

		more, _, lineErr := s.Feed(ctx, line)

		return append(results, more...), true, errors.Join(err, lineErr)
	}

	if !s.Pending() && blank(ctx, line) {
		return nil, false, nil
	}

	s.held = false
	s.pending = append(s.pending, line)

	source := strings.Join(s.pending, "\n")

	tokens, complete := scan(ctx, source)
	if !complete {
		return nil, false, nil
	}

	if awaitsElse(tokens) {
		s.held = true

		return nil, false, nil
	}

	return s.exec(ctx)
}

// Flush runs a held ifCondition chunk without waiting for elseCondition.
// It does nothing unless [Session.AwaitingElse].
func (s *Session) Flush(ctx context.Context) (lang.Results, error) {
	if !s.held {
		return nil, nil
	}

	results, _, err := s.exec(ctx)

	return results, err
}

// exec runs and clears the buffered chunk.
func (s *Session) exec(ctx context.Context) (lang.Results, bool, error) {
	source := strings.Join(s.pending, "\n")

	s.pending = nil
	s.held = false

	results, err := s.run(ctx, source)
	if err != nil {
		return results, true, err
	}

	s.transcript = append(s.transcript, source)

	return results, true, nil
}

// Load runs source as one chunk, as when preloading a file.
func (s *Session) Load(ctx context.Context, source string) (lang.Results, error) {
	results, err := s.run(ctx, source)
	if err == nil {
		s.transcript = append(s.transcript, source)
	}

	return results, err
}

// Replace resets the session and runs source in its place. On error the
// session is left empty.
func (s *Session) Replace(ctx context.Context, source string) (lang.Results, error) {
	s.Reset()

	return s.Load(ctx, source)
}

// Discard drops any buffered incomplete statement.
func (s *Session) Discard() {
	s.pending = nil
	s.held = false
}

// Reset clears the environment, the transcript, and any buffered input.
func (s *Session) Reset() {
	s.env.Reset()
	s.pending = nil
	s.held = false
	s.transcript = nil
}

// run parses and runs one chunk. Chunks are rarely repeated, so they bypass
// the program cache.
func (s *Session) run(ctx context.Context, source string) (lang.Results, error) {
	tokens, err := lang.Lex(ctx, source, s.opts...)
	if err != nil {
		return nil, err
	}

	prog, err := lang.Parse(ctx, tokens, s.opts...)
	if err != nil {
		return nil, err
	}

	return s.ev.Run(ctx, s.env, prog)
}

// Variables returns one "name = value" line per variable.
func (s *Session) Variables() []string {
	var lines []string

	for name, v := range s.env.Variables() {
		lines = append(lines, fmt.Sprintf("%s = %s", name, v.Display()))
	}

	return lines
}

// Functions returns the signature of every declared function.
func (s *Session) Functions() []string {
	var lines []string

	for name := range s.env.Functions() {
		lines = append(lines, s.Signature(name))
	}

	return lines
}

// Signature returns name(p1, p2, ...) for a declared function, or the empty
// string when name is not declared.
func (s *Session) Signature(name string) string {
	params, ok := s.env.Parameters(name)
	if !ok {
		return ""
	}

	return name + "(" + strings.Join(params, ", ") + ")"
}

// complete reports whether source holds only whole statements: its braces
// balance and its last token closes a statement.
func complete(ctx context.Context, source string) bool {
	_, ok := scan(ctx, source)

	return ok
}

// scan lexes source and reports whether it holds only whole statements.
// Source that fails to lex is complete so that the error surfaces.
func scan(ctx context.Context, source string) ([]lang.Token, bool) {
	tokens, err := lang.Lex(ctx, source)
	if err != nil {
		return nil, true
	}

	if len(tokens) == 0 {
		return tokens, false
	}

	depth := 0

	for _, tok := range tokens {
		if tok.Kind != lang.KindBrace {
			continue
		}

		switch tok.Lexeme {
		case "{":
			depth++
		case "}":
			depth--
		}
	}

	if depth < 0 {
		return tokens, true
	}

	last := tokens[len(tokens)-1]

	return tokens, depth == 0 && (last.Kind == lang.KindTerminator || last.Lexeme == "}")
}

// awaitsElse reports whether the last top-level statement of a complete
// token sequence is an ifCondition without an elseCondition.
func awaitsElse(tokens []lang.Token) bool {
	var (
		depth int
		last  string
	)

	for _, tok := range tokens {
		switch {
		case tok.Kind == lang.KindBrace && tok.Lexeme == "{":
			depth++
		case tok.Kind == lang.KindBrace && tok.Lexeme == "}":
			depth--
		case depth == 0 && tok.Kind == lang.KindKeyword &&
			(slices.Contains(statements, tok.Lexeme) || tok.Lexeme == lang.KeywordElseCondition):
			last = tok.Lexeme
		}
	}

	return last == lang.KeywordIfCondition &&
		len(tokens) > 0 && tokens[len(tokens)-1].Lexeme == "}"
}

// startsWith reports whether the first token of line is keyword.
func startsWith(ctx context.Context, line, keyword string) bool {
	tokens, err := lang.Lex(ctx, line)

	return err == nil && len(tokens) > 0 && tokens[0].Lexeme == keyword
}

// blank reports whether line holds nothing but whitespace and comments.
func blank(ctx context.Context, line string) bool {
	tokens, err := lang.Lex(ctx, line)

	return err == nil && len(tokens) == 0
}
