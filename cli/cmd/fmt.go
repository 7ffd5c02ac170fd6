package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/wordy/lang"
)

// Fmt parses wordy scripts and writes them in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical wordy source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
}

// parse reads and parses the sources. Parse failures are reported with the
// offending source line.
func (s Sources) parse(ctx context.Context, format string) (*lang.Program, error) {
	r, name, err := s.open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	prog, err := lang.ParseReader(ctx, r, optionsFrom(ctx)...)
	if err != nil {
		return nil, lang.WrapError(err).With(
			slog.String("file", name),
			slog.String("format", format),
		)
	}

	return prog, nil
}

// Native formats input as canonical wordy source.
type Native struct {
	Indent int `default:"4" help:"Indent width of block bodies; 0 writes one line per statement." short:"i"`

	Sources `embed:""`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := f.parse(ctx, "native")
	if err != nil {
		return err
	}

	return prog.FormatNative(ctx, stdout(ctx), f.Indent)
}

// JSON formats input as a JSON syntax tree.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Sources `embed:""`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	return prog.FormatJSON(ctx, stdout(ctx), j.Indent)
}

// YAML formats input as a YAML syntax tree.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Sources `embed:""`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return prog.FormatYAML(ctx, stdout(ctx), y.Indent)
}

// AST formats input as an indented tree of statements.
type AST struct {
	Sources `embed:""`
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	if err := prog.FormatTree(ctx, stdout(ctx)); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	return nil
}
