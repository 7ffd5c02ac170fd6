package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/wordy/lang"
)

// Tokens lists the tokens of wordy scripts without running them.
type Tokens struct {
	Render bool `help:"Print the re-rendered token stream instead of the listing." short:"r"`

	Sources `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source, name, err := t.read()
	if err != nil {
		return err
	}

	tokens, err := lang.Lex(ctx, source, optionsFrom(ctx)...)
	if err != nil {
		_, _ = fmt.Fprintln(stderr(ctx), lang.FormatSourceError(source, err))

		return lang.WrapError(err).With(slog.String("file", name))
	}

	if t.Render {
		_, err = fmt.Fprintln(stdout(ctx), lang.Render(tokens))

		return err
	}

	writeTokens(stdout(ctx), tokens)

	return nil
}
