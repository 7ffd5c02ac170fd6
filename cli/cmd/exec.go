package cmd

import (
	"context"
)

// Exec runs wordy scripts and prints their output.
type Exec struct {
	Tokens  bool `help:"List tokens before running."                  short:"t"`
	Nodes   bool `help:"List top-level statement types before running." short:"n"`
	Notices bool `help:"Include declaration acknowledgements."        short:"a"`

	Sources `embed:""`
}

// Run executes the run command.
func (e *Exec) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source, name, err := e.read()
	if err != nil {
		return err
	}

	return report(ctx, stdout(ctx), stderr(ctx), name, source, sections{
		tokens:  e.Tokens,
		nodes:   e.Nodes,
		notices: e.Notices,
	})
}
