package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/wordy/cli/cmd/repl"
	"github.com/ardnew/wordy/log"
)

// Repl starts an interactive session.
type Repl struct {
	Preload []string `arg:"" help:"Script file(s) to run before the first prompt." name:"file" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cacheDir := kongVar(ctx, CacheIdentifier)
	if cacheDir == "" {
		panic("internal error: cache directory undefined")
	}

	var preload io.Reader

	if len(r.Preload) > 0 {
		rc, name, err := Sources{Files: r.Preload}.open()
		if err != nil {
			return err
		}
		defer rc.Close()

		log.DebugContext(ctx, "repl preload", slog.String("file", name))

		preload = rc
	}

	return repl.Run(ctx, preload, cacheDir, log.Default(), optionsFrom(ctx)...)
}
