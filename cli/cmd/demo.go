package cmd

import (
	"context"
	_ "embed"
	"io"
	"strings"
)

//go:embed demo.wdy
var demoSource string

// Demo runs a built-in sample script with every report section.
type Demo struct {
	Print bool `help:"Print the sample script instead of running it." short:"p"`
}

// Run executes the demo command.
func (d *Demo) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if d.Print {
		_, err = io.Copy(stdout(ctx), strings.NewReader(demoSource))

		return err
	}

	return report(ctx, stdout(ctx), stderr(ctx), "demo.wdy", demoSource, sections{
		tokens:  true,
		nodes:   true,
		notices: true,
	})
}
