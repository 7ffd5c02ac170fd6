package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/wordy/lang"
	"github.com/ardnew/wordy/log"
	"github.com/ardnew/wordy/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the session edit loop. It
// writes the session transcript to a temporary file, opens the user's
// editor, and parses the result. On parse error the user is asked to edit
// again; declining yields [ErrEditDeclined].
type editCommand struct {
	ctx     context.Context
	session *Session
	logger  log.Logger
	source  string // edited source, empty when the edit was cancelled
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop.
func (c *editCommand) Run() error {
	var content strings.Builder

	for chunk := range c.session.Transcript() {
		content.WriteString(chunk)
		content.WriteByte('\n')
	}

	f, err := os.CreateTemp("", pkg.Name+"-repl-*"+pkg.Extension)
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	text := content.String()

	for {
		if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
			return err
		}

		data, err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, path)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		_, parseErr := lang.ParseString(c.ctx, string(data), c.session.opts...)
		c.logger.TraceContext(c.ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.source = string(data)

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", lang.FormatSourceError(string(data), parseErr))
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		text = string(data)
	}
}

// runEditor opens path in $EDITOR and returns the edited content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
