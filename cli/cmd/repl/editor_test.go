package repl

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/wordy/log"
)

// editorScript writes an executable editor that replaces the edited file
// with content.
func editorScript(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "editor.sh")
	script := "#!/bin/sh\ncat > \"$1\" <<'END'\n" + content + "\nEND\n"

	if err := os.WriteFile(path, []byte(script), 0o700); err != nil {
		t.Fatal(err)
	}

	return path
}

func runEdit(t *testing.T, s *Session, stdin string) (*editCommand, error) {
	t.Helper()

	cmd := &editCommand{ctx: context.Background(), session: s, logger: log.Logger{}}
	cmd.SetStdin(strings.NewReader(stdin))
	cmd.SetStdout(&bytes.Buffer{})
	cmd.SetStderr(&bytes.Buffer{})

	return cmd, cmd.Run()
}

func TestEdit_Unchanged(t *testing.T) {
	t.Setenv("EDITOR", "true")

	s := newTestSession(t, `integerNamed <x> hasTheValueOf <5>#`)

	cmd, err := runEdit(t, s, "")
	if err != nil {
		t.Fatal(err)
	}

	if got, want := cmd.source, "integerNamed <x> hasTheValueOf <5>#\n"; got != want {
		t.Errorf("source = %q, want %q", got, want)
	}
}

func TestEdit_Empty(t *testing.T) {
	t.Setenv("EDITOR", "true")

	cmd, err := runEdit(t, NewSession(), "")
	if err != nil {
		t.Fatal(err)
	}

	if cmd.source != "" {
		t.Errorf("empty edit produced source %q", cmd.source)
	}
}

func TestEdit_Replaced(t *testing.T) {
	t.Setenv("EDITOR", editorScript(t, "print <7> toterminal#"))

	cmd, err := runEdit(t, NewSession(), "")
	if err != nil {
		t.Fatal(err)
	}

	if strings.TrimSpace(cmd.source) != "print <7> toterminal#" {
		t.Errorf("source = %q", cmd.source)
	}
}

func TestEdit_Declined(t *testing.T) {
	t.Setenv("EDITOR", editorScript(t, "bogus#"))

	_, err := runEdit(t, NewSession(), "n\n")
	if !errors.Is(err, ErrEditDeclined) {
		t.Errorf("error = %v, want %v", err, ErrEditDeclined)
	}
}
