package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/wordy/lang"
)

type (
	contextKey struct{}
	optionsKey struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithOptions returns a new context.Context carrying interpreter options
// for the lexer, parser, and evaluator.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts
}

// stdout returns the writer for command output.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the writer for diagnostics that accompany a failure.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// kongVar returns the kong variable named id, or "" without a kong context.
func kongVar(ctx context.Context, id string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[id]
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Sources is the list of script files a command reads, in order. An empty
// list or "-" reads stdin.
type Sources struct {
	Files []string `arg:"" help:"Script file(s) or '-' for stdin." name:"file" optional:"" type:"path"`

	stdin io.Reader `kong:"-"`
}

// open returns a reader over every source file in order, separated by
// newlines, and a name describing them for error messages.
//
// Files are deduplicated with [os.SameFile], so a file named twice, through a
// symlink, or by relative and absolute path is read once. All occurrences of
// "-" collapse to a single stdin reader placed last.
func (s Sources) open() (io.ReadCloser, string, error) {
	files := s.Files
	if len(files) == 0 {
		files = []string{stdinSource}
	}

	var (
		readers  []io.Reader
		closers  []io.Closer
		names    []string
		seen     []os.FileInfo
		useStdin bool
	)

	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	for _, path := range files {
		if path == stdinSource {
			useStdin = true

			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			closeAll()

			return nil, "", ErrReadSource.Wrap(err).With(slog.String("file", path))
		}

		if duplicate(seen, info) {
			continue
		}

		file, err := os.Open(path)
		if err != nil {
			closeAll()

			return nil, "", ErrReadSource.Wrap(err).With(slog.String("file", path))
		}

		seen = append(seen, info)
		closers = append(closers, file)
		names = append(names, path)
		readers = append(readers, file, strings.NewReader("\n"))
	}

	if useStdin {
		in := s.stdin
		if in == nil {
			in = os.Stdin
		}

		names = append(names, "stdin")
		readers = append(readers, in)
	}

	return readCloser{io.MultiReader(readers...), closeAll}, strings.Join(names, ","), nil
}

// read returns the concatenated text of every source.
func (s Sources) read() (string, string, error) {
	r, name, err := s.open()
	if err != nil {
		return "", "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", name, ErrReadSource.Wrap(err).With(slog.String("file", name))
	}

	return string(data), name, nil
}

func duplicate(seen []os.FileInfo, info os.FileInfo) bool {
	for _, s := range seen {
		if os.SameFile(s, info) {
			return true
		}
	}

	return false
}

type readCloser struct {
	io.Reader

	close func()
}

func (r readCloser) Close() error {
	r.close()

	return nil
}
