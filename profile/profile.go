package profile

import (
	"context"
	"log/slog"

	"github.com/ardnew/wordy/log"
)

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Profiler selects a profiling mode and the directory its output is
// written to.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option returns a copy of a Profiler with one setting changed.
type Option func(Profiler) Profiler

// Make returns a Profiler with opts applied.
func Make(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		if opt != nil {
			p = opt(p)
		}
	}

	return p
}

// Start starts profiling in p.Mode. The returned Stopper is always safe to
// call; it does nothing if p.Mode is empty, unknown, or profiling was not
// compiled in.
func (p Profiler) Start(ctx context.Context) Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	s := start(p)

	if _, ok := s.(ignore); ok {
		log.WarnContext(ctx, "profiling unavailable", slog.String("mode", p.Mode))

		return s
	}

	log.DebugContext(ctx, "pprof start",
		slog.String("mode", p.Mode),
		slog.String("dir", p.Path))

	return stopper(func() {
		s.Stop()
		log.DebugContext(ctx, "pprof stop", slog.String("mode", p.Mode))
	})
}

// WithMode returns an option setting the profiling mode, one of [Modes].
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath returns an option setting the profile output directory.
func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet returns an option that silences the profiler's own logging.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

type ignore struct{}

func (ignore) Stop() {}

type stopper func()

func (s stopper) Stop() { s() }
