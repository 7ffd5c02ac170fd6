package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/wordy/lang"
	"github.com/ardnew/wordy/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written in wordy.
//
// The file is run in a fresh environment and every variable it declares
// becomes the value of the flag of the same name. Hyphens in flag names are
// written as underscores:
//
//	integerNamed <max_depth> hasTheValueOf <64>#
//	textValueNamed <log_level> hasTheValueOf <"debug">#
//	textValueNamed <log_pretty> hasTheValueOf <"false">#
//
// Text values have their quotes removed. A file that fails to parse or run
// is logged and ignored. Command-line flags override config file values.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		prog, err := lang.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration", slog.Any("error", err))

			return config{}, nil
		}

		env := lang.NewEnv()

		if _, err := lang.NewEvaluator().Run(ctx, env, prog); err != nil {
			log.WarnContext(ctx, "ignoring configuration", slog.Any("error", err))

			return config{}, nil
		}

		cfg := config{}

		for name, v := range env.Variables() {
			if v.Kind() != lang.ValueFunction {
				cfg[name] = v.Display()
			}
		}

		log.TraceContext(ctx, "configuration loaded", slog.Int("values", len(cfg)))

		return cfg, nil
	}
}

// config implements [kong.Resolver] for wordy configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. Flags are looked up by name, then with
// hyphens replaced by underscores.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
