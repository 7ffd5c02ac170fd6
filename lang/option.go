package lang

import "github.com/ardnew/wordy/log"

// DefaultMaxDepth is the maximum call nesting allowed by an [Evaluator]
// unless overridden with [WithMaxDepth].
const DefaultMaxDepth = 256

// Option configures the lexer, parser, and evaluator.
type Option func(*options)

type options struct {
	logger   log.Logger
	strict   bool
	maxDepth int
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStrictLex makes the lexer fail on characters that match no token
// pattern instead of dropping them.
func WithStrictLex(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithMaxDepth limits how deeply function calls may nest. Values less than 1
// are ignored.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}
