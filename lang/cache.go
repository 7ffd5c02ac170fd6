package lang

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// MaxCachedPrograms is the number of parsed programs [ParseString] keeps.
// The oldest entry is evicted first.
const MaxCachedPrograms = 256

// programCache stores parsed programs keyed by source hash and lexer mode.
// Programs are never mutated after parsing, so entries are shared.
var programCache sync.Map

// cacheOrder holds the keys of programCache in insertion order.
var (
	cacheMu    sync.Mutex
	cacheOrder []string
)

func remember(key string) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	cacheOrder = append(cacheOrder, key)

	for len(cacheOrder) > MaxCachedPrograms {
		programCache.Delete(cacheOrder[0])
		cacheOrder = slices.Delete(cacheOrder, 0, 1)
	}
}

func forget(key string, entry *cacheEntry) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if programCache.CompareAndDelete(key, entry) {
		if i := slices.Index(cacheOrder, key); i >= 0 {
			cacheOrder = slices.Delete(cacheOrder, i, i+1)
		}
	}
}

type cacheEntry struct {
	once sync.Once
	prog *Program
	err  error
}

// ClearCache discards every cached program.
func ClearCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	programCache.Clear()
	cacheOrder = nil
}

// ParseString lexes and parses source. Results are cached by the xxh3 hash
// of source, so repeated parses of the same text share one [Program]. At
// most [MaxCachedPrograms] programs are kept.
func ParseString(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	key := strconv.FormatUint(xxh3.HashString(source), 36) +
		":" + strconv.FormatBool(o.strict)

	value, hit := programCache.LoadOrStore(key, new(cacheEntry))
	entry := value.(*cacheEntry)

	if !hit {
		remember(key)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		var tokens []Token

		tokens, entry.err = Lex(ctx, source, opts...)
		if entry.err == nil {
			entry.prog, entry.err = Parse(ctx, tokens, opts...)
		}
	})

	if entry.err != nil {
		// failed parses are not worth keeping
		forget(key, entry)

		return nil, entry.err
	}

	return entry.prog, nil
}

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}
