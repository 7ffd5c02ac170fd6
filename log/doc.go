// Package log provides a simplified leveled logging interface based on
// [log/slog].
//
// A [Logger] is an immutable value. Its configuration (output, level,
// format, time layout, caller info) is applied at creation time using
// functional options, and every method that changes it returns a new
// Logger.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("program loaded", slog.Int("statements", 7))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// Attributes added with [Logger.With] survive [Logger.Wrap]:
//
//	logger = logger.With(slog.String("file", "demo.wdy"))
//	logger = logger.Wrap(log.WithFormat(log.FormatJSON))
//
// # Levels
//
// Five levels are supported, [LevelTrace] through [LevelError]. Messages
// below the configured level are discarded.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] use the [log/slog] handlers.
// With [WithPretty] enabled, output is colorized with
// [github.com/fatih/color], which disables color when the terminal does
// not support it.
//
// # Package Logger
//
// The package-level functions log through a default logger writing to
// [os.Stderr], configured with [Config]. Context-unaware functions use
// [DefaultContextProvider], which returns [context.TODO].
package log
