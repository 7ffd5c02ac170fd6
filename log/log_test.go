package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.level != DefaultLevel {
		t.Errorf("expected default level %v, got %v", DefaultLevel, logger.level)
	}
	if logger.caller != DefaultCaller {
		t.Errorf("expected caller %v by default", DefaultCaller)
	}
	if logger.format != DefaultFormat {
		t.Errorf("expected default format %v, got %v", DefaultFormat, logger.format)
	}
	if logger.pretty != DefaultPretty {
		t.Errorf("expected pretty %v by default", DefaultPretty)
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelDebug))
	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged at Debug level")
	}

	buf.Reset()
	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged at Error level")
	}

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_LogMethods_RespectLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at error", Logger.Error, LevelError, true},
		{"error at trace", Logger.Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(Make(&buf, WithLevel(tt.minLevel)), "test message")

			if logged := buf.Len() > 0; logged != tt.logged {
				t.Errorf("expected logged=%v, got output length=%d", tt.logged, buf.Len())
			}
		})
	}
}

func TestLogger_LevelNames(t *testing.T) {
	tests := []struct {
		logFunc func(Logger, string, ...slog.Attr)
		level   string
	}{
		{Logger.Trace, "TRACE"},
		{Logger.Debug, "DEBUG"},
		{Logger.Info, "INFO"},
		{Logger.Warn, "WARN"},
		{Logger.Error, "ERROR"},
	}

	for _, pretty := range []bool{false, true} {
		for _, tt := range tests {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(LevelTrace), WithPretty(pretty))

			tt.logFunc(logger, "test message")

			if !strings.Contains(buf.String(), tt.level) {
				t.Errorf("pretty=%v: expected level %q, got: %s", pretty, tt.level, buf.String())
			}
		}
	}
}

func TestLogger_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}
		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}
		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		output := buf.String()
		if !strings.Contains(output, `msg="test message"`) {
			t.Errorf("message not found in text output: %s", output)
		}
		if !strings.Contains(output, "key=value") {
			t.Errorf("key=value not found in text output: %s", output)
		}
	})
}

func TestLogger_WithCaller_ReportsCallSite(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithFormat(FormatJSON), WithPretty(false)).
		Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller in log_test.go, got: %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithCaller(false), WithFormat(FormatJSON), WithPretty(false)).
		Info("test message")

	if strings.Contains(buf.String(), `"source"`) {
		t.Errorf("caller included when disabled: %s", buf.String())
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))

	logger.With(slog.String("key", "value")).Info("test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to unmarshal log entry: %v", err)
	}
	if entry["key"] != "value" {
		t.Errorf("expected key=value in log entry, got %v", entry["key"])
	}

	buf.Reset()
	logger.Info("without attrs")

	if strings.Contains(buf.String(), "key") {
		t.Errorf("With modified its receiver: %s", buf.String())
	}
}

func TestLogger_Wrap_KeepsAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false)).
		With(slog.String("file", "demo.wdy")).
		Wrap(WithFormat(FormatJSON))

	if logger.Format() != FormatJSON {
		t.Errorf("expected format %v after Wrap, got %v", FormatJSON, logger.Format())
	}

	logger.Info("loaded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to unmarshal log entry: %v", err)
	}
	if entry["file"] != "demo.wdy" {
		t.Errorf("expected file=demo.wdy after Wrap, got %v", entry["file"])
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var l Logger

	l.Trace("test")
	l.Debug("test")
	l.Info("test")
	l.Warn("test")
	l.Error("test")

	if l.With(slog.String("key", "value")).Logger != nil {
		t.Error("expected nil logger from zero value With")
	}
	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("expected defaults from zero value accessors")
	}

	var buf bytes.Buffer
	if w := l.Wrap(WithOutput(&buf), WithPretty(false)); w.Logger == nil {
		t.Error("expected usable logger from zero value Wrap")
	} else {
		w.Info("wrapped")
		if !strings.Contains(buf.String(), "wrapped") {
			t.Errorf("expected output from wrapped logger, got: %s", buf.String())
		}
	}
}

func TestLogger_TimeLayoutNone_OmitsTime(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer
		Make(&buf, WithTimeLayout("none"), WithFormat(FormatJSON), WithPretty(pretty)).
			Info("test")

		if strings.Contains(buf.String(), `"time"`) {
			t.Errorf("pretty=%v: expected no time field, got: %s", pretty, buf.String())
		}
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf syncBuffer
		logger := Make(&buf, WithPretty(pretty))

		var wg sync.WaitGroup
		for i := range 100 {
			wg.Go(func() {
				logger.Info("concurrent message", slog.Int("id", i))
			})
		}
		wg.Wait()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 100 {
			t.Errorf("pretty=%v: expected 100 log lines, got %d", pretty, len(lines))
		}
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf)

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Info_WithCaller(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true))

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Info_Plain(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(false)).With(slog.String("component", "test"))

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}
