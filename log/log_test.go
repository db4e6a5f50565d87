package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestMake_Defaults(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if got := logger.Level(); got != DefaultLevel {
		t.Errorf("expected level %v, got %v", DefaultLevel, got)
	}

	if got := logger.Format(); got != DefaultFormat {
		t.Errorf("expected format %v, got %v", DefaultFormat, got)
	}

	if logger.caller != DefaultCaller || logger.pretty != DefaultPretty {
		t.Errorf("unexpected defaults: caller=%t pretty=%t", logger.caller, logger.pretty)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level   Level
		written []string
	}{
		{LevelTrace, []string{"trace", "debug", "info", "warn", "error"}},
		{LevelInfo, []string{"info", "warn", "error"}},
		{LevelError, []string{"error"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithLevel(tt.level), WithTimeLayout("none"))
			logger.Trace("trace")
			logger.Debug("debug")
			logger.Info("info")
			logger.Warn("warn")
			logger.Error("error")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.written) {
				t.Fatalf("expected %d lines, got %d:\n%s", len(tt.written), len(lines), buf.String())
			}

			for i, msg := range tt.written {
				if !strings.Contains(lines[i], "msg="+msg) {
					t.Errorf("line %d: expected msg=%s, got %s", i, msg, lines[i])
				}

				if want := "level=" + strings.ToUpper(msg); !strings.Contains(lines[i], want) {
					t.Errorf("line %d: expected %s, got %s", i, want, lines[i])
				}
			}
		})
	}
}

func TestLogger_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatJSON), WithLevel(LevelInfo)).
			Info("hello", slog.String("key", "value"), slog.Int("n", 3))

		var got map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", buf.String(), err)
		}

		if got["msg"] != "hello" || got["key"] != "value" || got["n"] != 3.0 {
			t.Errorf("unexpected record: %v", got)
		}

		if got["level"] != "INFO" {
			t.Errorf("expected level INFO, got %v", got["level"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatText), WithLevel(LevelInfo)).
			Info("hello", slog.String("key", "value"))

		if out := buf.String(); !strings.Contains(out, "msg=hello") ||
			!strings.Contains(out, "key=value") {
			t.Errorf("unexpected text output: %s", out)
		}
	})
}

func TestLogger_TimeLayout(t *testing.T) {
	tests := []struct {
		layout string
		want   func(string) bool
	}{
		{"none", func(s string) bool { return !strings.Contains(s, "time=") }},
		{"", func(s string) bool { return !strings.Contains(s, "time=") }},
		{"RFC3339", func(s string) bool { return strings.Contains(s, "time=") && strings.Contains(s, "T") }},
		{"Kitchen", func(s string) bool { return strings.Contains(s, "M ") }},
		{"2006", func(s string) bool { return strings.HasPrefix(s, "time=2") }},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			var buf bytes.Buffer

			Make(&buf, WithTimeLayout(tt.layout), WithLevel(LevelInfo)).Info("x")

			if !tt.want(buf.String()) {
				t.Errorf("unexpected output for layout %q: %s", tt.layout, buf.String())
			}
		})
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithLevel(LevelInfo)).Info("here")

	if !strings.Contains(buf.String(), "log_test.go:") {
		t.Errorf("expected caller to be this file, got %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithCaller(false), WithLevel(LevelInfo)).Info("here")

	if strings.Contains(buf.String(), "source=") {
		t.Errorf("expected no source, got %s", buf.String())
	}
}

func TestLogger_WithAndWrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelInfo), WithTimeLayout("none"))
	tagged := base.With(slog.String("component", "lexer"))

	tagged.Info("tokenized")

	if !strings.Contains(buf.String(), "component=lexer") {
		t.Errorf("expected attribute from With, got %s", buf.String())
	}

	buf.Reset()
	base.Info("plain")

	if strings.Contains(buf.String(), "component=") {
		t.Errorf("With must not modify the receiver, got %s", buf.String())
	}

	buf.Reset()

	wrapped := base.Wrap(WithFormat(FormatJSON))
	wrapped.Info("json")

	if wrapped.Format() != FormatJSON || base.Format() != FormatText {
		t.Error("Wrap must override only the new logger")
	}

	if !json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Errorf("expected JSON output, got %s", buf.String())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	logger.Trace("ignored")
	logger.Error("ignored", slog.String("k", "v"))
	logger = logger.With(slog.Int("n", 1))

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero logger must not be enabled")
	}

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Error("zero logger must report defaults")
	}

	var buf bytes.Buffer

	logger.Wrap(WithOutput(&buf), WithLevel(LevelInfo)).Info("now written")

	if !strings.Contains(buf.String(), "now written") {
		t.Errorf("expected wrapped zero logger to write, got %q", buf.String())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf bytes.Buffer
		mu  sync.Mutex
		wg  sync.WaitGroup
	)

	logger := Make(writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	}), WithLevel(LevelInfo))

	for i := range 16 {
		wg.Go(func() {
			logger.With(slog.Int("worker", i)).Info("working")
		})
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "msg=working"); got != 16 {
		t.Errorf("expected 16 records, got %d", got)
	}
}

func TestPackage_DefaultLogger(t *testing.T) {
	original := Default()
	t.Cleanup(func() { defaultLog.Store(&original) })

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelTrace), WithFormat(FormatJSON))

	tests := []struct {
		fn    func(string, ...slog.Attr)
		level string
	}{
		{Trace, "TRACE"},
		{Debug, "DEBUG"},
		{Info, "INFO"},
		{Warn, "WARN"},
		{Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			var got map[string]any
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON %q: %v", buf.String(), err)
			}

			if got["level"] != tt.level || got["key"] != "value" {
				t.Errorf("unexpected record: %v", got)
			}
		})
	}

	buf.Reset()
	With(slog.String("scope", "pkg")).InfoContext(t.Context(), "scoped")

	if !strings.Contains(buf.String(), `"scope":"pkg"`) {
		t.Errorf("expected scoped attribute, got %s", buf.String())
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	levels := map[string]Level{
		"trace":   LevelTrace,
		"TRACE":   LevelTrace,
		" Debug ": LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"debug+2": Level(slog.LevelDebug + 2),
		"bogus":   DefaultLevel,
	}

	for s, want := range levels {
		if got := ParseLevel(s); got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", s, want, got)
		}
	}

	formats := map[string]Format{
		"json":  FormatJSON,
		"TEXT":  FormatText,
		"bogus": DefaultFormat,
	}

	for s, want := range formats {
		if got := ParseFormat(s); got != want {
			t.Errorf("ParseFormat(%q): expected %v, got %v", s, want, got)
		}
	}

	var names []string
	for name := range Levels() {
		names = append(names, name)
	}

	if strings.Join(names, ",") != "trace,debug,info,warn,error" {
		t.Errorf("unexpected level names: %v", names)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func BenchmarkLogger_Info(b *testing.B) {
	logger := Make(writerFunc(func(p []byte) (int, error) { return len(p), nil }),
		WithLevel(LevelInfo))

	for b.Loop() {
		logger.Info("benchmark", slog.Int("n", 1))
	}
}

func BenchmarkLogger_Disabled(b *testing.B) {
	logger := Make(nil, WithLevel(LevelError))

	for b.Loop() {
		logger.Trace("benchmark", slog.Int("n", 1))
	}
}
