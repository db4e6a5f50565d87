package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestPrettyText(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithPretty(true),
		WithFormat(FormatText),
		WithLevel(LevelInfo),
		WithTimeLayout("none"),
	).With(slog.String("component", "repl"))

	logger.Warn("slow evaluation",
		slog.Duration("elapsed", 1500*time.Millisecond),
		slog.Bool("canceled", false),
		slog.Any("error", errors.New("boom")),
		slog.Group("pos", slog.Int("line", 2), slog.Int("column", 9)),
	)

	// Output to a buffer is never colorized.
	want := "level=WARN msg=slow evaluation component=repl elapsed=1.5s " +
		"canceled=false error=boom pos.line=2 pos.column=9\n"
	if got := buf.String(); got != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, got)
	}
}

func TestPrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithPretty(true),
		WithFormat(FormatJSON),
		WithLevel(LevelInfo),
		WithTimeLayout("none"),
	)

	logger.Info("done", slog.Int64("result", 8), slog.Any("value", nil))

	want := "{\n  level: INFO,\n  msg: done,\n  result: 8,\n  value: null\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestPretty_GroupPrefix(t *testing.T) {
	var buf bytes.Buffer

	h := newPrettyTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.New(h).WithGroup("lang").With(slog.String("stage", "parse")).Info("ok", slog.Int("n", 1))

	if out := buf.String(); !strings.Contains(out, "lang.stage=parse") ||
		!strings.Contains(out, "lang.n=1") {
		t.Errorf("expected group-prefixed keys, got %s", out)
	}
}
