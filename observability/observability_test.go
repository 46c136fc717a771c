package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	log := NewSlogLogger(base).With(String("page", "p1"))

	log.Warn("node skipped", Int("index", 3), Float64("scale", 1.5), Error("err", errors.New("detached")), Duration("took", 1500*time.Millisecond))

	out := buf.String()
	for _, want := range []string{"level=WARN", `msg="node skipped"`, "page=p1", "index=3", "scale=1.5", "err=detached", "took=1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestNopLoggerWith(t *testing.T) {
	var l Logger = NopLogger{}
	l.With(String("k", "v")).Info("ignored")
}
