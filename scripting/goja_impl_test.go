package scripting

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGojaEngine_ContextCancellation(t *testing.T) {
	engine := NewEngine()

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	if _, err := engine.Execute(ctx, "while (true) {}"); err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}

	if _, err := engine.Execute(context.Background(), "1 + 1"); err != nil {
		t.Fatalf("engine should recover after cancellation, got %v", err)
	}
}

func TestGojaEngine_ImmediateCancel(t *testing.T) {
	engine := NewEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Execute(ctx, "42"); err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled error, got %v", err)
	}
}

func TestPrintHandoff(t *testing.T) {
	tests := []struct {
		name          string
		script        string
		wantPrinted   int
		wantClosed    bool
		wantListeners int
	}{
		{
			name: "event driven",
			script: `window.addEventListener("afterprint", function () { window.close(); });
window.addEventListener("load", function () {
  document.fonts.ready.then(function () { window.print(); });
});`,
			wantPrinted: 1, wantClosed: true, wantListeners: 1,
		},
		{
			name:        "fixed delay",
			script:      `window.onload = function () { setTimeout(function () { window.print(); window.close(); }, 800); };`,
			wantPrinted: 1, wantClosed: true, wantListeners: 1,
		},
		{
			name:        "never prints",
			script:      `console.log("idle");`,
			wantPrinted: 0, wantClosed: false, wantListeners: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine := NewEngine()
			w := &Window{}
			if err := engine.RegisterDOM(w); err != nil {
				t.Fatalf("RegisterDOM: %v", err)
			}
			if _, err := engine.Execute(context.Background(), tc.script); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			n, err := engine.Dispatch(context.Background(), "load")
			if err != nil {
				t.Fatalf("Dispatch: %v", err)
			}
			if n != tc.wantListeners {
				t.Errorf("expected %d load listeners, got %d", tc.wantListeners, n)
			}
			if _, err := engine.RunTimers(context.Background()); err != nil {
				t.Fatalf("RunTimers: %v", err)
			}
			if w.Printed() != tc.wantPrinted {
				t.Errorf("expected printed %d, got %d", tc.wantPrinted, w.Printed())
			}
			if w.Closed() != tc.wantClosed {
				t.Errorf("expected closed %v, got %v", tc.wantClosed, w.Closed())
			}
		})
	}
}

func TestRunTimersBounded(t *testing.T) {
	engine := NewEngine()
	if err := engine.RegisterDOM(&Window{}); err != nil {
		t.Fatalf("RegisterDOM: %v", err)
	}
	if _, err := engine.Execute(context.Background(), `function tick() { setTimeout(tick, 10); } tick();`); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	n, err := engine.RunTimers(context.Background())
	if err != nil {
		t.Fatalf("RunTimers: %v", err)
	}
	if n != MaxTimers {
		t.Errorf("expected %d timers, got %d", MaxTimers, n)
	}
}

func TestRunPrintDocument(t *testing.T) {
	doc := `<html><body><div class="p"></div>
<script>console.log("ready"); window.addEventListener("load", function () { window.print(); });</script>
</body></html>`
	w, err := RunPrintDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("RunPrintDocument: %v", err)
	}
	if w.Printed() != 1 {
		t.Errorf("expected one print, got %d", w.Printed())
	}
	if logs := w.Logs(); len(logs) != 1 || logs[0] != "ready" {
		t.Errorf("expected console output, got %v", logs)
	}
}
