package scripting

import (
	"context"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute executes a script in the context of the print document.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterDOM exposes a stub browser window backed by dom.
	RegisterDOM(dom DOM) error

	// Dispatch fires a window event ("load", "afterprint") and returns the
	// number of listeners invoked.
	Dispatch(ctx context.Context, event string) (int, error)

	// RunTimers runs pending setTimeout callbacks in due order and returns
	// how many ran.
	RunTimers(ctx context.Context) (int, error)
}

// DOM receives the window side effects a print document's script triggers.
type DOM interface {
	// Print is called by window.print().
	Print()
	// Close is called by window.close().
	Close()
	// Log receives console.log output.
	Log(message string)
}
