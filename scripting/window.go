package scripting

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Window records what a print document did to its window.
type Window struct {
	mu      sync.Mutex
	printed int
	closed  bool
	logs    []string
}

func (w *Window) Print() {
	w.mu.Lock()
	w.printed++
	w.mu.Unlock()
}

func (w *Window) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

func (w *Window) Log(message string) {
	w.mu.Lock()
	w.logs = append(w.logs, message)
	w.mu.Unlock()
}

// Printed returns how many times print was invoked.
func (w *Window) Printed() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.printed
}

// Closed reports whether the window closed itself.
func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Logs returns the console output.
func (w *Window) Logs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.logs...)
}

// ExtractScripts returns the inline scripts of an HTML document in order.
func ExtractScripts(doc string) ([]string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("scripting: parse document: %w", err)
	}
	var scripts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script {
			var b strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					b.WriteString(c.Data)
				}
			}
			scripts = append(scripts, b.String())
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return scripts, nil
}

// RunPrintDocument loads doc in a stub window: it runs the inline scripts,
// fires load and drains timers. The returned window tells whether the
// document printed and closed itself.
func RunPrintDocument(ctx context.Context, doc string) (*Window, error) {
	scripts, err := ExtractScripts(doc)
	if err != nil {
		return nil, err
	}
	engine := NewEngine()
	w := &Window{}
	if err := engine.RegisterDOM(w); err != nil {
		return nil, err
	}
	for i, s := range scripts {
		if _, err := engine.Execute(ctx, s); err != nil {
			return w, fmt.Errorf("scripting: script %d: %w", i, err)
		}
	}
	if _, err := engine.Dispatch(ctx, "load"); err != nil {
		return w, fmt.Errorf("scripting: load: %w", err)
	}
	if _, err := engine.RunTimers(ctx); err != nil {
		return w, fmt.Errorf("scripting: timers: %w", err)
	}
	return w, nil
}
