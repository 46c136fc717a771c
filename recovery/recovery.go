// Package recovery decides what happens when part of a page cannot be
// transcribed.
package recovery

type Strategy interface {
	OnError(ctx Context, err error, location Location) Action
}

// Location identifies the node being transcribed when an error occurred.
type Location struct {
	Component string
	Page      string
	// Node is the element tag, or a short description of the node.
	Node string
}

type Action int

const (
	ActionFail Action = iota
	ActionSkip
	ActionWarn
)

func (a Action) String() string {
	switch a {
	case ActionFail:
		return "fail"
	case ActionSkip:
		return "skip"
	case ActionWarn:
		return "warn"
	}
	return "unknown"
}

type Context interface{ Done() <-chan struct{} }
