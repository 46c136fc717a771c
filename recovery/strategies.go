package recovery

import (
	"fmt"
	"sync"

	"github.com/wudi/infosvg/observability"
)

// StrictStrategy implements a fail-fast recovery strategy.
type StrictStrategy struct{}

func NewStrictStrategy() *StrictStrategy {
	return &StrictStrategy{}
}

func (s *StrictStrategy) OnError(ctx Context, err error, location Location) Action {
	return ActionFail
}

// LenientStrategy skips the failing node and keeps going. Errors are
// accumulated and, when a logger is set, logged at warn level.
type LenientStrategy struct {
	Logger observability.Logger

	mu     sync.Mutex
	errors []error
}

func NewLenientStrategy() *LenientStrategy {
	return &LenientStrategy{}
}

func (s *LenientStrategy) OnError(ctx Context, err error, location Location) Action {
	s.mu.Lock()
	s.errors = append(s.errors, fmt.Errorf("[%s] page %q node %q: %w", location.Component, location.Page, location.Node, err))
	s.mu.Unlock()
	if s.Logger != nil {
		s.Logger.Warn("skipping node",
			observability.String("component", location.Component),
			observability.String("page", location.Page),
			observability.String("node", location.Node),
			observability.Error("error", err),
		)
	}
	return ActionSkip
}

// Errors returns a copy of the errors seen so far.
func (s *LenientStrategy) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errors...)
}
