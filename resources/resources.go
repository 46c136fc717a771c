// Package resources collects the shared paint definitions (gradients,
// patterns) of one assembled document.
package resources

import (
	"fmt"

	"github.com/wudi/infosvg/svg"
)

// Category tells what kind of paint a definition is.
type Category string

const (
	CategoryGradient Category = "gradient"
	CategoryPattern  Category = "pattern"
)

// CategoryOf classifies a definition element by name.
func CategoryOf(el *svg.Element) Category {
	if el != nil && el.Name == "pattern" {
		return CategoryPattern
	}
	return CategoryGradient
}

// Paint is a named, shareable definition.
type Paint struct {
	ID      string
	Element *svg.Element
}

// Accumulator keeps definitions in insertion order, at most one per id.
// It is scoped to one assembly and is not safe for concurrent use.
type Accumulator struct {
	order []Paint
	index map[string]int
	seq   int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{index: make(map[string]int)}
}

// Add registers el under id. It reports false, leaving the first
// definition in place, when id is already registered.
func (a *Accumulator) Add(id string, el *svg.Element) bool {
	if id == "" || el == nil {
		return false
	}
	if _, ok := a.index[id]; ok {
		return false
	}
	a.index[id] = len(a.order)
	a.order = append(a.order, Paint{ID: id, Element: el})
	return true
}

// Has reports whether id is registered.
func (a *Accumulator) Has(id string) bool {
	_, ok := a.index[id]
	return ok
}

// Lookup returns the definition registered under id.
func (a *Accumulator) Lookup(id string) (Paint, bool) {
	i, ok := a.index[id]
	if !ok {
		return Paint{}, false
	}
	return a.order[i], true
}

// NewGradientID returns an id of the form bg-grad-N not yet registered.
func (a *Accumulator) NewGradientID() string {
	for {
		a.seq++
		id := fmt.Sprintf("bg-grad-%d", a.seq)
		if !a.Has(id) {
			return id
		}
	}
}

// Len returns the number of definitions.
func (a *Accumulator) Len() int { return len(a.order) }

// Paints returns the definitions in insertion order.
func (a *Accumulator) Paints() []Paint {
	return append([]Paint(nil), a.order...)
}

// Elements returns the definition elements in insertion order.
func (a *Accumulator) Elements() []*svg.Element {
	out := make([]*svg.Element, len(a.order))
	for i, p := range a.order {
		out[i] = p.Element
	}
	return out
}
