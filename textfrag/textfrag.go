// Package textfrag recovers the visual line breaks of a laid-out text run.
//
// The layout engine wraps text with rules (font metrics, justification)
// that cannot be reconstructed from style alone, so the run is measured one
// character at a time and characters are grouped by vertical position.
package textfrag

import (
	"iter"
	"math"
	"slices"
	"strings"

	"github.com/wudi/infosvg/visual"
)

// LineTolerance is the fraction of a character's height by which its top
// may differ from the current line's top and still continue the line.
const LineTolerance = 0.4

// Measurer is the range-measurement primitive: it returns the viewport
// bounding rect of runes [start, end) of t. ok is false when the range
// cannot be measured.
type Measurer interface {
	MeasureRange(t *visual.Text, start, end int) (r visual.Rect, ok bool)
}

// Fragment is one visually distinct line of a text run.
type Fragment struct {
	Text string
	// Box is the union of the line's character rects, in viewport pixels.
	Box visual.Rect
}

// Fragments returns the lines of t top to bottom. The sequence is lazy,
// finite and restartable: every iteration re-measures the run.
func Fragments(t *visual.Text, m Measurer) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		if t == nil || m == nil {
			return
		}
		var (
			line    strings.Builder
			box     visual.Rect
			lineTop = math.NaN()
			// pending holds unmeasurable characters seen before any line.
			pending strings.Builder
		)
		flush := func() bool {
			text := line.String()
			line.Reset()
			if strings.TrimSpace(text) == "" {
				return true
			}
			return yield(Fragment{Text: text, Box: box})
		}

		runes := []rune(t.Content)
		for i, r := range runes {
			rect, ok := m.MeasureRange(t, i, i+1)
			if !ok || rect.W == 0 {
				if math.IsNaN(lineTop) {
					pending.WriteRune(r)
				} else {
					line.WriteRune(r)
				}
				continue
			}
			if math.IsNaN(lineTop) || math.Abs(rect.Y-lineTop) > rect.H*LineTolerance {
				if !math.IsNaN(lineTop) && !flush() {
					return
				}
				lineTop = rect.Y
				box = rect
				line.WriteString(pending.String())
				pending.Reset()
				line.WriteRune(r)
				continue
			}
			line.WriteRune(r)
			box = box.Union(rect)
		}
		if math.IsNaN(lineTop) {
			return
		}
		flush()
	}
}

// Collect materializes the fragments of t.
func Collect(t *visual.Text, m Measurer) []Fragment {
	return slices.Collect(Fragments(t, m))
}

// GlyphMeasurer answers from the per-rune rects captured by the rendering
// collaborator (visual.Text.Glyphs).
type GlyphMeasurer struct{}

// MeasureRange implements Measurer.
func (GlyphMeasurer) MeasureRange(t *visual.Text, start, end int) (visual.Rect, bool) {
	if t == nil || start < 0 || end > len(t.Glyphs) || start >= end {
		return visual.Rect{}, false
	}
	var (
		out   visual.Rect
		found bool
	)
	for _, g := range t.Glyphs[start:end] {
		if g.W == 0 && g.H == 0 {
			continue
		}
		if !found {
			out, found = g, true
			continue
		}
		out = out.Union(g)
	}
	return out, found
}

// FallbackMeasurer uses Primary for runs that carry captured glyphs and
// Secondary for the rest.
type FallbackMeasurer struct {
	Primary, Secondary Measurer
}

// MeasureRange implements Measurer.
func (f FallbackMeasurer) MeasureRange(t *visual.Text, start, end int) (visual.Rect, bool) {
	if f.Primary != nil && len(t.Glyphs) > 0 {
		if r, ok := f.Primary.MeasureRange(t, start, end); ok {
			return r, true
		}
		return visual.Rect{}, false
	}
	if f.Secondary != nil {
		return f.Secondary.MeasureRange(t, start, end)
	}
	return visual.Rect{}, false
}
