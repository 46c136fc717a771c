package fonts

import (
	"sync"

	"github.com/wudi/infosvg/style"
	"github.com/wudi/infosvg/visual"
)

// DefaultFontSize is used when a run carries no font-size.
const DefaultFontSize = 16

// Measurer measures text runs headlessly by laying them out inside their
// box with a single face. It implements textfrag.Measurer and is safe for
// concurrent use.
type Measurer struct {
	face  *Face
	scale float64

	mu    sync.Mutex
	cache map[*visual.Text]measured
}

type measured struct {
	content string
	rects   []visual.Rect
}

// NewMeasurer returns a measurer for a view zoomed by scale (viewport
// pixels per layout pixel).
func NewMeasurer(face *Face, scale float64) *Measurer {
	if scale <= 0 {
		scale = 1
	}
	return &Measurer{face: face, scale: scale, cache: make(map[*visual.Text]measured)}
}

// MeasureRange returns the viewport rect of runes [start, end) of t.
func (m *Measurer) MeasureRange(t *visual.Text, start, end int) (visual.Rect, bool) {
	if t == nil || m.face == nil || start < 0 || start >= end {
		return visual.Rect{}, false
	}
	rects := m.rects(t)
	if end > len(rects) {
		return visual.Rect{}, false
	}
	out := rects[start]
	for _, r := range rects[start+1 : end] {
		if r.W == 0 {
			continue
		}
		if out.W == 0 {
			out = r
			continue
		}
		out = out.Union(r)
	}
	return out, true
}

func (m *Measurer) rects(t *visual.Text) []visual.Rect {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.cache[t]; ok && c.content == t.Content {
		return c.rects
	}

	rs := style.FromComputed(t.Computed)
	size := rs.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	l := Layout{
		Size:          size,
		LetterSpacing: rs.LetterSpacing,
		MaxWidth:      t.Box.W / m.scale,
		Align:         rs.TextAlign,
	}
	if rs.LineHeight.Set {
		l.LineHeight = rs.LineHeight.Value
	}

	local := m.face.LayoutText(t.Content, l)
	rects := make([]visual.Rect, len(local))
	for i, r := range local {
		rects[i] = visual.Rect{
			X: t.Box.X + r.X*m.scale,
			Y: t.Box.Y + r.Y*m.scale,
			W: r.W * m.scale,
			H: r.H * m.scale,
		}
	}
	m.cache[t] = measured{content: t.Content, rects: rects}
	return rects
}
