package fonts

import (
	"math"
	"unicode"

	"github.com/wudi/infosvg/visual"
)

// Line is one line produced by the greedy wrapper: runes [Start, End).
type Line struct {
	Start, End int
	// Width excludes hanging whitespace at the end of the line.
	Width float64
}

// Wrap breaks runes into lines no wider than maxWidth given each rune's
// advance. A newline forces a break. Whitespace that overflows the line
// hangs off its end with zero width. Words longer than a whole line break
// between characters. A non-positive or infinite maxWidth disables
// wrapping. The returned hang slice marks hanging runes.
func Wrap(runes []rune, adv []float64, maxWidth float64) (lines []Line, hang []bool) {
	hang = make([]bool, len(runes))
	if len(runes) == 0 {
		return nil, hang
	}
	if maxWidth <= 0 || math.IsInf(maxWidth, 0) || math.IsNaN(maxWidth) {
		maxWidth = math.Inf(1)
	}

	var (
		start int
		width float64
	)
	closeLine := func(end int) {
		lines = append(lines, Line{Start: start, End: end, Width: width})
		start, width = end, 0
	}

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '\n':
			hang[i] = true
			closeLine(i + 1)
			i++
			continue
		case unicode.IsSpace(r):
			if width > 0 && width+adv[i] > maxWidth {
				hang[i] = true
				closeLine(i + 1)
			} else {
				width += adv[i]
			}
			i++
			continue
		}

		end := i
		w := 0.0
		for end < len(runes) && !unicode.IsSpace(runes[end]) {
			w += adv[end]
			end++
		}
		if width+w <= maxWidth {
			width += w
			i = end
			continue
		}
		if i > start {
			closeLine(i)
		}
		if w <= maxWidth {
			width = w
			i = end
			continue
		}
		// Character-level breaking for a word wider than the line.
		for ; i < end; i++ {
			if width > 0 && width+adv[i] > maxWidth {
				closeLine(i)
			}
			width += adv[i]
		}
	}
	if start < len(runes) || len(lines) == 0 {
		closeLine(len(runes))
	}
	return lines, hang
}

// Layout describes how to set a run of text.
type Layout struct {
	Size          float64
	LetterSpacing float64
	LineHeight    float64
	// MaxWidth is the available line width; zero disables wrapping.
	MaxWidth float64
	// Align is a CSS text-align value.
	Align string
}

// LayoutText lays out text and returns one rect per rune, relative to the
// top-left of the containing block. Forced breaks and hanging whitespace
// get zero-width rects.
func (f *Face) LayoutText(text string, l Layout) []visual.Rect {
	runes := []rune(text)
	adv := f.Advances(runes, l.Size)
	for i := range adv {
		if adv[i] > 0 || !unicode.IsControl(runes[i]) {
			adv[i] += l.LetterSpacing
		}
	}
	lineHeight := l.LineHeight
	if lineHeight <= 0 {
		lineHeight = l.Size * 1.2
	}
	charHeight := l.Size * 1.15

	lines, hang := Wrap(runes, adv, l.MaxWidth)
	rects := make([]visual.Rect, len(runes))
	for n, line := range lines {
		top := float64(n)*lineHeight + (lineHeight-charHeight)/2
		x := alignOffset(l.Align, l.MaxWidth, line.Width)
		for i := line.Start; i < line.End; i++ {
			w := adv[i]
			if hang[i] {
				w = 0
			}
			rects[i] = visual.Rect{X: x, Y: top, W: w, H: charHeight}
			x += w
		}
	}
	return rects
}

func alignOffset(align string, maxWidth, width float64) float64 {
	if maxWidth <= 0 || math.IsInf(maxWidth, 0) {
		return 0
	}
	free := max(0, maxWidth-width)
	switch align {
	case "center", "-webkit-center":
		return free / 2
	case "right", "end", "-webkit-right":
		return free
	}
	return 0
}
