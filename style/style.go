// Package style resolves the computed-style snapshot of a visual node into
// typed presentation attributes.
package style

import (
	"github.com/wudi/infosvg/visual"
)

// Resolver returns the fully resolved presentation attributes of a node.
// Implementations must not cache across calls: the tree may have changed.
type Resolver interface {
	Resolve(n visual.Node) ResolvedStyle
}

// BorderStyle is the line style of one border side.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderSolid
	BorderDashed
	BorderDotted
)

func (b BorderStyle) String() string {
	switch b {
	case BorderSolid:
		return "solid"
	case BorderDashed:
		return "dashed"
	case BorderDotted:
		return "dotted"
	default:
		return "none"
	}
}

// Side indexes the four border sides.
type Side int

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// Border is one side of a box border.
type Border struct {
	Width float64
	Style BorderStyle
	Color Color
}

// Visible reports whether the side paints anything.
func (b Border) Visible() bool {
	return b.Width > 0 && b.Style != BorderNone && !b.Color.Transparent()
}

// GradientStop is one color stop of a linear gradient.
type GradientStop struct {
	Color Color
	// Offset in [0,1]; negative when the source did not position the stop.
	Offset float64
}

// Gradient is a linear background gradient.
type Gradient struct {
	// Angle in degrees, CSS convention: 0 points up, 90 to the right.
	Angle float64
	Stops []GradientStop
}

// PaintKind tells how a fill or stroke paints.
type PaintKind int

const (
	PaintUnset PaintKind = iota
	PaintNone
	PaintColor
	PaintURL
)

// Paint is an SVG fill or stroke.
type Paint struct {
	Kind  PaintKind
	Color Color
	// URL is the referenced resource id for PaintURL, without "#".
	URL string
}

// Length is an optional length in layout pixels.
type Length struct {
	Value float64
	Set   bool
}

// ResolvedStyle is an immutable snapshot of a node's presentation.
// The zero value is fully transparent, zero geometry and not visible.
type ResolvedStyle struct {
	Visible bool

	Color           Color
	BackgroundColor Color
	Gradient        *Gradient
	Borders         [4]Border
	BorderRadius    float64

	FontFamily    string
	FontSize      float64
	FontWeight    string
	TextAlign     string
	LetterSpacing float64
	LineHeight    Length

	// Opacity in [0,1].
	Opacity float64

	// SVG presentation.
	Fill        Paint
	Stroke      Paint
	StrokeWidth Length
	// StrokeDash is nil when no dash pattern applies.
	StrokeDash []float64
	LineCap    string
	LineJoin   string
	TextAnchor string
}

// Border returns the border on side s.
func (s ResolvedStyle) Border(side Side) Border { return s.Borders[side] }

// UniformBorder reports whether all four sides share width (within 0.1),
// style and color, and paint something.
func (s ResolvedStyle) UniformBorder() bool {
	first := s.Borders[Top]
	if !first.Visible() {
		return false
	}
	for _, b := range s.Borders[1:] {
		if abs(b.Width-first.Width) >= 0.1 || b.Style != first.Style || b.Color != first.Color {
			return false
		}
	}
	return true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
