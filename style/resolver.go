package style

import (
	"strconv"
	"strings"

	"github.com/wudi/infosvg/visual"
)

// ComputedResolver resolves styles from the computed-style snapshot each
// node carries. It is stateless and safe for concurrent use.
type ComputedResolver struct{}

// NewComputedResolver returns the default resolver.
func NewComputedResolver() ComputedResolver { return ComputedResolver{} }

var sideNames = [4]string{"top", "right", "bottom", "left"}

// Resolve implements Resolver. Nodes without a snapshot, detached nodes and
// nodes that are not displayed resolve to the zero style.
func (ComputedResolver) Resolve(n visual.Node) ResolvedStyle {
	if n == nil {
		return ResolvedStyle{}
	}
	base := n.Base()
	if base.Detached || base.Computed == nil {
		return ResolvedStyle{}
	}
	return FromComputed(base.Computed)
}

// FromComputed builds a ResolvedStyle from CSS computed values.
func FromComputed(cs map[string]string) ResolvedStyle {
	get := func(name string) string { return strings.TrimSpace(cs[name]) }

	if get("display") == "none" {
		return ResolvedStyle{}
	}
	switch get("visibility") {
	case "hidden", "collapse":
		return ResolvedStyle{}
	}

	rs := ResolvedStyle{Visible: true, Opacity: 1}
	rs.Color, _ = ParseColor(get("color"))
	rs.BackgroundColor, _ = ParseColor(get("background-color"))
	rs.Gradient = ParseLinearGradient(get("background-image"))

	for i, side := range sideNames {
		w, _ := ParseLength(get("border-" + side + "-width"))
		c, ok := ParseColor(get("border-" + side + "-color"))
		if !ok {
			c = rs.Color
		}
		rs.Borders[i] = Border{
			Width: w,
			Style: parseBorderStyle(get("border-" + side + "-style")),
			Color: c,
		}
	}
	rs.BorderRadius, _ = ParseLength(firstField(get("border-top-left-radius")))

	rs.FontFamily = strings.ReplaceAll(get("font-family"), `"`, "")
	rs.FontSize, _ = ParseLength(get("font-size"))
	rs.FontWeight = get("font-weight")
	rs.TextAlign = get("text-align")
	rs.LetterSpacing, _ = ParseLength(get("letter-spacing"))
	if lh, ok := ParseLength(get("line-height")); ok {
		rs.LineHeight = Length{Value: lh, Set: true}
	}
	if v, err := strconv.ParseFloat(get("opacity"), 64); err == nil {
		rs.Opacity = max(0, min(1, v))
	}

	rs.Fill = ParsePaint(get("fill"), rs.Color)
	rs.Stroke = ParsePaint(get("stroke"), rs.Color)
	if sw, ok := ParseLength(get("stroke-width")); ok {
		rs.StrokeWidth = Length{Value: sw, Set: true}
	}
	rs.StrokeDash = ParseDashArray(get("stroke-dasharray"))
	rs.LineCap = keyword(get("stroke-linecap"))
	rs.LineJoin = keyword(get("stroke-linejoin"))
	rs.TextAnchor = keyword(get("text-anchor"))
	return rs
}

func parseBorderStyle(s string) BorderStyle {
	switch s {
	case "solid", "double", "groove", "ridge", "inset", "outset":
		return BorderSolid
	case "dashed":
		return BorderDashed
	case "dotted":
		return BorderDotted
	default:
		return BorderNone
	}
}

// keyword drops values that mean "not set".
func keyword(s string) string {
	switch s {
	case "", "none", "normal", "auto", "initial":
		return ""
	}
	return s
}

func firstField(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// ParseLength parses a computed length ("12px", "0", "1.5"). "normal" and
// non-pixel units are reported as unset.
func ParseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "normal" || s == "none" || s == "auto" {
		return 0, false
	}
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePaint parses an SVG paint. currentColor resolves to current.
func ParsePaint(s string, current Color) Paint {
	s = strings.TrimSpace(s)
	ls := strings.ToLower(s)
	switch {
	case ls == "":
		return Paint{}
	case ls == "none":
		return Paint{Kind: PaintNone}
	case ls == "currentcolor":
		return Paint{Kind: PaintColor, Color: current}
	case strings.HasPrefix(ls, "url("):
		end := strings.IndexByte(s, ')')
		if end < 0 {
			return Paint{}
		}
		ref := strings.Trim(s[4:end], ` "'`)
		return Paint{Kind: PaintURL, URL: strings.TrimPrefix(ref, "#")}
	}
	if c, ok := ParseColor(s); ok {
		return Paint{Kind: PaintColor, Color: c}
	}
	return Paint{}
}

// ParseDashArray parses a stroke-dasharray list; "none" yields nil.
func ParseDashArray(s string) []float64 {
	if s == "" || s == "none" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	var out []float64
	for _, p := range parts {
		v, ok := ParseLength(p)
		if !ok {
			return nil
		}
		out = append(out, v)
	}
	return out
}
