package transcribe

import (
	"github.com/wudi/infosvg/coords"
	"github.com/wudi/infosvg/style"
	"github.com/wudi/infosvg/svg"
	"github.com/wudi/infosvg/textfrag"
	"github.com/wudi/infosvg/visual"
)

// BaselineShift is the fraction of the font size added below a line's
// vertical center to reach its alphabetic baseline.
const BaselineShift = 0.32

// Dash pattern factors, relative to the border width.
const (
	dashOn, dashOff = 3.5, 2.5
	dotOn, dotOff   = 1.0, 2.5
)

// Box transcribes the box-model subtree rooted at n. Embedded graphics met
// on the way are delegated to Graphic and recorded as consumed.
func (c *Context) Box(n visual.Node) ([]*svg.Element, error) {
	var out []*svg.Element
	if err := c.box(n, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Context) box(n visual.Node, out *[]*svg.Element) error {
	if n == nil || n.Base().SkippedForExport() {
		return nil
	}
	switch v := n.(type) {
	case *visual.Graphic:
		el, err := c.Graphic(v)
		if err != nil {
			return err
		}
		if el != nil {
			*out = append(*out, el)
		}
		return nil
	case *visual.Text:
		return c.text(v, c.resolver.Resolve(v), out)
	case *visual.GraphicElement:
		return nil
	}

	base := n.Base()
	if base.Detached {
		return c.degrade("box", n, ErrDetached)
	}
	rs := c.resolver.Resolve(n)
	if !rs.Visible {
		return nil
	}
	r := c.mapper.ToDocSpace(base.Box)
	radius := c.styleLength(rs.BorderRadius)

	if !rs.BackgroundColor.Transparent() {
		attrs := append(cornerAttrs(radius), paintAttrs("fill", rs.BackgroundColor)...)
		*out = append(*out, svg.Rect(r.X, r.Y, r.W, r.H, attrs...))
	}
	if rs.Gradient != nil {
		el, err := c.gradient(n, r, radius, rs.Gradient)
		if err != nil {
			return err
		}
		if el != nil {
			*out = append(*out, el)
		}
	}
	*out = append(*out, c.borders(r, radius, rs)...)

	if img, ok := n.(*visual.Image); ok {
		if img.Src == "" {
			if err := c.degrade("box", n, ErrNoImageSource); err != nil {
				return err
			}
		} else {
			*out = append(*out, svg.Image(r.X, r.Y, r.W, r.H, img.Src))
		}
	}

	for _, child := range visual.Children(n) {
		if t, ok := child.(*visual.Text); ok {
			if err := c.text(t, rs, out); err != nil {
				return err
			}
			continue
		}
		if err := c.box(child, out); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) gradient(n visual.Node, r coords.DocRect, radius float64, g *style.Gradient) (*svg.Element, error) {
	if len(g.Stops) < 2 {
		return nil, c.degrade("box", n, ErrGradientStops)
	}
	first, last := g.Stops[0].Color, g.Stops[len(g.Stops)-1].Color
	id := c.paints.NewGradientID()
	x1, y1, x2, y2 := g.Vector()
	c.paints.Add(id, svg.LinearGradient(id, x1, y1, x2, y2,
		svg.Stop{Offset: 0, Color: first.Hex(), Opacity: first.A},
		svg.Stop{Offset: 1, Color: last.Hex(), Opacity: last.A},
	))
	attrs := append(cornerAttrs(radius), svg.Str("fill", "url(#"+id+")"))
	return svg.Rect(r.X, r.Y, r.W, r.H, attrs...), nil
}

// borders emits one stroked rect for a uniform border, otherwise one line
// per visible side. Strokes are inset by half their width so they stay
// inside the border box.
func (c *Context) borders(r coords.DocRect, radius float64, rs style.ResolvedStyle) []*svg.Element {
	if rs.UniformBorder() {
		b := rs.Border(style.Top)
		w := c.styleLength(b.Width)
		half := w / 2
		attrs := cornerAttrs(max(0, radius-half))
		attrs = append(attrs, svg.Str("fill", "none"))
		attrs = append(attrs, strokeAttrs(b.Color, w, b.Style)...)
		return []*svg.Element{svg.Rect(r.X+half, r.Y+half, max(0, r.W-w), max(0, r.H-w), attrs...)}
	}

	var out []*svg.Element
	for _, side := range []style.Side{style.Top, style.Bottom, style.Left, style.Right} {
		b := rs.Border(side)
		if !b.Visible() {
			continue
		}
		w := c.styleLength(b.Width)
		half := w / 2
		var x1, y1, x2, y2 float64
		switch side {
		case style.Top:
			x1, y1, x2, y2 = r.X, r.Y+half, r.X+r.W, r.Y+half
		case style.Bottom:
			x1, y1, x2, y2 = r.X, r.Y+r.H-half, r.X+r.W, r.Y+r.H-half
		case style.Left:
			x1, y1, x2, y2 = r.X+half, r.Y, r.X+half, r.Y+r.H
		case style.Right:
			x1, y1, x2, y2 = r.X+r.W-half, r.Y, r.X+r.W-half, r.Y+r.H
		}
		out = append(out, svg.Line(x1, y1, x2, y2, strokeAttrs(b.Color, w, b.Style)...))
	}
	return out
}

func (c *Context) text(t *visual.Text, rs style.ResolvedStyle, out *[]*svg.Element) error {
	if t.SkippedForExport() {
		return nil
	}
	if t.Detached {
		return c.degrade("text", t, ErrDetached)
	}
	if !rs.Visible {
		return nil
	}
	size := c.styleLength(rs.FontSize)
	letterSpacing := c.styleLength(rs.LetterSpacing)
	anchor, shift := anchorFor(rs.TextAlign)

	for frag := range textfrag.Fragments(t, c.measurer) {
		fr := c.mapper.ToDocSpace(frag.Box)
		x := fr.X + fr.W*shift
		y := fr.Y + fr.H/2 + BaselineShift*size

		attrs := paintAttrs("fill", rs.Color)
		if rs.FontFamily != "" {
			attrs = append(attrs, svg.Str("font-family", rs.FontFamily))
		}
		if size > 0 {
			attrs = append(attrs, svg.Num("font-size", size))
		}
		if rs.FontWeight != "" && rs.FontWeight != "normal" {
			attrs = append(attrs, svg.Str("font-weight", rs.FontWeight))
		}
		attrs = append(attrs, svg.Str("text-anchor", anchor))
		if letterSpacing != 0 {
			attrs = append(attrs, svg.Num("letter-spacing", letterSpacing))
		}
		attrs = append(attrs, svg.Str("xml:space", "preserve"))
		*out = append(*out, svg.Text(x, y, frag.Text, attrs...))
	}
	return nil
}

// anchorFor maps text-align to an SVG text-anchor and the fraction of the
// line width at which the anchor sits.
func anchorFor(align string) (string, float64) {
	switch align {
	case "center", "-webkit-center":
		return "middle", 0.5
	case "right", "end", "-webkit-right":
		return "end", 1
	default:
		return "start", 0
	}
}

func cornerAttrs(radius float64) []svg.Attr {
	if radius <= 0 {
		return nil
	}
	return []svg.Attr{svg.Num("rx", radius)}
}

// paintAttrs writes c as a hex color plus an opacity attribute when it is
// translucent.
func paintAttrs(name string, c style.Color) []svg.Attr {
	attrs := []svg.Attr{svg.Str(name, c.Hex())}
	if !c.Opaque() {
		attrs = append(attrs, svg.Num(name+"-opacity", c.A))
	}
	return attrs
}

func strokeAttrs(c style.Color, width float64, bs style.BorderStyle) []svg.Attr {
	attrs := paintAttrs("stroke", c)
	attrs = append(attrs, svg.Num("stroke-width", width))
	switch bs {
	case style.BorderDashed:
		attrs = append(attrs, svg.List("stroke-dasharray", width*dashOn, width*dashOff))
	case style.BorderDotted:
		attrs = append(attrs, svg.List("stroke-dasharray", width*dotOn, width*dotOff))
	}
	return attrs
}
