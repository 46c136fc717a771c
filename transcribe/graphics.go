package transcribe

import (
	"strings"

	"github.com/wudi/infosvg/coords"
	"github.com/wudi/infosvg/style"
	"github.com/wudi/infosvg/svg"
	"github.com/wudi/infosvg/visual"
)

// Graphic transcribes an embedded vector-graphics root, positioned by its
// own box. Descendants are wrapped in translate(x,y) scale(s), where s maps
// the viewBox width onto the doc-space width. Paint definitions are hoisted
// into the shared accumulator.
func (c *Context) Graphic(g *visual.Graphic) (*svg.Element, error) {
	if g == nil || g.SkippedForExport() {
		return nil, nil
	}
	c.consumed[g] = true
	if g.Detached {
		return nil, c.degrade("graphics", g, ErrDetached)
	}
	if !c.resolver.Resolve(g).Visible {
		return nil, nil
	}

	r := c.mapper.ToDocSpace(g.Box)
	ops := []svg.TransformOp{svg.Translate(r.X, r.Y)}
	scale := 1.0
	if vb, ok := coords.ParseViewBox(attr(g.Attrs, "viewBox")); ok {
		scale = r.W / vb.Width
		ops = append(ops, svg.ScaleOp(scale))
		if vb.MinX != 0 || vb.MinY != 0 {
			ops = append(ops, svg.Translate(-vb.MinX, -vb.MinY))
		}
	} else if err := c.degrade("graphics", g, ErrInvalidViewBox); err != nil {
		return nil, err
	}

	group := svg.Group(ops)
	for _, child := range g.Children {
		el, err := c.graphicElement(child, scale)
		if err != nil {
			return nil, err
		}
		if el != nil {
			group.Children = append(group.Children, el)
		}
	}
	return group, nil
}

// hoisted lists the definition elements moved into the shared section.
var hoisted = map[string]bool{
	"lineargradient": true,
	"radialgradient": true,
	"pattern":        true,
	"clippath":       true,
	"mask":           true,
	"marker":         true,
	"symbol":         true,
	"filter":         true,
}

// graphicElement copies e into document space. scale is the accumulated
// scale of e's parent coordinate system relative to document units.
func (c *Context) graphicElement(e *visual.GraphicElement, scale float64) (*svg.Element, error) {
	if e == nil || e.SkippedForExport() {
		return nil, nil
	}
	if e.Detached {
		return nil, c.degrade("graphics", e, ErrDetached)
	}
	rs := c.resolver.Resolve(e)
	if !rs.Visible {
		return nil, nil
	}
	if t, ok := e.Attrs.Get("transform"); ok {
		scale *= coords.ParseTransform(t).UniformScale()
	}

	tag := strings.ToLower(e.Tag)
	switch {
	case hoisted[tag]:
		id := attr(e.Attrs, "id")
		if id == "" {
			return nil, nil
		}
		def := verbatim(e)
		if !c.paints.Add(id, def) {
			if p, _ := c.paints.Lookup(id); !p.Element.Equal(def) {
				return nil, c.degrade("graphics", e, ErrDefinitionID)
			}
		}
		return nil, nil
	case tag == "defs":
		for _, child := range e.Children {
			if _, err := c.graphicElement(child, scale); err != nil {
				return nil, err
			}
		}
		return nil, nil
	case tag == "stop":
		return verbatim(e), nil
	}

	el := &svg.Element{Name: e.Tag}
	for _, a := range e.Attrs {
		v := a.Value
		if strings.EqualFold(a.Name, "style") {
			if v = unscaledDeclarations(v); v == "" {
				continue
			}
		}
		el.Attrs = append(el.Attrs, svg.Str(a.Name, v))
	}
	el.Attrs = append(el.Attrs, presentation(e, tag, rs, scale)...)

	if tag == "text" {
		el.Text = e.Text
		return el, nil
	}
	for _, child := range e.Children {
		ce, err := c.graphicElement(child, scale)
		if err != nil {
			return nil, err
		}
		if ce != nil {
			el.Children = append(el.Children, ce)
		}
	}
	return el, nil
}

// scaledProperties are written as attributes multiplied by the accumulated
// scale.
var scaledProperties = map[string]bool{
	"stroke-width":     true,
	"stroke-dasharray": true,
	"font-size":        true,
	"letter-spacing":   true,
}

// unscaledDeclarations drops the scaled properties from an inline style so
// the scaled attributes written beside it take effect.
func unscaledDeclarations(decl string) string {
	var keep []string
	for _, d := range strings.Split(decl, ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		name, _, _ := strings.Cut(d, ":")
		if scaledProperties[strings.ToLower(strings.TrimSpace(name))] {
			continue
		}
		keep = append(keep, d)
	}
	return strings.Join(keep, ";")
}

func isTextTag(tag string) bool {
	return tag == "text" || tag == "tspan" || tag == "textpath"
}

// presentation turns the computed style of e into explicit attributes for
// every property its markup does not set. Linear measures are multiplied by
// the accumulated scale.
func presentation(e *visual.GraphicElement, tag string, rs style.ResolvedStyle, scale float64) []svg.Attr {
	var out []svg.Attr
	set := func(name string, build func() []svg.Attr) {
		if e.Attrs.Has(name) {
			return
		}
		out = append(out, build()...)
	}

	set("fill", func() []svg.Attr { return paint("fill", rs.Fill, e.Attrs) })
	set("stroke", func() []svg.Attr { return paint("stroke", rs.Stroke, e.Attrs) })
	set("stroke-width", func() []svg.Attr {
		if !rs.StrokeWidth.Set {
			return nil
		}
		return []svg.Attr{svg.Num("stroke-width", rs.StrokeWidth.Value*scale)}
	})
	set("stroke-dasharray", func() []svg.Attr {
		if len(rs.StrokeDash) == 0 {
			return nil
		}
		dash := make([]float64, len(rs.StrokeDash))
		for i, v := range rs.StrokeDash {
			dash[i] = v * scale
		}
		return []svg.Attr{svg.List("stroke-dasharray", dash...)}
	})
	set("opacity", func() []svg.Attr {
		if rs.Opacity >= 1 {
			return nil
		}
		return []svg.Attr{svg.Num("opacity", rs.Opacity)}
	})
	set("stroke-linecap", func() []svg.Attr { return keywordAttr("stroke-linecap", rs.LineCap) })
	set("stroke-linejoin", func() []svg.Attr { return keywordAttr("stroke-linejoin", rs.LineJoin) })

	if !isTextTag(tag) {
		return out
	}
	set("font-size", func() []svg.Attr {
		if rs.FontSize <= 0 {
			return nil
		}
		return []svg.Attr{svg.Num("font-size", rs.FontSize*scale)}
	})
	set("font-weight", func() []svg.Attr {
		if rs.FontWeight == "normal" {
			return nil
		}
		return keywordAttr("font-weight", rs.FontWeight)
	})
	set("font-family", func() []svg.Attr { return keywordAttr("font-family", rs.FontFamily) })
	set("text-anchor", func() []svg.Attr { return keywordAttr("text-anchor", rs.TextAnchor) })
	set("letter-spacing", func() []svg.Attr {
		if rs.LetterSpacing == 0 {
			return nil
		}
		return []svg.Attr{svg.Num("letter-spacing", rs.LetterSpacing*scale)}
	})
	return out
}

// paint writes a resolved fill or stroke. Fully transparent colors are
// written as none, translucent colors get an opacity attribute unless the
// markup sets one.
func paint(name string, p style.Paint, attrs visual.Attrs) []svg.Attr {
	switch p.Kind {
	case style.PaintNone:
		return []svg.Attr{svg.Str(name, "none")}
	case style.PaintURL:
		return []svg.Attr{svg.Str(name, "url(#"+p.URL+")")}
	case style.PaintColor:
		if p.Color.Transparent() {
			return []svg.Attr{svg.Str(name, "none")}
		}
		out := []svg.Attr{svg.Str(name, p.Color.Hex())}
		if !p.Color.Opaque() && !attrs.Has(name+"-opacity") {
			out = append(out, svg.Num(name+"-opacity", p.Color.A))
		}
		return out
	}
	return nil
}

func keywordAttr(name, v string) []svg.Attr {
	if v == "" {
		return nil
	}
	return []svg.Attr{svg.Str(name, v)}
}

func attr(a visual.Attrs, name string) string {
	v, _ := a.Get(name)
	return v
}

// verbatim copies e and its subtree with markup attributes only.
func verbatim(e *visual.GraphicElement) *svg.Element {
	el := &svg.Element{Name: e.Tag, Text: e.Text}
	for _, a := range e.Attrs {
		el.Attrs = append(el.Attrs, svg.Str(a.Name, a.Value))
	}
	for _, c := range e.Children {
		el.Children = append(el.Children, verbatim(c))
	}
	return el
}
