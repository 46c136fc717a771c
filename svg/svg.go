// Package svg holds the vector primitives emitted by the transcriber and
// serializes them into a standalone SVG document.
package svg

import "slices"

// Attr is one attribute of an element. Numeric attributes keep their full
// precision until serialization; Nums takes precedence over Value.
type Attr struct {
	Name  string
	Value string
	Nums  []float64
}

// Str returns a string attribute.
func Str(name, value string) Attr { return Attr{Name: name, Value: value} }

// Num returns a numeric attribute.
func Num(name string, v float64) Attr { return Attr{Name: name, Nums: []float64{v}} }

// List returns a numeric list attribute ("1,2,3").
func List(name string, vs ...float64) Attr { return Attr{Name: name, Nums: vs} }

// TransformOp is one function of a transform list.
type TransformOp struct {
	Func string
	Args []float64
}

// Translate returns a translate(tx,ty) op.
func Translate(tx, ty float64) TransformOp {
	return TransformOp{Func: "translate", Args: []float64{tx, ty}}
}

// ScaleOp returns a uniform scale(s) op.
func ScaleOp(s float64) TransformOp { return TransformOp{Func: "scale", Args: []float64{s}} }

// Element is a node of the output document.
type Element struct {
	Name      string
	Transform []TransformOp
	Attrs     []Attr
	Children  []*Element
	// Text is character data, escaped on output.
	Text string
}

// Attr returns the named attribute.
func (e *Element) Attr(name string) (Attr, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

// Equal reports whether e and o have the same name, transform, attributes,
// text and children.
func (e *Element) Equal(o *Element) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Name != o.Name || e.Text != o.Text ||
		len(e.Transform) != len(o.Transform) || len(e.Attrs) != len(o.Attrs) || len(e.Children) != len(o.Children) {
		return false
	}
	for i, t := range e.Transform {
		if t.Func != o.Transform[i].Func || !slices.Equal(t.Args, o.Transform[i].Args) {
			return false
		}
	}
	for i, a := range e.Attrs {
		b := o.Attrs[i]
		if a.Name != b.Name || a.Value != b.Value || !slices.Equal(a.Nums, b.Nums) {
			return false
		}
	}
	for i, c := range e.Children {
		if !c.Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Set appends attrs.
func (e *Element) Set(attrs ...Attr) *Element {
	e.Attrs = append(e.Attrs, attrs...)
	return e
}

// Rect returns a rect primitive.
func Rect(x, y, w, h float64, attrs ...Attr) *Element {
	return &Element{Name: "rect", Attrs: append([]Attr{
		Num("x", x), Num("y", y), Num("width", w), Num("height", h),
	}, attrs...)}
}

// Line returns a line primitive.
func Line(x1, y1, x2, y2 float64, attrs ...Attr) *Element {
	return &Element{Name: "line", Attrs: append([]Attr{
		Num("x1", x1), Num("y1", y1), Num("x2", x2), Num("y2", y2),
	}, attrs...)}
}

// Text returns a text primitive positioned at its anchor point.
func Text(x, y float64, content string, attrs ...Attr) *Element {
	return &Element{Name: "text", Text: content, Attrs: append([]Attr{
		Num("x", x), Num("y", y),
	}, attrs...)}
}

// Image returns an image primitive. The reference is written both as href
// and xlink:href.
func Image(x, y, w, h float64, href string) *Element {
	return &Element{Name: "image", Attrs: []Attr{
		Num("x", x), Num("y", y), Num("width", w), Num("height", h),
		Str("href", href), Str("xlink:href", href),
	}}
}

// Group returns a g element.
func Group(transform []TransformOp, children ...*Element) *Element {
	return &Element{Name: "g", Transform: transform, Children: children}
}

// Stop is one gradient stop.
type Stop struct {
	// Offset in [0,1].
	Offset  float64
	Color   string
	Opacity float64
}

// LinearGradient returns an objectBoundingBox linear gradient definition.
func LinearGradient(id string, x1, y1, x2, y2 float64, stops ...Stop) *Element {
	g := &Element{Name: "linearGradient", Attrs: []Attr{
		Str("id", id), Str("gradientUnits", "objectBoundingBox"),
		Num("x1", x1), Num("y1", y1), Num("x2", x2), Num("y2", y2),
	}}
	for _, s := range stops {
		stop := &Element{Name: "stop", Attrs: []Attr{
			Str("offset", formatNum(s.Offset*100, 3)+"%"),
			Str("stop-color", s.Color),
		}}
		if s.Opacity < 1 {
			stop.Set(Num("stop-opacity", s.Opacity))
		}
		g.Children = append(g.Children, stop)
	}
	return g
}

// Document is one assembled page.
type Document struct {
	// Width and Height are the pixel viewBox of the page.
	Width, Height float64
	// WidthMM and HeightMM are the physical size.
	WidthMM, HeightMM float64
	// Styles are CSS rules placed in the shared definitions block.
	Styles []string
	Defs   []*Element
	Body   []*Element
}

// Walk visits every element of the body and definitions in document order.
func (d *Document) Walk(fn func(e *Element)) {
	var walk func(es []*Element)
	walk = func(es []*Element) {
		for _, e := range es {
			fn(e)
			walk(e.Children)
		}
	}
	walk(d.Defs)
	walk(d.Body)
}

// Find returns every element with the given name.
func (d *Document) Find(name string) []*Element {
	var out []*Element
	d.Walk(func(e *Element) {
		if e.Name == name {
			out = append(out, e)
		}
	})
	return out
}
