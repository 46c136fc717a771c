// Package visual models the materialized visual tree handed over by a
// rendering collaborator: already laid-out boxes, text runs and embedded
// vector graphics, each with its bounding box in viewport pixels and a
// snapshot of its computed style.
//
// Node is a closed set of kinds. Consumers match it with a type switch over
// *Container, *Image, *Text, *Graphic and *GraphicElement.
package visual

// Rect is an axis-aligned box. Boxes on nodes are in viewport pixels.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	left := min(r.X, o.X)
	top := min(r.Y, o.Y)
	right := max(r.Right(), o.Right())
	bottom := max(r.Bottom(), o.Bottom())
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// Point is a position in viewport pixels.
type Point struct {
	X, Y float64
}

// Attr is a raw markup attribute of a vector-graphics node.
type Attr struct {
	Name  string
	Value string
}

// Attrs keeps markup attributes in document order.
type Attrs []Attr

// Get returns the value of the named attribute.
func (a Attrs) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Has reports whether the named attribute is present.
func (a Attrs) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Common holds the data every node kind carries.
type Common struct {
	// Tag is the element name as rendered ("div", "img", "svg", "path", ...).
	Tag string
	// Box is the bounding box in viewport pixels.
	Box Rect
	// Computed is the computed-style snapshot, CSS property to computed value.
	Computed map[string]string
	// Excluded marks editor-only affordances ("no-export").
	Excluded bool
	// ForceInclude overrides Excluded for static placeholders.
	ForceInclude bool
	// Detached is set when the collaborator could not resolve style or
	// geometry for the node (removed from the live tree).
	Detached bool
}

// Base returns the shared node data.
func (c *Common) Base() *Common { return c }

// SkippedForExport reports whether the node is excluded without override.
func (c *Common) SkippedForExport() bool { return c.Excluded && !c.ForceInclude }

// Node is one node of the visual tree.
type Node interface {
	Base() *Common
	isNode()
}

// Container is a box-model element (div-like).
type Container struct {
	Common
	Children []Node
}

// Image is a replaced image element.
type Image struct {
	Common
	Src string
}

// Text is a run of text laid out inside its parent container. Computed
// carries the inherited style of that container.
type Text struct {
	Common
	Content string
	// Glyphs optionally holds one viewport rect per rune of Content, as
	// measured by the collaborator. A zero rect means "not measurable".
	Glyphs []Rect
}

// Graphic is the root of an embedded vector-graphics subtree.
type Graphic struct {
	Common
	Attrs    Attrs
	Children []*GraphicElement
}

// GraphicElement is a descendant of a Graphic ("g", "path", "text",
// "linearGradient", "stop", ...).
type GraphicElement struct {
	Common
	Attrs    Attrs
	Children []*GraphicElement
	// Text is the text content of "text" elements.
	Text string
}

func (*Container) isNode()      {}
func (*Image) isNode()          {}
func (*Text) isNode()           {}
func (*Graphic) isNode()        {}
func (*GraphicElement) isNode() {}

// Page is the rendered content of one page.
type Page struct {
	ID string
	// Origin is the viewport-space top-left corner of the page.
	Origin Point
	// Width and Height are the native page dimensions in document pixels.
	Width, Height float64
	// Blocks are the top-level placed blocks in z/DOM order.
	Blocks []Node
}

// Source is the rendering collaborator seen from the export engine.
type Source interface {
	// PageIDs lists the project's pages in order.
	PageIDs() []string
	// Page returns the rendered page, or nil when it is not rendered.
	Page(id string) *Page
	// Scale is the uniform view zoom active at transcription time.
	Scale() float64
}

// Children returns the direct children of n in document order.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Container:
		return v.Children
	case *Graphic:
		out := make([]Node, len(v.Children))
		for i, c := range v.Children {
			out[i] = c
		}
		return out
	case *GraphicElement:
		out := make([]Node, len(v.Children))
		for i, c := range v.Children {
			out[i] = c
		}
		return out
	default:
		return nil
	}
}

// Walk visits n and its descendants depth-first. ancestors lists the chain
// from the walk root down to the parent of the visited node. Returning false
// from fn skips the subtree.
func Walk(n Node, fn func(n Node, ancestors []Node) bool) {
	walk(n, nil, fn)
}

func walk(n Node, ancestors []Node, fn func(Node, []Node) bool) {
	if !fn(n, ancestors) {
		return
	}
	ancestors = append(ancestors, n)
	for _, c := range Children(n) {
		walk(c, ancestors, fn)
	}
}
