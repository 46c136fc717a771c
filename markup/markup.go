// Package markup turns raw vector-graphics markup into a visual graphic
// subtree, synthesizing the computed style a browser would report for each
// element from its presentation attributes, its inline style and what it
// inherits from its parent.
package markup

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/wudi/infosvg/visual"
)

// ErrNotSVG is returned when the markup holds no svg element.
var ErrNotSVG = errors.New("markup: no svg element")

// inherited lists the properties children take from their parent.
var inherited = []string{
	"color",
	"fill",
	"fill-opacity",
	"stroke",
	"stroke-width",
	"stroke-dasharray",
	"stroke-linecap",
	"stroke-linejoin",
	"font-family",
	"font-size",
	"font-weight",
	"text-anchor",
	"letter-spacing",
	"visibility",
}

// presentational lists the attributes that map onto style properties.
var presentational = map[string]bool{
	"color":            true,
	"display":          true,
	"fill":             true,
	"fill-opacity":     true,
	"opacity":          true,
	"stroke":           true,
	"stroke-width":     true,
	"stroke-dasharray": true,
	"stroke-linecap":   true,
	"stroke-linejoin":  true,
	"font-family":      true,
	"font-size":        true,
	"font-weight":      true,
	"text-anchor":      true,
	"letter-spacing":   true,
	"visibility":       true,
}

// lengths get a px unit when given as bare numbers.
var lengths = map[string]bool{
	"stroke-width":   true,
	"font-size":      true,
	"letter-spacing": true,
}

// Initial values of the root element, as browsers report them.
var initial = map[string]string{
	"fill":         "rgb(0, 0, 0)",
	"stroke":       "none",
	"stroke-width": "1px",
}

// Parse parses markup and returns its first svg element as a graphic placed
// at box. Descendant boxes are left empty.
func Parse(markup string, box visual.Rect) (*visual.Graphic, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("markup: parse: %w", err)
	}
	var root *html.Node
	for _, n := range nodes {
		if root = findSVG(n); root != nil {
			break
		}
	}
	if root == nil {
		return nil, ErrNotSVG
	}

	cs := cascade(root, initial)
	g := &visual.Graphic{
		Common: visual.Common{Tag: "svg", Box: box, Computed: cs},
		Attrs:  attrs(root),
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if el := element(c, cs); el != nil {
			g.Children = append(g.Children, el)
		}
	}
	return g, nil
}

func findSVG(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "svg" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findSVG(c); found != nil {
			return found
		}
	}
	return nil
}

func element(n *html.Node, parent map[string]string) *visual.GraphicElement {
	if n.Type != html.ElementNode {
		return nil
	}
	cs := cascade(n, parent)
	el := &visual.GraphicElement{
		Common: visual.Common{Tag: n.Data, Computed: cs},
		Attrs:  attrs(n),
	}
	if n.Data == "text" {
		el.Text = textContent(n)
		return el
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := element(c, cs); child != nil {
			el.Children = append(el.Children, child)
		}
	}
	return el
}

// cascade computes the style of n: inherited values first, then
// presentation attributes, then the inline style declarations.
func cascade(n *html.Node, parent map[string]string) map[string]string {
	cs := make(map[string]string, len(inherited))
	for _, p := range inherited {
		if v, ok := parent[p]; ok {
			cs[p] = v
		}
	}
	var inline string
	for _, a := range n.Attr {
		if a.Namespace != "" {
			continue
		}
		switch {
		case a.Key == "style":
			inline = a.Val
		case presentational[a.Key]:
			set(cs, a.Key, a.Val)
		}
	}
	for _, decl := range strings.Split(inline, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if presentational[name] {
			set(cs, name, value)
		}
	}
	return cs
}

func set(cs map[string]string, name, value string) {
	value = strings.TrimSpace(value)
	value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
	if value == "" || value == "inherit" {
		return
	}
	if lengths[name] {
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			value += "px"
		}
	}
	cs[name] = value
}

func attrs(n *html.Node) visual.Attrs {
	out := make(visual.Attrs, 0, len(n.Attr))
	for _, a := range n.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		out = append(out, visual.Attr{Name: name, Value: a.Val})
	}
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
