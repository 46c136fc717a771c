package visual

import (
	"strings"
	"testing"
)

func TestRect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: -5, W: 10, H: 5}
	if u := a.Union(b); u != (Rect{X: 0, Y: -5, W: 15, H: 15}) {
		t.Errorf("unexpected union %+v", u)
	}
	if a.Right() != 10 || b.Bottom() != 0 {
		t.Errorf("unexpected edges")
	}
	if !(Rect{W: 3}).Empty() || a.Empty() {
		t.Errorf("unexpected Empty result")
	}
}

func TestAttrs(t *testing.T) {
	attrs := Attrs{{Name: "viewBox", Value: "0 0 24 24"}, {Name: "xlink:href", Value: "#a"}}
	if v, ok := attrs.Get("xlink:href"); !ok || v != "#a" {
		t.Errorf("expected a namespaced attribute, got %q %v", v, ok)
	}
	if attrs.Has("viewbox") {
		t.Errorf("expected attribute names to be case sensitive")
	}
}

func TestSkippedForExport(t *testing.T) {
	tests := []struct {
		c    Common
		want bool
	}{
		{Common{}, false},
		{Common{Excluded: true}, true},
		{Common{Excluded: true, ForceInclude: true}, false},
		{Common{ForceInclude: true}, false},
	}
	for _, tt := range tests {
		if got := tt.c.SkippedForExport(); got != tt.want {
			t.Errorf("%+v: expected %v, got %v", tt.c, tt.want, got)
		}
	}
}

func TestWalk(t *testing.T) {
	tree := &Container{
		Common: Common{Tag: "div"},
		Children: []Node{
			&Text{Common: Common{Tag: "#text"}},
			&Container{Common: Common{Tag: "button", Excluded: true}, Children: []Node{
				&Graphic{Common: Common{Tag: "svg"}, Children: []*GraphicElement{
					{Common: Common{Tag: "path"}},
				}},
			}},
			&Image{Common: Common{Tag: "img"}},
		},
	}

	var visited []string
	var depth = map[string]int{}
	Walk(tree, func(n Node, ancestors []Node) bool {
		visited = append(visited, n.Base().Tag)
		depth[n.Base().Tag] = len(ancestors)
		return true
	})
	if got := strings.Join(visited, ","); got != "div,#text,button,svg,path,img" {
		t.Errorf("unexpected order %s", got)
	}
	if depth["path"] != 3 || depth["img"] != 1 {
		t.Errorf("unexpected ancestor chains %v", depth)
	}

	visited = nil
	Walk(tree, func(n Node, _ []Node) bool {
		visited = append(visited, n.Base().Tag)
		return !n.Base().SkippedForExport()
	})
	if got := strings.Join(visited, ","); got != "div,#text,button,img" {
		t.Errorf("expected the excluded subtree to be skipped, got %s", got)
	}
}
