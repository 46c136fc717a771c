package snapshot

import (
	"errors"
	"strings"
	"testing"

	"github.com/wudi/infosvg/visual"
)

const capture = `{
  "scale": 1.5,
  "pages": [
    {
      "id": "p1",
      "origin": {"x": 100, "y": 50},
      "width": 793.8,
      "height": 1122.66,
      "blocks": [
        {
          "kind": "container", "tag": "div",
          "box": {"x": 100, "y": 50, "w": 300, "h": 180},
          "style": {"background-color": "rgb(255, 255, 255)"},
          "children": [
            {"kind": "text", "text": "Hi", "glyphs": [[110, 60, 8, 18], [118, 60, 4, 18]]},
            {"kind": "image", "tag": "img", "src": "chart.png", "box": {"x": 120, "y": 100, "w": 80, "h": 40}},
            {"kind": "container", "tag": "button", "excluded": true}
          ]
        },
        {
          "kind": "graphic", "tag": "svg",
          "box": {"x": 10, "y": 10, "w": 24, "h": 24},
          "attrs": [["viewBox", "0 0 24 24"]],
          "children": [
            {"kind": "element", "tag": "path", "attrs": [["d", "M0 0L24 24"]], "style": {"stroke": "rgb(0, 0, 0)"}}
          ]
        },
        {
          "kind": "graphic", "forceInclude": true, "excluded": true,
          "box": {"x": 40, "y": 10, "w": 12, "h": 12},
          "style": {"opacity": "0.5"},
          "markup": "<svg viewBox=\"0 0 12 12\" fill=\"red\"><circle r=\"6\"/></svg>"
        }
      ]
    },
    {"id": "p2", "width": 793.8, "height": 1122.66}
  ]
}`

func TestDecode(t *testing.T) {
	s, err := Decode(strings.NewReader(capture))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var _ visual.Source = s

	if s.Scale() != 1.5 {
		t.Errorf("expected scale 1.5, got %v", s.Scale())
	}
	if got := strings.Join(s.PageIDs(), ","); got != "p1,p2" {
		t.Errorf("expected p1,p2, got %s", got)
	}
	if s.Page("missing") != nil {
		t.Errorf("expected nil for an unknown page")
	}

	p := s.Page("p1")
	if p.Origin != (visual.Point{X: 100, Y: 50}) {
		t.Errorf("unexpected origin %+v", p.Origin)
	}
	if len(p.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(p.Blocks))
	}

	c, ok := p.Blocks[0].(*visual.Container)
	if !ok {
		t.Fatalf("expected a container, got %T", p.Blocks[0])
	}
	text := c.Children[0].(*visual.Text)
	if text.Content != "Hi" || len(text.Glyphs) != 2 || text.Glyphs[1].X != 118 {
		t.Errorf("unexpected text %+v", text)
	}
	if text.Computed == nil {
		t.Errorf("expected a non-nil computed map when style is omitted")
	}
	if img := c.Children[1].(*visual.Image); img.Src != "chart.png" || img.Box.W != 80 {
		t.Errorf("unexpected image %+v", img)
	}
	if !c.Children[2].Base().SkippedForExport() {
		t.Errorf("expected the button to be excluded")
	}

	g := p.Blocks[1].(*visual.Graphic)
	if v, _ := g.Attrs.Get("viewBox"); v != "0 0 24 24" {
		t.Errorf("unexpected viewBox %q", v)
	}
	if path := g.Children[0]; path.Tag != "path" || path.Computed["stroke"] != "rgb(0, 0, 0)" {
		t.Errorf("unexpected path %+v", path)
	}

	m := p.Blocks[2].(*visual.Graphic)
	if m.SkippedForExport() {
		t.Errorf("expected force-included markup graphic")
	}
	if m.Box.X != 40 || m.Tag != "svg" {
		t.Errorf("unexpected markup graphic %+v", m.Common)
	}
	if m.Computed["opacity"] != "0.5" || m.Computed["fill"] != "red" {
		t.Errorf("expected snapshot style merged over markup style, got %v", m.Computed)
	}
	if len(m.Children) != 1 || m.Children[0].Tag != "circle" {
		t.Errorf("expected circle child from markup")
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed json", `{"pages": [`},
		{"missing page id", `{"pages": [{"width": 1}]}`},
		{"duplicate page", `{"pages": [{"id": "a"}, {"id": "a"}]}`},
		{"negative scale", `{"scale": -1, "pages": []}`},
		{"unknown kind", `{"pages": [{"id": "a", "blocks": [{"kind": "video"}]}]}`},
		{"element outside graphic", `{"pages": [{"id": "a", "blocks": [{"kind": "element"}]}]}`},
		{"container inside graphic", `{"pages": [{"id": "a", "blocks": [{"kind": "graphic", "children": [{"kind": "container"}]}]}]}`},
		{"markup without svg", `{"pages": [{"id": "a", "blocks": [{"kind": "graphic", "markup": "<div></div>"}]}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tc.in)); !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("expected ErrInvalidSnapshot, got %v", err)
			}
		})
	}
}

func TestDecodeDefaultScale(t *testing.T) {
	s, err := Decode(strings.NewReader(`{"pages": [{"id": "a"}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Scale() != 1 {
		t.Errorf("expected default scale 1, got %v", s.Scale())
	}
}
