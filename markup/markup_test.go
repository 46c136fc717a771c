package markup

import (
	"errors"
	"testing"

	"github.com/wudi/infosvg/visual"
)

const icon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" style="color: #e11d48">
  <defs>
    <linearGradient id="brand"><stop offset="0" stop-color="#fff"/></linearGradient>
  </defs>
  <g stroke-linecap="round">
    <path d="M1 1L23 23" style="stroke-width: 3; fill: url(#brand)"/>
    <use xlink:href="#brand"/>
  </g>
  <text x="12" y="12" font-size="8">42 <tspan>km</tspan></text>
</svg>`

func TestParse(t *testing.T) {
	box := visual.Rect{X: 10, Y: 20, W: 14.4, H: 14.4}
	g, err := Parse(icon, box)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Box != box {
		t.Errorf("expected box %+v, got %+v", box, g.Box)
	}
	if v, _ := g.Attrs.Get("viewBox"); v != "0 0 24 24" {
		t.Errorf("expected case-preserved viewBox, got %q", v)
	}
	if len(g.Children) != 3 {
		t.Fatalf("expected defs, g and text children, got %d", len(g.Children))
	}
	if tag := g.Children[0].Children[0].Tag; tag != "linearGradient" {
		t.Errorf("expected linearGradient, got %q", tag)
	}

	group := g.Children[1]
	path := group.Children[0]
	tests := []struct {
		name string
		cs   map[string]string
		prop string
		want string
	}{
		{"root fill attribute", g.Computed, "fill", "none"},
		{"root inline color", g.Computed, "color", "#e11d48"},
		{"bare stroke width gets px", g.Computed, "stroke-width", "2px"},
		{"group inherits stroke", group.Computed, "stroke", "currentColor"},
		{"group sets linecap", group.Computed, "stroke-linecap", "round"},
		{"inline style beats inherited", path.Computed, "stroke-width", "3px"},
		{"inline paint server", path.Computed, "fill", "url(#brand)"},
		{"path inherits linecap", path.Computed, "stroke-linecap", "round"},
		{"path inherits color", path.Computed, "color", "#e11d48"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cs[tc.prop]; got != tc.want {
				t.Errorf("expected %s=%q, got %q", tc.prop, tc.want, got)
			}
		})
	}

	use := group.Children[1]
	if v, ok := use.Attrs.Get("xlink:href"); !ok || v != "#brand" {
		t.Errorf("expected xlink:href attribute, got %q", v)
	}

	text := g.Children[2]
	if text.Text != "42 km" {
		t.Errorf("expected flattened text content, got %q", text.Text)
	}
	if len(text.Children) != 0 {
		t.Errorf("expected text to stay atomic")
	}
	if got := text.Computed["font-size"]; got != "8px" {
		t.Errorf("expected font-size 8px, got %q", got)
	}
}

func TestParseNonInheritedProperties(t *testing.T) {
	g, err := Parse(`<svg viewBox="0 0 1 1" opacity="0.5" display="none"><rect/></svg>`, visual.Rect{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Computed["opacity"] != "0.5" || g.Computed["display"] != "none" {
		t.Errorf("expected root properties, got %v", g.Computed)
	}
	rect := g.Children[0].Computed
	if _, ok := rect["opacity"]; ok {
		t.Errorf("opacity must not inherit")
	}
	if _, ok := rect["display"]; ok {
		t.Errorf("display must not inherit")
	}
	if rect["fill"] != "rgb(0, 0, 0)" {
		t.Errorf("expected initial fill, got %q", rect["fill"])
	}
}

func TestParseNotSVG(t *testing.T) {
	for _, in := range []string{"", "<div>hello</div>", "plain text"} {
		if _, err := Parse(in, visual.Rect{}); !errors.Is(err, ErrNotSVG) {
			t.Errorf("Parse(%q): expected ErrNotSVG, got %v", in, err)
		}
	}
}
