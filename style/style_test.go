package style

import (
	"testing"

	"github.com/wudi/infosvg/visual"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"rgb(41, 171, 226)", Color{41, 171, 226, 1}, true},
		{"rgba(0, 0, 0, 0.5)", Color{0, 0, 0, 0.5}, true},
		{"rgb(255 0 0 / 50%)", Color{255, 0, 0, 0.5}, true},
		{"rgb(100%, 0%, 0%)", Color{255, 0, 0, 1}, true},
		{"#29ABE2", Color{0x29, 0xab, 0xe2, 1}, true},
		{"#fff", Color{255, 255, 255, 1}, true},
		{"#ff000080", Color{255, 0, 0, float64(0x80) / 255}, true},
		{"transparent", Color{}, true},
		{"Navy", Color{0, 0, 128, 1}, true},
		{"", Color{}, false},
		{"#12", Color{}, false},
		{"rgb(1, 2)", Color{}, false},
		{"chartreuse-ish", Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
	if hex := (Color{R: 0x29, G: 0xab, B: 0xe2, A: 1}).Hex(); hex != "#29abe2" {
		t.Errorf("expected lowercase hex, got %s", hex)
	}
}

func TestParseLinearGradient(t *testing.T) {
	g := ParseLinearGradient("linear-gradient(90deg, rgb(142, 142, 142) 0%, rgb(191, 195, 200) 100%)")
	if g == nil {
		t.Fatal("expected a gradient")
	}
	if g.Angle != 90 || len(g.Stops) != 2 {
		t.Fatalf("unexpected gradient %+v", g)
	}
	if g.Stops[0].Offset != 0 || g.Stops[1].Offset != 1 || g.Stops[1].Color.R != 191 {
		t.Errorf("unexpected stops %+v", g.Stops)
	}
	x1, y1, x2, y2 := g.Vector()
	if x1 != 0 || y1 != 0.5 || x2 != 1 || y2 != 0.5 {
		t.Errorf("expected a left to right vector, got %v %v %v %v", x1, y1, x2, y2)
	}

	down := ParseLinearGradient("linear-gradient(#000, #fff)")
	if down.Angle != 180 || down.Stops[0].Offset != -1 {
		t.Errorf("expected the default direction and unpositioned stops, got %+v", down)
	}
	if x1, y1, x2, y2 := down.Vector(); x1 != 0.5 || y1 != 0 || x2 != 0.5 || y2 != 1 {
		t.Errorf("expected a top to bottom vector, got %v %v %v %v", x1, y1, x2, y2)
	}

	if g := ParseLinearGradient("linear-gradient(to top right, red, blue)"); g == nil || g.Angle != 45 {
		t.Errorf("expected a side keyword angle, got %+v", g)
	}
	if g := ParseLinearGradient("linear-gradient(0.25turn, red, blue)"); g == nil || g.Angle != 90 {
		t.Errorf("expected turn units, got %+v", g)
	}
	if ParseLinearGradient("none") != nil || ParseLinearGradient("linear-gradient(red") != nil {
		t.Errorf("expected nil for missing or unterminated gradients")
	}
}

func TestFromComputed(t *testing.T) {
	rs := FromComputed(map[string]string{
		"color":                  "rgb(41, 171, 226)",
		"background-color":       "rgba(0, 0, 0, 0)",
		"border-top-width":       "1px",
		"border-top-style":       "dashed",
		"border-right-width":     "1px",
		"border-right-style":     "dashed",
		"border-bottom-width":    "1px",
		"border-bottom-style":    "dashed",
		"border-left-width":      "1px",
		"border-left-style":      "dashed",
		"border-top-left-radius": "5.25px 5.25px",
		"font-family":            `"Montserrat", sans-serif`,
		"font-size":              "8px",
		"line-height":            "normal",
		"opacity":                "1.5",
		"fill":                   "currentColor",
		"stroke":                 "url(#grad)",
		"stroke-width":           "2",
		"stroke-dasharray":       "4, 2",
		"stroke-linecap":         "round",
		"text-anchor":            "middle",
	})
	if !rs.Visible || rs.Opacity != 1 {
		t.Errorf("expected a visible node with clamped opacity, got %v %v", rs.Visible, rs.Opacity)
	}
	if !rs.BackgroundColor.Transparent() {
		t.Errorf("expected a transparent background")
	}
	if !rs.UniformBorder() || rs.Border(Left).Style != BorderDashed || rs.Border(Left).Color != rs.Color {
		t.Errorf("expected a uniform dashed border in the text color, got %+v", rs.Borders)
	}
	if rs.BorderRadius != 5.25 || rs.FontFamily != "Montserrat, sans-serif" || rs.FontSize != 8 {
		t.Errorf("unexpected box and font values %+v", rs)
	}
	if rs.LineHeight.Set {
		t.Errorf("expected normal line-height to be unset")
	}
	if rs.Fill.Kind != PaintColor || rs.Fill.Color != rs.Color {
		t.Errorf("expected currentColor fill, got %+v", rs.Fill)
	}
	if rs.Stroke.Kind != PaintURL || rs.Stroke.URL != "grad" {
		t.Errorf("expected a url stroke, got %+v", rs.Stroke)
	}
	if !rs.StrokeWidth.Set || rs.StrokeWidth.Value != 2 || len(rs.StrokeDash) != 2 {
		t.Errorf("unexpected stroke geometry %+v %v", rs.StrokeWidth, rs.StrokeDash)
	}
	if rs.LineCap != "round" || rs.TextAnchor != "middle" || rs.LineJoin != "" {
		t.Errorf("unexpected keywords %q %q %q", rs.LineCap, rs.TextAnchor, rs.LineJoin)
	}
}

func TestResolveVisibility(t *testing.T) {
	r := NewComputedResolver()
	tests := []struct {
		name string
		node visual.Node
		want bool
	}{
		{"visible", &visual.Container{Common: visual.Common{Computed: map[string]string{}}}, true},
		{"no snapshot", &visual.Container{}, false},
		{"detached", &visual.Container{Common: visual.Common{Computed: map[string]string{}, Detached: true}}, false},
		{"display none", &visual.Text{Common: visual.Common{Computed: map[string]string{"display": "none"}}}, false},
		{"hidden", &visual.Image{Common: visual.Common{Computed: map[string]string{"visibility": "hidden"}}}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.node).Visible; got != tt.want {
				t.Errorf("expected visible=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestParsePaint(t *testing.T) {
	current := Color{R: 1, G: 2, B: 3, A: 1}
	if p := ParsePaint("none", current); p.Kind != PaintNone {
		t.Errorf("expected none, got %+v", p)
	}
	if p := ParsePaint(`url("#g1")`, current); p.Kind != PaintURL || p.URL != "g1" {
		t.Errorf("expected a quoted url reference, got %+v", p)
	}
	if p := ParsePaint("", current); p.Kind != PaintUnset {
		t.Errorf("expected unset, got %+v", p)
	}
	if p := ParsePaint("url(#broken", current); p.Kind != PaintUnset {
		t.Errorf("expected an unterminated url to be unset, got %+v", p)
	}
	if d := ParseDashArray("3 em"); d != nil {
		t.Errorf("expected an unparsable dash array to be dropped, got %v", d)
	}
}
