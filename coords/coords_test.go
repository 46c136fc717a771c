package coords

import (
	"math"
	"testing"

	"github.com/wudi/infosvg/visual"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestToDocSpace(t *testing.T) {
	m := NewMapper(visual.Point{X: 100, Y: 40}, 2)
	got := m.ToDocSpace(visual.Rect{X: 120, Y: 60, W: 50, H: 30})
	want := DocRect{X: 10, Y: 10, W: 25, H: 15}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if m.Length(7) != 3.5 {
		t.Errorf("expected lengths divided by scale")
	}
}

func TestNewMapperScaleFallback(t *testing.T) {
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if m := NewMapper(visual.Point{}, s); m.Scale != 1 {
			t.Errorf("scale %v: expected fallback to 1, got %v", s, m.Scale)
		}
	}
	// A zero-value mapper never divides by zero.
	if got := (Mapper{}).ToDocSpace(visual.Rect{X: 4, W: 2}); got.X != 4 || got.W != 2 {
		t.Errorf("unexpected zero mapper result %+v", got)
	}
}

func TestMatrix(t *testing.T) {
	m := Translate(10, 20).Multiply(Scale(2, 3))
	p := m.Transform(Point{X: 1, Y: 1})
	if !near(p.X, 22) || !near(p.Y, 63) {
		t.Errorf("expected translate then scale, got %+v", p)
	}
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	back := inv.Transform(p)
	if !near(back.X, 1) || !near(back.Y, 1) {
		t.Errorf("expected the inverse to round trip, got %+v", back)
	}
	if _, err := Scale(0, 1).Inverse(); err == nil {
		t.Errorf("expected a singular matrix error")
	}
	if !near(Scale(2, 8).UniformScale(), 4) {
		t.Errorf("expected sqrt of the determinant")
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in   string
		p    Point
		want Point
	}{
		{"", Point{3, 4}, Point{3, 4}},
		{"translate(10 20)", Point{1, 1}, Point{11, 21}},
		{"translate(5)", Point{0, 0}, Point{5, 0}},
		{"scale(0.5)", Point{10, 10}, Point{5, 5}},
		{"translate(10,0) scale(2)", Point{1, 1}, Point{12, 2}},
		{"rotate(90)", Point{1, 0}, Point{0, 1}},
		{"rotate(90 10 10)", Point{10, 10}, Point{10, 10}},
		{"matrix(1 0 0 1 7 8)", Point{0, 0}, Point{7, 8}},
		{"bogus(1) translate(1 1)", Point{0, 0}, Point{1, 1}},
		{"translate(1 2", Point{0, 0}, Point{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseTransform(tt.in).Transform(tt.p)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("ParseTransform(%q) maps %+v to %+v, want %+v", tt.in, tt.p, got, tt.want)
			}
		})
	}
}

func TestParseViewBox(t *testing.T) {
	vb, ok := ParseViewBox("0 0 24 24")
	if !ok || vb.Width != 24 || vb.Height != 24 {
		t.Errorf("unexpected viewBox %+v, %v", vb, ok)
	}
	if vb, ok := ParseViewBox("-2,-2,10,5"); !ok || vb.MinX != -2 || vb.Width != 10 {
		t.Errorf("expected comma separated values, got %+v", vb)
	}
	for _, bad := range []string{"", "0 0 24", "0 0 0 24", "0 0 -1 5"} {
		if _, ok := ParseViewBox(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}
