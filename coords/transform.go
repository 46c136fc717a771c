package coords

import (
	"math"
	"strconv"
	"strings"
)

// ParseTransform parses an SVG transform list such as
// "translate(10 20) scale(0.35)". Unknown or malformed entries are ignored.
func ParseTransform(s string) Matrix {
	m := Identity()
	rest := s
	for {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			return m
		}
		end := strings.IndexByte(rest[open:], ')')
		if end < 0 {
			return m
		}
		name := strings.ToLower(strings.Trim(rest[:open], " \t\r\n,"))
		args := parseNumbers(rest[open+1 : open+end])
		rest = rest[open+end+1:]
		if t, ok := transformFunc(name, args); ok {
			// Functions apply right to left.
			m = t.Multiply(m)
		}
	}
}

func transformFunc(name string, a []float64) (Matrix, bool) {
	switch name {
	case "matrix":
		if len(a) == 6 {
			return Matrix{a[0], a[1], a[2], a[3], a[4], a[5]}, true
		}
	case "translate":
		switch len(a) {
		case 1:
			return Translate(a[0], 0), true
		case 2:
			return Translate(a[0], a[1]), true
		}
	case "scale":
		switch len(a) {
		case 1:
			return Scale(a[0], a[0]), true
		case 2:
			return Scale(a[0], a[1]), true
		}
	case "rotate":
		switch len(a) {
		case 1:
			return Rotate(a[0] * math.Pi / 180), true
		case 3:
			r := Rotate(a[0] * math.Pi / 180)
			return Translate(-a[1], -a[2]).Multiply(r).Multiply(Translate(a[1], a[2])), true
		}
	case "skewx":
		if len(a) == 1 {
			return Skew(a[0]*math.Pi/180, 0), true
		}
	case "skewy":
		if len(a) == 1 {
			return Skew(0, a[0]*math.Pi/180), true
		}
	}
	return Matrix{}, false
}

// parseNumbers splits a comma/space separated number list, dropping
// anything that does not parse.
func parseNumbers(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ViewBox is the internal coordinate system declared by a graphics root.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

// ParseViewBox parses "minX minY width height". ok is false when the value
// is malformed or declares a non-positive width.
func ParseViewBox(s string) (vb ViewBox, ok bool) {
	n := parseNumbers(s)
	if len(n) != 4 || n[2] <= 0 {
		return ViewBox{}, false
	}
	return ViewBox{MinX: n[0], MinY: n[1], Width: n[2], Height: n[3]}, true
}
