package style

import (
	"math"
	"strconv"
	"strings"
)

// ParseLinearGradient extracts the first linear-gradient() layer of a
// computed background-image. It returns nil when there is none.
func ParseLinearGradient(s string) *Gradient {
	idx := strings.Index(strings.ToLower(s), "linear-gradient(")
	if idx < 0 {
		return nil
	}
	body, ok := enclosed(s[idx+len("linear-gradient"):])
	if !ok {
		return nil
	}
	args := splitTopLevel(body)
	if len(args) == 0 {
		return nil
	}

	g := &Gradient{Angle: 180}
	if angle, ok := parseDirection(args[0]); ok {
		g.Angle = angle
		args = args[1:]
	}
	for _, arg := range args {
		if stop, ok := parseStop(arg); ok {
			g.Stops = append(g.Stops, stop)
		}
	}
	return g
}

// Vector returns the gradient line in objectBoundingBox units.
func (g *Gradient) Vector() (x1, y1, x2, y2 float64) {
	rad := g.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	// Project onto the unit square so the line spans corner to corner.
	scale := 0.5 / math.Max(math.Abs(dx), math.Abs(dy))
	dx, dy = dx*scale, dy*scale
	return round6(0.5 - dx), round6(0.5 - dy), round6(0.5 + dx), round6(0.5 + dy)
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// enclosed returns the text inside the parenthesis starting s.
func enclosed(s string) (string, bool) {
	if !strings.HasPrefix(s, "(") {
		return "", false
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], true
			}
		}
	}
	return "", false
}

func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

var sideAngles = map[string]float64{
	"top": 0, "right": 90, "bottom": 180, "left": 270,
	"top right": 45, "right top": 45,
	"bottom right": 135, "right bottom": 135,
	"bottom left": 225, "left bottom": 225,
	"top left": 315, "left top": 315,
}

func parseDirection(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "to ") {
		a, ok := sideAngles[strings.Join(strings.Fields(s[3:]), " ")]
		return a, ok
	}
	units := []struct {
		suffix string
		factor float64
	}{
		{"deg", 1}, {"grad", 0.9}, {"rad", 180 / math.Pi}, {"turn", 360},
	}
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
			if err != nil {
				return 0, false
			}
			return v * u.factor, true
		}
	}
	return 0, false
}

func parseStop(s string) (GradientStop, bool) {
	colorPart, offsetPart := s, ""
	if end := strings.LastIndexByte(s, ')'); end >= 0 {
		colorPart, offsetPart = s[:end+1], strings.TrimSpace(s[end+1:])
	} else if f := strings.Fields(s); len(f) > 1 {
		colorPart, offsetPart = f[0], f[1]
	}
	c, ok := ParseColor(colorPart)
	if !ok {
		return GradientStop{}, false
	}
	stop := GradientStop{Color: c, Offset: -1}
	if f := strings.Fields(offsetPart); len(f) > 0 && strings.HasSuffix(f[0], "%") {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(f[0], "%"), 64); err == nil {
			stop.Offset = v / 100
		}
	}
	return stop, true
}
