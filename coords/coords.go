// Package coords maps viewport geometry into document space and handles the
// affine transforms found in embedded vector graphics.
package coords

import (
	"errors"
	"math"

	"github.com/wudi/infosvg/visual"
)

// DocRect is a box in document space (output units).
type DocRect struct {
	X, Y, W, H float64
}

// Mapper converts viewport pixels into document space for one page.
// Values are never rounded here; rounding belongs to serialization.
type Mapper struct {
	// Origin is the viewport-space top-left of the target page.
	Origin visual.Point
	// Scale is the uniform view zoom active at transcription time.
	Scale float64
}

// NewMapper returns a Mapper. A non-positive scale falls back to 1.
func NewMapper(origin visual.Point, scale float64) Mapper {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	return Mapper{Origin: origin, Scale: scale}
}

func (m Mapper) scale() float64 {
	if m.Scale <= 0 {
		return 1
	}
	return m.Scale
}

// ToDocSpace maps a viewport rect: doc = (vp - origin) / scale.
func (m Mapper) ToDocSpace(r visual.Rect) DocRect {
	s := m.scale()
	return DocRect{
		X: (r.X - m.Origin.X) / s,
		Y: (r.Y - m.Origin.Y) / s,
		W: r.W / s,
		H: r.H / s,
	}
}

// Length maps a viewport length.
func (m Mapper) Length(v float64) float64 { return v / m.scale() }

// Matrix is an affine transform [a b c d e f] in SVG order:
// x' = a*x + c*y + e, y' = b*x + d*y + f.
type Matrix [6]float64

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Multiply returns the transform applying m first, then o.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

// Point is a position in an arbitrary space.
type Point struct{ X, Y float64 }

// Transform applies m to p.
func (m Matrix) Transform(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

// Inverse returns the inverse transform.
func (m Matrix) Inverse() (Matrix, error) {
	det := m.det()
	if math.Abs(det) < 1e-10 {
		return Matrix{}, errors.New("coords: matrix singular")
	}
	return Matrix{
		m[3] / det, -m[1] / det, -m[2] / det, m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}

func (m Matrix) det() float64 { return m[0]*m[3] - m[1]*m[2] }

// UniformScale returns the linear scale factor of m, sqrt(|det|). It is the
// factor a stroke width or font size drawn under m is magnified by.
func (m Matrix) UniformScale() float64 { return math.Sqrt(math.Abs(m.det())) }

// Translate returns a translation.
func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

// Scale returns a scaling.
func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// Rotate returns a rotation by angle radians.
func Rotate(angle float64) Matrix {
	c, s := math.Cos(angle), math.Sin(angle)
	return Matrix{c, s, -s, c, 0, 0}
}

// Skew returns a skew by ax and ay radians.
func Skew(ax, ay float64) Matrix { return Matrix{1, math.Tan(ay), math.Tan(ax), 1, 0, 0} }
