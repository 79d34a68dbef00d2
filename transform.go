package electric

import "math"

// Affine is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// Identity is the identity transform.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Mul returns m * o: o is applied first, then m.
func (m Affine) Mul(o Affine) Affine {
	return Affine{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Translate returns m followed, in user space, by a translation. This is
// the canvas semantics: later calls act on coordinates before earlier ones.
func (m Affine) Translate(x, y float64) Affine {
	return m.Mul(Affine{1, 0, 0, 1, x, y})
}

// Scale returns m with a user-space scale appended.
func (m Affine) Scale(sx, sy float64) Affine {
	return m.Mul(Affine{sx, 0, 0, sy, 0, 0})
}

// Rotate returns m with a user-space rotation (radians, clockwise on a
// y-down surface) appended.
func (m Affine) Rotate(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return m.Mul(Affine{cos, sin, -sin, cos, 0, 0})
}

// Invert returns the inverse of m, or Identity if m is singular.
func (m Affine) Invert() Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms the point (x, y).
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ScaleFactor returns the geometric mean of the axis scales, used to size
// line widths and arc tessellation.
func (m Affine) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}
