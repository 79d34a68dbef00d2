package electric

// Box is anything with an axis-aligned bounding rectangle.
type Box interface {
	Bounds() Rect
}

// Scaler is implemented by boxes drawn at a scale. The scale multiplies the
// bounds' width and height; the origin stays put.
type Scaler interface {
	Scale() (sx, sy float64)
}

// Intersects reports whether the scaled bounds of a and b overlap. Boxes
// that only touch along an edge do not intersect. A zero scale factor is
// treated as 1.
func Intersects(a, b Box) bool {
	return scaledBounds(a).Overlaps(scaledBounds(b))
}

func scaledBounds(b Box) Rect {
	r := b.Bounds()
	if s, ok := b.(Scaler); ok {
		sx, sy := s.Scale()
		if sx == 0 {
			sx = 1
		}
		if sy == 0 {
			sy = 1
		}
		r.Width *= sx
		r.Height *= sy
	}
	return r
}
