package milun

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// spriteTransform computes the world matrix of a sprite of size (w, h) whose
// center sits at pos. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-w/2, -h/2) -> Scale -> Rotate(angle) -> Translate(pos)
//
// angleDeg is in degrees, clockwise on screen (Y points down).
func spriteTransform(pos Vec2, angleDeg float64, scale Vec2, w, h float64) [6]float64 {
	sx, sy := scale.X, scale.Y
	px, py := w/2, h/2

	var sin, cos float64
	if angleDeg == 0 {
		sin, cos = 0, 1
	} else {
		sin, cos = math.Sincos(angleDeg * math.Pi / 180)
	}

	// After Scale * Translate(-pivot): a=sx, d=sy, tx=-px*sx, ty=-py*sy
	preTx := -px * sx
	preTy := -py * sy

	// After Rotate:
	return [6]float64{
		cos * sx,
		sin * sx,
		-sin * sy,
		cos * sy,
		cos*preTx - sin*preTy + pos.X,
		sin*preTx + cos*preTy + pos.Y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// worldAABB computes the axis-aligned bounding box for a rectangle of size
// (w, h) transformed by the given affine matrix.
func worldAABB(m [6]float64, w, h float64) Rect {
	x0, y0 := transformPoint(m, 0, 0)
	x1, y1 := transformPoint(m, w, 0)
	x2, y2 := transformPoint(m, w, h)
	x3, y3 := transformPoint(m, 0, h)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
