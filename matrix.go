package spritebatch

import "github.com/chewxy/math32"

// Affine represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Affine struct {
	A, B, C float32
	D, E, F float32
}

// Identity returns the identity transformation matrix.
func Identity() Affine {
	return Affine{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float32) Affine {
	return Affine{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a uniform scaling matrix.
func Scale(s float32) Affine {
	return Affine{
		A: s, B: 0, C: 0,
		D: 0, E: s, F: 0,
	}
}

// Rotate creates a rotation matrix. Positive angles (in radians) turn
// from +X toward +Y.
func Rotate(angle float32) Affine {
	sin, cos := math32.Sincos(angle)
	return Affine{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// Multiply multiplies two matrices (m * other).
func (m Affine) Multiply(other Affine) Affine {
	return Affine{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Affine) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Mat4 is a 4x4 matrix in row-major order, as handed to the shader
// parameter setters. Backends that need column-major storage transpose
// on upload or multiply vector-times-matrix in the shader.
type Mat4 [16]float32

// Mat4Identity returns the 4x4 identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// ScreenProjection returns the matrix mapping pixel coordinates to clip
// space for a render target of the given size: (0,0) top-left maps to
// (-1,1) and (width,height) maps to (1,-1). Z and W pass through
// unchanged.
func ScreenProjection(width, height float32) Mat4 {
	return Mat4{
		2 / width, 0, 0, -1,
		0, -2 / height, 0, 1,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
