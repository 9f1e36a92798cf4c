package core

// Transformation is a 4x4 matrix stored in column-major order, the layout
// expected by GLSL mat4 uniforms and WGSL mat4x4<f32>.
//
// Element (row r, column c) lives at index c*4+r.
type Transformation [16]float32

// Identity returns the identity transformation.
func Identity() Transformation {
	return Transformation{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Orthographic returns a right-handed projection that maps the rectangle
// (0, 0)-(width, height) with Y pointing down onto clip space, with a depth
// range of [-1, 1].
func Orthographic(width, height uint32) Transformation {
	w := float32(width)
	h := float32(height)
	return Transformation{
		2 / w, 0, 0, 0,
		0, -2 / h, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}

// Translate returns a translation by (x, y).
func Translate(x, y float32) Transformation {
	t := Identity()
	t[12] = x
	t[13] = y
	return t
}

// Scale returns a non-uniform scale by (x, y).
func Scale(x, y float32) Transformation {
	t := Identity()
	t[0] = x
	t[5] = y
	return t
}

// Mul returns t × o. Applied to a point, o acts first.
func (t Transformation) Mul(o Transformation) Transformation {
	var r Transformation
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += t[k*4+row] * o[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// Apply transforms p as a point with z = 0 and w = 1, discarding z and w.
func (t Transformation) Apply(p Point) Point {
	return Point{
		X: t[0]*p.X + t[4]*p.Y + t[12],
		Y: t[1]*p.X + t[5]*p.Y + t[13],
	}
}

// Array returns the raw column-major elements.
func (t Transformation) Array() [16]float32 {
	return [16]float32(t)
}
