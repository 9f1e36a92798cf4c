package core

import "github.com/chewxy/math32"

// Color is a straight-alpha sRGB color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	Black       = Color{A: 1}
	White       = Color{R: 1, G: 1, B: 1, A: 1}
	Transparent = Color{}
)

// RGBA creates a color from its components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// IntoLinear converts the sRGB components to linear space. Alpha is kept
// as is. This is the form expected by every shader.
func (c Color) IntoLinear() [4]float32 {
	return [4]float32{
		linearComponent(c.R),
		linearComponent(c.G),
		linearComponent(c.B),
		c.A,
	}
}

// Array returns the components without conversion.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func linearComponent(u float32) float32 {
	if u < 0.04045 {
		return u / 12.92
	}
	return math32.Pow((u+0.055)/1.055, 2.4)
}
