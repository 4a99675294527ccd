package spritebatch

import "image/color"

// Color represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Alpha is straight (not
// premultiplied); the blend state chosen at draw time decides how it is
// applied.
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	White       = Color{R: 1, G: 1, B: 1, A: 1}
	Black       = Color{R: 0, G: 0, B: 0, A: 1}
	Transparent = Color{}
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromColor converts a standard color.Color to a Color.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color{
		R: float32(r) / 65535,
		G: float32(g) / 65535,
		B: float32(b) / 65535,
		A: float32(a) / 65535,
	}
}

// Packed returns the color packed into a single 32-bit value with the
// red channel in the lowest byte: R | G<<8 | B<<16 | A<<24. Written
// little-endian into vertex data this matches the unorm8x4 vertex format,
// which unpacks to RGBA in the shader. Components are clamped to [0, 1]
// and rounded to the nearest 8-bit value.
func (c Color) Packed() uint32 {
	r := uint32(clamp255(c.R * 255))
	g := uint32(clamp255(c.G * 255))
	b := uint32(clamp255(c.B * 255))
	a := uint32(clamp255(c.A * 255))
	return r | g<<8 | b<<16 | a<<24
}

// clamp255 clamps v to [0, 255] and rounds to the nearest integer.
func clamp255(v float32) float32 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return float32(int(v + 0.5))
}
