package spritebatch

// Sprite is a single buffered draw request. The batch stores sprites by
// value between Begin and End; the Texture field is a borrowed reference
// that the caller must keep alive and unmodified until End returns.
type Sprite struct {
	// Texture is the texture the sprite samples. Must be non-nil.
	Texture Texture

	// Position is the target-space position of the sprite origin, in pixels.
	Position Point

	// Color is the per-vertex tint multiplied with the texture sample.
	Color Color

	// Rotation is the rotation about the origin in radians; positive angles
	// turn from +X toward +Y.
	Rotation float32

	// Origin is the pivot point in unscaled texture pixels, relative to the
	// sprite's top-left corner.
	Origin Point

	// Scale is the uniform scale factor applied about the origin.
	Scale float32
}

// DrawOptions carries the optional attributes of a draw request. The zero
// value is not useful (zero scale collapses the sprite); start from
// DefaultDrawOptions and override fields as needed.
type DrawOptions struct {
	Color    Color
	Rotation float32
	Origin   Point
	Scale    float32
}

// DefaultDrawOptions returns the attributes Draw uses: white tint, no
// rotation, top-left origin, scale 1.
func DefaultDrawOptions() DrawOptions {
	return DrawOptions{Color: White, Scale: 1}
}
