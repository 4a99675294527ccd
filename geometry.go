package spritebatch

// Sprite corners map to UVs (0,0),(1,0),(1,1),(0,1) in TL,TR,BR,BL order.
var quadUVs = [VerticesPerSprite]Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// writePortionVertices encodes the vertices of a run of same-texture
// sprites into dst, 4 vertices per sprite in TL,TR,BR,BL order. texW and
// texH are the shared texture dimensions. dst must hold
// len(sprites)*VerticesPerSprite*VertexStride bytes.
func writePortionVertices(dst []byte, sprites []Sprite, texW, texH float32) {
	const spriteBytes = VerticesPerSprite * VertexStride
	for i := range sprites {
		s := &sprites[i]
		if s.Rotation == 0 && s.Scale == 1 {
			writeSpriteFast(dst[i*spriteBytes:], s, texW, texH)
		} else {
			writeSpriteGeneral(dst[i*spriteBytes:], s, texW, texH)
		}
	}
}

// writeSpriteFast encodes an untransformed sprite: an axis-aligned
// rectangle of the texture's size anchored at position minus origin.
func writeSpriteFast(dst []byte, s *Sprite, texW, texH float32) {
	packed := s.Color.Packed()
	tl := s.Position.Sub(s.Origin)
	x0, y0 := tl.X, tl.Y
	x1 := x0 + texW
	y1 := y0 + texH

	Vertex{X: x0, Y: y0, Color: packed, U: 0, V: 0}.encode(dst[0:])
	Vertex{X: x1, Y: y0, Color: packed, U: 1, V: 0}.encode(dst[VertexStride:])
	Vertex{X: x1, Y: y1, Color: packed, U: 1, V: 1}.encode(dst[2*VertexStride:])
	Vertex{X: x0, Y: y1, Color: packed, U: 0, V: 1}.encode(dst[3*VertexStride:])
}

// writeSpriteGeneral encodes a rotated or scaled sprite. The corners of
// the rectangle [(0,0), (texW,texH)] go through the affine
//
//	Translate(position) * Rotate(rotation) * Scale(scale) * Translate(-origin)
//
// which costs a single Sincos per sprite (inside Rotate). Depth is
// flattened to z = 0.
func writeSpriteGeneral(dst []byte, s *Sprite, texW, texH float32) {
	packed := s.Color.Packed()
	m := Translate(s.Position.X, s.Position.Y).
		Multiply(Rotate(s.Rotation)).
		Multiply(Scale(s.Scale)).
		Multiply(Translate(-s.Origin.X, -s.Origin.Y))

	corners := [VerticesPerSprite]Point{{0, 0}, {texW, 0}, {texW, texH}, {0, texH}}
	for j, p := range corners {
		q := m.TransformPoint(p)
		Vertex{
			X:     q.X,
			Y:     q.Y,
			Color: packed,
			U:     quadUVs[j].X,
			V:     quadUVs[j].Y,
		}.encode(dst[j*VertexStride:])
	}
}
