package spritebatch

import (
	"encoding/binary"
	"math"
)

// Quad layout constants.
const (
	// VerticesPerSprite is the number of vertex slots one sprite occupies.
	VerticesPerSprite = 4

	// IndicesPerSprite is the number of indices one sprite occupies: two
	// triangles sharing a diagonal.
	IndicesPerSprite = 6

	// VertexStride is the byte size of one encoded vertex: position
	// (3 x float32) + packed color (uint32) + uv (2 x float32).
	VertexStride = 24
)

// Vertex is the GPU-visible vertex produced by the geometry codec.
// Encoded form is 24 bytes little-endian in field order; Color holds the
// packed value from Color.Packed.
type Vertex struct {
	X, Y, Z float32
	Color   uint32
	U, V    float32
}

// encode writes the vertex into buf, which must hold VertexStride bytes.
func (v Vertex) encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Z))
	binary.LittleEndian.PutUint32(buf[12:16], v.Color)
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.U))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(v.V))
}

// decodeVertex reads one encoded vertex from buf.
func decodeVertex(buf []byte) Vertex {
	return Vertex{
		X:     math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])),
		Y:     math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
		Z:     math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])),
		Color: binary.LittleEndian.Uint32(buf[12:16]),
		U:     math.Float32frombits(binary.LittleEndian.Uint32(buf[16:20])),
		V:     math.Float32frombits(binary.LittleEndian.Uint32(buf[20:24])),
	}
}

// SpriteVertexLayout returns the vertex attribute layout of encoded
// sprite vertices. Backends translate this into their native vertex state.
func SpriteVertexLayout() VertexLayout {
	return VertexLayout{
		Stride: VertexStride,
		Attributes: []VertexAttribute{
			{Format: VertexFormatFloat32x3, Offset: 0, Location: 0},
			{Format: VertexFormatUnorm8x4, Offset: 12, Location: 1},
			{Format: VertexFormatFloat32x2, Offset: 16, Location: 2},
		},
	}
}

// QuadIndices returns index data for spriteCount quad slots. Slot i
// references vertex slots {4i, 4i+1, 4i+2, 4i+2, 4i+3, 4i}: two
// counter-clockwise triangles over the TL,TR,BR,BL vertex winding.
func QuadIndices(spriteCount int) []uint16 {
	indices := make([]uint16, 0, spriteCount*IndicesPerSprite)
	for i := 0; i < spriteCount; i++ {
		base := uint16(i * VerticesPerSprite)
		indices = append(indices,
			base, base+1, base+2,
			base+2, base+3, base,
		)
	}
	return indices
}

// putIndices encodes indices little-endian into dst, which must hold
// len(indices)*2 bytes.
func putIndices(dst []byte, indices []uint16) {
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(dst[i*2:], idx)
	}
}
