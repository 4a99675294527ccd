package spritebatch

import (
	"math"
	"testing"
)

const geomEpsilon = 1e-4

func spriteVertices(t *testing.T, s Sprite, texW, texH float32) []Vertex {
	t.Helper()
	buf := make([]byte, VerticesPerSprite*VertexStride)
	writePortionVertices(buf, []Sprite{s}, texW, texH)
	vs := make([]Vertex, VerticesPerSprite)
	for i := range vs {
		vs[i] = decodeVertex(buf[i*VertexStride:])
	}
	return vs
}

func nearPoint(x, y, wantX, wantY float32) bool {
	return math.Abs(float64(x-wantX)) <= geomEpsilon && math.Abs(float64(y-wantY)) <= geomEpsilon
}

func TestGeneralPathMatchesFastPathAtIdentity(t *testing.T) {
	// With no rotation and unit scale the two encoders must agree.
	sprites := []Sprite{
		{Position: Pt(0, 0), Color: White, Scale: 1},
		{Position: Pt(10, 10), Color: White, Scale: 1},
		{Position: Pt(-3.5, 7.25), Color: RGB(0.2, 0.4, 0.6), Origin: Pt(8, 4), Scale: 1},
	}
	for _, s := range sprites {
		fast := make([]byte, VerticesPerSprite*VertexStride)
		general := make([]byte, VerticesPerSprite*VertexStride)
		writeSpriteFast(fast, &s, 32, 16)
		writeSpriteGeneral(general, &s, 32, 16)

		for i := 0; i < VerticesPerSprite; i++ {
			f := decodeVertex(fast[i*VertexStride:])
			g := decodeVertex(general[i*VertexStride:])
			if !nearPoint(g.X, g.Y, f.X, f.Y) {
				t.Errorf("sprite %+v vertex %d: general (%g,%g), fast (%g,%g)",
					s.Position, i, g.X, g.Y, f.X, f.Y)
			}
			if f.Color != g.Color || f.U != g.U || f.V != g.V || f.Z != g.Z {
				t.Errorf("sprite %+v vertex %d: attribute mismatch: %+v vs %+v",
					s.Position, i, f, g)
			}
		}
	}
}

func TestRotationQuarterTurn(t *testing.T) {
	// A quarter turn about the top-left corner maps the corner (x, y)
	// to (-y, x).
	vs := spriteVertices(t, Sprite{
		Position: Pt(0, 0),
		Color:    White,
		Rotation: math.Pi / 2,
		Scale:    1,
	}, 32, 16)

	want := []Point{{0, 0}, {0, 32}, {-16, 32}, {-16, 0}}
	for i, w := range want {
		if !nearPoint(vs[i].X, vs[i].Y, w.X, w.Y) {
			t.Errorf("vertex %d = (%g,%g), want (%g,%g)", i, vs[i].X, vs[i].Y, w.X, w.Y)
		}
	}
}

func TestScaleAboutOrigin(t *testing.T) {
	// Doubling about the sprite's center keeps the center fixed.
	vs := spriteVertices(t, Sprite{
		Position: Pt(100, 100),
		Color:    White,
		Origin:   Pt(16, 8),
		Scale:    2,
	}, 32, 16)

	want := []Point{{68, 84}, {132, 84}, {132, 116}, {68, 116}}
	for i, w := range want {
		if !nearPoint(vs[i].X, vs[i].Y, w.X, w.Y) {
			t.Errorf("vertex %d = (%g,%g), want (%g,%g)", i, vs[i].X, vs[i].Y, w.X, w.Y)
		}
	}
}

func TestRotationAboutOriginKeepsPivotFixed(t *testing.T) {
	// The corner under the origin maps to the sprite position for any
	// rotation and scale.
	for _, rot := range []float32{0.3, 1.0, 2.5, -0.7} {
		vs := spriteVertices(t, Sprite{
			Position: Pt(50, 60),
			Color:    White,
			Origin:   Pt(0, 0),
			Rotation: rot,
			Scale:    1.5,
		}, 32, 16)
		if !nearPoint(vs[0].X, vs[0].Y, 50, 60) {
			t.Errorf("rotation %g: pivot vertex = (%g,%g), want (50,60)", rot, vs[0].X, vs[0].Y)
		}
	}
}

func TestColorAndUVInvariantUnderTransform(t *testing.T) {
	tests := []struct {
		name   string
		sprite Sprite
	}{
		{"identity", Sprite{Position: Pt(1, 2), Color: RGB(1, 0, 0), Scale: 1}},
		{"rotated", Sprite{Position: Pt(1, 2), Color: RGB(0, 1, 0), Rotation: 0.8, Scale: 1}},
		{"scaled", Sprite{Position: Pt(1, 2), Color: RGBA(0, 0, 1, 0.5), Scale: 3}},
		{"rotated and scaled", Sprite{Position: Pt(1, 2), Color: RGBA(0.1, 0.2, 0.3, 0.4), Rotation: -1.2, Scale: 0.5, Origin: Pt(4, 4)}},
	}
	wantUV := []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := spriteVertices(t, tt.sprite, 16, 16)
			packed := tt.sprite.Color.Packed()
			for i, v := range vs {
				if v.Color != packed {
					t.Errorf("vertex %d: color = %#x, want %#x", i, v.Color, packed)
				}
				if v.U != wantUV[i].X || v.V != wantUV[i].Y {
					t.Errorf("vertex %d: uv = (%g,%g), want (%g,%g)", i, v.U, v.V, wantUV[i].X, wantUV[i].Y)
				}
				if v.Z != 0 {
					t.Errorf("vertex %d: z = %g, want 0", i, v.Z)
				}
			}
		})
	}
}

func TestWritePortionVerticesPacksSpritesContiguously(t *testing.T) {
	sprites := []Sprite{
		{Position: Pt(0, 0), Color: White, Scale: 1},
		{Position: Pt(64, 0), Color: White, Scale: 1},
	}
	buf := make([]byte, len(sprites)*VerticesPerSprite*VertexStride)
	writePortionVertices(buf, sprites, 8, 8)

	// Second sprite's first vertex starts right after the first sprite's
	// four vertices.
	v := decodeVertex(buf[VerticesPerSprite*VertexStride:])
	if v.X != 64 || v.Y != 0 {
		t.Errorf("second sprite TL = (%g,%g), want (64,0)", v.X, v.Y)
	}
}
