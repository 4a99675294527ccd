package wgpu

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/spritebatch"
)

func TestSpirvWords(t *testing.T) {
	// SPIR-V magic number 0x07230203 stored little-endian.
	b := []byte{0x03, 0x02, 0x23, 0x07, 0xFF, 0x00, 0x00, 0x00}
	words := spirvWords(b)
	if len(words) != 2 {
		t.Fatalf("len = %d, want 2", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("words[0] = %#x, want 0x07230203", words[0])
	}
	if words[1] != 0xFF {
		t.Errorf("words[1] = %#x, want 0xff", words[1])
	}
}

func TestSpriteShaderSourceEmbedded(t *testing.T) {
	for _, entry := range []string{"vs_main", "fs_main", "view_proj", "tint"} {
		if !strings.Contains(spriteShaderWGSL, entry) {
			t.Errorf("embedded shader missing %q", entry)
		}
	}
}

func TestBlendStateMapping(t *testing.T) {
	tests := []struct {
		name    string
		mode    spritebatch.BlendMode
		wantNil bool
	}{
		{"replace disables blending", spritebatch.BlendReplace, true},
		{"alpha", spritebatch.BlendAlpha, false},
		{"additive", spritebatch.BlendAdditive, false},
		{"premultiplied", spritebatch.BlendPremultiplied, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := blendState(tt.mode)
			if (got == nil) != tt.wantNil {
				t.Errorf("blendState(%v) nil = %v, want %v", tt.mode, got == nil, tt.wantNil)
			}
		})
	}
}

func TestBlendStateAlphaFactors(t *testing.T) {
	bs := blendState(spritebatch.BlendAlpha)
	if bs.Color.SrcFactor != gputypes.BlendFactorSrcAlpha {
		t.Errorf("color src factor = %v, want SrcAlpha", bs.Color.SrcFactor)
	}
	if bs.Color.DstFactor != gputypes.BlendFactorOneMinusSrcAlpha {
		t.Errorf("color dst factor = %v, want OneMinusSrcAlpha", bs.Color.DstFactor)
	}
}

func TestVertexLayoutTranslation(t *testing.T) {
	layouts := spriteVertexLayout()
	if len(layouts) != 1 {
		t.Fatalf("buffer layouts = %d, want 1", len(layouts))
	}
	l := layouts[0]
	if l.ArrayStride != spritebatch.VertexStride {
		t.Errorf("ArrayStride = %d, want %d", l.ArrayStride, spritebatch.VertexStride)
	}
	want := []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: gputypes.VertexFormatUnorm8x4, Offset: 12, ShaderLocation: 1},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 2},
	}
	if len(l.Attributes) != len(want) {
		t.Fatalf("attributes = %d, want %d", len(l.Attributes), len(want))
	}
	for i, w := range want {
		if l.Attributes[i] != w {
			t.Errorf("attribute %d = %+v, want %+v", i, l.Attributes[i], w)
		}
	}
}
