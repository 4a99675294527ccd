package spritebatch

import (
	"image/color"
	"testing"
)

func TestPackedByteOrder(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want uint32
	}{
		{"white", White, 0xFFFFFFFF},
		{"black", Black, 0xFF000000},
		{"transparent", Transparent, 0x00000000},
		{"red", RGB(1, 0, 0), 0xFF0000FF},
		{"green", RGB(0, 1, 0), 0xFF00FF00},
		{"blue", RGB(0, 0, 1), 0xFFFF0000},
		{"half alpha", RGBA(0, 0, 0, 0.5), 0x80000000},
		{"clamped above", RGBA(2, 0, 0, 1), 0xFF0000FF},
		{"clamped below", RGBA(-1, 0, 0, 1), 0xFF000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Packed(); got != tt.want {
				t.Errorf("Packed() = %#08x, want %#08x", got, tt.want)
			}
		})
	}
}

func TestPackedRounds(t *testing.T) {
	// 0.5 * 255 = 127.5 rounds up to 128.
	c := Color{R: 0.5, A: 1}
	if got := c.Packed() & 0xFF; got != 128 {
		t.Errorf("red byte = %d, want 128", got)
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	if got.R != 1 || got.G != 0 || got.B != 0 || got.A != 1 {
		t.Errorf("FromColor(red) = %+v", got)
	}
}

func TestRGBIsOpaque(t *testing.T) {
	if got := RGB(0.1, 0.2, 0.3); got.A != 1 {
		t.Errorf("RGB(...).A = %g, want 1", got.A)
	}
}
