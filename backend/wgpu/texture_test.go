package wgpu

import (
	"image"
	"image/color"
	"testing"
)

func TestRGBAPixelsFromRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 1, color.RGBA{B: 255, A: 255})

	pixels, w, h := rgbaPixels(img)
	if w != 2 || h != 2 {
		t.Fatalf("size = %dx%d, want 2x2", w, h)
	}
	if len(pixels) != 16 {
		t.Fatalf("len = %d, want 16", len(pixels))
	}
	if pixels[0] != 255 || pixels[3] != 255 {
		t.Errorf("pixel (0,0) = %v, want opaque red", pixels[0:4])
	}
	if pixels[14] != 255 {
		t.Errorf("pixel (1,1) blue = %d, want 255", pixels[14])
	}
}

func TestRGBAPixelsConvertsOtherFormats(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(1, 0, color.Gray{Y: 128})

	pixels, w, h := rgbaPixels(img)
	if w != 3 || h != 1 {
		t.Fatalf("size = %dx%d, want 3x1", w, h)
	}
	// Gray converts to equal RGB channels with full alpha.
	if pixels[4] != pixels[5] || pixels[5] != pixels[6] {
		t.Errorf("pixel (1,0) rgb = %v, want equal channels", pixels[4:7])
	}
	if pixels[7] != 255 {
		t.Errorf("pixel (1,0) alpha = %d, want 255", pixels[7])
	}
}

func TestRGBAPixelsNormalizesOffsetBounds(t *testing.T) {
	// Sub-images carry non-zero bounds; the pixel extraction must
	// re-anchor them at the origin.
	img := image.NewRGBA(image.Rect(10, 20, 14, 22))
	img.SetRGBA(10, 20, color.RGBA{G: 255, A: 255})

	pixels, w, h := rgbaPixels(img)
	if w != 4 || h != 2 {
		t.Fatalf("size = %dx%d, want 4x2", w, h)
	}
	if pixels[1] != 255 {
		t.Errorf("pixel (0,0) green = %d, want 255", pixels[1])
	}
}
