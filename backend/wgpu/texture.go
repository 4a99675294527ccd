package wgpu

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/spritebatch"
)

// Texture is an RGBA8 GPU texture implementing spritebatch.Texture.
// Textures are compared by pointer identity when the batcher groups
// sprites, so callers should create one Texture per image and share it.
type Texture struct {
	dev  *Device
	tex  hal.Texture
	view hal.TextureView

	width, height int
	released      bool
}

var _ spritebatch.Texture = (*Texture)(nil)

// Width implements spritebatch.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements spritebatch.Texture.
func (t *Texture) Height() int { return t.height }

// Release frees the GPU texture and its view.
func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.dev.device.DestroyTextureView(t.view)
	t.dev.device.DestroyTexture(t.tex)
	t.view, t.tex = nil, nil
}

// CreateTexture creates an RGBA8 texture and uploads pixels, which must
// hold width*height*4 bytes in row-major RGBA order. pixels may be nil to
// leave the texture contents undefined.
func (d *Device) CreateTexture(width, height int, pixels []byte) (*Texture, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wgpu: invalid texture size %dx%d", width, height)
	}
	if pixels != nil && len(pixels) != width*height*4 {
		return nil, fmt.Errorf("wgpu: pixel data is %d bytes, want %d", len(pixels), width*height*4)
	}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: "sprite_texture",
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "sprite_texture_view",
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture view: %w", err)
	}

	t := &Texture{dev: d, tex: tex, view: view, width: width, height: height}
	if pixels != nil {
		if err := t.upload(pixels); err != nil {
			t.Release()
			return nil, err
		}
	}
	spritebatch.Logger().Debug("wgpu: texture created", "width", width, "height", height)
	return t, nil
}

// upload writes full-texture RGBA pixels.
func (t *Texture) upload(pixels []byte) error {
	dst := &hal.ImageCopyTexture{
		Texture:  t.tex,
		MipLevel: 0,
		Origin:   hal.Origin3D{},
		Aspect:   gputypes.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(t.width * 4),
		RowsPerImage: uint32(t.height),
	}
	size := &hal.Extent3D{
		Width:              uint32(t.width),
		Height:             uint32(t.height),
		DepthOrArrayLayers: 1,
	}
	if err := t.dev.queue.WriteTexture(dst, pixels, layout, size); err != nil {
		return fmt.Errorf("wgpu: upload texture: %w", err)
	}
	return nil
}

// NewTextureFromImage converts img to RGBA and creates a texture of the
// image's bounds.
func (d *Device) NewTextureFromImage(img image.Image) (*Texture, error) {
	pixels, w, h := rgbaPixels(img)
	return d.CreateTexture(w, h, pixels)
}

// NewTextureFromImageScaled resamples img to width x height with
// bilinear filtering and creates a texture from the result.
func (d *Device) NewTextureFromImageScaled(img image.Image, width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wgpu: invalid texture size %dx%d", width, height)
	}
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return d.CreateTexture(width, height, scaled.Pix)
}

// rgbaPixels converts any image into tightly packed RGBA bytes.
func rgbaPixels(img image.Image) ([]byte, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == w*4 && b.Min == (image.Point{}) {
		return rgba.Pix, w, h
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	return rgba.Pix, w, h
}
