package spritebatch

import "fmt"

// DefaultMaxPortionSize is the default cap on sprites per draw call.
// It bounds the vertex buffer at 8000 slots (192 KB) and keeps index
// values well inside the uint16 range.
const DefaultMaxPortionSize = 2000

// Config configures a Batch. The zero value (or a nil pointer) selects
// defaults for every field.
type Config struct {
	// MaxPortionSize caps the number of sprites drawn per call. Longer
	// same-texture runs are split into consecutive full portions plus a
	// remainder. If 0, defaults to DefaultMaxPortionSize.
	MaxPortionSize int
}

// Batch accumulates sprite draw requests between Begin and End and flushes
// them as one indexed draw call per run of consecutive same-texture
// sprites.
//
// A Batch owns a static index buffer, filled once at construction with
// quad topology for MaxPortionSize slots, and a dynamic vertex buffer
// rewritten from slot 0 for every portion.
//
// Batch is single-goroutine and non-reentrant. Calling Draw or End
// without a preceding Begin, or overlapping two frames, is a contract
// breach with unspecified (but memory-safe) results.
type Batch struct {
	device Device
	shader ShaderProgram

	maxPortionSize int

	vertexBuffer VertexBuffer
	indexBuffer  IndexBuffer

	// Pending sprites for the current frame, in submission order.
	sprites []Sprite
}

// New creates a Batch drawing through device with the given shader
// program. config may be nil for defaults.
//
// New allocates both GPU buffers and uploads the index topology; the
// returned Batch is ready for Begin. Call Release when done.
func New(device Device, shader ShaderProgram, config *Config) (*Batch, error) {
	if device == nil {
		return nil, fmt.Errorf("spritebatch: device is required")
	}
	if shader == nil {
		return nil, fmt.Errorf("spritebatch: shader is required")
	}
	if config != nil && config.MaxPortionSize < 0 {
		return nil, fmt.Errorf("spritebatch: invalid MaxPortionSize %d", config.MaxPortionSize)
	}

	maxPortionSize := DefaultMaxPortionSize
	if config != nil && config.MaxPortionSize > 0 {
		maxPortionSize = config.MaxPortionSize
	}

	indexBuffer, err := device.CreateIndexBuffer(maxPortionSize*IndicesPerSprite, false)
	if err != nil {
		return nil, fmt.Errorf("spritebatch: create index buffer: %w", err)
	}
	indices := QuadIndices(maxPortionSize)
	err = indexBuffer.Update(0, len(indices), func(dst []byte) {
		putIndices(dst, indices)
	})
	if err != nil {
		indexBuffer.Release()
		return nil, fmt.Errorf("spritebatch: fill index buffer: %w", err)
	}

	vertexBuffer, err := device.CreateVertexBuffer(maxPortionSize*VerticesPerSprite, SpriteVertexLayout(), true)
	if err != nil {
		indexBuffer.Release()
		return nil, fmt.Errorf("spritebatch: create vertex buffer: %w", err)
	}

	Logger().Debug("spritebatch: batch created",
		"maxPortionSize", maxPortionSize,
		"vertexSlots", maxPortionSize*VerticesPerSprite,
		"indexSlots", maxPortionSize*IndicesPerSprite)

	return &Batch{
		device:         device,
		shader:         shader,
		maxPortionSize: maxPortionSize,
		vertexBuffer:   vertexBuffer,
		indexBuffer:    indexBuffer,
	}, nil
}

// MaxPortionSize returns the configured cap on sprites per draw call.
func (b *Batch) MaxPortionSize() int {
	return b.maxPortionSize
}

// Release frees the GPU buffers owned by the batch. The batch must not
// be used after Release.
func (b *Batch) Release() {
	b.vertexBuffer.Release()
	b.indexBuffer.Release()
}

// Begin starts a new frame, discarding any sprites left from a previous
// one. The pending list's capacity is kept across frames.
func (b *Batch) Begin() {
	b.sprites = b.sprites[:0]
}

// Draw buffers one sprite at position with default attributes: white
// tint, no rotation, top-left origin, scale 1. tex must be non-nil and
// remain valid until End returns. No GPU work happens here.
func (b *Batch) Draw(tex Texture, position Point) {
	b.DrawWith(tex, position, DefaultDrawOptions())
}

// DrawWith buffers one sprite at position with explicit attributes. opts
// is used verbatim; callers overriding only some fields should start from
// DefaultDrawOptions. No GPU work happens here.
func (b *Batch) DrawWith(tex Texture, position Point, opts DrawOptions) {
	b.sprites = append(b.sprites, Sprite{
		Texture:  tex,
		Position: position,
		Color:    opts.Color,
		Rotation: opts.Rotation,
		Origin:   opts.Origin,
		Scale:    opts.Scale,
	})
}

// End flushes the frame's sprites in submission order. An empty frame
// returns nil without touching the device. Otherwise End establishes the
// frame's render state once, then walks the pending list issuing one
// indexed draw call per portion. A vertex write failure aborts the flush
// and returns the wrapped error; sprites after the failed portion are
// dropped with the rest of the frame.
func (b *Batch) End() error {
	if len(b.sprites) == 0 {
		return nil
	}

	d := b.device
	d.SetBlendMode(BlendAlpha)
	d.SetVertexBuffer(b.vertexBuffer)
	d.SetIndexBuffer(b.indexBuffer)
	d.SetShaderProgram(b.shader)

	// Per-sprite tint lives in the vertex data; the batch-wide parameters
	// stay neutral.
	d.SetShaderColor(ShaderParamTint, White)
	d.SetShaderMatrix(ShaderParamModel, Mat4Identity())

	// The viewport can change between frames, so the projection is derived
	// from a live query on every flush.
	width, height := d.ViewportSize()
	d.SetShaderMatrix(ShaderParamViewProj, ScreenProjection(float32(width), float32(height)))

	for start := 0; start < len(b.sprites); {
		count := portionLength(b.sprites, start, b.maxPortionSize)
		if err := b.renderPortion(start, count); err != nil {
			return err
		}
		start += count
	}
	return nil
}

// renderPortion encodes count sprites starting at start into the vertex
// buffer and issues their draw call. The texture size is queried once and
// shared by the whole portion.
func (b *Batch) renderPortion(start, count int) error {
	tex := b.sprites[start].Texture
	texW := float32(tex.Width())
	texH := float32(tex.Height())

	// Every portion rewrites the dynamic buffer from slot 0; index values
	// never exceed one portion's worth of vertices.
	err := b.vertexBuffer.Update(0, count*VerticesPerSprite, func(dst []byte) {
		writePortionVertices(dst, b.sprites[start:start+count], texW, texH)
	})
	if err != nil {
		return fmt.Errorf("spritebatch: write portion at sprite %d: %w", start, err)
	}

	b.device.SetTexture(TextureUnitDiffuse, tex)
	b.device.DrawIndexed(count*IndicesPerSprite, 0, count*VerticesPerSprite, 0)
	return nil
}
