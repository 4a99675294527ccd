package spritebatch

// BlendMode selects the fixed-function blend state for subsequent draws.
type BlendMode uint8

// Blend modes.
const (
	// BlendReplace writes fragments without blending.
	BlendReplace BlendMode = iota

	// BlendAlpha is source-over blending with straight alpha.
	BlendAlpha

	// BlendAdditive adds source fragments to the destination.
	BlendAdditive

	// BlendPremultiplied is source-over blending with premultiplied alpha.
	BlendPremultiplied
)

// TextureUnit identifies a texture binding slot on the device.
type TextureUnit uint8

// TextureUnitDiffuse is the diffuse map slot sampled by sprite shaders.
const TextureUnitDiffuse TextureUnit = 0

// Shader parameter names understood by sprite shader programs. Backends
// map these onto their own uniform storage.
const (
	// ShaderParamTint is the batch-wide color multiplied into every fragment.
	ShaderParamTint = "Tint"

	// ShaderParamModel transforms vertex positions before projection.
	ShaderParamModel = "Model"

	// ShaderParamViewProj maps target-space pixel positions to clip space.
	ShaderParamViewProj = "ViewProj"
)

// VertexFormat describes the type of a single vertex attribute.
type VertexFormat uint8

// Vertex attribute formats.
const (
	// VertexFormatFloat32x2 is two 32-bit floats.
	VertexFormatFloat32x2 VertexFormat = iota + 1

	// VertexFormatFloat32x3 is three 32-bit floats.
	VertexFormatFloat32x3

	// VertexFormatUnorm8x4 is four normalized unsigned bytes, read in the
	// shader as a float vector in [0, 1].
	VertexFormatUnorm8x4
)

// VertexAttribute is one attribute within a vertex layout.
type VertexAttribute struct {
	// Format is the attribute's data type.
	Format VertexFormat

	// Offset is the byte offset of the attribute within a vertex.
	Offset int

	// Location is the shader input location the attribute binds to.
	Location int
}

// VertexLayout declares the memory layout of a vertex buffer's contents.
type VertexLayout struct {
	// Stride is the byte size of one vertex.
	Stride int

	// Attributes lists the attributes of each vertex in location order.
	Attributes []VertexAttribute
}

// Texture is a GPU texture as seen by the batcher. Implementations must
// be comparable reference types (pointers): the batcher groups sprites by
// comparing Texture interface values for identity, never by contents.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int
}

// VertexBuffer is a GPU vertex buffer created through a Device.
type VertexBuffer interface {
	// Update grants scoped write access to slotCount vertex slots starting
	// at firstSlot. fn receives a destination of exactly
	// slotCount*Stride bytes; the write is committed when fn returns, on
	// every exit path, before the buffer can next be bound for drawing.
	Update(firstSlot, slotCount int, fn func(dst []byte)) error

	// SlotCount returns the buffer capacity in vertex slots.
	SlotCount() int

	// Release frees the GPU resource. The buffer must not be used after.
	Release()
}

// IndexBuffer is a GPU index buffer of 16-bit indices created through a
// Device.
type IndexBuffer interface {
	// Update grants scoped write access to indexCount indices starting at
	// firstIndex, with the same commit guarantee as VertexBuffer.Update.
	// fn receives a destination of exactly indexCount*2 bytes.
	Update(firstIndex, indexCount int, fn func(dst []byte)) error

	// IndexCount returns the buffer capacity in indices.
	IndexCount() int

	// Release frees the GPU resource. The buffer must not be used after.
	Release()
}

// ShaderProgram is an opaque handle to a vertex/fragment program pair
// that consumes SpriteVertexLayout input and the shader parameters above.
type ShaderProgram interface {
	// Label returns a diagnostic name for the program.
	Label() string
}

// Device is the narrow GPU contract the batcher drives. Setter calls
// record state that takes effect at the next DrawIndexed; errors surface
// through buffer operations and the backend's own frame lifecycle, not
// through the setters.
//
// Implementations are driven from a single goroutine, matching the
// batcher's concurrency model.
type Device interface {
	// CreateVertexBuffer allocates slotCount vertex slots with the given
	// attribute layout. dynamic marks buffers rewritten every frame so the
	// backend can place them accordingly.
	CreateVertexBuffer(slotCount int, layout VertexLayout, dynamic bool) (VertexBuffer, error)

	// CreateIndexBuffer allocates indexCount 16-bit index slots.
	CreateIndexBuffer(indexCount int, dynamic bool) (IndexBuffer, error)

	// SetBlendMode selects the blend state for subsequent draws.
	SetBlendMode(mode BlendMode)

	// SetVertexBuffer binds the vertex buffer for subsequent draws.
	SetVertexBuffer(buf VertexBuffer)

	// SetIndexBuffer binds the index buffer for subsequent draws.
	SetIndexBuffer(buf IndexBuffer)

	// SetShaderProgram binds the shader program for subsequent draws.
	SetShaderProgram(prog ShaderProgram)

	// SetShaderColor sets a named color parameter on the bound program.
	SetShaderColor(name string, c Color)

	// SetShaderMatrix sets a named matrix parameter on the bound program.
	SetShaderMatrix(name string, m Mat4)

	// SetTexture binds a texture to the given unit. A nil texture unbinds.
	SetTexture(unit TextureUnit, tex Texture)

	// ViewportSize returns the current render target size in pixels.
	ViewportSize() (width, height int)

	// DrawIndexed issues one indexed triangle-list draw using the bound
	// state. indexStart and vertexStart offset into the bound buffers;
	// vertexCount is the number of vertex slots the call may read.
	DrawIndexed(indexCount, indexStart, vertexCount, vertexStart int)
}
