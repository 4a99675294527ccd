package wgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/spritebatch"
)

// Errors returned by the wgpu backend.
var (
	// ErrDeviceClosed is returned when using a device after Close.
	ErrDeviceClosed = errors.New("wgpu: device is closed")

	// ErrFrameNotStarted is returned when drawing or ending a frame
	// without a matching BeginFrame.
	ErrFrameNotStarted = errors.New("wgpu: no frame in progress")

	// ErrFrameInProgress is returned by BeginFrame when the previous
	// frame was not ended.
	ErrFrameInProgress = errors.New("wgpu: frame already in progress")

	// ErrNoHALAccess is returned when a device provider does not expose
	// the underlying HAL device and queue.
	ErrNoHALAccess = errors.New("wgpu: provider does not expose HAL handles")

	// ErrBufferRange is returned when a buffer update addresses slots
	// outside the buffer's capacity.
	ErrBufferRange = errors.New("wgpu: buffer update out of range")
)

// maxTextureUnits is the number of texture binding slots the device tracks.
const maxTextureUnits = 8

// fenceTimeout bounds the EndFrame wait for GPU completion.
const fenceTimeout = 5 * time.Second

// Device implements spritebatch.Device on the gogpu/wgpu HAL.
//
// State setters record pending state; DrawIndexed realizes it as a
// pipeline, a bind group and a draw command inside the frame's render
// pass. Errors during recorded draws are deferred and surfaced by
// EndFrame, matching the fire-and-forget draw contract.
//
// Device methods must be called from a single goroutine.
type Device struct {
	device hal.Device
	queue  hal.Queue

	// format is the render target format pipelines are built against.
	format gputypes.TextureFormat

	width, height int
	clearColor    gputypes.Color

	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder

	// Pending state, applied at the next DrawIndexed.
	blend    spritebatch.BlendMode
	vertex   *vertexBuffer
	index    *indexBuffer
	shader   *SpriteShader
	textures [maxTextureUnits]*Texture

	uniforms      spriteUniforms
	uniformsDirty bool
	uniformBuf    hal.Buffer

	// Transient resources retired once the frame's submit completes.
	frameBindGroups []hal.BindGroup
	frameBuffers    []hal.Buffer

	// Dynamic vertex buffers with per-frame pools to recycle at EndFrame.
	pooled []*vertexBuffer

	// First deferred draw error of the frame.
	frameErr error

	closed bool
}

var _ spritebatch.Device = (*Device)(nil)

// NewDevice creates a Device over raw HAL handles. The render target
// format defaults to BGRA8Unorm; override with SetSurfaceFormat before
// creating shaders if the swapchain differs.
func NewDevice(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("wgpu: device and queue are required")
	}
	d := &Device{
		device: device,
		queue:  queue,
		format: gputypes.TextureFormatBGRA8Unorm,
	}
	spritebatch.Logger().Info("wgpu: device created", "format", d.format)
	return d, nil
}

// NewDeviceFromProvider creates a Device from a gpucontext provider, such
// as a gogpu application handle. The provider must expose HalDevice() and
// HalQueue() returning hal.Device and hal.Queue; its surface format is
// adopted when defined.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}

	d, err := NewDevice(device, queue)
	if err != nil {
		return nil, err
	}
	if format := provider.SurfaceFormat(); format != gputypes.TextureFormatUndefined {
		d.format = format
	}
	return d, nil
}

// SetSurfaceFormat overrides the render target format used for pipeline
// creation. Must be called before shaders build their pipelines.
func (d *Device) SetSurfaceFormat(format gputypes.TextureFormat) {
	d.format = format
}

// SetClearColor sets the color the render pass clears to at BeginFrame.
func (d *Device) SetClearColor(c spritebatch.Color) {
	d.clearColor = gputypes.Color{
		R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A),
	}
}

// Close marks the device unusable. Resources created through the device
// (shaders, buffers, textures) are released by their own owners.
func (d *Device) Close() {
	d.closed = true
}

// BeginFrame opens a render pass targeting view, which must be a color
// attachment of the given pixel size. The pass clears to the configured
// clear color.
func (d *Device) BeginFrame(view hal.TextureView, width, height int) error {
	if d.closed {
		return ErrDeviceClosed
	}
	if d.pass != nil {
		return ErrFrameInProgress
	}
	if view == nil || width <= 0 || height <= 0 {
		return fmt.Errorf("wgpu: invalid frame target: view=%v size=%dx%d", view, width, height)
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "sprite_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("sprite_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	d.pass = encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "sprite_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: d.clearColor,
		}},
	})
	d.encoder = encoder
	d.width = width
	d.height = height
	d.frameErr = nil
	return nil
}

// EndFrame closes the render pass, submits the frame's commands and
// blocks until the GPU consumed them, then recycles per-frame resources.
// Deferred draw errors from the frame are returned here.
func (d *Device) EndFrame() error {
	if d.pass == nil {
		return ErrFrameNotStarted
	}
	d.pass.End()
	encoder := d.encoder
	d.pass, d.encoder = nil, nil

	defer d.retireFrameResources()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wgpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	return d.frameErr
}

// retireFrameResources destroys transient bind groups and buffers and
// returns pooled vertex buffers to their free lists. Called after the
// frame's submit has been waited on.
func (d *Device) retireFrameResources() {
	for _, bg := range d.frameBindGroups {
		d.device.DestroyBindGroup(bg)
	}
	d.frameBindGroups = d.frameBindGroups[:0]
	for _, buf := range d.frameBuffers {
		d.device.DestroyBuffer(buf)
	}
	d.frameBuffers = d.frameBuffers[:0]
	d.uniformBuf = nil
	for _, vb := range d.pooled {
		vb.recycle()
	}
}

// SetBlendMode implements spritebatch.Device.
func (d *Device) SetBlendMode(mode spritebatch.BlendMode) {
	d.blend = mode
}

// SetVertexBuffer implements spritebatch.Device. Buffers not created by
// this backend are rejected with a deferred error.
func (d *Device) SetVertexBuffer(buf spritebatch.VertexBuffer) {
	vb, ok := buf.(*vertexBuffer)
	if !ok {
		d.deferErr(fmt.Errorf("wgpu: foreign vertex buffer %T", buf))
		return
	}
	d.vertex = vb
}

// SetIndexBuffer implements spritebatch.Device.
func (d *Device) SetIndexBuffer(buf spritebatch.IndexBuffer) {
	ib, ok := buf.(*indexBuffer)
	if !ok {
		d.deferErr(fmt.Errorf("wgpu: foreign index buffer %T", buf))
		return
	}
	d.index = ib
}

// SetShaderProgram implements spritebatch.Device.
func (d *Device) SetShaderProgram(prog spritebatch.ShaderProgram) {
	s, ok := prog.(*SpriteShader)
	if !ok {
		d.deferErr(fmt.Errorf("wgpu: foreign shader program %T", prog))
		return
	}
	d.shader = s
}

// SetShaderColor implements spritebatch.Device.
func (d *Device) SetShaderColor(name string, c spritebatch.Color) {
	switch name {
	case spritebatch.ShaderParamTint:
		d.uniforms.Tint = [4]float32{c.R, c.G, c.B, c.A}
		d.uniformsDirty = true
	default:
		spritebatch.Logger().Warn("wgpu: unknown shader color parameter", "name", name)
	}
}

// SetShaderMatrix implements spritebatch.Device.
func (d *Device) SetShaderMatrix(name string, m spritebatch.Mat4) {
	switch name {
	case spritebatch.ShaderParamViewProj:
		d.uniforms.ViewProj = m
		d.uniformsDirty = true
	case spritebatch.ShaderParamModel:
		d.uniforms.Model = m
		d.uniformsDirty = true
	default:
		spritebatch.Logger().Warn("wgpu: unknown shader matrix parameter", "name", name)
	}
}

// SetTexture implements spritebatch.Device. Passing nil unbinds the unit.
func (d *Device) SetTexture(unit spritebatch.TextureUnit, tex spritebatch.Texture) {
	if int(unit) >= maxTextureUnits {
		d.deferErr(fmt.Errorf("wgpu: texture unit %d out of range", unit))
		return
	}
	if tex == nil {
		d.textures[unit] = nil
		return
	}
	t, ok := tex.(*Texture)
	if !ok {
		d.deferErr(fmt.Errorf("wgpu: foreign texture %T", tex))
		return
	}
	d.textures[unit] = t
}

// ViewportSize implements spritebatch.Device, returning the size passed
// to the current (or last) BeginFrame.
func (d *Device) ViewportSize() (int, int) {
	return d.width, d.height
}

// DrawIndexed implements spritebatch.Device. The draw is recorded into
// the current render pass; failures are deferred to EndFrame.
func (d *Device) DrawIndexed(indexCount, indexStart, vertexCount, vertexStart int) {
	if d.pass == nil {
		d.deferErr(ErrFrameNotStarted)
		return
	}
	if d.shader == nil || d.vertex == nil || d.index == nil {
		d.deferErr(fmt.Errorf("wgpu: draw with incomplete state"))
		return
	}
	diffuse := d.textures[spritebatch.TextureUnitDiffuse]
	if diffuse == nil {
		d.deferErr(fmt.Errorf("wgpu: draw with no diffuse texture bound"))
		return
	}
	if vertexStart < 0 || vertexCount < 0 || vertexStart+vertexCount > d.vertex.SlotCount() {
		d.deferErr(fmt.Errorf("%w: vertices [%d,%d) of %d", ErrBufferRange,
			vertexStart, vertexStart+vertexCount, d.vertex.SlotCount()))
		return
	}
	vbuf := d.vertex.boundBuffer()
	if vbuf == nil {
		d.deferErr(fmt.Errorf("wgpu: draw with empty vertex buffer"))
		return
	}

	pipeline, err := d.shader.pipeline(d.blend, d.format)
	if err != nil {
		d.deferErr(err)
		return
	}
	if err := d.ensureUniforms(); err != nil {
		d.deferErr(err)
		return
	}
	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "sprite_bind_group",
		Layout: d.shader.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: d.uniformBuf.NativeHandle(), Offset: 0, Size: uniformByteSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: diffuse.view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: d.shader.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		d.deferErr(fmt.Errorf("wgpu: create bind group: %w", err))
		return
	}
	d.frameBindGroups = append(d.frameBindGroups, bindGroup)

	d.pass.SetPipeline(pipeline)
	d.pass.SetBindGroup(0, bindGroup, nil)
	d.pass.SetVertexBuffer(0, vbuf, 0)
	d.pass.SetIndexBuffer(d.index.buf, gputypes.IndexFormatUint16, 0)
	d.pass.DrawIndexed(uint32(indexCount), 1, uint32(indexStart), int32(vertexStart), 0)
}

// ensureUniforms uploads the pending uniform block into a fresh transient
// buffer when it changed since the last draw.
func (d *Device) ensureUniforms() error {
	if d.uniformBuf != nil && !d.uniformsDirty {
		return nil
	}
	buf, err := d.createAndUploadBuffer("sprite_uniforms", d.uniforms.encode(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("wgpu: upload uniforms: %w", err)
	}
	d.frameBuffers = append(d.frameBuffers, buf)
	d.uniformBuf = buf
	d.uniformsDirty = false
	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (d *Device) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := d.queue.WriteBuffer(buf, 0, data); err != nil {
		d.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// deferErr records the first draw-path error of the frame for EndFrame.
func (d *Device) deferErr(err error) {
	spritebatch.Logger().Warn("wgpu: deferred draw error", "err", err)
	if d.frameErr == nil {
		d.frameErr = err
	}
}

// spriteUniforms matches the Uniforms block in sprite.wgsl: two row-major
// mat4x4 followed by the tint vec4.
type spriteUniforms struct {
	ViewProj spritebatch.Mat4
	Model    spritebatch.Mat4
	Tint     [4]float32
}

// uniformByteSize is the encoded size of spriteUniforms.
const uniformByteSize = 144

// encode serializes the uniform block little-endian for upload.
func (u *spriteUniforms) encode() []byte {
	buf := make([]byte, uniformByteSize)
	off := 0
	put := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	for _, v := range u.ViewProj {
		put(v)
	}
	for _, v := range u.Model {
		put(v)
	}
	for _, v := range u.Tint {
		put(v)
	}
	return buf
}
