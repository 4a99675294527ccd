package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/spritebatch"
)

// vertexBuffer implements spritebatch.VertexBuffer.
//
// Static buffers own a single HAL buffer written in place. Dynamic
// buffers rotate through a pool: every Update acquires a fresh (or
// recycled) HAL buffer sized for the full capacity, so data recorded for
// one draw survives later updates until the frame's submit consumes it.
// The pool is recycled by Device.EndFrame after the fence wait.
type vertexBuffer struct {
	dev       *Device
	slotCount int
	stride    int
	dynamic   bool

	// current is the HAL buffer the next draw binds.
	current hal.Buffer
	free    []hal.Buffer
	inUse   []hal.Buffer

	staging  []byte
	released bool
}

var _ spritebatch.VertexBuffer = (*vertexBuffer)(nil)

// CreateVertexBuffer implements spritebatch.Device.
func (d *Device) CreateVertexBuffer(slotCount int, layout spritebatch.VertexLayout, dynamic bool) (spritebatch.VertexBuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if slotCount <= 0 || layout.Stride <= 0 {
		return nil, fmt.Errorf("wgpu: invalid vertex buffer: slots=%d stride=%d", slotCount, layout.Stride)
	}

	vb := &vertexBuffer{
		dev:       d,
		slotCount: slotCount,
		stride:    layout.Stride,
		dynamic:   dynamic,
	}
	if !dynamic {
		buf, err := vb.createHALBuffer()
		if err != nil {
			return nil, err
		}
		vb.current = buf
	} else {
		d.pooled = append(d.pooled, vb)
	}
	spritebatch.Logger().Debug("wgpu: vertex buffer created",
		"slots", slotCount, "stride", layout.Stride, "dynamic", dynamic)
	return vb, nil
}

func (b *vertexBuffer) createHALBuffer() (hal.Buffer, error) {
	buf, err := b.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_vertices",
		Size:  uint64(b.slotCount * b.stride),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create vertex buffer: %w", err)
	}
	return buf, nil
}

// Update implements spritebatch.VertexBuffer. The write is committed when
// fn returns, even on panic, so a draw can never observe a half-open
// mapping.
func (b *vertexBuffer) Update(firstSlot, slotCount int, fn func(dst []byte)) (err error) {
	if b.released {
		return ErrDeviceClosed
	}
	if firstSlot < 0 || slotCount <= 0 || firstSlot+slotCount > b.slotCount {
		return fmt.Errorf("%w: slots [%d,%d) of %d", ErrBufferRange,
			firstSlot, firstSlot+slotCount, b.slotCount)
	}

	n := slotCount * b.stride
	if cap(b.staging) < n {
		b.staging = make([]byte, n)
	}
	staging := b.staging[:n]

	defer func() {
		cerr := b.commit(firstSlot*b.stride, staging)
		if err == nil {
			err = cerr
		}
	}()
	fn(staging)
	return nil
}

// commit uploads staged bytes. Dynamic buffers acquire a pooled HAL
// buffer first; each dynamic Update therefore supersedes the previous
// contents rather than patching them.
func (b *vertexBuffer) commit(offset int, data []byte) error {
	if b.dynamic {
		var buf hal.Buffer
		if n := len(b.free); n > 0 {
			buf = b.free[n-1]
			b.free = b.free[:n-1]
		} else {
			created, err := b.createHALBuffer()
			if err != nil {
				return err
			}
			buf = created
		}
		b.inUse = append(b.inUse, buf)
		b.current = buf
	}
	if err := b.dev.queue.WriteBuffer(b.current, uint64(offset), data); err != nil {
		return fmt.Errorf("wgpu: write vertex buffer: %w", err)
	}
	return nil
}

// boundBuffer returns the HAL buffer a draw should bind, or nil when no
// data was ever committed.
func (b *vertexBuffer) boundBuffer() hal.Buffer {
	return b.current
}

// recycle returns the frame's in-use pool buffers to the free list.
func (b *vertexBuffer) recycle() {
	b.free = append(b.free, b.inUse...)
	b.inUse = b.inUse[:0]
}

// SlotCount implements spritebatch.VertexBuffer.
func (b *vertexBuffer) SlotCount() int { return b.slotCount }

// Release implements spritebatch.VertexBuffer.
func (b *vertexBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	for _, buf := range b.inUse {
		b.dev.device.DestroyBuffer(buf)
	}
	for _, buf := range b.free {
		b.dev.device.DestroyBuffer(buf)
	}
	if !b.dynamic && b.current != nil {
		b.dev.device.DestroyBuffer(b.current)
	}
	b.current = nil
	b.inUse, b.free = nil, nil
}

// indexBuffer implements spritebatch.IndexBuffer over a single HAL
// buffer of 16-bit indices. Sprite batches fill it once and never touch
// it again, so there is no pooling.
type indexBuffer struct {
	dev      *Device
	buf      hal.Buffer
	count    int
	released bool
}

var _ spritebatch.IndexBuffer = (*indexBuffer)(nil)

// CreateIndexBuffer implements spritebatch.Device.
func (d *Device) CreateIndexBuffer(indexCount int, dynamic bool) (spritebatch.IndexBuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if indexCount <= 0 {
		return nil, fmt.Errorf("wgpu: invalid index buffer size %d", indexCount)
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_indices",
		Size:  uint64(indexCount * 2),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create index buffer: %w", err)
	}
	spritebatch.Logger().Debug("wgpu: index buffer created",
		"indices", indexCount, "dynamic", dynamic)
	return &indexBuffer{dev: d, buf: buf, count: indexCount}, nil
}

// Update implements spritebatch.IndexBuffer.
func (b *indexBuffer) Update(firstIndex, indexCount int, fn func(dst []byte)) (err error) {
	if b.released {
		return ErrDeviceClosed
	}
	if firstIndex < 0 || indexCount <= 0 || firstIndex+indexCount > b.count {
		return fmt.Errorf("%w: indices [%d,%d) of %d", ErrBufferRange,
			firstIndex, firstIndex+indexCount, b.count)
	}

	staging := make([]byte, indexCount*2)
	defer func() {
		werr := b.dev.queue.WriteBuffer(b.buf, uint64(firstIndex*2), staging)
		if err == nil && werr != nil {
			err = fmt.Errorf("wgpu: write index buffer: %w", werr)
		}
	}()
	fn(staging)
	return nil
}

// IndexCount implements spritebatch.IndexBuffer.
func (b *indexBuffer) IndexCount() int { return b.count }

// Release implements spritebatch.IndexBuffer.
func (b *indexBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.dev.device.DestroyBuffer(b.buf)
	b.buf = nil
}
