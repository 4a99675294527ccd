package spritebatch

// Recording GPU fakes used across the package tests. Buffers hold their
// bytes in ordinary slices; the device records every state change and
// draw call in order so tests can assert on the exact GPU traffic.

type fakeTexture struct {
	w, h int
}

func (t *fakeTexture) Width() int  { return t.w }
func (t *fakeTexture) Height() int { return t.h }

type fakeShader struct{ label string }

func (s *fakeShader) Label() string { return s.label }

type fakeVertexBuffer struct {
	data     []byte
	stride   int
	slots    int
	updates  int
	released bool

	// failNext makes the next Update return this error once.
	failNext error
}

func (b *fakeVertexBuffer) Update(firstSlot, slotCount int, fn func(dst []byte)) error {
	if b.failNext != nil {
		err := b.failNext
		b.failNext = nil
		return err
	}
	b.updates++
	dst := b.data[firstSlot*b.stride : (firstSlot+slotCount)*b.stride]
	fn(dst)
	return nil
}

func (b *fakeVertexBuffer) SlotCount() int { return b.slots }
func (b *fakeVertexBuffer) Release()       { b.released = true }

type fakeIndexBuffer struct {
	data     []byte
	count    int
	updates  int
	released bool
}

func (b *fakeIndexBuffer) Update(firstIndex, indexCount int, fn func(dst []byte)) error {
	b.updates++
	fn(b.data[firstIndex*2 : (firstIndex+indexCount)*2])
	return nil
}

func (b *fakeIndexBuffer) IndexCount() int { return b.count }
func (b *fakeIndexBuffer) Release()        { b.released = true }

// drawCall records one DrawIndexed together with the texture bound at the
// time and a snapshot of the vertex bytes the call could read. The
// snapshot matters because the batch reuses the buffer for every portion.
type drawCall struct {
	indexCount, indexStart   int
	vertexCount, vertexStart int
	texture                  Texture
	vertexData               []byte
}

type fakeDevice struct {
	width, height int

	vb *fakeVertexBuffer
	ib *fakeIndexBuffer

	blend       BlendMode
	blendSets   int
	boundVB     VertexBuffer
	boundIB     IndexBuffer
	boundShader ShaderProgram
	colors      map[string]Color
	matrices    map[string]Mat4
	boundTex    Texture

	stateCalls int
	draws      []drawCall
}

func newFakeDevice(width, height int) *fakeDevice {
	return &fakeDevice{
		width:    width,
		height:   height,
		colors:   make(map[string]Color),
		matrices: make(map[string]Mat4),
	}
}

func (d *fakeDevice) CreateVertexBuffer(slotCount int, layout VertexLayout, dynamic bool) (VertexBuffer, error) {
	d.vb = &fakeVertexBuffer{
		data:   make([]byte, slotCount*layout.Stride),
		stride: layout.Stride,
		slots:  slotCount,
	}
	return d.vb, nil
}

func (d *fakeDevice) CreateIndexBuffer(indexCount int, dynamic bool) (IndexBuffer, error) {
	d.ib = &fakeIndexBuffer{
		data:  make([]byte, indexCount*2),
		count: indexCount,
	}
	return d.ib, nil
}

func (d *fakeDevice) SetBlendMode(mode BlendMode) {
	d.blend = mode
	d.blendSets++
	d.stateCalls++
}

func (d *fakeDevice) SetVertexBuffer(buf VertexBuffer) {
	d.boundVB = buf
	d.stateCalls++
}

func (d *fakeDevice) SetIndexBuffer(buf IndexBuffer) {
	d.boundIB = buf
	d.stateCalls++
}

func (d *fakeDevice) SetShaderProgram(prog ShaderProgram) {
	d.boundShader = prog
	d.stateCalls++
}

func (d *fakeDevice) SetShaderColor(name string, c Color) {
	d.colors[name] = c
	d.stateCalls++
}

func (d *fakeDevice) SetShaderMatrix(name string, m Mat4) {
	d.matrices[name] = m
	d.stateCalls++
}

func (d *fakeDevice) SetTexture(unit TextureUnit, tex Texture) {
	d.boundTex = tex
	d.stateCalls++
}

func (d *fakeDevice) ViewportSize() (int, int) {
	return d.width, d.height
}

func (d *fakeDevice) DrawIndexed(indexCount, indexStart, vertexCount, vertexStart int) {
	snapshot := make([]byte, vertexCount*VertexStride)
	copy(snapshot, d.vb.data[vertexStart*VertexStride:])
	d.draws = append(d.draws, drawCall{
		indexCount:  indexCount,
		indexStart:  indexStart,
		vertexCount: vertexCount,
		vertexStart: vertexStart,
		texture:     d.boundTex,
		vertexData:  snapshot,
	})
}

// portionVertices decodes the vertices of one recorded draw call.
func (c drawCall) portionVertices() []Vertex {
	vs := make([]Vertex, c.vertexCount)
	for i := range vs {
		vs[i] = decodeVertex(c.vertexData[i*VertexStride:])
	}
	return vs
}
