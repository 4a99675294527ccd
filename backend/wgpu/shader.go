package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/spritebatch"
)

//go:embed shaders/sprite.wgsl
var spriteShaderWGSL string

// SpriteShader is the vertex/fragment program pair for sprite rendering.
// It owns the compiled shader module, the bind group layout (uniforms,
// diffuse texture, sampler), the sampler, and a cache of render pipelines
// keyed by blend mode and target format.
//
// SpriteShader implements spritebatch.ShaderProgram.
type SpriteShader struct {
	dev *Device

	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	sampler    hal.Sampler

	pipelines map[pipelineKey]hal.RenderPipeline
}

type pipelineKey struct {
	blend  spritebatch.BlendMode
	format gputypes.TextureFormat
}

var _ spritebatch.ShaderProgram = (*SpriteShader)(nil)

// NewSpriteShader compiles the embedded sprite shader and creates its
// layouts and sampler. Pipelines are built lazily per blend mode.
func NewSpriteShader(d *Device) (*SpriteShader, error) {
	if d == nil || d.closed {
		return nil, ErrDeviceClosed
	}

	spirv, err := compileWGSL(spriteShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile sprite shader: %w", err)
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sprite_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sprite shader module: %w", err)
	}

	s := &SpriteShader{
		dev:       d,
		module:    module,
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
	}
	if err := s.createLayouts(); err != nil {
		s.Destroy()
		return nil, err
	}
	spritebatch.Logger().Debug("wgpu: sprite shader ready", "spirvWords", len(spirv))
	return s, nil
}

// Label implements spritebatch.ShaderProgram.
func (s *SpriteShader) Label() string { return "sprite" }

// createLayouts builds the bind group layout, pipeline layout and sampler
// shared by all pipeline variants.
//
// Bind group 0:
//
//	Binding 0: uniform block (vertex + fragment)
//	Binding 1: diffuse texture (fragment)
//	Binding 2: diffuse sampler (fragment)
func (s *SpriteShader) createLayouts() error {
	bindLayout, err := s.dev.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sprite bind layout: %w", err)
	}
	s.bindLayout = bindLayout

	pipeLayout, err := s.dev.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sprite_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{s.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sprite pipeline layout: %w", err)
	}
	s.pipeLayout = pipeLayout

	// Linear filtering handles rotated and scaled sprites; unscaled draws
	// still sample texel centers exactly.
	sampler, err := s.dev.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "sprite_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sprite sampler: %w", err)
	}
	s.sampler = sampler
	return nil
}

// pipeline returns the cached render pipeline for the given blend mode
// and target format, building it on first use.
func (s *SpriteShader) pipeline(blend spritebatch.BlendMode, format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	key := pipelineKey{blend: blend, format: format}
	if p, ok := s.pipelines[key]; ok {
		return p, nil
	}

	pipeline, err := s.dev.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sprite_pipeline",
		Layout: s.pipeLayout,
		Vertex: hal.VertexState{
			Module:     s.module,
			EntryPoint: "vs_main",
			Buffers:    spriteVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     s.module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     blendState(blend),
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sprite pipeline (blend=%d): %w", blend, err)
	}
	s.pipelines[key] = pipeline
	return pipeline, nil
}

// Destroy releases all GPU resources owned by the shader.
func (s *SpriteShader) Destroy() {
	for _, p := range s.pipelines {
		s.dev.device.DestroyRenderPipeline(p)
	}
	s.pipelines = make(map[pipelineKey]hal.RenderPipeline)
	if s.sampler != nil {
		s.dev.device.DestroySampler(s.sampler)
		s.sampler = nil
	}
	if s.pipeLayout != nil {
		s.dev.device.DestroyPipelineLayout(s.pipeLayout)
		s.pipeLayout = nil
	}
	if s.bindLayout != nil {
		s.dev.device.DestroyBindGroupLayout(s.bindLayout)
		s.bindLayout = nil
	}
	if s.module != nil {
		s.dev.device.DestroyShaderModule(s.module)
		s.module = nil
	}
}

// spriteVertexLayout translates spritebatch.SpriteVertexLayout into the
// HAL vertex state.
func spriteVertexLayout() []gputypes.VertexBufferLayout {
	src := spritebatch.SpriteVertexLayout()
	attrs := make([]gputypes.VertexAttribute, len(src.Attributes))
	for i, a := range src.Attributes {
		attrs[i] = gputypes.VertexAttribute{
			Format:         vertexFormat(a.Format),
			Offset:         uint64(a.Offset),
			ShaderLocation: uint32(a.Location),
		}
	}
	return []gputypes.VertexBufferLayout{{
		ArrayStride: uint64(src.Stride),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}}
}

// vertexFormat maps contract formats to HAL formats.
func vertexFormat(f spritebatch.VertexFormat) gputypes.VertexFormat {
	switch f {
	case spritebatch.VertexFormatFloat32x2:
		return gputypes.VertexFormatFloat32x2
	case spritebatch.VertexFormatFloat32x3:
		return gputypes.VertexFormatFloat32x3
	case spritebatch.VertexFormatUnorm8x4:
		return gputypes.VertexFormatUnorm8x4
	default:
		return gputypes.VertexFormatFloat32
	}
}

// blendState maps a contract blend mode onto a HAL blend state. Replace
// returns nil (blending disabled).
func blendState(mode spritebatch.BlendMode) *gputypes.BlendState {
	switch mode {
	case spritebatch.BlendAlpha:
		return &gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	case spritebatch.BlendAdditive:
		return &gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	case spritebatch.BlendPremultiplied:
		premul := gputypes.BlendStatePremultiplied()
		return &premul
	default:
		return nil
	}
}

// compileWGSL compiles WGSL source to SPIR-V words via naga.
func compileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}
	return spirvWords(spirvBytes), nil
}

// spirvWords reassembles SPIR-V bytes into little-endian 32-bit words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
