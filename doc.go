// Package spritebatch batches 2D textured quads into indexed GPU draw calls.
//
// # Overview
//
// spritebatch is a frame-oriented sprite renderer for the GoGPU ecosystem.
// Each frame the caller buffers any number of draw requests between Begin and
// End; End walks the buffered sprites in submission order, groups consecutive
// requests that share a texture into portions, and issues one indexed
// triangle-list draw call per portion. Nothing is reordered: grouping is
// purely adjacency-based, so submission order is also paint order.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/spritebatch"
//	    "github.com/gogpu/spritebatch/backend/wgpu"
//	)
//
//	dev, _ := wgpu.NewDevice(halDevice, halQueue)
//	shader, _ := wgpu.NewSpriteShader(dev)
//	batch, _ := spritebatch.New(dev, shader, nil)
//
//	// Per frame:
//	dev.BeginFrame(view, width, height)
//	batch.Begin()
//	batch.Draw(tex, spritebatch.Pt(10, 10))
//	batch.DrawWith(tex, spritebatch.Pt(64, 64), spritebatch.DrawOptions{
//	    Color:    spritebatch.RGB(1, 0, 0),
//	    Rotation: 0.5,
//	    Scale:    2,
//	})
//	err := batch.End()
//	dev.EndFrame()
//
// # Architecture
//
// The core package is GPU-agnostic. All GPU work goes through the Device
// interface, injected at construction:
//   - Core: Batch (frame accumulator), geometry codec, portioner
//   - Contract: Device, Texture, VertexBuffer, IndexBuffer, ShaderProgram
//   - Backends: backend/wgpu (gogpu/wgpu HAL)
//
// # Coordinate System
//
// Sprites are positioned in pixel coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Rotation in radians about the sprite origin; positive angles turn
//     from +X toward +Y, which reads clockwise on screen
//
// The projection to clip space is recomputed from the device viewport on
// every End, so window resizes take effect on the next flush.
//
// # Concurrency
//
// A Batch is single-goroutine: Begin, Draw, DrawWith and End must not be
// called concurrently or reentrantly. Distinct Batch values are independent.
package spritebatch

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
