// Package wgpu implements the spritebatch device contract on top of the
// gogpu/wgpu HAL.
//
// The backend drives a WebGPU render pipeline: the sprite shader is
// embedded as WGSL, compiled to SPIR-V via gogpu/naga at device setup,
// and instantiated once per blend mode on demand. State set through the
// spritebatch.Device methods is recorded and realized as pipeline, bind
// group and draw commands when DrawIndexed runs inside a frame.
//
// # Frame lifecycle
//
//	dev.BeginFrame(view, width, height) // opens a render pass on view
//	batch.Begin() ... batch.End()       // records draws
//	err := dev.EndFrame()               // submits and waits for the GPU
//
// Dynamic vertex buffers rotate through a per-frame pool of HAL buffers,
// so data written for one draw stays untouched while later draws reuse
// the same logical buffer. Pooled buffers are recycled after EndFrame's
// submit completes.
//
// All methods must be called from a single goroutine, matching the
// spritebatch concurrency model.
package wgpu
