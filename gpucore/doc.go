// Package gpucore defines the GPU context contract consumed by the uigl
// pipelines.
//
// The [Context] interface is deliberately close to an OpenGL ES 3 context:
// programs are bound with UseProgram, uniforms are written by location to
// the bound program, buffers and textures are addressed by opaque IDs, and
// every draw carries its own geometry descriptor and pipeline state
// (scissor, depth, polygon). Pipelines never talk to a graphics API
// directly; they talk to a Context.
//
// Two implementations ship with the module:
//
//   - recording.Recorder captures every call as a typed command. It backs
//     the unit tests and the scenetrace tool.
//   - backend/wgpu.Context drives a gogpu/wgpu HAL device (Vulkan, Metal,
//     DX12, GLES or the noop backend).
//
// # Resource IDs
//
// All GPU objects are referred to by opaque IDs ([ProgramID], [BufferID],
// [TextureID]). The zero value is [InvalidID]. Each implementation keeps
// its own mapping from IDs to backend objects.
//
// # Vertex layouts
//
// Vertex inputs are described with gputypes.VertexBufferLayout, the same
// descriptor used by WebGPU. Per-instance streams use
// gputypes.VertexStepModeInstance.
package gpucore
