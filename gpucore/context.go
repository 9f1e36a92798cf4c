package gpucore

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// ErrGraphicsInitialization is returned, wrapped, when a program fails to
// compile or link, or when a required uniform cannot be resolved. It is a
// startup failure: callers should not retry.
var ErrGraphicsInitialization = errors.New("gpucore: graphics initialization failed")

// Context is an OpenGL-class GPU context.
//
// Every call happens on the goroutine that owns the context. Writes to
// buffers, textures and uniforms are ordered before any draw issued after
// them, and draws execute in call order.
type Context interface {
	// === Programs ===

	// ShaderLanguage reports which shading language CreateProgram accepts.
	ShaderLanguage() ShaderLanguage

	// CreateProgram compiles and links a vertex+fragment program. For WGSL
	// contexts both sources may be the same module.
	CreateProgram(vertex, fragment string, layout ProgramLayout) (ProgramID, error)

	// UniformLocation resolves a uniform by name. The boolean is false when
	// the program has no such uniform.
	UniformLocation(program ProgramID, name string) (UniformLocation, bool)

	// UseProgram binds the program used by subsequent SetUniform and Draw
	// calls.
	UseProgram(program ProgramID)

	// SetUniform writes a value to a uniform of the bound program.
	SetUniform(location UniformLocation, value UniformValue)

	// === Buffers ===

	// CreateBuffer allocates a buffer of fixed size.
	CreateBuffer(desc BufferDescriptor) (BufferID, error)

	// WriteBuffer copies data into a buffer at a byte offset.
	WriteBuffer(buffer BufferID, offset uint64, data []byte) error

	// === Textures ===

	// CreateTexture allocates a 2D texture.
	CreateTexture(desc TextureDescriptor) (TextureID, error)

	// WriteTexture uploads tightly packed texels into a region.
	WriteTexture(texture TextureID, region Region, data []byte) error

	// DestroyTexture releases a texture.
	DestroyTexture(texture TextureID)

	// === Frame ===

	// SetViewport maps normalized device coordinates to the framebuffer
	// rectangle (x, y, width, height).
	SetViewport(x, y int32, width, height uint32)

	// Clear fills the whole framebuffer with a color.
	Clear(color gputypes.Color) error

	// Draw issues one draw call with the bound program.
	Draw(geometry Geometry, state PipelineState) error
}
