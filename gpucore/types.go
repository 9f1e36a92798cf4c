package gpucore

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Resource IDs
//
// These opaque IDs represent GPU resources. Each Context implementation
// maintains a mapping between IDs and actual backend resources.

// ProgramID is an opaque handle to a linked vertex+fragment program.
type ProgramID uint64

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// UniformLocation identifies a uniform within a program. Its meaning is
// implementation specific (a GL location, a byte offset into a uniform
// block, a table index).
type UniformLocation int32

// ShaderLanguage identifies the shading language a Context compiles.
type ShaderLanguage uint8

// Shading languages.
const (
	// ShaderLanguageGLSL is GLSL ES 3.00 with combined sources split by
	// VERTEX/FRAGMENT preprocessor blocks.
	ShaderLanguageGLSL ShaderLanguage = iota

	// ShaderLanguageWGSL is a single WGSL module with vs_main and fs_main
	// entry points.
	ShaderLanguageWGSL
)

// String returns the language name.
func (l ShaderLanguage) String() string {
	switch l {
	case ShaderLanguageGLSL:
		return "GLSL"
	case ShaderLanguageWGSL:
		return "WGSL"
	default:
		return fmt.Sprintf("ShaderLanguage(%d)", l)
	}
}

// UniformKind is the type of a uniform value.
type UniformKind uint8

// Uniform kinds.
const (
	UniformFloat UniformKind = iota + 1
	UniformMat4
)

// String returns the GLSL type name of the uniform kind.
func (k UniformKind) String() string {
	switch k {
	case UniformFloat:
		return "float"
	case UniformMat4:
		return "mat4"
	default:
		return "unknown"
	}
}

// Size returns the byte size of the uniform in a std140 block.
func (k UniformKind) Size() uint32 {
	switch k {
	case UniformFloat:
		return 4
	case UniformMat4:
		return 64
	default:
		return 0
	}
}

// Align returns the std140 alignment of the uniform.
func (k UniformKind) Align() uint32 {
	if k == UniformMat4 {
		return 16
	}
	return 4
}

// UniformValue is a value written to a uniform location.
type UniformValue struct {
	Kind UniformKind
	F    float32
	M    [16]float32
}

// Float creates a float uniform value.
func Float(f float32) UniformValue {
	return UniformValue{Kind: UniformFloat, F: f}
}

// Mat4 creates a column-major mat4 uniform value.
func Mat4(m [16]float32) UniformValue {
	return UniformValue{Kind: UniformMat4, M: m}
}

// Bytes returns the little-endian encoding of the value.
func (v UniformValue) Bytes() []byte {
	switch v.Kind {
	case UniformFloat:
		return AppendFloats(make([]byte, 0, 4), v.F)
	case UniformMat4:
		return AppendFloats(make([]byte, 0, 64), v.M[:]...)
	default:
		return nil
	}
}

// String returns a compact representation of the value.
func (v UniformValue) String() string {
	switch v.Kind {
	case UniformFloat:
		return fmt.Sprintf("float(%g)", v.F)
	case UniformMat4:
		return fmt.Sprintf("mat4%v", v.M)
	default:
		return "invalid"
	}
}

// UniformDescriptor declares a named uniform of a program. For WGSL
// programs the declaration order is the member order of the uniform block.
type UniformDescriptor struct {
	Name string
	Kind UniformKind
}

// ProgramLayout describes the inputs of a program.
type ProgramLayout struct {
	// Label is an optional debug label.
	Label string

	// Buffers describes the vertex buffer slots, in slot order.
	Buffers []gputypes.VertexBufferLayout

	// Uniforms lists every uniform the program reads, excluding samplers.
	Uniforms []UniformDescriptor

	// Textured is true when the program samples a single-channel texture
	// bound per draw through Geometry.Texture.
	Textured bool
}

// BufferKind is the role of a buffer.
type BufferKind uint8

// Buffer kinds.
const (
	BufferVertex BufferKind = iota
	BufferIndex
)

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	Label string
	Kind  BufferKind
	Size  uint64
}

// TextureDescriptor describes a 2D texture to create.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
}

// Region is a rectangle of texels.
type Region struct {
	X, Y          uint32
	Width, Height uint32
}

// DrawRange is a half-open range [Start, Start+Count) of vertices, or of
// indices for indexed geometry.
type DrawRange struct {
	Start uint32
	Count uint32
}

// Geometry describes what a draw call reads.
type Geometry struct {
	// Topology is TriangleList or TriangleStrip.
	Topology gputypes.PrimitiveTopology

	// VertexBuffers are bound to slots 0..n in order.
	VertexBuffers []BufferID

	// IndexBuffer holds uint32 indices. InvalidID means non-indexed.
	IndexBuffer BufferID

	// Range selects the vertices or indices to draw.
	Range DrawRange

	// InstanceCount is the number of instances. Zero draws once without
	// instancing.
	InstanceCount uint32

	// Texture is sampled by textured programs.
	Texture TextureID
}

// Indexed reports whether the geometry uses an index buffer.
func (g Geometry) Indexed() bool {
	return g.IndexBuffer != InvalidID
}

// Instances returns the effective instance count, treating zero as one.
func (g Geometry) Instances() uint32 {
	if g.InstanceCount == 0 {
		return 1
	}
	return g.InstanceCount
}

// Scissor is a scissor rectangle in framebuffer coordinates (origin at the
// bottom-left, as in glScissor).
type Scissor struct {
	X, Y          int32
	Width, Height uint32
}

// String returns a human-readable representation of the scissor rectangle.
func (s Scissor) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", s.X, s.Y, s.Width, s.Height)
}

// DepthState configures depth testing. The uigl pipelines draw in painter
// order and leave it disabled.
type DepthState struct {
	Compare gputypes.CompareFunction
	Write   bool
}

// PolygonState configures rasterization of polygons.
type PolygonState struct {
	CullMode gputypes.CullMode
}

// PipelineState is the fixed-function state applied to a single draw.
type PipelineState struct {
	// Depth is nil when depth testing is disabled.
	Depth *DepthState

	// Scissor is nil when the scissor test is disabled.
	Scissor *Scissor

	Polygon PolygonState
}
