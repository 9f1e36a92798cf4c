// Package triangle renders indexed 2D triangle meshes with per-vertex color.
package triangle

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/uigl/core"
	"github.com/gogpu/uigl/gpucore"
	"github.com/gogpu/uigl/internal/shader"
)

// Buffer capacities, in entries.
const (
	VertexBufferSize = 10_000
	IndexBufferSize  = 10_000
)

// VertexSize is the byte size of one packed Vertex2D: i_Position (vec2) at
// offset 0 and i_Color (vec4) at offset 8.
const VertexSize = 24

const uniformTransform = "u_Transform"

// ErrBufferOverflow is returned when the meshes of one draw do not fit into
// the vertex or index buffer. Nothing is uploaded in that case.
var ErrBufferOverflow = errors.New("triangle: buffer overflow")

// Vertex2D is a colored vertex in the local space of its mesh.
type Vertex2D struct {
	Position [2]float32
	Color    [4]float32
}

// Mesh is a triangle list placed at Origin and clipped to ClipBounds, both
// in logical coordinates.
type Mesh struct {
	Vertices   []Vertex2D
	Indices    []uint32
	Origin     core.Point
	ClipBounds core.Rectangle
}

// Layout returns the program layout of the triangle pipeline.
func Layout() gpucore.ProgramLayout {
	return gpucore.ProgramLayout{
		Label: "triangle",
		Buffers: []gputypes.VertexBufferLayout{{
			ArrayStride: VertexSize,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // i_Position
				{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1}, // i_Color
			},
		}},
		Uniforms: []gpucore.UniformDescriptor{
			{Name: uniformTransform, Kind: gpucore.UniformMat4},
		},
	}
}

// Pipeline draws meshes through one shared vertex and index buffer.
type Pipeline struct {
	program  *shader.Program
	vertices gpucore.BufferID
	indices  gpucore.BufferID

	currentTransform core.Transformation

	vertexScratch []byte
	indexScratch  []uint32
	byteScratch   []byte
}

// New creates the triangle pipeline with its transform set to identity.
func New(ctx gpucore.Context) (*Pipeline, error) {
	program, err := shader.Load(ctx, shader.Triangle, Layout())
	if err != nil {
		return nil, err
	}

	vertices, err := ctx.CreateBuffer(gpucore.BufferDescriptor{
		Label: "triangle_vertices",
		Kind:  gpucore.BufferVertex,
		Size:  VertexBufferSize * VertexSize,
	})
	if err != nil {
		return nil, fmt.Errorf("triangle: create vertex buffer: %w", err)
	}
	indices, err := ctx.CreateBuffer(gpucore.BufferDescriptor{
		Label: "triangle_indices",
		Kind:  gpucore.BufferIndex,
		Size:  IndexBufferSize * 4,
	})
	if err != nil {
		return nil, fmt.Errorf("triangle: create index buffer: %w", err)
	}

	p := &Pipeline{
		program:          program,
		vertices:         vertices,
		indices:          indices,
		currentTransform: core.Identity(),
	}
	ctx.UseProgram(program.ID)
	ctx.SetUniform(program.Location(uniformTransform), gpucore.Mat4(p.currentTransform.Array()))
	return p, nil
}

// Draw renders meshes in order.
//
// Every mesh is uploaded first, at ascending offsets, with its indices
// rebased onto its own vertex range. Each mesh is then drawn under
// transform × translate(origin) with its clip bounds, scaled by scaleFactor
// and snapped to pixels, as the scissor rectangle.
func (p *Pipeline) Draw(
	ctx gpucore.Context,
	targetHeight uint32,
	transform core.Transformation,
	scaleFactor float32,
	meshes []Mesh,
) error {
	var totalVertices, totalIndices int
	for _, m := range meshes {
		totalVertices += len(m.Vertices)
		totalIndices += len(m.Indices)
	}
	if totalVertices > VertexBufferSize || totalIndices > IndexBufferSize {
		return fmt.Errorf("%w: %d vertices, %d indices (capacity %d, %d)",
			ErrBufferOverflow, totalVertices, totalIndices, VertexBufferSize, IndexBufferSize)
	}

	lastVertex, lastIndex := 0, 0
	for _, m := range meshes {
		p.vertexScratch = p.vertexScratch[:0]
		for _, v := range m.Vertices {
			p.vertexScratch = gpucore.AppendFloats(p.vertexScratch, v.Position[:]...)
			p.vertexScratch = gpucore.AppendFloats(p.vertexScratch, v.Color[:]...)
		}

		p.indexScratch = p.indexScratch[:0]
		for _, i := range m.Indices {
			p.indexScratch = append(p.indexScratch, i+uint32(lastVertex))
		}
		p.byteScratch = gpucore.AppendUint32s(p.byteScratch[:0], p.indexScratch...)

		if len(p.vertexScratch) > 0 {
			if err := ctx.WriteBuffer(p.vertices, uint64(lastVertex*VertexSize), p.vertexScratch); err != nil {
				return fmt.Errorf("triangle: upload vertices: %w", err)
			}
		}
		if len(p.byteScratch) > 0 {
			if err := ctx.WriteBuffer(p.indices, uint64(lastIndex*4), p.byteScratch); err != nil {
				return fmt.Errorf("triangle: upload indices: %w", err)
			}
		}

		lastVertex += len(m.Vertices)
		lastIndex += len(m.Indices)
	}

	ctx.UseProgram(p.program.ID)

	lastIndex = 0
	for _, m := range meshes {
		t := transform.Mul(core.Translate(m.Origin.X, m.Origin.Y))
		if t != p.currentTransform {
			ctx.SetUniform(p.program.Location(uniformTransform), gpucore.Mat4(t.Array()))
			p.currentTransform = t
		}

		clip := m.ClipBounds.Scale(scaleFactor).Snap()
		x, y, w, h := clip.FlipY(targetHeight)

		if len(m.Indices) > 0 {
			err := ctx.Draw(gpucore.Geometry{
				Topology:      gputypes.PrimitiveTopologyTriangleList,
				VertexBuffers: []gpucore.BufferID{p.vertices},
				IndexBuffer:   p.indices,
				Range:         gpucore.DrawRange{Start: uint32(lastIndex), Count: uint32(len(m.Indices))},
				InstanceCount: 1,
			}, gpucore.PipelineState{
				Scissor: &gpucore.Scissor{X: x, Y: y, Width: w, Height: h},
			})
			if err != nil {
				return fmt.Errorf("triangle: draw mesh: %w", err)
			}
		}

		lastIndex += len(m.Indices)
	}

	return nil
}
