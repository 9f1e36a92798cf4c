// Package quad renders axis-aligned rectangles with rounded borders using
// instanced drawing.
//
// A single unit quad (0,0),(0,1),(1,0),(1,1) is drawn as a triangle strip
// and re-instanced once per rectangle. Instances are uploaded into a
// fixed-capacity buffer of MaxInstances entries; larger batches are split
// into chunks that are uploaded and drawn one after the other.
package quad

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/uigl/core"
	"github.com/gogpu/uigl/gpucore"
	"github.com/gogpu/uigl/internal/shader"
)

// MaxInstances is the capacity of the instance buffer.
const MaxInstances = 100_000

// InstanceSize is the byte size of one packed Instance (14 float32).
//
// Layout per instance:
//
//	i_Pos          (vec2)  offset  0  (location 1)
//	i_Scale        (vec2)  offset  8  (location 2)
//	i_Color        (vec4)  offset 16  (location 3)
//	i_BorderColor  (vec4)  offset 32  (location 4)
//	i_BorderRadius (float) offset 48  (location 5)
//	i_BorderWidth  (float) offset 52  (location 6)
const InstanceSize = 56

// unitQuadStride is the byte stride of one unit quad vertex (vec2).
const unitQuadStride = 8

// Uniform names.
const (
	uniformTransform    = "u_Transform"
	uniformScale        = "u_Scale"
	uniformScreenHeight = "u_ScreenHeight"
)

// unitQuad is the triangle strip drawn for every instance.
var unitQuad = [...]float32{
	0, 0,
	0, 1,
	1, 0,
	1, 1,
}

// Instance is one rectangle in logical coordinates with linear colors.
type Instance struct {
	Position     [2]float32
	Size         [2]float32
	Color        [4]float32
	BorderColor  [4]float32
	BorderRadius float32
	BorderWidth  float32
}

// AppendBytes appends the packed little-endian encoding of q to dst.
func (q Instance) AppendBytes(dst []byte) []byte {
	dst = gpucore.AppendFloats(dst, q.Position[:]...)
	dst = gpucore.AppendFloats(dst, q.Size[:]...)
	dst = gpucore.AppendFloats(dst, q.Color[:]...)
	dst = gpucore.AppendFloats(dst, q.BorderColor[:]...)
	return gpucore.AppendFloats(dst, q.BorderRadius, q.BorderWidth)
}

// Layout returns the program layout of the quad pipeline.
func Layout() gpucore.ProgramLayout {
	return gpucore.ProgramLayout{
		Label: "quad",
		Buffers: []gputypes.VertexBufferLayout{
			{
				ArrayStride: unitQuadStride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // q_Pos
				},
			},
			{
				ArrayStride: InstanceSize,
				StepMode:    gputypes.VertexStepModeInstance,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},  // i_Pos
					{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2},  // i_Scale
					{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3}, // i_Color
					{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4}, // i_BorderColor
					{Format: gputypes.VertexFormatFloat32, Offset: 48, ShaderLocation: 5},   // i_BorderRadius
					{Format: gputypes.VertexFormatFloat32, Offset: 52, ShaderLocation: 6},   // i_BorderWidth
				},
			},
		},
		Uniforms: []gpucore.UniformDescriptor{
			{Name: uniformTransform, Kind: gpucore.UniformMat4},
			{Name: uniformScale, Kind: gpucore.UniformFloat},
			{Name: uniformScreenHeight, Kind: gpucore.UniformFloat},
		},
	}
}

// Pipeline draws quad instances. It owns its program, the unit quad
// buffer, the instance buffer and a cache of the last uniform values.
type Pipeline struct {
	program   *shader.Program
	vertices  gpucore.BufferID
	instances gpucore.BufferID

	currentTransform    core.Transformation
	currentScale        float32
	currentTargetHeight float32

	scratch []byte
}

// New creates the quad pipeline. Its uniforms start at identity, a scale
// of 1 and a screen height of 0.
func New(ctx gpucore.Context) (*Pipeline, error) {
	program, err := shader.Load(ctx, shader.Quad, Layout())
	if err != nil {
		return nil, err
	}

	vertices, err := ctx.CreateBuffer(gpucore.BufferDescriptor{
		Label: "quad_vertices",
		Kind:  gpucore.BufferVertex,
		Size:  uint64(len(unitQuad) * 4),
	})
	if err != nil {
		return nil, fmt.Errorf("quad: create vertex buffer: %w", err)
	}
	if err := ctx.WriteBuffer(vertices, 0, gpucore.AppendFloats(nil, unitQuad[:]...)); err != nil {
		return nil, fmt.Errorf("quad: upload unit quad: %w", err)
	}

	instances, err := ctx.CreateBuffer(gpucore.BufferDescriptor{
		Label: "quad_instances",
		Kind:  gpucore.BufferVertex,
		Size:  MaxInstances * InstanceSize,
	})
	if err != nil {
		return nil, fmt.Errorf("quad: create instance buffer: %w", err)
	}

	p := &Pipeline{
		program:          program,
		vertices:         vertices,
		instances:        instances,
		currentTransform: core.Identity(),
		currentScale:     1,
	}

	ctx.UseProgram(program.ID)
	ctx.SetUniform(program.Location(uniformTransform), gpucore.Mat4(p.currentTransform.Array()))
	ctx.SetUniform(program.Location(uniformScale), gpucore.Float(p.currentScale))
	ctx.SetUniform(program.Location(uniformScreenHeight), gpucore.Float(p.currentTargetHeight))

	return p, nil
}

// Draw renders instances with the scissor rectangle set to bounds, given
// in physical pixels with a top-left origin.
//
// Uniforms are written only when transform, scale or targetHeight differ
// from the values of the previous call. Batches larger than MaxInstances
// are uploaded at offset 0 and drawn chunk by chunk, in order.
func (p *Pipeline) Draw(
	ctx gpucore.Context,
	targetHeight uint32,
	instances []Instance,
	transform core.Transformation,
	scale float32,
	bounds core.URect,
) error {
	ctx.UseProgram(p.program.ID)

	if transform != p.currentTransform {
		ctx.SetUniform(p.program.Location(uniformTransform), gpucore.Mat4(transform.Array()))
		p.currentTransform = transform
	}
	if scale != p.currentScale {
		ctx.SetUniform(p.program.Location(uniformScale), gpucore.Float(scale))
		p.currentScale = scale
	}
	if h := float32(targetHeight); h != p.currentTargetHeight {
		ctx.SetUniform(p.program.Location(uniformScreenHeight), gpucore.Float(h))
		p.currentTargetHeight = h
	}

	x, y, w, h := bounds.FlipY(targetHeight)
	state := gpucore.PipelineState{
		Scissor: &gpucore.Scissor{X: x, Y: y, Width: w, Height: h},
	}

	for i := 0; i < len(instances); i += MaxInstances {
		end := min(i+MaxInstances, len(instances))
		amount := end - i

		p.scratch = p.scratch[:0]
		for _, q := range instances[i:end] {
			p.scratch = q.AppendBytes(p.scratch)
		}
		if err := ctx.WriteBuffer(p.instances, 0, p.scratch); err != nil {
			return fmt.Errorf("quad: upload instances: %w", err)
		}

		err := ctx.Draw(gpucore.Geometry{
			Topology:      gputypes.PrimitiveTopologyTriangleStrip,
			VertexBuffers: []gpucore.BufferID{p.vertices, p.instances},
			Range:         gpucore.DrawRange{Start: 0, Count: uint32(len(unitQuad) / 2)},
			InstanceCount: uint32(amount),
		}, state)
		if err != nil {
			return fmt.Errorf("quad: draw %d instances: %w", amount, err)
		}
	}

	return nil
}
