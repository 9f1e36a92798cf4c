package text

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/uigl/core"
	"github.com/gogpu/uigl/gpucore"
	"github.com/gogpu/uigl/internal/shader"
)

// MaxGlyphInstances is the capacity of the glyph instance buffer. Larger
// batches are drawn in chunks.
const MaxGlyphInstances = 16_384

const uniformTransform = "u_Transform"

var unitQuad = [...]float32{
	0, 0,
	0, 1,
	1, 0,
	1, 1,
}

func glyphLayout() gpucore.ProgramLayout {
	return gpucore.ProgramLayout{
		Label: "glyph",
		Buffers: []gputypes.VertexBufferLayout{
			{
				ArrayStride: 8,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // q_Pos
				},
			},
			{
				ArrayStride: glyphInstanceSize,
				StepMode:    gputypes.VertexStepModeInstance,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},  // i_LeftTop
					{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2},  // i_RightBottom
					{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 3}, // i_TexLeftTop
					{Format: gputypes.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 4}, // i_TexRightBottom
					{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 5}, // i_Color
				},
			},
		},
		Uniforms: []gpucore.UniformDescriptor{
			{Name: uniformTransform, Kind: gpucore.UniformMat4},
		},
		Textured: true,
	}
}

// drawBrush is a rasterizing brush bound to GPU resources.
type drawBrush struct {
	*brush

	program   *shader.Program
	vertices  gpucore.BufferID
	instances gpucore.BufferID
	texture   gpucore.TextureID

	currentTransform core.Transformation
	scratch          []byte
}

func newDrawBrush(ctx gpucore.Context, b *brush) (*drawBrush, error) {
	program, err := shader.Load(ctx, shader.Glyph, glyphLayout())
	if err != nil {
		return nil, err
	}

	vertices, err := ctx.CreateBuffer(gpucore.BufferDescriptor{
		Label: "glyph_vertices",
		Kind:  gpucore.BufferVertex,
		Size:  uint64(len(unitQuad) * 4),
	})
	if err != nil {
		return nil, fmt.Errorf("text: create vertex buffer: %w", err)
	}
	if err := ctx.WriteBuffer(vertices, 0, gpucore.AppendFloats(nil, unitQuad[:]...)); err != nil {
		return nil, fmt.Errorf("text: upload unit quad: %w", err)
	}

	instances, err := ctx.CreateBuffer(gpucore.BufferDescriptor{
		Label: "glyph_instances",
		Kind:  gpucore.BufferVertex,
		Size:  MaxGlyphInstances * glyphInstanceSize,
	})
	if err != nil {
		return nil, fmt.Errorf("text: create instance buffer: %w", err)
	}

	d := &drawBrush{
		brush:            b,
		program:          program,
		vertices:         vertices,
		instances:        instances,
		currentTransform: core.Identity(),
	}
	w, h := b.atlas.size()
	if err := d.createTexture(ctx, w, h); err != nil {
		return nil, err
	}

	ctx.UseProgram(program.ID)
	ctx.SetUniform(program.Location(uniformTransform), gpucore.Mat4(d.currentTransform.Array()))
	return d, nil
}

func (d *drawBrush) createTexture(ctx gpucore.Context, width, height int) error {
	tex, err := ctx.CreateTexture(gpucore.TextureDescriptor{
		Label:  "glyph_atlas",
		Width:  uint32(width),
		Height: uint32(height),
		Format: gputypes.TextureFormatR8Unorm,
	})
	if err != nil {
		return fmt.Errorf("text: create atlas texture: %w", err)
	}
	d.texture = tex
	return nil
}

// drawQueued draws every queued section under transform, clipped to region.
// The atlas texture is recreated at a larger size whenever the glyphs of
// the queue do not fit. At MaxAtlasSize the atlas is emptied instead.
func (d *drawBrush) drawQueued(ctx gpucore.Context, transform core.Transformation, region gpucore.Scissor) error {
	upload := func(r atlasRegion, pix []byte) error {
		return ctx.WriteTexture(d.texture, gpucore.Region{
			X:      uint32(r.X),
			Y:      uint32(r.Y),
			Width:  uint32(r.Width),
			Height: uint32(r.Height),
		}, pix)
	}

	var instances []glyphInstance
	for {
		var err error
		instances, err = d.process(upload)
		var tooSmall *TextureTooSmallError
		if errors.As(err, &tooSmall) {
			w, h := tooSmall.Suggested[0], tooSmall.Suggested[1]
			if cw, ch := d.atlas.size(); cw == w && ch == h {
				slogger().Debug("text: evicting glyph atlas", "width", w, "height", h)
			} else {
				slogger().Debug("text: resizing glyph atlas", "width", w, "height", h)
				ctx.DestroyTexture(d.texture)
				if err := d.createTexture(ctx, w, h); err != nil {
					return err
				}
			}
			d.resize(w, h)
			continue
		}
		if err != nil {
			return fmt.Errorf("text: process queue: %w", err)
		}
		break
	}

	if len(instances) == 0 {
		return nil
	}

	ctx.UseProgram(d.program.ID)
	if transform != d.currentTransform {
		ctx.SetUniform(d.program.Location(uniformTransform), gpucore.Mat4(transform.Array()))
		d.currentTransform = transform
	}

	state := gpucore.PipelineState{Scissor: &region}
	for i := 0; i < len(instances); i += MaxGlyphInstances {
		end := min(i+MaxGlyphInstances, len(instances))

		d.scratch = d.scratch[:0]
		for j := range instances[i:end] {
			d.scratch = instances[i+j].appendBytes(d.scratch)
		}
		if err := ctx.WriteBuffer(d.instances, 0, d.scratch); err != nil {
			return fmt.Errorf("text: upload instances: %w", err)
		}

		err := ctx.Draw(gpucore.Geometry{
			Topology:      gputypes.PrimitiveTopologyTriangleStrip,
			VertexBuffers: []gpucore.BufferID{d.vertices, d.instances},
			Range:         gpucore.DrawRange{Start: 0, Count: uint32(len(unitQuad) / 2)},
			InstanceCount: uint32(end - i),
			Texture:       d.texture,
		}, state)
		if err != nil {
			return fmt.Errorf("text: draw %d glyphs: %w", end-i, err)
		}
	}
	return nil
}
