package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/uigl/gpucore"
	"github.com/gogpu/wgpu/hal"
)

// Bindings of the single bind group every program uses.
const (
	bindingUniforms = 0
	bindingTexture  = 1
	bindingSampler  = 2
)

// program is a compiled WGSL module with its uniform block.
type program struct {
	id     gpucore.ProgramID
	layout gpucore.ProgramLayout

	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout

	// pipelines holds one render pipeline per topology, created on first
	// use.
	pipelines map[gputypes.PrimitiveTopology]hal.RenderPipeline

	offsets    map[string]uint32
	uniforms   []byte
	dirty      bool
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
}

// uniformBlock computes std140 offsets for uniforms in declaration order
// and the total block size, rounded to 16 bytes.
func uniformBlock(uniforms []gpucore.UniformDescriptor) (map[string]uint32, uint32) {
	offsets := make(map[string]uint32, len(uniforms))
	var end uint32
	for _, u := range uniforms {
		offset := alignUp(end, u.Kind.Align())
		offsets[u.Name] = offset
		end = offset + u.Kind.Size()
	}
	return offsets, max(alignUp(end, 16), 16)
}

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) / align * align
}

// compileWGSL compiles WGSL source to SPIR-V words.
func compileWGSL(source string) ([]uint32, error) {
	spirv, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V size %d is not a multiple of 4", len(spirv))
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return words, nil
}

// CreateProgram implements gpucore.Context. The vertex source is a WGSL
// module with vs_main and fs_main entry points; fragment is ignored when it
// equals vertex and appended otherwise.
func (c *Context) CreateProgram(vertex, fragment string, layout gpucore.ProgramLayout) (gpucore.ProgramID, error) {
	source := vertex
	if fragment != vertex {
		source += "\n" + fragment
	}

	words, err := compileWGSL(source)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: compile %s: %w", layout.Label, err)
	}

	p := &program{
		id:        gpucore.ProgramID(len(c.programs) + 1),
		layout:    layout,
		pipelines: make(map[gputypes.PrimitiveTopology]hal.RenderPipeline),
	}
	var size uint32
	p.offsets, size = uniformBlock(layout.Uniforms)
	p.uniforms = make([]byte, size)
	p.dirty = true

	if err := c.createProgramObjects(p, words); err != nil {
		c.destroyProgram(p)
		return gpucore.InvalidID, fmt.Errorf("wgpu: program %s: %w", layout.Label, err)
	}

	c.programs = append(c.programs, p)
	slogger().Debug("wgpu: program created", "label", layout.Label, "uniform_bytes", size)
	return p.id, nil
}

func (c *Context) createProgramObjects(p *program, words []uint32) error {
	label := p.layout.Label

	module, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	p.module = module

	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    bindingUniforms,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
	}
	if p.layout.Textured {
		entries = append(entries,
			gputypes.BindGroupLayoutEntry{
				Binding:    bindingTexture,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			gputypes.BindGroupLayoutEntry{
				Binding:    bindingSampler,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		)
	}
	bindLayout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	uniformBuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_uniforms",
		Size:  uint64(len(p.uniforms)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	p.uniformBuf = uniformBuf

	// Textured programs get their bind group per texture.
	if p.layout.Textured {
		return nil
	}
	bindGroup, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   label + "_bind",
		Layout:  bindLayout,
		Entries: []gputypes.BindGroupEntry{c.uniformEntry(p)},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	p.bindGroup = bindGroup
	return nil
}

func (c *Context) uniformEntry(p *program) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding: bindingUniforms,
		Resource: gputypes.BufferBinding{
			Buffer: p.uniformBuf.NativeHandle(),
			Size:   uint64(len(p.uniforms)),
		},
	}
}

// pipeline returns the render pipeline of p for topology, creating it on
// first use.
func (c *Context) pipeline(p *program, topology gputypes.PrimitiveTopology) (hal.RenderPipeline, error) {
	if rp, ok := p.pipelines[topology]; ok {
		return rp, nil
	}

	blend := gputypes.BlendStateAlpha()
	rp, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("%s_%s", p.layout.Label, topology),
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: "vs_main",
			Buffers:    p.layout.Buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    c.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s pipeline: %w", p.layout.Label, err)
	}
	p.pipelines[topology] = rp
	slogger().Debug("wgpu: pipeline created", "program", p.layout.Label, "topology", topology.String())
	return rp, nil
}

// UniformLocation implements gpucore.Context. Locations are byte offsets
// into the uniform block.
func (c *Context) UniformLocation(id gpucore.ProgramID, name string) (gpucore.UniformLocation, bool) {
	p, ok := c.program(id)
	if !ok {
		return 0, false
	}
	offset, ok := p.offsets[name]
	if !ok {
		return 0, false
	}
	return gpucore.UniformLocation(offset), true
}

// UseProgram implements gpucore.Context.
func (c *Context) UseProgram(id gpucore.ProgramID) {
	p, ok := c.program(id)
	if !ok {
		c.current = nil
		return
	}
	c.current = p
}

// SetUniform implements gpucore.Context. The value reaches the GPU before
// the next draw of the bound program.
func (c *Context) SetUniform(location gpucore.UniformLocation, value gpucore.UniformValue) {
	p := c.current
	if p == nil {
		slogger().Warn("wgpu: SetUniform without a bound program", "location", location)
		return
	}
	offset := int(location)
	size := int(value.Kind.Size())
	if offset < 0 || offset+size > len(p.uniforms) {
		slogger().Warn("wgpu: uniform out of block", "program", p.layout.Label, "location", location)
		return
	}

	switch value.Kind {
	case gpucore.UniformFloat:
		binary.LittleEndian.PutUint32(p.uniforms[offset:], math.Float32bits(value.F))
	case gpucore.UniformMat4:
		for i, f := range value.M {
			binary.LittleEndian.PutUint32(p.uniforms[offset+i*4:], math.Float32bits(f))
		}
	default:
		return
	}
	p.dirty = true
}

// flushUniforms uploads the uniform block of p if it changed.
func (c *Context) flushUniforms(p *program) error {
	if !p.dirty {
		return nil
	}
	if err := c.queue.WriteBuffer(p.uniformBuf, 0, p.uniforms); err != nil {
		return fmt.Errorf("wgpu: upload %s uniforms: %w", p.layout.Label, err)
	}
	p.dirty = false
	return nil
}

func (c *Context) program(id gpucore.ProgramID) (*program, bool) {
	if id == gpucore.InvalidID || int(id) > len(c.programs) {
		return nil, false
	}
	return c.programs[id-1], true
}

func (c *Context) destroyProgram(p *program) {
	for _, rp := range p.pipelines {
		c.device.DestroyRenderPipeline(rp)
	}
	p.pipelines = nil
	if p.bindGroup != nil {
		c.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.uniformBuf != nil {
		c.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.pipeLayout != nil {
		c.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		c.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.module != nil {
		c.device.DestroyShaderModule(p.module)
		p.module = nil
	}
}
