package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/uigl/gpucore"
	"github.com/gogpu/wgpu/hal"
)

// viewport is a GL-style rectangle with a bottom-left origin.
type viewport struct {
	x, y          int32
	width, height uint32
}

// pending is a submitted command buffer waiting for the GPU.
type pending struct {
	cmd   hal.CommandBuffer
	index uint64
}

// Context implements gpucore.Context on a HAL device, drawing into a
// caller-owned texture view.
type Context struct {
	device hal.Device
	queue  hal.Queue

	target        hal.TextureView
	format        gputypes.TextureFormat
	width, height uint32
	viewport      viewport

	programs    []*program
	buffers     []*buffer
	textures    map[gpucore.TextureID]*texture
	nextTexture gpucore.TextureID
	current     *program
	sampler     hal.Sampler

	inFlight []pending
}

var _ gpucore.Context = (*Context)(nil)

// New creates a context drawing into target, a view of a width×height
// texture of the given format. target may be nil and set later with
// SetTarget.
func New(device hal.Device, queue hal.Queue, target hal.TextureView, format gputypes.TextureFormat, width, height uint32) (*Context, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}

	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "uigl_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sampler: %w", err)
	}

	c := &Context{
		device:   device,
		queue:    queue,
		format:   format,
		textures: make(map[gpucore.TextureID]*texture),
		sampler:  sampler,
	}
	c.SetTarget(target, width, height)
	slogger().Info("wgpu: context created", "format", format.String(), "width", width, "height", height)
	return c, nil
}

// NewFromProvider creates a context on the device of provider, which must
// also expose HalDevice() and HalQueue(). The target format is the
// provider's surface format, or BGRA8Unorm when it has no surface.
func NewFromProvider(provider gpucontext.DeviceProvider, target hal.TextureView, width, height uint32) (*Context, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}

	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	return New(device, queue, target, format, width, height)
}

// SetTarget changes the texture view drawn into, typically the surface
// texture of the next frame. The viewport is reset to the whole target.
// The format must stay the one the context was created with.
func (c *Context) SetTarget(target hal.TextureView, width, height uint32) {
	c.target = target
	c.width, c.height = width, height
	c.viewport = viewport{width: width, height: height}
}

// Format returns the format of the render target.
func (c *Context) Format() gputypes.TextureFormat {
	return c.format
}

// ShaderLanguage implements gpucore.Context.
func (c *Context) ShaderLanguage() gpucore.ShaderLanguage {
	return gpucore.ShaderLanguageWGSL
}

// SetViewport implements gpucore.Context.
func (c *Context) SetViewport(x, y int32, width, height uint32) {
	c.viewport = viewport{x: x, y: y, width: width, height: height}
}

// Clear implements gpucore.Context.
func (c *Context) Clear(color gputypes.Color) error {
	if c.target == nil {
		return ErrNoTarget
	}
	return c.submit("uigl_clear", gputypes.LoadOpClear, color, nil)
}

// Draw implements gpucore.Context. The draw is submitted immediately in a
// render pass of its own.
func (c *Context) Draw(geometry gpucore.Geometry, state gpucore.PipelineState) error {
	if c.target == nil {
		return ErrNoTarget
	}
	p := c.current
	if p == nil {
		return ErrNoProgram
	}

	scissor, visible := c.scissorRect(state.Scissor)
	if !visible || geometry.Range.Count == 0 {
		return nil
	}

	if err := c.flushUniforms(p); err != nil {
		return err
	}
	rp, err := c.pipeline(p, geometry.Topology)
	if err != nil {
		return err
	}
	bindGroup := p.bindGroup
	if p.layout.Textured {
		t, ok := c.textures[geometry.Texture]
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownTexture, geometry.Texture)
		}
		if bindGroup, err = c.textureBindGroup(p, t); err != nil {
			return err
		}
	}

	vertexBuffers := make([]hal.Buffer, len(geometry.VertexBuffers))
	for i, id := range geometry.VertexBuffers {
		b, ok := c.buffer(id)
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
		}
		vertexBuffers[i] = b.raw
	}
	var indexBuffer hal.Buffer
	if geometry.Indexed() {
		b, ok := c.buffer(geometry.IndexBuffer)
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownBuffer, geometry.IndexBuffer)
		}
		indexBuffer = b.raw
	}

	vp := c.viewport
	return c.submit(p.layout.Label, gputypes.LoadOpLoad, gputypes.Color{}, func(pass hal.RenderPassEncoder) {
		pass.SetPipeline(rp)
		pass.SetBindGroup(0, bindGroup, nil)
		pass.SetViewport(
			float32(vp.x),
			float32(int32(c.height)-vp.y-int32(vp.height)),
			float32(vp.width),
			float32(vp.height),
			0, 1,
		)
		pass.SetScissorRect(scissor.x, scissor.y, scissor.width, scissor.height)
		for slot, b := range vertexBuffers {
			pass.SetVertexBuffer(uint32(slot), b, 0)
		}

		instances := geometry.Instances()
		if indexBuffer != nil {
			pass.SetIndexBuffer(indexBuffer, gputypes.IndexFormatUint32, 0)
			pass.DrawIndexed(geometry.Range.Count, instances, geometry.Range.Start, 0, 0)
		} else {
			pass.Draw(geometry.Range.Count, instances, geometry.Range.Start, 0)
		}
	})
}

// rect is a rectangle in target pixels with a top-left origin.
type rect struct {
	x, y, width, height uint32
}

// scissorRect converts a GL scissor rectangle to target pixels, clipped to
// the target. A nil scissor covers the whole target. The boolean is false
// when nothing remains visible.
func (c *Context) scissorRect(s *gpucore.Scissor) (rect, bool) {
	full := rect{width: c.width, height: c.height}
	if s == nil {
		return full, c.width > 0 && c.height > 0
	}

	left := int64(s.X)
	right := left + int64(s.Width)
	top := int64(c.height) - (int64(s.Y) + int64(s.Height))
	bottom := top + int64(s.Height)

	left = max(left, 0)
	top = max(top, 0)
	right = min(right, int64(c.width))
	bottom = min(bottom, int64(c.height))
	if right <= left || bottom <= top {
		return rect{}, false
	}
	return rect{
		x:      uint32(left),
		y:      uint32(top),
		width:  uint32(right - left),
		height: uint32(bottom - top),
	}, true
}

// submit records one render pass on the target and submits it.
func (c *Context) submit(label string, load gputypes.LoadOp, clearValue gputypes.Color, record func(hal.RenderPassEncoder)) error {
	c.retire()

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       c.target,
				LoadOp:     load,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clearValue,
			},
		},
	})
	if record != nil {
		record(pass)
	}
	pass.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	index, err := c.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		c.device.FreeCommandBuffer(cmd)
		return fmt.Errorf("wgpu: submit %s: %w", label, err)
	}
	c.inFlight = append(c.inFlight, pending{cmd: cmd, index: index})
	return nil
}

// retire frees the command buffers the GPU has finished with.
func (c *Context) retire() {
	done := c.queue.PollCompleted()
	n := 0
	for _, p := range c.inFlight {
		if p.index <= done {
			c.device.FreeCommandBuffer(p.cmd)
			continue
		}
		c.inFlight[n] = p
		n++
	}
	c.inFlight = c.inFlight[:n]
}

// Close waits for the GPU and releases every resource the context created.
// The device, queue and target stay owned by the caller.
func (c *Context) Close() error {
	err := c.device.WaitIdle()
	for _, p := range c.inFlight {
		c.device.FreeCommandBuffer(p.cmd)
	}
	c.inFlight = nil

	for id, t := range c.textures {
		c.destroyTexture(t)
		delete(c.textures, id)
	}
	for _, b := range c.buffers {
		c.device.DestroyBuffer(b.raw)
	}
	c.buffers = nil
	for _, p := range c.programs {
		c.destroyProgram(p)
	}
	c.programs = nil
	c.current = nil
	if c.sampler != nil {
		c.device.DestroySampler(c.sampler)
		c.sampler = nil
	}
	if err != nil {
		return fmt.Errorf("wgpu: wait idle: %w", err)
	}
	return nil
}
