package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/uigl/gpucore"
	"github.com/gogpu/wgpu/hal"
)

type buffer struct {
	raw  hal.Buffer
	kind gpucore.BufferKind
	size uint64
}

type texture struct {
	desc gpucore.TextureDescriptor
	raw  hal.Texture
	view hal.TextureView

	// bindGroups caches one bind group per textured program sampling it.
	bindGroups map[gpucore.ProgramID]hal.BindGroup
}

// bytesPerTexel returns the texel size of the formats the context uploads.
func bytesPerTexel(format gputypes.TextureFormat) (uint32, bool) {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1, true
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4, true
	default:
		return 0, false
	}
}

// CreateBuffer implements gpucore.Context.
func (c *Context) CreateBuffer(desc gpucore.BufferDescriptor) (gpucore.BufferID, error) {
	usage := gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
	if desc.Kind == gpucore.BufferIndex {
		usage = gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst
	}
	raw, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  (desc.Size + 3) &^ 3,
		Usage: usage,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create buffer %s: %w", desc.Label, err)
	}
	c.buffers = append(c.buffers, &buffer{raw: raw, kind: desc.Kind, size: desc.Size})
	return gpucore.BufferID(len(c.buffers)), nil
}

// WriteBuffer implements gpucore.Context.
func (c *Context) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	b, ok := c.buffer(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("%w: buffer %d: %d bytes at %d, size %d", ErrOutOfBounds, id, len(data), offset, b.size)
	}
	if len(data) == 0 {
		return nil
	}
	if err := c.queue.WriteBuffer(b.raw, offset, data); err != nil {
		return fmt.Errorf("wgpu: write buffer %d: %w", id, err)
	}
	return nil
}

func (c *Context) buffer(id gpucore.BufferID) (*buffer, bool) {
	if id == gpucore.InvalidID || int(id) > len(c.buffers) {
		return nil, false
	}
	return c.buffers[id-1], true
}

// CreateTexture implements gpucore.Context.
func (c *Context) CreateTexture(desc gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	if _, ok := bytesPerTexel(desc.Format); !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: %s", ErrUnsupportedFormat, desc.Format)
	}

	raw, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create texture %s: %w", desc.Label, err)
	}
	view, err := c.device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:         desc.Label + "_view",
		Format:        desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		c.device.DestroyTexture(raw)
		return gpucore.InvalidID, fmt.Errorf("wgpu: create texture view %s: %w", desc.Label, err)
	}

	c.nextTexture++
	id := c.nextTexture
	c.textures[id] = &texture{
		desc:       desc,
		raw:        raw,
		view:       view,
		bindGroups: make(map[gpucore.ProgramID]hal.BindGroup),
	}
	slogger().Debug("wgpu: texture created", "label", desc.Label, "width", desc.Width, "height", desc.Height)
	return id, nil
}

// WriteTexture implements gpucore.Context.
func (c *Context) WriteTexture(id gpucore.TextureID, region gpucore.Region, data []byte) error {
	t, ok := c.textures[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	if region.X+region.Width > t.desc.Width || region.Y+region.Height > t.desc.Height {
		return fmt.Errorf("%w: texture %d: region %+v, size %dx%d",
			ErrOutOfBounds, id, region, t.desc.Width, t.desc.Height)
	}
	bpp, _ := bytesPerTexel(t.desc.Format)
	if uint64(len(data)) != uint64(region.Width)*uint64(region.Height)*uint64(bpp) {
		return fmt.Errorf("%w: texture %d: %d bytes for region %+v", ErrOutOfBounds, id, len(data), region)
	}
	if region.Width == 0 || region.Height == 0 {
		return nil
	}

	err := c.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture: t.raw,
			Origin:  hal.Origin3D{X: region.X, Y: region.Y},
			Aspect:  gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{BytesPerRow: region.Width * bpp, RowsPerImage: region.Height},
		&hal.Extent3D{Width: region.Width, Height: region.Height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpu: write texture %d: %w", id, err)
	}
	return nil
}

// DestroyTexture implements gpucore.Context.
func (c *Context) DestroyTexture(id gpucore.TextureID) {
	t, ok := c.textures[id]
	if !ok {
		return
	}
	delete(c.textures, id)
	c.destroyTexture(t)
}

func (c *Context) destroyTexture(t *texture) {
	for _, bg := range t.bindGroups {
		c.device.DestroyBindGroup(bg)
	}
	t.bindGroups = nil
	c.device.DestroyTextureView(t.view)
	c.device.DestroyTexture(t.raw)
}

// textureBindGroup returns the bind group pairing p's uniforms with t.
func (c *Context) textureBindGroup(p *program, t *texture) (hal.BindGroup, error) {
	if bg, ok := t.bindGroups[p.id]; ok {
		return bg, nil
	}
	bg, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.layout.Label + "_" + t.desc.Label + "_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			c.uniformEntry(p),
			{Binding: bindingTexture, Resource: gputypes.TextureViewBinding{TextureView: t.view.NativeHandle()}},
			{Binding: bindingSampler, Resource: gputypes.SamplerBinding{Sampler: c.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture bind group: %w", err)
	}
	t.bindGroups[p.id] = bg
	return bg, nil
}
