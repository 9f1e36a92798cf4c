package uigl

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/uigl/core"
	"github.com/gogpu/uigl/gpucore"
)

// Loader creates the GPU context of a window. It stands in for the
// platform's function-address loader.
type Loader func() (gpucore.Context, error)

// Compositor owns the GPU context of a window and drives a Backend.
type Compositor struct {
	ctx gpucore.Context
}

// NewCompositor creates the context with loader and a Backend on it.
// Errors wrap ErrGraphicsInitialization.
func NewCompositor(settings Settings, loader Loader) (*Compositor, *Backend, error) {
	if loader == nil {
		return nil, nil, initError("compositor", errors.New("nil loader"))
	}
	ctx, err := loader()
	if err != nil {
		return nil, nil, initError("load context", err)
	}

	backend, err := NewBackend(ctx, settings)
	if err != nil {
		return nil, nil, err
	}
	return &Compositor{ctx: ctx}, backend, nil
}

// Context returns the GPU context.
func (c *Compositor) Context() gpucore.Context {
	return c.ctx
}

// SampleCount returns the multisample count requested by settings, or 0
// when antialiasing is off.
func SampleCount(settings Settings) uint32 {
	if settings.Antialiasing == nil {
		return 0
	}
	return settings.Antialiasing.SampleCount()
}

// ResizeViewport maps the viewport to the whole framebuffer of
// width×height physical pixels.
func (c *Compositor) ResizeViewport(width, height uint32) {
	c.ctx.SetViewport(0, 0, width, height)
}

// Draw clears the framebuffer to clearColor, converted to linear space,
// and presents output with overlay on top. It returns the mouse interaction
// carried by output.
func (c *Compositor) Draw(
	backend *Backend,
	viewport Viewport,
	clearColor core.Color,
	output Output,
	overlay []string,
) (Interaction, error) {
	linear := clearColor.IntoLinear()
	err := c.ctx.Clear(gputypes.Color{
		R: float64(linear[0]),
		G: float64(linear[1]),
		B: float64(linear[2]),
		A: float64(linear[3]),
	})
	if err != nil {
		return output.Interaction, err
	}
	return backend.Draw(c.ctx, viewport, output, overlay)
}
