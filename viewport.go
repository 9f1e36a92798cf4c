package uigl

import (
	"fmt"

	"github.com/gogpu/uigl/core"
)

// Viewport is the physical surface a frame is drawn to.
type Viewport struct {
	width, height uint32
	scaleFactor   float64
	projection    core.Transformation
}

// NewViewport returns a viewport of width×height physical pixels.
// scaleFactor is the number of physical pixels per logical unit.
func NewViewport(width, height uint32, scaleFactor float64) Viewport {
	return Viewport{
		width:       width,
		height:      height,
		scaleFactor: scaleFactor,
		projection:  core.Orthographic(width, height),
	}
}

// PhysicalSize returns the size in physical pixels.
func (v Viewport) PhysicalSize() (width, height uint32) {
	return v.width, v.height
}

// PhysicalWidth returns the width in physical pixels.
func (v Viewport) PhysicalWidth() uint32 { return v.width }

// PhysicalHeight returns the height in physical pixels.
func (v Viewport) PhysicalHeight() uint32 { return v.height }

// LogicalSize returns the size in logical units.
func (v Viewport) LogicalSize() core.Size {
	return core.Size{
		Width:  float32(float64(v.width) / v.scaleFactor),
		Height: float32(float64(v.height) / v.scaleFactor),
	}
}

// ScaleFactor returns the number of physical pixels per logical unit.
func (v Viewport) ScaleFactor() float64 { return v.scaleFactor }

// Projection returns the orthographic projection over the physical size.
func (v Viewport) Projection() core.Transformation { return v.projection }

// String returns a human-readable representation of v.
func (v Viewport) String() string {
	return fmt.Sprintf("Viewport(%dx%d @%g)", v.width, v.height, v.scaleFactor)
}
