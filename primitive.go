package uigl

import (
	"github.com/gogpu/uigl/core"
	"github.com/gogpu/uigl/internal/triangle"
	"github.com/gogpu/uigl/text"
)

// Primitive is a drawing directive. A nil Primitive draws nothing.
type Primitive interface {
	isPrimitive()
}

// Font selects the font of a Text primitive. The zero value is the default
// font.
type Font = text.Font

// ExternalFont returns a font identified by name and parsed from data on
// first use.
func ExternalFont(name string, data []byte) Font {
	return text.External(name, data)
}

// Text alignments.
type (
	HorizontalAlignment = text.HorizontalAlignment
	VerticalAlignment   = text.VerticalAlignment
)

// Alignment values.
const (
	AlignLeft   = text.AlignLeft
	AlignCenter = text.AlignCenter
	AlignRight  = text.AlignRight

	AlignTop    = text.AlignTop
	AlignMiddle = text.AlignMiddle
	AlignBottom = text.AlignBottom
)

// Vertex2D is a colored mesh vertex.
type Vertex2D = triangle.Vertex2D

// Quad is a filled rectangle with an optional rounded border.
type Quad struct {
	Bounds       core.Rectangle
	Background   core.Color
	BorderRadius float32
	BorderWidth  float32
	BorderColor  core.Color
}

// Mesh is a triangle mesh. It is drawn at the current translation and
// clipped to Size.
type Mesh struct {
	Vertices []Vertex2D
	Indices  []uint32
	Size     core.Size
}

// Text is a block of text laid out within Bounds. Bounds.X and Bounds.Y are
// the alignment anchor; Bounds.Width and Bounds.Height limit wrapping and
// visible lines. Size is the height of a line in logical units.
type Text struct {
	Content string
	Bounds  core.Rectangle
	Color   core.Color
	Size    float32
	Font    Font
	HAlign  HorizontalAlignment
	VAlign  VerticalAlignment
}

// Clip draws Content in a new layer clipped to Bounds, scrolled by Offset.
type Clip struct {
	Bounds  core.Rectangle
	Offset  core.Vector
	Content Primitive
}

// Translate moves Content by Translation.
type Translate struct {
	Translation core.Vector
	Content     Primitive
}

// Group draws primitives in order.
type Group []Primitive

// Cached wraps a primitive that the toolkit keeps between frames.
type Cached struct {
	Content Primitive
}

func (Quad) isPrimitive()      {}
func (Mesh) isPrimitive()      {}
func (Text) isPrimitive()      {}
func (Clip) isPrimitive()      {}
func (Translate) isPrimitive() {}
func (Group) isPrimitive()     {}
func (Cached) isPrimitive()    {}
