package uigl

import (
	"fmt"

	"github.com/gogpu/uigl/core"
	"github.com/gogpu/uigl/internal/quad"
	"github.com/gogpu/uigl/internal/triangle"
)

// Overlay text style.
const (
	overlayTextSize   = 20
	overlayLineHeight = 25
	overlayMargin     = 11
)

var (
	overlayColor  = [4]float32{0.9, 0.9, 0.9, 1}
	overlayShadow = [4]float32{0, 0, 0, 1}
)

// TextRun is a text primitive placed in a layer. Color is linear.
type TextRun struct {
	Content string
	Bounds  core.Rectangle
	Color   [4]float32
	Size    float32
	Font    Font
	HAlign  HorizontalAlignment
	VAlign  VerticalAlignment
}

// Layer is a group of primitives sharing one clip rectangle, in logical
// coordinates. Quads paint first, then meshes, then text.
type Layer struct {
	Bounds core.Rectangle
	Quads  []quad.Instance
	Meshes []triangle.Mesh
	Text   []TextRun
}

// Empty reports whether l draws nothing.
func (l *Layer) Empty() bool {
	return len(l.Quads) == 0 && len(l.Meshes) == 0 && len(l.Text) == 0
}

// String returns a short summary of l.
func (l *Layer) String() string {
	return fmt.Sprintf("Layer(%v: %d quads, %d meshes, %d texts)", l.Bounds, len(l.Quads), len(l.Meshes), len(l.Text))
}

// GenerateLayers flattens primitives into layers. The first layer spans the
// logical viewport; every visible Clip appends a new layer.
func GenerateLayers(primitives []Primitive, viewport Viewport) []Layer {
	layers := []Layer{{Bounds: core.WithSize(viewport.LogicalSize())}}
	for _, p := range primitives {
		layers = processPrimitive(layers, core.Vector{}, p, 0)
	}
	return layers
}

func processPrimitive(layers []Layer, translation core.Vector, p Primitive, current int) []Layer {
	switch p := p.(type) {
	case nil:
	case Group:
		for _, child := range p {
			layers = processPrimitive(layers, translation, child, current)
		}
	case Text:
		l := &layers[current]
		l.Text = append(l.Text, TextRun{
			Content: p.Content,
			Bounds:  p.Bounds.Translate(translation),
			Color:   p.Color.IntoLinear(),
			Size:    p.Size,
			Font:    p.Font,
			HAlign:  p.HAlign,
			VAlign:  p.VAlign,
		})
	case Quad:
		l := &layers[current]
		l.Quads = append(l.Quads, quad.Instance{
			Position:     [2]float32{p.Bounds.X + translation.X, p.Bounds.Y + translation.Y},
			Size:         [2]float32{p.Bounds.Width, p.Bounds.Height},
			Color:        p.Background.IntoLinear(),
			BorderColor:  p.BorderColor.IntoLinear(),
			BorderRadius: p.BorderRadius,
			BorderWidth:  p.BorderWidth,
		})
	case Mesh:
		l := &layers[current]
		origin := core.Pt(translation.X, translation.Y)
		clip, ok := l.Bounds.Intersection(core.NewRectangle(origin, p.Size))
		if !ok {
			break
		}
		l.Meshes = append(l.Meshes, triangle.Mesh{
			Vertices:   p.Vertices,
			Indices:    p.Indices,
			Origin:     origin,
			ClipBounds: clip,
		})
	case Clip:
		clip, ok := layers[current].Bounds.Intersection(p.Bounds.Translate(translation))
		if !ok {
			break
		}
		layers = append(layers, Layer{Bounds: clip})
		layers = processPrimitive(layers, translation.Sub(p.Offset), p.Content, len(layers)-1)
	case Translate:
		layers = processPrimitive(layers, translation.Add(p.Translation), p.Content, current)
	case Cached:
		layers = processPrimitive(layers, translation, p.Content, current)
	default:
		Logger().Warn("uigl: unsupported primitive", "type", fmt.Sprintf("%T", p))
	}
	return layers
}

// OverlayLayer returns a full-viewport layer with one shadowed line of
// debug text per entry of lines.
func OverlayLayer(lines []string, viewport Viewport) Layer {
	l := Layer{Bounds: core.WithSize(viewport.LogicalSize())}
	for i, line := range lines {
		run := TextRun{
			Content: line,
			Bounds: core.NewRectangle(
				core.Pt(overlayMargin, overlayMargin+overlayLineHeight*float32(i)),
				core.Infinite,
			),
			Color: overlayColor,
			Size:  overlayTextSize,
		}
		l.Text = append(l.Text, run)

		run.Bounds = run.Bounds.Translate(core.Vector{X: -1, Y: -1})
		run.Color = overlayShadow
		l.Text = append(l.Text, run)
	}
	return l
}
