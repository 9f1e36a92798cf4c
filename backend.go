package uigl

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gogpu/uigl/core"
	"github.com/gogpu/uigl/gpucore"
	"github.com/gogpu/uigl/internal/quad"
	"github.com/gogpu/uigl/internal/triangle"
	"github.com/gogpu/uigl/text"
)

// Icons drawn by checkbox and pick list widgets. Both are WGL4 glyphs
// present in the embedded default font.
const (
	CheckmarkIcon = '\u221A'
	ArrowDownIcon = '\u25BC'
)

// IconFont is the font holding CheckmarkIcon and ArrowDownIcon.
var IconFont = text.Default

// placeholderDimensions is reported for images and SVGs, which this
// backend does not load.
const placeholderDimensions = 50

// ImageHandle identifies an image. The backend does not decode images.
type ImageHandle any

// SvgHandle identifies an SVG document. The backend does not decode SVGs.
type SvgHandle any

// Backend draws frames through the quad, triangle and text pipelines.
//
// Present and Draw must be called on the goroutine that owns the context.
// Measure and HitTest may be called from anywhere.
type Backend struct {
	quads           *quad.Pipeline
	triangles       *triangle.Pipeline
	text            *text.Pipeline
	defaultTextSize uint16
}

// NewBackend creates the pipelines on ctx. Errors wrap
// ErrGraphicsInitialization.
func NewBackend(ctx gpucore.Context, settings Settings) (*Backend, error) {
	textPipeline, err := text.New(ctx, settings.DefaultFont)
	if err != nil {
		return nil, initError("text pipeline", err)
	}
	quadPipeline, err := quad.New(ctx)
	if err != nil {
		return nil, initError("quad pipeline", err)
	}
	trianglePipeline, err := triangle.New(ctx)
	if err != nil {
		return nil, initError("triangle pipeline", err)
	}

	Logger().Info("uigl: backend created", "shader_language", ctx.ShaderLanguage().String(),
		"default_text_size", settings.DefaultTextSize)

	return &Backend{
		quads:           quadPipeline,
		triangles:       trianglePipeline,
		text:            textPipeline,
		defaultTextSize: settings.DefaultTextSize,
	}, nil
}

// Draw presents output.Primitive and returns the interaction the toolkit
// requested.
func (b *Backend) Draw(ctx gpucore.Context, viewport Viewport, output Output, overlay []string) (Interaction, error) {
	var primitives []Primitive
	if output.Primitive != nil {
		primitives = []Primitive{output.Primitive}
	}
	if err := b.Present(ctx, primitives, viewport, overlay); err != nil {
		return output.Interaction, err
	}
	return output.Interaction, nil
}

// Present draws primitives, then the overlay lines on top of them.
func (b *Backend) Present(ctx gpucore.Context, primitives []Primitive, viewport Viewport, overlay []string) error {
	targetHeight := viewport.PhysicalHeight()
	scaleFactor := float32(viewport.ScaleFactor())
	projection := viewport.Projection()

	layers := GenerateLayers(primitives, viewport)
	layers = append(layers, OverlayLayer(overlay, viewport))

	Logger().Debug("uigl: present", "layers", len(layers), "viewport", viewport.String())

	for i := range layers {
		if err := b.flush(ctx, scaleFactor, projection, &layers[i], targetHeight); err != nil {
			return fmt.Errorf("uigl: layer %d: %w", i, err)
		}
	}
	return nil
}

func (b *Backend) flush(
	ctx gpucore.Context,
	scaleFactor float32,
	transform core.Transformation,
	layer *Layer,
	targetHeight uint32,
) error {
	bounds := layer.Bounds.Scale(scaleFactor).Snap()
	bounds.Height = min(bounds.Height, targetHeight)

	if len(layer.Quads) > 0 {
		if err := b.quads.Draw(ctx, targetHeight, layer.Quads, transform, scaleFactor, bounds); err != nil {
			return err
		}
	}

	if len(layer.Meshes) > 0 {
		scaled := transform.Mul(core.Scale(scaleFactor, scaleFactor))
		if err := b.triangles.Draw(ctx, targetHeight, scaled, scaleFactor, layer.Meshes); err != nil {
			return err
		}
	}

	if len(layer.Text) > 0 {
		for _, t := range layer.Text {
			b.text.Queue(text.Section{
				// Rounded so that slow sub-pixel motion does not
				// rasterize new glyphs every frame.
				ScreenPosition: core.Pt(
					math32.Round(t.Bounds.X*scaleFactor),
					math32.Round(t.Bounds.Y*scaleFactor),
				),
				Bounds: core.Size{
					Width:  math32.Ceil(t.Bounds.Width * scaleFactor),
					Height: math32.Ceil(t.Bounds.Height * scaleFactor),
				},
				Runs: []text.Run{{
					Text:   t.Content,
					Scale:  t.Size * scaleFactor,
					FontID: b.text.FindFont(t.Font),
					Color:  t.Color,
				}},
				HAlign: t.HAlign,
				VAlign: t.VAlign,
			})
		}

		x, y, w, h := bounds.FlipY(targetHeight)
		region := gpucore.Scissor{X: x, Y: y, Width: w, Height: h}
		if err := b.text.DrawQueued(ctx, transform, region); err != nil {
			return err
		}
	}
	return nil
}

// DefaultSize returns the text size used by widgets that do not set one.
func (b *Backend) DefaultSize() uint16 {
	return b.defaultTextSize
}

// Measure returns the size of content laid out at size within bounds.
func (b *Backend) Measure(content string, size float32, font Font, bounds core.Size) (width, height float32) {
	return b.text.Measure(content, size, font, bounds)
}

// HitTest finds the character of content at point. See text.Pipeline.HitTest.
func (b *Backend) HitTest(
	content string,
	size float32,
	font Font,
	bounds core.Size,
	point core.Point,
	nearestOnly bool,
) (text.Hit, bool) {
	return b.text.HitTest(content, size, font, bounds, point, nearestOnly)
}

// TrimMeasurements drops text measurements not used since the previous
// call. Toolkits call it once per frame.
func (b *Backend) TrimMeasurements() {
	b.text.TrimMeasurementCache()
}

// ImageDimensions returns placeholder dimensions of 50×50.
func (b *Backend) ImageDimensions(ImageHandle) (width, height uint32) {
	return placeholderDimensions, placeholderDimensions
}

// SvgDimensions returns placeholder dimensions of 50×50.
func (b *Backend) SvgDimensions(SvgHandle) (width, height uint32) {
	return placeholderDimensions, placeholderDimensions
}
