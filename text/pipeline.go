package text

import (
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/chewxy/math32"
	"github.com/gogpu/uigl/core"
	"github.com/gogpu/uigl/gpucore"
)

// Pipeline renders and measures text. Both brushes share the same fonts in
// the same order, so a FontID means the same font to each of them.
//
// Pipeline is safe for concurrent use, but DrawQueued must be called on the
// goroutine that owns ctx.
type Pipeline struct {
	mu      sync.Mutex
	draw    *drawBrush
	measure *brush
	fontMap map[string]FontID
}

// New creates a text pipeline. defaultFont is parsed as the default font;
// when it is nil or invalid the embedded Fallback font is used instead.
func New(ctx gpucore.Context, defaultFont []byte) (*Pipeline, error) {
	return newPipeline(ctx, defaultFont, DefaultAtlasSize)
}

func newPipeline(ctx gpucore.Context, defaultFont []byte, atlasSize int) (*Pipeline, error) {
	f := loadDefaultFace(defaultFont)

	draw, err := newDrawBrush(ctx, newBrush(f, true, atlasSize, atlasSize))
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		draw:    draw,
		measure: newBrush(f, false, 0, 0),
		fontMap: make(map[string]FontID),
	}, nil
}

// Queue adds a section to the next DrawQueued call.
func (p *Pipeline) Queue(s Section) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draw.queueSection(s)
}

// DrawQueued draws and clears every queued section. transform maps physical
// pixels to clip space; region is the scissor rectangle in framebuffer
// coordinates.
func (p *Pipeline) DrawQueued(ctx gpucore.Context, transform core.Transformation, region gpucore.Scissor) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draw.drawQueued(ctx, transform, region)
}

// Measure returns the size of content laid out in lines size pixels high
// within bounds, rounded up to whole units. Text that produces no glyphs
// measures (0, 0).
func (p *Pipeline) Measure(content string, size float32, font Font, bounds core.Size) (width, height float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	glyphs := p.measure.layout(p.section(content, size, font, bounds))
	r, ok := glyphBounds(glyphs)
	if !ok {
		return 0, 0
	}
	return math32.Ceil(r.Width), math32.Ceil(r.Height)
}

// HitTest finds the character of content under point. Unless nearestOnly
// is set, a glyph box containing point yields a HitCharOffset. Otherwise
// the glyph whose box center is closest to point yields a
// HitNearestCharOffset. It reports false when content has no glyphs.
func (p *Pipeline) HitTest(
	content string,
	size float32,
	font Font,
	bounds core.Size,
	point core.Point,
	nearestOnly bool,
) (Hit, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	glyphs := p.measure.layout(p.section(content, size, font, bounds))
	return hitTest(content, glyphs, point, nearestOnly)
}

// section builds the single-run section used for measuring. The caller
// holds p.mu.
func (p *Pipeline) section(content string, size float32, font Font, bounds core.Size) *Section {
	return &Section{
		Bounds: bounds,
		Runs: []Run{{
			Text:   content,
			Scale:  size,
			FontID: p.findFont(font),
		}},
	}
}

// FindFont returns the ID of font, registering it with both brushes on
// first use. External fonts are identified by name. It panics if an
// external font fails to parse.
func (p *Pipeline) FindFont(font Font) FontID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findFont(font)
}

func (p *Pipeline) findFont(font Font) FontID {
	if font.IsDefault() {
		return DefaultFontID
	}
	if id, ok := p.fontMap[font.Name]; ok {
		return id
	}

	f := mustParseFace(font)
	p.measure.addFont(f)
	id := p.draw.addFont(f)
	p.fontMap[font.Name] = id
	return id
}

// TrimMeasurementCache drops measurement layouts that were not used since
// the previous trim.
func (p *Pipeline) TrimMeasurementCache() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		_, err := p.measure.process(func(atlasRegion, []byte) error { return nil })
		var tooSmall *TextureTooSmallError
		if errors.As(err, &tooSmall) {
			p.measure.resize(tooSmall.Suggested[0], tooSmall.Suggested[1])
			continue
		}
		return
	}
}

// FontCount returns the number of registered fonts, the default included.
func (p *Pipeline) FontCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.draw.fonts)
}

// AtlasSize returns the current side lengths of the glyph atlas.
func (p *Pipeline) AtlasSize() (width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draw.atlas.size()
}

// CharIndex converts a byte offset into content to a character index.
// Offsets at or past the end of content are returned unchanged.
func CharIndex(content string, byteIndex int) int {
	b := 0
	for i := 0; b < len(content); i++ {
		_, n := utf8.DecodeRuneInString(content[b:])
		if byteIndex < b+n {
			return i
		}
		b += n
	}
	return byteIndex
}
