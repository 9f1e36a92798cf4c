package text

import (
	"math"

	"github.com/gogpu/uigl/cache"
	"github.com/gogpu/uigl/gpucore"
	"golang.org/x/image/font/sfnt"
)

// glyphKey identifies a rasterized glyph.
type glyphKey struct {
	font  FontID
	glyph GlyphID
	scale uint32 // float bits
}

type cachedGlyph struct {
	region    atlasRegion
	left, top int
	empty     bool
}

// glyphInstance is one textured quad in screen space.
type glyphInstance struct {
	LeftTop        [2]float32
	RightBottom    [2]float32
	TexLeftTop     [2]float32
	TexRightBottom [2]float32
	Color          [4]float32
}

// glyphInstanceSize is the byte size of a packed glyphInstance.
const glyphInstanceSize = 48

func (g *glyphInstance) appendBytes(dst []byte) []byte {
	dst = gpucore.AppendFloats(dst, g.LeftTop[:]...)
	dst = gpucore.AppendFloats(dst, g.RightBottom[:]...)
	dst = gpucore.AppendFloats(dst, g.TexLeftTop[:]...)
	dst = gpucore.AppendFloats(dst, g.TexRightBottom[:]...)
	return gpucore.AppendFloats(dst, g.Color[:]...)
}

// brush lays out sections and caches the results between frames. A brush
// that rasterizes also packs glyph bitmaps into an atlas.
//
// A brush is not safe for concurrent use.
type brush struct {
	fonts   []*face
	layouts *cache.Cache[string, []SectionGlyph]

	rasterize bool
	glyphs    map[glyphKey]cachedGlyph
	atlas     *atlas
	buf       sfnt.Buffer
	// evicted is set once a full max-size atlas was emptied for the
	// current queue.
	evicted bool

	queue []Section
}

func newBrush(defaultFace *face, rasterize bool, atlasWidth, atlasHeight int) *brush {
	b := &brush{
		fonts:     []*face{defaultFace},
		layouts:   cache.New[string, []SectionGlyph](),
		rasterize: rasterize,
	}
	if rasterize {
		b.glyphs = make(map[glyphKey]cachedGlyph)
		b.atlas = newAtlas(atlasWidth, atlasHeight)
	}
	return b
}

// addFont registers f and returns its ID.
func (b *brush) addFont(f *face) FontID {
	b.fonts = append(b.fonts, f)
	return FontID(len(b.fonts) - 1)
}

// layout returns the cached glyphs of s, laying it out on a miss.
func (b *brush) layout(s *Section) []SectionGlyph {
	return b.layouts.GetOrCreate(s.key(), func() []SectionGlyph {
		return layoutSection(b.fonts, s)
	})
}

func (b *brush) queueSection(s Section) {
	b.queue = append(b.queue, s)
}

// process turns the queued sections into glyph instances. New glyphs are
// rasterized and handed to upload together with their atlas region.
//
// When the atlas runs out of space process returns a *TextureTooSmallError
// and keeps the queue; the caller resizes and calls process again. On
// success the queue is cleared and layouts unused since the previous
// process are dropped.
func (b *brush) process(upload func(atlasRegion, []byte) error) ([]glyphInstance, error) {
	var instances []glyphInstance
	for i := range b.queue {
		s := &b.queue[i]
		for _, g := range b.layout(s) {
			if !b.rasterize {
				continue
			}
			cached, ok, err := b.cacheGlyph(g, upload)
			if err != nil {
				return nil, err
			}
			if !ok || cached.empty {
				continue
			}
			instances = append(instances, b.instance(g, cached, s.Runs[g.RunIndex].Color))
		}
	}

	b.queue = b.queue[:0]
	b.evicted = false
	b.layouts.Trim()
	return instances, nil
}

// cacheGlyph returns the atlas entry of g, rasterizing it on a miss. It
// reports false for glyphs that could not be placed.
func (b *brush) cacheGlyph(g SectionGlyph, upload func(atlasRegion, []byte) error) (cachedGlyph, bool, error) {
	key := glyphKey{font: g.FontID, glyph: g.GlyphID, scale: math.Float32bits(g.Scale)}
	if c, ok := b.glyphs[key]; ok {
		return c, true, nil
	}

	img, err := fontFor(b.fonts, g.FontID).rasterize(&b.buf, g.GlyphID, g.Scale)
	if err != nil {
		slogger().Warn("text: glyph not rasterized", "font", g.FontID, "glyph", g.GlyphID, "err", err)
		b.glyphs[key] = cachedGlyph{empty: true}
		return cachedGlyph{}, false, nil
	}
	if img.empty() {
		c := cachedGlyph{empty: true}
		b.glyphs[key] = c
		return c, true, nil
	}

	region, ok := b.atlas.allocate(img.width, img.height)
	if !ok {
		w, h := b.atlas.size()
		if w >= MaxAtlasSize && h >= MaxAtlasSize {
			// Evict the glyphs of earlier frames once. If the queue
			// still does not fit, its remaining glyphs are skipped.
			if !b.evicted {
				b.evicted = true
				return cachedGlyph{}, false, &TextureTooSmallError{Suggested: [2]int{w, h}}
			}
			slogger().Warn("text: glyph atlas full", "size", w, "glyph", g.GlyphID)
			return cachedGlyph{}, false, nil
		}
		return cachedGlyph{}, false, &TextureTooSmallError{
			Suggested: [2]int{min(w*2, MaxAtlasSize), min(h*2, MaxAtlasSize)},
		}
	}
	if err := upload(region, img.pix); err != nil {
		return cachedGlyph{}, false, err
	}

	c := cachedGlyph{region: region, left: img.left, top: img.top}
	b.glyphs[key] = c
	return c, true, nil
}

func (b *brush) instance(g SectionGlyph, c cachedGlyph, color [4]float32) glyphInstance {
	w, h := b.atlas.size()
	x := g.Position.X + float32(c.left)
	y := g.Position.Y + float32(c.top)
	r := c.region
	return glyphInstance{
		LeftTop:     [2]float32{x, y},
		RightBottom: [2]float32{x + float32(r.Width), y + float32(r.Height)},
		TexLeftTop: [2]float32{
			float32(r.X) / float32(w),
			float32(r.Y) / float32(h),
		},
		TexRightBottom: [2]float32{
			float32(r.X+r.Width) / float32(w),
			float32(r.Y+r.Height) / float32(h),
		},
		Color: color,
	}
}

// resize empties the glyph cache and resets the atlas to width×height.
func (b *brush) resize(width, height int) {
	if !b.rasterize {
		return
	}
	clear(b.glyphs)
	b.atlas.reset(width, height)
}
