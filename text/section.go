package text

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/uigl/core"
)

// HorizontalAlignment positions lines relative to the screen position.
type HorizontalAlignment uint8

// Horizontal alignments.
const (
	AlignLeft HorizontalAlignment = iota
	AlignCenter
	AlignRight
)

// String returns the alignment name.
func (a HorizontalAlignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// VerticalAlignment positions the block of lines relative to the screen
// position.
type VerticalAlignment uint8

// Vertical alignments.
const (
	AlignTop VerticalAlignment = iota
	AlignMiddle
	AlignBottom
)

// String returns the alignment name.
func (a VerticalAlignment) String() string {
	switch a {
	case AlignMiddle:
		return "center"
	case AlignBottom:
		return "bottom"
	default:
		return "top"
	}
}

// Run is a piece of text sharing one font, size and color.
type Run struct {
	Text string

	// Scale is the height of a line in pixels, the font's ascent minus
	// its descent.
	Scale float32

	FontID FontID
	Color  [4]float32
}

// Section is a block of text to lay out.
//
// ScreenPosition is the alignment anchor: the top-left corner for
// left/top alignment, the center for centered alignment and so on. Lines
// wrap when they exceed Bounds.Width, and lines starting below
// Bounds.Height are dropped. Use core.Infinite for unbounded text.
type Section struct {
	ScreenPosition core.Point
	Bounds         core.Size
	Runs           []Run
	HAlign         HorizontalAlignment
	VAlign         VerticalAlignment
}

// key encodes everything layout depends on. Colors are excluded.
func (s *Section) key() string {
	b := make([]byte, 0, 32+16*len(s.Runs))
	b = appendFloat(b, s.ScreenPosition.X)
	b = appendFloat(b, s.ScreenPosition.Y)
	b = appendFloat(b, s.Bounds.Width)
	b = appendFloat(b, s.Bounds.Height)
	b = append(b, byte(s.HAlign), byte(s.VAlign))
	for _, r := range s.Runs {
		b = appendFloat(b, r.Scale)
		b = binary.AppendUvarint(b, uint64(r.FontID))
		b = binary.AppendUvarint(b, uint64(len(r.Text)))
		b = append(b, r.Text...)
	}
	return string(b)
}

func appendFloat(b []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
}

// SectionGlyph is one positioned glyph of a laid out section.
type SectionGlyph struct {
	// RunIndex is the index of the run the glyph belongs to.
	RunIndex int

	// ByteIndex is the byte offset, within the run's text, of the first
	// character shaped into this glyph.
	ByteIndex int

	FontID  FontID
	GlyphID GlyphID

	// Position is the pen position on the baseline.
	Position core.Point

	// Scale is the font size in pixels per em.
	Scale float32

	// SideBearing is the horizontal distance from the pen position to the
	// left edge of the glyph outline.
	SideBearing float32

	// Advance is the horizontal advance.
	Advance float32

	// Ascent and Descent are the font metrics at Scale. Descent is
	// negative.
	Ascent  float32
	Descent float32
}

// Bounds returns the layout box of the glyph: its advance wide and its
// font's line high.
func (g SectionGlyph) Bounds() core.Rectangle {
	return core.Rect(g.Position.X, g.Position.Y-g.Ascent, g.Advance, g.Ascent-g.Descent)
}

// HitBounds returns the box used for hit testing. It is Bounds shifted left
// by the side bearing.
func (g SectionGlyph) HitBounds() core.Rectangle {
	return core.Rect(g.Position.X-g.SideBearing, g.Position.Y-g.Ascent, g.Advance, g.Ascent-g.Descent)
}

// glyphBounds returns the union of the layout boxes of glyphs.
func glyphBounds(glyphs []SectionGlyph) (core.Rectangle, bool) {
	if len(glyphs) == 0 {
		return core.Rectangle{}, false
	}
	r := glyphs[0].Bounds()
	for _, g := range glyphs[1:] {
		r = r.Union(g.Bounds())
	}
	return r, true
}
