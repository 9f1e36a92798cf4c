package text

import (
	"bytes"
	"fmt"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontID identifies a font registered in a Pipeline.
type FontID int

// DefaultFontID is the ID of the default font in every Pipeline.
const DefaultFontID FontID = 0

// GlyphID is a glyph index within a font.
type GlyphID uint32

// Font selects the font of a text run. The zero value is the default font.
type Font struct {
	// Name identifies an external font. Fonts are registered by name: the
	// first registration of a name wins.
	Name string

	// Bytes is the raw TrueType or OpenType data of an external font.
	Bytes []byte
}

// Default is the default font.
var Default Font

// External returns an external font.
func External(name string, data []byte) Font {
	return Font{Name: name, Bytes: data}
}

// IsDefault reports whether f selects the default font.
func (f Font) IsDefault() bool {
	return f.Name == "" && len(f.Bytes) == 0
}

// String returns the font name, or "default".
func (f Font) String() string {
	if f.IsDefault() {
		return "default"
	}
	return f.Name
}

// Fallback is the embedded font used when no default font is configured or
// the configured one cannot be parsed.
var Fallback = goregular.TTF

// face is a parsed font. The go-text face drives shaping and metrics, the
// sfnt font provides outlines for rasterization. Both read the same bytes,
// so glyph IDs agree.
//
// A face is not safe for concurrent use.
type face struct {
	shaping  *gotext.Face
	outlines *opentype.Font
	upem     float32
	extents  gotext.FontExtents
}

func parseFace(data []byte) (*face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	shaping, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	outlines, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font outlines: %w", err)
	}

	upem := float32(shaping.Upem())
	if upem == 0 {
		upem = 1000
	}
	extents, ok := shaping.FontHExtents()
	if !ok {
		extents = gotext.FontExtents{Ascender: 0.8 * upem, Descender: -0.2 * upem}
	}

	return &face{
		shaping:  shaping,
		outlines: outlines,
		upem:     upem,
		extents:  extents,
	}, nil
}

// mustParseFace parses an external font. A font that does not parse is a
// caller bug.
func mustParseFace(f Font) *face {
	parsed, err := parseFace(f.Bytes)
	if err != nil {
		panic(fmt.Sprintf("text: load font %q: %v", f.Name, err))
	}
	return parsed
}

// loadDefaultFace parses data, falling back to the embedded font when data
// is nil or invalid.
func loadDefaultFace(data []byte) *face {
	if data != nil {
		f, err := parseFace(data)
		if err == nil {
			return f
		}
		slogger().Warn("text: default font failed to load, falling back to embedded font", "err", err)
	}

	f, err := parseFace(Fallback)
	if err != nil {
		panic("text: load fallback font: " + err.Error())
	}
	return f
}

// metrics returns the ascent (positive), descent (negative) and line gap of
// the face for lines size pixels high. Ascent minus descent is size.
func (f *face) metrics(size float32) (ascent, descent, lineGap float32) {
	height := f.extents.Ascender - f.extents.Descender
	if height <= 0 {
		s := size / f.upem
		return f.extents.Ascender * s, f.extents.Descender * s, f.extents.LineGap * s
	}
	s := size / height
	ascent = f.extents.Ascender * s
	// Exact while the ascent is between half and twice the line height.
	descent = ascent - size
	return ascent, descent, f.extents.LineGap * s
}

// emSize converts a line height in pixels to a font size in pixels per em.
func (f *face) emSize(size float32) float32 {
	height := f.extents.Ascender - f.extents.Descender
	if height <= 0 {
		return size
	}
	return size * f.upem / height
}
