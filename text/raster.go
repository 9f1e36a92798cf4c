package text

import (
	"image"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// glyphImage is a coverage bitmap. left and top place its top-left texel
// relative to the pen position, with y growing down.
type glyphImage struct {
	left, top     int
	width, height int
	pix           []byte
}

func (g glyphImage) empty() bool {
	return g.width == 0 || g.height == 0
}

// rasterize renders glyph id at scale pixels per em. Glyphs without an
// outline, such as spaces, yield an empty image.
func (f *face) rasterize(buf *sfnt.Buffer, id GlyphID, scale float32) (glyphImage, error) {
	if id > 0xFFFF {
		return glyphImage{}, nil
	}

	segments, err := f.outlines.LoadGlyph(buf, sfnt.GlyphIndex(id), floatToFixed(scale), nil)
	if err != nil {
		return glyphImage{}, err
	}
	if len(segments) == 0 {
		return glyphImage{}, nil
	}

	b := segments.Bounds()
	left, top := b.Min.X.Floor(), b.Min.Y.Floor()
	width, height := b.Max.X.Ceil()-left, b.Max.Y.Ceil()-top
	if width <= 0 || height <= 0 {
		return glyphImage{}, nil
	}

	ox, oy := float32(left), float32(top)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return fixedToFloat(p.X) - ox, fixedToFloat(p.Y) - oy
	}

	r := vector.NewRasterizer(width, height)
	open := false
	for _, s := range segments {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				r.ClosePath()
			}
			r.MoveTo(pt(s.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			r.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(s.Args[0])
			x2, y2 := pt(s.Args[1])
			r.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(s.Args[0])
			x2, y2 := pt(s.Args[1])
			x3, y3 := pt(s.Args[2])
			r.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	if open {
		r.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	return glyphImage{
		left:   left,
		top:    top,
		width:  width,
		height: height,
		pix:    dst.Pix,
	}, nil
}
