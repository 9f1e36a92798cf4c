package text

import (
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/segmenter"
	"github.com/go-text/typesetting/shaping"
	"github.com/gogpu/uigl/core"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// HarfbuzzShaper is not safe for concurrent use.
var shaperPool = sync.Pool{
	New: func() any {
		return &shaping.HarfbuzzShaper{}
	},
}

var defaultLanguage = language.NewLanguage("en")

// word is a shaped line-break segment. Glyph positions are relative to the
// start of the word on the baseline.
type word struct {
	glyphs  []SectionGlyph
	advance float32
	// visible excludes trailing whitespace. It decides wrapping.
	visible float32

	ascent, descent, lineGap float32

	hardBreak bool
	rtl       bool
}

type line struct {
	words []word
	width float32

	ascent, descent, lineGap float32
}

func (l *line) add(w word, x float32) {
	if len(l.words) == 0 {
		l.ascent, l.descent, l.lineGap = w.ascent, w.descent, w.lineGap
	} else {
		l.ascent = max(l.ascent, w.ascent)
		l.descent = min(l.descent, w.descent)
		l.lineGap = max(l.lineGap, w.lineGap)
	}
	l.words = append(l.words, w)
	l.width = x + w.visible
}

func (l *line) height() float32 {
	return l.ascent - l.descent
}

// layoutSection shapes, wraps and positions the glyphs of s. It returns nil
// when s has no room.
func layoutSection(fonts []*face, s *Section) []SectionGlyph {
	if !(s.Bounds.Width > 0) || !(s.Bounds.Height > 0) {
		return nil
	}

	var words []word
	for i := range s.Runs {
		words = appendRunWords(words, fonts, s.Runs, i)
	}
	if len(words) == 0 {
		return nil
	}

	lines := breakLines(words, s.Bounds.Width)

	var total float32
	for i := range lines {
		total += lines[i].height()
		if i < len(lines)-1 {
			total += lines[i].lineGap
		}
	}

	var dy float32
	switch s.VAlign {
	case AlignMiddle:
		dy = -total / 2
	case AlignBottom:
		dy = -total
	}

	var out []SectionGlyph
	var y float32
	for i := range lines {
		l := &lines[i]
		if y >= s.Bounds.Height {
			break
		}

		var dx float32
		switch s.HAlign {
		case AlignCenter:
			dx = -l.width / 2
		case AlignRight:
			dx = -l.width
		}

		baseline := s.ScreenPosition.Y + dy + y + l.ascent
		x := s.ScreenPosition.X + dx
		for _, w := range visualOrder(l.words) {
			for _, g := range w.glyphs {
				g.Position = core.Pt(x+g.Position.X, baseline+g.Position.Y)
				out = append(out, g)
			}
			x += w.advance
		}

		y += l.height() + l.lineGap
	}
	return out
}

// breakLines wraps words greedily. A word wraps when its visible part would
// cross maxWidth, unless it is the first word of the line.
func breakLines(words []word, maxWidth float32) []line {
	var lines []line
	var cur line
	var x float32
	for _, w := range words {
		if len(cur.words) > 0 && x+w.visible > maxWidth {
			lines = append(lines, cur)
			cur, x = line{}, 0
		}
		cur.add(w, x)
		x += w.advance
		if w.hardBreak {
			lines = append(lines, cur)
			cur, x = line{}, 0
		}
	}
	if len(cur.words) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// visualOrder reverses lines made only of right-to-left words. Mixed lines
// keep logical order.
func visualOrder(words []word) []word {
	for _, w := range words {
		if !w.rtl {
			return words
		}
	}
	reversed := make([]word, len(words))
	for i, w := range words {
		reversed[len(words)-1-i] = w
	}
	return reversed
}

// appendRunWords shapes run i of runs into words at each line-break
// opportunity.
func appendRunWords(dst []word, fonts []*face, runs []Run, i int) []word {
	run := runs[i]
	if run.Text == "" {
		return dst
	}
	f := fontFor(fonts, run.FontID)
	ascent, descent, gap := f.metrics(run.Scale)
	em := f.emSize(run.Scale)

	runes := []rune(run.Text)
	byteOffsets := make([]int, 0, len(runes)+1)
	for off := range run.Text {
		byteOffsets = append(byteOffsets, off)
	}
	byteOffsets = append(byteOffsets, len(run.Text))

	dir := di.DirectionLTR
	if paragraphDirection(run.Text) == bidi.RightToLeft {
		dir = di.DirectionRTL
	}

	shaper := shaperPool.Get().(*shaping.HarfbuzzShaper)
	defer shaperPool.Put(shaper)

	var seg segmenter.Segmenter
	seg.Init(runes)
	iter := seg.LineIterator()
	for iter.Next() {
		l := iter.Line()
		w := word{
			ascent:    ascent,
			descent:   descent,
			lineGap:   gap,
			hardBreak: l.IsMandatoryBreak && endsWithNewline(l.Text),
			rtl:       dir == di.DirectionRTL,
		}

		out := shaper.Shape(shaping.Input{
			Text:      runes,
			RunStart:  l.Offset,
			RunEnd:    l.Offset + len(l.Text),
			Direction: dir,
			Face:      f.shaping,
			Size:      floatToFixed(em),
			Script:    detectScript(l.Text),
			Language:  defaultLanguage,
		})

		var pen, trailing float32
		for _, g := range out.Glyphs {
			r := runes[g.TextIndex()]
			if r == '\n' || r == '\r' {
				continue
			}
			advance := fixedToFloat(g.Advance)
			w.glyphs = append(w.glyphs, SectionGlyph{
				RunIndex:    i,
				ByteIndex:   byteOffsets[g.TextIndex()],
				FontID:      run.FontID,
				GlyphID:     GlyphID(g.GlyphID),
				Position:    core.Pt(pen+fixedToFloat(g.XOffset), -fixedToFloat(g.YOffset)),
				Scale:       em,
				SideBearing: fixedToFloat(g.XBearing),
				Advance:     advance,
				Ascent:      ascent,
				Descent:     descent,
			})
			pen += advance
			if unicode.IsSpace(r) {
				trailing += advance
			} else {
				trailing = 0
			}
		}
		w.advance = pen
		w.visible = pen - trailing
		if dir == di.DirectionRTL {
			// Visual order puts the trailing space first.
			w.visible = pen
		}
		dst = append(dst, w)
	}
	return dst
}

func fontFor(fonts []*face, id FontID) *face {
	if int(id) < 0 || int(id) >= len(fonts) {
		return fonts[DefaultFontID]
	}
	return fonts[id]
}

func paragraphDirection(s string) bidi.Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(s); err != nil {
		return bidi.LeftToRight
	}
	o, err := p.Order()
	if err != nil {
		return bidi.LeftToRight
	}
	return o.Direction()
}

func endsWithNewline(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	switch runes[len(runes)-1] {
	case '\n', '\r', '\v', '\f', 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) || r == utf8.RuneError {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
