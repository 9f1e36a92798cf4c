package text

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-text/typesetting/language"
	"github.com/gogpu/uigl/core"
)

func testFonts(t *testing.T) []*face {
	t.Helper()
	f, err := parseFace(Fallback)
	if err != nil {
		t.Fatalf("parseFace: %v", err)
	}
	return []*face{f}
}

func singleRun(content string, size float32) []Run {
	return []Run{{Text: content, Scale: size, Color: [4]float32{1, 1, 1, 1}}}
}

func TestParseFaceErrors(t *testing.T) {
	if _, err := parseFace(nil); err != ErrEmptyFontData {
		t.Errorf("parseFace(nil) = %v, want ErrEmptyFontData", err)
	}
	if _, err := parseFace([]byte("not a font")); err == nil {
		t.Error("parseFace accepted garbage")
	}
}

func TestFaceMetrics(t *testing.T) {
	f := testFonts(t)[0]
	ascent, descent, _ := f.metrics(20)
	if ascent <= 0 || descent >= 0 {
		t.Errorf("metrics(20) = %g, %g", ascent, descent)
	}
	if ascent-descent != 20 {
		t.Errorf("line height = %g, want 20", ascent-descent)
	}
	a2, d2, _ := f.metrics(40)
	if math32.Abs(a2-2*ascent) > 1e-3 || math32.Abs(d2-2*descent) > 1e-3 {
		t.Errorf("metrics do not scale linearly: %g,%g vs %g,%g", ascent, descent, a2, d2)
	}

	// Go fonts have an ascent plus descent larger than their em.
	if em := f.emSize(20); em >= 20 || em <= 10 {
		t.Errorf("emSize(20) = %g", em)
	}
}

func TestLayoutNoRoom(t *testing.T) {
	fonts := testFonts(t)
	tests := []struct {
		name   string
		bounds core.Size
		text   string
	}{
		{"zero width", core.Size{Width: 0, Height: 100}, "abc"},
		{"zero height", core.Size{Width: 100, Height: 0}, "abc"},
		{"negative", core.Size{Width: -1, Height: 100}, "abc"},
		{"empty text", core.Infinite, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Section{Bounds: tt.bounds, Runs: singleRun(tt.text, 20)}
			if got := layoutSection(fonts, s); len(got) != 0 {
				t.Errorf("layout produced %d glyphs", len(got))
			}
		})
	}
}

func TestLayoutSingleLine(t *testing.T) {
	fonts := testFonts(t)
	s := &Section{Bounds: core.Infinite, Runs: singleRun("Hello", 20)}
	glyphs := layoutSection(fonts, s)
	if len(glyphs) != 5 {
		t.Fatalf("glyphs = %d, want 5", len(glyphs))
	}

	ascent, _, _ := fonts[0].metrics(20)
	for i, g := range glyphs {
		if g.ByteIndex != i {
			t.Errorf("glyph %d byte index = %d", i, g.ByteIndex)
		}
		if math32.Abs(g.Position.Y-ascent) > 1e-3 {
			t.Errorf("glyph %d baseline = %g, want %g", i, g.Position.Y, ascent)
		}
		if i > 0 && g.Position.X <= glyphs[i-1].Position.X {
			t.Errorf("glyph %d not right of glyph %d", i, i-1)
		}
	}
}

func TestLayoutWraps(t *testing.T) {
	fonts := testFonts(t)

	wide := layoutSection(fonts, &Section{Bounds: core.Infinite, Runs: singleRun("hello world", 20)})
	narrow := layoutSection(fonts, &Section{
		Bounds: core.Size{Width: 1, Height: math32.Inf(1)},
		Runs:   singleRun("hello world", 20),
	})

	wb, _ := glyphBounds(wide)
	nb, _ := glyphBounds(narrow)
	if nb.Height <= wb.Height {
		t.Errorf("wrapped height %g not taller than %g", nb.Height, wb.Height)
	}
	if nb.Width >= wb.Width {
		t.Errorf("wrapped width %g not narrower than %g", nb.Width, wb.Width)
	}

	for _, g := range narrow {
		if g.ByteIndex == len("hello ") && g.Position.X != 0 {
			t.Errorf("second line starts at x = %g, want 0", g.Position.X)
		}
	}
}

func TestLayoutDropsLinesBelowBounds(t *testing.T) {
	fonts := testFonts(t)
	glyphs := layoutSection(fonts, &Section{
		Bounds: core.Size{Width: 1, Height: 1},
		Runs:   singleRun("hello world", 20),
	})
	if len(glyphs) == 0 {
		t.Fatal("first line was dropped")
	}
	for _, g := range glyphs {
		if g.ByteIndex >= len("hello ") {
			t.Errorf("glyph from second line at byte %d", g.ByteIndex)
		}
	}
}

func TestLayoutHardBreak(t *testing.T) {
	fonts := testFonts(t)
	glyphs := layoutSection(fonts, &Section{Bounds: core.Infinite, Runs: singleRun("a\nb", 20)})
	if len(glyphs) != 2 {
		t.Fatalf("glyphs = %d, want 2 (newline has no glyph)", len(glyphs))
	}
	if glyphs[1].Position.Y <= glyphs[0].Position.Y {
		t.Errorf("b baseline %g not below a baseline %g", glyphs[1].Position.Y, glyphs[0].Position.Y)
	}
	if glyphs[1].Position.X != glyphs[0].Position.X {
		t.Errorf("b starts at x = %g, want %g", glyphs[1].Position.X, glyphs[0].Position.X)
	}
	if glyphs[1].ByteIndex != 2 {
		t.Errorf("b byte index = %d, want 2", glyphs[1].ByteIndex)
	}
}

func TestLayoutAlignment(t *testing.T) {
	fonts := testFonts(t)
	anchor := core.Pt(100, 50)

	tests := []struct {
		name   string
		halign HorizontalAlignment
		valign VerticalAlignment
		check  func(r core.Rectangle) bool
	}{
		{"left top", AlignLeft, AlignTop, func(r core.Rectangle) bool {
			return near(r.X, anchor.X) && near(r.Y, anchor.Y)
		}},
		{"center middle", AlignCenter, AlignMiddle, func(r core.Rectangle) bool {
			c := r.Center()
			return near(c.X, anchor.X) && near(c.Y, anchor.Y)
		}},
		{"right bottom", AlignRight, AlignBottom, func(r core.Rectangle) bool {
			return near(r.X+r.Width, anchor.X) && near(r.Y+r.Height, anchor.Y)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glyphs := layoutSection(fonts, &Section{
				ScreenPosition: anchor,
				Bounds:         core.Infinite,
				Runs:           singleRun("Hi", 20),
				HAlign:         tt.halign,
				VAlign:         tt.valign,
			})
			r, ok := glyphBounds(glyphs)
			if !ok || !tt.check(r) {
				t.Errorf("bounds = %v around anchor %v", r, anchor)
			}
		})
	}
}

func TestLayoutMultipleRuns(t *testing.T) {
	fonts := testFonts(t)
	glyphs := layoutSection(fonts, &Section{
		Bounds: core.Infinite,
		Runs: []Run{
			{Text: "ab", Scale: 20},
			{Text: "cd", Scale: 40},
		},
	})
	if len(glyphs) != 4 {
		t.Fatalf("glyphs = %d, want 4", len(glyphs))
	}
	if glyphs[2].RunIndex != 1 || glyphs[2].ByteIndex != 0 || glyphs[2].Scale != fonts[0].emSize(40) {
		t.Errorf("third glyph = %+v", glyphs[2])
	}
	// One line: the larger run sets the baseline for both.
	if glyphs[0].Position.Y != glyphs[3].Position.Y {
		t.Errorf("baselines differ: %g vs %g", glyphs[0].Position.Y, glyphs[3].Position.Y)
	}
}

func TestSectionKeyIgnoresColor(t *testing.T) {
	a := Section{Bounds: core.Infinite, Runs: []Run{{Text: "x", Scale: 20, Color: [4]float32{1, 0, 0, 1}}}}
	b := a
	b.Runs = []Run{{Text: "x", Scale: 20, Color: [4]float32{0, 1, 0, 1}}}
	if a.key() != b.key() {
		t.Error("color changed the layout key")
	}

	c := a
	c.Runs = []Run{{Text: "x", Scale: 21}}
	if a.key() == c.key() {
		t.Error("scale did not change the layout key")
	}

	d := a
	d.HAlign = AlignRight
	if a.key() == d.key() {
		t.Error("alignment did not change the layout key")
	}
}

func TestDetectScript(t *testing.T) {
	tests := []struct {
		text string
		want language.Script
	}{
		{"hello", language.Latin},
		{"  привет", language.Cyrillic},
		{"", language.Latin},
	}
	for _, tt := range tests {
		if got := detectScript([]rune(tt.text)); got != tt.want {
			t.Errorf("detectScript(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-2
}
