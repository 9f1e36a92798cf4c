package text

import "fmt"

// Glyph atlas sizes.
const (
	// DefaultAtlasSize is the initial side length of the glyph atlas.
	DefaultAtlasSize = 2048

	// MaxAtlasSize bounds atlas growth.
	MaxAtlasSize = 8192

	atlasPadding = 1
)

// atlasRegion is a rectangle of texels in the glyph atlas.
type atlasRegion struct {
	X, Y          int
	Width, Height int
}

func (r atlasRegion) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// shelf is a horizontal strip of the atlas.
type shelf struct {
	y      int // top
	height int // tallest item so far, padded
	nextX  int
}

// atlas packs glyph bitmaps into shelves. It tracks space only; texels live
// in the GPU texture.
type atlas struct {
	width, height int
	shelves       []shelf
	allocCount    int
	usedArea      int
}

func newAtlas(width, height int) *atlas {
	a := &atlas{}
	a.reset(width, height)
	return a
}

// reset clears every allocation and resizes the atlas.
func (a *atlas) reset(width, height int) {
	a.width, a.height = width, height
	a.shelves = a.shelves[:0]
	a.allocCount = 0
	a.usedArea = 0
}

func (a *atlas) size() (width, height int) {
	return a.width, a.height
}

// allocate reserves a width×height region. It reports false when the atlas
// is full.
func (a *atlas) allocate(width, height int) (atlasRegion, bool) {
	if width <= 0 || height <= 0 {
		return atlasRegion{}, false
	}

	pw := width + atlasPadding
	ph := height + atlasPadding
	if pw > a.width || ph > a.height {
		return atlasRegion{}, false
	}

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.nextX+pw > a.width {
			continue
		}
		// A shelf only grows while it is empty.
		if ph > s.height && s.nextX > 0 {
			continue
		}
		r := atlasRegion{X: s.nextX, Y: s.y, Width: width, Height: height}
		s.nextX += pw
		s.height = max(s.height, ph)
		a.allocCount++
		a.usedArea += width * height
		return r, true
	}

	y := 0
	if n := len(a.shelves); n > 0 {
		y = a.shelves[n-1].y + a.shelves[n-1].height
	}
	if y+ph > a.height {
		return atlasRegion{}, false
	}
	a.shelves = append(a.shelves, shelf{y: y, height: ph, nextX: pw})
	a.allocCount++
	a.usedArea += width * height
	return atlasRegion{X: 0, Y: y, Width: width, Height: height}, true
}

// utilization returns the fraction of the atlas covered by allocations.
func (a *atlas) utilization() float64 {
	total := a.width * a.height
	if total == 0 {
		return 0
	}
	return float64(a.usedArea) / float64(total)
}
