package text

import (
	"fmt"

	"github.com/gogpu/uigl/core"
)

// HitKind tells how a Hit was found.
type HitKind uint8

// Hit kinds.
const (
	// HitCharOffset means the point lies inside a glyph box.
	HitCharOffset HitKind = iota

	// HitNearestCharOffset means the glyph closest to the point was picked.
	HitNearestCharOffset
)

// Hit is the result of a hit test.
type Hit struct {
	Kind HitKind

	// Offset is a character index into the tested content.
	Offset int

	// Delta is the point minus the center of the picked glyph box. It is
	// only set for HitNearestCharOffset.
	Delta core.Vector
}

// String returns a human-readable representation of h.
func (h Hit) String() string {
	if h.Kind == HitNearestCharOffset {
		return fmt.Sprintf("NearestCharOffset(%d, %v)", h.Offset, h.Delta)
	}
	return fmt.Sprintf("CharOffset(%d)", h.Offset)
}

func hitTest(content string, glyphs []SectionGlyph, point core.Point, nearestOnly bool) (Hit, bool) {
	if !nearestOnly {
		for _, g := range glyphs {
			if g.HitBounds().Contains(point) {
				return Hit{Kind: HitCharOffset, Offset: CharIndex(content, g.ByteIndex)}, true
			}
		}
	}

	best := -1
	var bestDist float32
	var bestCenter core.Point
	for i, g := range glyphs {
		c := g.HitBounds().Center()
		d := c.Distance(point)
		if best < 0 || d < bestDist {
			best, bestDist, bestCenter = i, d, c
		}
	}
	if best < 0 {
		return Hit{}, false
	}
	return Hit{
		Kind:   HitNearestCharOffset,
		Offset: CharIndex(content, glyphs[best].ByteIndex),
		Delta:  point.Sub(bestCenter),
	}, true
}
