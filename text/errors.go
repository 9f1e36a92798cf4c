package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")
)

// TextureTooSmallError is returned while processing queued sections when
// the glyph atlas cannot hold every glyph. Suggested is the size the atlas
// should be resized to before retrying. A Suggested size equal to the
// current one asks for the atlas to be emptied.
type TextureTooSmallError struct {
	Suggested [2]int
}

func (e *TextureTooSmallError) Error() string {
	return fmt.Sprintf("text: glyph texture too small, suggested %dx%d", e.Suggested[0], e.Suggested[1])
}
