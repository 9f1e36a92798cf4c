// Package text lays out, caches and draws glyphs for the uigl renderer.
//
// A Pipeline owns two brushes over the same font list. The draw brush
// rasterizes glyphs into a GPU atlas and renders queued sections; the
// measure brush runs the identical layout without touching the GPU, so
// Measure and HitTest work without a context.
//
// Layout is shaped with HarfBuzz (go-text/typesetting), broken into lines at
// Unicode line-break opportunities, and aligned around the section's screen
// position. Glyph outlines are rasterized with golang.org/x/image.
//
// Font IDs are shared by both brushes: ID 0 is the default font and every
// external font is registered into both brushes with the same ID.
package text
