// Package core provides the value types shared by every uigl pipeline:
// points, sizes and rectangles in float32, the 4x4 column-major
// Transformation used for projection, and linear-space colors.
//
// Types here carry no GPU state. The quad, triangle and text pipelines
// and the root uigl package all build on them, so the package imports
// nothing from the rest of the module.
//
// # Coordinate spaces
//
// Logical coordinates are independent of the display scale factor.
// Physical coordinates are logical coordinates multiplied by the scale
// factor. Framebuffer coordinates are physical coordinates with the Y
// axis flipped, as expected by a GL scissor test:
//
//	y_fb = target_height - (y + h)
//
// See [URect.FlipY].
package core
