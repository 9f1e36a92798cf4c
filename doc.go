// Package uigl is a retained-mode 2D scene renderer for immediate-mode UI
// toolkits.
//
// The toolkit emits a tree of primitives every frame: rounded rectangles,
// triangle meshes, text, clip groups and translations. A Backend flattens
// the tree into layers, each with its own clip rectangle, and flushes every
// layer through three GPU pipelines in a fixed order: quads, then meshes,
// then text.
//
// # Quick Start
//
//	compositor, backend, err := uigl.NewCompositor(uigl.DefaultSettings(), loader)
//	if err != nil {
//	    return err
//	}
//	compositor.ResizeViewport(1600, 1200)
//
//	viewport := uigl.NewViewport(1600, 1200, 2)
//	interaction, err := compositor.Draw(backend, viewport, core.White, uigl.Output{
//	    Primitive: uigl.Quad{
//	        Bounds:     core.Rect(10, 20, 100, 50),
//	        Background: core.RGBA(1, 0, 0, 1),
//	    },
//	}, nil)
//
// # Coordinates
//
// Primitives use logical coordinates with the origin at the top-left. The
// Viewport scale factor maps them to physical pixels: quads receive it as a
// shader uniform, meshes as a scale matrix, and text sections are scaled
// and rounded on the CPU so glyphs rasterize at their final pixel size.
//
// # GPU contexts
//
// Rendering goes through gpucore.Context. backend/wgpu implements it on
// gogpu/wgpu; recording implements it as a command log for tests and
// tracing.
//
// # Logging
//
// uigl is silent by default. SetLogger enables structured logging through
// log/slog for this package and its sub-packages.
package uigl
