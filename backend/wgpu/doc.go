// Package wgpu implements gpucore.Context on top of the gogpu/wgpu HAL.
//
// Programs are WGSL modules compiled to SPIR-V with naga. Each program owns
// one uniform buffer laid out with std140 rules; the uniform locations it
// reports are byte offsets into that buffer. Textured programs additionally
// bind the texture of each draw together with a linear sampler.
//
// Every Draw is recorded into its own render pass that loads the target,
// and is submitted right away. Uploads issued before a draw are therefore
// visible to it, matching the ordering of a GL context:
//
//	ctx, err := wgpu.New(device, queue, view, gputypes.TextureFormatBGRA8Unorm, w, h)
//	compositor, backend, err := uigl.NewCompositor(settings, func() (gpucore.Context, error) {
//		return ctx, err
//	})
//
// A Context is not safe for concurrent use.
package wgpu
