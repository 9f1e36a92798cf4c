package wgpu

import "errors"

var (
	// ErrNilDevice is returned when the device or queue is nil.
	ErrNilDevice = errors.New("wgpu: nil device or queue")

	// ErrNoHAL is returned by NewFromProvider when the provider does not
	// expose its HAL device and queue.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL types")

	// ErrNoTarget is returned by Draw and Clear before a target is set.
	ErrNoTarget = errors.New("wgpu: no render target")

	// ErrNoProgram is returned by Draw when no program is bound.
	ErrNoProgram = errors.New("wgpu: no program bound")

	// ErrUnknownBuffer is returned for buffer IDs the context never created.
	ErrUnknownBuffer = errors.New("wgpu: unknown buffer")

	// ErrUnknownTexture is returned for texture IDs that do not exist.
	ErrUnknownTexture = errors.New("wgpu: unknown texture")

	// ErrOutOfBounds is returned when a write exceeds a buffer or texture.
	ErrOutOfBounds = errors.New("wgpu: write out of bounds")

	// ErrUnsupportedFormat is returned for texture formats the context
	// cannot upload.
	ErrUnsupportedFormat = errors.New("wgpu: unsupported texture format")
)
