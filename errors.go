package uigl

import (
	"errors"
	"fmt"

	"github.com/gogpu/uigl/gpucore"
)

// ErrGraphicsInitialization is returned, wrapped, when the GPU context or
// one of the pipelines cannot be created. It is a startup failure.
var ErrGraphicsInitialization = gpucore.ErrGraphicsInitialization

// ErrUnknownAntialiasing is returned by ParseAntialiasing for names other
// than msaa2x, msaa4x, msaa8x and msaa16x.
var ErrUnknownAntialiasing = errors.New("uigl: unknown antialiasing mode")

// initError wraps err so that it matches ErrGraphicsInitialization.
func initError(component string, err error) error {
	if errors.Is(err, ErrGraphicsInitialization) {
		return fmt.Errorf("uigl: %s: %w", component, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrGraphicsInitialization, component, err)
}
