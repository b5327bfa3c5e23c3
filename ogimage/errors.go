package ogimage

import (
	"errors"
	"fmt"
)

// ErrRender matches every *RenderError with errors.Is.
var ErrRender = errors.New("ogimage: render failed")

// RenderError reports a preview image that could not be composed.
type RenderError struct {
	Op  string // "branding", "logo", "layout", "encode"
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("ogimage: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRender.
func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}
