package annotate

import (
	"fmt"
	"image"
)

// InvariantError reports an internally inconsistent Image, such as an overlay
// whose dimensions no longer match the base raster. It indicates a bug in
// this package or memory corruption, not a recoverable condition; callers
// should not catch it and continue.
type InvariantError struct {
	Base    image.Rectangle
	Overlay image.Rectangle
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("annotate: overlay bounds %v do not match base bounds %v", e.Overlay, e.Base)
}

// UnsupportedGeometryError reports an annotation request for a geometry kind
// the drawing layer does not handle.
type UnsupportedGeometryError struct {
	Kind string
}

func (e *UnsupportedGeometryError) Error() string {
	return fmt.Sprintf("annotate: unsupported geometry kind %s", e.Kind)
}
