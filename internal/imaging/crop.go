package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-annotate-mcp/internal/geometry"
)

// CropOptions controls how CropRegions derives a crop window from a shape.
type CropOptions struct {
	// Size, when non-nil, requests a window of exactly this width and height
	// centered on the shape's geometric centroid. When nil, the window is the
	// shape's bounding box.
	Size *image.Point

	// Pad expands the bounding-box window by this many pixels on each side.
	// Ignored when Size is set.
	Pad int
}

// RegionCrop is the result for a single shape: the window that was computed
// and the extracted pixels. Image is nil when the window collapsed to zero
// area after clipping (the NoCrop case); Rect then holds the clipped,
// possibly empty rectangle.
type RegionCrop struct {
	Rect  image.Rectangle
	Image *image.NRGBA
}

// Empty reports whether this entry is a NoCrop placeholder.
func (rc RegionCrop) Empty() bool {
	return rc.Image == nil
}

// CropRegions extracts one sub-raster per input shape from the source image.
//
// The result always has exactly len(shapes) entries in input order; shapes
// whose window degenerates to zero area after clipping yield an explicit
// empty placeholder rather than being dropped or failing the call.
//
// Without a fixed size the window is the shape's bounding box, optionally
// expanded by pad pixels on each side. With a fixed size the window is
// centered on the shape's geometric centroid (not the bounding-box center).
// Either way the window is clipped to the image bounds before extraction.
//
// Each returned raster is an independent copy: mutating one never affects
// the source image or another crop. Cropping reads only base pixels; any
// annotation overlay on the source is ignored.
func CropRegions(img image.Image, shapes []geometry.Shape, opts CropOptions) ([]RegionCrop, error) {
	if img == nil {
		return nil, fmt.Errorf("nil source image")
	}
	if opts.Size != nil && (opts.Size.X <= 0 || opts.Size.Y <= 0) {
		return nil, fmt.Errorf("invalid crop size %dx%d", opts.Size.X, opts.Size.Y)
	}

	bounds := img.Bounds()
	crops := make([]RegionCrop, len(shapes))
	for i, s := range shapes {
		window := cropWindow(s, opts).Intersect(bounds)
		crops[i] = RegionCrop{Rect: window}
		if window.Empty() {
			continue
		}
		crops[i].Image = imaging.Crop(img, window)
	}
	return crops, nil
}

// cropWindow computes the unclipped crop rectangle for one shape. A shape
// with no coordinates has no window at all.
func cropWindow(s geometry.Shape, opts CropOptions) image.Rectangle {
	if geometry.IsEmpty(s) {
		return image.Rectangle{}
	}
	if opts.Size == nil {
		r := geometry.Bounds(s)
		if opts.Pad > 0 {
			// Padding applies even to degenerate bboxes: a horizontal line
			// has zero height until the pad gives it one.
			r = r.Inset(-opts.Pad)
		}
		return r
	}
	c := geometry.Centroid(s)
	w, h := opts.Size.X, opts.Size.Y
	x0 := int(math.Round(c.X)) - w/2
	y0 := int(math.Round(c.Y)) - h/2
	return image.Rect(x0, y0, x0+w, y0+h)
}
