package annotate

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Image wraps a base raster together with a same-sized annotation overlay.
//
// The base raster is never written to. The overlay starts fully transparent
// and accumulates drawing operations; AsAnnotated merges the two into a fresh
// buffer. Both buffers belong exclusively to this Image and are released
// together when it becomes unreachable.
type Image struct {
	// Desc is a short description used in window titles and tool results.
	Desc string

	base    image.Image
	overlay *image.RGBA
}

// New wraps an already decoded raster. The raster is used as-is, not copied;
// the caller must not mutate it afterwards.
func New(img image.Image) *Image {
	return &Image{
		Desc:    "Annotated Image",
		base:    img,
		overlay: image.NewRGBA(img.Bounds()),
	}
}

// Open decodes the image file at path and wraps it. Decoding is delegated to
// the imaging library, which handles PNG, JPEG, GIF, TIFF and BMP.
func Open(path string) (*Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	im := New(img)
	im.Desc = path
	return im, nil
}

// Decode decodes an image from a byte stream and wraps it. Useful when the
// source is not a file, such as a network body or an embedded asset.
func Decode(r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return New(img), nil
}

// Base returns the unmodified base raster.
func (im *Image) Base() image.Image {
	return im.base
}

// Overlay returns the raw annotation buffer. The alpha channel marks drawn
// pixels; alpha 0 means untouched. Mutating the returned buffer directly
// bypasses the drawing API and is the caller's responsibility.
func (im *Image) Overlay() *image.RGBA {
	return im.overlay
}

// Bounds returns the pixel bounds of the base raster.
func (im *Image) Bounds() image.Rectangle {
	return im.base.Bounds()
}

// Width returns the image width in pixels.
func (im *Image) Width() int {
	return im.base.Bounds().Dx()
}

// Height returns the image height in pixels.
func (im *Image) Height() int {
	return im.base.Bounds().Dy()
}

// Channels reports the channel count of the base raster: 1 for grayscale
// images, 3 otherwise.
func (im *Image) Channels() int {
	switch im.base.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	default:
		return 3
	}
}

// ClearAnnotations discards everything drawn so far, resetting the overlay to
// fully transparent. The base raster is unaffected.
func (im *Image) ClearAnnotations() {
	im.overlay = image.NewRGBA(im.base.Bounds())
}

func (im *Image) String() string {
	return fmt.Sprintf("%s [%dx%d, %d channel(s)]", im.Desc, im.Width(), im.Height(), im.Channels())
}

// checkInvariant verifies that the overlay still matches the base raster.
// Every mutating or compositing operation calls this first and fails fast on
// a mismatch; the overlay is never silently reallocated to fit.
func (im *Image) checkInvariant() error {
	if im.overlay == nil || im.overlay.Bounds() != im.base.Bounds() {
		ob := image.Rectangle{}
		if im.overlay != nil {
			ob = im.overlay.Bounds()
		}
		return &InvariantError{Base: im.base.Bounds(), Overlay: ob}
	}
	return nil
}
