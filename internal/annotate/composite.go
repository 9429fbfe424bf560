package annotate

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
)

// AsAnnotated returns a fresh raster with the annotation layer blended onto
// the base at the given opacity.
//
// Pixels the overlay never touched (alpha 0) are copied from the base
// unchanged for every opacity. For touched pixels the result is
//
//	opacity*overlay + (1-opacity)*base
//
// with partially covered pixels (antialiased edges) blending proportionally
// to their coverage. Opacity is clamped to [0, 1]. Grayscale bases are
// upconverted to three channels before blending.
//
// The call is side-effect free: neither the base nor the overlay is modified,
// and the returned buffer aliases neither.
func (im *Image) AsAnnotated(opacity float64) (*image.RGBA, error) {
	if err := im.checkInvariant(); err != nil {
		return nil, err
	}
	opacity = math.Max(0, math.Min(1, opacity))

	// AsRGBA copies the base and expands grayscale to RGB in one step.
	out := clone.AsRGBA(im.base)

	ob := im.overlay.Bounds()
	outB := out.Bounds()
	for y := 0; y < ob.Dy(); y++ {
		for x := 0; x < ob.Dx(); x++ {
			oi := im.overlay.PixOffset(ob.Min.X+x, ob.Min.Y+y)
			a := im.overlay.Pix[oi+3]
			if a == 0 {
				continue
			}
			// The overlay stores alpha-premultiplied channels, so the
			// coverage factor is already folded into the color values:
			// opacity*P equals opacity*(a/255)*color.
			eff := opacity * float64(a) / 255
			di := out.PixOffset(outB.Min.X+x, outB.Min.Y+y)
			for c := 0; c < 3; c++ {
				ov := float64(im.overlay.Pix[oi+c])
				base := float64(out.Pix[di+c])
				out.Pix[di+c] = clamp8(opacity*ov + (1-eff)*base)
			}
		}
	}
	return out, nil
}

// Save writes the image to path, with the format chosen from the file
// extension. When annotated is true the composited raster at the given
// opacity is written; otherwise the raw base raster is written. Encoding
// errors from the codec propagate unchanged.
func (im *Image) Save(path string, annotated bool, opacity float64) error {
	var out image.Image = im.base
	if annotated {
		merged, err := im.AsAnnotated(opacity)
		if err != nil {
			return err
		}
		out = merged
	}
	if err := imaging.Save(out, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func clamp8(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
