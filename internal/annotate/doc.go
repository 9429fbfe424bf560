// Package annotate provides an image wrapper that keeps drawn annotations on
// a separate layer instead of mutating the source pixels.
//
// An Image owns two buffers: the base raster it was constructed from, and an
// overlay of identical dimensions that starts fully transparent. All drawing
// operations (shapes, points, lines, rectangles, circles, text) render into
// the overlay only. AsAnnotated alpha-blends the overlay onto a copy of the
// base on demand, so the original pixels survive any amount of annotation.
//
// # Touched-Pixel Tracking
//
// The overlay's alpha channel records which pixels have been drawn: untouched
// pixels keep alpha 0 and pass the base through unchanged during compositing,
// while drawn pixels carry their coverage in alpha. Because presence is
// tracked in alpha rather than inferred from color values, annotating with a
// color that has zero components (pure green, pure black) works without any
// special casing.
//
// # Error Handling
//
//   - AnnotateShape returns *UnsupportedGeometryError for a geometry kind it
//     cannot draw; it never silently ignores one.
//   - A base/overlay dimension mismatch is an internal inconsistency reported
//     as *InvariantError; it is never repaired by resizing.
//   - Empty coordinate sequences draw nothing and return nil.
//
// # Thread Safety
//
// Distinct Image instances share no memory and may be used concurrently.
// Annotation mutates the overlay in place without locking, so concurrent
// annotation of the same Image requires external synchronization. Compositing
// and cropping only read, and are safe against each other but not against a
// concurrent annotation.
package annotate
