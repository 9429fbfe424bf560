// Package imaging provides the raster plumbing around the annotation layer:
// cached image loading, region cropping from polygonal shapes, and montage
// rendering for browsing crops.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with origin at the top-left corner,
// X increasing rightward and Y increasing downward. Rectangles follow the
// standard library convention of inclusive Min and exclusive Max.
//
// # Region Cropping
//
// CropRegions turns a list of shapes into a list of sub-rasters, one per
// shape and in the same order. A crop window is either the shape's bounding
// box (optionally padded) or a fixed-size rectangle centered on the shape's
// centroid. Windows are clipped to the image; a window that clips away
// entirely produces an explicit empty placeholder, never an error and never
// a silently shorter result. Every crop is an independent pixel copy.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. CropRegions and Montage are pure
// functions of their inputs and safe to call concurrently as long as nobody
// is mutating the source image at the same time.
package imaging
