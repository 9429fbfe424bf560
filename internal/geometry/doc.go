// Package geometry defines the shape types consumed by the annotation and
// cropping layers.
//
// Shapes are plain value types: a polygon is an exterior ring plus zero or
// more interior rings (holes), a line string is an open sequence of
// coordinates, a linear ring is a closed one, and a multi line string is a
// list of independent line strings. Rings do not repeat their first
// coordinate; closure is implied by the type.
//
// The set of shape kinds is sealed. Shape is an interface with an unexported
// marker method, so consumers dispatch with a type switch over the four
// concrete kinds and a new kind cannot appear without this package (and every
// switch over it) being updated.
//
// # Coordinate System
//
// Coordinates are float64 pixel positions with origin at the top-left corner,
// X increasing rightward and Y increasing downward, matching the image
// packages in this module.
//
// Shapes are read-only inputs: nothing in this module mutates a shape after
// construction, and the helpers here (Bounds, Centroid) only read them.
package geometry
