package geometry

import (
	"image"
	"math"
)

// Point is a 2D pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ring is an ordered sequence of coordinates forming a closed loop. The first
// coordinate is not repeated at the end; the closing segment is implicit.
type Ring []Point

// Shape is the sealed union of the geometry kinds this module understands:
// Polygon, LineString, LinearRing and MultiLineString.
type Shape interface {
	shape()
}

// Polygon is an exterior ring with optional interior rings (holes).
type Polygon struct {
	Exterior Ring
	Holes    []Ring
}

// LineString is an open sequence of coordinates; consecutive coordinates are
// connected, the ends are not.
type LineString []Point

// LinearRing is a closed sequence of coordinates. Note that drawing a bare
// LinearRing strokes only the segments between consecutive coordinates, it
// does not add the closing segment; polygon boundaries are closed by the
// drawing layer instead.
type LinearRing Ring

// MultiLineString is a list of independent line strings.
type MultiLineString []LineString

func (Polygon) shape()         {}
func (LineString) shape()      {}
func (LinearRing) shape()      {}
func (MultiLineString) shape() {}

// Box returns an axis-aligned rectangular polygon spanning (x0,y0)-(x1,y1).
func Box(x0, y0, x1, y1 float64) Polygon {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Polygon{
		Exterior: Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}},
	}
}

// Bounds returns the integer bounding box covering every coordinate of the
// shape, including polygon holes. The minimum corner is floored and the
// maximum corner is ceiled, so fractional coordinates are fully covered.
// An empty shape yields the zero rectangle.
func Bounds(s Shape) image.Rectangle {
	pts := allCoords(s)
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}

// Centroid returns the geometric centroid of the shape.
//
// For polygons this is the area centroid with hole areas subtracted, not the
// bounding-box center. For line kinds it is the length-weighted average of
// the segment midpoints (a LinearRing includes its implicit closing segment).
// Degenerate shapes (zero area or zero length) fall back to the mean of the
// coordinates; an empty shape yields the origin.
func Centroid(s Shape) Point {
	switch v := s.(type) {
	case Polygon:
		return polygonCentroid(v)
	case LineString:
		return segmentsCentroid([][]Point{v}, false)
	case LinearRing:
		return segmentsCentroid([][]Point{v}, true)
	case MultiLineString:
		parts := make([][]Point, len(v))
		for i, ls := range v {
			parts[i] = ls
		}
		return segmentsCentroid(parts, false)
	default:
		return Point{}
	}
}

// IsEmpty reports whether the shape has no coordinates at all.
func IsEmpty(s Shape) bool {
	return len(allCoords(s)) == 0
}

func allCoords(s Shape) []Point {
	switch v := s.(type) {
	case Polygon:
		pts := append([]Point(nil), v.Exterior...)
		for _, h := range v.Holes {
			pts = append(pts, h...)
		}
		return pts
	case LineString:
		return v
	case LinearRing:
		return v
	case MultiLineString:
		var pts []Point
		for _, ls := range v {
			pts = append(pts, ls...)
		}
		return pts
	default:
		return nil
	}
}

// ringArea returns the unsigned shoelace area of the ring and its area
// centroid. Rings with fewer than 3 coordinates have zero area.
func ringArea(r Ring) (area float64, c Point) {
	if len(r) < 3 {
		return 0, vertexMean(r)
	}
	var a, cx, cy float64
	for i := range r {
		p := r[i]
		q := r[(i+1)%len(r)]
		cross := p.X*q.Y - q.X*p.Y
		a += cross
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	a /= 2
	if a == 0 {
		return 0, vertexMean(r)
	}
	return math.Abs(a), Point{cx / (6 * a), cy / (6 * a)}
}

func polygonCentroid(p Polygon) Point {
	extArea, extC := ringArea(p.Exterior)
	area := extArea
	cx := extC.X * extArea
	cy := extC.Y * extArea
	for _, h := range p.Holes {
		hArea, hC := ringArea(h)
		area -= hArea
		cx -= hC.X * hArea
		cy -= hC.Y * hArea
	}
	if area <= 0 {
		// Degenerate polygon: all coordinates on a line, or holes covering
		// the exterior. Fall back to the coordinate mean.
		return vertexMean(allCoords(p))
	}
	return Point{cx / area, cy / area}
}

func segmentsCentroid(parts [][]Point, closed bool) Point {
	var length, cx, cy float64
	var all []Point
	for _, pts := range parts {
		all = append(all, pts...)
		if len(pts) < 2 {
			continue
		}
		n := len(pts)
		last := n - 1
		if closed {
			last = n
		}
		for i := 0; i < last; i++ {
			p := pts[i]
			q := pts[(i+1)%n]
			l := math.Hypot(q.X-p.X, q.Y-p.Y)
			length += l
			cx += (p.X + q.X) / 2 * l
			cy += (p.Y + q.Y) / 2 * l
		}
	}
	if length == 0 {
		return vertexMean(all)
	}
	return Point{cx / length, cy / length}
}

func vertexMean(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return Point{sx / n, sy / n}
}
