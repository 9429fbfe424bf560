package annotate

import (
	"fmt"
	"image"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/ironsheep/image-annotate-mcp/internal/geometry"
)

// ShapeOptions controls how AnnotateShape renders a geometry.
type ShapeOptions struct {
	// Color is the stroke color for boundaries and line segments.
	Color Color

	// Fill, when non-nil, fills polygon interiors with this color. Interior
	// rings (holes) are excluded from the fill. Ignored for line kinds.
	Fill *Color

	// Thickness is the stroke width in pixels. Values <= 0 draw a 1px stroke.
	Thickness int
}

// TextOptions controls how AnnotateText renders a string.
type TextOptions struct {
	// FontPath is an optional path to a TTF font file. When empty, a built-in
	// 7x13 bitmap face is used.
	FontPath string

	// FontSize is the point size for TTF faces. Values <= 0 default to 12.
	// Ignored for the built-in face, which has a fixed size.
	FontSize float64

	// Background, when non-nil, draws a filled box of this color behind the
	// text, sized from the measured string.
	Background *Color
}

// AnnotateShape draws a geometry onto the annotation layer.
//
// Polygons are optionally filled (even-odd rule, so holes stay unfilled) and
// then have their exterior and each hole boundary stroked as closed loops.
// LineStrings and LinearRings are stroked as given: consecutive coordinates
// are connected and no closing segment is added. MultiLineStrings stroke each
// component independently.
//
// A shape with no coordinates draws nothing. A geometry kind outside the
// supported set returns *UnsupportedGeometryError rather than being silently
// skipped.
func (im *Image) AnnotateShape(shape geometry.Shape, opts ShapeOptions) error {
	dc, err := im.context()
	if err != nil {
		return err
	}

	switch s := shape.(type) {
	case geometry.Polygon:
		if len(s.Exterior) == 0 {
			return nil
		}
		if opts.Fill != nil {
			fillPolygon(dc, s, *opts.Fill)
		}
		strokeRing(dc, s.Exterior, opts)
		for _, hole := range s.Holes {
			strokeRing(dc, hole, opts)
		}
	case geometry.LineString:
		strokeSegments(dc, s, opts)
	case geometry.LinearRing:
		strokeSegments(dc, []geometry.Point(s), opts)
	case geometry.MultiLineString:
		for _, part := range s {
			strokeSegments(dc, part, opts)
		}
	default:
		return &UnsupportedGeometryError{Kind: fmt.Sprintf("%T", shape)}
	}
	return nil
}

// AnnotatePoint marks a point with a filled circle of radius 3.
func (im *Image) AnnotatePoint(pt geometry.Point, c Color) error {
	return im.AnnotateCircle(pt, 3, c, -1)
}

// AnnotateCircle draws a circle centered at ctr. A negative thickness fills
// the circle instead of stroking its outline.
func (im *Image) AnnotateCircle(ctr geometry.Point, radius float64, c Color, thickness int) error {
	dc, err := im.context()
	if err != nil {
		return err
	}
	dc.DrawCircle(ctr.X, ctr.Y, radius)
	paint(dc, c, thickness)
	return nil
}

// AnnotateLine draws a line segment between two points.
func (im *Image) AnnotateLine(p1, p2 geometry.Point, c Color, thickness int) error {
	dc, err := im.context()
	if err != nil {
		return err
	}
	dc.SetColor(c.NRGBA())
	dc.SetLineWidth(strokeWidth(thickness))
	dc.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
	dc.Stroke()
	return nil
}

// AnnotateRect draws an axis-aligned rectangle. A negative thickness fills
// the rectangle instead of stroking its outline.
func (im *Image) AnnotateRect(r image.Rectangle, c Color, thickness int) error {
	dc, err := im.context()
	if err != nil {
		return err
	}
	r = r.Canon()
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	paint(dc, c, thickness)
	return nil
}

// AnnotateText draws a string with its baseline starting at pt. When a
// background color is set, a filled box sized from the measured string is
// drawn behind the text first.
func (im *Image) AnnotateText(text string, pt geometry.Point, c Color, opts TextOptions) error {
	if text == "" {
		return nil
	}
	dc, err := im.context()
	if err != nil {
		return err
	}

	face, err := loadFace(opts)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	if opts.Background != nil {
		w, h := dc.MeasureString(text)
		dc.SetColor(opts.Background.NRGBA())
		dc.DrawRectangle(pt.X-2, pt.Y-h-2, w+4, h+4)
		dc.Fill()
	}

	dc.SetColor(c.NRGBA())
	dc.DrawString(text, pt.X, pt.Y)
	return nil
}

// context wraps the overlay in a drawing context after verifying the
// base/overlay invariant. The context renders directly into the overlay
// buffer, so drawn pixels carry their coverage in the alpha channel.
func (im *Image) context() (*gg.Context, error) {
	if err := im.checkInvariant(); err != nil {
		return nil, err
	}
	return gg.NewContextForRGBA(im.overlay), nil
}

// fillPolygon fills the polygon interior using the even-odd rule: the
// exterior and each hole become subpaths, and pixels inside an odd number of
// rings are filled, which leaves holes untouched.
func fillPolygon(dc *gg.Context, p geometry.Polygon, fill Color) {
	dc.SetFillRule(gg.FillRuleEvenOdd)
	pathRing(dc, p.Exterior)
	for _, hole := range p.Holes {
		dc.NewSubPath()
		pathRing(dc, hole)
	}
	dc.SetColor(fill.NRGBA())
	dc.Fill()
	dc.SetFillRule(gg.FillRuleWinding)
}

// pathRing traces a ring as a closed subpath.
func pathRing(dc *gg.Context, ring geometry.Ring) {
	if len(ring) == 0 {
		return
	}
	dc.MoveTo(ring[0].X, ring[0].Y)
	for _, p := range ring[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}

// strokeRing strokes a polygon ring as a closed loop.
func strokeRing(dc *gg.Context, ring geometry.Ring, opts ShapeOptions) {
	if len(ring) < 2 {
		return
	}
	pathRing(dc, ring)
	dc.SetColor(opts.Color.NRGBA())
	dc.SetLineWidth(strokeWidth(opts.Thickness))
	dc.Stroke()
}

// strokeSegments strokes the open polyline connecting consecutive
// coordinates. Fewer than two coordinates draw nothing.
func strokeSegments(dc *gg.Context, pts []geometry.Point, opts ShapeOptions) {
	if len(pts) < 2 {
		return
	}
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.SetColor(opts.Color.NRGBA())
	dc.SetLineWidth(strokeWidth(opts.Thickness))
	dc.Stroke()
}

// paint finishes the current path: filled when thickness is negative,
// stroked otherwise.
func paint(dc *gg.Context, c Color, thickness int) {
	dc.SetColor(c.NRGBA())
	if thickness < 0 {
		dc.Fill()
		return
	}
	dc.SetLineWidth(strokeWidth(thickness))
	dc.Stroke()
}

func strokeWidth(thickness int) float64 {
	if thickness <= 0 {
		return 1
	}
	return float64(thickness)
}

// loadFace resolves the font face for text annotation: a parsed TTF when a
// font path is given, the built-in bitmap face otherwise.
func loadFace(opts TextOptions) (font.Face, error) {
	if opts.FontPath == "" {
		return basicfont.Face7x13, nil
	}
	data, err := os.ReadFile(opts.FontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	fnt, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	size := opts.FontSize
	if size <= 0 {
		size = 12
	}
	return truetype.NewFace(fnt, &truetype.Options{Size: size}), nil
}
