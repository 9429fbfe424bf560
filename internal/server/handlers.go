package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"

	"github.com/ironsheep/image-annotate-mcp/internal/annotate"
	"github.com/ironsheep/image-annotate-mcp/internal/geometry"
	"github.com/ironsheep/image-annotate-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_annotate_shape").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified
// tool. The response wraps the tool result in MCP's content format; tool
// execution errors become JSON-RPC errors with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Annotation Operations
	case "image_annotate_shape":
		return s.handleAnnotateShape(args)
	case "image_annotate_point":
		return s.handleAnnotatePoint(args)
	case "image_annotate_line":
		return s.handleAnnotateLine(args)
	case "image_annotate_rect":
		return s.handleAnnotateRect(args)
	case "image_annotate_circle":
		return s.handleAnnotateCircle(args)
	case "image_annotate_text":
		return s.handleAnnotateText(args)
	case "image_clear_annotations":
		return s.handleClearAnnotations(args)

	// Compositing & Persistence
	case "image_composite":
		return s.handleComposite(args)
	case "image_save":
		return s.handleSave(args)

	// Region Operations
	case "image_crop_regions":
		return s.handleCropRegions(args)
	case "image_montage":
		return s.handleMontage(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// pngBase64 encodes a raster as base64 PNG.
func pngBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// parseColor parses a hex color argument, substituting def when empty.
func parseColor(s, def string) (annotate.Color, error) {
	if s == "" {
		s = def
	}
	return annotate.ParseHex(s)
}

// === Shape Argument Decoding ===

// shapeArg is the wire form of a geometry. Kind selects the variant and the
// matching coordinate field: polygon uses exterior (+ optional holes),
// linestring and linearring use coords, multilinestring uses lines.
// Coordinates are [x, y] pairs.
type shapeArg struct {
	Kind     string        `json:"kind"`
	Exterior [][]float64   `json:"exterior,omitempty"`
	Holes    [][][]float64 `json:"holes,omitempty"`
	Coords   [][]float64   `json:"coords,omitempty"`
	Lines    [][][]float64 `json:"lines,omitempty"`
}

func toPoints(coords [][]float64) ([]geometry.Point, error) {
	pts := make([]geometry.Point, len(coords))
	for i, c := range coords {
		if len(c) != 2 {
			return nil, fmt.Errorf("coordinate %d: expected [x, y], got %d values", i, len(c))
		}
		pts[i] = geometry.Point{X: c[0], Y: c[1]}
	}
	return pts, nil
}

func (a shapeArg) toShape() (geometry.Shape, error) {
	switch a.Kind {
	case "polygon":
		ext, err := toPoints(a.Exterior)
		if err != nil {
			return nil, err
		}
		holes := make([]geometry.Ring, len(a.Holes))
		for i, h := range a.Holes {
			pts, err := toPoints(h)
			if err != nil {
				return nil, err
			}
			holes[i] = geometry.Ring(pts)
		}
		return geometry.Polygon{Exterior: geometry.Ring(ext), Holes: holes}, nil
	case "linestring":
		pts, err := toPoints(a.Coords)
		if err != nil {
			return nil, err
		}
		return geometry.LineString(pts), nil
	case "linearring":
		pts, err := toPoints(a.Coords)
		if err != nil {
			return nil, err
		}
		return geometry.LinearRing(pts), nil
	case "multilinestring":
		mls := make(geometry.MultiLineString, len(a.Lines))
		for i, l := range a.Lines {
			pts, err := toPoints(l)
			if err != nil {
				return nil, err
			}
			mls[i] = geometry.LineString(pts)
		}
		return mls, nil
	default:
		return nil, fmt.Errorf("unknown shape kind: %q", a.Kind)
	}
}

// annotateResult acknowledges a successful annotation.
type annotateResult struct {
	Path      string `json:"path"`
	Annotated bool   `json:"annotated"`
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Annotation Handlers ===

type annotateShapeArgs struct {
	Path      string   `json:"path"`
	Shape     shapeArg `json:"shape"`
	Color     string   `json:"color"`
	FillColor string   `json:"fill_color"`
	Thickness int      `json:"thickness"`
}

func (s *Server) handleAnnotateShape(args json.RawMessage) (interface{}, error) {
	var a annotateShapeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	shape, err := a.Shape.toShape()
	if err != nil {
		return nil, err
	}
	stroke, err := parseColor(a.Color, "#ff0000")
	if err != nil {
		return nil, err
	}
	opts := annotate.ShapeOptions{Color: stroke, Thickness: a.Thickness}
	if a.FillColor != "" {
		fill, err := annotate.ParseHex(a.FillColor)
		if err != nil {
			return nil, err
		}
		opts.Fill = &fill
	}
	im, err := s.annotatedImage(a.Path)
	if err != nil {
		return nil, err
	}
	if err := im.AnnotateShape(shape, opts); err != nil {
		return nil, err
	}
	return annotateResult{Path: a.Path, Annotated: true}, nil
}

type annotatePointArgs struct {
	Path  string  `json:"path"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

func (s *Server) handleAnnotatePoint(args json.RawMessage) (interface{}, error) {
	var a annotatePointArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := parseColor(a.Color, "#ff0000")
	if err != nil {
		return nil, err
	}
	im, err := s.annotatedImage(a.Path)
	if err != nil {
		return nil, err
	}
	if err := im.AnnotatePoint(geometry.Point{X: a.X, Y: a.Y}, c); err != nil {
		return nil, err
	}
	return annotateResult{Path: a.Path, Annotated: true}, nil
}

type annotateLineArgs struct {
	Path      string  `json:"path"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	X2        float64 `json:"x2"`
	Y2        float64 `json:"y2"`
	Color     string  `json:"color"`
	Thickness int     `json:"thickness"`
}

func (s *Server) handleAnnotateLine(args json.RawMessage) (interface{}, error) {
	var a annotateLineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := parseColor(a.Color, "#ff0000")
	if err != nil {
		return nil, err
	}
	im, err := s.annotatedImage(a.Path)
	if err != nil {
		return nil, err
	}
	p1 := geometry.Point{X: a.X1, Y: a.Y1}
	p2 := geometry.Point{X: a.X2, Y: a.Y2}
	if err := im.AnnotateLine(p1, p2, c, a.Thickness); err != nil {
		return nil, err
	}
	return annotateResult{Path: a.Path, Annotated: true}, nil
}

type annotateRectArgs struct {
	Path      string `json:"path"`
	X1        int    `json:"x1"`
	Y1        int    `json:"y1"`
	X2        int    `json:"x2"`
	Y2        int    `json:"y2"`
	Color     string `json:"color"`
	Thickness int    `json:"thickness"`
}

func (s *Server) handleAnnotateRect(args json.RawMessage) (interface{}, error) {
	var a annotateRectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := parseColor(a.Color, "#ff0000")
	if err != nil {
		return nil, err
	}
	im, err := s.annotatedImage(a.Path)
	if err != nil {
		return nil, err
	}
	if err := im.AnnotateRect(image.Rect(a.X1, a.Y1, a.X2, a.Y2), c, a.Thickness); err != nil {
		return nil, err
	}
	return annotateResult{Path: a.Path, Annotated: true}, nil
}

type annotateCircleArgs struct {
	Path      string  `json:"path"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
	Color     string  `json:"color"`
	Thickness int     `json:"thickness"`
}

func (s *Server) handleAnnotateCircle(args json.RawMessage) (interface{}, error) {
	var a annotateCircleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := parseColor(a.Color, "#ff0000")
	if err != nil {
		return nil, err
	}
	im, err := s.annotatedImage(a.Path)
	if err != nil {
		return nil, err
	}
	ctr := geometry.Point{X: a.X, Y: a.Y}
	if err := im.AnnotateCircle(ctr, a.Radius, c, a.Thickness); err != nil {
		return nil, err
	}
	return annotateResult{Path: a.Path, Annotated: true}, nil
}

type annotateTextArgs struct {
	Path     string  `json:"path"`
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color"`
	BgColor  string  `json:"bg_color"`
	FontPath string  `json:"font_path"`
	FontSize float64 `json:"font_size"`
}

func (s *Server) handleAnnotateText(args json.RawMessage) (interface{}, error) {
	var a annotateTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := parseColor(a.Color, "#000000")
	if err != nil {
		return nil, err
	}
	opts := annotate.TextOptions{FontPath: a.FontPath, FontSize: a.FontSize}
	if a.BgColor != "" {
		bg, err := annotate.ParseHex(a.BgColor)
		if err != nil {
			return nil, err
		}
		opts.Background = &bg
	}
	im, err := s.annotatedImage(a.Path)
	if err != nil {
		return nil, err
	}
	if err := im.AnnotateText(a.Text, geometry.Point{X: a.X, Y: a.Y}, c, opts); err != nil {
		return nil, err
	}
	return annotateResult{Path: a.Path, Annotated: true}, nil
}

func (s *Server) handleClearAnnotations(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	im, err := s.annotatedImage(a.Path)
	if err != nil {
		return nil, err
	}
	im.ClearAnnotations()
	return annotateResult{Path: a.Path, Annotated: false}, nil
}

// === Compositing & Persistence Handlers ===

type compositeArgs struct {
	Path    string   `json:"path"`
	Opacity *float64 `json:"opacity"`
}

// compositeResult carries a composited raster as base64 PNG.
type compositeResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Opacity     float64 `json:"opacity"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
}

func (s *Server) handleComposite(args json.RawMessage) (interface{}, error) {
	var a compositeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opacity := 0.5
	if a.Opacity != nil {
		opacity = *a.Opacity
	}
	im, err := s.annotatedImage(a.Path)
	if err != nil {
		return nil, err
	}
	merged, err := im.AsAnnotated(opacity)
	if err != nil {
		return nil, err
	}
	encoded, err := pngBase64(merged)
	if err != nil {
		return nil, err
	}
	return &compositeResult{
		Width:       merged.Bounds().Dx(),
		Height:      merged.Bounds().Dy(),
		Opacity:     opacity,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

type saveArgs struct {
	Path      string   `json:"path"`
	OutPath   string   `json:"out_path"`
	Annotated *bool    `json:"annotated"`
	Opacity   *float64 `json:"opacity"`
}

type saveResult struct {
	OutPath string `json:"out_path"`
	Saved   bool   `json:"saved"`
}

func (s *Server) handleSave(args json.RawMessage) (interface{}, error) {
	var a saveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutPath == "" {
		return nil, fmt.Errorf("out_path is required")
	}
	annotated := true
	if a.Annotated != nil {
		annotated = *a.Annotated
	}
	opacity := 0.5
	if a.Opacity != nil {
		opacity = *a.Opacity
	}
	im, err := s.annotatedImage(a.Path)
	if err != nil {
		return nil, err
	}
	if err := im.Save(a.OutPath, annotated, opacity); err != nil {
		return nil, err
	}
	return saveResult{OutPath: a.OutPath, Saved: true}, nil
}

// === Region Operation Handlers ===

type cropRegionsArgs struct {
	Path     string     `json:"path"`
	Shapes   []shapeArg `json:"shapes"`
	CropSize []int      `json:"crop_size,omitempty"` // [width, height]
	Pad      int        `json:"pad"`
}

// regionCropResult is one entry of a crop_regions response. Empty entries
// mark shapes whose window clipped away entirely; they keep their position
// so results align with the input shapes.
type regionCropResult struct {
	Index       int    `json:"index"`
	Empty       bool   `json:"empty"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
}

type cropRegionsResult struct {
	Count int                `json:"count"`
	Crops []regionCropResult `json:"crops"`
}

func (a cropRegionsArgs) cropOptions() (imaging.CropOptions, error) {
	opts := imaging.CropOptions{Pad: a.Pad}
	if len(a.CropSize) > 0 {
		if len(a.CropSize) != 2 {
			return opts, fmt.Errorf("crop_size: expected [width, height], got %d values", len(a.CropSize))
		}
		size := image.Pt(a.CropSize[0], a.CropSize[1])
		opts.Size = &size
	}
	return opts, nil
}

func (a cropRegionsArgs) shapes() ([]geometry.Shape, error) {
	shapes := make([]geometry.Shape, len(a.Shapes))
	for i, sa := range a.Shapes {
		s, err := sa.toShape()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes[i] = s
	}
	return shapes, nil
}

func (s *Server) handleCropRegions(args json.RawMessage) (interface{}, error) {
	var a cropRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	shapes, err := a.shapes()
	if err != nil {
		return nil, err
	}
	opts, err := a.cropOptions()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	crops, err := imaging.CropRegions(img, shapes, opts)
	if err != nil {
		return nil, err
	}

	result := &cropRegionsResult{Count: len(crops), Crops: make([]regionCropResult, len(crops))}
	for i, c := range crops {
		entry := regionCropResult{
			Index:  i,
			Empty:  c.Empty(),
			X:      c.Rect.Min.X,
			Y:      c.Rect.Min.Y,
			Width:  c.Rect.Dx(),
			Height: c.Rect.Dy(),
		}
		if !c.Empty() {
			encoded, err := pngBase64(c.Image)
			if err != nil {
				return nil, err
			}
			entry.ImageBase64 = encoded
			entry.MimeType = "image/png"
		}
		result.Crops[i] = entry
	}
	return result, nil
}

type montageArgs struct {
	cropRegionsArgs
	Rows       int `json:"rows"`
	Cols       int `json:"cols"`
	TileWidth  int `json:"tile_width"`
	TileHeight int `json:"tile_height"`
	Gutter     int `json:"gutter"`
}

type montageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Tiles       int    `json:"tiles"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleMontage(args json.RawMessage) (interface{}, error) {
	var a montageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	shapes, err := a.shapes()
	if err != nil {
		return nil, err
	}
	cropOpts, err := a.cropOptions()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	crops, err := imaging.CropRegions(img, shapes, cropOpts)
	if err != nil {
		return nil, err
	}

	if a.TileWidth == 0 {
		a.TileWidth = 150
	}
	if a.TileHeight == 0 {
		a.TileHeight = 150
	}
	m, err := imaging.MontageCrops(crops, imaging.MontageOptions{
		Rows:     a.Rows,
		Cols:     a.Cols,
		TileSize: image.Pt(a.TileWidth, a.TileHeight),
		Gutter:   a.Gutter,
	})
	if err != nil {
		return nil, err
	}
	encoded, err := pngBase64(m)
	if err != nil {
		return nil, err
	}
	return &montageResult{
		Width:       m.Bounds().Dx(),
		Height:      m.Bounds().Dy(),
		Tiles:       len(crops),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
