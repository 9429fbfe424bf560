package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImageFile creates a solid-color test image and returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}

	return path
}

// callTool runs a tool through executeTool with JSON-encoded arguments.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (interface{}, error) {
	t.Helper()

	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal arguments: %v", err)
	}
	return s.executeTool(name, raw)
}

// decodePNGBase64 decodes a base64 PNG produced by a tool result.
func decodePNGBase64(t *testing.T, encoded string) image.Image {
	t.Helper()

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func TestExecuteTool_ImageLoad(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	result, err := callTool(t, s, "image_load", map[string]interface{}{"path": imgPath})
	if err != nil {
		t.Fatalf("image_load failed: %v", err)
	}

	data, _ := json.Marshal(result)
	var info map[string]interface{}
	if err := json.Unmarshal(data, &info); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if info["width"] != float64(100) || info["height"] != float64(80) {
		t.Errorf("dimensions: got %vx%v, want 100x80", info["width"], info["height"])
	}
}

func TestExecuteTool_ImageDimensions(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	result, err := callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath})
	if err != nil {
		t.Fatalf("image_dimensions failed: %v", err)
	}

	data, _ := json.Marshal(result)
	var dims map[string]interface{}
	if err := json.Unmarshal(data, &dims); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if dims["width"] != float64(200) || dims["height"] != float64(150) {
		t.Errorf("dimensions: got %vx%v, want 200x150", dims["width"], dims["height"])
	}
}

func TestExecuteTool_AnnotateAndComposite(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 60, 60, color.RGBA{0, 0, 255, 255})

	// Fill a rectangle in solid red on the annotation layer.
	_, err := callTool(t, s, "image_annotate_rect", map[string]interface{}{
		"path": imgPath,
		"x1":   10, "y1": 10, "x2": 30, "y2": 30,
		"color":     "#ff0000",
		"thickness": -1,
	})
	if err != nil {
		t.Fatalf("image_annotate_rect failed: %v", err)
	}

	result, err := callTool(t, s, "image_composite", map[string]interface{}{
		"path":    imgPath,
		"opacity": 1.0,
	})
	if err != nil {
		t.Fatalf("image_composite failed: %v", err)
	}

	comp, ok := result.(*compositeResult)
	if !ok {
		t.Fatalf("result type: got %T, want *compositeResult", result)
	}
	if comp.Width != 60 || comp.Height != 60 {
		t.Errorf("composite dimensions: got %dx%d, want 60x60", comp.Width, comp.Height)
	}

	merged := decodePNGBase64(t, comp.ImageBase64)

	r, g, b, _ := merged.At(20, 20).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("annotated pixel: got (%d,%d,%d), want (255,0,0)", r>>8, g>>8, b>>8)
	}

	r, g, b, _ = merged.At(50, 50).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 255 {
		t.Errorf("untouched pixel: got (%d,%d,%d), want (0,0,255)", r>>8, g>>8, b>>8)
	}
}

func TestExecuteTool_AnnotateShape(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{0, 0, 0, 255})

	_, err := callTool(t, s, "image_annotate_shape", map[string]interface{}{
		"path": imgPath,
		"shape": map[string]interface{}{
			"kind":     "polygon",
			"exterior": [][]float64{{10, 10}, {90, 10}, {90, 90}, {10, 90}},
		},
		"fill_color": "#ffffff",
	})
	if err != nil {
		t.Fatalf("image_annotate_shape failed: %v", err)
	}

	result, err := callTool(t, s, "image_composite", map[string]interface{}{
		"path":    imgPath,
		"opacity": 1.0,
	})
	if err != nil {
		t.Fatalf("image_composite failed: %v", err)
	}
	merged := decodePNGBase64(t, result.(*compositeResult).ImageBase64)

	r, g, b, _ := merged.At(50, 50).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("filled pixel: got (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestExecuteTool_AnnotateShape_BadKind(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 50, 50, color.RGBA{0, 0, 0, 255})

	_, err := callTool(t, s, "image_annotate_shape", map[string]interface{}{
		"path": imgPath,
		"shape": map[string]interface{}{
			"kind":   "triangle",
			"coords": [][]float64{{0, 0}, {10, 0}, {5, 10}},
		},
	})
	if err == nil {
		t.Fatal("Expected error for unknown shape kind")
	}
}

func TestExecuteTool_AnnotateShape_BadColor(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 50, 50, color.RGBA{0, 0, 0, 255})

	_, err := callTool(t, s, "image_annotate_shape", map[string]interface{}{
		"path": imgPath,
		"shape": map[string]interface{}{
			"kind":   "linestring",
			"coords": [][]float64{{0, 0}, {10, 10}},
		},
		"color": "not-a-color",
	})
	if err == nil {
		t.Fatal("Expected error for invalid color")
	}
}

func TestExecuteTool_ClearAnnotations(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 40, 40, color.RGBA{0, 0, 255, 255})

	_, err := callTool(t, s, "image_annotate_point", map[string]interface{}{
		"path": imgPath,
		"x":    20.0, "y": 20.0,
	})
	if err != nil {
		t.Fatalf("image_annotate_point failed: %v", err)
	}

	_, err = callTool(t, s, "image_clear_annotations", map[string]interface{}{"path": imgPath})
	if err != nil {
		t.Fatalf("image_clear_annotations failed: %v", err)
	}

	result, err := callTool(t, s, "image_composite", map[string]interface{}{
		"path":    imgPath,
		"opacity": 1.0,
	})
	if err != nil {
		t.Fatalf("image_composite failed: %v", err)
	}
	merged := decodePNGBase64(t, result.(*compositeResult).ImageBase64)

	r, g, b, _ := merged.At(20, 20).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 255 {
		t.Errorf("cleared pixel: got (%d,%d,%d), want base blue", r>>8, g>>8, b>>8)
	}
}

func TestExecuteTool_Save(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 30, 30, color.RGBA{0, 255, 0, 255})
	outPath := filepath.Join(t.TempDir(), "out.png")

	_, err := callTool(t, s, "image_save", map[string]interface{}{
		"path":     imgPath,
		"out_path": outPath,
	})
	if err != nil {
		t.Fatalf("image_save failed: %v", err)
	}

	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("saved file not found: %v", err)
	}
}

func TestExecuteTool_Save_MissingOutPath(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 30, 30, color.RGBA{0, 255, 0, 255})

	_, err := callTool(t, s, "image_save", map[string]interface{}{"path": imgPath})
	if err == nil {
		t.Fatal("Expected error for missing out_path")
	}
}

func TestExecuteTool_CropRegions(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{128, 128, 128, 255})

	result, err := callTool(t, s, "image_crop_regions", map[string]interface{}{
		"path": imgPath,
		"shapes": []map[string]interface{}{
			{
				"kind":     "polygon",
				"exterior": [][]float64{{10, 10}, {40, 10}, {40, 50}, {10, 50}},
			},
			{
				// Entirely off-image, should produce an empty entry.
				"kind":     "polygon",
				"exterior": [][]float64{{200, 200}, {250, 200}, {250, 250}, {200, 250}},
			},
		},
	})
	if err != nil {
		t.Fatalf("image_crop_regions failed: %v", err)
	}

	crops, ok := result.(*cropRegionsResult)
	if !ok {
		t.Fatalf("result type: got %T, want *cropRegionsResult", result)
	}
	if crops.Count != 2 {
		t.Fatalf("count: got %d, want 2", crops.Count)
	}

	first := crops.Crops[0]
	if first.Empty {
		t.Fatal("first crop should not be empty")
	}
	if first.X != 10 || first.Y != 10 || first.Width != 30 || first.Height != 40 {
		t.Errorf("first crop window: got (%d,%d) %dx%d, want (10,10) 30x40",
			first.X, first.Y, first.Width, first.Height)
	}
	tile := decodePNGBase64(t, first.ImageBase64)
	if tile.Bounds().Dx() != 30 || tile.Bounds().Dy() != 40 {
		t.Errorf("decoded crop: got %dx%d, want 30x40", tile.Bounds().Dx(), tile.Bounds().Dy())
	}

	second := crops.Crops[1]
	if !second.Empty {
		t.Error("off-image crop should be empty")
	}
	if second.ImageBase64 != "" {
		t.Error("empty crop should carry no image data")
	}
}

func TestExecuteTool_CropRegions_FixedSize(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{128, 128, 128, 255})

	result, err := callTool(t, s, "image_crop_regions", map[string]interface{}{
		"path": imgPath,
		"shapes": []map[string]interface{}{
			{
				"kind":   "linestring",
				"coords": [][]float64{{40, 50}, {60, 50}},
			},
		},
		"crop_size": []int{20, 20},
	})
	if err != nil {
		t.Fatalf("image_crop_regions failed: %v", err)
	}

	crops := result.(*cropRegionsResult)
	c := crops.Crops[0]
	if c.X != 40 || c.Y != 40 || c.Width != 20 || c.Height != 20 {
		t.Errorf("window: got (%d,%d) %dx%d, want (40,40) 20x20", c.X, c.Y, c.Width, c.Height)
	}
}

func TestExecuteTool_CropRegions_BadCropSize(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{128, 128, 128, 255})

	_, err := callTool(t, s, "image_crop_regions", map[string]interface{}{
		"path": imgPath,
		"shapes": []map[string]interface{}{
			{"kind": "linestring", "coords": [][]float64{{0, 0}, {10, 10}}},
		},
		"crop_size": []int{20},
	})
	if err == nil {
		t.Fatal("Expected error for malformed crop_size")
	}
}

func TestExecuteTool_Montage(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{200, 100, 50, 255})

	result, err := callTool(t, s, "image_montage", map[string]interface{}{
		"path": imgPath,
		"shapes": []map[string]interface{}{
			{"kind": "polygon", "exterior": [][]float64{{0, 0}, {40, 0}, {40, 40}, {0, 40}}},
			{"kind": "polygon", "exterior": [][]float64{{50, 50}, {90, 50}, {90, 90}, {50, 90}}},
		},
		"rows": 1, "cols": 2,
		"tile_width": 50, "tile_height": 50,
		"gutter": 5,
	})
	if err != nil {
		t.Fatalf("image_montage failed: %v", err)
	}

	m, ok := result.(*montageResult)
	if !ok {
		t.Fatalf("result type: got %T, want *montageResult", result)
	}
	if m.Tiles != 2 {
		t.Errorf("tiles: got %d, want 2", m.Tiles)
	}
	// 2 cols of 50px with 3 gutters of 5px; 1 row with 2 gutters.
	if m.Width != 115 || m.Height != 60 {
		t.Errorf("montage dimensions: got %dx%d, want 115x60", m.Width, m.Height)
	}

	tile := decodePNGBase64(t, m.ImageBase64)
	if tile.Bounds().Dx() != 115 || tile.Bounds().Dy() != 60 {
		t.Errorf("decoded montage: got %dx%d", tile.Bounds().Dx(), tile.Bounds().Dy())
	}
}

func TestExecuteTool_NonExistentFile(t *testing.T) {
	s := New()

	_, err := callTool(t, s, "image_load", map[string]interface{}{
		"path": "/nonexistent/image.png",
	})
	if err == nil {
		t.Fatal("Expected error for non-existent file")
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New()

	_, err := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	if err == nil {
		t.Fatal("Expected error for unknown tool")
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{not json`),
	}

	resp := s.handleToolsCall(req)
	if resp.Error == nil {
		t.Fatal("Expected error for malformed params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error.Code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_ToolError(t *testing.T) {
	s := New()

	params, _ := json.Marshal(map[string]interface{}{
		"name":      "image_load",
		"arguments": map[string]interface{}{"path": "/missing.png"},
	})
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	}

	resp := s.handleToolsCall(req)
	if resp.Error == nil {
		t.Fatal("Expected error response")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error.Code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_ContentWrapper(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 25, 25, color.RGBA{255, 255, 255, 255})

	params, _ := json.Marshal(map[string]interface{}{
		"name":      "image_dimensions",
		"arguments": map[string]interface{}{"path": imgPath},
	})
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	}

	resp := s.handleToolsCall(req)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatal("Result should contain one content entry")
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
}

func TestAnnotatedImage_Accumulates(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 20, 20, color.RGBA{0, 0, 0, 255})

	im1, err := s.annotatedImage(imgPath)
	if err != nil {
		t.Fatalf("annotatedImage failed: %v", err)
	}
	im2, err := s.annotatedImage(imgPath)
	if err != nil {
		t.Fatalf("annotatedImage failed: %v", err)
	}

	if im1 != im2 {
		t.Error("Expected the same annotated image across calls")
	}
}
