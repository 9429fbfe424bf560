package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the shared schema fragment for the image path argument.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// shapeProperty is the shared schema fragment for a geometry argument.
// The kind field selects the variant; the matching coordinate field carries
// [x, y] pairs in pixel space.
func shapeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Geometry to draw. kind is one of polygon, linestring, linearring, multilinestring. polygon uses exterior (and optional holes); linestring and linearring use coords; multilinestring uses lines.",
		"properties": map[string]interface{}{
			"kind": map[string]interface{}{
				"type": "string",
				"enum": []string{"polygon", "linestring", "linearring", "multilinestring"},
			},
			"exterior": map[string]interface{}{
				"type":        "array",
				"description": "Outer ring as [x, y] pairs (polygon only)",
			},
			"holes": map[string]interface{}{
				"type":        "array",
				"description": "Interior rings, each an array of [x, y] pairs (polygon only)",
			},
			"coords": map[string]interface{}{
				"type":        "array",
				"description": "Vertices as [x, y] pairs (linestring and linearring)",
			},
			"lines": map[string]interface{}{
				"type":        "array",
				"description": "Component linestrings, each an array of [x, y] pairs (multilinestring only)",
			},
		},
		"required": []string{"kind"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, and channel count. Loaded images are cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Annotation Operations
		{
			Name:        "image_annotate_shape",
			Description: "Draw a geometry (polygon, linestring, linearring, or multilinestring) onto an image's annotation layer. The base image pixels are not modified; use image_composite or image_save to merge.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"shape": shapeProperty(),
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Stroke color as hex (e.g., #ff0000). Default red",
					},
					"fill_color": map[string]interface{}{
						"type":        "string",
						"description": "Optional fill color as hex. Polygons only; holes are left unfilled",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Stroke width in pixels. Default 1",
					},
				},
				"required": []string{"path", "shape"},
			},
		},
		{
			Name:        "image_annotate_point",
			Description: "Draw a small filled marker dot at a coordinate on the annotation layer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "number",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Y coordinate (0-based, from top)",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Marker color as hex. Default red",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_annotate_line",
			Description: "Draw a line segment between two points on the annotation layer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "number",
						"description": "Start point X coordinate",
					},
					"y1": map[string]interface{}{
						"type":        "number",
						"description": "Start point Y coordinate",
					},
					"x2": map[string]interface{}{
						"type":        "number",
						"description": "End point X coordinate",
					},
					"y2": map[string]interface{}{
						"type":        "number",
						"description": "End point Y coordinate",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Line color as hex. Default red",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Line width in pixels. Default 1",
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_annotate_rect",
			Description: "Draw an axis-aligned rectangle on the annotation layer. A negative thickness fills the rectangle.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Rectangle color as hex. Default red",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Stroke width in pixels; negative fills. Default 1",
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_annotate_circle",
			Description: "Draw a circle on the annotation layer. A negative thickness fills the circle.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "number",
						"description": "Center X coordinate",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Center Y coordinate",
					},
					"radius": map[string]interface{}{
						"type":        "number",
						"description": "Circle radius in pixels",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Circle color as hex. Default red",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Stroke width in pixels; negative fills. Default 1",
					},
				},
				"required": []string{"path", "x", "y", "radius"},
			},
		},
		{
			Name:        "image_annotate_text",
			Description: "Draw a text label at a coordinate on the annotation layer, with an optional background box.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Label text. Empty strings draw nothing",
					},
					"x": map[string]interface{}{
						"type":        "number",
						"description": "Baseline X coordinate",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Baseline Y coordinate",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Text color as hex. Default black",
					},
					"bg_color": map[string]interface{}{
						"type":        "string",
						"description": "Optional background box color as hex",
					},
					"font_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to a TTF font file. Default is a built-in bitmap face",
					},
					"font_size": map[string]interface{}{
						"type":        "number",
						"description": "Font size in points (TTF fonts only). Default 12",
					},
				},
				"required": []string{"path", "text", "x", "y"},
			},
		},
		{
			Name:        "image_clear_annotations",
			Description: "Discard all annotations on an image, restoring a blank annotation layer. The base image is untouched.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Compositing & Persistence
		{
			Name:        "image_composite",
			Description: "Merge an image's annotation layer onto its base pixels at a given opacity and return the result as base64-encoded PNG. Unannotated pixels pass through unchanged.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"opacity": map[string]interface{}{
						"type":        "number",
						"description": "Annotation opacity from 0.0 (invisible) to 1.0 (solid). Default 0.5",
						"default":     0.5,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_save",
			Description: "Write an image to disk, either the bare base pixels or the annotated composite. Format is chosen by the output file extension.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"out_path": map[string]interface{}{
						"type":        "string",
						"description": "Destination file path; the extension selects the format",
					},
					"annotated": map[string]interface{}{
						"type":        "boolean",
						"description": "Write the annotated composite instead of the bare base image. Default true",
						"default":     true,
					},
					"opacity": map[string]interface{}{
						"type":        "number",
						"description": "Annotation opacity when annotated is true. Default 0.5",
						"default":     0.5,
					},
				},
				"required": []string{"path", "out_path"},
			},
		},

		// Region Operations
		{
			Name:        "image_crop_regions",
			Description: "Crop one sub-image per shape, either the shape's bounding box (optionally padded) or a fixed-size window centered on its centroid. Results keep the input order; shapes whose window falls outside the image yield empty entries.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"shapes": map[string]interface{}{
						"type":        "array",
						"description": "Shapes to crop around, one crop per shape",
						"items":       shapeProperty(),
					},
					"crop_size": map[string]interface{}{
						"type":        "array",
						"description": "Optional [width, height] for fixed-size windows centered on each shape's centroid. Omit for bounding-box crops",
					},
					"pad": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels of padding around each bounding box. Ignored with crop_size",
					},
				},
				"required": []string{"path", "shapes"},
			},
		},
		{
			Name:        "image_montage",
			Description: "Crop regions as in image_crop_regions and arrange them on a grid canvas for side-by-side review. Returns the montage as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"shapes": map[string]interface{}{
						"type":        "array",
						"description": "Shapes to crop and tile",
						"items":       shapeProperty(),
					},
					"crop_size": map[string]interface{}{
						"type":        "array",
						"description": "Optional [width, height] for fixed-size crop windows",
					},
					"pad": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels of padding around each bounding box. Ignored with crop_size",
					},
					"rows": map[string]interface{}{
						"type":        "integer",
						"description": "Grid row count",
					},
					"cols": map[string]interface{}{
						"type":        "integer",
						"description": "Grid column count",
					},
					"tile_width": map[string]interface{}{
						"type":        "integer",
						"description": "Cell width in pixels. Default 150",
					},
					"tile_height": map[string]interface{}{
						"type":        "integer",
						"description": "Cell height in pixels. Default 150",
					},
					"gutter": map[string]interface{}{
						"type":        "integer",
						"description": "Spacing between cells in pixels. Default 0",
					},
				},
				"required": []string{"path", "shapes", "rows", "cols"},
			},
		},
	}
}
