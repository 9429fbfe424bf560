// Package server implements the MCP (Model Context Protocol) server for image annotation tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the annotation and
// region-cropping capabilities through the MCP protocol. It's designed to work
// with Claude and other MCP-compatible clients, letting AI systems mark up
// images and extract regions of interest without touching the originals.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// The server provides 13 tools organized into categories:
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Annotation Operations:
//   - image_annotate_shape: Draw a geometry (polygon, linestring, ...)
//   - image_annotate_point: Draw a marker dot
//   - image_annotate_line: Draw a line segment
//   - image_annotate_rect: Draw a rectangle
//   - image_annotate_circle: Draw a circle
//   - image_annotate_text: Draw a text label
//   - image_clear_annotations: Discard all annotations
//
// Compositing & Persistence:
//   - image_composite: Merge annotations onto the base at an opacity
//   - image_save: Write the base or annotated image to disk
//
// Region Operations:
//   - image_crop_regions: One crop per shape (bounding box or fixed window)
//   - image_montage: Tile region crops onto a review grid
//
// # Image State
//
// The server maintains an in-memory cache of decoded images, keyed by path,
// plus one annotation overlay per path. Annotation calls against the same
// path accumulate on the same overlay until image_clear_annotations resets
// it. Both persist for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
