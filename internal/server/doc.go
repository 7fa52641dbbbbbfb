// Package server implements the MCP (Model Context Protocol) server for the
// Hough detection tools.
//
// This package provides a JSON-RPC 2.0 server that exposes edge extraction,
// Hough line, segment, circle and lane detection, and accumulator
// visualisation through the MCP protocol.
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
// Basic Image Information:
//   - image_load: Load a frame and get its metadata and default region
//   - image_dimensions: Get width and height
//
// Edge Extraction:
//   - hough_edges: The binary edge image the transforms vote from
//
// Detection:
//   - hough_detect_lines: Infinite lines (θ, ρ) with their border crossings
//   - hough_detect_segments: Finite segments traced along each line
//   - hough_detect_circles: Circles of one radius or a radius range
//   - hough_detect_lanes: Left and right lane lines and the horizon point
//
// Visualisation:
//   - hough_accumulator: The line or circle parameter space as an image
//   - hough_annotate: The frame with detections drawn on it
//
// # Arguments
//
// Every detection tool takes the path of the frame plus any of the
// parameters in config.Params, by their JSON names. Parameters left out keep
// the values from config.Defaults. Numbers may be sent as strings. Unknown
// argument names are rejected so that a misspelt threshold is not silently
// ignored.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded frames. Frames are cached
// by path and reused across tool calls, so trying several thresholds on one
// frame decodes it once. The cache persists for the lifetime of the server
// process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, listing every invalid parameter
//
// # Usage
//
//	srv := server.New(server.WithLogger(logging.FromEnv()))
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server failed")
//	}
//
// Logs go to stderr; stdout carries only protocol messages.
package server
