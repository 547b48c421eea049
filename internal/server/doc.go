// Package server implements the MCP (Model Context Protocol) server for the
// speed measurement pipeline.
//
// This package provides a JSON-RPC 2.0 server that exposes marker tracking,
// detection decoding and speed calculation through the MCP protocol, so an
// MCP-compatible client can drive a measurement session step by step.
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
// Frame Operations:
//   - frame_info: Load a frame and get its metadata
//
// Marker Tracking:
//   - setup_markers: Capture the reference marker set
//   - track_markers: Re-locate markers on a new frame
//   - reset_markers: Discard the marker set
//   - marker_status: Report marker states without tracking
//
// Detection:
//   - decode_detections: Decode raw detector rows into labeled boxes
//   - cluster_detections: Merge near-duplicate detections
//
// Calibration and Speed:
//   - set_calibration: Derive the cm-per-pixel scale
//   - calculate_speed: Compute speed over a tracked trajectory
//   - convert_speed: Convert between display units
//   - list_shots: Review persisted measurements
//
// Visualization:
//   - render_overlay: Draw markers and clusters onto a frame
//
// # Frame Caching
//
// The server maintains an in-memory cache of loaded frames. Frames are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
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
//	srv := server.New(pipeline.New(config.Default()))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
