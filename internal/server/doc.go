// Package server implements the MCP (Model Context Protocol) server for the
// layout advisor.
//
// This package provides a JSON-RPC 2.0 server that exposes furniture layout
// comparison through the MCP protocol, so an assistant can compare a room
// photo with a reference photo and relay the move suggestions.
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
//   - furniture_detect: Detect furniture in one image
//   - furniture_compare: Compare a room image with a reference image, return
//     suggestions and the annotated room image
//   - furniture_vocabulary: Describe the recognized furniture categories
//
// # Request Isolation
//
// Every tool call decodes its images, detects and annotates from scratch.
// Nothing is cached between calls; only the detector handle is shared.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
package server
