// Package server implements the MCP (Model Context Protocol) server for the
// bold text pipeline.
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
//   - bold_text_scan: Capture a frame, detect text, store the bold detections
//   - bold_text_classify: Apply the boldness heuristic to one region
//   - bold_text_records: List stored records
//
// Scans are serialized: only one pipeline run touches the store at a time.
// Each tool call reads the server's configuration; scan arguments override a
// copy of it for that call only.
//
// # Logging
//
// Logs go to stderr since stdout carries the protocol. Set
// BOLDTEXT_LOG_LEVEL=debug for per-detection output.
package server
