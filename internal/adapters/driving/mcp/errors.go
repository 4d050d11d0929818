// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Tracedoc. It lets AI assistants ask questions over the indexed
// corpus and read individual chunks with their provenance.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
