// Package mcp provides an MCP (Model Context Protocol) server adapter for ad.
// It lets AI assistants run the queens, colony and sort engines and read the
// user table and run history.
package mcp

import "errors"

// ErrMissingUserService is returned when the user service is not provided.
var ErrMissingUserService = errors.New("mcp: user service is required")

// errUnavailable is returned by a tool whose service was not wired.
var errUnavailable = errors.New("mcp: service not available")
