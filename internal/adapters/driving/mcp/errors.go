// Package mcp provides an MCP (Model Context Protocol) server adapter for Refrag.
// It enables AI assistants like Claude to ask cited questions against pushed
// knowledge bases.
package mcp

import "errors"

// ErrMissingQAService is returned when the question-answering service is not provided.
var ErrMissingQAService = errors.New("mcp: qa service is required")

// ErrMissingRegistryService is returned when the registry service is not provided.
var ErrMissingRegistryService = errors.New("mcp: registry service is required")
