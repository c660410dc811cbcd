// Package mcp implements the minimal request/response protocol the server
// speaks: newline-delimited JSON requests of the form {method, params?} and
// one JSON response line per request. It also houses the tool registry that
// routes tools/call requests to their handlers.
package mcp

import (
	"encoding/json"
	"fmt"
)

// JSON-RPC style protocol error codes.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request is one incoming line.
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// CallParams carries the payload of a tools/call request.
type CallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Content is one content block of a tool response.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolInfo is the wire form of a registered tool descriptor.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ProtocolError is a protocol-level fault (malformed line, unknown method).
type ProtocolError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Response is one outgoing line. Exactly one of the three shapes is
// populated: content (tool result, optionally flagged isError), tools
// (enumeration result), or error (protocol-level fault).
type Response struct {
	Content []Content      `json:"content,omitempty"`
	Tools   []ToolInfo     `json:"tools,omitempty"`
	IsError bool           `json:"isError,omitempty"`
	Error   *ProtocolError `json:"error,omitempty"`
}

// TextResponse wraps text in a successful single-block response.
func TextResponse(text string) *Response {
	return &Response{Content: []Content{{Type: "text", Text: text}}}
}

// TextErrorResponse wraps text in a tool-level failure response. The session
// stays alive; only the one call is reported failed.
func TextErrorResponse(text string) *Response {
	return &Response{Content: []Content{{Type: "text", Text: text}}, IsError: true}
}

// TextErrorResponsef is TextErrorResponse with formatting.
func TextErrorResponsef(format string, args ...any) *Response {
	return TextErrorResponse(fmt.Sprintf(format, args...))
}

func protocolError(code int, format string, args ...any) *Response {
	return &Response{Error: &ProtocolError{Code: code, Message: fmt.Sprintf(format, args...)}}
}
