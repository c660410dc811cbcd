package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// maxLineBytes bounds a single request line.
const maxLineBytes = 4 * 1024 * 1024

// Server runs the transport loop: one JSON request per input line, one JSON
// response per output line. A malformed request never terminates the
// session; only end-of-input (or a read error) does.
type Server struct {
	registry *Registry
	logger   *slog.Logger
}

func NewServer(registry *Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{registry: registry, logger: logger}
}

// Serve reads requests from in until end-of-input and writes exactly one
// flushed response line per request to out. EOF is a clean exit, not an
// error. The context bounds in-flight handlers and stops the loop between
// requests when cancelled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	w := bufio.NewWriter(out)

	for sc.Scan() {
		if ctx.Err() != nil {
			s.logger.Info("transport loop stopping", "reason", ctx.Err())
			return nil
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		resp := s.handleLine(ctx, line)
		if err := writeResponse(w, resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	s.logger.Info("input channel closed, shutting down")
	return nil
}

// handleLine parses one request line and routes it. Every failure mode maps
// to a response; nothing escapes to Serve.
func (s *Server) handleLine(ctx context.Context, line []byte) *Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("malformed request line", "error", err)
		return protocolError(CodeParseError, "parse request: %v", err)
	}

	switch req.Method {
	case "tools/list":
		return &Response{Tools: s.registry.List()}
	case "tools/call":
		var params CallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return protocolError(CodeInvalidParams, "parse tools/call params: %v", err)
		}
		if params.Name == "" {
			return protocolError(CodeInvalidParams, "tools/call requires a tool name")
		}
		s.logger.Info("dispatching tool call", "tool", params.Name)
		return s.registry.Dispatch(ctx, params.Name, params.Arguments)
	default:
		return protocolError(CodeMethodNotFound, "unknown method: %s", req.Method)
	}
}

func writeResponse(w *bufio.Writer, resp *Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		// Marshal of our own response types should not fail; degrade to a
		// protocol error rather than dropping the response line.
		b, _ = json.Marshal(protocolError(CodeInternalError, "encode response: %v", err))
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}
