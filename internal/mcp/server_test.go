package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	reg := NewRegistry()
	echoTool(t, reg)
	return NewServer(reg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// serveLines feeds input lines through a full Serve call and returns the
// decoded response per line.
func serveLines(t *testing.T, srv *Server, lines ...string) []Response {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	if err := srv.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var responses []Response
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var resp Response
		if err := json.Unmarshal(sc.Bytes(), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", sc.Text(), err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestServeToolsList(t *testing.T) {
	responses := serveLines(t, testServer(t), `{"method":"tools/list"}`)
	if len(responses) != 1 {
		t.Fatalf("responses: %v", responses)
	}
	if len(responses[0].Tools) != 1 || responses[0].Tools[0].Name != "echo" {
		t.Fatalf("tools/list payload: %+v", responses[0])
	}
}

func TestServeToolsCall(t *testing.T) {
	responses := serveLines(t, testServer(t),
		`{"method":"tools/call","params":{"name":"echo","arguments":{"message":"hi"}}}`)
	if len(responses) != 1 {
		t.Fatalf("responses: %v", responses)
	}
	resp := responses[0]
	if resp.IsError || len(resp.Content) != 1 || resp.Content[0].Text != "hi" {
		t.Fatalf("tools/call payload: %+v", resp)
	}
}

func TestServeMalformedLineKeepsSessionAlive(t *testing.T) {
	responses := serveLines(t, testServer(t),
		`{not json`,
		`{"method":"tools/list"}`)
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}
	if responses[0].Error == nil || responses[0].Error.Code != CodeParseError {
		t.Fatalf("first response should be a parse error: %+v", responses[0])
	}
	if len(responses[1].Tools) != 1 {
		t.Fatalf("session should survive the malformed line: %+v", responses[1])
	}
}

func TestServeUnknownMethod(t *testing.T) {
	responses := serveLines(t, testServer(t), `{"method":"resources/list"}`)
	if responses[0].Error == nil || responses[0].Error.Code != CodeMethodNotFound {
		t.Fatalf("unknown method: %+v", responses[0])
	}
	if !strings.Contains(responses[0].Error.Message, "resources/list") {
		t.Fatalf("error should name the method: %+v", responses[0].Error)
	}
}

func TestServeBadCallParams(t *testing.T) {
	responses := serveLines(t, testServer(t),
		`{"method":"tools/call","params":{"arguments":{}}}`,
		`{"method":"tools/call","params":"nope"}`)
	for i, resp := range responses {
		if resp.Error == nil || resp.Error.Code != CodeInvalidParams {
			t.Fatalf("response %d should be invalid-params: %+v", i, resp)
		}
	}
}

func TestServeEOFIsCleanExit(t *testing.T) {
	srv := testServer(t)
	var out bytes.Buffer
	if err := srv.Serve(context.Background(), strings.NewReader(""), &out); err != nil {
		t.Fatalf("EOF should not be an error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("no requests means no responses, got %q", out.String())
	}
}

func TestServeSkipsBlankLines(t *testing.T) {
	responses := serveLines(t, testServer(t),
		``,
		`   `,
		`{"method":"tools/list"}`)
	if len(responses) != 1 {
		t.Fatalf("blank lines must not produce responses: %v", responses)
	}
}

func TestServeOneResponsePerRequest(t *testing.T) {
	lines := []string{
		`{"method":"tools/list"}`,
		`{"method":"tools/call","params":{"name":"missing","arguments":{}}}`,
		`{"method":"tools/call","params":{"name":"echo","arguments":{"message":"x"}}}`,
	}
	responses := serveLines(t, testServer(t), lines...)
	if len(responses) != len(lines) {
		t.Fatalf("expected %d responses, got %d", len(lines), len(responses))
	}
}
