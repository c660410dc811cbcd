package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const echoSchema = `{
	"type": "object",
	"properties": {
		"message": {"type": "string"}
	},
	"required": ["message"],
	"additionalProperties": false
}`

func echoTool(t *testing.T, reg *Registry) {
	t.Helper()
	err := reg.Register(Tool{
		Name:        "echo",
		Description: "Echo a message back",
		InputSchema: json.RawMessage(echoSchema),
		Handler: func(ctx context.Context, args map[string]any) (*Response, error) {
			return TextResponse(args["message"].(string)), nil
		},
	})
	if err != nil {
		t.Fatalf("register echo: %v", err)
	}
}

func TestListMatchesRegisteredNames(t *testing.T) {
	reg := NewRegistry()
	echoTool(t, reg)
	if err := reg.Register(Tool{
		Name:        "noop",
		Description: "Do nothing",
		Handler: func(ctx context.Context, args map[string]any) (*Response, error) {
			return TextResponse("ok"), nil
		},
	}); err != nil {
		t.Fatalf("register noop: %v", err)
	}

	infos := reg.List()
	if len(infos) != 2 {
		t.Fatalf("List: %v", infos)
	}
	if infos[0].Name != "echo" || infos[1].Name != "noop" {
		t.Fatalf("registration order not preserved: %v", infos)
	}
	for _, info := range infos {
		resp := reg.Dispatch(context.Background(), info.Name, map[string]any{"message": "hi"})
		if resp == nil {
			t.Fatalf("dispatch %s returned nil", info.Name)
		}
	}
}

func TestDispatchUnknownToolNamesIt(t *testing.T) {
	reg := NewRegistry()
	echoTool(t, reg)
	for _, name := range []string{"bogus", "annotate", "", "echo2"} {
		resp := reg.Dispatch(context.Background(), name, nil)
		if !resp.IsError {
			t.Fatalf("dispatch %q should be a tool-level error", name)
		}
		if len(resp.Content) != 1 || !strings.Contains(resp.Content[0].Text, name) {
			t.Fatalf("error response should contain the name %q: %+v", name, resp)
		}
	}
}

func TestDispatchValidatesArguments(t *testing.T) {
	reg := NewRegistry()
	echoTool(t, reg)

	resp := reg.Dispatch(context.Background(), "echo", map[string]any{})
	if !resp.IsError || !strings.Contains(resp.Content[0].Text, "Invalid arguments") {
		t.Fatalf("missing required arg should fail validation: %+v", resp)
	}

	resp = reg.Dispatch(context.Background(), "echo", map[string]any{"message": 7})
	if !resp.IsError {
		t.Fatalf("wrong type should fail validation: %+v", resp)
	}

	resp = reg.Dispatch(context.Background(), "echo", map[string]any{"message": "hello"})
	if resp.IsError {
		t.Fatalf("valid args rejected: %+v", resp)
	}
	if resp.Content[0].Text != "hello" {
		t.Fatalf("handler output: %+v", resp)
	}
}

func TestDispatchConvertsHandlerErrors(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Tool{
		Name: "broken",
		Handler: func(ctx context.Context, args map[string]any) (*Response, error) {
			return nil, errors.New("pipeline exploded")
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	resp := reg.Dispatch(context.Background(), "broken", nil)
	if !resp.IsError {
		t.Fatal("handler error should become a tool-level error response")
	}
	text := resp.Content[0].Text
	if !strings.Contains(text, "broken") || !strings.Contains(text, "pipeline exploded") {
		t.Fatalf("error response should carry tool name and message: %q", text)
	}
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Tool{
		Name: "panicky",
		Handler: func(ctx context.Context, args map[string]any) (*Response, error) {
			panic("boom")
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	resp := reg.Dispatch(context.Background(), "panicky", nil)
	if !resp.IsError || !strings.Contains(resp.Content[0].Text, "panicky") {
		t.Fatalf("panic should become an error response: %+v", resp)
	}
}

func TestRegisterRejectsDuplicatesAndBadSchemas(t *testing.T) {
	reg := NewRegistry()
	echoTool(t, reg)
	err := reg.Register(Tool{
		Name:    "echo",
		Handler: func(ctx context.Context, args map[string]any) (*Response, error) { return nil, nil },
	})
	if err == nil {
		t.Fatal("duplicate name should be rejected")
	}
	err = reg.Register(Tool{
		Name:        "badschema",
		InputSchema: json.RawMessage(`{"type": ["not-a-type"]}`),
		Handler:     func(ctx context.Context, args map[string]any) (*Response, error) { return nil, nil },
	})
	if err == nil {
		t.Fatal("uncompilable schema should be rejected")
	}
}
