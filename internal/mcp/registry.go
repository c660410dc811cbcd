package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Handler executes one tool call. Arguments have already been validated
// against the tool's input schema. A returned error is converted to a
// tool-level error response at the dispatch boundary; it never reaches the
// transport loop.
type Handler func(ctx context.Context, args map[string]any) (*Response, error)

// Tool couples a descriptor with its handler. InputSchema must be a valid
// JSON Schema document; it is compiled once at registration.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// Registry holds the set of named tools. It is populated at startup and
// read-only afterwards, so dispatch is safe for concurrent use.
type Registry struct {
	order    []string
	tools    map[string]Tool
	compiled map[string]*jsonschema.Schema
}

func NewRegistry() *Registry {
	return &Registry{
		tools:    make(map[string]Tool),
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Register adds a tool, compiling its input schema. Duplicate names and
// uncompilable schemas are registration errors.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("register tool: name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("register tool %q: handler is required", t.Name)
	}
	if _, dup := r.tools[t.Name]; dup {
		return fmt.Errorf("register tool %q: duplicate name", t.Name)
	}
	if len(t.InputSchema) > 0 {
		schema, err := jsonschema.CompileString(t.Name+".schema.json", string(t.InputSchema))
		if err != nil {
			return fmt.Errorf("register tool %q: compile schema: %w", t.Name, err)
		}
		r.compiled[t.Name] = schema
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// List returns descriptors for every registered tool, in registration order.
func (r *Registry) List() []ToolInfo {
	out := make([]ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, ToolInfo{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
	}
	return out
}

// Dispatch routes one call to its handler. It always returns a response:
// unknown names, schema violations, handler errors, and handler panics all
// become tool-level error responses.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			resp = TextErrorResponsef("Error executing %s: internal failure: %v", name, rec)
		}
	}()

	t, ok := r.tools[name]
	if !ok {
		return TextErrorResponsef("Unknown tool: %s", name)
	}
	if args == nil {
		args = map[string]any{}
	}
	if schema := r.compiled[name]; schema != nil {
		if err := schema.Validate(toJSONValue(args)); err != nil {
			return TextErrorResponsef("Invalid arguments for %s: %v", name, err)
		}
	}

	out, err := t.Handler(ctx, args)
	if err != nil {
		return TextErrorResponsef("Error executing %s: %v", name, err)
	}
	return out
}

// toJSONValue round-trips v through encoding/json so the schema validator
// sees canonical JSON types regardless of how the map was assembled.
func toJSONValue(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}
