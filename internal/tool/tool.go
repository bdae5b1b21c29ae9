// Package tool provides the tool functions exposed to the agent runtime.
//
// Every tool takes primitive JSON arguments plus an opaque per-session state
// handle and produces a JSON object. Failures never surface to the model as
// transport errors: the eino adapter encodes them as an object with a single
// "error" string key and lets the model decide how to present them.
package tool

import (
	"context"
	"encoding/json"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/devmate-ai/devmate/internal/event"
	"github.com/devmate-ai/devmate/internal/session"
)

// Tool defines the interface for all tools.
type Tool interface {
	// ID returns the tool identifier.
	ID() string

	// Description returns the tool description shown to the model.
	Description() string

	// Parameters returns the JSON Schema for tool parameters.
	Parameters() json.RawMessage

	// Execute runs the tool. A returned error is a tool-level failure and
	// is delivered to the model as an "error" payload, not propagated.
	Execute(ctx context.Context, input json.RawMessage, toolCtx *Context) (*Result, error)
}

// Context provides execution context to tools.
type Context struct {
	SessionID string
	CallID    string
	Agent     string
	WorkDir   string
	State     *session.State
	Extra     map[string]any

	// Metadata callback for progress updates.
	OnMetadata func(title string, meta map[string]any)
}

// SetMetadata reports tool execution metadata when a listener is attached.
func (c *Context) SetMetadata(title string, meta map[string]any) {
	if c.OnMetadata != nil {
		c.OnMetadata(title, meta)
	}
}

// Result represents the output of a tool execution.
type Result struct {
	Title   string         `json:"title"`
	Output  string         `json:"output"`
	Payload map[string]any `json:"payload,omitempty"`
}

// AsEinoTool adapts a Tool for the eino runtime, binding it to an execution
// context. The adapter owns the error contract: Execute failures become
// {"error": "..."} payloads and InvokableRun itself never returns an error
// for tool-level problems.
func AsEinoTool(t Tool, base *Context) einotool.InvokableTool {
	return &einoToolWrapper{tool: t, base: base}
}

type einoToolWrapper struct {
	tool Tool
	base *Context
}

// Info returns the tool information.
func (w *einoToolWrapper) Info(ctx context.Context) (*schema.ToolInfo, error) {
	params := parseJSONSchemaToParams(w.tool.Parameters())
	return &schema.ToolInfo{
		Name:        w.tool.ID(),
		Desc:        w.tool.Description(),
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}, nil
}

// InvokableRun executes the tool and serializes the outcome for the model.
func (w *einoToolWrapper) InvokableRun(ctx context.Context, argsJSON string, opts ...einotool.Option) (string, error) {
	toolCtx := w.base
	if toolCtx == nil {
		toolCtx = &Context{}
	}

	result, err := w.tool.Execute(ctx, json.RawMessage(argsJSON), toolCtx)
	if err != nil {
		return marshalPayload(map[string]any{"error": err.Error()})
	}

	event.Publish(event.Event{
		Type: event.ToolExecuted,
		Data: event.ToolExecutedData{
			SessionID: toolCtx.SessionID,
			CallID:    toolCtx.CallID,
			Agent:     toolCtx.Agent,
			Tool:      w.tool.ID(),
			Title:     result.Title,
		},
	})

	payload := result.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	if _, ok := payload["output"]; !ok && result.Output != "" {
		payload["output"] = result.Output
	}

	return marshalPayload(payload)
}

func marshalPayload(payload map[string]any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		// Marshal failures are programming errors, not tool outcomes.
		return "", err
	}
	return string(data), nil
}

// parseJSONSchemaToParams converts a JSON Schema document to eino
// ParameterInfo. Only the flat object schemas our tools use are supported.
func parseJSONSchemaToParams(schemaJSON json.RawMessage) map[string]*schema.ParameterInfo {
	var jsonSchema struct {
		Properties map[string]struct {
			Type        string   `json:"type"`
			Description string   `json:"description"`
			Enum        []string `json:"enum"`
		} `json:"properties"`
		Required []string `json:"required"`
	}

	if err := json.Unmarshal(schemaJSON, &jsonSchema); err != nil {
		return nil
	}

	requiredSet := make(map[string]bool)
	for _, r := range jsonSchema.Required {
		requiredSet[r] = true
	}

	params := make(map[string]*schema.ParameterInfo)
	for name, prop := range jsonSchema.Properties {
		paramType := schema.String
		switch prop.Type {
		case "integer":
			paramType = schema.Integer
		case "number":
			paramType = schema.Number
		case "boolean":
			paramType = schema.Boolean
		case "array":
			paramType = schema.Array
		case "object":
			paramType = schema.Object
		}

		params[name] = &schema.ParameterInfo{
			Type:     paramType,
			Desc:     prop.Description,
			Enum:     prop.Enum,
			Required: requiredSet[name],
		}
	}

	return params
}
