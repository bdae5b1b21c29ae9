package compose

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ScriptedModel is a ToolCallingChatModel that replays a fixed sequence of
// messages. The sandbox command uses it to exercise the full composition
// and tool pipeline without network access; tests use it the same way.
type ScriptedModel struct {
	mu    sync.Mutex
	steps []*schema.Message
	next  int

	// Requests records the message history of every Generate/Stream call.
	Requests [][]*schema.Message
	// BoundTools records the tool set from the latest WithTools call.
	BoundTools []*schema.ToolInfo
}

// NewScriptedModel creates a model that returns the given messages in
// order. Once exhausted it keeps returning the last message.
func NewScriptedModel(steps ...*schema.Message) *ScriptedModel {
	return &ScriptedModel{steps: steps}
}

// ScriptText builds an assistant text reply.
func ScriptText(text string) *schema.Message {
	return &schema.Message{Role: schema.Assistant, Content: text}
}

// ScriptToolCall builds an assistant turn that invokes one tool.
func ScriptToolCall(id, name, args string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{
				ID:   id,
				Type: "function",
				Function: schema.FunctionCall{
					Name:      name,
					Arguments: args,
				},
			},
		},
	}
}

// Generate returns the next scripted message.
func (m *ScriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, input)

	if len(m.steps) == 0 {
		return &schema.Message{Role: schema.Assistant, Content: ""}, nil
	}
	msg := m.steps[m.next]
	if m.next < len(m.steps)-1 {
		m.next++
	}
	return msg, nil
}

// Stream returns the next scripted message as a single-chunk stream.
func (m *ScriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// WithTools records the bound tools and returns the same model. Scripted
// replies do not depend on the binding.
func (m *ScriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BoundTools = tools
	return m, nil
}
