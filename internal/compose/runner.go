package compose

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"

	"github.com/devmate-ai/devmate/internal/event"
	"github.com/devmate-ai/devmate/internal/logging"
	"github.com/devmate-ai/devmate/internal/session"
)

// Runner executes prompts through the adk runtime and records the
// conversation. adk owns the agent loop; Runner only composes, observes
// the event stream, and persists the transcript.
type Runner struct {
	composer *Composer
	sessions *session.Service
}

// NewRunner creates a Runner.
func NewRunner(composer *Composer, sessions *session.Service) *Runner {
	return &Runner{composer: composer, sessions: sessions}
}

// QueryResult is the outcome of a single prompt.
type QueryResult struct {
	SessionID string `json:"sessionID"`
	// Content is the final assistant text.
	Content string `json:"content"`
	// Agents lists the agents that produced output, in order of first
	// appearance. The root agent is always first.
	Agents []string `json:"agents"`
}

// TextHandler receives assistant text as agents produce it.
type TextHandler func(agentName, text string)

// Query runs one prompt against the composed agent tree. The user message
// and the final assistant message are appended to the session transcript.
// onText may be nil.
func (r *Runner) Query(ctx context.Context, sessionID, prompt string, onText TextHandler) (*QueryResult, error) {
	sess, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := r.sessions.AppendEntry(ctx, sessionID, "user", "", prompt); err != nil {
		return nil, err
	}

	root, err := r.composer.BuildFor(ctx, sess.Agent, sessionID)
	if err != nil {
		return nil, err
	}

	event.Publish(event.Event{
		Type: event.AgentInvoked,
		Data: event.AgentInvokedData{
			SessionID: sessionID,
			Agent:     sess.Agent,
			Prompt:    prompt,
		},
	})

	runner := adk.NewRunner(ctx, adk.RunnerConfig{Agent: root})

	result := &QueryResult{SessionID: sessionID}
	seen := map[string]bool{}

	iter := runner.Query(ctx, prompt)
	for {
		ev, ok := iter.Next()
		if !ok {
			break
		}
		if ev.Err != nil {
			return nil, fmt.Errorf("agent run failed: %w", ev.Err)
		}

		msg, err := eventMessage(ev)
		if err != nil {
			return nil, err
		}
		if msg == nil || msg.Role != schema.Assistant {
			continue
		}
		// Tool-call turns carry no user-facing text.
		if msg.Content == "" {
			continue
		}

		if !seen[ev.AgentName] {
			seen[ev.AgentName] = true
			result.Agents = append(result.Agents, ev.AgentName)
		}
		result.Content = msg.Content

		event.Publish(event.Event{
			Type: event.AgentResponded,
			Data: event.AgentRespondedData{
				SessionID: sessionID,
				Agent:     ev.AgentName,
				Content:   msg.Content,
			},
		})
		if onText != nil {
			onText(ev.AgentName, msg.Content)
		}
	}

	respondedBy := sess.Agent
	if n := len(result.Agents); n > 0 {
		respondedBy = result.Agents[n-1]
	}
	if _, err := r.sessions.AppendEntry(ctx, sessionID, "assistant", respondedBy, result.Content); err != nil {
		logging.Warn().Err(err).Str("sessionID", sessionID).Msg("failed to record assistant message")
	}

	return result, nil
}

// eventMessage extracts the message from an adk event, draining the
// stream variant when the runtime streamed it.
func eventMessage(ev *adk.AgentEvent) (*schema.Message, error) {
	if ev.Output == nil || ev.Output.MessageOutput == nil {
		return nil, nil
	}
	out := ev.Output.MessageOutput
	if !out.IsStreaming {
		return out.Message, nil
	}

	var chunks []*schema.Message
	for {
		chunk, err := out.MessageStream.Recv()
		if err != nil {
			break
		}
		chunks = append(chunks, chunk)
	}
	if len(chunks) == 0 {
		return nil, nil
	}
	msg, err := schema.ConcatMessages(chunks)
	if err != nil {
		return nil, fmt.Errorf("concat streamed message: %w", err)
	}
	return msg, nil
}
