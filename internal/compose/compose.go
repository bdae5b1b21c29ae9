// Package compose hands agent definitions to the eino adk runtime. It
// builds ChatModelAgents from declarative records, attaches the root
// agent's specialists as sub-agents, and wraps adk's runner so the rest
// of the codebase never talks to the runtime directly.
package compose

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/adk"
	einocompose "github.com/cloudwego/eino/compose"

	"github.com/devmate-ai/devmate/internal/agent"
	"github.com/devmate-ai/devmate/internal/logging"
	"github.com/devmate-ai/devmate/internal/provider"
	"github.com/devmate-ai/devmate/internal/session"
	"github.com/devmate-ai/devmate/internal/tool"
)

// Composer builds adk agents from registry records.
type Composer struct {
	agents    *agent.Registry
	providers *provider.Registry
	tools     *tool.Registry
	sessions  *session.Service
	workDir   string
}

// ComposerConfig holds the registries a Composer draws from.
type ComposerConfig struct {
	Agents    *agent.Registry
	Providers *provider.Registry
	Tools     *tool.Registry
	Sessions  *session.Service
	WorkDir   string
}

// NewComposer creates a Composer.
func NewComposer(cfg ComposerConfig) *Composer {
	return &Composer{
		agents:    cfg.Agents,
		providers: cfg.Providers,
		tools:     cfg.Tools,
		sessions:  cfg.Sessions,
		workDir:   cfg.WorkDir,
	}
}

// Build composes the root agent with every registered subagent attached.
// The sessionID is bound into each tool's execution context so simulated
// analysis results land in the right session state.
func (c *Composer) Build(ctx context.Context, sessionID string) (adk.Agent, error) {
	rootDef, err := c.agents.Root()
	if err != nil {
		return nil, err
	}

	root, err := c.buildAgent(ctx, rootDef, sessionID)
	if err != nil {
		return nil, fmt.Errorf("build root agent: %w", err)
	}

	subDefs := c.agents.ListSubagents()
	subAgents := make([]adk.Agent, 0, len(subDefs))
	for _, def := range subDefs {
		sub, err := c.buildAgent(ctx, def, sessionID)
		if err != nil {
			return nil, fmt.Errorf("build agent %s: %w", def.Name, err)
		}
		subAgents = append(subAgents, sub)
	}

	if len(subAgents) == 0 {
		return root, nil
	}

	composed, err := adk.SetSubAgents(ctx, root, subAgents)
	if err != nil {
		return nil, fmt.Errorf("attach sub-agents: %w", err)
	}

	logging.Debug().
		Str("root", rootDef.Name).
		Int("subAgents", len(subAgents)).
		Msg("composed agent tree")

	return composed, nil
}

// BuildAgent composes a single named agent without its siblings. Used when
// a caller wants to talk to one specialist directly.
func (c *Composer) BuildAgent(ctx context.Context, name, sessionID string) (adk.Agent, error) {
	def, err := c.agents.Get(name)
	if err != nil {
		return nil, err
	}
	return c.buildAgent(ctx, def, sessionID)
}

// BuildFor composes the agent a session is bound to: the full tree for the
// root agent (or an empty name), a lone specialist otherwise.
func (c *Composer) BuildFor(ctx context.Context, name, sessionID string) (adk.Agent, error) {
	if name == "" {
		return c.Build(ctx, sessionID)
	}
	def, err := c.agents.Get(name)
	if err != nil {
		return nil, err
	}
	if def.IsRoot() {
		return c.Build(ctx, sessionID)
	}
	return c.buildAgent(ctx, def, sessionID)
}

func (c *Composer) buildAgent(ctx context.Context, def *agent.Definition, sessionID string) (adk.Agent, error) {
	var providerID, modelID string
	if def.Model != nil {
		providerID = def.Model.ProviderID
		modelID = def.Model.ModelID
	}

	chatModel, err := c.providers.Resolve(ctx, providerID, modelID)
	if err != nil {
		return nil, err
	}

	base := &tool.Context{
		SessionID: sessionID,
		Agent:     def.Name,
		WorkDir:   c.workDir,
	}
	// Analysis tools record and read back through session state.
	if c.sessions != nil {
		base.State = c.sessions.State(sessionID)
	}

	return adk.NewChatModelAgent(ctx, &adk.ChatModelAgentConfig{
		Name:        def.Name,
		Description: def.Description,
		Instruction: Instruction(def),
		Model:       chatModel,
		ToolsConfig: adk.ToolsConfig{
			ToolsNodeConfig: einocompose.ToolsNodeConfig{
				Tools: c.tools.EinoToolsFor(def, base),
			},
		},
	})
}

// Instruction renders a definition's full system instruction. Schema-bound
// agents get the expected response shape appended so the model returns
// parseable JSON.
func Instruction(def *agent.Definition) string {
	if len(def.OutputSchema) == 0 {
		return def.Instruction
	}
	return def.Instruction +
		"\n\nWhen producing your final answer, respond with a single JSON object matching this schema:\n" +
		string(def.OutputSchema)
}
