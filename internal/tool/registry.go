package tool

import (
	"sync"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/devmate-ai/devmate/internal/agent"
	"github.com/devmate-ai/devmate/internal/logging"
	"github.com/devmate-ai/devmate/internal/permission"
)

// Registry manages tool registration and lookup.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	workDir string
}

// NewRegistry creates an empty tool registry rooted at workDir.
func NewRegistry(workDir string) *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		workDir: workDir,
	}
}

// DefaultRegistry creates a registry with all built-in tools. The permission
// checker gates run_command; passing nil leaves command execution ungated,
// which only the sandbox command does.
func DefaultRegistry(workDir string, checker *permission.Checker) *Registry {
	r := NewRegistry(workDir)

	r.Register(NewReadFileTool(workDir))
	r.Register(NewListDirTool(workDir))
	r.Register(NewRunCommandTool(workDir, checker))
	r.Register(NewAnalyzeCodeTool(workDir))
	r.Register(NewAnalysisIssuesTool())
	r.Register(NewFetchDocTool())
	r.Register(NewPreviewPatchTool(workDir))

	logging.Debug().Str("workDir", workDir).Strs("tools", r.IDs()).Msg("tool registry created")
	return r
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.ID()] = tool
}

// Get retrieves a tool by ID.
func (r *Registry) Get(id string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[id]
	return tool, ok
}

// List returns all registered tools.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	return tools
}

// IDs returns all tool IDs.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	return ids
}

// ForAgent returns the tools an agent definition names, skipping unknown IDs.
func (r *Registry) ForAgent(def *agent.Definition) []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tools []Tool
	for _, id := range def.Tools {
		if tool, ok := r.tools[id]; ok {
			tools = append(tools, tool)
		} else {
			logging.Warn().Str("agent", def.Name).Str("tool", id).Msg("agent references unknown tool")
		}
	}
	return tools
}

// EinoToolsFor adapts an agent's tools for the eino runtime, bound to the
// given execution context.
func (r *Registry) EinoToolsFor(def *agent.Definition, base *Context) []einotool.BaseTool {
	tools := r.ForAgent(def)

	adapted := make([]einotool.BaseTool, 0, len(tools))
	for _, t := range tools {
		adapted = append(adapted, AsEinoTool(t, base))
	}
	return adapted
}

// ToolInfos returns eino tool infos for all registered tools.
func (r *Registry) ToolInfos() []*schema.ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]*schema.ToolInfo, 0, len(r.tools))
	for _, t := range r.tools {
		infos = append(infos, &schema.ToolInfo{
			Name:        t.ID(),
			Desc:        t.Description(),
			ParamsOneOf: schema.NewParamsOneOfByParams(parseJSONSchemaToParams(t.Parameters())),
		})
	}
	return infos
}
