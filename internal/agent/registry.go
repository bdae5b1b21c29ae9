package agent

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/devmate-ai/devmate/pkg/types"
)

// Registry manages agent definitions.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*Definition
}

// NewRegistry creates a registry seeded with the built-in agents.
func NewRegistry() *Registry {
	r := &Registry{
		agents: make(map[string]*Definition),
	}

	for name, def := range BuiltInAgents() {
		r.agents[name] = def
	}

	return r
}

// Get retrieves an agent by name.
func (r *Registry) Get(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("agent not found: %s", name)
	}

	return def, nil
}

// Register adds or replaces an agent.
func (r *Registry) Register(def *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[def.Name] = def
}

// Unregister removes an agent by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, name)
}

// Root returns the root coordinator definition.
func (r *Registry) Root() (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, def := range r.agents {
		if def.IsRoot() {
			return def, nil
		}
	}
	return nil, fmt.Errorf("no root agent registered")
}

// List returns all registered agents sorted by name.
func (r *Registry) List() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agents := make([]*Definition, 0, len(r.agents))
	for _, def := range r.agents {
		agents = append(agents, def)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
	return agents
}

// ListSubagents returns the specialist agents sorted by name.
func (r *Registry) ListSubagents() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var agents []*Definition
	for _, def := range r.agents {
		if def.Mode == ModeSubagent {
			agents = append(agents, def)
		}
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
	return agents
}

// Names returns all agent names sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exists checks if an agent is registered.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.agents[name]
	return ok
}

// Count returns the number of registered agents.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// ApplyConfig overlays user configuration onto the registered agents.
// Per-agent entries may override the model, replace the instruction, or
// restrict the tool list; disabled agents are removed. Rule strings are
// appended to every remaining agent's instruction so the model sees them
// regardless of which specialist answers.
func (r *Registry) ApplyConfig(overrides map[string]types.AgentConfig, rules []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, cfg := range overrides {
		def, ok := r.agents[name]
		if !ok {
			continue
		}

		if cfg.Disable {
			if def.Mode != ModeRoot {
				delete(r.agents, name)
			}
			continue
		}

		clone := def.Clone()
		if cfg.Model != "" {
			clone.Model = ParseModelRef(cfg.Model)
		}
		if cfg.Instruction != "" {
			clone.Instruction = cfg.Instruction
		}
		if len(cfg.Tools) > 0 {
			var kept []string
			for _, id := range cfg.Tools {
				if clone.HasTool(id) {
					kept = append(kept, id)
				}
			}
			clone.Tools = kept
		}
		r.agents[name] = clone
	}

	if len(rules) == 0 {
		return
	}

	suffix := "\n\nProject rules:\n- " + strings.Join(rules, "\n- ")
	for name, def := range r.agents {
		clone := def.Clone()
		clone.Instruction += suffix
		r.agents[name] = clone
	}
}
