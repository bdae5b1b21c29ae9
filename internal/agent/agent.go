package agent

import "encoding/json"

// Definition is a declarative agent record: everything the orchestration
// runtime needs to run an agent is data, not code. The runtime owns the
// conversation loop; we only supply the model, the instruction text, the
// callable tool set and the shape of the answer.
type Definition struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Mode         Mode            `json:"mode"`
	BuiltIn      bool            `json:"builtIn"`
	Model        *ModelRef       `json:"model,omitempty"`
	Instruction  string          `json:"instruction,omitempty"`
	Tools        []string        `json:"tools,omitempty"`
	OutputSchema json.RawMessage `json:"outputSchema,omitempty"`
}

// Mode distinguishes the root coordinator from the specialists it delegates to.
type Mode string

const (
	ModeRoot     Mode = "root"
	ModeSubagent Mode = "subagent"
)

// ModelRef references a specific model on a specific provider.
type ModelRef struct {
	ProviderID string `json:"providerID"`
	ModelID    string `json:"modelID"`
}

// ParseModelRef splits a "provider/model" string. Model IDs may themselves
// contain slashes, so only the first separator counts.
func ParseModelRef(s string) *ModelRef {
	if s == "" {
		return nil
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return &ModelRef{ProviderID: s[:i], ModelID: s[i+1:]}
		}
	}
	return &ModelRef{ModelID: s}
}

// String renders the reference back to "provider/model" form.
func (m *ModelRef) String() string {
	if m == nil {
		return ""
	}
	if m.ProviderID == "" {
		return m.ModelID
	}
	return m.ProviderID + "/" + m.ModelID
}

// HasTool reports whether a tool ID is in the agent's tool list.
// An empty list means the agent gets no tools at all.
func (d *Definition) HasTool(toolID string) bool {
	for _, id := range d.Tools {
		if id == toolID {
			return true
		}
	}
	return false
}

// IsRoot returns true for the coordinator agent.
func (d *Definition) IsRoot() bool {
	return d.Mode == ModeRoot
}

// Clone creates a deep copy of the definition.
func (d *Definition) Clone() *Definition {
	clone := &Definition{
		Name:        d.Name,
		Description: d.Description,
		Mode:        d.Mode,
		BuiltIn:     d.BuiltIn,
		Instruction: d.Instruction,
	}

	if d.Model != nil {
		clone.Model = &ModelRef{
			ProviderID: d.Model.ProviderID,
			ModelID:    d.Model.ModelID,
		}
	}

	if d.Tools != nil {
		clone.Tools = make([]string, len(d.Tools))
		copy(clone.Tools, d.Tools)
	}

	if d.OutputSchema != nil {
		clone.OutputSchema = make(json.RawMessage, len(d.OutputSchema))
		copy(clone.OutputSchema, d.OutputSchema)
	}

	return clone
}
