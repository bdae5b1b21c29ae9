package types

// Deployment is the local record of an agent registered with the hosting
// service.
type Deployment struct {
	ID          string `json:"id"`
	RemoteID    string `json:"remoteID"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Model       string `json:"model"`
	State       string `json:"state"` // "creating" | "active" | "deleted"
	CreatedAt   int64  `json:"createdAt"`
}

// AgentManifest is the payload handed to the hosting service: the composed
// root agent plus its sub-agents and the tool package reference.
type AgentManifest struct {
	DisplayName string          `json:"displayName"`
	Description string          `json:"description"`
	Model       string          `json:"model"`
	ToolPackage string          `json:"toolPackage"`
	SubAgents   []SubAgentEntry `json:"subAgents"`
}

// SubAgentEntry describes one sub-agent inside an AgentManifest.
type SubAgentEntry struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Model       string   `json:"model,omitempty"`
	Tools       []string `json:"tools,omitempty"`
}
