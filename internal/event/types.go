package event

import "github.com/devmate-ai/devmate/pkg/types"

// SessionCreatedData is the data for session.created events.
type SessionCreatedData struct {
	Info *types.Session `json:"info"`
}

// SessionUpdatedData is the data for session.updated events.
type SessionUpdatedData struct {
	Info *types.Session `json:"info"`
}

// AgentInvokedData is the data for agent.invoked events.
type AgentInvokedData struct {
	SessionID string `json:"sessionID"`
	Agent     string `json:"agent"`
	Prompt    string `json:"prompt,omitempty"`
}

// AgentRespondedData is the data for agent.responded events.
type AgentRespondedData struct {
	SessionID string `json:"sessionID"`
	Agent     string `json:"agent"`
	Content   string `json:"content,omitempty"`
}

// ToolExecutedData is the data for tool.executed events.
type ToolExecutedData struct {
	SessionID string `json:"sessionID"`
	CallID    string `json:"callID,omitempty"`
	Agent     string `json:"agent,omitempty"`
	Tool      string `json:"tool"`
	Title     string `json:"title,omitempty"`
	IsError   bool   `json:"isError,omitempty"`
}

// AnalysisCompletedData is the data for analysis.completed events.
type AnalysisCompletedData struct {
	SessionID string `json:"sessionID"`
	Path      string `json:"path"`
	Issues    int    `json:"issues"`
}

// DeploymentCreatedData is the data for deployment.created events.
type DeploymentCreatedData struct {
	Info *types.Deployment `json:"info"`
}

// DeploymentDeletedData is the data for deployment.deleted events.
type DeploymentDeletedData struct {
	ID       string `json:"id"`
	RemoteID string `json:"remoteID"`
}

// PermissionRequiredData is the data for permission.required events.
type PermissionRequiredData struct {
	ID             string   `json:"id"`
	SessionID      string   `json:"sessionID"`
	PermissionType string   `json:"permissionType"` // "command" | "edit" | "fetch"
	Pattern        []string `json:"pattern"`
	Title          string   `json:"title"`
}

// PermissionResolvedData is the data for permission.resolved events.
type PermissionResolvedData struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionID,omitempty"`
	Granted   bool   `json:"granted"`
}
