// Package permission provides permission control for tool execution.
package permission

// PermissionAction represents the action to take for a permission check.
type PermissionAction string

const (
	ActionAllow PermissionAction = "allow"
	ActionDeny  PermissionAction = "deny"
	ActionAsk   PermissionAction = "ask"
)

// PermissionType represents the type of permission being checked.
type PermissionType string

const (
	PermCommand PermissionType = "command"
	PermEdit    PermissionType = "edit"
	PermFetch   PermissionType = "fetch"
)

// Request represents a request for permission.
type Request struct {
	ID        string         `json:"id"`
	Type      PermissionType `json:"type"`
	Pattern   []string       `json:"pattern,omitempty"`
	SessionID string         `json:"sessionID"`
	CallID    string         `json:"callID,omitempty"`
	Title     string         `json:"title"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Response represents a user's response to a permission request.
type Response struct {
	RequestID string `json:"requestID"`
	Action    string `json:"action"` // "once" | "always" | "reject"
}

// RejectedError is returned when permission is denied.
type RejectedError struct {
	SessionID string
	Type      PermissionType
	CallID    string
	Message   string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// IsRejectedError checks if an error is a permission rejection.
func IsRejectedError(err error) bool {
	_, ok := err.(*RejectedError)
	return ok
}
