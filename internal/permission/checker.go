package permission

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/devmate-ai/devmate/internal/event"
	"github.com/devmate-ai/devmate/pkg/types"
)

// Checker evaluates tool actions against the configured allowlist and the
// auto-approval switches, and mediates interactive approval for the rest.
type Checker struct {
	mu          sync.RWMutex
	allowlist   []string
	autoApprove types.AutoApproveConfig
	approved    map[string]map[string]bool // sessionID -> pattern -> approved
	pending     map[string]chan Response   // requestID -> response channel
}

// NewChecker creates a new permission checker.
func NewChecker(allowlist []string, autoApprove types.AutoApproveConfig) *Checker {
	return &Checker{
		allowlist:   allowlist,
		autoApprove: autoApprove,
		approved:    make(map[string]map[string]bool),
		pending:     make(map[string]chan Response),
	}
}

// SetConfig swaps the allowlist and auto-approval switches. Called on
// config reload.
func (c *Checker) SetConfig(allowlist []string, autoApprove types.AutoApproveConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allowlist = allowlist
	c.autoApprove = autoApprove
}

// CommandAllowed reports whether a single parsed command matches the
// allowlist.
func (c *Checker) CommandAllowed(cmd ShellCommand) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rendered := cmd.String()
	for _, pattern := range c.allowlist {
		if MatchWildcard(pattern, rendered) {
			return true
		}
	}
	return false
}

// CheckCommand checks a full shell command line. Every command in a pipeline
// or list must be allowlisted; anything else asks (or auto-approves when
// configured).
func (c *Checker) CheckCommand(ctx context.Context, sessionID, callID, command string) error {
	cmds, err := ParseShellCommand(command)
	if err != nil {
		return &RejectedError{
			SessionID: sessionID,
			Type:      PermCommand,
			CallID:    callID,
			Message:   "command could not be parsed: " + err.Error(),
		}
	}
	if len(cmds) == 0 {
		return &RejectedError{
			SessionID: sessionID,
			Type:      PermCommand,
			CallID:    callID,
			Message:   "empty command",
		}
	}

	var unmatched []ShellCommand
	for _, cmd := range cmds {
		if !c.CommandAllowed(cmd) {
			unmatched = append(unmatched, cmd)
		}
	}
	if len(unmatched) == 0 {
		return nil
	}

	c.mu.RLock()
	auto := c.autoApprove.Commands
	c.mu.RUnlock()
	if auto {
		return nil
	}

	return c.Ask(ctx, Request{
		Type:      PermCommand,
		Pattern:   BuildPatterns(unmatched),
		SessionID: sessionID,
		CallID:    callID,
		Title:     command,
	})
}

// CheckEdit checks a file write/edit action.
func (c *Checker) CheckEdit(ctx context.Context, sessionID, callID, path string) error {
	c.mu.RLock()
	auto := c.autoApprove.Edits
	c.mu.RUnlock()
	if auto {
		return nil
	}

	return c.Ask(ctx, Request{
		Type:      PermEdit,
		Pattern:   []string{path},
		SessionID: sessionID,
		CallID:    callID,
		Title:     "edit " + path,
	})
}

// Ask prompts for permission and blocks until a response or ctx done.
func (c *Checker) Ask(ctx context.Context, req Request) error {
	// Check if the patterns were already approved for this session.
	c.mu.RLock()
	if len(req.Pattern) > 0 {
		if sessionPatterns, ok := c.approved[req.SessionID]; ok {
			allApproved := true
			for _, p := range req.Pattern {
				if !sessionPatterns[p] {
					allApproved = false
					break
				}
			}
			if allApproved {
				c.mu.RUnlock()
				return nil
			}
		}
	}
	c.mu.RUnlock()

	if req.ID == "" {
		req.ID = ulid.Make().String()
	}

	respChan := make(chan Response, 1)
	c.mu.Lock()
	c.pending[req.ID] = respChan
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
	}()

	event.Publish(event.Event{
		Type: event.PermissionRequired,
		Data: event.PermissionRequiredData{
			ID:             req.ID,
			SessionID:      req.SessionID,
			PermissionType: string(req.Type),
			Pattern:        req.Pattern,
			Title:          req.Title,
		},
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case resp := <-respChan:
		switch resp.Action {
		case "once":
			return nil
		case "always":
			c.approve(req.SessionID, req.Pattern)
			return nil
		default:
			return &RejectedError{
				SessionID: req.SessionID,
				Type:      req.Type,
				CallID:    req.CallID,
				Message:   "Permission rejected by user",
			}
		}
	}
}

// Respond handles a user's response to a permission request.
func (c *Checker) Respond(requestID string, action string) {
	c.mu.RLock()
	ch, ok := c.pending[requestID]
	c.mu.RUnlock()

	if ok {
		ch <- Response{
			RequestID: requestID,
			Action:    action,
		}
	}

	event.Publish(event.Event{
		Type: event.PermissionResolved,
		Data: event.PermissionResolvedData{
			ID:      requestID,
			Granted: action != "reject",
		},
	})
}

// approve marks patterns as approved for a session.
func (c *Checker) approve(sessionID string, patterns []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.approved[sessionID] == nil {
		c.approved[sessionID] = make(map[string]bool)
	}
	for _, p := range patterns {
		c.approved[sessionID][p] = true
	}
}

// IsPatternApproved checks if a specific pattern is approved.
func (c *Checker) IsPatternApproved(sessionID string, pattern string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if sessionPatterns, ok := c.approved[sessionID]; ok {
		return sessionPatterns[pattern]
	}
	return false
}

// ClearSession clears all approvals for a session.
func (c *Checker) ClearSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.approved, sessionID)
}
