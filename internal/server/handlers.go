package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/devmate-ai/devmate/internal/storage"
)

// health reports server liveness.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listAgents returns every registered agent definition.
func (s *Server) listAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agents": s.agents.List(),
	})
}

// getAgent returns one agent definition by name.
func (s *Server) getAgent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	def, err := s.agents.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "agent not found: "+name)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// toolSummary is the wire form of a registered tool.
type toolSummary struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// listTools returns the registered tool IDs and descriptions.
func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	tools := s.tools.List()
	summaries := make([]toolSummary, 0, len(tools))
	for _, t := range tools {
		summaries = append(summaries, toolSummary{
			ID:          t.ID(),
			Description: firstLine(t.Description()),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": summaries})
}

// listSessions returns all sessions, newest first.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

type createSessionRequest struct {
	Agent string `json:"agent,omitempty"`
	Title string `json:"title,omitempty"`
}

// createSession creates a new session bound to an agent (the root agent
// when none is named).
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
			return
		}
	}

	if req.Agent == "" {
		root, err := s.agents.Root()
		if err != nil {
			writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
			return
		}
		req.Agent = root.Name
	} else if !s.agents.Exists(req.Agent) {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown agent: "+req.Agent)
		return
	}

	sess, err := s.sessions.Create(r.Context(), req.Agent, req.Title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// getSession returns one session by ID.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := s.sessions.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// deleteSession removes a session and its transcript.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.sessions.Delete(r.Context(), sessionID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	writeSuccess(w)
}

// getMessages returns a session's transcript.
func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if _, err := s.sessions.Get(r.Context(), sessionID); err != nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "session not found")
		return
	}

	entries, err := s.sessions.Transcript(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": entries})
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// sendMessage runs one prompt through the composed root agent and returns
// the final answer. Intermediate output streams on /events.
func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "content is required")
		return
	}

	result, err := s.runner.Query(r.Context(), sessionID, req.Content, nil)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// listDeployments returns local deployment records.
func (s *Server) listDeployments(w http.ResponseWriter, r *http.Request) {
	if s.deployments == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeNotConfigured, "deployment service is not configured")
		return
	}

	deployments, err := s.deployments.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deployments": deployments})
}

// firstLine trims a multi-line tool description to its first line.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
