// Package session manages assistant sessions, their transcripts and the
// per-session scratch state that tools read and write.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/devmate-ai/devmate/internal/event"
	"github.com/devmate-ai/devmate/internal/storage"
	"github.com/devmate-ai/devmate/pkg/types"
)

// Service manages session operations on top of the JSON storage.
type Service struct {
	storage *storage.Storage
}

// NewService creates a new session service.
func NewService(store *storage.Storage) *Service {
	return &Service{storage: store}
}

// Create creates a new session bound to an agent.
func (s *Service) Create(ctx context.Context, agent string, title string) (*types.Session, error) {
	now := time.Now().UnixMilli()

	if title == "" {
		title = "New Session"
	}

	session := &types.Session{
		ID:    generateID(),
		Title: title,
		Agent: agent,
		Time: types.SessionTime{
			Created: now,
			Updated: now,
		},
	}

	if err := s.storage.Put(ctx, []string{"sessions", session.ID}, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	event.Publish(event.Event{
		Type: event.SessionCreated,
		Data: event.SessionCreatedData{Info: session},
	})

	return session, nil
}

// Get retrieves a session by ID.
func (s *Service) Get(ctx context.Context, sessionID string) (*types.Session, error) {
	var session types.Session
	if err := s.storage.Get(ctx, []string{"sessions", sessionID}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Update updates a session with the given updates.
func (s *Service) Update(ctx context.Context, sessionID string, updates map[string]any) (*types.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if title, ok := updates["title"].(string); ok {
		session.Title = title
	}
	if agent, ok := updates["agent"].(string); ok {
		session.Agent = agent
	}

	session.Time.Updated = time.Now().UnixMilli()

	if err := s.storage.Put(ctx, []string{"sessions", session.ID}, session); err != nil {
		return nil, err
	}

	event.Publish(event.Event{
		Type: event.SessionUpdated,
		Data: event.SessionUpdatedData{Info: session},
	})

	return session, nil
}

// Touch bumps the updated timestamp without changing anything else.
func (s *Service) Touch(ctx context.Context, sessionID string) {
	s.Update(ctx, sessionID, nil)
}

// Delete deletes a session, its transcript and its state.
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, []string{"sessions", sessionID}); err != nil {
		return err
	}

	entries, _ := s.Transcript(ctx, sessionID)
	for _, entry := range entries {
		s.storage.Delete(ctx, []string{"transcript", sessionID, entry.ID})
	}
	s.storage.Delete(ctx, []string{"state", sessionID})

	return nil
}

// List lists all sessions, newest first.
func (s *Service) List(ctx context.Context) ([]*types.Session, error) {
	var sessions []*types.Session

	err := s.storage.Scan(ctx, []string{"sessions"}, func(key string, data json.RawMessage) error {
		var session types.Session
		if err := json.Unmarshal(data, &session); err != nil {
			return err
		}
		sessions = append(sessions, &session)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Time.Created > sessions[j].Time.Created
	})

	return sessions, nil
}

// AppendEntry appends an entry to the session transcript.
func (s *Service) AppendEntry(ctx context.Context, sessionID string, role, agent, content string) (*types.TranscriptEntry, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	entry := &types.TranscriptEntry{
		ID:      generateID(),
		Role:    role,
		Agent:   agent,
		Content: content,
		Created: time.Now().UnixMilli(),
	}

	if err := s.storage.Put(ctx, []string{"transcript", sessionID, entry.ID}, entry); err != nil {
		return nil, fmt.Errorf("failed to save transcript entry: %w", err)
	}

	s.Touch(ctx, sessionID)

	return entry, nil
}

// Transcript returns the session transcript in chronological order.
// ULID keys sort lexicographically by creation time.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]*types.TranscriptEntry, error) {
	var entries []*types.TranscriptEntry

	err := s.storage.Scan(ctx, []string{"transcript", sessionID}, func(key string, data json.RawMessage) error {
		var entry types.TranscriptEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		entries = append(entries, &entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})

	return entries, nil
}

// State returns the scratch state handle for a session.
func (s *Service) State(sessionID string) *State {
	return &State{storage: s.storage, sessionID: sessionID}
}

// generateID creates a new ULID-based identifier.
func generateID() string {
	return ulid.Make().String()
}
