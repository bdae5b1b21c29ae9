package session

import (
	"context"
	"encoding/json"

	"github.com/devmate-ai/devmate/internal/storage"
)

// State is a per-session key/value store. Tools use it to pass results to
// later tool calls in the same session, most notably cached analysis reports.
// Values survive process restarts; each mutation rewrites the session's
// state document under the storage file lock.
type State struct {
	storage   *storage.Storage
	sessionID string
}

// Get reads a value into v. Returns storage.ErrNotFound when the key is unset.
func (st *State) Get(ctx context.Context, key string, v any) error {
	var snapshot map[string]json.RawMessage
	if err := st.storage.Get(ctx, []string{"state", st.sessionID}, &snapshot); err != nil {
		return err
	}

	raw, ok := snapshot[key]
	if !ok {
		return storage.ErrNotFound
	}

	return json.Unmarshal(raw, v)
}

// Set stores a value under key.
func (st *State) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return st.storage.Update(ctx, []string{"state", st.sessionID}, func(data json.RawMessage) (any, error) {
		snapshot := map[string]json.RawMessage{}
		if data != nil {
			if err := json.Unmarshal(data, &snapshot); err != nil {
				return nil, err
			}
		}
		snapshot[key] = raw
		return snapshot, nil
	})
}

// Delete removes a key. Deleting an unset key is not an error.
func (st *State) Delete(ctx context.Context, key string) error {
	return st.storage.Update(ctx, []string{"state", st.sessionID}, func(data json.RawMessage) (any, error) {
		snapshot := map[string]json.RawMessage{}
		if data != nil {
			if err := json.Unmarshal(data, &snapshot); err != nil {
				return nil, err
			}
		}
		delete(snapshot, key)
		return snapshot, nil
	})
}

// Keys lists the keys currently set for the session.
func (st *State) Keys(ctx context.Context) ([]string, error) {
	var snapshot map[string]json.RawMessage
	if err := st.storage.Get(ctx, []string{"state", st.sessionID}, &snapshot); err != nil {
		if err == storage.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}
	return keys, nil
}
