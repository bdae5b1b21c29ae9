package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/devmate-ai/devmate/internal/agent"
	"github.com/devmate-ai/devmate/internal/event"
	"github.com/devmate-ai/devmate/internal/logging"
	"github.com/devmate-ai/devmate/internal/storage"
	"github.com/devmate-ai/devmate/pkg/types"
)

// ToolPackage is the tool package reference handed to the hosting service.
const ToolPackage = "github.com/devmate-ai/devmate/internal/tool"

// Service creates and tracks deployments. Remote state lives with the
// hosting service; the local record is what `deploy --list` shows.
type Service struct {
	client  *Client
	storage *storage.Storage
	agents  *agent.Registry
	config  *types.Config
}

// NewService creates a deployment service.
func NewService(client *Client, store *storage.Storage, agents *agent.Registry, config *types.Config) *Service {
	return &Service{
		client:  client,
		storage: store,
		agents:  agents,
		config:  config,
	}
}

// Manifest builds the hosting payload from the agent registry and config:
// the root agent's identity, the default model, the tool package
// reference, and one entry per sub-agent.
func (s *Service) Manifest() (*types.AgentManifest, error) {
	root, err := s.agents.Root()
	if err != nil {
		return nil, err
	}

	displayName := root.Name
	description := root.Description
	if s.config.Deploy != nil {
		if s.config.Deploy.DisplayName != "" {
			displayName = s.config.Deploy.DisplayName
		}
		if s.config.Deploy.Description != "" {
			description = s.config.Deploy.Description
		}
	}

	manifest := &types.AgentManifest{
		DisplayName: displayName,
		Description: description,
		Model:       s.config.Model,
		ToolPackage: ToolPackage,
	}

	for _, def := range s.agents.ListSubagents() {
		entry := types.SubAgentEntry{
			Name:        def.Name,
			Description: def.Description,
			Tools:       def.Tools,
		}
		if def.Model != nil {
			entry.Model = def.Model.String()
		}
		manifest.SubAgents = append(manifest.SubAgents, entry)
	}

	return manifest, nil
}

// Create registers the composed agent with the hosting service and
// persists a local record.
func (s *Service) Create(ctx context.Context) (*types.Deployment, error) {
	manifest, err := s.Manifest()
	if err != nil {
		return nil, err
	}

	remote, err := s.client.CreateAgent(ctx, manifest)
	if err != nil {
		return nil, fmt.Errorf("create hosted agent: %w", err)
	}

	state := remote.State
	if state == "" {
		state = "active"
	}

	deployment := &types.Deployment{
		ID:          ulid.Make().String(),
		RemoteID:    remote.ID,
		DisplayName: manifest.DisplayName,
		Description: manifest.Description,
		Model:       manifest.Model,
		State:       state,
		CreatedAt:   time.Now().UnixMilli(),
	}

	if err := s.storage.Put(ctx, []string{"deployments", deployment.ID}, deployment); err != nil {
		return nil, fmt.Errorf("record deployment: %w", err)
	}

	logging.Info().
		Str("id", deployment.ID).
		Str("remoteID", deployment.RemoteID).
		Str("displayName", deployment.DisplayName).
		Msg("agent deployed")

	event.Publish(event.Event{
		Type: event.DeploymentCreated,
		Data: event.DeploymentCreatedData{Info: deployment},
	})

	return deployment, nil
}

// Get returns one local deployment record.
func (s *Service) Get(ctx context.Context, id string) (*types.Deployment, error) {
	var deployment types.Deployment
	if err := s.storage.Get(ctx, []string{"deployments", id}, &deployment); err != nil {
		return nil, err
	}
	return &deployment, nil
}

// List returns local deployment records, newest first.
func (s *Service) List(ctx context.Context) ([]*types.Deployment, error) {
	var deployments []*types.Deployment
	err := s.storage.Scan(ctx, []string{"deployments"}, func(key string, data json.RawMessage) error {
		var d types.Deployment
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		deployments = append(deployments, &d)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(deployments, func(i, j int) bool {
		return deployments[i].CreatedAt > deployments[j].CreatedAt
	})
	return deployments, nil
}

// Delete removes the hosted agent and the local record.
func (s *Service) Delete(ctx context.Context, id string) error {
	deployment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.client.DeleteAgent(ctx, deployment.RemoteID); err != nil {
		return fmt.Errorf("delete hosted agent: %w", err)
	}

	if err := s.storage.Delete(ctx, []string{"deployments", id}); err != nil {
		return err
	}

	event.Publish(event.Event{
		Type: event.DeploymentDeleted,
		Data: event.DeploymentDeletedData{ID: id, RemoteID: deployment.RemoteID},
	})

	return nil
}
