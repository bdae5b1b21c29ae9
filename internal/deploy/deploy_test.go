package deploy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmate-ai/devmate/internal/agent"
	"github.com/devmate-ai/devmate/internal/storage"
	"github.com/devmate-ai/devmate/pkg/types"
)

// hostingServer fakes the agent-hosting API.
type hostingServer struct {
	*httptest.Server

	created  []types.AgentManifest
	deleted  []string
	failures int32 // remaining 500s to serve before succeeding
}

func newHostingServer(t *testing.T) *hostingServer {
	t.Helper()
	h := &hostingServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/agents", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if atomic.AddInt32(&h.failures, -1) >= 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var manifest types.AgentManifest
		if err := json.NewDecoder(r.Body).Decode(&manifest); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.created = append(h.created, manifest)
		json.NewEncoder(w).Encode(RemoteAgent{
			ID:          "remote-123",
			DisplayName: manifest.DisplayName,
			State:       "active",
		})
	})

	mux.HandleFunc("GET /v1/agents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"agents": []RemoteAgent{{ID: "remote-123", DisplayName: "devmate"}},
		})
	})

	mux.HandleFunc("DELETE /v1/agents/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.deleted = append(h.deleted, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	h.Server = httptest.NewServer(mux)
	t.Cleanup(h.Close)
	return h
}

func testService(t *testing.T, server *hostingServer) *Service {
	t.Helper()

	client, err := NewClient(&types.DeployConfig{
		BaseURL: server.URL,
		Token:   "test-token",
	})
	require.NoError(t, err)

	cfg := &types.Config{
		Model: "anthropic/claude-sonnet-4-20250514",
		Deploy: &types.DeployConfig{
			DisplayName: "DevMate",
			Description: "software engineer assistant",
		},
	}

	return NewService(client, storage.New(t.TempDir()), agent.NewRegistry(), cfg)
}

func TestNewClient_Validation(t *testing.T) {
	t.Setenv("DEVMATE_DEPLOY_TOKEN", "")

	_, err := NewClient(nil)
	assert.Error(t, err)

	_, err = NewClient(&types.DeployConfig{BaseURL: "https://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")

	t.Setenv("DEVMATE_DEPLOY_TOKEN", "env-token")
	client, err := NewClient(&types.DeployConfig{BaseURL: "https://example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "env-token", client.token)
	assert.Equal(t, "https://example.com", client.baseURL)
}

func TestService_Manifest(t *testing.T) {
	server := newHostingServer(t)
	svc := testService(t, server)

	manifest, err := svc.Manifest()
	require.NoError(t, err)

	assert.Equal(t, "DevMate", manifest.DisplayName)
	assert.Equal(t, "software engineer assistant", manifest.Description)
	assert.Equal(t, "anthropic/claude-sonnet-4-20250514", manifest.Model)
	assert.Equal(t, ToolPackage, manifest.ToolPackage)
	assert.Len(t, manifest.SubAgents, 7)

	names := map[string]bool{}
	for _, sub := range manifest.SubAgents {
		names[sub.Name] = true
		assert.NotEmpty(t, sub.Description)
	}
	assert.True(t, names["code_review"])
	assert.True(t, names["design_pattern"])
}

func TestService_Create(t *testing.T) {
	server := newHostingServer(t)
	svc := testService(t, server)
	ctx := context.Background()

	deployment, err := svc.Create(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, deployment.ID)
	assert.Equal(t, "remote-123", deployment.RemoteID)
	assert.Equal(t, "DevMate", deployment.DisplayName)
	assert.Equal(t, "active", deployment.State)

	require.Len(t, server.created, 1)
	assert.Equal(t, ToolPackage, server.created[0].ToolPackage)

	got, err := svc.Get(ctx, deployment.ID)
	require.NoError(t, err)
	assert.Equal(t, deployment.RemoteID, got.RemoteID)
}

func TestService_CreateRetriesServerErrors(t *testing.T) {
	server := newHostingServer(t)
	server.failures = 2
	svc := testService(t, server)

	deployment, err := svc.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "remote-123", deployment.RemoteID)
	assert.Len(t, server.created, 1)
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad manifest", http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewClient(&types.DeployConfig{BaseURL: server.URL, Token: "t"})
	require.NoError(t, err)

	_, err = client.CreateAgent(context.Background(), &types.AgentManifest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestService_ListAndDelete(t *testing.T) {
	server := newHostingServer(t)
	svc := testService(t, server)
	ctx := context.Background()

	first, err := svc.Create(ctx)
	require.NoError(t, err)
	second, err := svc.Create(ctx)
	require.NoError(t, err)

	deployments, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, deployments, 2)

	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.Equal(t, []string{"remote-123"}, server.deleted)

	deployments, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, deployments, 1)
	assert.Equal(t, second.ID, deployments[0].ID)

	err = svc.Delete(ctx, "missing")
	assert.Error(t, err)
}

func TestClient_ListAgents(t *testing.T) {
	server := newHostingServer(t)

	client, err := NewClient(&types.DeployConfig{BaseURL: server.URL, Token: "test-token"})
	require.NoError(t, err)

	agents, err := client.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "remote-123", agents[0].ID)
}
