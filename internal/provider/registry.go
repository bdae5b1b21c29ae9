package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"

	"github.com/devmate-ai/devmate/internal/logging"
	"github.com/devmate-ai/devmate/pkg/types"
)

// Registry manages the configured providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	config    *types.Config
}

// NewRegistry creates a new provider registry.
func NewRegistry(config *types.Config) *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		config:    config,
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.ID()] = provider
}

// Get retrieves a provider by ID.
func (r *Registry) Get(providerID string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[providerID]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", providerID)
	}
	return provider, nil
}

// List returns all registered providers.
func (r *Registry) List() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		providers = append(providers, p)
	}
	return providers
}

// GetModel retrieves a specific model record from a provider.
func (r *Registry) GetModel(providerID, modelID string) (*types.Model, error) {
	provider, err := r.Get(providerID)
	if err != nil {
		return nil, err
	}

	for _, m := range provider.Models() {
		if m.ID == modelID {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("model not found: %s/%s", providerID, modelID)
}

// AllModels returns all models from all providers.
func (r *Registry) AllModels() []types.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var models []types.Model
	for _, p := range r.providers {
		models = append(models, p.Models()...)
	}
	return models
}

// Default returns the provider and model ID named by the configured default
// "provider/model" string.
func (r *Registry) Default() (Provider, string, error) {
	if r.config == nil || r.config.Model == "" {
		return nil, "", fmt.Errorf("no default model configured")
	}

	providerID, modelID := ParseModelString(r.config.Model)
	provider, err := r.Get(providerID)
	if err != nil {
		return nil, "", err
	}
	return provider, modelID, nil
}

// Resolve builds a ChatModel for a "provider/model" reference. Empty
// references resolve to the configured default.
func (r *Registry) Resolve(ctx context.Context, providerID, modelID string) (model.ToolCallingChatModel, error) {
	if providerID == "" {
		provider, defaultModel, err := r.Default()
		if err != nil {
			return nil, err
		}
		if modelID == "" {
			modelID = defaultModel
		}
		return provider.ChatModelFor(ctx, modelID)
	}

	provider, err := r.Get(providerID)
	if err != nil {
		return nil, err
	}
	return provider.ChatModelFor(ctx, modelID)
}

// ParseModelString parses the "provider/model" format.
func ParseModelString(s string) (providerID, modelID string) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "", s
}

// InitializeProviders creates and registers providers from config. Providers
// without credentials are skipped rather than failing startup; a provider is
// only required once an agent actually resolves a model against it.
func InitializeProviders(ctx context.Context, config *types.Config) (*Registry, error) {
	registry := NewRegistry(config)

	if cfg, ok := config.Provider["anthropic"]; ok && !cfg.Disable {
		provider, err := NewAnthropicProvider(ctx, &AnthropicConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			MaxTokens:  cfg.MaxTokens,
			UseBedrock: cfg.UseBedrock,
			Region:     cfg.Region,
		})
		if err != nil {
			logging.Warn().Err(err).Msg("anthropic provider unavailable")
		} else {
			registry.Register(provider)
		}
	}

	if cfg, ok := config.Provider["openai"]; ok && !cfg.Disable {
		provider, err := NewOpenAIProvider(ctx, &OpenAIConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			logging.Warn().Err(err).Msg("openai provider unavailable")
		} else {
			registry.Register(provider)
		}
	}

	return registry, nil
}
