package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/devmate-ai/devmate/pkg/types"
)

// OpenAIProvider implements Provider for OpenAI models. It also serves
// OpenAI-compatible endpoints via BaseURL.
type OpenAIProvider struct {
	chatModel model.ToolCallingChatModel
	models    []types.Model
	config    *OpenAIConfig
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int

	// Azure configuration
	UseAzure   bool
	APIVersion string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(ctx context.Context, config *OpenAIConfig) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		if config.UseAzure {
			config.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
		} else {
			config.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	if config.Model == "" {
		config.Model = "gpt-4o"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}

	p := &OpenAIProvider{
		models: openAIModels(),
		config: config,
	}

	chatModel, err := p.ChatModelFor(ctx, config.Model)
	if err != nil {
		return nil, err
	}
	p.chatModel = chatModel

	return p, nil
}

// ID returns the provider identifier.
func (p *OpenAIProvider) ID() string { return "openai" }

// Name returns the human-readable provider name.
func (p *OpenAIProvider) Name() string { return "OpenAI" }

// Models returns the list of known models.
func (p *OpenAIProvider) Models() []types.Model { return p.models }

// ChatModel returns the default eino ChatModel.
func (p *OpenAIProvider) ChatModel() model.ToolCallingChatModel { return p.chatModel }

// ChatModelFor builds a ChatModel for a specific model ID.
func (p *OpenAIProvider) ChatModelFor(ctx context.Context, modelID string) (model.ToolCallingChatModel, error) {
	if modelID == "" {
		modelID = p.config.Model
	}

	maxTokens := p.config.MaxTokens
	cfg := &openai.ChatModelConfig{
		APIKey:              p.config.APIKey,
		Model:               modelID,
		MaxCompletionTokens: &maxTokens,
	}
	if p.config.BaseURL != "" {
		cfg.BaseURL = p.config.BaseURL
	}
	if p.config.UseAzure {
		cfg.ByAzure = true
		cfg.APIVersion = p.config.APIVersion
		if cfg.APIVersion == "" {
			cfg.APIVersion = "2024-02-15-preview"
		}
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI model: %w", err)
	}
	return chatModel, nil
}

// CreateCompletion creates a streaming completion.
func (p *OpenAIProvider) CreateCompletion(ctx context.Context, req *CompletionRequest) (*CompletionStream, error) {
	return streamCompletion(ctx, p.chatModel, req)
}

func openAIModels() []types.Model {
	return []types.Model{
		{
			ID:              "gpt-4o",
			Name:            "GPT-4o",
			ProviderID:      "openai",
			ContextLength:   128000,
			MaxOutputTokens: 16384,
			SupportsTools:   true,
		},
		{
			ID:              "gpt-4o-mini",
			Name:            "GPT-4o mini",
			ProviderID:      "openai",
			ContextLength:   128000,
			MaxOutputTokens: 16384,
			SupportsTools:   true,
		},
	}
}
