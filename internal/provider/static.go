package provider

import (
	"context"

	"github.com/cloudwego/eino/components/model"

	"github.com/devmate-ai/devmate/pkg/types"
)

// StaticProvider wraps a pre-built chat model. The sandbox command uses it
// to run the composed agent tree against a scripted model, and tests use
// it wherever a real provider would need credentials.
type StaticProvider struct {
	id        string
	name      string
	chatModel model.ToolCallingChatModel
}

// NewStaticProvider creates a provider that always returns chatModel.
func NewStaticProvider(id, name string, chatModel model.ToolCallingChatModel) *StaticProvider {
	return &StaticProvider{id: id, name: name, chatModel: chatModel}
}

func (p *StaticProvider) ID() string   { return p.id }
func (p *StaticProvider) Name() string { return p.name }

func (p *StaticProvider) Models() []types.Model {
	return []types.Model{
		{
			ID:            p.id + "-static",
			Name:          p.name,
			ProviderID:    p.id,
			SupportsTools: true,
		},
	}
}

func (p *StaticProvider) ChatModel() model.ToolCallingChatModel { return p.chatModel }

func (p *StaticProvider) ChatModelFor(ctx context.Context, modelID string) (model.ToolCallingChatModel, error) {
	return p.chatModel, nil
}

func (p *StaticProvider) CreateCompletion(ctx context.Context, req *CompletionRequest) (*CompletionStream, error) {
	return streamCompletion(ctx, p.chatModel, req)
}
