package types

// Model describes a chat model offered by a provider.
type Model struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	ProviderID      string `json:"providerID" yaml:"providerID"`
	ContextLength   int    `json:"contextLength,omitempty" yaml:"contextLength,omitempty"`
	MaxOutputTokens int    `json:"maxOutputTokens,omitempty" yaml:"maxOutputTokens,omitempty"`
	SupportsTools   bool   `json:"supportsTools,omitempty" yaml:"supportsTools,omitempty"`
}
