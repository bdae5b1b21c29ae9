// Package types provides the shared data types for devmate.
package types

// Config represents the devmate configuration, loaded from devmate.yaml.
type Config struct {
	// Schema reference (for editor support)
	Schema string `yaml:"$schema,omitempty" json:"$schema,omitempty"`

	// Default model selection, "provider/model" format
	// (e.g. "anthropic/claude-sonnet-4-20250514").
	Model string `yaml:"model,omitempty" json:"model,omitempty"`

	// Provider configs keyed by provider ID ("anthropic", "openai").
	Provider map[string]ProviderConfig `yaml:"provider,omitempty" json:"provider,omitempty"`

	// Per-agent overrides keyed by agent name.
	Agent map[string]AgentConfig `yaml:"agent,omitempty" json:"agent,omitempty"`

	// Auto-approval switches. When set, permission checks that would
	// normally ask collapse to allow.
	AutoApprove AutoApproveConfig `yaml:"auto_approve,omitempty" json:"auto_approve,omitempty"`

	// Shell command allowlist patterns for the run_command tool.
	// Patterns support * and ** wildcards ("git status*", "go test*").
	CommandAllowlist []string `yaml:"command_allowlist,omitempty" json:"command_allowlist,omitempty"`

	// Rule strings appended to every agent instruction.
	Rules []string `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Deployment settings for the agent-hosting service.
	Deploy *DeployConfig `yaml:"deploy,omitempty" json:"deploy,omitempty"`

	// Log settings.
	Log LogConfig `yaml:"log,omitempty" json:"log,omitempty"`
}

// ProviderConfig holds configuration for a specific provider.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty" json:"apiKey,omitempty"`
	BaseURL string `yaml:"base_url,omitempty" json:"baseURL,omitempty"`

	// MaxTokens caps completion length for providers that require it.
	MaxTokens int `yaml:"max_tokens,omitempty" json:"maxTokens,omitempty"`

	// Bedrock routing (Anthropic only).
	UseBedrock bool   `yaml:"use_bedrock,omitempty" json:"useBedrock,omitempty"`
	Region     string `yaml:"region,omitempty" json:"region,omitempty"`

	// Disable provider
	Disable bool `yaml:"disable,omitempty" json:"disable,omitempty"`
}

// AgentConfig holds per-agent configuration overrides.
type AgentConfig struct {
	// Model override for this agent, "provider/model" format.
	Model string `yaml:"model,omitempty" json:"model,omitempty"`

	// Instruction replaces the built-in instruction when set.
	Instruction string `yaml:"instruction,omitempty" json:"instruction,omitempty"`

	// Tools replaces the built-in tool list when non-empty.
	Tools []string `yaml:"tools,omitempty" json:"tools,omitempty"`

	// Disable removes the agent from composition.
	Disable bool `yaml:"disable,omitempty" json:"disable,omitempty"`
}

// AutoApproveConfig holds the auto-approval booleans.
type AutoApproveConfig struct {
	Commands bool `yaml:"commands,omitempty" json:"commands,omitempty"`
	Edits    bool `yaml:"edits,omitempty" json:"edits,omitempty"`
}

// DeployConfig holds agent-hosting service settings.
type DeployConfig struct {
	// BaseURL of the hosting API (e.g. "https://agents.example.com").
	BaseURL string `yaml:"base_url,omitempty" json:"baseURL,omitempty"`

	// Token is the bearer token. Falls back to DEVMATE_DEPLOY_TOKEN.
	Token string `yaml:"token,omitempty" json:"token,omitempty"`

	// DisplayName and Description shown by the hosting service.
	DisplayName string `yaml:"display_name,omitempty" json:"displayName,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Pretty bool   `yaml:"pretty,omitempty" json:"pretty,omitempty"`
}
