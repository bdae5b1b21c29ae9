package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/devmate-ai/devmate/pkg/types"
)

// DefaultModel is used when no config or flag selects a model.
const DefaultModel = "anthropic/claude-sonnet-4-20250514"

// Default returns the baseline configuration before any file is applied.
func Default() *types.Config {
	return &types.Config{
		Model:    DefaultModel,
		Provider: make(map[string]types.ProviderConfig),
		Agent:    make(map[string]types.AgentConfig),
		CommandAllowlist: []string{
			"cat *", "diff*", "find *", "git diff*", "git log*", "git show*",
			"git status*", "go build*", "go test*", "go vet*", "grep*",
			"head*", "ls*", "pwd", "stat*", "tail*", "wc*", "which*",
		},
	}
}

// Load loads configuration from multiple sources (priority order):
//  1. Global config (~/.config/devmate/devmate.yaml)
//  2. Project config (devmate.yaml, .devmate/devmate.yaml)
//  3. DEVMATE_CONFIG file
//  4. DEVMATE_CONFIG_CONTENT inline YAML
//  5. Environment variables
//
// YAML is the primary format; .json/.jsonc variants are also accepted.
func Load(directory string) (*types.Config, error) {
	config := Default()

	loaded := make(map[string]bool)
	loadOnce := func(path, baseDir string) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[absPath] {
			return
		}
		if loadConfigFile(path, config, baseDir) == nil {
			loaded[absPath] = true
		}
	}

	// 1. Global config
	globalDir := GetPaths().Config
	for _, name := range configNames() {
		loadOnce(filepath.Join(globalDir, name), globalDir)
	}

	// 2. Project config
	if directory != "" {
		projectDir := filepath.Join(directory, ".devmate")
		for _, name := range configNames() {
			loadOnce(filepath.Join(directory, name), directory)
			loadOnce(filepath.Join(projectDir, name), projectDir)
		}
	}

	// 3. DEVMATE_CONFIG file override
	if configPath := os.Getenv("DEVMATE_CONFIG"); configPath != "" {
		loadOnce(configPath, filepath.Dir(configPath))
	}

	// 4. DEVMATE_CONFIG_CONTENT inline YAML
	if content := os.Getenv("DEVMATE_CONFIG_CONTENT"); content != "" {
		var inline types.Config
		if err := yaml.Unmarshal([]byte(content), &inline); err == nil {
			mergeConfig(config, &inline)
		}
	}

	// 5. Environment variables (highest priority)
	applyEnvOverrides(config)

	return config, nil
}

func configNames() []string {
	return []string{"devmate.yaml", "devmate.yml", "devmate.jsonc", "devmate.json"}
}

// loadConfigFile loads a single config file with interpolation support.
func loadConfigFile(path string, config *types.Config, baseDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err // File doesn't exist, skip
	}

	data = interpolate(data, baseDir)

	var fileConfig types.Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &fileConfig); err != nil {
			return err
		}
	default:
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return err
		}
	}

	mergeConfig(config, &fileConfig)
	return nil
}

// interpolate processes {env:VAR} and {file:path} placeholders.
func interpolate(data []byte, baseDir string) []byte {
	str := string(data)

	envPattern := regexp.MustCompile(`\{env:([^}]+)\}`)
	str = envPattern.ReplaceAllStringFunc(str, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})

	filePattern := regexp.MustCompile(`\{file:([^}]+)\}`)
	str = filePattern.ReplaceAllStringFunc(str, func(match string) string {
		filePath := filePattern.FindStringSubmatch(match)[1]

		if strings.HasPrefix(filePath, "~/") {
			home := os.Getenv("HOME")
			filePath = filepath.Join(home, filePath[2:])
		} else if !filepath.IsAbs(filePath) {
			filePath = filepath.Join(baseDir, filePath)
		}

		content, err := os.ReadFile(filePath)
		if err != nil {
			return match // Keep original if file not found
		}
		return strings.TrimRight(string(content), "\n")
	})

	return []byte(str)
}

// mergeConfig merges source config into target.
func mergeConfig(target, source *types.Config) {
	if source.Schema != "" {
		target.Schema = source.Schema
	}
	if source.Model != "" {
		target.Model = source.Model
	}

	if source.Provider != nil {
		if target.Provider == nil {
			target.Provider = make(map[string]types.ProviderConfig)
		}
		for k, v := range source.Provider {
			target.Provider[k] = v
		}
	}

	if source.Agent != nil {
		if target.Agent == nil {
			target.Agent = make(map[string]types.AgentConfig)
		}
		for k, v := range source.Agent {
			target.Agent[k] = v
		}
	}

	if source.AutoApprove.Commands {
		target.AutoApprove.Commands = true
	}
	if source.AutoApprove.Edits {
		target.AutoApprove.Edits = true
	}

	// Allowlist entries accumulate across files.
	if len(source.CommandAllowlist) > 0 {
		target.CommandAllowlist = append(target.CommandAllowlist, source.CommandAllowlist...)
	}

	if len(source.Rules) > 0 {
		target.Rules = append(target.Rules, source.Rules...)
	}

	if source.Deploy != nil {
		target.Deploy = source.Deploy
	}

	if source.Log.Level != "" {
		target.Log.Level = source.Log.Level
	}
	if source.Log.Pretty {
		target.Log.Pretty = true
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(config *types.Config) {
	providerEnvMap := map[string]string{
		"anthropic": "ANTHROPIC_API_KEY",
		"openai":    "OPENAI_API_KEY",
	}

	for provider, envVar := range providerEnvMap {
		if apiKey := os.Getenv(envVar); apiKey != "" {
			if config.Provider == nil {
				config.Provider = make(map[string]types.ProviderConfig)
			}
			p := config.Provider[provider]
			if p.APIKey == "" {
				p.APIKey = apiKey
				config.Provider[provider] = p
			}
		}
	}

	if model := os.Getenv("DEVMATE_MODEL"); model != "" {
		config.Model = model
	}

	if url := os.Getenv("DEVMATE_DEPLOY_URL"); url != "" {
		if config.Deploy == nil {
			config.Deploy = &types.DeployConfig{}
		}
		config.Deploy.BaseURL = url
	}
	if token := os.Getenv("DEVMATE_DEPLOY_TOKEN"); token != "" {
		if config.Deploy == nil {
			config.Deploy = &types.DeployConfig{}
		}
		config.Deploy.Token = token
	}
}

// Save saves the configuration to a YAML file.
func Save(config *types.Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
