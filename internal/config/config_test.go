package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DEVMATE_CONFIG", "")
	t.Setenv("DEVMATE_CONFIG_CONTENT", "")
	t.Setenv("DEVMATE_MODEL", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DEVMATE_DEPLOY_URL", "")
	t.Setenv("DEVMATE_DEPLOY_TOKEN", "")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.NotEmpty(t, cfg.CommandAllowlist)
	assert.False(t, cfg.AutoApprove.Commands)
}

func TestLoadProjectYAML(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "devmate.yaml", `
model: openai/gpt-4o
rules:
  - Always answer in English.
auto_approve:
  commands: true
command_allowlist:
  - "make *"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai/gpt-4o", cfg.Model)
	assert.Equal(t, []string{"Always answer in English."}, cfg.Rules)
	assert.True(t, cfg.AutoApprove.Commands)
	assert.False(t, cfg.AutoApprove.Edits)
	// Allowlist entries accumulate on top of the defaults.
	assert.Contains(t, cfg.CommandAllowlist, "make *")
	assert.Contains(t, cfg.CommandAllowlist, "git status*")
}

func TestLoadDotDirOverridesProjectRoot(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "devmate.yaml", "model: anthropic/claude-3-5-haiku-20241022\n")
	writeConfig(t, filepath.Join(dir, ".devmate"), "devmate.yaml", "model: openai/gpt-4o-mini\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	// Later files win for scalar fields.
	assert.Equal(t, "openai/gpt-4o-mini", cfg.Model)
}

func TestLoadJSONCVariant(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "devmate.jsonc", `{
		// model selection
		"model": "anthropic/claude-sonnet-4-20250514",
		"rules": ["Prefer small diffs."]
	}`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "anthropic/claude-sonnet-4-20250514", cfg.Model)
	assert.Equal(t, []string{"Prefer small diffs."}, cfg.Rules)
}

func TestInterpolateEnvAndFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	t.Setenv("TEST_DEVMATE_KEY", "sk-test-123")
	writeConfig(t, dir, "rules.txt", "No force pushes.\n")
	writeConfig(t, dir, "devmate.yaml", `
provider:
  anthropic:
    api_key: "{env:TEST_DEVMATE_KEY}"
rules:
  - "{file:rules.txt}"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sk-test-123", cfg.Provider["anthropic"].APIKey)
	assert.Equal(t, []string{"No force pushes."}, cfg.Rules)
}

func TestEnvOverrides(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("DEVMATE_MODEL", "openai/gpt-4o")
	t.Setenv("DEVMATE_DEPLOY_URL", "https://agents.example.com")
	t.Setenv("DEVMATE_DEPLOY_TOKEN", "tok-1")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sk-openai", cfg.Provider["openai"].APIKey)
	assert.Equal(t, "openai/gpt-4o", cfg.Model)
	require.NotNil(t, cfg.Deploy)
	assert.Equal(t, "https://agents.example.com", cfg.Deploy.BaseURL)
	assert.Equal(t, "tok-1", cfg.Deploy.Token)
}

func TestConfigFileDoesNotOverrideEnvKey(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "devmate.yaml", `
provider:
  anthropic:
    api_key: from-file
`)
	t.Setenv("ANTHROPIC_API_KEY", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)

	// File key present, env must not clobber it.
	assert.Equal(t, "from-file", cfg.Provider["anthropic"].APIKey)
}

func TestInlineConfigContent(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DEVMATE_CONFIG_CONTENT", "model: openai/gpt-4o-mini\n")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.Model)
}

func TestSaveRoundTrip(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	cfg := Default()
	cfg.Model = "openai/gpt-4o"
	cfg.Rules = []string{"rule one"}

	path := filepath.Join(dir, "out", "devmate.yaml")
	require.NoError(t, Save(cfg, path))

	loaded := Default()
	require.NoError(t, loadConfigFile(path, loaded, dir))
	assert.Equal(t, "openai/gpt-4o", loaded.Model)
	assert.Contains(t, loaded.Rules, "rule one")
}
