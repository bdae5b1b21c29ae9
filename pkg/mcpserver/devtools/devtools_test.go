package devtools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmate-ai/devmate/internal/session"
	"github.com/devmate-ai/devmate/internal/storage"
	"github.com/devmate-ai/devmate/internal/tool"
)

func testConfig(t *testing.T) Config {
	t.Helper()

	workDir := t.TempDir()
	sessions := session.NewService(storage.New(t.TempDir()))

	return Config{
		Tools:   tool.DefaultRegistry(workDir, nil),
		State:   sessions.State("mcp"),
		WorkDir: workDir,
	}
}

func TestNewServer_RegistersAllTools(t *testing.T) {
	cfg := testConfig(t)
	srv := NewServer(cfg)

	for _, id := range cfg.Tools.IDs() {
		assert.NotNil(t, srv.GetTool(id), "tool %s should be registered", id)
	}
}

func TestServer_ReadFile(t *testing.T) {
	cfg := testConfig(t)
	srv := NewServer(cfg)

	path := filepath.Join(cfg.WorkDir, "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello mcp\n"), 0o644))

	readTool := srv.GetTool("read_file")
	require.NotNil(t, readTool)

	request := mcp.CallToolRequest{}
	request.Params.Name = "read_file"
	request.Params.Arguments = map[string]any{"path": path}

	result, err := readTool.Handler(context.Background(), request)
	require.NoError(t, err)
	require.False(t, result.IsError)

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "hello mcp")
}

func TestServer_ToolErrorsBecomeToolResults(t *testing.T) {
	cfg := testConfig(t)
	srv := NewServer(cfg)

	readTool := srv.GetTool("read_file")
	require.NotNil(t, readTool)

	request := mcp.CallToolRequest{}
	request.Params.Name = "read_file"
	request.Params.Arguments = map[string]any{"path": "/nonexistent/file.txt"}

	result, err := readTool.Handler(context.Background(), request)
	require.NoError(t, err, "tool failures must not surface as protocol errors")
	assert.True(t, result.IsError)
}

func TestServer_AnalyzeAndIssues(t *testing.T) {
	cfg := testConfig(t)
	srv := NewServer(cfg)

	path := filepath.Join(cfg.WorkDir, "main.go")
	source := "package main\n\n// TODO: wire up flags\nfunc main() {}\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	analyze := srv.GetTool("analyze_code")
	require.NotNil(t, analyze)

	request := mcp.CallToolRequest{}
	request.Params.Name = "analyze_code"
	request.Params.Arguments = map[string]any{"path": path}

	result, err := analyze.Handler(context.Background(), request)
	require.NoError(t, err)
	require.False(t, result.IsError)

	issues := srv.GetTool("analysis_issues")
	require.NotNil(t, issues)

	request = mcp.CallToolRequest{}
	request.Params.Name = "analysis_issues"
	request.Params.Arguments = map[string]any{"path": path}

	result, err = issues.Handler(context.Background(), request)
	require.NoError(t, err)
	require.False(t, result.IsError)

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "recorded issues")
}
