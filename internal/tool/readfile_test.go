package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestReadFileTool_Execute(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "test.txt", "Line 1\nLine 2\nLine 3\n")

	tool := NewReadFileTool(dir)
	result, err := tool.Execute(context.Background(), json.RawMessage(`{"path": "`+path+`"}`), testContext())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !strings.Contains(result.Output, "Line 1") || !strings.Contains(result.Output, "Line 3") {
		t.Errorf("Output missing file content: %q", result.Output)
	}
	if result.Payload["lines"] != 3 {
		t.Errorf("Expected 3 lines in payload, got %v", result.Payload["lines"])
	}
}

func TestReadFileTool_RelativePath(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "rel.txt", "relative content\n")

	tool := NewReadFileTool(dir)
	result, err := tool.Execute(context.Background(), json.RawMessage(`{"path": "rel.txt"}`), testContext())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(result.Output, "relative content") {
		t.Errorf("Output missing content: %q", result.Output)
	}
}

func TestReadFileTool_FileNotFound(t *testing.T) {
	tool := NewReadFileTool(t.TempDir())
	_, err := tool.Execute(context.Background(), json.RawMessage(`{"path": "/nonexistent/file.txt"}`), testContext())
	if err == nil {
		t.Fatal("Expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "file not found") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestReadFileTool_Directory(t *testing.T) {
	dir := t.TempDir()
	tool := NewReadFileTool(dir)
	_, err := tool.Execute(context.Background(), json.RawMessage(`{"path": "`+dir+`"}`), testContext())
	if err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("Expected directory error, got: %v", err)
	}
}

func TestReadFileTool_OffsetAndLimit(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, fmt.Sprintf("line-%d", i))
	}
	writeTestFile(t, dir, "lines.txt", strings.Join(lines, "\n")+"\n")

	tool := NewReadFileTool(dir)
	result, err := tool.Execute(context.Background(),
		json.RawMessage(`{"path": "lines.txt", "offset": 4, "limit": 3}`), testContext())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if strings.Contains(result.Output, "line-3\n") {
		t.Error("Output should not contain lines before the offset")
	}
	for _, want := range []string{"line-4", "line-5", "line-6"} {
		if !strings.Contains(result.Output, want) {
			t.Errorf("Output missing %s", want)
		}
	}
	if strings.Contains(result.Output, "line-7") {
		t.Error("Output should not contain lines past the limit")
	}
}

func TestReadFileTool_BlocksEnvFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, ".env", "SECRET=hunter2\n")
	writeTestFile(t, dir, ".env.example", "SECRET=\n")

	tool := NewReadFileTool(dir)

	_, err := tool.Execute(context.Background(), json.RawMessage(`{"path": ".env"}`), testContext())
	if err == nil || !strings.Contains(err.Error(), "blocked") {
		t.Errorf("Expected .env read to be blocked, got: %v", err)
	}

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"path": ".env.example"}`), testContext())
	if err != nil {
		t.Fatalf(".env.example should be readable: %v", err)
	}
	if !strings.Contains(result.Output, "SECRET=") {
		t.Errorf("Unexpected output: %q", result.Output)
	}
}
