package tool

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const readFileDescription = `Reads a file from the local filesystem.

Usage:
- Relative paths are resolved against the working directory
- By default, reads up to 2000 lines from the beginning
- You can optionally specify offset and limit for pagination
- Returns file contents with line numbers`

const maxReadLines = 2000

// ReadFileTool implements file reading.
type ReadFileTool struct {
	workDir string
}

// ReadFileInput represents the input for the read_file tool.
type ReadFileInput struct {
	Path   string `json:"path"`
	Offset int    `json:"offset,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// NewReadFileTool creates a new read_file tool.
func NewReadFileTool(workDir string) *ReadFileTool {
	return &ReadFileTool{workDir: workDir}
}

func (t *ReadFileTool) ID() string          { return "read_file" }
func (t *ReadFileTool) Description() string { return readFileDescription }

func (t *ReadFileTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {
				"type": "string",
				"description": "Path to the file to read"
			},
			"offset": {
				"type": "integer",
				"description": "Line number to start reading from (1-based)"
			},
			"limit": {
				"type": "integer",
				"description": "Number of lines to read (default: 2000)"
			}
		},
		"required": ["path"]
	}`)
}

func (t *ReadFileTool) Execute(ctx context.Context, input json.RawMessage, toolCtx *Context) (*Result, error) {
	var params ReadFileInput
	if err := json.Unmarshal(input, &params); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	if params.Limit <= 0 {
		params.Limit = maxReadLines
	}

	path := resolvePath(params.Path, t.workDir, toolCtx)

	if blockedSecretFile(path) {
		return nil, fmt.Errorf("reading %s is blocked, do not attempt to read it again", params.Path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s", params.Path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", params.Path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNum := 0
	read := 0
	truncated := false
	for scanner.Scan() {
		lineNum++
		if params.Offset > 0 && lineNum < params.Offset {
			continue
		}
		if read >= params.Limit {
			truncated = true
			break
		}
		sb.WriteString(fmt.Sprintf("%6d\t%s\n", lineNum, scanner.Text()))
		read++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	output := sb.String()
	if truncated {
		output += "\n(File has more lines. Use offset to read beyond this point.)"
	}

	return &Result{
		Title:  params.Path,
		Output: output,
		Payload: map[string]any{
			"path":    path,
			"content": output,
			"lines":   read,
		},
	}, nil
}

// resolvePath resolves a possibly-relative path against the tool context's
// working directory, falling back to the tool's own.
func resolvePath(path, workDir string, toolCtx *Context) string {
	if filepath.IsAbs(path) {
		return path
	}
	base := workDir
	if toolCtx != nil && toolCtx.WorkDir != "" {
		base = toolCtx.WorkDir
	}
	return filepath.Join(base, path)
}

// blockedSecretFile reports whether a path is an environment secrets file.
// Samples and templates stay readable.
func blockedSecretFile(path string) bool {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, ".env") {
		return false
	}
	for _, suffix := range []string{".sample", ".example", ".template"} {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}
