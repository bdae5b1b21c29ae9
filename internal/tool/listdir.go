package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"os"

	"github.com/bmatcuk/doublestar/v4"
)

const listDirDescription = `Lists files and directories in a specified path.

Usage:
- Returns entry names, types (file/directory) and sizes
- Common build and dependency directories are skipped by default
- Additional glob patterns to ignore can be supplied`

// ListDirTool implements directory listing.
type ListDirTool struct {
	workDir string
}

// ListDirInput represents the input for the list_dir tool.
type ListDirInput struct {
	Path   string   `json:"path,omitempty"`
	Ignore []string `json:"ignore,omitempty"`
}

// Directories that are almost never what the model wants to see.
var defaultIgnoreDirs = []string{
	"node_modules",
	"__pycache__",
	".git",
	"dist",
	"build",
	"target",
	"vendor",
	".idea",
	".vscode",
	".venv",
	"venv",
	".cache",
}

// NewListDirTool creates a new list_dir tool.
func NewListDirTool(workDir string) *ListDirTool {
	return &ListDirTool{workDir: workDir}
}

func (t *ListDirTool) ID() string          { return "list_dir" }
func (t *ListDirTool) Description() string { return listDirDescription }

func (t *ListDirTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {
				"type": "string",
				"description": "Directory to list (defaults to the working directory)"
			},
			"ignore": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Glob patterns to ignore"
			}
		}
	}`)
}

// DirEntry represents a listed file or directory.
type DirEntry struct {
	Name        string `json:"name"`
	IsDirectory bool   `json:"isDirectory"`
	Size        int64  `json:"size"`
}

func (t *ListDirTool) Execute(ctx context.Context, input json.RawMessage, toolCtx *Context) (*Result, error) {
	var params ListDirInput
	if err := json.Unmarshal(input, &params); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	dir := resolvePath(params.Path, t.workDir, toolCtx)
	if params.Path == "" {
		dir = t.workDir
		if toolCtx != nil && toolCtx.WorkDir != "" {
			dir = toolCtx.WorkDir
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []DirEntry
	for _, entry := range entries {
		if skipEntry(entry.Name(), entry.IsDir(), params.Ignore) {
			continue
		}

		size := int64(0)
		if info, err := entry.Info(); err == nil && !entry.IsDir() {
			size = info.Size()
		}
		files = append(files, DirEntry{
			Name:        entry.Name(),
			IsDirectory: entry.IsDir(),
			Size:        size,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var sb strings.Builder
	for _, f := range files {
		if f.IsDirectory {
			sb.WriteString(fmt.Sprintf("[dir ] %s\n", f.Name))
		} else {
			sb.WriteString(fmt.Sprintf("[file] %s (%d bytes)\n", f.Name, f.Size))
		}
	}

	return &Result{
		Title:  fmt.Sprintf("Listed %d entries", len(files)),
		Output: sb.String(),
		Payload: map[string]any{
			"path":    dir,
			"entries": files,
			"count":   len(files),
		},
	}, nil
}

func skipEntry(name string, isDir bool, ignore []string) bool {
	if isDir {
		for _, d := range defaultIgnoreDirs {
			if name == d {
				return true
			}
		}
	}
	for _, pattern := range ignore {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
