package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const previewPatchDescription = `Renders a diff between a file's current content and proposed new content.

Usage:
- Nothing is written to disk; this only previews the change
- Returns the patch text plus added/deleted line counts and a similarity score
- A missing file is treated as empty, so the preview shows a pure addition`

// PreviewPatchTool renders proposed edits as patches without applying them.
type PreviewPatchTool struct {
	workDir string
}

// PreviewPatchInput represents the input for the preview_patch tool.
type PreviewPatchInput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// NewPreviewPatchTool creates a new preview_patch tool.
func NewPreviewPatchTool(workDir string) *PreviewPatchTool {
	return &PreviewPatchTool{workDir: workDir}
}

func (t *PreviewPatchTool) ID() string          { return "preview_patch" }
func (t *PreviewPatchTool) Description() string { return previewPatchDescription }

func (t *PreviewPatchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {
				"type": "string",
				"description": "Path to the file the change applies to"
			},
			"content": {
				"type": "string",
				"description": "Proposed full content of the file"
			}
		},
		"required": ["path", "content"]
	}`)
}

func (t *PreviewPatchTool) Execute(ctx context.Context, input json.RawMessage, toolCtx *Context) (*Result, error) {
	var params PreviewPatchInput
	if err := json.Unmarshal(input, &params); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if params.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	path := resolvePath(params.Path, t.workDir, toolCtx)

	before := ""
	if data, err := os.ReadFile(path); err == nil {
		before = string(data)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if before == params.Content {
		return &Result{
			Title:  fmt.Sprintf("No changes to %s", params.Path),
			Output: "proposed content is identical to the file",
			Payload: map[string]any{
				"path":      path,
				"patch":     "",
				"additions": 0,
				"deletions": 0,
			},
		}, nil
	}

	patch, additions, deletions := buildPatch(path, before, params.Content, t.workDir)

	return &Result{
		Title:  fmt.Sprintf("Patch for %s (+%d -%d)", params.Path, additions, deletions),
		Output: patch,
		Payload: map[string]any{
			"path":       path,
			"patch":      patch,
			"additions":  additions,
			"deletions":  deletions,
			"similarity": contentSimilarity(before, params.Content),
		},
	}, nil
}

// buildPatch calculates a patch and line counts. It returns the patch text
// prefixed with file headers, the number of added lines and the number of
// deleted lines.
func buildPatch(path, before, after, baseDir string) (string, int, int) {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	additions, deletions := 0, 0
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			additions += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			deletions += countLines(d.Text)
		}
	}

	patches := dmp.PatchMake(before, diffs)
	patchText := dmp.PatchToText(patches)
	if patchText == "" {
		return "", additions, deletions
	}

	relPath := path
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, path); err == nil {
			relPath = rel
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("--- %s\n", relPath))
	sb.WriteString(fmt.Sprintf("+++ %s\n", relPath))
	sb.WriteString(patchText)

	return sb.String(), additions, deletions
}

// contentSimilarity is normalized Levenshtein similarity between the old and
// new content. Extremely long inputs fall back to a length ratio.
func contentSimilarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	if len(a) > 10000 || len(b) > 10000 {
		maxLen := max(len(a), len(b))
		minLen := min(len(a), len(b))
		return float64(minLen) / float64(maxLen)
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(max(len(a), len(b)))
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	lines := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		lines++
	}
	return lines
}
