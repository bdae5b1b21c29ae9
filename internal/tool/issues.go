package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/devmate-ai/devmate/internal/storage"
)

const analysisIssuesDescription = `Returns the issues recorded by a previous analyze_code run.

Usage:
- Requires analyze_code to have been called on the same path in this session
- Optionally filters by severity (info, warning, error)`

// AnalysisIssuesTool reads recorded analysis findings back out of session
// state.
type AnalysisIssuesTool struct{}

// AnalysisIssuesInput represents the input for the analysis_issues tool.
type AnalysisIssuesInput struct {
	Path     string `json:"path"`
	Severity string `json:"severity,omitempty"`
}

// NewAnalysisIssuesTool creates a new analysis_issues tool.
func NewAnalysisIssuesTool() *AnalysisIssuesTool {
	return &AnalysisIssuesTool{}
}

func (t *AnalysisIssuesTool) ID() string          { return "analysis_issues" }
func (t *AnalysisIssuesTool) Description() string { return analysisIssuesDescription }

func (t *AnalysisIssuesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {
				"type": "string",
				"description": "Path that was previously analyzed"
			},
			"severity": {
				"type": "string",
				"enum": ["info", "warning", "error"],
				"description": "Only return issues with this severity"
			}
		},
		"required": ["path"]
	}`)
}

func (t *AnalysisIssuesTool) Execute(ctx context.Context, input json.RawMessage, toolCtx *Context) (*Result, error) {
	var params AnalysisIssuesInput
	if err := json.Unmarshal(input, &params); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if params.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if toolCtx == nil || toolCtx.State == nil {
		return nil, fmt.Errorf("no session state available")
	}

	// analyze_code records under the resolved path; accept the raw path too.
	var report AnalysisReport
	err := toolCtx.State.Get(ctx, stateKey(params.Path), &report)
	if err == storage.ErrNotFound {
		err = toolCtx.State.Get(ctx, stateKey(resolvePath(params.Path, "", toolCtx)), &report)
	}
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, fmt.Errorf("no analysis recorded for %s, run analyze_code first", params.Path)
		}
		return nil, fmt.Errorf("failed to read analysis: %w", err)
	}

	issues := report.Issues
	if params.Severity != "" {
		filtered := make([]AnalysisIssue, 0, len(issues))
		for _, issue := range issues {
			if issue.Severity == params.Severity {
				filtered = append(filtered, issue)
			}
		}
		issues = filtered
	}

	return &Result{
		Title:  fmt.Sprintf("%d issues for %s", len(issues), params.Path),
		Output: fmt.Sprintf("%d recorded issues", len(issues)),
		Payload: map[string]any{
			"path":   report.Path,
			"issues": issues,
		},
	}, nil
}
