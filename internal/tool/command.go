package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"syscall"
	"time"

	"github.com/devmate-ai/devmate/internal/permission"
)

const (
	DefaultCommandTimeout = 120 * time.Second
	MaxCommandTimeout     = 10 * time.Minute
	MaxCommandOutput      = 30000
)

const runCommandDescription = `Executes a shell command and returns its output.

Usage:
- Command is required
- Optional timeout in milliseconds (max 600000)
- Provide a brief description of what the command does
- Output is captured from stdout and stderr and truncated past 30000 bytes
- Commands outside the configured allowlist require user approval`

// RunCommandTool implements shell command execution behind the permission
// checker.
type RunCommandTool struct {
	workDir string
	shell   string
	checker *permission.Checker
}

// RunCommandInput represents the input for the run_command tool.
type RunCommandInput struct {
	Command     string `json:"command"`
	Timeout     int    `json:"timeout,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewRunCommandTool creates a new run_command tool. A nil checker disables
// permission gating.
func NewRunCommandTool(workDir string, checker *permission.Checker) *RunCommandTool {
	return &RunCommandTool{
		workDir: workDir,
		shell:   detectShell(),
		checker: checker,
	}
}

func detectShell() string {
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	if runtime.GOOS == "darwin" {
		return "/bin/zsh"
	}
	if bash, err := exec.LookPath("bash"); err == nil {
		return bash
	}
	return "/bin/sh"
}

func (t *RunCommandTool) ID() string          { return "run_command" }
func (t *RunCommandTool) Description() string { return runCommandDescription }

func (t *RunCommandTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"command": {
				"type": "string",
				"description": "The command to execute"
			},
			"timeout": {
				"type": "integer",
				"description": "Optional timeout in milliseconds (max 600000)"
			},
			"description": {
				"type": "string",
				"description": "Brief description of what this command does"
			}
		},
		"required": ["command"]
	}`)
}

func (t *RunCommandTool) Execute(ctx context.Context, input json.RawMessage, toolCtx *Context) (*Result, error) {
	var params RunCommandInput
	if err := json.Unmarshal(input, &params); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if params.Command == "" {
		return nil, fmt.Errorf("command is required")
	}

	if t.checker != nil && toolCtx != nil {
		if err := t.checker.CheckCommand(ctx, toolCtx.SessionID, toolCtx.CallID, params.Command); err != nil {
			return nil, err
		}
	}

	timeout := DefaultCommandTimeout
	if params.Timeout > 0 {
		timeout = time.Duration(params.Timeout) * time.Millisecond
		if timeout > MaxCommandTimeout {
			timeout = MaxCommandTimeout
		}
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, t.shell, "-c", params.Command)
	if toolCtx != nil && toolCtx.WorkDir != "" {
		cmd.Dir = toolCtx.WorkDir
	} else if t.workDir != "" {
		cmd.Dir = t.workDir
	}
	cmd.Env = os.Environ()
	if runtime.GOOS != "windows" {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	if toolCtx != nil && params.Description != "" {
		toolCtx.SetMetadata(params.Description, map[string]any{"command": params.Command})
	}

	output, err := cmd.CombinedOutput()
	timedOut := cmdCtx.Err() == context.DeadlineExceeded

	result := string(output)
	if len(result) > MaxCommandOutput {
		result = result[:MaxCommandOutput] + "\n\n(Output truncated)"
	}
	if timedOut {
		result += fmt.Sprintf("\n\n(Command timed out after %v)", timeout)
	}

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil && !timedOut {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("failed to run command: %w", err)
		}
	}

	title := params.Description
	if title == "" {
		title = "Run command"
	}

	return &Result{
		Title:  title,
		Output: result,
		Payload: map[string]any{
			"output": result,
			"exit":   exitCode,
		},
	}, nil
}
