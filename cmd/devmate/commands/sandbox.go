package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/devmate-ai/devmate/internal/agent"
	"github.com/devmate-ai/devmate/internal/compose"
	"github.com/devmate-ai/devmate/internal/event"
	"github.com/devmate-ai/devmate/internal/provider"
	"github.com/devmate-ai/devmate/internal/session"
	"github.com/devmate-ai/devmate/internal/storage"
	"github.com/devmate-ai/devmate/internal/tool"
	"github.com/devmate-ai/devmate/pkg/types"
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Smoke-test the framework with a scripted model",
	Long: `Run the composition, tool, and event pipeline end to end against a
scripted model. No API keys or network access required. Useful for
experimenting with the framework and verifying an installation.`,
	RunE: runSandbox,
}

const sandboxSource = `package sample

// TODO: handle the overflow case in Add
func Add(a, b int) int {
	return a + b
}

func Sub(a, b int) int {
	return a - b
}
`

func runSandbox(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := context.Background()

	workDir, err := os.MkdirTemp("", "devmate-sandbox-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	samplePath := filepath.Join(workDir, "sample.go")
	if err := os.WriteFile(samplePath, []byte(sandboxSource), 0o644); err != nil {
		return err
	}

	// The script plays a code_quality run: analyze the sample, read the
	// recorded issues, then summarize.
	analyzeArgs, _ := json.Marshal(map[string]string{"path": samplePath})
	issuesArgs, _ := json.Marshal(map[string]string{"path": samplePath})
	scripted := compose.NewScriptedModel(
		compose.ScriptToolCall("call-1", "analyze_code", string(analyzeArgs)),
		compose.ScriptToolCall("call-2", "analysis_issues", string(issuesArgs)),
		compose.ScriptText("sample.go scans clean apart from an open TODO in Add."),
	)

	providers := provider.NewRegistry(&types.Config{Model: "scripted/scripted-static"})
	providers.Register(provider.NewStaticProvider("scripted", "Scripted", scripted))

	agents := agent.NewRegistry()
	tools := tool.DefaultRegistry(workDir, nil)
	store := storage.New(filepath.Join(workDir, "storage"))
	sessions := session.NewService(store)

	composer := compose.NewComposer(compose.ComposerConfig{
		Agents:    agents,
		Providers: providers,
		Tools:     tools,
		Sessions:  sessions,
		WorkDir:   workDir,
	})
	runner := compose.NewRunner(composer, sessions)

	// Trace every bus event so the pipeline is visible.
	unsub := event.SubscribeAll(func(e event.Event) {
		data, _ := json.Marshal(e.Data)
		fmt.Fprintf(out, "  event %-20s %s\n", e.Type, data)
	})
	defer unsub()

	sess, err := sessions.Create(ctx, "code_quality", "sandbox")
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "sandbox session %s\n", sess.ID)
	result, err := runner.Query(ctx, sess.ID, "check the quality of sample.go", func(agentName, text string) {
		fmt.Fprintf(out, "\n[%s]\n%s\n", agentName, text)
	})
	if err != nil {
		return err
	}

	// Async event delivery; wait for the trace to finish before summarizing.
	event.Drain()

	fmt.Fprintf(out, "\nfinal answer: %s\n", result.Content)

	state := sessions.State(sess.ID)
	keys, err := state.Keys(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "session state keys: %v\n", keys)

	return nil
}
