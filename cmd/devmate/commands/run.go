package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devmate-ai/devmate/internal/event"
)

var (
	runModel    string
	runAgent    string
	runContinue bool
	runSession  string
	runTitle    string
	runDir      string
)

var runCmd = &cobra.Command{
	Use:   "run [message...]",
	Short: "Ask the assistant a question",
	Long: `Run one prompt through the composed agent tree. The root agent
delegates to its specialists as needed.

Examples:
  devmate run "review internal/server/handlers.go"
  devmate run --agent debugging "why does TestFoo deadlock?"
  devmate run --continue "and what about the retry path?"`,
	RunE: runQuery,
}

func init() {
	runCmd.Flags().StringVarP(&runModel, "model", "m", "", "Model to use (provider/model format)")
	runCmd.Flags().StringVar(&runAgent, "agent", "", "Talk to one specialist directly")
	runCmd.Flags().BoolVarP(&runContinue, "continue", "c", false, "Continue the most recent session")
	runCmd.Flags().StringVarP(&runSession, "session", "s", "", "Session ID to continue")
	runCmd.Flags().StringVar(&runTitle, "title", "", "Session title")
	runCmd.Flags().StringVar(&runDir, "directory", "", "Working directory")
}

func runQuery(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")
	if message == "" {
		return fmt.Errorf("message required. Usage: devmate run \"your message\"")
	}

	ctx := context.Background()
	app, err := loadApp(ctx, runDir)
	if err != nil {
		return err
	}

	if runModel != "" {
		app.Config.Model = runModel
	}
	if runAgent != "" && !app.Agents.Exists(runAgent) {
		return fmt.Errorf("unknown agent %q (see 'devmate agents')", runAgent)
	}

	sessionID, err := resolveSession(ctx, app)
	if err != nil {
		return err
	}

	// Answer permission asks from the terminal while the agent runs.
	unsub := promptPermissions(app)
	defer unsub()

	result, err := app.Runner.Query(ctx, sessionID, message, func(agentName, text string) {
		fmt.Printf("\n[%s]\n%s\n", agentName, text)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nsession: %s\n", result.SessionID)
	return nil
}

// resolveSession picks the session the prompt runs in: an explicit ID, the
// most recent one with --continue, or a fresh session.
func resolveSession(ctx context.Context, app *App) (string, error) {
	if runSession != "" {
		if _, err := app.Sessions.Get(ctx, runSession); err != nil {
			return "", fmt.Errorf("session not found: %s", runSession)
		}
		return runSession, nil
	}

	if runContinue {
		sessions, err := app.Sessions.List(ctx)
		if err != nil {
			return "", err
		}
		if len(sessions) > 0 {
			return sessions[0].ID, nil
		}
	}

	agentName := runAgent
	if agentName == "" {
		root, err := app.Agents.Root()
		if err != nil {
			return "", err
		}
		agentName = root.Name
	}

	sess, err := app.Sessions.Create(ctx, agentName, runTitle)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

// promptPermissions answers permission.required events from stdin.
func promptPermissions(app *App) func() {
	stdin := bufio.NewScanner(os.Stdin)
	return event.Subscribe(event.PermissionRequired, func(e event.Event) {
		data, ok := e.Data.(event.PermissionRequiredData)
		if !ok {
			return
		}

		fmt.Printf("\nPermission requested: %s\nAllow? [y]es / [a]lways / [N]o: ", data.Title)
		answer := ""
		if stdin.Scan() {
			answer = strings.ToLower(strings.TrimSpace(stdin.Text()))
		}

		switch answer {
		case "y", "yes":
			app.Checker.Respond(data.ID, "once")
		case "a", "always":
			app.Checker.Respond(data.ID, "always")
		default:
			app.Checker.Respond(data.ID, "reject")
		}
	})
}
