package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/devmate-ai/devmate/internal/config"
	"github.com/devmate-ai/devmate/internal/deploy"
	"github.com/devmate-ai/devmate/internal/logging"
	"github.com/devmate-ai/devmate/internal/server"
	"github.com/devmate-ai/devmate/pkg/types"
)

var (
	servePort int
	serveDir  string
	serveCORS bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant over HTTP",
	Long: `Start an HTTP server exposing agents, sessions, a message endpoint
that runs the composed root agent, and an SSE event stream.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDir, "directory", "", "Working directory")
	serveCmd.Flags().BoolVar(&serveCORS, "cors", true, "Enable CORS")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := loadApp(ctx, serveDir)
	if err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	cfg.Port = servePort
	cfg.EnableCORS = serveCORS

	deps := server.Deps{
		AppConfig: app.Config,
		Agents:    app.Agents,
		Tools:     app.Tools,
		Sessions:  app.Sessions,
		Runner:    app.Runner,
	}

	// Deployment listing is optional; it needs a configured hosting service.
	if client, err := deploy.NewClient(app.Config.Deploy); err == nil {
		deps.Deployments = deploy.NewService(client, app.Storage, app.Agents, app.Config)
	}

	srv := server.New(cfg, deps)

	// Pick up allowlist, rule, and model edits without a restart.
	watcher, err := config.NewWatcher(app.WorkDir, func(next *types.Config) {
		*app.Config = *next
		app.Agents.ApplyConfig(next.Agent, next.Rules)
		app.Checker.SetConfig(next.CommandAllowlist, next.AutoApprove)
	})
	if err != nil {
		logging.Warn().Err(err).Msg("config watcher unavailable")
	} else {
		watcher.Start()
		defer watcher.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Int("port", servePort).Msg("server listening")
		fmt.Fprintf(cmd.OutOrStdout(), "devmate server listening on :%d\n", servePort)
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-stop:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
