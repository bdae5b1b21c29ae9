package commands

import (
	"context"
	"fmt"

	"github.com/devmate-ai/devmate/internal/agent"
	"github.com/devmate-ai/devmate/internal/compose"
	"github.com/devmate-ai/devmate/internal/config"
	"github.com/devmate-ai/devmate/internal/permission"
	"github.com/devmate-ai/devmate/internal/project"
	"github.com/devmate-ai/devmate/internal/provider"
	"github.com/devmate-ai/devmate/internal/session"
	"github.com/devmate-ai/devmate/internal/storage"
	"github.com/devmate-ai/devmate/internal/tool"
	"github.com/devmate-ai/devmate/pkg/types"
)

// App bundles the wired-up services every command draws from.
type App struct {
	Config    *types.Config
	WorkDir   string
	Storage   *storage.Storage
	Sessions  *session.Service
	Agents    *agent.Registry
	Providers *provider.Registry
	Tools     *tool.Registry
	Checker   *permission.Checker
	Composer  *compose.Composer
	Runner    *compose.Runner
}

// loadApp loads config and wires the service graph. Commands that do not
// talk to a model (agents, tools) still get a consistent view of the
// configured registries.
func loadApp(ctx context.Context, workDir string) (*App, error) {
	dir, err := GetWorkDir(workDir)
	if err != nil {
		return nil, err
	}

	paths := config.GetPaths()
	if err := paths.EnsurePaths(); err != nil {
		return nil, err
	}

	// Project config lives at the repository root, not necessarily cwd.
	cfg, err := config.Load(project.Root(dir))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	providers, err := provider.InitializeProviders(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize providers: %w", err)
	}

	agents := agent.NewRegistry()
	agents.ApplyConfig(cfg.Agent, cfg.Rules)

	checker := permission.NewChecker(cfg.CommandAllowlist, cfg.AutoApprove)
	tools := tool.DefaultRegistry(dir, checker)

	store := storage.New(paths.StoragePath())
	sessions := session.NewService(store)

	composer := compose.NewComposer(compose.ComposerConfig{
		Agents:    agents,
		Providers: providers,
		Tools:     tools,
		Sessions:  sessions,
		WorkDir:   dir,
	})

	return &App{
		Config:    cfg,
		WorkDir:   dir,
		Storage:   store,
		Sessions:  sessions,
		Agents:    agents,
		Providers: providers,
		Tools:     tools,
		Checker:   checker,
		Composer:  composer,
		Runner:    compose.NewRunner(composer, sessions),
	}, nil
}
