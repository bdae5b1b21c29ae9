// Command devmate-mcp serves the assistant's tools over MCP stdio.
package main

import (
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/devmate-ai/devmate/internal/config"
	"github.com/devmate-ai/devmate/internal/session"
	"github.com/devmate-ai/devmate/internal/storage"
	"github.com/devmate-ai/devmate/internal/tool"
	"github.com/devmate-ai/devmate/pkg/mcpserver/devtools"
)

func main() {
	workDir, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	paths := config.GetPaths()
	if err := paths.EnsurePaths(); err != nil {
		log.Fatal(err)
	}

	sessions := session.NewService(storage.New(paths.StoragePath()))

	s := devtools.NewServer(devtools.Config{
		Tools:   tool.DefaultRegistry(workDir, nil),
		State:   sessions.State("mcp"),
		WorkDir: workDir,
	})

	if err := server.ServeStdio(s); err != nil {
		log.Fatal(err)
	}
}
