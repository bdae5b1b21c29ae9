// Package main provides the entry point for the devmate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/devmate-ai/devmate/cmd/devmate/commands"
)

func main() {
	// Load .env if present; real environment wins.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
