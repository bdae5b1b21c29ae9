package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var agentsDir string

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the registered agents",
	Long: `List every registered agent with its mode, model, and tool set.
Per-agent config overrides (model, instruction, tools, disable) are
already applied.`,
	RunE: listAgents,
}

func init() {
	agentsCmd.Flags().StringVar(&agentsDir, "directory", "", "Working directory")
}

func listAgents(cmd *cobra.Command, args []string) error {
	app, err := loadApp(context.Background(), agentsDir)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tMODEL\tTOOLS")
	for _, def := range app.Agents.List() {
		model := def.Model.String()
		if model == "" {
			model = "(default)"
		}
		tools := strings.Join(def.Tools, ",")
		if tools == "" {
			tools = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Name, def.Mode, model, tools)
	}
	return w.Flush()
}
