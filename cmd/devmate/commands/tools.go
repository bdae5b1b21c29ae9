package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var toolsDir string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools",
	RunE:  listTools,
}

func init() {
	toolsCmd.Flags().StringVar(&toolsDir, "directory", "", "Working directory")
}

func listTools(cmd *cobra.Command, args []string) error {
	app, err := loadApp(context.Background(), toolsDir)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESCRIPTION")
	for _, t := range app.Tools.List() {
		desc := t.Description()
		if i := strings.IndexByte(desc, '\n'); i >= 0 {
			desc = desc[:i]
		}
		fmt.Fprintf(w, "%s\t%s\n", t.ID(), strings.TrimSpace(desc))
	}
	return w.Flush()
}
