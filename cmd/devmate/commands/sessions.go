package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var sessionsDelete string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List or delete sessions",
	RunE:  manageSessions,
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsDelete, "delete", "", "Delete the session with this ID")
}

func manageSessions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := loadApp(ctx, "")
	if err != nil {
		return err
	}

	if sessionsDelete != "" {
		if err := app.Sessions.Delete(ctx, sessionsDelete); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted session %s\n", sessionsDelete)
		return nil
	}

	sessions, err := app.Sessions.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAGENT\tTITLE\tCREATED")
	for _, s := range sessions {
		created := time.UnixMilli(s.Time.Created).Format(time.RFC3339)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Agent, s.Title, created)
	}
	return w.Flush()
}
