package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/devmate-ai/devmate/internal/deploy"
)

var (
	deployCreate bool
	deployList   bool
	deployDelete string
	deployDir    string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Manage agents on the hosting service",
	Long: `Register, list, or remove the composed agent on the configured
agent-hosting service.

Configure the service in devmate.yaml:

  deploy:
    base_url: https://agents.example.com
    token: "{env:DEVMATE_DEPLOY_TOKEN}"
    display_name: DevMate
    description: software engineer assistant

Examples:
  devmate deploy --create
  devmate deploy --list
  devmate deploy --delete 01J...`,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().BoolVar(&deployCreate, "create", false, "Register the composed agent")
	deployCmd.Flags().BoolVar(&deployList, "list", false, "List local deployment records")
	deployCmd.Flags().StringVar(&deployDelete, "delete", "", "Delete the deployment with this ID")
	deployCmd.Flags().StringVar(&deployDir, "directory", "", "Working directory")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := loadApp(ctx, deployDir)
	if err != nil {
		return err
	}

	client, err := deploy.NewClient(app.Config.Deploy)
	if err != nil {
		return err
	}
	svc := deploy.NewService(client, app.Storage, app.Agents, app.Config)

	switch {
	case deployCreate:
		deployment, err := svc.Create(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deployed %s (remote %s, state %s)\n",
			deployment.ID, deployment.RemoteID, deployment.State)
		return nil

	case deployDelete != "":
		if err := svc.Delete(ctx, deployDelete); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted deployment %s\n", deployDelete)
		return nil

	case deployList:
		deployments, err := svc.List(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tREMOTE\tNAME\tSTATE\tCREATED")
		for _, d := range deployments {
			created := time.UnixMilli(d.CreatedAt).Format(time.RFC3339)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.RemoteID, d.DisplayName, d.State, created)
		}
		return w.Flush()

	default:
		return fmt.Errorf("specify one of --create, --list, or --delete <id>")
	}
}
