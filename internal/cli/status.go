package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const statusTimeout = 5 * time.Second

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the connection to the condour server",
		Long:  "Shows the server used by scan --remote and tests that it answers its health check.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	serverURL := getServerURL()
	out := cmd.OutOrStdout()

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()
	healthErr := newAPIClient().Health(ctx)

	if isJSON() {
		view := struct {
			ServerURL string `json:"server_url"`
			Reachable bool   `json:"reachable"`
			Error     string `json:"error,omitempty"`
		}{ServerURL: serverURL, Reachable: healthErr == nil}
		if healthErr != nil {
			view.Error = healthErr.Error()
		}
		return printJSON(out, view)
	}

	fmt.Fprintf(out, "Server:  %s\n", serverURL)
	if healthErr != nil {
		fmt.Fprintf(out, "Status:  %s\n", negativeStyle.Render(fmt.Sprintf("✗ cannot reach server (%v)", healthErr)))
		fmt.Fprintln(out, "\nStart one with 'condour serve' or run 'condour config set-server <url>'.")
		return nil
	}
	fmt.Fprintf(out, "Status:  %s\n", positiveStyle.Render("✓ connected"))
	return nil
}
