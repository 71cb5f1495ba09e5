package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/condour/internal/client"
)

func newLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the server's most recent scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newAPIClient().Latest(cmd.Context())
			if errors.Is(err, client.ErrNoScan) {
				fmt.Fprintf(cmd.OutOrStdout(), "No scan has completed on %s yet.\n", getServerURL())
				return nil
			}
			if err != nil {
				return fmt.Errorf("fetching latest scan: %w", err)
			}

			if isJSON() {
				return printJSON(cmd.OutOrStdout(), result)
			}
			return printReport(cmd.OutOrStdout(), result)
		},
	}
}
