// Package cli defines the cobra command tree for condour.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/condour/internal/client"
	"github.com/evcraddock/condour/internal/logging"
)

var (
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "condour",
		Short:         "Find out what forums think of a product",
		Long:          "Condour searches tech communities for discussion of a product, reads the top threads and reports ranked posts, comments and a keyword sentiment breakdown.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupCLI(cmd.ErrOrStderr(), flagVerbose)
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "show debug logging")

	root.AddCommand(
		newScanCmd(),
		newLatestCmd(),
		newStatusCmd(),
		newServeCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// newAPIClient creates an HTTP client for a running condour server.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
