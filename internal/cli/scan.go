package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/condour/internal/config"
	"github.com/evcraddock/condour/internal/scan"
)

func newScanCmd() *cobra.Command {
	var (
		remote     bool
		noComments bool
	)

	cmd := &cobra.Command{
		Use:   "scan [product url or name]",
		Short: "Scan forums for a product",
		Long: "Search tech communities for a product, read the top threads and report ranked posts, comments and sentiment.\n" +
			"With no argument the product is asked for interactively.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(strings.Join(args, " "))
			if input == "" {
				var err error
				if input, err = promptForProduct(); err != nil {
					return err
				}
			}
			req := scan.Request{Input: input, SkipComments: noComments}
			return runScan(cmd, req, remote)
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "run the scan on the configured server")
	cmd.Flags().BoolVar(&noComments, "no-comments", false, "skip reading comment threads")

	return cmd
}

func runScan(cmd *cobra.Command, req scan.Request, remote bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		result *scan.Result
		err    error
	)
	if remote {
		result, err = newAPIClient().Scan(ctx, req)
	} else {
		result, err = scanLocal(ctx, req, progressWriter(cmd.ErrOrStderr()))
	}
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), result)
	}
	return printReport(cmd.OutOrStdout(), result)
}

func scanLocal(ctx context.Context, req scan.Request, progress scan.ProgressFunc) (*scan.Result, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	st, err := newScanStack(cfg)
	if err != nil {
		return nil, err
	}
	defer st.close()

	return st.service.Run(ctx, req, progress)
}

// progressWriter prints scan events to w in text mode.
func progressWriter(w io.Writer) scan.ProgressFunc {
	if isJSON() {
		return nil
	}
	return func(e scan.Event) {
		fmt.Fprintln(w, formatEvent(e))
	}
}
