package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/condour/internal/config"
	"github.com/evcraddock/condour/internal/logging"
	"github.com/evcraddock/condour/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		Long:  "Start an HTTP server for the web UI and JSON scan API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on (default from CONDOUR_PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, cfg config.Config) error {
	logging.Setup(cfg.DevMode || flagVerbose)

	st, err := newScanStack(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	srv, err := web.NewServer(st.service)
	if err != nil {
		return fmt.Errorf("creating web server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if st.cache != nil {
		go purgeLoop(ctx, st.cache, cfg.CacheTTL)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Starting web UI on http://localhost:%d\n", cfg.Port)
	return srv.ListenAndServe(ctx, cfg.Port)
}
