package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change CLI settings",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSetServerCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the CLI settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			view := struct {
				Path      string `json:"path"`
				ServerURL string `json:"server_url"`
			}{Path: path, ServerURL: getServerURL()}

			if isJSON() {
				return printJSON(cmd.OutOrStdout(), view)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config:     %s\n", view.Path)
			fmt.Fprintf(cmd.OutOrStdout(), "Server URL: %s\n", view.ServerURL)
			return nil
		},
	}
}

func newConfigSetServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-server <url>",
		Short: "Set the server used by scan --remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetServer(cmd, args[0])
		},
	}
}

func runSetServer(cmd *cobra.Command, raw string) error {
	serverURL, err := normalizeServerURL(raw)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.ServerURL = serverURL
	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Server set to %s\n", serverURL)
	return nil
}
