package gateway

import (
	"github.com/spf13/cobra"
)

func NewGatewayCommand() *cobra.Command {
	var debug bool
	var configPath string

	cmd := &cobra.Command{
		Use:     "gateway",
		Aliases: []string{"g", "serve"},
		Short:   "Start the ticket webhook gateway",
		Args:    cobra.NoArgs,
		Example: `  ticketclaw gateway
  ticketclaw gateway --config ./config.yaml --debug`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return gatewayCmd(configPath, debug)
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default: $TICKETCLAW_CONFIG or ~/.ticketclaw/config.json)")

	return cmd
}
