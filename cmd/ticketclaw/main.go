// TicketClaw - support-ticket webhook triage and reply drafting
// License: MIT
//
// Copyright (c) 2026 TicketClaw contributors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/ticketclaw/cmd/ticketclaw/internal"
	"github.com/tinyland-inc/ticketclaw/cmd/ticketclaw/internal/gateway"
	"github.com/tinyland-inc/ticketclaw/cmd/ticketclaw/internal/triage"
	"github.com/tinyland-inc/ticketclaw/cmd/ticketclaw/internal/version"
)

func NewTicketclawCommand() *cobra.Command {
	short := fmt.Sprintf("%s ticketclaw - support ticket triage v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "ticketclaw",
		Short:   short,
		Example: "ticketclaw gateway --config /etc/ticketclaw/config.yaml",
	}

	cmd.AddCommand(
		gateway.NewGatewayCommand(),
		triage.NewTriageCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewTicketclawCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
