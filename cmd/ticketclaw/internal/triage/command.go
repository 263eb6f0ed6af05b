package triage

import (
	"github.com/spf13/cobra"
)

type options struct {
	message    string
	eventFile  string
	configPath string
	draft      bool
	debug      bool
}

func NewTriageCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "triage",
		Aliases: []string{"t"},
		Short:   "Redact and classify a ticket message offline",
		Args:    cobra.NoArgs,
		Example: `  ticketclaw triage -m "please refund my order, mail me at a@b.com"
  ticketclaw triage --event payload.json --draft
  cat payload.json | ticketclaw triage --event -
  ticketclaw triage`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return triageCmd(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "Triage a single message")
	cmd.Flags().StringVarP(&opts.eventFile, "event", "e", "", "Triage a webhook payload file (- for stdin)")
	cmd.Flags().BoolVar(&opts.draft, "draft", false, "Also draft a reply for normal messages (calls the configured provider, posts nothing)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: $TICKETCLAW_CONFIG or ~/.ticketclaw/config.json)")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("message", "event")

	return cmd
}
