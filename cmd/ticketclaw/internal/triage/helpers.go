package triage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/tinyland-inc/ticketclaw/cmd/ticketclaw/internal"
	"github.com/tinyland-inc/ticketclaw/pkg/classify"
	"github.com/tinyland-inc/ticketclaw/pkg/drafter"
	"github.com/tinyland-inc/ticketclaw/pkg/pipeline"
	"github.com/tinyland-inc/ticketclaw/pkg/providers"
	"github.com/tinyland-inc/ticketclaw/pkg/redact"
	"github.com/tinyland-inc/ticketclaw/pkg/ticket"
)

type triager struct {
	classifier *classify.Classifier
	drafter    pipeline.Drafter
	signature  string
	out        io.Writer
}

func triageCmd(cmd *cobra.Command, opts options) error {
	cfg, err := internal.LoadConfig(opts.configPath, opts.debug)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	t := &triager{
		classifier: classify.New(cfg.Review.Keywords),
		signature:  cfg.Drafter.Signature,
		out:        cmd.OutOrStdout(),
	}
	if opts.draft {
		provider, err := providers.CreateProvider(cfg)
		if err != nil {
			return fmt.Errorf("error creating provider: %w", err)
		}
		t.drafter = drafter.New(provider, cfg.Drafter)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case opts.message != "":
		t.message(ctx, opts.message)
		return nil
	case opts.eventFile != "":
		r, closeFn, err := openEvent(opts.eventFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		defer closeFn()
		return t.event(ctx, r)
	}

	fmt.Fprintf(t.out, "%s Triage mode: type a customer message (Ctrl+C to exit)\n\n", internal.Logo)
	t.interactive(ctx)
	return nil
}

func openEvent(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening event: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func (t *triager) message(ctx context.Context, text string) {
	redacted, report := redact.Apply(text)
	t.report(ctx, pipeline.Assessment{
		Redacted: redacted,
		Report:   report,
		Result:   t.classifier.Classify(redacted),
	})
}

func (t *triager) event(ctx context.Context, r io.Reader) error {
	e, err := ticket.DecodeEvent(r)
	if err != nil {
		return err
	}
	a, err := pipeline.Assess(t.classifier, e)
	if err != nil {
		return err
	}
	t.report(ctx, a)
	return nil
}

func (t *triager) report(ctx context.Context, a pipeline.Assessment) {
	render(t.out, a)
	if t.drafter == nil {
		return
	}
	if a.Result.IsSensitive() {
		fmt.Fprintf(t.out, "Draft:          skipped (%s)\n", pipeline.FlaggedNote)
		return
	}

	id := a.TicketID
	if id.IsZero() {
		id = ticket.StringID("cli")
	}
	res := t.drafter.Draft(ctx, id, a.Redacted)
	text := res.Text
	if !res.OK() {
		text = drafter.Fallback(res.Failure)
		fmt.Fprintf(t.out, "Draft failed:   %s\n", res.Failure)
	}
	fmt.Fprintf(t.out, "Draft:\n%s\n", pipeline.ReplyPost(id, text, t.signature).Body)
}

func render(w io.Writer, a pipeline.Assessment) {
	if !a.TicketID.IsZero() {
		fmt.Fprintf(w, "Ticket:         %s (from %s)\n", a.TicketID, a.IDRule)
	}
	fmt.Fprintf(w, "Classification: %s", a.Result.Classification)
	if len(a.Result.Matched) > 0 {
		fmt.Fprintf(w, " [%s]", strings.Join(a.Result.Matched, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Redactions:     %d email, %d phone\n", a.Report.Emails, a.Report.Phones)
	fmt.Fprintf(w, "Redacted text:  %s\n", a.Redacted)
}

func (t *triager) interactive(ctx context.Context) {
	prompt := fmt.Sprintf("%s Message: ", internal.Logo)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), ".ticketclaw_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(t.out, "Error initializing readline: %v\n", err)
		fmt.Fprintln(t.out, "Falling back to simple input mode...")
		t.simpleInteractive(ctx, os.Stdin)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Fprintln(t.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(t.out, "Error reading input: %v\n", err)
			return
		}

		if t.handleLine(ctx, line) {
			return
		}
	}
}

func (t *triager) simpleInteractive(ctx context.Context, in io.Reader) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(t.out, "%s Message: ", internal.Logo)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(t.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(t.out, "Error reading input: %v\n", err)
			return
		}

		if t.handleLine(ctx, line) {
			return
		}
	}
}

// handleLine reports whether the session should end.
func (t *triager) handleLine(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}
	if input == "exit" || input == "quit" {
		fmt.Fprintln(t.out, "Goodbye!")
		return true
	}
	fmt.Fprintln(t.out)
	t.message(ctx, input)
	fmt.Fprintln(t.out)
	return false
}
