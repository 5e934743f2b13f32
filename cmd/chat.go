package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arin/tutor-cli/internal/ai"
	"github.com/arin/tutor-cli/internal/conversation"
	"github.com/arin/tutor-cli/internal/ui"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start a conversational session with the course assistant. Replies
stream in as they are written.

Type 'exit' or 'quit' to end the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context(), os.Stdin)
	},
}

func runChat(ctx context.Context, in io.Reader) error {
	cyan := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)

	sp := ui.NewSpinner("Thinking...")
	printer := ui.NewReplyPrinter(os.Stderr, cyan.Sprint("  tutor → "))
	printer.OnFirstOutput = sp.Stop

	state := conversation.New(conversation.WithObserver(printer.Observe))
	sess := conversation.NewSession(state, ai.NewClient(cfg.APIURL))

	fmt.Fprintln(os.Stderr)
	cyan.Fprintln(os.Stderr, "  tutor chat")
	dim.Fprintf(os.Stderr, "  Connected to %s. Type 'exit' to quit.\n\n", cfg.APIURL)
	cyan.Fprint(os.Stderr, "  tutor → ")
	fmt.Fprintf(os.Stderr, "%s\n\n", state.Last().Text)

	lines, scanErr := readLines(ctx, in)
	for {
		green.Fprint(os.Stderr, "  you → ")

		var input string
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr)
			return nil
		case line, ok := <-lines:
			if !ok {
				return *scanErr
			}
			input = line
		}

		switch strings.TrimSpace(input) {
		case "":
			continue
		case "exit", "quit", "bye":
			dim.Fprintf(os.Stderr, "\n  See you in class!\n\n")
			return nil
		}

		sp.Start()
		err := sess.Send(ctx, input)
		sp.Stop()

		if ctx.Err() != nil {
			return nil
		}
		if err != nil && !errors.Is(err, conversation.ErrEmptySubmission) {
			log.Debug().Err(err).Str("conversation_id", state.ID()).Msg("round failed")
		}
	}
}

// readLines scans in on its own goroutine so the prompt can give up on
// ctx without waiting for another line. The error pointer is valid once
// the channel is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, *error) {
	lines := make(chan string)
	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = scanner.Err()
	}()
	return lines, &scanErr
}

// runAsk sends a single question and prints the reply to stdout.
func runAsk(ctx context.Context, question string) error {
	sp := ui.NewSpinner("Thinking...")
	printer := ui.NewReplyPrinter(os.Stdout, "")
	printer.OnFirstOutput = sp.Stop

	state := conversation.New(conversation.WithObserver(printer.Observe))
	sess := conversation.NewSession(state, ai.NewClient(cfg.APIURL))

	sp.Start()
	err := sess.Send(ctx, question)
	sp.Stop()

	if errors.Is(err, conversation.ErrEmptySubmission) {
		return fmt.Errorf("nothing to ask")
	}
	var te *ai.TransportError
	if errors.As(err, &te) {
		return fmt.Errorf("could not reach the assistant: %w", err)
	}
	return err
}
