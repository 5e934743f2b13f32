package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arin/tutor-cli/internal/conversation"
	"github.com/fatih/color"
)

// ReplyPrinter writes the live assistant turn to w fragment by fragment.
// Register its Observe method with conversation.WithObserver.
type ReplyPrinter struct {
	w      io.Writer
	prefix string
	// OnFirstOutput runs once per round, before anything is written.
	// The chat command uses it to stop its spinner.
	OnFirstOutput func()

	started bool
	last    string
}

// NewReplyPrinter returns a printer that starts each reply with prefix.
func NewReplyPrinter(w io.Writer, prefix string) *ReplyPrinter {
	return &ReplyPrinter{w: w, prefix: prefix}
}

// Observe handles one conversation change.
func (p *ReplyPrinter) Observe(c conversation.Change) {
	switch c.Kind {
	case conversation.TurnUpdated:
		if c.Delta == "" {
			return
		}
		p.begin()
		fmt.Fprint(p.w, c.Delta)
		p.last = c.Delta
	case conversation.RoundFinished:
		p.finish()
	case conversation.RoundFailed:
		if !p.started {
			p.begin()
			color.New(color.FgRed).Fprint(p.w, c.Turn.Text)
			p.last = c.Turn.Text
		} else {
			fmt.Fprintln(p.w)
			color.New(color.FgHiBlack).Fprint(p.w, "  (reply interrupted)")
			p.last = ""
		}
		p.finish()
	}
}

func (p *ReplyPrinter) begin() {
	if p.started {
		return
	}
	p.started = true
	if p.OnFirstOutput != nil {
		p.OnFirstOutput()
	}
	fmt.Fprint(p.w, p.prefix)
}

// finish ends the reply with exactly one blank line and resets for the
// next round.
func (p *ReplyPrinter) finish() {
	if p.OnFirstOutput != nil && !p.started {
		p.OnFirstOutput()
	}
	if p.started && !strings.HasSuffix(p.last, "\n") {
		fmt.Fprintln(p.w)
	}
	fmt.Fprintln(p.w)
	p.started = false
	p.last = ""
}
