package widget

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arin/tutor-cli/internal/conversation"
	"github.com/arin/tutor-cli/internal/stream"
)

type (
	// chunkMsg carries one transport chunk, in arrival order.
	chunkMsg []byte
	// streamEndMsg means the body closed cleanly.
	streamEndMsg struct{}
	// streamErrMsg means the request or the read failed.
	streamErrMsg struct{ err error }
	// streamStartedMsg hands the model the channel of a new round.
	streamStartedMsg struct{ events <-chan tea.Msg }
)

// pump opens the reply stream and forwards everything it reads to out,
// ending with exactly one streamEndMsg or streamErrMsg. It never touches
// conversation state; the model applies each message in Update.
func pump(ctx context.Context, t conversation.Transport, text string, out chan<- tea.Msg) {
	defer close(out)

	send := func(msg tea.Msg) bool {
		select {
		case out <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}

	body, err := t.Open(ctx, text)
	if err != nil {
		send(streamErrMsg{err: err})
		return
	}
	defer body.Close()

	for chunk, err := range stream.Chunks(body, stream.DefaultChunkSize) {
		if err != nil {
			send(streamErrMsg{err: err})
			return
		}
		if !send(chunkMsg(chunk)) {
			return
		}
	}
	if err := ctx.Err(); err != nil {
		return
	}
	send(streamEndMsg{})
}

func startRound(ctx context.Context, t conversation.Transport, text string) tea.Cmd {
	return func() tea.Msg {
		events := make(chan tea.Msg, 16)
		go pump(ctx, t, text, events)
		return streamStartedMsg{events: events}
	}
}

// waitFor delivers the next message of the round. A closed channel
// without a terminal message means the widget is shutting down.
func waitFor(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
