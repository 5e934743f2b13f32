package conversation

import (
	"context"
	"io"

	"github.com/arin/tutor-cli/internal/stream"
)

// Transport opens the reply stream for one user message. A non-nil
// error means the request never produced a readable body.
type Transport interface {
	Open(ctx context.Context, userText string) (io.ReadCloser, error)
}

// Session runs rounds of a conversation against a Transport, one at a
// time, on the caller's goroutine.
type Session struct {
	state     *State
	transport Transport
	chunkSize int
}

// NewSession binds state to transport.
func NewSession(state *State, transport Transport) *Session {
	return &Session{state: state, transport: transport, chunkSize: stream.DefaultChunkSize}
}

// State returns the session's conversation.
func (s *Session) State() *State { return s.state }

// Send submits text and folds the reply into the transcript until the
// stream ends. ctx bounds the lifetime of the widget: cancelling it ends
// the round as a transport failure. Submission errors leave the state
// untouched; transport errors are returned after the state has absorbed
// them.
func (s *Session) Send(ctx context.Context, text string) error {
	if err := s.state.Submit(text); err != nil {
		return err
	}

	body, err := s.transport.Open(ctx, text)
	if err != nil {
		s.state.OnTransportError(err)
		return err
	}
	defer body.Close()

	for chunk, err := range stream.Chunks(body, s.chunkSize) {
		if err != nil {
			s.state.OnTransportError(err)
			return err
		}
		s.state.OnBytes(chunk)
	}
	if err := ctx.Err(); err != nil {
		s.state.OnTransportError(err)
		return err
	}

	s.state.OnStreamEnd()
	return nil
}
