package conversation

import (
	"strings"

	"github.com/arin/tutor-cli/internal/stream"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is the transcript of one widget instance plus its in-flight
// round. It is not safe for concurrent use; every method must run on the
// goroutine that owns the widget.
type State struct {
	id      string
	turns   []Turn
	pending bool
	input   string

	// live is the index of the assistant turn being filled, or -1.
	live int

	decoder  *stream.Decoder
	framer   stream.Framer
	observer Observer
	logger   zerolog.Logger
}

// Option configures a State.
type Option func(*State)

// WithObserver registers fn to receive every Change.
func WithObserver(fn Observer) Option {
	return func(s *State) { s.observer = fn }
}

// WithLogger overrides the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *State) { s.logger = l }
}

// New creates a conversation seeded with the greeting turn.
func New(opts ...Option) *State {
	s := &State{
		id:      uuid.NewString(),
		turns:   []Turn{{Text: Greeting, Origin: OriginAssistant}},
		live:    -1,
		decoder: stream.NewDecoder(),
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("conversation_id", s.id).Logger()
	return s
}

// ID identifies the conversation in logs.
func (s *State) ID() string { return s.id }

// Pending reports whether a reply is in flight.
func (s *State) Pending() bool { return s.pending }

// Input returns the unsent input buffer.
func (s *State) Input() string { return s.input }

// SetInput replaces the unsent input buffer.
func (s *State) SetInput(text string) { s.input = text }

// Len returns the number of turns.
func (s *State) Len() int { return len(s.turns) }

// Turns returns a copy of the transcript.
func (s *State) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Last returns the most recent turn.
func (s *State) Last() Turn { return s.turns[len(s.turns)-1] }

// Live reports the index of the turn being streamed into.
func (s *State) Live() (int, bool) { return s.live, s.live >= 0 }

// Submit starts a new round: it records the user's turn, clears the input
// buffer and opens an empty assistant turn for the reply.
func (s *State) Submit(userText string) error {
	if strings.TrimSpace(userText) == "" {
		return ErrEmptySubmission
	}
	if s.pending {
		return ErrPending
	}

	s.append(Turn{Text: userText, Origin: OriginUser})
	s.input = ""
	s.pending = true
	s.decoder.Reset()
	s.framer.Reset()
	s.live = s.append(Turn{Origin: OriginAssistant})

	s.logger.Debug().Int("live", s.live).Msg("round started")
	return nil
}

// OnBytes folds one transport chunk into the live turn.
func (s *State) OnBytes(chunk []byte) {
	if s.live < 0 {
		s.logger.Warn().Int("bytes", len(chunk)).Msg("chunk received with no open round")
		return
	}
	s.applyRecords(s.framer.Push(s.decoder.Decode(chunk)))
}

// OnStreamEnd closes the round normally. A final record that lacked its
// trailing newline is still applied.
func (s *State) OnStreamEnd() {
	if s.live < 0 {
		return
	}
	s.applyRecords(s.framer.Push(s.decoder.Flush()))
	if rec := s.framer.Flush(); rec != "" {
		s.applyRecords([]string{rec})
	}

	idx := s.live
	s.live = -1
	s.pending = false
	s.logger.Debug().Int("chars", len(s.turns[idx].Text)).Msg("round finished")
	s.notify(Change{Kind: RoundFinished, Index: idx, Turn: s.turns[idx]})
}

// OnTransportError closes the round abnormally. Partial text stays as it
// is; a reply with no text at all becomes a single FailureMessage turn.
func (s *State) OnTransportError(cause error) {
	idx := s.live
	if idx < 0 {
		s.logger.Warn().Err(cause).Msg("transport error with no open round")
		return
	}
	s.live = -1
	s.pending = false
	s.decoder.Reset()
	s.framer.Reset()

	s.logger.Warn().Err(cause).Msg("reply stream failed")

	if s.turns[idx].Text == "" {
		// The empty placeholder is still the tail; it is reused for the failure turn.
		s.turns[idx] = Turn{Text: FailureMessage, Origin: OriginAssistant}
	}
	s.notify(Change{Kind: RoundFailed, Index: idx, Turn: s.turns[idx], Err: cause})
}

func (s *State) applyRecords(records []string) {
	for _, rec := range records {
		ev, err := stream.Parse(rec)
		if err != nil {
			s.logger.Debug().Err(err).Str("record", rec).Msg("dropping fragment")
			continue
		}
		if ev.Text == "" {
			continue
		}
		s.appendToTail(ev.Text)
	}
}

// appendToTail is the only place a turn's text changes after creation.
func (s *State) appendToTail(delta string) {
	idx := len(s.turns) - 1
	if idx != s.live {
		return
	}
	t := s.turns[idx]
	t.Text += delta
	s.turns[idx] = t
	s.notify(Change{Kind: TurnUpdated, Index: idx, Turn: t, Delta: delta})
}

func (s *State) append(t Turn) int {
	s.turns = append(s.turns, t)
	idx := len(s.turns) - 1
	s.notify(Change{Kind: TurnAppended, Index: idx, Turn: t})
	return idx
}

func (s *State) notify(c Change) {
	if s.observer != nil {
		s.observer(c)
	}
}
