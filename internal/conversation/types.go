// Package conversation owns the chat transcript and folds a streamed reply
// into it, one network chunk at a time.
package conversation

import "errors"

const (
	// Greeting seeds every new conversation.
	Greeting = "Hi! I'm your AI assistant. How can I help you today?"
	// FailureMessage replaces a reply that never produced any text.
	FailureMessage = "Oops! Something went wrong. Try again later."
)

var (
	// ErrEmptySubmission rejects blank or whitespace-only input.
	ErrEmptySubmission = errors.New("empty submission")
	// ErrPending rejects a submission while a reply is still streaming.
	ErrPending = errors.New("a reply is already in progress")
)

// Origin says who authored a turn.
type Origin int

const (
	OriginUser Origin = iota
	OriginAssistant
)

func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Turn is one message in the transcript.
type Turn struct {
	Text   string
	Origin Origin
}

// ChangeKind classifies a Change.
type ChangeKind int

const (
	TurnAppended ChangeKind = iota
	TurnUpdated
	RoundFinished
	RoundFailed
)

func (k ChangeKind) String() string {
	switch k {
	case TurnAppended:
		return "turn_appended"
	case TurnUpdated:
		return "turn_updated"
	case RoundFinished:
		return "round_finished"
	case RoundFailed:
		return "round_failed"
	default:
		return "unknown"
	}
}

// Change describes one observable state transition. Index and Turn refer
// to the affected turn; Delta is the text appended by a TurnUpdated.
type Change struct {
	Kind  ChangeKind
	Index int
	Turn  Turn
	Delta string
	Err   error
}

// Observer is notified after every state transition, on the goroutine
// that caused it.
type Observer func(Change)
