package conversation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(s *State, chunks ...string) {
	for _, c := range chunks {
		s.OnBytes([]byte(c))
	}
}

func TestNew_SeededWithGreeting(t *testing.T) {
	s := New()
	turns := s.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, Turn{Text: Greeting, Origin: OriginAssistant}, turns[0])
	assert.False(t, s.Pending())
	assert.NotEmpty(t, s.ID())
}

func TestSubmit_OpensRound(t *testing.T) {
	s := New()
	s.SetInput("What is tort law?")
	require.NoError(t, s.Submit("What is tort law?"))

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, Turn{Text: "What is tort law?", Origin: OriginUser}, turns[1])
	assert.Equal(t, Turn{Origin: OriginAssistant}, turns[2])
	assert.True(t, s.Pending())
	assert.Equal(t, "", s.Input())

	idx, ok := s.Live()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestSubmit_RejectsBlank(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n "} {
		s := New()
		err := s.Submit(in)
		require.ErrorIs(t, err, ErrEmptySubmission)
		assert.Equal(t, 1, s.Len())
		assert.False(t, s.Pending())
	}
}

func TestSubmit_RejectsWhilePending(t *testing.T) {
	s := New()
	require.NoError(t, s.Submit("first"))
	require.ErrorIs(t, s.Submit("second"), ErrPending)
	assert.Equal(t, 3, s.Len())
}

func TestOnBytes_ExampleScenario(t *testing.T) {
	s := New()
	require.NoError(t, s.Submit("What is tort law?"))

	feed(s, "{\"text\":\"Tort \"}\n{\"te", "xt\":\"law \"}\n{\"text\":\"is...\"}\n")
	s.OnStreamEnd()

	assert.Equal(t, "Tort law is...", s.Last().Text)
	assert.Equal(t, OriginAssistant, s.Last().Origin)
	assert.False(t, s.Pending())
	_, live := s.Live()
	assert.False(t, live)
}

func TestOnBytes_ChunkBoundaryIndependence(t *testing.T) {
	parts := []string{"Hel", "lo, ", "wörld", " 🙂", ""}
	var body strings.Builder
	var want string
	for _, p := range parts {
		body.WriteString(`{"text":"` + p + `"}` + "\n")
		want += p
	}
	raw := []byte(body.String())

	for size := 1; size <= len(raw); size++ {
		s := New()
		require.NoError(t, s.Submit("hi"))
		for i := 0; i < len(raw); i += size {
			end := min(i+size, len(raw))
			s.OnBytes(raw[i:end])
		}
		s.OnStreamEnd()
		require.Equal(t, want, s.Last().Text, "chunk size %d", size)
	}
}

func TestOnBytes_SplitMultiByteCharacter(t *testing.T) {
	raw := []byte("{\"text\":\"€\"}\n")
	// Split inside the three-byte euro sign.
	cut := strings.Index(string(raw), "€") + 1

	s := New()
	require.NoError(t, s.Submit("price?"))
	s.OnBytes(raw[:cut])
	s.OnBytes(raw[cut:])
	s.OnStreamEnd()
	assert.Equal(t, "€", s.Last().Text)
}

func TestOnBytes_MalformedRecordSkipped(t *testing.T) {
	s := New()
	require.NoError(t, s.Submit("hi"))
	feed(s,
		"{\"text\":\"a\"}\n",
		"not json\n{\"content\":\"x\"}\n",
		"{\"text\":\"b\"}\n{\"text\":\"c\"}\n",
	)
	s.OnStreamEnd()
	assert.Equal(t, "abc", s.Last().Text)
}

func TestOnStreamEnd_AppliesUnterminatedRecord(t *testing.T) {
	s := New()
	require.NoError(t, s.Submit("hi"))
	feed(s, "{\"text\":\"a\"}\n{\"text\":\"b\"}")
	assert.Equal(t, "a", s.Last().Text)
	s.OnStreamEnd()
	assert.Equal(t, "ab", s.Last().Text)
}

func TestOnStreamEnd_TurnImmutable(t *testing.T) {
	s := New()
	require.NoError(t, s.Submit("hi"))
	feed(s, "{\"text\":\"done\"}\n")
	s.OnStreamEnd()

	feed(s, "{\"text\":\" more\"}\n")
	assert.Equal(t, "done", s.Last().Text)
}

func TestOnTransportError_NoText(t *testing.T) {
	s := New()
	require.NoError(t, s.Submit("hi"))
	s.OnTransportError(errors.New("connection refused"))

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, Turn{Text: "hi", Origin: OriginUser}, turns[1])
	assert.Equal(t, Turn{Text: FailureMessage, Origin: OriginAssistant}, turns[2])
	assert.False(t, s.Pending())
}

func TestOnTransportError_OnlyMalformedSoFar(t *testing.T) {
	s := New()
	require.NoError(t, s.Submit("hi"))
	feed(s, "garbage\n")
	s.OnTransportError(errors.New("reset"))
	assert.Equal(t, FailureMessage, s.Last().Text)
	assert.Equal(t, 3, s.Len())
}

func TestOnTransportError_KeepsPartialText(t *testing.T) {
	s := New()
	require.NoError(t, s.Submit("hi"))
	feed(s, "{\"text\":\"Hel\"}\n")
	s.OnTransportError(errors.New("reset"))

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "Hel", turns[2].Text)
	for _, tr := range turns {
		assert.NotEqual(t, FailureMessage, tr.Text)
	}
	assert.False(t, s.Pending())
}

func TestOnTransportError_ConversationStaysUsable(t *testing.T) {
	s := New()
	require.NoError(t, s.Submit("one"))
	s.OnTransportError(errors.New("down"))

	require.NoError(t, s.Submit("two"))
	feed(s, "{\"text\":\"ok\"}\n")
	s.OnStreamEnd()

	turns := s.Turns()
	require.Len(t, turns, 5)
	assert.Equal(t, FailureMessage, turns[2].Text)
	assert.Equal(t, "two", turns[3].Text)
	assert.Equal(t, "ok", turns[4].Text)
}

func TestRound_DoesNotLeakPartialRecord(t *testing.T) {
	s := New()
	require.NoError(t, s.Submit("one"))
	feed(s, "{\"text\":\"x\"}\n{\"text\":\"dangl")
	s.OnTransportError(errors.New("reset"))

	require.NoError(t, s.Submit("two"))
	feed(s, "{\"text\":\"fresh\"}\n")
	s.OnStreamEnd()
	assert.Equal(t, "fresh", s.Last().Text)
}

func TestTurns_ReturnsCopy(t *testing.T) {
	s := New()
	turns := s.Turns()
	turns[0].Text = "mutated"
	assert.Equal(t, Greeting, s.Turns()[0].Text)
}

func TestObserver_SeesEveryTransition(t *testing.T) {
	var kinds []ChangeKind
	var deltas []string
	s := New(WithObserver(func(c Change) {
		kinds = append(kinds, c.Kind)
		if c.Kind == TurnUpdated {
			deltas = append(deltas, c.Delta)
		}
	}))

	require.NoError(t, s.Submit("hi"))
	feed(s, "{\"text\":\"a\"}\n{\"text\":\"b\"}\n")
	s.OnStreamEnd()

	assert.Equal(t, []ChangeKind{TurnAppended, TurnAppended, TurnUpdated, TurnUpdated, RoundFinished}, kinds)
	assert.Equal(t, []string{"a", "b"}, deltas)
}

func TestObserver_RoundFailedCarriesCause(t *testing.T) {
	boom := errors.New("boom")
	var failed Change
	s := New(WithObserver(func(c Change) {
		if c.Kind == RoundFailed {
			failed = c
		}
	}))
	require.NoError(t, s.Submit("hi"))
	s.OnTransportError(boom)

	assert.ErrorIs(t, failed.Err, boom)
	assert.Equal(t, 2, failed.Index)
	assert.Equal(t, FailureMessage, failed.Turn.Text)
}
