package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedFragment marks a record that is not a JSON object with a
// string "text" field.
var ErrMalformedFragment = errors.New("malformed fragment")

// Event is one parsed record: a piece of text to append to the reply.
type Event struct {
	Text string `json:"text"`
}

type wireEvent struct {
	Text *string `json:"text"`
}

// Parse decodes a single record. Unknown fields are ignored.
func Parse(record string) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal([]byte(record), &w); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedFragment, err)
	}
	if w.Text == nil {
		return Event{}, fmt.Errorf("%w: missing text field", ErrMalformedFragment)
	}
	return Event{Text: *w.Text}, nil
}

// Encoder writes events as newline-delimited JSON records.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes one record followed by a newline.
func (e *Encoder) Encode(ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = e.w.Write(b)
	return err
}
