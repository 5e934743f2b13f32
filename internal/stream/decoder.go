// Package stream implements the chat wire format: a UTF-8 byte stream of
// newline-delimited JSON records, each carrying a "text" fragment.
package stream

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder turns arbitrary byte chunks into text. A multi-byte sequence
// split across two chunks is held back until the rest of it arrives.
// Invalid bytes decode to U+FFFD.
type Decoder struct {
	t       transform.Transformer
	pending []byte
	buf     []byte
}

// NewDecoder returns a Decoder with no buffered bytes.
func NewDecoder() *Decoder {
	return &Decoder{
		t:   unicode.UTF8.NewDecoder(),
		buf: make([]byte, 4096),
	}
}

// Decode returns the text decodable from the bytes seen so far.
func (d *Decoder) Decode(chunk []byte) string {
	return d.decode(chunk, false)
}

// Flush decodes whatever is still buffered, as at end of stream.
func (d *Decoder) Flush() string {
	if len(d.pending) == 0 {
		return ""
	}
	return d.decode(nil, true)
}

// Reset drops buffered bytes so the Decoder can serve a new stream.
func (d *Decoder) Reset() {
	d.t.Reset()
	d.pending = d.pending[:0]
}

func (d *Decoder) decode(chunk []byte, atEOF bool) string {
	src := make([]byte, 0, len(d.pending)+len(chunk))
	src = append(append(src, d.pending...), chunk...)
	d.pending = d.pending[:0]

	var out strings.Builder
	for {
		nDst, nSrc, err := d.t.Transform(d.buf, src, atEOF)
		out.Write(d.buf[:nDst])
		src = src[nSrc:]

		switch err {
		case nil:
			return out.String()
		case transform.ErrShortDst:
			continue
		case transform.ErrShortSrc:
			d.pending = append(d.pending, src...)
			return out.String()
		default:
			// The UTF-8 decoder never fails hard; keep the rest for the next call.
			d.pending = append(d.pending, src...)
			return out.String()
		}
	}
}
