package stream

import (
	"errors"
	"io"
	"iter"
)

// DefaultChunkSize is the read size used when Chunks is given size <= 0.
const DefaultChunkSize = 4096

// Chunks iterates over r one read at a time, in order. The sequence ends
// quietly at io.EOF; any other read error is yielded once as the final
// element. Each yielded slice is owned by the caller.
func Chunks(r io.Reader, size int) iter.Seq2[[]byte, error] {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return func(yield func([]byte, error) bool) {
		buf := make([]byte, size)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if !yield(chunk, nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}
