package stream

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunks_InOrder(t *testing.T) {
	var got []string
	for chunk, err := range Chunks(strings.NewReader("abcdefg"), 3) {
		require.NoError(t, err)
		got = append(got, string(chunk))
	}
	assert.Equal(t, []string{"abc", "def", "g"}, got)
}

func TestChunks_YieldsReadError(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader("ab"), iotest.ErrReader(boom))

	var data string
	var last error
	for chunk, err := range Chunks(r, 16) {
		if err != nil {
			last = err
			continue
		}
		data += string(chunk)
	}
	assert.Equal(t, "ab", data)
	assert.ErrorIs(t, last, boom)
}

func TestChunks_DataWithEOF(t *testing.T) {
	r := iotest.DataErrReader(strings.NewReader("xyz"))
	var got string
	for chunk, err := range Chunks(r, 0) {
		require.NoError(t, err)
		got += string(chunk)
	}
	assert.Equal(t, "xyz", got)
}

func TestChunks_StopEarly(t *testing.T) {
	n := 0
	for range Chunks(strings.NewReader("aaaaaaaa"), 1) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
