package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_PostsUserInput(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte("{\"text\":\"Tort \"}\n"))
		w.(http.Flusher).Flush()
		w.Write([]byte("{\"text\":\"law\"}\n"))
	}))
	defer srv.Close()

	body, err := NewClient(srv.URL+"/", WithHTTPClient(srv.Client())).Open(context.Background(), "What is tort law?")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "What is tort law?", got.UserInput)
	assert.Equal(t, "{\"text\":\"Tort \"}\n{\"text\":\"law\"}\n", string(data))
}

func TestOpen_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Open(context.Background(), "hi")
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestOpen_EmptyErrorBodyUsesStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Open(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestOpen_NoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Open(context.Background(), "hi")
	require.ErrorIs(t, err, ErrNoBody)
}

func TestOpen_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Open(context.Background(), "hi")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	require.NoError(t, NewClient(srv.URL).Ping(context.Background()))
	srv.Close()
	require.Error(t, NewClient(srv.URL).Ping(context.Background()))
}

func TestURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8000/chat", NewClient("http://localhost:8000///").URL())
}

type countingTransport struct {
	next  http.RoundTripper
	calls int
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls++
	return c.next.RoundTrip(r)
}

func TestWithHTTPClient_IsUsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{\"text\":\"ok\"}\n"))
	}))
	defer srv.Close()

	rt := &countingTransport{next: srv.Client().Transport}
	client := NewClient(srv.URL, WithHTTPClient(&http.Client{Transport: rt}))

	body, err := client.Open(context.Background(), "hi")
	require.NoError(t, err)
	body.Close()
	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, 2, rt.calls)
}
