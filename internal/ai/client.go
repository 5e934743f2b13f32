package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxErrorBody = 512

// Client opens reply streams against a chat backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient returns a Client for the backend rooted at baseURL. The
// default HTTP client has no timeout; a reply may stream for as long as
// the backend keeps the connection open.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the chat endpoint.
func (c *Client) URL() string {
	return c.baseURL + ChatPath
}

// Open posts userText and returns the streaming response body. The caller
// must close it.
func (c *Client) Open(ctx context.Context, userText string) (io.ReadCloser, error) {
	body, err := json.Marshal(chatRequest{UserInput: userText})
	if err != nil {
		return nil, errors.Wrap(err, "marshal chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{URL: c.URL(), Err: errors.Wrap(err, "create request")}
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("component", "ai_client").Str("url", c.URL()).Int("bytes", len(body)).Msg("opening reply stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: c.URL(), Err: errors.Wrap(err, "send request")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &TransportError{URL: c.URL(), StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, &TransportError{URL: c.URL(), StatusCode: resp.StatusCode, Err: ErrNoBody}
	}
	return resp.Body, nil
}

// Ping checks that something answers HTTP at the base URL.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{URL: c.baseURL, Err: err}
	}
	resp.Body.Close()
	return nil
}
