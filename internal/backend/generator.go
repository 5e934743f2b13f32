package backend

import (
	"context"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// Message is one entry of the backend's chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces a reply for history, calling emit once per fragment
// in order. Returning an error from emit stops generation.
type Generator interface {
	Generate(ctx context.Context, history []Message, emit func(string) error) error
}

// OllamaGenerator streams replies from an Ollama chat model.
type OllamaGenerator struct {
	client *api.Client
	model  string
}

// NewOllamaGenerator uses the Ollama server named by OLLAMA_HOST, or the
// local default.
func NewOllamaGenerator(model string) (*OllamaGenerator, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, err
	}
	return &OllamaGenerator{client: client, model: model}, nil
}

// Heartbeat checks that the Ollama server is up.
func (g *OllamaGenerator) Heartbeat(ctx context.Context) error {
	return g.client.Heartbeat(ctx)
}

// Generate implements Generator.
func (g *OllamaGenerator) Generate(ctx context.Context, history []Message, emit func(string) error) error {
	msgs := make([]api.Message, len(history))
	for i, m := range history {
		msgs[i] = api.Message{Role: m.Role, Content: m.Content}
	}

	streaming := true
	req := &api.ChatRequest{
		Model:    g.model,
		Messages: msgs,
		Stream:   &streaming,
	}
	return g.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		if resp.Message.Content == "" {
			return nil
		}
		return emit(resp.Message.Content)
	})
}

// CannedReply is what CannedGenerator says when no reply is configured.
const CannedReply = "Thanks for your message! I'm here to help with any questions about our courses or platform."

// CannedGenerator replies with fixed text, one word per fragment. It
// needs no model and is meant for offline demos and tests.
type CannedGenerator struct {
	Reply string
	Delay time.Duration
}

// Generate implements Generator.
func (g CannedGenerator) Generate(ctx context.Context, _ []Message, emit func(string) error) error {
	reply := g.Reply
	if reply == "" {
		reply = CannedReply
	}
	for _, word := range strings.SplitAfter(reply, " ") {
		if g.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(g.Delay):
			}
		}
		if err := emit(word); err != nil {
			return err
		}
	}
	return nil
}
