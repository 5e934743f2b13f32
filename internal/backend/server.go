// Package backend is a development chat backend that speaks the same wire
// format the client consumes: POST /chat with {"user_input": ...}, answered
// by a stream of {"text": ...} records, one per line.
package backend

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/arin/tutor-cli/internal/stream"
)

// SeedGreeting opens the backend's shared history.
const SeedGreeting = "How can I help you?"

type chatRequest struct {
	UserInput *string `json:"user_input"`
}

// Server keeps one shared, in-memory history across all requests.
type Server struct {
	gen Generator
	mux *http.ServeMux

	mu      sync.Mutex
	history []Message
}

// NewServer returns a Server whose replies come from gen.
func NewServer(gen Generator) *Server {
	s := &Server{
		gen:     gen,
		mux:     http.NewServeMux(),
		history: []Message{{Role: "assistant", Content: SeedGreeting}},
	}
	s.mux.HandleFunc("/chat", s.handleChat)
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	return s
}

// Handler returns the HTTP handler with permissive CORS applied.
func (s *Server) Handler() http.Handler {
	return withCORS(s.mux)
}

// History returns a copy of the shared history.
func (s *Server) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserInput == nil {
		http.Error(w, `{"detail":"user_input is required"}`, http.StatusUnprocessableEntity)
		return
	}

	reqID := uuid.NewString()
	logger := log.With().Str("component", "backend").Str("request_id", reqID).Logger()
	logger.Info().Int("chars", len(*req.UserInput)).Msg("chat request")

	s.mu.Lock()
	s.history = append(s.history, Message{Role: "user", Content: *req.UserInput})
	snapshot := make([]Message, len(s.history))
	copy(snapshot, s.history)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", reqID)
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := stream.NewEncoder(w)
	var full strings.Builder

	err := s.gen.Generate(r.Context(), snapshot, func(text string) error {
		full.WriteString(text)
		if err := enc.Encode(stream.Event{Text: text}); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Int("chars", full.Len()).Msg("generation aborted")
		return
	}

	s.mu.Lock()
	s.history = append(s.history, Message{Role: "assistant", Content: full.String()})
	s.mu.Unlock()
	logger.Info().Int("chars", full.Len()).Msg("reply complete")
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "*")
		h.Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
