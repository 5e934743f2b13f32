// Package ai talks to the course assistant's chat backend.
package ai

// ChatPath is appended to the configured base URL.
const ChatPath = "/chat"

// chatRequest is the body of POST /chat.
type chatRequest struct {
	UserInput string `json:"user_input"`
}
