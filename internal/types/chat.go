package types

import "time"

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatTurn is a completed question/answer pair kept for prompt history.
type ChatTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChatMessage is one transcript line, including error answers.
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatSessionResponse struct {
	SessionID string        `json:"session_id"`
	Token     string        `json:"token"`
	Messages  []ChatMessage `json:"messages"`
}

type ChatQuestionRequest struct {
	Question string `json:"question" example:"Where do vegans get vitamin B12?"`
}

type ChatAnswerResponse struct {
	Answer   string        `json:"answer"`
	Messages []ChatMessage `json:"messages"`
}

// StreamEvent is one server-sent event of a streamed answer.
type StreamEvent struct {
	Type      string    `json:"type"`
	Data      string    `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	EventID   string    `json:"event_id"`
}

const (
	EventTypeChunk    = "chunk"
	EventTypeComplete = "complete"
	EventTypeError    = "error"
)
