package domain

import (
	"context"
	"time"
)

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one stored turn of a user's assistant conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	LevelID   *string   `json:"level_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FAQEntry is a curated question and answer fed to the assistant.
type FAQEntry struct {
	ID         string `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	OrderIndex int    `json:"order_index"`
}

// Assistant is the port to the AI backend.
type Assistant interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatReply is returned by an assistant request.
type ChatReply struct {
	Reply     string    `json:"reply"`
	MessageID string    `json:"message_id"`
	CreatedAt time.Time `json:"created_at"`
}
