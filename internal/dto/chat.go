package dto

import "bizlevel/internal/domain"

// ChatRequest asks the assistant a question.
type ChatRequest struct {
	Message string  `json:"message" validate:"required,max=2000"`
	LevelID *string `json:"level_id" validate:"omitempty,uuid"`
}

// ChatHistoryResponse lists recent chat turns, oldest first.
type ChatHistoryResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}
