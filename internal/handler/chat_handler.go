package handler

import (
	"bizlevel/internal/dto"
	"bizlevel/internal/service"
	"bizlevel/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler serves the AI assistant.
type ChatHandler struct {
	chat      service.ChatService
	validator *validation.Validator
}

func NewChatHandler(chat service.ChatService, validator *validation.Validator) *ChatHandler {
	return &ChatHandler{chat: chat, validator: validator}
}

// Ask handles POST /api/chat
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.ChatRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	reply, err := h.chat.Ask(c.UserContext(), id, req.Message, req.LevelID)
	if err != nil {
		return err
	}
	return c.JSON(reply)
}

// History handles GET /api/chat/history
func (h *ChatHandler) History(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	messages, err := h.chat.History(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.ChatHistoryResponse{Messages: messages})
}
