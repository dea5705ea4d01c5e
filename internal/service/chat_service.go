package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizlevel/internal/cache"
	"bizlevel/internal/domain"
	"bizlevel/internal/logger"

	"go.uber.org/zap"
)

const defaultChatHistorySize = 10

// ChatService answers learner questions with the AI assistant.
type ChatService interface {
	Ask(ctx context.Context, id domain.Identity, message string, levelID *string) (*domain.ChatReply, error)
	History(ctx context.Context, id domain.Identity) ([]domain.ChatMessage, error)
}

type chatService struct {
	chats       domain.ChatRepository
	catalog     CatalogService
	assistant   domain.Assistant
	cache       domain.Cache
	faqTTL      time.Duration
	historySize int
}

// NewChatService creates a chat service. cache may be nil.
func NewChatService(
	chats domain.ChatRepository,
	catalog CatalogService,
	assistant domain.Assistant,
	c domain.Cache,
	faqTTL time.Duration,
	historySize int,
) ChatService {
	if historySize <= 0 {
		historySize = defaultChatHistorySize
	}
	return &chatService{
		chats:       chats,
		catalog:     catalog,
		assistant:   assistant,
		cache:       c,
		faqTTL:      faqTTL,
		historySize: historySize,
	}
}

func (s *chatService) Ask(ctx context.Context, id domain.Identity, message string, levelID *string) (*domain.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.NewInvalidInputError("message must not be empty")
	}

	var level *domain.Level
	if levelID != nil && *levelID != "" {
		l, err := s.catalog.GetLevel(ctx, *levelID)
		if err != nil {
			return nil, err
		}
		level = l
	}

	history, err := s.chats.ListRecentMessages(ctx, id.UserID, s.historySize)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load chat history", err)
	}
	faq := s.loadFAQ(ctx)

	reply, err := s.assistant.Complete(ctx, buildChatPrompt(faq, history, level, message))
	if err != nil {
		logger.Get().Error("Assistant request failed", zap.String("userID", id.UserID), zap.Error(err))
		return nil, err
	}

	userMsg := &domain.ChatMessage{UserID: id.UserID, Role: domain.ChatRoleUser, Content: message, LevelID: levelID}
	if err := s.chats.SaveMessage(ctx, userMsg); err != nil {
		return nil, domain.NewInternalError("Failed to save chat message", err)
	}
	botMsg := &domain.ChatMessage{UserID: id.UserID, Role: domain.ChatRoleAssistant, Content: reply, LevelID: levelID}
	if err := s.chats.SaveMessage(ctx, botMsg); err != nil {
		return nil, domain.NewInternalError("Failed to save chat message", err)
	}

	return &domain.ChatReply{Reply: reply, MessageID: botMsg.ID, CreatedAt: botMsg.CreatedAt}, nil
}

func (s *chatService) History(ctx context.Context, id domain.Identity) ([]domain.ChatMessage, error) {
	msgs, err := s.chats.ListRecentMessages(ctx, id.UserID, s.historySize)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load chat history", err)
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return msgs, nil
}

// loadFAQ returns the FAQ, cached. Failures degrade to an empty list.
func (s *chatService) loadFAQ(ctx context.Context) []domain.FAQEntry {
	key := cache.FAQKey()
	if s.cache != nil {
		var cached []domain.FAQEntry
		if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil && ok {
			return cached
		}
	}

	faq, err := s.chats.ListFAQ(ctx)
	if err != nil {
		logger.Get().Warn("Failed to load FAQ", zap.Error(err))
		return nil
	}
	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, faq, s.faqTTL); err != nil {
			logger.Get().Warn("Failed to cache FAQ", zap.Error(err))
		}
	}
	return faq
}

func buildChatPrompt(faq []domain.FAQEntry, history []domain.ChatMessage, level *domain.Level, message string) string {
	var b strings.Builder
	b.WriteString("You are the BizLevel learning assistant. You help entrepreneurs with business questions ")
	b.WriteString("and with the course material. Answer concisely in the language of the question.\n")

	if level != nil {
		fmt.Fprintf(&b, "\nThe learner is currently studying level %d: %s.\n", level.OrderIndex, level.Title)
	}

	if len(faq) > 0 {
		b.WriteString("\nFrequently asked questions:\n")
		for _, f := range faq {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", f.Question, f.Answer)
		}
	}

	if len(history) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}

	fmt.Fprintf(&b, "\nuser: %s\nassistant:", message)
	return b.String()
}
