package repository

import (
	"context"
	"fmt"
	"time"

	"bizlevel/internal/domain"
	"bizlevel/internal/repository/models"
	"bizlevel/internal/util"

	"github.com/jmoiron/sqlx"
)

// ChatDatabaseAdapter implements domain.ChatRepository on PostgreSQL.
type ChatDatabaseAdapter struct {
	db *sqlx.DB
}

// NewChatDatabaseAdapter creates a new chat repository.
func NewChatDatabaseAdapter(db *sqlx.DB) domain.ChatRepository {
	return &ChatDatabaseAdapter{db: db}
}

func (a *ChatDatabaseAdapter) SaveMessage(ctx context.Context, msg *domain.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = util.NewULID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	query := `INSERT INTO chat_messages (id, user_id, role, content, level_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		msg.ID, msg.UserID, msg.Role, msg.Content, util.PtrToNullString(msg.LevelID), msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

func (a *ChatDatabaseAdapter) ListRecentMessages(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	var rows []models.ChatMessage
	query := `SELECT id, user_id, role, content, level_id, created_at FROM chat_messages
	          WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	msgs := make([]domain.ChatMessage, len(rows))
	// newest first from the database, oldest first for callers
	for i, r := range rows {
		msgs[len(rows)-1-i] = domain.ChatMessage{
			ID:        r.ID,
			UserID:    r.UserID,
			Role:      r.Role,
			Content:   r.Content,
			LevelID:   util.NullStringToPtr(r.LevelID),
			CreatedAt: r.CreatedAt,
		}
	}
	return msgs, nil
}

func (a *ChatDatabaseAdapter) ListFAQ(ctx context.Context) ([]domain.FAQEntry, error) {
	var rows []models.FAQ
	query := `SELECT id, question, answer, order_index FROM faq ORDER BY order_index, id`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list faq: %w", err)
	}
	entries := make([]domain.FAQEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, domain.FAQEntry{ID: r.ID, Question: r.Question, Answer: r.Answer, OrderIndex: r.OrderIndex})
	}
	return entries, nil
}

// UpsertFAQ writes an entry keyed by its question text.
func (a *ChatDatabaseAdapter) UpsertFAQ(ctx context.Context, entry *domain.FAQEntry) error {
	if entry.ID == "" {
		entry.ID = util.NewULID()
	}
	query := `INSERT INTO faq (id, question, answer, order_index) VALUES ($1, $2, $3, $4)
	          ON CONFLICT (question) DO UPDATE SET answer = EXCLUDED.answer, order_index = EXCLUDED.order_index`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, entry.ID, entry.Question, entry.Answer, entry.OrderIndex)
	if err != nil {
		return fmt.Errorf("failed to upsert faq entry: %w", err)
	}
	return nil
}
