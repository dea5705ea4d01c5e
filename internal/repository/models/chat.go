package models

import (
	"database/sql"
	"time"
)

// ChatMessage maps the chat_messages table.
type ChatMessage struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Role      string         `db:"role"`
	Content   string         `db:"content"`
	LevelID   sql.NullString `db:"level_id"`
	CreatedAt time.Time      `db:"created_at"`
}

// FAQ maps the faq table.
type FAQ struct {
	ID         string `db:"id"`
	Question   string `db:"question"`
	Answer     string `db:"answer"`
	OrderIndex int    `db:"order_index"`
}

// AdminLog maps the admin_logs table.
type AdminLog struct {
	ID         string    `db:"id"`
	AdminID    string    `db:"admin_id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Details    JSONMap   `db:"details"`
	CreatedAt  time.Time `db:"created_at"`
}
