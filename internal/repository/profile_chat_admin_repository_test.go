package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"bizlevel/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileAdapter_GetProfile(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewProfileDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM profiles WHERE id = `).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "display_name", "role", "current_plan", "created_at", "updated_at"}).
			AddRow("u1", "a@b.c", "Aigerim", "admin", "pro", now, now))
	mock.ExpectQuery(`SELECT .* FROM profiles WHERE id = `).
		WithArgs("u2").
		WillReturnError(sql.ErrNoRows)

	p, err := repo.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.IsAdmin())
	assert.Equal(t, "pro", *p.CurrentPlan)

	p, err = repo.GetProfile(context.Background(), "u2")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProfileAdapter_UpdateCurrentPlan(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewProfileDatabaseAdapter(db)

	mock.ExpectExec(`INSERT INTO profiles .* ON CONFLICT \(id\) DO UPDATE SET current_plan`).
		WithArgs("u1", "basic").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateCurrentPlan(context.Background(), "u1", domain.PlanBasic))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileAdapter_GetDisplayNames(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewProfileDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT id, display_name, email FROM profiles WHERE id IN`).
		WithArgs("a1", "a2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "email"}).
			AddRow("a1", "Admin One", "one@x.io").
			AddRow("a2", "", "two@x.io"))

	names, err := repo.GetDisplayNames(context.Background(), []string{"a1", "a2"})

	require.NoError(t, err)
	assert.Equal(t, "Admin One", names["a1"])
	assert.Equal(t, "two@x.io", names["a2"])

	empty, err := repo.GetDisplayNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatAdapter_ListRecentMessages_Chronological(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewChatDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM chat_messages WHERE user_id = .* ORDER BY created_at DESC`).
		WithArgs("u1", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "role", "content", "level_id", "created_at"}).
			AddRow("m2", "u1", "assistant", "answer", nil, now).
			AddRow("m1", "u1", "user", "question", "l1", now.Add(-time.Second)))

	msgs, err := repo.ListRecentMessages(context.Background(), "u1", 10)

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "l1", *msgs[0].LevelID)
	assert.Equal(t, "m2", msgs[1].ID)
}

func TestChatAdapter_SaveMessage(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewChatDatabaseAdapter(db)

	mock.ExpectExec(`INSERT INTO chat_messages`).
		WithArgs(sqlmock.AnyArg(), "u1", "user", "hello", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	msg := &domain.ChatMessage{UserID: "u1", Role: domain.ChatRoleUser, Content: "hello"}
	require.NoError(t, repo.SaveMessage(context.Background(), msg))
	assert.Len(t, msg.ID, 26)
}

func TestAdminLogAdapter_ListLogs(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAdminLogDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admin_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(`SELECT .* FROM admin_logs ORDER BY created_at DESC`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "admin_id", "action", "entity_type", "entity_id", "details", "created_at"}).
			AddRow("log1", "a1", "create_level", "level", "l1", []byte(`{"title":"Sales"}`), now))

	logs, total, err := repo.ListLogs(context.Background(), 20, 0)

	require.NoError(t, err)
	assert.Equal(t, 21, total)
	require.Len(t, logs, 1)
	assert.Equal(t, "Sales", logs[0].Details["title"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminLogAdapter_CreateLog(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAdminLogDatabaseAdapter(db)

	mock.ExpectExec(`INSERT INTO admin_logs`).
		WithArgs(sqlmock.AnyArg(), "a1", "create_level", "level", "l1", `{"title":"Sales"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateLog(context.Background(), &domain.AdminLog{
		AdminID: "a1", Action: domain.ActionCreateLevel, EntityType: "level", EntityID: "l1",
		Details: map[string]interface{}{"title": "Sales"},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
