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

// AdminLogDatabaseAdapter implements domain.AdminLogRepository on PostgreSQL.
type AdminLogDatabaseAdapter struct {
	db *sqlx.DB
}

// NewAdminLogDatabaseAdapter creates a new admin log repository.
func NewAdminLogDatabaseAdapter(db *sqlx.DB) domain.AdminLogRepository {
	return &AdminLogDatabaseAdapter{db: db}
}

func (a *AdminLogDatabaseAdapter) CreateLog(ctx context.Context, entry *domain.AdminLog) error {
	if entry.ID == "" {
		entry.ID = util.NewULID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	query := `INSERT INTO admin_logs (id, admin_id, action, entity_type, entity_id, details, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		entry.ID, entry.AdminID, entry.Action, entry.EntityType, entry.EntityID, models.JSONMap(entry.Details), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin log: %w", err)
	}
	return nil
}

// ListLogs returns a page of entries, newest first, and the total count.
func (a *AdminLogDatabaseAdapter) ListLogs(ctx context.Context, limit, offset int) ([]domain.AdminLog, int, error) {
	exec := GetExecutor(ctx, a.db)

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM admin_logs`); err != nil {
		return nil, 0, fmt.Errorf("failed to count admin logs: %w", err)
	}

	var rows []models.AdminLog
	query := `SELECT id, admin_id, action, entity_type, entity_id, details, created_at FROM admin_logs
	          ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	if err := exec.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list admin logs: %w", err)
	}

	logs := make([]domain.AdminLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, domain.AdminLog{
			ID:         r.ID,
			AdminID:    r.AdminID,
			Action:     r.Action,
			EntityType: r.EntityType,
			EntityID:   r.EntityID,
			Details:    map[string]interface{}(r.Details),
			CreatedAt:  r.CreatedAt,
		})
	}
	return logs, total, nil
}
