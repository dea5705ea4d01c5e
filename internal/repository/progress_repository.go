package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bizlevel/internal/domain"
	"bizlevel/internal/repository/models"
	"bizlevel/internal/util"

	"github.com/jmoiron/sqlx"
)

const progressColumns = `id, user_id, level_id, status, completed_percentage, quiz_score,
	video_percentage, quiz_percentage, artifacts_percentage, started_at, completed_at, created_at, updated_at`

// ProgressDatabaseAdapter implements domain.ProgressRepository on PostgreSQL.
// Every write resolves conflicts on the (user, level), (user, video) or
// (user, artifact) unique key so concurrent requests never duplicate rows.
type ProgressDatabaseAdapter struct {
	db *sqlx.DB
}

// NewProgressDatabaseAdapter creates a new progress repository.
func NewProgressDatabaseAdapter(db *sqlx.DB) domain.ProgressRepository {
	return &ProgressDatabaseAdapter{db: db}
}

func (a *ProgressDatabaseAdapter) GetProgress(ctx context.Context, userID, levelID string) (*domain.UserProgress, error) {
	var row models.UserProgress
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE user_id = $1 AND level_id = $2`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, userID, levelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	p := toDomainProgress(row)
	return &p, nil
}

func (a *ProgressDatabaseAdapter) ListProgressByUser(ctx context.Context, userID string) ([]domain.UserProgress, error) {
	var rows []models.UserProgress
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE user_id = $1`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list progress for user %s: %w", userID, err)
	}
	out := make([]domain.UserProgress, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDomainProgress(r))
	}
	return out, nil
}

func (a *ProgressDatabaseAdapter) SaveProgressPercentages(ctx context.Context, p *domain.UserProgress) error {
	query := `INSERT INTO user_progress (user_id, level_id, status, completed_percentage,
	              video_percentage, quiz_percentage, artifacts_percentage, started_at, created_at, updated_at)
	          VALUES ($1, $2, 'in_progress', $3, $4, $5, $6, NOW(), NOW(), NOW())
	          ON CONFLICT (user_id, level_id) DO UPDATE SET
	              video_percentage = EXCLUDED.video_percentage,
	              quiz_percentage = EXCLUDED.quiz_percentage,
	              artifacts_percentage = EXCLUDED.artifacts_percentage,
	              completed_percentage = CASE WHEN user_progress.status = 'completed' THEN 100 ELSE EXCLUDED.completed_percentage END,
	              status = CASE WHEN user_progress.status = 'completed' THEN user_progress.status ELSE 'in_progress' END,
	              started_at = COALESCE(user_progress.started_at, NOW()),
	              updated_at = NOW()`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		p.UserID, p.LevelID, p.CompletedPercentage, p.VideoPercentage, p.QuizPercentage, p.ArtifactsPercentage)
	if err != nil {
		return fmt.Errorf("failed to save progress percentages: %w", err)
	}
	return nil
}

func (a *ProgressDatabaseAdapter) MarkLevelCompleted(ctx context.Context, userID, levelID string) (bool, error) {
	query := `INSERT INTO user_progress (user_id, level_id, status, completed_percentage, started_at, completed_at, created_at, updated_at)
	          VALUES ($1, $2, 'completed', 100, NOW(), NOW(), NOW(), NOW())
	          ON CONFLICT (user_id, level_id) DO UPDATE SET
	              status = 'completed',
	              completed_percentage = 100,
	              completed_at = COALESCE(user_progress.completed_at, NOW()),
	              updated_at = NOW()
	          WHERE user_progress.status <> 'completed'`
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, userID, levelID)
	if err != nil {
		return false, fmt.Errorf("failed to mark level completed: %w", err)
	}
	return rowsCreated(res)
}

func (a *ProgressDatabaseAdapter) CreateProgressIfAbsent(ctx context.Context, userID, levelID string) (bool, error) {
	query := `INSERT INTO user_progress (user_id, level_id, status, completed_percentage, started_at, created_at, updated_at)
	          VALUES ($1, $2, 'in_progress', 0, NOW(), NOW(), NOW())
	          ON CONFLICT (user_id, level_id) DO NOTHING`
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, userID, levelID)
	if err != nil {
		return false, fmt.Errorf("failed to create progress row: %w", err)
	}
	return rowsCreated(res)
}

func (a *ProgressDatabaseAdapter) UnlockLevel(ctx context.Context, userID, levelID string) (bool, error) {
	query := `INSERT INTO user_progress (user_id, level_id, status, completed_percentage, started_at, created_at, updated_at)
	          VALUES ($1, $2, 'in_progress', 0, NOW(), NOW(), NOW())
	          ON CONFLICT (user_id, level_id) DO UPDATE SET
	              status = 'in_progress',
	              started_at = COALESCE(user_progress.started_at, NOW()),
	              updated_at = NOW()
	          WHERE user_progress.status = 'not_started'`
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, userID, levelID)
	if err != nil {
		return false, fmt.Errorf("failed to unlock level %s: %w", levelID, err)
	}
	return rowsCreated(res)
}

func (a *ProgressDatabaseAdapter) SaveQuizScore(ctx context.Context, userID, levelID string, score int) (int, error) {
	var best int
	query := `INSERT INTO user_progress (user_id, level_id, status, quiz_score, quiz_percentage, started_at, created_at, updated_at)
	          VALUES ($1, $2, 'in_progress', $3, $3, NOW(), NOW(), NOW())
	          ON CONFLICT (user_id, level_id) DO UPDATE SET
	              quiz_score = GREATEST(COALESCE(user_progress.quiz_score, 0), EXCLUDED.quiz_score),
	              updated_at = NOW()
	          RETURNING quiz_score`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &best, query, userID, levelID, score); err != nil {
		return 0, fmt.Errorf("failed to save quiz score: %w", err)
	}
	return best, nil
}

func (a *ProgressDatabaseAdapter) ListVideoProgressByLevel(ctx context.Context, userID, levelID string) ([]domain.VideoProgress, error) {
	var rows []models.UserVideoProgress
	query := `SELECT uvp.user_id, uvp.video_id, uvp.watched_seconds, uvp.last_position, uvp.is_completed, uvp.updated_at
	          FROM user_video_progress uvp
	          JOIN videos v ON v.id = uvp.video_id
	          WHERE uvp.user_id = $1 AND v.level_id = $2`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, userID, levelID); err != nil {
		return nil, fmt.Errorf("failed to list video progress: %w", err)
	}
	out := make([]domain.VideoProgress, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDomainVideoProgress(r))
	}
	return out, nil
}

func (a *ProgressDatabaseAdapter) GetVideoProgress(ctx context.Context, userID, videoID string) (*domain.VideoProgress, error) {
	var row models.UserVideoProgress
	query := `SELECT user_id, video_id, watched_seconds, last_position, is_completed, updated_at
	          FROM user_video_progress WHERE user_id = $1 AND video_id = $2`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, userID, videoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get video progress: %w", err)
	}
	vp := toDomainVideoProgress(row)
	return &vp, nil
}

func (a *ProgressDatabaseAdapter) SaveVideoProgress(ctx context.Context, p *domain.VideoProgress) error {
	query := `INSERT INTO user_video_progress (user_id, video_id, watched_seconds, last_position, is_completed, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW())
	          ON CONFLICT (user_id, video_id) DO UPDATE SET
	              watched_seconds = GREATEST(user_video_progress.watched_seconds, EXCLUDED.watched_seconds),
	              last_position = EXCLUDED.last_position,
	              is_completed = user_video_progress.is_completed OR EXCLUDED.is_completed,
	              updated_at = NOW()`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		p.UserID, p.VideoID, p.WatchedSeconds, p.LastPosition, p.IsCompleted)
	if err != nil {
		return fmt.Errorf("failed to save video progress: %w", err)
	}
	return nil
}

func (a *ProgressDatabaseAdapter) ListDownloadedArtifactIDs(ctx context.Context, userID, levelID string) ([]string, error) {
	var ids []string
	query := `SELECT ua.artifact_id FROM user_artifacts ua
	          JOIN artifacts ar ON ar.id = ua.artifact_id
	          WHERE ua.user_id = $1 AND ar.level_id = $2`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &ids, query, userID, levelID); err != nil {
		return nil, fmt.Errorf("failed to list downloaded artifacts: %w", err)
	}
	return ids, nil
}

func (a *ProgressDatabaseAdapter) MarkArtifactDownloaded(ctx context.Context, userID, artifactID string) (bool, error) {
	query := `INSERT INTO user_artifacts (user_id, artifact_id, downloaded_at) VALUES ($1, $2, NOW())
	          ON CONFLICT (user_id, artifact_id) DO NOTHING`
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, userID, artifactID)
	if err != nil {
		return false, fmt.Errorf("failed to mark artifact downloaded: %w", err)
	}
	return rowsCreated(res)
}

func toDomainProgress(m models.UserProgress) domain.UserProgress {
	return domain.UserProgress{
		ID:                  m.ID,
		UserID:              m.UserID,
		LevelID:             m.LevelID,
		Status:              domain.ProgressStatus(m.Status),
		CompletedPercentage: m.CompletedPercentage,
		QuizScore:           util.NullInt32ToPtr(m.QuizScore),
		VideoPercentage:     m.VideoPercentage,
		QuizPercentage:      m.QuizPercentage,
		ArtifactsPercentage: m.ArtifactsPercentage,
		StartedAt:           util.NullTimeToPtr(m.StartedAt),
		CompletedAt:         util.NullTimeToPtr(m.CompletedAt),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toDomainVideoProgress(m models.UserVideoProgress) domain.VideoProgress {
	return domain.VideoProgress{
		UserID:         m.UserID,
		VideoID:        m.VideoID,
		WatchedSeconds: m.WatchedSeconds,
		LastPosition:   m.LastPosition,
		IsCompleted:    m.IsCompleted,
		UpdatedAt:      m.UpdatedAt,
	}
}
