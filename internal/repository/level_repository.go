package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bizlevel/internal/domain"
	"bizlevel/internal/repository/models"
	"bizlevel/internal/util"

	"github.com/jmoiron/sqlx"
)

const (
	levelColumns    = `id, title, description, order_index, is_free, status, thumbnail_url, created_at, updated_at`
	videoColumns    = `id, level_id, title, order_index, duration_seconds, youtube_id, created_at`
	questionColumns = `id, level_id, video_id, question, options, correct_option, question_type, order_index`
	artifactColumns = `id, level_id, title, file_path, is_required, created_at`
)

// LevelDatabaseAdapter implements domain.LevelRepository on PostgreSQL.
type LevelDatabaseAdapter struct {
	db *sqlx.DB
}

// NewLevelDatabaseAdapter creates a new level repository.
func NewLevelDatabaseAdapter(db *sqlx.DB) domain.LevelRepository {
	return &LevelDatabaseAdapter{db: db}
}

func (a *LevelDatabaseAdapter) ListPublishedLevels(ctx context.Context) ([]domain.Level, error) {
	var rows []models.Level
	query := `SELECT ` + levelColumns + ` FROM levels WHERE status = 'published' ORDER BY order_index`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list published levels: %w", err)
	}
	return toDomainLevels(rows), nil
}

func (a *LevelDatabaseAdapter) ListAllLevels(ctx context.Context) ([]domain.Level, error) {
	var rows []models.Level
	query := `SELECT ` + levelColumns + ` FROM levels ORDER BY order_index`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	return toDomainLevels(rows), nil
}

func (a *LevelDatabaseAdapter) GetLevelByID(ctx context.Context, id string) (*domain.Level, error) {
	query := `SELECT ` + levelColumns + ` FROM levels WHERE id = $1`
	return a.getLevel(ctx, query, id)
}

func (a *LevelDatabaseAdapter) GetLevelByOrderIndex(ctx context.Context, orderIndex int) (*domain.Level, error) {
	query := `SELECT ` + levelColumns + ` FROM levels WHERE order_index = $1`
	return a.getLevel(ctx, query, orderIndex)
}

func (a *LevelDatabaseAdapter) GetNextPublishedLevel(ctx context.Context, orderIndex int) (*domain.Level, error) {
	query := `SELECT ` + levelColumns + ` FROM levels WHERE order_index > $1 AND status = 'published'
	          ORDER BY order_index LIMIT 1`
	return a.getLevel(ctx, query, orderIndex)
}

func (a *LevelDatabaseAdapter) getLevel(ctx context.Context, query string, arg interface{}) (*domain.Level, error) {
	var row models.Level
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	level := toDomainLevel(row)
	return &level, nil
}

func (a *LevelDatabaseAdapter) ListVideosByLevel(ctx context.Context, levelID string) ([]domain.Video, error) {
	var rows []models.Video
	query := `SELECT ` + videoColumns + ` FROM videos WHERE level_id = $1 ORDER BY order_index`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, levelID); err != nil {
		return nil, fmt.Errorf("failed to list videos for level %s: %w", levelID, err)
	}
	videos := make([]domain.Video, 0, len(rows))
	for _, r := range rows {
		videos = append(videos, toDomainVideo(r))
	}
	return videos, nil
}

func (a *LevelDatabaseAdapter) GetVideoByID(ctx context.Context, id string) (*domain.Video, error) {
	var row models.Video
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	video := toDomainVideo(row)
	return &video, nil
}

func (a *LevelDatabaseAdapter) ListQuestionsByLevel(ctx context.Context, levelID string) ([]domain.QuizQuestion, error) {
	var rows []models.QuizQuestion
	query := `SELECT ` + questionColumns + ` FROM quiz_questions WHERE level_id = $1 ORDER BY order_index`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, levelID); err != nil {
		return nil, fmt.Errorf("failed to list questions for level %s: %w", levelID, err)
	}
	questions := make([]domain.QuizQuestion, 0, len(rows))
	for _, r := range rows {
		questions = append(questions, toDomainQuestion(r))
	}
	return questions, nil
}

func (a *LevelDatabaseAdapter) CountQuestionsByLevel(ctx context.Context, levelID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM quiz_questions WHERE level_id = $1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &count, query, levelID); err != nil {
		return 0, fmt.Errorf("failed to count questions for level %s: %w", levelID, err)
	}
	return count, nil
}

func (a *LevelDatabaseAdapter) ListArtifactsByLevel(ctx context.Context, levelID string) ([]domain.Artifact, error) {
	var rows []models.Artifact
	query := `SELECT ` + artifactColumns + ` FROM artifacts WHERE level_id = $1 ORDER BY created_at, id`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, levelID); err != nil {
		return nil, fmt.Errorf("failed to list artifacts for level %s: %w", levelID, err)
	}
	artifacts := make([]domain.Artifact, 0, len(rows))
	for _, r := range rows {
		artifacts = append(artifacts, toDomainArtifact(r))
	}
	return artifacts, nil
}

func (a *LevelDatabaseAdapter) GetArtifactByID(ctx context.Context, id string) (*domain.Artifact, error) {
	var row models.Artifact
	query := `SELECT ` + artifactColumns + ` FROM artifacts WHERE id = $1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	artifact := toDomainArtifact(row)
	return &artifact, nil
}

func (a *LevelDatabaseAdapter) CreateLevel(ctx context.Context, level *domain.Level) error {
	if level.ID == "" {
		level.ID = util.NewUUID()
	}
	now := time.Now()
	level.CreatedAt, level.UpdatedAt = now, now
	if level.Status == "" {
		level.Status = domain.LevelStatusDraft
	}

	query := `INSERT INTO levels (` + levelColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		level.ID, level.Title, level.Description, level.OrderIndex, level.IsFree,
		string(level.Status), util.StringToNullString(level.ThumbnailURL), level.CreatedAt, level.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create level: %w", err)
	}
	return nil
}

func (a *LevelDatabaseAdapter) UpdateLevel(ctx context.Context, level *domain.Level) error {
	level.UpdatedAt = time.Now()
	query := `UPDATE levels SET title = $2, description = $3, order_index = $4, is_free = $5,
	          thumbnail_url = $6, updated_at = $7 WHERE id = $1`
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		level.ID, level.Title, level.Description, level.OrderIndex, level.IsFree,
		util.StringToNullString(level.ThumbnailURL), level.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update level: %w", err)
	}
	return requireRow(res, "level")
}

func (a *LevelDatabaseAdapter) UpdateLevelStatus(ctx context.Context, id string, status domain.LevelStatus) error {
	query := `UPDATE levels SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update level status: %w", err)
	}
	return requireRow(res, "level")
}

func (a *LevelDatabaseAdapter) CreateVideo(ctx context.Context, video *domain.Video) error {
	if video.ID == "" {
		video.ID = util.NewUUID()
	}
	video.CreatedAt = time.Now()
	query := `INSERT INTO videos (` + videoColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		video.ID, video.LevelID, video.Title, video.OrderIndex,
		util.PtrToNullInt32(video.DurationSeconds), video.YoutubeID, video.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

func (a *LevelDatabaseAdapter) CreateQuestion(ctx context.Context, q *domain.QuizQuestion) error {
	if q.ID == "" {
		q.ID = util.NewUUID()
	}
	query := `INSERT INTO quiz_questions (` + questionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		q.ID, q.LevelID, util.PtrToNullString(q.VideoID), q.Question,
		models.StringSlice(q.Options), models.IntSlice(q.CorrectOptions), string(q.Type), q.OrderIndex)
	if err != nil {
		return fmt.Errorf("failed to create quiz question: %w", err)
	}
	return nil
}

func (a *LevelDatabaseAdapter) CreateArtifact(ctx context.Context, artifact *domain.Artifact) error {
	if artifact.ID == "" {
		artifact.ID = util.NewUUID()
	}
	artifact.CreatedAt = time.Now()
	query := `INSERT INTO artifacts (` + artifactColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		artifact.ID, artifact.LevelID, artifact.Title, artifact.FilePath, artifact.IsRequired, artifact.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create artifact: %w", err)
	}
	return nil
}

func requireRow(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("%s not found", entity))
	}
	return nil
}

// --- converters ---

func toDomainLevel(m models.Level) domain.Level {
	return domain.Level{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		OrderIndex:   m.OrderIndex,
		IsFree:       m.IsFree,
		Status:       domain.LevelStatus(m.Status),
		ThumbnailURL: m.ThumbnailURL.String,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainLevels(rows []models.Level) []domain.Level {
	levels := make([]domain.Level, 0, len(rows))
	for _, r := range rows {
		levels = append(levels, toDomainLevel(r))
	}
	return levels
}

func toDomainVideo(m models.Video) domain.Video {
	return domain.Video{
		ID:              m.ID,
		LevelID:         m.LevelID,
		Title:           m.Title,
		OrderIndex:      m.OrderIndex,
		DurationSeconds: util.NullInt32ToPtr(m.DurationSeconds),
		YoutubeID:       m.YoutubeID,
		CreatedAt:       m.CreatedAt,
	}
}

func toDomainQuestion(m models.QuizQuestion) domain.QuizQuestion {
	return domain.QuizQuestion{
		ID:             m.ID,
		LevelID:        m.LevelID,
		VideoID:        util.NullStringToPtr(m.VideoID),
		Question:       m.Question,
		Options:        []string(m.Options),
		CorrectOptions: []int(m.CorrectOption),
		Type:           domain.QuestionType(m.QuestionType),
		OrderIndex:     m.OrderIndex,
	}
}

func toDomainArtifact(m models.Artifact) domain.Artifact {
	return domain.Artifact{
		ID:         m.ID,
		LevelID:    m.LevelID,
		Title:      m.Title,
		FilePath:   m.FilePath,
		IsRequired: m.IsRequired,
		CreatedAt:  m.CreatedAt,
	}
}
