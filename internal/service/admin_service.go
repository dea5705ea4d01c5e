package service

import (
	"context"
	"fmt"

	"bizlevel/internal/domain"
	"bizlevel/internal/logger"

	"go.uber.org/zap"
)

// AdminService manages content and the admin action log.
type AdminService interface {
	RecordAction(ctx context.Context, id domain.Identity, action, entityType, entityID string, details map[string]interface{}) (*domain.AdminLog, error)
	// ListActions returns a page of the log, newest first, with admin display names.
	ListActions(ctx context.Context, limit, offset int) ([]domain.AdminLog, int, error)

	CreateLevel(ctx context.Context, id domain.Identity, level *domain.Level) (*domain.Level, error)
	UpdateLevel(ctx context.Context, id domain.Identity, level *domain.Level) (*domain.Level, error)
	ChangeLevelStatus(ctx context.Context, id domain.Identity, levelID string, status domain.LevelStatus) error
	CreateVideo(ctx context.Context, id domain.Identity, video *domain.Video) (*domain.Video, error)
	CreateQuestion(ctx context.Context, id domain.Identity, question *domain.QuizQuestion) (*domain.QuizQuestion, error)
	CreateArtifact(ctx context.Context, id domain.Identity, artifact *domain.Artifact) (*domain.Artifact, error)
}

type adminService struct {
	levels   domain.LevelRepository
	logs     domain.AdminLogRepository
	profiles domain.ProfileRepository
	catalog  CatalogService
}

func NewAdminService(
	levels domain.LevelRepository,
	logs domain.AdminLogRepository,
	profiles domain.ProfileRepository,
	catalog CatalogService,
) AdminService {
	return &adminService{levels: levels, logs: logs, profiles: profiles, catalog: catalog}
}

func (s *adminService) RecordAction(ctx context.Context, id domain.Identity, action, entityType, entityID string, details map[string]interface{}) (*domain.AdminLog, error) {
	entry := &domain.AdminLog{
		AdminID:    id.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if err := s.logs.CreateLog(ctx, entry); err != nil {
		return nil, domain.NewInternalError("Failed to record admin action", err)
	}
	return entry, nil
}

func (s *adminService) ListActions(ctx context.Context, limit, offset int) ([]domain.AdminLog, int, error) {
	logs, total, err := s.logs.ListLogs(ctx, limit, offset)
	if err != nil {
		return nil, 0, domain.NewInternalError("Failed to list admin actions", err)
	}
	if len(logs) == 0 {
		return []domain.AdminLog{}, total, nil
	}

	seen := make(map[string]struct{}, len(logs))
	ids := make([]string, 0, len(logs))
	for _, l := range logs {
		if _, ok := seen[l.AdminID]; !ok {
			seen[l.AdminID] = struct{}{}
			ids = append(ids, l.AdminID)
		}
	}

	names, err := s.profiles.GetDisplayNames(ctx, ids)
	if err != nil {
		logger.Get().Warn("Failed to resolve admin display names", zap.Error(err))
		return logs, total, nil
	}
	for i := range logs {
		logs[i].AdminName = names[logs[i].AdminID]
	}
	return logs, total, nil
}

func (s *adminService) CreateLevel(ctx context.Context, id domain.Identity, level *domain.Level) (*domain.Level, error) {
	if level.OrderIndex < 1 {
		return nil, domain.NewInvalidInputError("order_index must be at least 1")
	}
	if existing, err := s.levels.GetLevelByOrderIndex(ctx, level.OrderIndex); err != nil {
		return nil, domain.NewInternalError("Failed to check level order", err)
	} else if existing != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("order_index %d is already used", level.OrderIndex))
	}

	if err := s.levels.CreateLevel(ctx, level); err != nil {
		return nil, domain.NewInternalError("Failed to create level", err)
	}
	s.afterWrite(ctx, id, domain.ActionCreateLevel, "level", level.ID, level.ID, map[string]interface{}{
		"title":       level.Title,
		"order_index": level.OrderIndex,
	})
	return level, nil
}

func (s *adminService) UpdateLevel(ctx context.Context, id domain.Identity, level *domain.Level) (*domain.Level, error) {
	current, err := s.requireLevel(ctx, level.ID)
	if err != nil {
		return nil, err
	}
	if level.OrderIndex != current.OrderIndex {
		if other, err := s.levels.GetLevelByOrderIndex(ctx, level.OrderIndex); err != nil {
			return nil, domain.NewInternalError("Failed to check level order", err)
		} else if other != nil && other.ID != level.ID {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("order_index %d is already used", level.OrderIndex))
		}
	}
	level.Status = current.Status
	level.CreatedAt = current.CreatedAt

	if err := s.levels.UpdateLevel(ctx, level); err != nil {
		return nil, domain.NewInternalError("Failed to update level", err)
	}
	s.afterWrite(ctx, id, domain.ActionUpdateLevel, "level", level.ID, level.ID, map[string]interface{}{
		"title":       level.Title,
		"order_index": level.OrderIndex,
	})
	return level, nil
}

func (s *adminService) ChangeLevelStatus(ctx context.Context, id domain.Identity, levelID string, status domain.LevelStatus) error {
	if !status.IsValid() {
		return domain.NewInvalidInputError(fmt.Sprintf("unknown level status: %s", status))
	}
	current, err := s.requireLevel(ctx, levelID)
	if err != nil {
		return err
	}
	if err := s.levels.UpdateLevelStatus(ctx, levelID, status); err != nil {
		return err
	}
	s.afterWrite(ctx, id, domain.ActionChangeLevelStatus, "level", levelID, levelID, map[string]interface{}{
		"from": string(current.Status),
		"to":   string(status),
	})
	return nil
}

func (s *adminService) CreateVideo(ctx context.Context, id domain.Identity, video *domain.Video) (*domain.Video, error) {
	if _, err := s.requireLevel(ctx, video.LevelID); err != nil {
		return nil, err
	}
	if video.DurationSeconds != nil && *video.DurationSeconds < 0 {
		return nil, domain.NewInvalidInputError("duration_seconds must not be negative")
	}
	if err := s.levels.CreateVideo(ctx, video); err != nil {
		return nil, domain.NewInternalError("Failed to create video", err)
	}
	s.afterWrite(ctx, id, domain.ActionCreateVideo, "video", video.ID, video.LevelID, map[string]interface{}{
		"title":    video.Title,
		"level_id": video.LevelID,
	})
	return video, nil
}

func (s *adminService) CreateQuestion(ctx context.Context, id domain.Identity, q *domain.QuizQuestion) (*domain.QuizQuestion, error) {
	if _, err := s.requireLevel(ctx, q.LevelID); err != nil {
		return nil, err
	}
	if err := validateQuestion(q); err != nil {
		return nil, err
	}
	if q.VideoID != nil {
		video, err := s.levels.GetVideoByID(ctx, *q.VideoID)
		if err != nil {
			return nil, domain.NewInternalError("Failed to load video", err)
		}
		if video == nil || video.LevelID != q.LevelID {
			return nil, domain.NewVideoNotFoundError(*q.VideoID)
		}
	}
	if err := s.levels.CreateQuestion(ctx, q); err != nil {
		return nil, domain.NewInternalError("Failed to create question", err)
	}
	s.afterWrite(ctx, id, domain.ActionCreateQuestion, "quiz_question", q.ID, q.LevelID, map[string]interface{}{
		"level_id":      q.LevelID,
		"question_type": string(q.Type),
	})
	return q, nil
}

func (s *adminService) CreateArtifact(ctx context.Context, id domain.Identity, artifact *domain.Artifact) (*domain.Artifact, error) {
	if _, err := s.requireLevel(ctx, artifact.LevelID); err != nil {
		return nil, err
	}
	if err := s.levels.CreateArtifact(ctx, artifact); err != nil {
		return nil, domain.NewInternalError("Failed to create artifact", err)
	}
	s.afterWrite(ctx, id, domain.ActionCreateArtifact, "artifact", artifact.ID, artifact.LevelID, map[string]interface{}{
		"title":       artifact.Title,
		"level_id":    artifact.LevelID,
		"is_required": artifact.IsRequired,
	})
	return artifact, nil
}

func (s *adminService) requireLevel(ctx context.Context, levelID string) (*domain.Level, error) {
	level, err := s.levels.GetLevelByID(ctx, levelID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load level", err)
	}
	if level == nil {
		return nil, domain.NewLevelNotFoundError(levelID)
	}
	return level, nil
}

// afterWrite logs the action and drops cached catalog data. Both are best effort.
func (s *adminService) afterWrite(ctx context.Context, id domain.Identity, action, entityType, entityID, levelID string, details map[string]interface{}) {
	if _, err := s.RecordAction(ctx, id, action, entityType, entityID, details); err != nil {
		logger.Get().Warn("Failed to record admin action",
			zap.String("adminID", id.UserID),
			zap.String("action", action),
			zap.Error(err))
	}
	s.catalog.Invalidate(ctx, levelID)
}

func validateQuestion(q *domain.QuizQuestion) error {
	if !q.Type.IsValid() {
		return domain.NewInvalidInputError(fmt.Sprintf("unknown question type: %s", q.Type))
	}
	if len(q.Options) == 0 || len(q.CorrectOptions) == 0 {
		return domain.NewInvalidInputError("options and correct_option are required")
	}
	for _, idx := range q.CorrectOptions {
		if idx < 0 || idx >= len(q.Options) {
			return domain.NewInvalidInputError(fmt.Sprintf("correct_option %d is out of range", idx))
		}
	}
	if q.Type == domain.QuestionSingleChoice && len(q.CorrectOptions) != 1 {
		return domain.NewInvalidInputError("single_choice questions have exactly one correct option")
	}
	return nil
}
