package service

import (
	"context"

	"bizlevel/internal/domain"
	"bizlevel/internal/logger"
	"bizlevel/internal/metrics"

	"go.uber.org/zap"
)

// CompletionService completes levels and unlocks their successors.
type CompletionService interface {
	// CompleteLevelIfEligible marks the level completed when every requirement
	// is met and opens the next published level. Unmet requirements are
	// reported in the result, not as an error. Repeated calls are idempotent.
	CompleteLevelIfEligible(ctx context.Context, userID, levelID string) (*domain.CompletionResult, error)
}

type completionService struct {
	levels    domain.LevelRepository
	progress  domain.ProgressRepository
	trackers  Trackers
	txManager domain.TransactionManager
	publisher domain.ProgressPublisher
}

// NewCompletionService creates a completion orchestrator. publisher may be nil.
func NewCompletionService(
	levels domain.LevelRepository,
	progress domain.ProgressRepository,
	trackers Trackers,
	txManager domain.TransactionManager,
	publisher domain.ProgressPublisher,
) CompletionService {
	return &completionService{
		levels:    levels,
		progress:  progress,
		trackers:  trackers,
		txManager: txManager,
		publisher: publisher,
	}
}

func (s *completionService) CompleteLevelIfEligible(ctx context.Context, userID, levelID string) (*domain.CompletionResult, error) {
	level, err := s.levels.GetLevelByID(ctx, levelID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load level", err)
	}
	if level == nil {
		return nil, domain.NewLevelNotFoundError(levelID)
	}

	video, quiz, artifact, err := evaluateTrackers(ctx, s.trackers, userID, levelID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to evaluate level requirements", err)
	}

	conditions := domain.CompletionConditions{
		VideosCompleted:     video.Met,
		QuizPassed:          quiz.Met,
		ArtifactsDownloaded: artifact.Met,
	}
	if !conditions.AllMet() {
		status := domain.ProgressNotStarted
		if row, err := s.progress.GetProgress(ctx, userID, levelID); err == nil && row != nil {
			status = row.Status
		}
		return &domain.CompletionResult{
			Success:    false,
			Status:     status,
			Conditions: conditions,
			Unmet:      conditions.Unmet(),
		}, nil
	}

	var next *domain.Level
	var transitioned, unlocked bool
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if transitioned, err = s.progress.MarkLevelCompleted(txCtx, userID, levelID); err != nil {
			return err
		}
		n, err := s.levels.GetNextPublishedLevel(txCtx, level.OrderIndex)
		if err != nil {
			return err
		}
		if n == nil {
			return nil
		}
		next = n
		unlocked, err = s.progress.CreateProgressIfAbsent(txCtx, userID, n.ID)
		return err
	})
	if err != nil {
		logger.Get().Error("Failed to complete level",
			zap.String("userID", userID),
			zap.String("levelID", levelID),
			zap.Error(err))
		return nil, domain.NewInternalError("Failed to complete level", err)
	}

	if transitioned {
		metrics.LevelCompletionsTotal.Inc()
		publishProgress(ctx, s.publisher, userID, levelID, domain.ProgressCompleted, 100)
	}

	result := &domain.CompletionResult{
		Success:    true,
		Status:     domain.ProgressCompleted,
		Conditions: conditions,
	}
	if next != nil && unlocked {
		publishProgress(ctx, s.publisher, userID, next.ID, domain.ProgressInProgress, 0)
		result.NextLevel = &domain.NextLevel{ID: next.ID, Title: next.Title}
	}

	if transitioned {
		logger.Get().Info("Level completed",
			zap.String("userID", userID),
			zap.String("levelID", levelID),
			zap.Bool("nextUnlocked", result.NextLevel != nil))
	}
	return result, nil
}
