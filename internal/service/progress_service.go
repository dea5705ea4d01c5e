package service

import (
	"context"
	"time"

	"bizlevel/internal/domain"
	"bizlevel/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressService derives level states and maintains the stored percentages.
type ProgressService interface {
	// RefreshLevelProgress recomputes the three domain percentages and the
	// aggregate and stores them on the user's row.
	RefreshLevelProgress(ctx context.Context, userID, levelID string) (*domain.ProgressBreakdown, error)
	// GetLevelProgress returns the live breakdown without writing.
	GetLevelProgress(ctx context.Context, userID, levelID string) (*domain.ProgressBreakdown, error)
	ListLevelStates(ctx context.Context, userID string) ([]domain.LevelOverview, error)
	GetLevelState(ctx context.Context, userID, levelID string) (*domain.LevelOverview, error)
	// EnsureAccessible fails with LEVEL_LOCKED when the level is locked for the user.
	EnsureAccessible(ctx context.Context, userID, levelID string) (*domain.Level, error)
}

type progressService struct {
	catalog   CatalogService
	progress  domain.ProgressRepository
	trackers  Trackers
	publisher domain.ProgressPublisher
}

// NewProgressService creates a progress service. publisher may be nil.
func NewProgressService(
	catalog CatalogService,
	progress domain.ProgressRepository,
	trackers Trackers,
	publisher domain.ProgressPublisher,
) ProgressService {
	return &progressService{
		catalog:   catalog,
		progress:  progress,
		trackers:  trackers,
		publisher: publisher,
	}
}

// evaluateTrackers runs the three trackers concurrently. ctx must not carry a transaction.
func evaluateTrackers(ctx context.Context, t Trackers, userID, levelID string) (video, quiz, artifact TrackerResult, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (e error) {
		video, e = t.Video.Evaluate(gctx, userID, levelID)
		return e
	})
	g.Go(func() (e error) {
		quiz, e = t.Quiz.Evaluate(gctx, userID, levelID)
		return e
	})
	g.Go(func() (e error) {
		artifact, e = t.Artifact.Evaluate(gctx, userID, levelID)
		return e
	})
	err = g.Wait()
	return
}

func breakdownOf(video, quiz, artifact TrackerResult) *domain.ProgressBreakdown {
	return &domain.ProgressBreakdown{
		VideoPercentage:     video.Percentage,
		QuizPercentage:      quiz.Percentage,
		ArtifactsPercentage: artifact.Percentage,
		Overall:             domain.AggregateProgress(video.Percentage, quiz.Percentage, artifact.Percentage),
		VideosCompleted:     video.Met,
		QuizPassed:          quiz.Met,
		ArtifactsDownloaded: artifact.Met,
	}
}

func (s *progressService) GetLevelProgress(ctx context.Context, userID, levelID string) (*domain.ProgressBreakdown, error) {
	video, quiz, artifact, err := evaluateTrackers(ctx, s.trackers, userID, levelID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to evaluate level progress", err)
	}
	return breakdownOf(video, quiz, artifact), nil
}

func (s *progressService) RefreshLevelProgress(ctx context.Context, userID, levelID string) (*domain.ProgressBreakdown, error) {
	b, err := s.GetLevelProgress(ctx, userID, levelID)
	if err != nil {
		return nil, err
	}

	row := &domain.UserProgress{
		UserID:              userID,
		LevelID:             levelID,
		CompletedPercentage: b.Overall,
		VideoPercentage:     b.VideoPercentage,
		QuizPercentage:      b.QuizPercentage,
		ArtifactsPercentage: b.ArtifactsPercentage,
	}
	if err := s.progress.SaveProgressPercentages(ctx, row); err != nil {
		return nil, domain.NewInternalError("Failed to save level progress", err)
	}

	status := domain.ProgressInProgress
	if stored, err := s.progress.GetProgress(ctx, userID, levelID); err == nil && stored != nil {
		status = stored.Status
	}
	publishProgress(ctx, s.publisher, userID, levelID, status, b.Overall)
	return b, nil
}

func (s *progressService) ListLevelStates(ctx context.Context, userID string) ([]domain.LevelOverview, error) {
	levels, err := s.catalog.ListPublishedLevels(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.progress.ListProgressByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load progress", err)
	}
	return domain.BuildLevelOverviews(levels, rows), nil
}

func (s *progressService) GetLevelState(ctx context.Context, userID, levelID string) (*domain.LevelOverview, error) {
	overviews, err := s.ListLevelStates(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range overviews {
		if overviews[i].Level.ID == levelID {
			return &overviews[i], nil
		}
	}
	return nil, domain.NewLevelNotFoundError(levelID)
}

func (s *progressService) EnsureAccessible(ctx context.Context, userID, levelID string) (*domain.Level, error) {
	ov, err := s.GetLevelState(ctx, userID, levelID)
	if err != nil {
		return nil, err
	}
	if ov.State == domain.LevelLocked {
		return nil, domain.NewLevelLockedError(levelID)
	}
	return &ov.Level, nil
}

// publishProgress announces a progress change. Failures are logged only.
func publishProgress(ctx context.Context, publisher domain.ProgressPublisher, userID, levelID string, status domain.ProgressStatus, pct int) {
	if publisher == nil {
		return
	}
	event := domain.ProgressEvent{
		UserID:     userID,
		LevelID:    levelID,
		Status:     status,
		Percentage: pct,
		OccurredAt: time.Now().UTC(),
	}
	if err := publisher.PublishProgress(ctx, event); err != nil {
		logger.Get().Warn("Failed to publish progress event",
			zap.String("userID", userID),
			zap.String("levelID", levelID),
			zap.Error(err))
	}
}
