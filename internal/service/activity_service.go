package service

import (
	"context"
	"time"

	"bizlevel/internal/domain"
	"bizlevel/internal/logger"

	"go.uber.org/zap"
)

// ArtifactURLTTL is the lifetime of a signed artifact download URL.
const ArtifactURLTTL = 300 * time.Second

// VideoProgressResult is the outcome of a watch progress report.
type VideoProgressResult struct {
	Video      domain.VideoProgress
	Progress   domain.ProgressBreakdown
	Completion *domain.CompletionResult
}

// ArtifactResult is the outcome of a download confirmation.
type ArtifactResult struct {
	Progress   domain.ProgressBreakdown
	Completion *domain.CompletionResult
}

// ActivityService records learner activity and feeds the trackers.
type ActivityService interface {
	RecordVideoProgress(ctx context.Context, id domain.Identity, videoID string, watchedSeconds, lastPosition int) (*VideoProgressResult, error)
	SubmitQuiz(ctx context.Context, id domain.Identity, levelID string, answers []domain.QuizAnswer) (*domain.QuizResult, error)
	GetArtifactDownloadURL(ctx context.Context, id domain.Identity, artifactID string) (string, error)
	MarkArtifactDownloaded(ctx context.Context, id domain.Identity, artifactID string) (*ArtifactResult, error)
}

type activityService struct {
	levels     domain.LevelRepository
	progress   domain.ProgressRepository
	progressSv ProgressService
	completion CompletionService
	signer     domain.URLSigner
	urlTTL     time.Duration
}

// NewActivityService creates an activity service. A zero urlTTL uses ArtifactURLTTL.
func NewActivityService(
	levels domain.LevelRepository,
	progress domain.ProgressRepository,
	progressSv ProgressService,
	completion CompletionService,
	signer domain.URLSigner,
	urlTTL time.Duration,
) ActivityService {
	if urlTTL <= 0 {
		urlTTL = ArtifactURLTTL
	}
	return &activityService{
		levels:     levels,
		progress:   progress,
		progressSv: progressSv,
		completion: completion,
		signer:     signer,
		urlTTL:     urlTTL,
	}
}

func (s *activityService) RecordVideoProgress(ctx context.Context, id domain.Identity, videoID string, watchedSeconds, lastPosition int) (*VideoProgressResult, error) {
	if watchedSeconds < 0 || lastPosition < 0 {
		return nil, domain.NewInvalidInputError("watched_seconds and last_position must not be negative")
	}

	video, err := s.levels.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load video", err)
	}
	if video == nil {
		return nil, domain.NewVideoNotFoundError(videoID)
	}
	if _, err := s.progressSv.EnsureAccessible(ctx, id.UserID, video.LevelID); err != nil {
		return nil, err
	}

	record := &domain.VideoProgress{
		UserID:         id.UserID,
		VideoID:        videoID,
		WatchedSeconds: watchedSeconds,
		LastPosition:   lastPosition,
	}
	if video.DurationSeconds != nil && *video.DurationSeconds > 0 {
		record.IsCompleted = domain.IsVideoWatched(*video, record)
	} else {
		// Unknown duration: any reported watch time counts as seen.
		record.IsCompleted = watchedSeconds > 0
	}
	if err := s.progress.SaveVideoProgress(ctx, record); err != nil {
		return nil, domain.NewInternalError("Failed to save video progress", err)
	}
	if stored, err := s.progress.GetVideoProgress(ctx, id.UserID, videoID); err == nil && stored != nil {
		record = stored
	}

	breakdown, completion, err := s.refreshAndComplete(ctx, id.UserID, video.LevelID)
	if err != nil {
		return nil, err
	}
	return &VideoProgressResult{Video: *record, Progress: *breakdown, Completion: completion}, nil
}

func (s *activityService) SubmitQuiz(ctx context.Context, id domain.Identity, levelID string, answers []domain.QuizAnswer) (*domain.QuizResult, error) {
	if len(answers) == 0 {
		return nil, domain.NewInvalidInputError("at least one answer is required")
	}
	if _, err := s.progressSv.EnsureAccessible(ctx, id.UserID, levelID); err != nil {
		return nil, err
	}

	questions, err := s.levels.ListQuestionsByLevel(ctx, levelID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz questions", err)
	}
	if len(questions) == 0 {
		return nil, domain.NewInvalidInputError("level has no quiz")
	}

	score, results := domain.GradeQuiz(questions, answers)
	best, err := s.progress.SaveQuizScore(ctx, id.UserID, levelID, score)
	if err != nil {
		return nil, domain.NewInternalError("Failed to save quiz score", err)
	}

	logger.Get().Info("Quiz submitted",
		zap.String("userID", id.UserID),
		zap.String("levelID", levelID),
		zap.Int("score", score),
		zap.Int("bestScore", best))

	_, completion, err := s.refreshAndComplete(ctx, id.UserID, levelID)
	if err != nil {
		return nil, err
	}
	return &domain.QuizResult{
		Score:      score,
		BestScore:  best,
		Passed:     score >= domain.QuizPassingScore,
		Results:    results,
		Completion: completion,
	}, nil
}

func (s *activityService) GetArtifactDownloadURL(ctx context.Context, id domain.Identity, artifactID string) (string, error) {
	artifact, err := s.accessibleArtifact(ctx, id, artifactID)
	if err != nil {
		return "", err
	}
	if s.signer == nil {
		return "", domain.NewInternalError("Artifact storage is not configured", nil)
	}
	url, err := s.signer.SignedURL(ctx, artifact.FilePath, s.urlTTL)
	if err != nil {
		return "", err
	}
	return url, nil
}

func (s *activityService) MarkArtifactDownloaded(ctx context.Context, id domain.Identity, artifactID string) (*ArtifactResult, error) {
	artifact, err := s.accessibleArtifact(ctx, id, artifactID)
	if err != nil {
		return nil, err
	}
	if _, err := s.progress.MarkArtifactDownloaded(ctx, id.UserID, artifactID); err != nil {
		return nil, domain.NewInternalError("Failed to record artifact download", err)
	}

	breakdown, completion, err := s.refreshAndComplete(ctx, id.UserID, artifact.LevelID)
	if err != nil {
		return nil, err
	}
	return &ArtifactResult{Progress: *breakdown, Completion: completion}, nil
}

func (s *activityService) accessibleArtifact(ctx context.Context, id domain.Identity, artifactID string) (*domain.Artifact, error) {
	artifact, err := s.levels.GetArtifactByID(ctx, artifactID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load artifact", err)
	}
	if artifact == nil {
		return nil, domain.NewArtifactNotFoundError(artifactID)
	}
	if _, err := s.progressSv.EnsureAccessible(ctx, id.UserID, artifact.LevelID); err != nil {
		return nil, err
	}
	return artifact, nil
}

// refreshAndComplete stores the new percentages and tries to complete the level.
// A failed completion attempt is logged and does not fail the activity.
func (s *activityService) refreshAndComplete(ctx context.Context, userID, levelID string) (*domain.ProgressBreakdown, *domain.CompletionResult, error) {
	breakdown, err := s.progressSv.RefreshLevelProgress(ctx, userID, levelID)
	if err != nil {
		return nil, nil, err
	}
	completion, err := s.completion.CompleteLevelIfEligible(ctx, userID, levelID)
	if err != nil {
		logger.Get().Warn("Completion attempt failed",
			zap.String("userID", userID),
			zap.String("levelID", levelID),
			zap.Error(err))
		return breakdown, nil, nil
	}
	return breakdown, completion, nil
}
