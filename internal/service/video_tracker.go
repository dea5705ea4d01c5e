package service

import (
	"context"
	"fmt"

	"bizlevel/internal/domain"
	"bizlevel/internal/util"
)

// VideoTracker measures watched videos. A level without videos meets the requirement.
type VideoTracker struct {
	levels   domain.LevelRepository
	progress domain.ProgressRepository
}

func NewVideoTracker(levels domain.LevelRepository, progress domain.ProgressRepository) *VideoTracker {
	return &VideoTracker{levels: levels, progress: progress}
}

func (t *VideoTracker) CalculateProgress(ctx context.Context, userID, levelID string) (int, error) {
	r, err := t.Evaluate(ctx, userID, levelID)
	return r.Percentage, err
}

func (t *VideoTracker) IsRequirementMet(ctx context.Context, userID, levelID string) (bool, error) {
	r, err := t.Evaluate(ctx, userID, levelID)
	return r.Met, err
}

func (t *VideoTracker) Evaluate(ctx context.Context, userID, levelID string) (TrackerResult, error) {
	videos, err := t.levels.ListVideosByLevel(ctx, levelID)
	if err != nil {
		return TrackerResult{}, fmt.Errorf("failed to list videos: %w", err)
	}
	if len(videos) == 0 {
		return TrackerResult{Percentage: 0, Met: true}, nil
	}

	records, err := t.progress.ListVideoProgressByLevel(ctx, userID, levelID)
	if err != nil {
		return TrackerResult{}, fmt.Errorf("failed to list video progress: %w", err)
	}
	byVideo := make(map[string]*domain.VideoProgress, len(records))
	for i := range records {
		byVideo[records[i].VideoID] = &records[i]
	}

	completed := 0
	for _, v := range videos {
		if domain.IsVideoWatched(v, byVideo[v.ID]) {
			completed++
		}
	}
	return TrackerResult{
		Percentage: util.RoundPercent(completed, len(videos)),
		Met:        completed == len(videos),
	}, nil
}
