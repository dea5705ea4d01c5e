package service

import (
	"context"
	"fmt"

	"bizlevel/internal/domain"
	"bizlevel/internal/util"
)

// ArtifactTracker measures downloaded artifacts. Only required artifacts gate completion.
type ArtifactTracker struct {
	levels   domain.LevelRepository
	progress domain.ProgressRepository
}

func NewArtifactTracker(levels domain.LevelRepository, progress domain.ProgressRepository) *ArtifactTracker {
	return &ArtifactTracker{levels: levels, progress: progress}
}

func (t *ArtifactTracker) CalculateProgress(ctx context.Context, userID, levelID string) (int, error) {
	r, err := t.Evaluate(ctx, userID, levelID)
	return r.Percentage, err
}

func (t *ArtifactTracker) IsRequirementMet(ctx context.Context, userID, levelID string) (bool, error) {
	r, err := t.Evaluate(ctx, userID, levelID)
	return r.Met, err
}

func (t *ArtifactTracker) Evaluate(ctx context.Context, userID, levelID string) (TrackerResult, error) {
	artifacts, err := t.levels.ListArtifactsByLevel(ctx, levelID)
	if err != nil {
		return TrackerResult{}, fmt.Errorf("failed to list artifacts: %w", err)
	}
	if len(artifacts) == 0 {
		return TrackerResult{Percentage: 0, Met: true}, nil
	}

	ids, err := t.progress.ListDownloadedArtifactIDs(ctx, userID, levelID)
	if err != nil {
		return TrackerResult{}, fmt.Errorf("failed to list downloads: %w", err)
	}
	downloaded := make(map[string]bool, len(ids))
	for _, id := range ids {
		downloaded[id] = true
	}

	count := 0
	met := true
	for _, a := range artifacts {
		if downloaded[a.ID] {
			count++
		} else if a.IsRequired {
			met = false
		}
	}
	return TrackerResult{Percentage: util.RoundPercent(count, len(artifacts)), Met: met}, nil
}
