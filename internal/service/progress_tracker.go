package service

import (
	"context"

	"bizlevel/internal/domain"
)

// TrackerResult is the evaluation of one progress domain.
type TrackerResult struct {
	Percentage int
	Met        bool
}

// ProgressTracker measures one kind of activity for a user on a level.
// Trackers depend only on repositories.
type ProgressTracker interface {
	CalculateProgress(ctx context.Context, userID, levelID string) (int, error)
	IsRequirementMet(ctx context.Context, userID, levelID string) (bool, error)
	// Evaluate computes both values from a single read.
	Evaluate(ctx context.Context, userID, levelID string) (TrackerResult, error)
}

// Trackers groups the three trackers a level is measured by.
type Trackers struct {
	Video    ProgressTracker
	Quiz     ProgressTracker
	Artifact ProgressTracker
}

// NewTrackers builds the standard trackers over the repositories.
func NewTrackers(levels domain.LevelRepository, progress domain.ProgressRepository) Trackers {
	return Trackers{
		Video:    NewVideoTracker(levels, progress),
		Quiz:     NewQuizTracker(levels, progress),
		Artifact: NewArtifactTracker(levels, progress),
	}
}
