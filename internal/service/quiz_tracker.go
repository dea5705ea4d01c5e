package service

import (
	"context"
	"fmt"

	"bizlevel/internal/domain"
)

// QuizTracker reports the best stored quiz score. A level without
// questions meets the requirement with 0%.
type QuizTracker struct {
	levels   domain.LevelRepository
	progress domain.ProgressRepository
}

func NewQuizTracker(levels domain.LevelRepository, progress domain.ProgressRepository) *QuizTracker {
	return &QuizTracker{levels: levels, progress: progress}
}

func (t *QuizTracker) CalculateProgress(ctx context.Context, userID, levelID string) (int, error) {
	r, err := t.Evaluate(ctx, userID, levelID)
	return r.Percentage, err
}

func (t *QuizTracker) IsRequirementMet(ctx context.Context, userID, levelID string) (bool, error) {
	r, err := t.Evaluate(ctx, userID, levelID)
	return r.Met, err
}

func (t *QuizTracker) Evaluate(ctx context.Context, userID, levelID string) (TrackerResult, error) {
	row, err := t.progress.GetProgress(ctx, userID, levelID)
	if err != nil {
		return TrackerResult{}, fmt.Errorf("failed to get progress: %w", err)
	}
	score := 0
	if row != nil && row.QuizScore != nil {
		score = *row.QuizScore
	}

	count, err := t.levels.CountQuestionsByLevel(ctx, levelID)
	if err != nil {
		return TrackerResult{}, fmt.Errorf("failed to count questions: %w", err)
	}
	if count == 0 {
		return TrackerResult{Percentage: 0, Met: true}, nil
	}
	return TrackerResult{Percentage: score, Met: score >= domain.QuizPassingScore}, nil
}
