package service

import (
	"context"
	"errors"
	"testing"

	"bizlevel/internal/domain"
	"bizlevel/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type completionFixture struct {
	levels    *MockLevelRepository
	progress  *MockProgressRepository
	txManager *MockTransactionManager
	publisher *MockProgressPublisher
	service   CompletionService
}

func newCompletionFixture() *completionFixture {
	f := &completionFixture{
		levels:    new(MockLevelRepository),
		progress:  new(MockProgressRepository),
		txManager: new(MockTransactionManager),
		publisher: new(MockProgressPublisher),
	}
	f.service = NewCompletionService(f.levels, f.progress, NewTrackers(f.levels, f.progress), f.txManager, f.publisher)
	f.txManager.On("WithTransaction", mock.Anything)
	f.publisher.On("PublishProgress", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

// satisfied makes every requirement of levelID met for u1.
func (f *completionFixture) satisfied(levelID string) {
	f.levels.On("ListVideosByLevel", mock.Anything, levelID).
		Return([]domain.Video{{ID: "v1", LevelID: levelID, DurationSeconds: intPtr(100)}}, nil)
	f.progress.On("ListVideoProgressByLevel", mock.Anything, "u1", levelID).
		Return([]domain.VideoProgress{{VideoID: "v1", WatchedSeconds: 95}}, nil)
	f.levels.On("CountQuestionsByLevel", mock.Anything, levelID).Return(4, nil)
	f.progress.On("GetProgress", mock.Anything, "u1", levelID).
		Return(&domain.UserProgress{UserID: "u1", LevelID: levelID, Status: domain.ProgressInProgress, QuizScore: intPtr(75)}, nil)
	f.levels.On("ListArtifactsByLevel", mock.Anything, levelID).Return([]domain.Artifact{}, nil)
}

func TestCompleteLevelIfEligible_UnlocksNextLevel(t *testing.T) {
	f := newCompletionFixture()
	level1 := &domain.Level{ID: "l1", OrderIndex: 1, Status: domain.LevelStatusPublished}
	level2 := &domain.Level{ID: "l2", Title: "Cash flow", OrderIndex: 2, Status: domain.LevelStatusPublished}

	f.levels.On("GetLevelByID", mock.Anything, "l1").Return(level1, nil)
	f.satisfied("l1")
	f.progress.On("MarkLevelCompleted", mock.Anything, "u1", "l1").Return(true, nil).Once()
	f.levels.On("GetNextPublishedLevel", mock.Anything, 1).Return(level2, nil)
	f.progress.On("CreateProgressIfAbsent", mock.Anything, "u1", "l2").Return(true, nil).Once()

	result, err := f.service.CompleteLevelIfEligible(context.Background(), "u1", "l1")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.ProgressCompleted, result.Status)
	assert.True(t, result.Conditions.AllMet())
	require.NotNil(t, result.NextLevel)
	assert.Equal(t, "l2", result.NextLevel.ID)
	assert.Equal(t, "Cash flow", result.NextLevel.Title)
	f.txManager.AssertNumberOfCalls(t, "WithTransaction", 1)
	f.progress.AssertExpectations(t)
}

func TestCompleteLevelIfEligible_Idempotent(t *testing.T) {
	f := newCompletionFixture()
	level1 := &domain.Level{ID: "l1", OrderIndex: 1, Status: domain.LevelStatusPublished}
	level2 := &domain.Level{ID: "l2", Title: "Cash flow", OrderIndex: 2, Status: domain.LevelStatusPublished}

	f.levels.On("GetLevelByID", mock.Anything, "l1").Return(level1, nil)
	f.satisfied("l1")
	f.progress.On("MarkLevelCompleted", mock.Anything, "u1", "l1").Return(true, nil).Once()
	f.progress.On("MarkLevelCompleted", mock.Anything, "u1", "l1").Return(false, nil)
	f.levels.On("GetNextPublishedLevel", mock.Anything, 1).Return(level2, nil)
	f.progress.On("CreateProgressIfAbsent", mock.Anything, "u1", "l2").Return(true, nil).Once()
	f.progress.On("CreateProgressIfAbsent", mock.Anything, "u1", "l2").Return(false, nil).Once()

	first, err := f.service.CompleteLevelIfEligible(context.Background(), "u1", "l1")
	require.NoError(t, err)
	second, err := f.service.CompleteLevelIfEligible(context.Background(), "u1", "l1")
	require.NoError(t, err)

	assert.True(t, first.Success)
	assert.NotNil(t, first.NextLevel)
	assert.True(t, second.Success)
	assert.Equal(t, domain.ProgressCompleted, second.Status)
	assert.Nil(t, second.NextLevel, "no second unlock row is created")
}

func TestCompleteLevelIfEligible_CountsOnlyTheTransition(t *testing.T) {
	f := newCompletionFixture()
	level1 := &domain.Level{ID: "l1", OrderIndex: 1, Status: domain.LevelStatusPublished}
	level2 := &domain.Level{ID: "l2", Title: "Cash flow", OrderIndex: 2, Status: domain.LevelStatusPublished}

	f.levels.On("GetLevelByID", mock.Anything, "l1").Return(level1, nil)
	f.satisfied("l1")
	f.progress.On("MarkLevelCompleted", mock.Anything, "u1", "l1").Return(true, nil).Once()
	f.progress.On("MarkLevelCompleted", mock.Anything, "u1", "l1").Return(false, nil)
	f.levels.On("GetNextPublishedLevel", mock.Anything, 1).Return(level2, nil)
	f.progress.On("CreateProgressIfAbsent", mock.Anything, "u1", "l2").Return(true, nil).Once()
	f.progress.On("CreateProgressIfAbsent", mock.Anything, "u1", "l2").Return(false, nil)

	before := testutil.ToFloat64(metrics.LevelCompletionsTotal)
	for i := 0; i < 5; i++ {
		result, err := f.service.CompleteLevelIfEligible(context.Background(), "u1", "l1")
		require.NoError(t, err)
		assert.True(t, result.Success)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LevelCompletionsTotal)-before)
	// one completed event for l1 and one unlock event for l2
	f.publisher.AssertNumberOfCalls(t, "PublishProgress", 2)
}

func TestCompleteLevelIfEligible_QuizBelowPassing(t *testing.T) {
	f := newCompletionFixture()
	level2 := &domain.Level{ID: "l2", OrderIndex: 2, Status: domain.LevelStatusPublished}

	f.levels.On("GetLevelByID", mock.Anything, "l2").Return(level2, nil)
	f.levels.On("ListVideosByLevel", mock.Anything, "l2").Return([]domain.Video{}, nil)
	f.levels.On("CountQuestionsByLevel", mock.Anything, "l2").Return(5, nil)
	f.progress.On("GetProgress", mock.Anything, "u1", "l2").
		Return(&domain.UserProgress{Status: domain.ProgressInProgress, QuizScore: intPtr(65)}, nil)
	f.levels.On("ListArtifactsByLevel", mock.Anything, "l2").Return([]domain.Artifact{}, nil)

	result, err := f.service.CompleteLevelIfEligible(context.Background(), "u1", "l2")

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, domain.ProgressInProgress, result.Status)
	assert.True(t, result.Conditions.VideosCompleted)
	assert.False(t, result.Conditions.QuizPassed)
	assert.True(t, result.Conditions.ArtifactsDownloaded)
	assert.Equal(t, []string{"quiz"}, result.Unmet)
	f.txManager.AssertNotCalled(t, "WithTransaction", mock.Anything)
	f.progress.AssertNotCalled(t, "MarkLevelCompleted", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteLevelIfEligible_LastLevel(t *testing.T) {
	f := newCompletionFixture()
	last := &domain.Level{ID: "l9", OrderIndex: 9, Status: domain.LevelStatusPublished}

	f.levels.On("GetLevelByID", mock.Anything, "l9").Return(last, nil)
	f.satisfied("l9")
	f.progress.On("MarkLevelCompleted", mock.Anything, "u1", "l9").Return(true, nil)
	f.levels.On("GetNextPublishedLevel", mock.Anything, 9).Return(nil, nil)

	result, err := f.service.CompleteLevelIfEligible(context.Background(), "u1", "l9")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.NextLevel)
	f.progress.AssertNotCalled(t, "CreateProgressIfAbsent", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteLevelIfEligible_LevelNotFound(t *testing.T) {
	f := newCompletionFixture()
	f.levels.On("GetLevelByID", mock.Anything, "missing").Return(nil, nil)

	_, err := f.service.CompleteLevelIfEligible(context.Background(), "u1", "missing")

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeLevelNotFound, domainErr.Code)
}

func TestCompleteLevelIfEligible_TransactionFailure(t *testing.T) {
	f := newCompletionFixture()
	level1 := &domain.Level{ID: "l1", OrderIndex: 1, Status: domain.LevelStatusPublished}

	f.levels.On("GetLevelByID", mock.Anything, "l1").Return(level1, nil)
	f.satisfied("l1")
	f.progress.On("MarkLevelCompleted", mock.Anything, "u1", "l1").Return(false, errors.New("deadlock"))

	result, err := f.service.CompleteLevelIfEligible(context.Background(), "u1", "l1")

	assert.Nil(t, result)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeInternal, domainErr.Code)
	f.publisher.AssertNotCalled(t, "PublishProgress", mock.Anything, mock.Anything)
}
