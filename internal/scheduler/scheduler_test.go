package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizlevel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBillingRepository struct {
	mock.Mock
	domain.BillingRepository
}

func (m *mockBillingRepository) ExpireLapsedSubscriptions(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func TestSubscriptionSweeper_Sweep(t *testing.T) {
	repo := new(mockBillingRepository)
	now := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	sweeper := NewSubscriptionSweeper(repo, 72*time.Hour)
	sweeper.now = func() time.Time { return now }

	repo.On("ExpireLapsedSubscriptions", mock.Anything, now.Add(-72*time.Hour)).Return(int64(2), nil).Once()

	n, err := sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	repo.AssertExpectations(t)
}

func TestSubscriptionSweeper_Error(t *testing.T) {
	repo := new(mockBillingRepository)
	sweeper := NewSubscriptionSweeper(repo, time.Hour)

	repo.On("ExpireLapsedSubscriptions", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	_, err := sweeper.Sweep(context.Background())

	assert.ErrorContains(t, err, "db down")
}

func TestScheduler_AddSweeper(t *testing.T) {
	s := New()
	sweeper := NewSubscriptionSweeper(new(mockBillingRepository), time.Hour)

	assert.NoError(t, s.AddSweeper("0 3 * * *", sweeper, time.Minute))
	assert.Error(t, s.AddSweeper("not a cron spec", sweeper, time.Minute))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
