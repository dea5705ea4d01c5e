package scheduler

import (
	"context"
	"fmt"
	"time"

	"bizlevel/internal/domain"
	"bizlevel/internal/logger"
	"bizlevel/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SubscriptionSweeper expires subscriptions whose period ended longer ago than the grace period.
// Unlocked levels are left untouched.
type SubscriptionSweeper struct {
	billing domain.BillingRepository
	grace   time.Duration
	now     func() time.Time
}

func NewSubscriptionSweeper(billing domain.BillingRepository, grace time.Duration) *SubscriptionSweeper {
	return &SubscriptionSweeper{billing: billing, grace: grace, now: time.Now}
}

// Sweep runs one pass and returns the number of expired subscriptions.
func (s *SubscriptionSweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.grace)
	n, err := s.billing.ExpireLapsedSubscriptions(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire lapsed subscriptions: %w", err)
	}
	if n > 0 {
		metrics.SubscriptionsExpiredTotal.Add(float64(n))
		logger.Get().Info("Expired lapsed subscriptions", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return n, nil
}

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// AddSweeper registers the sweeper on a standard five field cron spec.
func (s *Scheduler) AddSweeper(spec string, sweeper *SubscriptionSweeper, timeout time.Duration) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := sweeper.Sweep(ctx); err != nil {
			logger.Get().Error("Subscription sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Get().Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
