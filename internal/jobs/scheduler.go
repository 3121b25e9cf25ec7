package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// OverdueSweeper flips pending payments past their due date to overdue
type OverdueSweeper interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// SubscriptionExpirer moves lapsed subscriptions to expired
type SubscriptionExpirer interface {
	ExpireLapsed(ctx context.Context) (int64, error)
}

// ExpiredCleaner drops rows past their expiry. Token and invite
// repositories both satisfy it.
type ExpiredCleaner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic maintenance jobs: the payment overdue
// sweep, subscription expiry, and cleanup of expired refresh tokens and
// invite codes.
type Scheduler struct {
	cron     *cron.Cron
	payments OverdueSweeper
	subs     SubscriptionExpirer
	tokens   ExpiredCleaner
	invites  ExpiredCleaner
	logger   zerolog.Logger
}

// NewScheduler creates a new Scheduler
func NewScheduler(
	payments OverdueSweeper,
	subs SubscriptionExpirer,
	tokens ExpiredCleaner,
	invites ExpiredCleaner,
	logger zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		payments: payments,
		subs:     subs,
		tokens:   tokens,
		invites:  invites,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop. sweepSchedule is a
// standard five-field cron expression for the payment and subscription
// sweep; token and invite cleanup runs nightly.
func (s *Scheduler) Start(sweepSchedule string) error {
	if _, err := s.cron.AddFunc(sweepSchedule, s.runSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("30 3 * * *", s.runCleanup); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Str("sweepSchedule", sweepSchedule).Msg("Background jobs scheduled")
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Background jobs stopped")
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.payments.MarkOverdue(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Payment overdue sweep failed")
	}
	if _, err := s.subs.ExpireLapsed(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Subscription expiry sweep failed")
	}
}

func (s *Scheduler) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if count, err := s.tokens.DeleteExpired(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Expired token cleanup failed")
	} else if count > 0 {
		s.logger.Info().Int64("count", count).Msg("Expired refresh tokens removed")
	}

	if count, err := s.invites.DeleteExpired(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Expired invite cleanup failed")
	} else if count > 0 {
		s.logger.Info().Int64("count", count).Msg("Expired invites removed")
	}
}
