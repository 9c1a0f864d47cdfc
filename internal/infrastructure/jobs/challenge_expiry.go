package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"mindnamo-admin.backend/internal/domain/repositories"
	"mindnamo-admin.backend/pkg/logger"
)

// ChallengeExpiryJob periodically clears verification codes past their
// expiry so account setup state never reports a dead challenge as live.
type ChallengeExpiryJob struct {
	users    repositories.UserRepository
	interval time.Duration
	stop     chan struct{}
}

func NewChallengeExpiryJob(users repositories.UserRepository, interval time.Duration) *ChallengeExpiryJob {
	return &ChallengeExpiryJob{
		users:    users,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *ChallengeExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting challenge expiry job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Challenge expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Challenge expiry job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *ChallengeExpiryJob) Stop() {
	close(j.stop)
}

func (j *ChallengeExpiryJob) sweep(ctx context.Context) {
	cleared, err := j.users.ClearExpiredChallenges(ctx, time.Now())
	if err != nil {
		logger.Error(ctx, "Error clearing expired challenges", zap.Error(err))
		return
	}
	if cleared > 0 {
		logger.Info(ctx, "Cleared expired verification challenges", zap.Int64("count", cleared))
	}
}
