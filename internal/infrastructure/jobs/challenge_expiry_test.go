package jobs

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"mindnamo-admin.backend/internal/domain/repositories"
	"mindnamo-admin.backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("production")
	os.Exit(m.Run())
}

// challengeExpiryRepoStub overrides the one method the sweep calls; the
// embedded interface panics on anything else, which a sweep must never
// touch.
type challengeExpiryRepoStub struct {
	repositories.UserRepository
	cleared  int64
	clearErr error
	calls    int
	lastNow  time.Time
}

func (s *challengeExpiryRepoStub) ClearExpiredChallenges(_ context.Context, now time.Time) (int64, error) {
	s.calls++
	s.lastNow = now
	if s.clearErr != nil {
		return 0, s.clearErr
	}
	return s.cleared, nil
}

func TestSweep_ClearsExpired(t *testing.T) {
	repo := &challengeExpiryRepoStub{cleared: 3}
	job := &ChallengeExpiryJob{users: repo, interval: time.Millisecond, stop: make(chan struct{})}

	before := time.Now()
	job.sweep(context.Background())
	require.Equal(t, 1, repo.calls)
	require.False(t, repo.lastNow.Before(before))
}

func TestSweep_RepositoryError(t *testing.T) {
	repo := &challengeExpiryRepoStub{clearErr: errors.New("db down")}
	job := &ChallengeExpiryJob{users: repo, interval: time.Millisecond, stop: make(chan struct{})}

	job.sweep(context.Background())
	require.Equal(t, 1, repo.calls)
}

func TestStartStop_StopsByContext(t *testing.T) {
	repo := &challengeExpiryRepoStub{}
	job := NewChallengeExpiryJob(repo, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not stop on context cancel")
	}
}

func TestStartStop_StopsByStopChannel(t *testing.T) {
	repo := &challengeExpiryRepoStub{}
	job := NewChallengeExpiryJob(repo, time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()
	job.Stop()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not stop on Stop()")
	}
}

func TestStart_TicksInvokeSweep(t *testing.T) {
	repo := &challengeExpiryRepoStub{cleared: 1}
	job := NewChallengeExpiryJob(repo, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	job.Stop()
	<-done

	require.GreaterOrEqual(t, repo.calls, 1)
}
