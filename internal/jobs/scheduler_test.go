package jobs_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bygglink/quote-api/internal/jobs"
)

func TestScheduler_AddJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	err := s.AddJob("test_job", "@every 1h", func() {})
	require.NoError(t, err)
	assert.Contains(t, s.GetJobNames(), "test_job")
}

func TestScheduler_AddJob_DuplicateName(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("test_job", "@every 1h", func() {}))
	err := s.AddJob("test_job", "@every 2h", func() {})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestScheduler_AddJob_InvalidCronExpression(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	err := s.AddJob("broken_job", "not a cron expression", func() {})
	assert.Error(t, err)
	assert.Empty(t, s.GetJobNames())
}

func TestScheduler_RemoveJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("test_job", "@every 1h", func() {}))
	require.NoError(t, s.RemoveJob("test_job"))
	assert.Empty(t, s.GetJobNames())

	err := s.RemoveJob("test_job")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestScheduler_JobRuns(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("fast_job", "@every 100ms", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	s.Start()
	defer func() {
		ctx := s.Stop()
		<-ctx.Done()
	}()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run within 2 seconds")
	}
}

type stubExpiryService struct {
	mu      sync.Mutex
	calls   int
	expired int
	err     error
}

func (s *stubExpiryService) ExpireOverdue(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.expired, s.err
}

func (s *stubExpiryService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestExpiryJob_Run(t *testing.T) {
	t.Run("invokes the service", func(t *testing.T) {
		svc := &stubExpiryService{expired: 3}
		job := jobs.NewExpiryJob(svc, zap.NewNop(), time.Minute)

		job.Run()
		assert.Equal(t, 1, svc.callCount())
	})

	t.Run("service error does not panic", func(t *testing.T) {
		svc := &stubExpiryService{err: errors.New("database unavailable")}
		job := jobs.NewExpiryJob(svc, zap.NewNop(), time.Minute)

		assert.NotPanics(t, job.Run)
		assert.Equal(t, 1, svc.callCount())
	})
}

func TestRegisterExpiryJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	svc := &stubExpiryService{}

	err := jobs.RegisterExpiryJob(s, svc, zap.NewNop(), "0 5 0 * * *", time.Minute, false)
	require.NoError(t, err)
	assert.Contains(t, s.GetJobNames(), jobs.ExpiryJobName)
}

type stubProductSyncService struct {
	mu     sync.Mutex
	calls  int
	synced int
	err    error
}

func (s *stubProductSyncService) SyncPrices(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.synced, s.err
}

func TestPriceSyncJob_Run(t *testing.T) {
	svc := &stubProductSyncService{synced: 42}
	job := jobs.NewPriceSyncJob(svc, zap.NewNop(), time.Minute)

	job.Run()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, 1, svc.calls)
}

func TestRegisterPriceSyncJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	svc := &stubProductSyncService{}

	err := jobs.RegisterPriceSyncJob(s, svc, zap.NewNop(), "0 30 5 * * *", time.Minute, false)
	require.NoError(t, err)
	assert.Contains(t, s.GetJobNames(), jobs.PriceSyncJobName)
}
