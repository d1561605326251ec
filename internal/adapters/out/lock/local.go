package lock

import (
	"context"
	"sync"
	"time"

	"sweetdelivery/internal/pkg/metrics"

	"golang.org/x/sync/semaphore"
)

const BackendLocal = "local"

// LocalLock is an in-process store lock.
type LocalLock struct {
	sem     *semaphore.Weighted
	metrics *metrics.DispatchMetrics
}

func NewLocalLock(m *metrics.DispatchMetrics) *LocalLock {
	return &LocalLock{
		sem:     semaphore.NewWeighted(1),
		metrics: m,
	}
}

// Acquire blocks until the lock is free or ctx is done.
func (l *LocalLock) Acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	l.metrics.ObserveLockWait(BackendLocal, time.Since(start))

	var once sync.Once
	return func() {
		once.Do(func() { l.sem.Release(1) })
	}, nil
}
