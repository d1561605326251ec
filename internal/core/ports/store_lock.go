package ports

import (
	"context"
)

// StoreLock serializes every read-modify-write sequence against the store.
// It is a single lock for the whole store, not per courier.
//
// Acquire blocks until the lock is held or ctx is done. The returned release
// function frees the lock; it is safe to call more than once and is meant to
// be deferred right after a successful Acquire:
//
//	release, err := lock.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer release()
type StoreLock interface {
	Acquire(ctx context.Context) (release func(), err error)
}
