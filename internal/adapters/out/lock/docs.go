// Package lock implements ports.StoreLock.
//
// LocalLock serializes operations inside one process with a weighted semaphore.
// RedisLock shares the lock between processes through a Redis key set with
// SET NX PX and released with a compare-and-delete script, so that a holder
// never frees a lock that expired and was taken over by someone else.
package lock
