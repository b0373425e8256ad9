package cache

import (
	"errors"
	"fmt"
	"time"

	roboterr "sjsage522/invoicerobot/pkg/errors"
)

// RunLockKey is the cache key guarding a single robot run
const RunLockKey = "invoicerobot:run-lock"

// RunLock keeps two robot runs from working on the same site at once
type RunLock struct {
	cache CacheService
	key   string
	ttl   time.Duration
	owner string
}

// NewRunLock creates a lock owned by owner
func NewRunLock(cache CacheService, owner string, ttl time.Duration) *RunLock {
	return &RunLock{cache: cache, key: RunLockKey, ttl: ttl, owner: owner}
}

// Acquire takes the lock or fails with a lock error naming the current holder
func (l *RunLock) Acquire() error {
	err := l.cache.Add(l.key, []byte(l.owner), l.ttl)
	if errors.Is(err, ErrKeyExists) {
		holder, _ := l.cache.Get(l.key)
		return roboterr.NewLock(l.key, fmt.Sprintf("run already in progress (%s)", holder), err)
	}
	if err != nil {
		return roboterr.NewLock(l.key, "failed to acquire run lock", err)
	}
	return nil
}

// Release drops the lock if this owner still holds it
func (l *RunLock) Release() error {
	holder, err := l.cache.Get(l.key)
	if errors.Is(err, ErrCacheMiss) {
		return nil
	}
	if err != nil {
		return err
	}
	if string(holder) != l.owner {
		return nil
	}
	return l.cache.Delete(l.key)
}
