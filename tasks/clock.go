package tasks

import (
	"sync/atomic"
	"time"
)

var lastCreatedAt int64

// nextCreatedAt returns the current time in epoch milliseconds, strictly
// increasing across calls so tasks created within the same millisecond keep a
// stable order.
func nextCreatedAt() int64 {
	for {
		now := time.Now().UnixMilli()
		last := atomic.LoadInt64(&lastCreatedAt)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastCreatedAt, last, now) {
			return now
		}
	}
}
