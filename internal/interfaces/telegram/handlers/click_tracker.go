package handlers

import (
	"fmt"
	"sync"
	"time"
)

const (
	clickWindow   = time.Second
	clickRetain   = 5 * time.Minute
	cleanupPeriod = 30 * time.Second
)

// clickTracker tracks recent clicks to prevent rapid duplicates
type clickTracker struct {
	mu          sync.Mutex
	now         func() time.Time
	lastClicks  map[string]time.Time
	lastCleanup time.Time
}

// newClickTracker creates a new click tracker
func newClickTracker(now func() time.Time) *clickTracker {
	if now == nil {
		now = time.Now
	}
	return &clickTracker{
		now:         now,
		lastClicks:  make(map[string]time.Time),
		lastCleanup: now(),
	}
}

// seen records the click and reports whether the same user pressed the same
// button within the last second
func (ct *clickTracker) seen(telegramID int64, data string) bool {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	now := ct.now()
	if now.Sub(ct.lastCleanup) >= cleanupPeriod {
		ct.cleanup(now)
	}

	key := fmt.Sprintf("%d_%s", telegramID, data)
	last, exists := ct.lastClicks[key]
	ct.lastClicks[key] = now

	return exists && now.Sub(last) < clickWindow
}

// cleanup removes old click records. Callers hold mu.
func (ct *clickTracker) cleanup(now time.Time) {
	cutoff := now.Add(-clickRetain)
	for key, timestamp := range ct.lastClicks {
		if timestamp.Before(cutoff) {
			delete(ct.lastClicks, key)
		}
	}
	ct.lastCleanup = now
}

func (ct *clickTracker) size() int {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return len(ct.lastClicks)
}
