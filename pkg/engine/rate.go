package engine

import (
	"sync"
	"time"
)

// rateWindow admits at most limit events per one-second window. The window
// is fixed, not sliding: it restarts on the first event after it expires.
type rateWindow struct {
	mu    sync.Mutex
	limit int64
	start time.Time
	count int64
}

func (w *rateWindow) allow(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if now.Sub(w.start) >= time.Second {
		w.start = now
		w.count = 0
	}
	if w.count >= w.limit {
		return false
	}
	w.count++
	return true
}
