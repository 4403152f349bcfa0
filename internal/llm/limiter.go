package llm

import (
	"sync"
	"time"
)

// Limiter enforces a minimum gap between consecutive calls. The clock
// and sleep functions are injectable so tests run instantly.
type Limiter struct {
	mu    sync.Mutex
	min   time.Duration
	last  time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

func NewLimiter(min time.Duration) *Limiter {
	return &Limiter{
		min:   min,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Wait blocks until at least the configured interval has passed since
// the previous call returned from Wait.
func (l *Limiter) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.min <= 0 {
		l.last = l.now()
		return
	}
	if !l.last.IsZero() {
		if wait := l.min - l.now().Sub(l.last); wait > 0 {
			l.sleep(wait)
		}
	}
	l.last = l.now()
}
