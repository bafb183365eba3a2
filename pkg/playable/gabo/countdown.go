package gabo

import (
	"sync"
	"time"
)

// countdown is a cancellable scheduled task. It reports the remaining time on
// every interval and fires onExpire once when the total duration has elapsed.
// Cancel and expiry are symmetric: whichever happens first wins, the other is
// a no-op. Callbacks run on the countdown's own goroutine; callers are
// responsible for their own locking.
type countdown struct {
	total    time.Duration
	interval time.Duration
	onTick   func(remaining time.Duration)
	onExpire func()

	stop chan struct{}
	once sync.Once
}

func newCountdown(total, interval time.Duration, onTick func(remaining time.Duration), onExpire func()) *countdown {
	c := &countdown{
		total:    total,
		interval: interval,
		onTick:   onTick,
		onExpire: onExpire,
		stop:     make(chan struct{}),
	}

	go c.run()
	return c
}

func (c *countdown) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	remaining := c.total
	for {
		select {
		case <-ticker.C:
			remaining -= c.interval
			if remaining <= 0 {
				c.onExpire()
				return
			}

			c.onTick(remaining)
		case <-c.stop:
			return
		}
	}
}

// Cancel stops the countdown. Safe to call more than once, and safe to call
// after expiry.
func (c *countdown) Cancel() {
	c.once.Do(func() {
		close(c.stop)
	})
}
