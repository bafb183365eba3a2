package gabo

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdown_expires(t *testing.T) {
	var ticks, expires int32

	c := newCountdown(50*time.Millisecond, 10*time.Millisecond,
		func(remaining time.Duration) {
			atomic.AddInt32(&ticks, 1)
		},
		func() {
			atomic.AddInt32(&expires, 1)
		})

	time.Sleep(200 * time.Millisecond)

	assert.EqualValues(t, 1, atomic.LoadInt32(&expires))
	assert.True(t, atomic.LoadInt32(&ticks) >= 1)

	// cancel after expiry is a safe no-op
	c.Cancel()
}

func TestCountdown_cancel(t *testing.T) {
	var expires int32

	c := newCountdown(50*time.Millisecond, 10*time.Millisecond,
		func(remaining time.Duration) {},
		func() {
			atomic.AddInt32(&expires, 1)
		})

	c.Cancel()
	c.Cancel() // idempotent

	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt32(&expires))
}

func TestCountdown_remainingDecreases(t *testing.T) {
	done := make(chan time.Duration, 16)

	newCountdown(60*time.Millisecond, 20*time.Millisecond,
		func(remaining time.Duration) {
			done <- remaining
		},
		func() {
			close(done)
		})

	var last = 60 * time.Millisecond
	for remaining := range done {
		assert.True(t, remaining < last)
		last = remaining
	}
}
