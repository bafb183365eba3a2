package gabo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions_clamped(t *testing.T) {
	opts := Options{}.clamped()
	assert.Equal(t, minHandSize, opts.HandSize)
	assert.Equal(t, minPlayerLimit, opts.PlayerLimit)
	assert.Equal(t, 5*time.Second, opts.GiveTimeout)
	assert.Equal(t, 200*time.Millisecond, opts.GiveInterval)

	opts = Options{HandSize: 100, PlayerLimit: 100}.clamped()
	assert.Equal(t, maxHandSize, opts.HandSize)
	assert.Equal(t, maxPlayerLimit, opts.PlayerLimit)

	opts = DefaultOptions().clamped()
	assert.Equal(t, DefaultOptions(), opts)
}
