package gabo

import "time"

// hand size and player limits
const (
	minHandSize    = 1
	maxHandSize    = 8
	minPlayerLimit = 1
	maxPlayerLimit = 4
)

const numOfStartPeeks = 2

// Options provides options for a game of Gabo
type Options struct {
	// HandSize is how many cards each player is dealt at the start of a round
	HandSize int
	// PlayerLimit is the maximum number of seated players
	PlayerLimit int
	// GiveTimeout is how long a matched player may give a card to the card's owner
	GiveTimeout time.Duration
	// GiveInterval is how often the give countdown reports its remaining time
	GiveInterval time.Duration
}

// DefaultOptions returns the default set of options
func DefaultOptions() Options {
	return Options{
		HandSize:     4,
		PlayerLimit:  4,
		GiveTimeout:  time.Second * 5,
		GiveInterval: time.Millisecond * 200,
	}
}

// clamped returns the options forced into their legal ranges
func (o Options) clamped() Options {
	if o.HandSize < minHandSize {
		o.HandSize = minHandSize
	}
	if o.HandSize > maxHandSize {
		o.HandSize = maxHandSize
	}
	if o.PlayerLimit < minPlayerLimit {
		o.PlayerLimit = minPlayerLimit
	}
	if o.PlayerLimit > maxPlayerLimit {
		o.PlayerLimit = maxPlayerLimit
	}
	if o.GiveTimeout <= 0 {
		o.GiveTimeout = DefaultOptions().GiveTimeout
	}
	if o.GiveInterval <= 0 {
		o.GiveInterval = DefaultOptions().GiveInterval
	}

	return o
}
