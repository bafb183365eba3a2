package gabo

import (
	"time"

	"gabo-server/pkg/deck"
	"gabo-server/pkg/playable"
)

// PlacedCard pins a card to a hand slot
type PlacedCard struct {
	Card *deck.Card `json:"card"`
	Slot int        `json:"slot"`
}

// MatchResult describes the outcome of a match attempt
type MatchResult struct {
	Matched bool   `json:"matched"`
	OwnerID string `json:"ownerId"`
	Slot    int    `json:"slot"`

	// Punishment is the card appended to the flipper's hand on a failed match
	Punishment *PlacedCard `json:"punishment,omitempty"`

	// GiveTimeLeftMs is set when a give window opened for the flipper
	GiveTimeLeftMs int64 `json:"giveTimeLeftMs,omitempty"`
}

// GiveResult describes a consumed give reaction
type GiveResult struct {
	Given      bool   `json:"given"`
	OwnerID    string `json:"ownerId,omitempty"`
	SourceSlot int    `json:"sourceSlot,omitempty"`
	TargetSlot int    `json:"targetSlot,omitempty"`
}

// AttemptMatch compares the named card against the pile's top card. A match
// discards the card; matching someone else's card additionally opens a timed
// give window for the flipper. A miss draws a punishment card into the
// flipper's hand. Matching is open to every player regardless of whose turn
// it is.
func (g *Game) AttemptMatch(flipperID, ownerID string, slot int) (*MatchResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != statePlaying {
		return nil, ErrWrongState
	}

	flipper, ok := g.idToPlayer[flipperID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	owner, ok := g.idToPlayer[ownerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	card := owner.cardAt(slot)
	if card == nil {
		return nil, ErrCardNotFound
	}

	if top := g.topCard(); top != nil && top.Rank == card.Rank {
		owner.removeCard(slot)
		g.pile = append(g.pile, card)

		res := &MatchResult{Matched: true, OwnerID: ownerID, Slot: slot}
		if flipperID != ownerID {
			give := &giveReaction{ownerID: ownerID, slot: slot}
			flipper.pendingGives = append(flipper.pendingGives, give)
			g.startGiveCountdown(flipper, give)
			res.GiveTimeLeftMs = g.options.GiveTimeout.Milliseconds()

			g.sendLog(playable.SimpleLogMessage(flipperID, "{} matched one of %s's cards", owner.Name))
		} else {
			g.sendLog(playable.SimpleLogMessage(flipperID, "{} matched their own card"))
		}

		return res, nil
	}

	punishment, err := g.drawCard()
	if err != nil {
		return nil, err
	}

	punishmentSlot := flipper.nextFreeSlot(g.options.HandSize)
	flipper.placeCard(punishmentSlot, punishment)

	g.sendLog(playable.SimpleLogMessage(flipperID, "{} flipped the wrong card and drew a punishment card"))
	return &MatchResult{
		Matched:    false,
		OwnerID:    ownerID,
		Slot:       slot,
		Punishment: &PlacedCard{Card: punishment, Slot: punishmentSlot},
	}, nil
}

// ConsumeGive hands one of the flipper's own cards to the owner of the oldest
// pending give reaction, at the slot the matched card vacated, and cancels
// that reaction's countdown. With nothing pending the call is a no-op; this
// is what resolves a consume racing an expiry.
func (g *Game) ConsumeGive(flipperID string, sourceSlot int) (*GiveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	flipper, ok := g.idToPlayer[flipperID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	if len(flipper.pendingGives) == 0 {
		return &GiveResult{Given: false}, nil
	}

	give := flipper.pendingGives[0]

	card := flipper.cardAt(sourceSlot)
	if card == nil {
		return nil, ErrCardNotFound
	}

	flipper.pendingGives = flipper.pendingGives[1:]
	if give.countdown != nil {
		give.countdown.Cancel()
	}

	owner, ok := g.idToPlayer[give.ownerID]
	if !ok {
		// the owner left the game; the reaction simply evaporates
		return &GiveResult{Given: false}, nil
	}

	flipper.removeCard(sourceSlot)

	targetSlot := give.slot
	if owner.cardAt(targetSlot) != nil {
		// the vacated slot was refilled in the meantime (punishment card)
		targetSlot = owner.nextFreeSlot(g.options.HandSize)
	}
	owner.placeCard(targetSlot, card)

	g.pendingUpdate = true
	g.sendLog(playable.SimpleLogMessage(flipperID, "{} gave a card to %s", owner.Name))
	return &GiveResult{
		Given:      true,
		OwnerID:    owner.PlayerID,
		SourceSlot: sourceSlot,
		TargetSlot: targetSlot,
	}, nil
}

// startGiveCountdown arms the countdown for a queued give reaction. Tick and
// expiry callbacks re-enter the game lock, so they serialize against
// ConsumeGive: whichever takes the write first wins and the other becomes a
// no-op.
func (g *Game) startGiveCountdown(flipper *Player, give *giveReaction) {
	give.remaining = g.options.GiveTimeout.Milliseconds()
	give.countdown = newCountdown(g.options.GiveTimeout, g.options.GiveInterval,
		func(remaining time.Duration) {
			g.mu.Lock()
			defer g.mu.Unlock()

			give.remaining = remaining.Milliseconds()
			g.pendingUpdate = true
		},
		func() {
			g.mu.Lock()
			defer g.mu.Unlock()

			g.evictGive(flipper, give)
		})
}

// evictGive drops an expired reaction from the flipper's queue. If the
// reaction was already consumed this does nothing. Callers must hold the lock.
func (g *Game) evictGive(flipper *Player, give *giveReaction) {
	for i, pending := range flipper.pendingGives {
		if pending == give {
			flipper.pendingGives = append(flipper.pendingGives[:i], flipper.pendingGives[i+1:]...)
			g.pendingUpdate = true
			g.sendLog(playable.SimpleLogMessage(flipper.PlayerID, "{} ran out of time to give a card"))
			return
		}
	}
}
