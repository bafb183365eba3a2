package gabo

import (
	"gabo-server/pkg/deck"
	"gabo-server/pkg/playable"
)

// Ability is a special action unlocked by the rank of a card discarded
// directly from the deck
type Ability string

// ability constants
const (
	AbilityNone         Ability = ""
	AbilityLookSelf     Ability = "look-self"
	AbilityLookOther    Ability = "look-other"
	AbilitySwapThenLook Ability = "swap-then-look"
	AbilityLookThenSwap Ability = "look-then-swap"
)

// abilityForRank maps the rank of a bare discard to the ability it unlocks.
// Swapped-out hand cards never pass through here.
func abilityForRank(rank int) Ability {
	switch rank {
	case 7, 8:
		return AbilityLookSelf
	case 9, 10:
		return AbilityLookOther
	case deck.Jack, deck.Queen:
		return AbilitySwapThenLook
	case deck.King:
		return AbilityLookThenSwap
	}

	return AbilityNone
}

// ResolveLookSelf reveals one of the active player's own cards to them and
// ends the turn
func (g *Game) ResolveLookSelf(playerID string, slot int) (*deck.Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireAbility(playerID, AbilityLookSelf); err != nil {
		return nil, err
	}

	card := g.idToPlayer[playerID].cardAt(slot)
	if card == nil {
		return nil, ErrCardNotFound
	}

	g.sendLog(playable.SimpleLogMessage(playerID, "{} peeked at one of their own cards"))
	g.endTurn()
	return card, nil
}

// ResolveLookOther reveals another player's card to the active player and ends
// the turn. Looking at your own card is rejected.
func (g *Game) ResolveLookOther(playerID, ownerID string, slot int) (*deck.Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireAbility(playerID, AbilityLookOther); err != nil {
		return nil, err
	}

	if ownerID == playerID {
		return nil, ErrInvalidTarget
	}

	owner, ok := g.idToPlayer[ownerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	card := owner.cardAt(slot)
	if card == nil {
		return nil, ErrCardNotFound
	}

	g.sendLog(playable.SimpleLogMessage(playerID, "{} peeked at one of %s's cards", owner.Name))
	g.endTurn()
	return card, nil
}

// ResolveSwapThenLook blindly exchanges one of the active player's cards with
// another player's card, shows the active player the card they received, and
// ends the turn
func (g *Game) ResolveSwapThenLook(playerID string, ownSlot int, ownerID string, theirSlot int) (*deck.Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireAbility(playerID, AbilitySwapThenLook); err != nil {
		return nil, err
	}

	received, err := g.swapWithOther(playerID, ownSlot, ownerID, theirSlot)
	if err != nil {
		return nil, err
	}

	g.sendLog(playable.SimpleLogMessage(playerID, "{} swapped a card with %s and looked at it", g.idToPlayer[ownerID].Name))
	g.endTurn()
	return received, nil
}

// RevealForLookThenSwap reveals the target player's card to the active player
// without moving anything. Allowed exactly once per ability instance; the
// follow-up swap is rejected until this has happened.
func (g *Game) RevealForLookThenSwap(playerID, ownerID string, slot int) (*deck.Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireAbility(playerID, AbilityLookThenSwap); err != nil {
		return nil, err
	}

	if g.hasRevealedForSwap {
		return nil, ErrWrongState
	}

	if ownerID == playerID {
		return nil, ErrInvalidTarget
	}

	owner, ok := g.idToPlayer[ownerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	card := owner.cardAt(slot)
	if card == nil {
		return nil, ErrCardNotFound
	}

	g.hasRevealedForSwap = true
	g.sendLog(playable.SimpleLogMessage(playerID, "{} looked at one of %s's cards", owner.Name))
	return card, nil
}

// ResolveLookThenSwap performs the swap after the reveal step. The card is not
// shown again, and the turn ends.
func (g *Game) ResolveLookThenSwap(playerID string, ownSlot int, ownerID string, theirSlot int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireAbility(playerID, AbilityLookThenSwap); err != nil {
		return err
	}

	if !g.hasRevealedForSwap {
		return ErrWrongState
	}

	if _, err := g.swapWithOther(playerID, ownSlot, ownerID, theirSlot); err != nil {
		return err
	}

	g.sendLog(playable.SimpleLogMessage(playerID, "{} swapped a card with %s", g.idToPlayer[ownerID].Name))
	g.endTurn()
	return nil
}

// CancelAbility abandons the pending ability and ends the turn
func (g *Game) CancelAbility(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != statePlaying || g.activeAbility == AbilityNone {
		return ErrWrongState
	}

	if g.activePlayerID != playerID {
		return ErrNotYourTurn
	}

	g.sendLog(playable.SimpleLogMessage(playerID, "{} passed on their ability"))
	g.endTurn()
	return nil
}

// requireAbility verifies it's the player's turn and the named ability is active
func (g *Game) requireAbility(playerID string, ability Ability) error {
	if g.state != statePlaying || g.activeAbility != ability {
		return ErrWrongState
	}

	if g.activePlayerID != playerID {
		return ErrNotYourTurn
	}

	return nil
}

// swapWithOther cross-assigns the active player's card and another player's
// card so each lands at the slot vacated by the other. Returns the card the
// active player received.
func (g *Game) swapWithOther(playerID string, ownSlot int, ownerID string, theirSlot int) (*deck.Card, error) {
	if ownerID == playerID {
		return nil, ErrInvalidTarget
	}

	owner, ok := g.idToPlayer[ownerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	self := g.idToPlayer[playerID]

	if self.cardAt(ownSlot) == nil || owner.cardAt(theirSlot) == nil {
		return nil, ErrCardNotFound
	}

	given := self.removeCard(ownSlot)
	received := owner.removeCard(theirSlot)
	self.placeCard(ownSlot, received)
	owner.placeCard(theirSlot, given)

	return received, nil
}
