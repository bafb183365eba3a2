package gabo

import (
	"sort"

	"gabo-server/pkg/deck"
)

// Player is a seated participant in a game of Gabo
type Player struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`

	// hand is keyed by slot. Slots 0..handSize-1 are the dealt positions;
	// anything at handSize or above is a punishment card.
	hand map[int]*deck.Card

	pendingGives        []*giveReaction
	startPeeksRemaining int
	score               int
	calledGabo          bool
}

// giveReaction is a single queued give opportunity: the flipper may move one of
// their own cards into the owner's hand at the recorded slot before the
// countdown expires.
type giveReaction struct {
	ownerID   string
	slot      int
	countdown *countdown
	remaining int64 // milliseconds, updated by the countdown
}

func newPlayer(id, name string) *Player {
	return &Player{
		PlayerID: id,
		Name:     name,
		hand:     make(map[int]*deck.Card),
	}
}

// resetForRound clears everything except the cumulative score
func (p *Player) resetForRound() {
	p.cancelGives()
	p.hand = make(map[int]*deck.Card)
	p.startPeeksRemaining = numOfStartPeeks
	p.calledGabo = false
}

// cancelGives cancels any running give countdowns and empties the queue
func (p *Player) cancelGives() {
	for _, give := range p.pendingGives {
		if give.countdown != nil {
			give.countdown.Cancel()
		}
	}

	p.pendingGives = nil
}

// cardAt returns the card at the slot, or nil
func (p *Player) cardAt(slot int) *deck.Card {
	return p.hand[slot]
}

// removeCard takes the card out of the slot
func (p *Player) removeCard(slot int) *deck.Card {
	card := p.hand[slot]
	delete(p.hand, slot)
	return card
}

// placeCard puts the card at the slot. The slot must be empty.
func (p *Player) placeCard(slot int, card *deck.Card) {
	if _, found := p.hand[slot]; found {
		panic("slot already occupied")
	}

	p.hand[slot] = card
}

// nextFreeSlot returns the smallest unused slot at or above handSize,
// where punishment cards live
func (p *Player) nextFreeSlot(handSize int) int {
	slot := handSize
	for {
		if _, found := p.hand[slot]; !found {
			return slot
		}

		slot++
	}
}

// slots returns the occupied slots in ascending order
func (p *Player) slots() []int {
	slots := make([]int, 0, len(p.hand))
	for slot := range p.hand {
		slots = append(slots, slot)
	}

	sort.Ints(slots)
	return slots
}

// cards returns the hand cards in slot order
func (p *Player) cards() []*deck.Card {
	cards := make([]*deck.Card, 0, len(p.hand))
	for _, slot := range p.slots() {
		cards = append(cards, p.hand[slot])
	}

	return cards
}

// GetPlayerID implements playable.Player
func (p *Player) GetPlayerID() string {
	return p.PlayerID
}

// GetDisplayName implements playable.Player
func (p *Player) GetDisplayName() string {
	return p.Name
}
