package gabo

import "gabo-server/pkg/deck"

// gaboPenalty is added to a caller's score when their final hand is worth more
// than gaboThreshold points
const (
	gaboPenalty   = 25
	gaboThreshold = 5
)

// cardValue returns the gabo point value of a card. The king of hearts is the
// single zero-value card; the other kings are worth 13.
func cardValue(card *deck.Card) int {
	if card.Rank == deck.King && card.Suit == deck.Hearts {
		return 0
	}

	switch card.Rank {
	case deck.Ace, deck.Joker:
		return 1
	case deck.King:
		return 13
	case deck.Queen:
		return 12
	case deck.Jack:
		return 11
	}

	return card.Rank
}

// handValue returns the sum of the player's hand
func (p *Player) handValue() int {
	total := 0
	for _, card := range p.hand {
		total += cardValue(card)
	}

	return total
}

// applyScores settles the round. A caller who kept their hand at or below the
// threshold adds nothing; a caller who didn't adds a flat penalty. Everyone
// else adds their raw hand value.
func (g *Game) applyScores() {
	for _, p := range g.players {
		handValue := p.handValue()
		if p.calledGabo {
			if handValue > gaboThreshold {
				p.score += gaboPenalty
			}
			continue
		}

		p.score += handValue
	}
}
