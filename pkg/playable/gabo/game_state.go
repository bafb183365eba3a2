package gabo

import (
	"gabo-server/pkg/deck"
)

// participantJSON is the public projection of a player. Hidden hand contents
// never appear here; clients only see which slots are occupied.
type participantJSON struct {
	PlayerID            string `json:"playerId"`
	Name                string `json:"name"`
	Slots               []int  `json:"slots"`
	CardCount           int    `json:"cardCount"`
	Score               int    `json:"score"`
	CalledGabo          bool   `json:"calledGabo"`
	StartPeeksRemaining int    `json:"startPeeksRemaining"`
}

// pendingGiveJSON is a give reaction as shown to its flipper
type pendingGiveJSON struct {
	OwnerID    string `json:"ownerId"`
	Slot       int    `json:"slot"`
	TimeLeftMs int64  `json:"timeLeftMs"`
}

// revealJSON carries a privately revealed card back to the requesting player
type revealJSON struct {
	OwnerID string     `json:"ownerId"`
	Slot    int        `json:"slot"`
	Card    *deck.Card `json:"card"`
}

// GameState is the shared state of the game
type GameState struct {
	Name           string             `json:"name"`
	State          gameState          `json:"state"`
	Players        []*participantJSON `json:"players"`
	Spectators     []spectator        `json:"spectators"`
	ActivePlayerID string             `json:"activePlayerId"`
	ActiveAbility  Ability            `json:"activeAbility"`
	HasPickedUp    bool               `json:"hasPickedUp"`
	PickedFromPile bool               `json:"pickedFromPile"`
	TopCard        *deck.Card         `json:"topCard"`
	DeckSize       int                `json:"deckSize"`
	HandSize       int                `json:"handSize"`
	PlayerLimit    int                `json:"playerLimit"`
}

// State represents the state of the game and the state of the current player
type State struct {
	GameState    *GameState         `json:"gameState"`
	PendingGives []*pendingGiveJSON `json:"pendingGives"`
	Actions      []Action           `json:"actions"`
}

// getGameState must be called with the lock held
func (g *Game) getGameState() *GameState {
	players := make([]*participantJSON, len(g.players))
	for i, p := range g.players {
		players[i] = &participantJSON{
			PlayerID:            p.PlayerID,
			Name:                p.Name,
			Slots:               p.slots(),
			CardCount:           len(p.hand),
			Score:               p.score,
			CalledGabo:          p.calledGabo,
			StartPeeksRemaining: p.startPeeksRemaining,
		}
	}

	deckSize := 0
	if g.deck != nil {
		deckSize = g.deck.CardsLeft()
	}

	spectators := g.spectators
	if spectators == nil {
		spectators = []spectator{}
	}

	return &GameState{
		Name:           g.name,
		State:          g.state,
		Players:        players,
		Spectators:     spectators,
		ActivePlayerID: g.activePlayerID,
		ActiveAbility:  g.activeAbility,
		HasPickedUp:    g.pickedUpCard != nil,
		PickedFromPile: g.pickedFromPile,
		TopCard:        g.topCard(),
		DeckSize:       deckSize,
		HandSize:       g.options.HandSize,
		PlayerLimit:    g.options.PlayerLimit,
	}
}

// getActionsForPlayer must be called with the lock held
func (g *Game) getActionsForPlayer(playerID string) []Action {
	p, ok := g.idToPlayer[playerID]
	if !ok {
		// spectator
		return nil
	}

	actions := make([]Action, 0)

	switch g.state {
	case stateWaiting, stateFinished:
		actions = append(actions, ActionStart)
	case stateSetup:
		if p.startPeeksRemaining > 0 {
			actions = append(actions, ActionPeek)
		}
	case statePlaying:
		if g.activePlayerID == playerID {
			switch {
			case g.activeAbility == AbilityLookSelf:
				actions = append(actions, ActionLookSelf, ActionCancelAbility)
			case g.activeAbility == AbilityLookOther:
				actions = append(actions, ActionLookOther, ActionCancelAbility)
			case g.activeAbility == AbilitySwapThenLook:
				actions = append(actions, ActionSwapThenLook, ActionCancelAbility)
			case g.activeAbility == AbilityLookThenSwap:
				if g.hasRevealedForSwap {
					actions = append(actions, ActionLookThenSwap, ActionCancelAbility)
				} else {
					actions = append(actions, ActionRevealCard, ActionCancelAbility)
				}
			case g.pickedUpCard != nil:
				actions = append(actions, ActionDiscard, ActionSwap)
			default:
				actions = append(actions, ActionDrawFromDeck, ActionDrawFromPile, ActionCallGabo)
			}
		}

		actions = append(actions, ActionMatch)
		if len(p.pendingGives) > 0 {
			actions = append(actions, ActionGive)
		}
	}

	return actions
}

// getPendingGives must be called with the lock held
func (g *Game) getPendingGives(playerID string) []*pendingGiveJSON {
	p, ok := g.idToPlayer[playerID]
	if !ok {
		return nil
	}

	gives := make([]*pendingGiveJSON, len(p.pendingGives))
	for i, give := range p.pendingGives {
		gives[i] = &pendingGiveJSON{
			OwnerID:    give.ownerID,
			Slot:       give.slot,
			TimeLeftMs: give.remaining,
		}
	}

	return gives
}
