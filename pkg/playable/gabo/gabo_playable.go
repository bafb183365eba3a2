package gabo

import (
	"errors"

	"gabo-server/pkg/playable"
)

// --- Playable Interface ---

// Action performs a game action on behalf of the player
func (g *Game) Action(playerID string, message *playable.PayloadIn) (playerResponse *playable.Response, updateState bool, err error) {
	action, err := ActionFromString(message.Action)
	if err != nil {
		return nil, false, err
	}

	switch action {
	case ActionStart:
		if err := g.StartRound(); err != nil {
			return nil, false, err
		}

		return playable.OK(), true, nil
	case ActionDrawFromDeck:
		card, err := g.DrawFromDeck(playerID)
		if err != nil {
			return nil, false, err
		}

		return &playable.Response{Key: "pickedUp", Data: card}, true, nil
	case ActionDrawFromPile:
		card, err := g.DrawFromPile(playerID)
		if err != nil {
			return nil, false, err
		}

		return &playable.Response{Key: "pickedUp", Data: card}, true, nil
	case ActionDiscard:
		ability, err := g.DiscardPickedUp(playerID)
		if err != nil {
			return nil, false, err
		}

		return &playable.Response{Key: "ability", Data: ability}, true, nil
	case ActionSwap:
		slot, ok := message.AdditionalData.GetInt("slot")
		if !ok {
			return nil, false, errors.New("missing slot")
		}

		if _, err := g.SwapPickedUpIntoHand(playerID, slot); err != nil {
			return nil, false, err
		}

		return playable.OK(), true, nil
	case ActionPeek:
		slot, ok := message.AdditionalData.GetInt("slot")
		if !ok {
			return nil, false, errors.New("missing slot")
		}

		card, err := g.StartPeek(playerID, slot)
		if err != nil {
			return nil, false, err
		}

		return &playable.Response{Key: "reveal", Data: &revealJSON{OwnerID: playerID, Slot: slot, Card: card}}, true, nil
	case ActionMatch:
		ownerID, slot, err := targetFromPayload(playerID, message)
		if err != nil {
			return nil, false, err
		}

		result, err := g.AttemptMatch(playerID, ownerID, slot)
		if err != nil {
			return nil, false, err
		}

		return &playable.Response{Key: "match", Data: result}, true, nil
	case ActionGive:
		slot, ok := message.AdditionalData.GetInt("slot")
		if !ok {
			return nil, false, errors.New("missing slot")
		}

		result, err := g.ConsumeGive(playerID, slot)
		if err != nil {
			return nil, false, err
		}

		return &playable.Response{Key: "give", Data: result}, true, nil
	case ActionLookSelf:
		slot, ok := message.AdditionalData.GetInt("slot")
		if !ok {
			return nil, false, errors.New("missing slot")
		}

		card, err := g.ResolveLookSelf(playerID, slot)
		if err != nil {
			return nil, false, err
		}

		return &playable.Response{Key: "reveal", Data: &revealJSON{OwnerID: playerID, Slot: slot, Card: card}}, true, nil
	case ActionLookOther:
		ownerID, slot, err := targetFromPayload("", message)
		if err != nil {
			return nil, false, err
		}

		card, err := g.ResolveLookOther(playerID, ownerID, slot)
		if err != nil {
			return nil, false, err
		}

		return &playable.Response{Key: "reveal", Data: &revealJSON{OwnerID: ownerID, Slot: slot, Card: card}}, true, nil
	case ActionSwapThenLook:
		ownSlot, ok := message.AdditionalData.GetInt("slot")
		if !ok {
			return nil, false, errors.New("missing slot")
		}

		ownerID, theirSlot, err := targetFromPayload("", message)
		if err != nil {
			return nil, false, err
		}

		card, err := g.ResolveSwapThenLook(playerID, ownSlot, ownerID, theirSlot)
		if err != nil {
			return nil, false, err
		}

		return &playable.Response{Key: "reveal", Data: &revealJSON{OwnerID: playerID, Slot: ownSlot, Card: card}}, true, nil
	case ActionRevealCard:
		ownerID, slot, err := targetFromPayload("", message)
		if err != nil {
			return nil, false, err
		}

		card, err := g.RevealForLookThenSwap(playerID, ownerID, slot)
		if err != nil {
			return nil, false, err
		}

		return &playable.Response{Key: "reveal", Data: &revealJSON{OwnerID: ownerID, Slot: slot, Card: card}}, true, nil
	case ActionLookThenSwap:
		ownSlot, ok := message.AdditionalData.GetInt("slot")
		if !ok {
			return nil, false, errors.New("missing slot")
		}

		ownerID, theirSlot, err := targetFromPayload("", message)
		if err != nil {
			return nil, false, err
		}

		if err := g.ResolveLookThenSwap(playerID, ownSlot, ownerID, theirSlot); err != nil {
			return nil, false, err
		}

		return playable.OK(), true, nil
	case ActionCancelAbility:
		if err := g.CancelAbility(playerID); err != nil {
			return nil, false, err
		}

		return playable.OK(), true, nil
	case ActionCallGabo:
		if err := g.CallGabo(playerID); err != nil {
			return nil, false, err
		}

		return playable.OK(), true, nil
	}

	return nil, false, errors.New("action not handled")
}

// targetFromPayload pulls the target owner and slot out of the payload.
// defaultOwner is used when the payload names no owner.
func targetFromPayload(defaultOwner string, message *playable.PayloadIn) (string, int, error) {
	slot, ok := message.AdditionalData.GetInt("targetSlot")
	if !ok {
		return "", 0, errors.New("missing targetSlot")
	}

	ownerID, ok := message.AdditionalData.GetString("ownerId")
	if !ok {
		if defaultOwner == "" {
			return "", 0, errors.New("missing ownerId")
		}

		ownerID = defaultOwner
	}

	return ownerID, slot, nil
}

// GetPlayerState returns the state of the game as visible to the player
func (g *Game) GetPlayerState(playerID string) (*playable.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := &State{
		GameState:    g.getGameState(),
		PendingGives: g.getPendingGives(playerID),
		Actions:      g.getActionsForPlayer(playerID),
	}

	return &playable.Response{
		Key:  "game",
		Data: state,
	}, nil
}

// GetEndOfGameDetails returns the scores once the round has finished
func (g *Game) GetEndOfGameDetails() (*playable.GameOverDetails, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateFinished {
		return nil, false
	}

	scores := make(map[string]int)
	for _, p := range g.players {
		scores[p.PlayerID] = p.score
	}

	return &playable.GameOverDetails{Scores: scores}, true
}

// Name returns the name of the game
func (g *Game) Name() string {
	return "gabo"
}

// LogChan returns a channel that can receive log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}
