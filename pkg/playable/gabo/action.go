package gabo

import (
	"encoding/json"
	"fmt"
)

// Action represents an action a player can take
type Action string

// action constants
const (
	ActionStart         Action = "start"
	ActionDrawFromDeck  Action = "drawFromDeck"
	ActionDrawFromPile  Action = "drawFromPile"
	ActionDiscard       Action = "discard"
	ActionSwap          Action = "swap"
	ActionPeek          Action = "peek"
	ActionMatch         Action = "match"
	ActionGive          Action = "give"
	ActionLookSelf      Action = "lookSelf"
	ActionLookOther     Action = "lookOther"
	ActionSwapThenLook  Action = "swapThenLook"
	ActionRevealCard    Action = "revealCard"
	ActionLookThenSwap  Action = "lookThenSwap"
	ActionCancelAbility Action = "cancelAbility"
	ActionCallGabo      Action = "callGabo"
)

var allowedActions = map[Action]bool{
	ActionStart:         true,
	ActionDrawFromDeck:  true,
	ActionDrawFromPile:  true,
	ActionDiscard:       true,
	ActionSwap:          true,
	ActionPeek:          true,
	ActionMatch:         true,
	ActionGive:          true,
	ActionLookSelf:      true,
	ActionLookOther:     true,
	ActionSwapThenLook:  true,
	ActionRevealCard:    true,
	ActionLookThenSwap:  true,
	ActionCancelAbility: true,
	ActionCallGabo:      true,
}

// ActionFromString returns an action for the given string
func ActionFromString(s string) (Action, error) {
	if _, ok := allowedActions[Action(s)]; ok {
		return Action(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case ActionStart:
		return "Start round"
	case ActionDrawFromDeck:
		return "Draw from deck"
	case ActionDrawFromPile:
		return "Draw from pile"
	case ActionDiscard:
		return "Discard"
	case ActionSwap:
		return "Swap into hand"
	case ActionPeek:
		return "Peek"
	case ActionMatch:
		return "Match"
	case ActionGive:
		return "Give card"
	case ActionLookSelf:
		return "Look at own card"
	case ActionLookOther:
		return "Look at a card"
	case ActionSwapThenLook:
		return "Swap, then look"
	case ActionRevealCard:
		return "Reveal card"
	case ActionLookThenSwap:
		return "Swap"
	case ActionCancelAbility:
		return "Pass"
	case ActionCallGabo:
		return "Call gabo"
	}

	panic("unknown action")
}

// MarshalJSON encodes the action into JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(a),
		Name: a.String(),
	})
}
