package gabo

import (
	"testing"

	"gabo-server/pkg/deck"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// setupGame returns a game with two seated players ("a" and "b") and a
// started round
func setupGame(t *testing.T, options Options) *Game {
	t.Helper()

	game := NewGame(logrus.StandardLogger(), "test game", options)
	assert.NoError(t, game.AddPlayer("a", "Alice"))
	assert.NoError(t, game.AddPlayer("b", "Bob"))
	assert.NoError(t, game.StartRound())

	return game
}

// startPlaying exhausts every player's start peeks so play begins
func startPlaying(t *testing.T, game *Game) {
	t.Helper()

	for _, p := range game.players {
		for p.startPeeksRemaining > 0 {
			_, err := game.StartPeek(p.PlayerID, 0)
			assert.NoError(t, err)
		}
	}

	assert.Equal(t, statePlaying, game.state)
}

// assertConservation verifies the deck, pile, hands and in-flight card still
// add up to the canonical 53-card deck with no duplicates
func assertConservation(t *testing.T, game *Game) {
	t.Helper()

	cards := append([]*deck.Card{}, game.deck.Cards...)
	cards = append(cards, game.pile...)
	for _, p := range game.players {
		cards = append(cards, p.cards()...)
	}
	if game.pickedUpCard != nil {
		cards = append(cards, game.pickedUpCard)
	}

	assert.Equal(t, deck.CardsInDeck, len(cards))

	seen := make(map[string]bool)
	for _, card := range cards {
		key := deck.CardToString(card)
		assert.False(t, seen[key], "duplicate card: %s", key)
		seen[key] = true
	}
}

func TestNewGame(t *testing.T) {
	game := NewGame(logrus.StandardLogger(), "my game", Options{HandSize: 100, PlayerLimit: -3})
	assert.Equal(t, "gabo", game.Name())
	assert.Equal(t, stateWaiting, game.state)

	// out-of-range options are clamped
	assert.Equal(t, maxHandSize, game.options.HandSize)
	assert.Equal(t, minPlayerLimit, game.options.PlayerLimit)
}

func TestGame_AddPlayer(t *testing.T) {
	game := NewGame(logrus.StandardLogger(), "test", Options{HandSize: 4, PlayerLimit: 2})

	assert.NoError(t, game.AddPlayer("a", "Alice"))
	assert.Equal(t, ErrAlreadyJoined, game.AddPlayer("a", "Alice"))
	assert.NoError(t, game.AddPlayer("b", "Bob"))
	assert.Equal(t, ErrGameFull, game.AddPlayer("c", "Carol"))

	assert.NoError(t, game.StartRound())
	assert.Equal(t, ErrWrongState, game.AddPlayer("d", "Dave"))
}

func TestGame_StartRound(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 4})

	assert.Equal(t, stateSetup, game.state)
	assert.Equal(t, 45, game.deck.CardsLeft()) // 53 - 2*4
	assert.Len(t, game.pile, 0)
	assert.Equal(t, "a", game.activePlayerID)
	assert.Nil(t, game.pickedUpCard)
	assert.Equal(t, AbilityNone, game.activeAbility)

	for _, p := range game.players {
		assert.Equal(t, []int{0, 1, 2, 3}, p.slots())
		assert.Equal(t, numOfStartPeeks, p.startPeeksRemaining)
	}

	assertConservation(t, game)

	// a round cannot start while one is in progress
	assert.Equal(t, ErrWrongState, game.StartRound())
}

func TestGame_StartRound_noPlayers(t *testing.T) {
	game := NewGame(logrus.StandardLogger(), "test", DefaultOptions())

	// silent no-op with nobody at the table
	assert.NoError(t, game.StartRound())
	assert.Equal(t, stateWaiting, game.state)
}

func TestGame_StartRound_promotesSpectators(t *testing.T) {
	game := NewGame(logrus.StandardLogger(), "test", Options{HandSize: 2, PlayerLimit: 3})
	assert.NoError(t, game.AddPlayer("a", "Alice"))
	assert.NoError(t, game.AddSpectator("b", "Bob"))
	assert.NoError(t, game.AddSpectator("c", "Carol"))
	assert.NoError(t, game.AddSpectator("d", "Dave"))
	assert.Equal(t, ErrAlreadyJoined, game.AddSpectator("a", "Alice"))

	assert.NoError(t, game.StartRound())

	// spectators promoted first-come until the table is full
	assert.Len(t, game.players, 3)
	assert.Equal(t, "b", game.players[1].PlayerID)
	assert.Equal(t, "c", game.players[2].PlayerID)
	assert.Len(t, game.spectators, 1)
	assert.Equal(t, "d", game.spectators[0].ID)
}

func TestGame_StartPeek(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})

	card, err := game.StartPeek("a", 0)
	assert.NoError(t, err)
	assert.Equal(t, game.players[0].cardAt(0), card)
	assert.Equal(t, 1, game.players[0].startPeeksRemaining)

	_, err = game.StartPeek("a", 99)
	assert.Equal(t, ErrCardNotFound, err)

	_, err = game.StartPeek("a", 1)
	assert.NoError(t, err)

	_, err = game.StartPeek("a", 2)
	assert.Equal(t, ErrWrongState, err)

	// still setup until everyone has peeked
	assert.Equal(t, stateSetup, game.state)

	_, err = game.StartPeek("b", 0)
	assert.NoError(t, err)
	_, err = game.StartPeek("b", 0)
	assert.NoError(t, err)

	assert.Equal(t, statePlaying, game.state)

	_, err = game.StartPeek("a", 0)
	assert.Equal(t, ErrWrongState, err)
}

func TestGame_DrawFromDeck(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})

	_, err := game.DrawFromDeck("a")
	assert.Equal(t, ErrWrongState, err)

	startPlaying(t, game)

	_, err = game.DrawFromDeck("b")
	assert.Equal(t, ErrNotYourTurn, err)

	card, err := game.DrawFromDeck("a")
	assert.NoError(t, err)
	assert.NotNil(t, card)
	assert.Equal(t, card, game.pickedUpCard)
	assert.False(t, game.pickedFromPile)
	assert.Equal(t, 44, game.deck.CardsLeft())

	// only one card may be in flight
	_, err = game.DrawFromDeck("a")
	assert.Equal(t, ErrWrongState, err)

	assertConservation(t, game)
}

func TestGame_DrawFromPile(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})
	startPlaying(t, game)

	_, err := game.DrawFromPile("a")
	assert.Equal(t, ErrEmptyPile, err)

	game.pile = deck.CardsFromString("5c,6d")

	card, err := game.DrawFromPile("a")
	assert.NoError(t, err)
	assert.Equal(t, "6♢", card.String())
	assert.True(t, game.pickedFromPile)
	assert.Equal(t, "5♣", game.topCard().String())
}

func TestGame_DiscardPickedUp(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})
	startPlaying(t, game)

	_, err := game.DiscardPickedUp("a")
	assert.Equal(t, ErrWrongState, err)

	// a non-ability rank ends the turn immediately
	game.pickedUpCard = deck.CardFromString("2c")
	ability, err := game.DiscardPickedUp("a")
	assert.NoError(t, err)
	assert.Equal(t, AbilityNone, ability)
	assert.Equal(t, "b", game.activePlayerID)
	assert.Equal(t, "2♣", game.topCard().String())

	// an ability rank keeps the turn open
	game.pickedUpCard = deck.CardFromString("7h")
	ability, err = game.DiscardPickedUp("b")
	assert.NoError(t, err)
	assert.Equal(t, AbilityLookSelf, ability)
	assert.Equal(t, "b", game.activePlayerID)
	assert.Equal(t, AbilityLookSelf, game.activeAbility)
}

func TestGame_DiscardPickedUp_fromPile(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})
	startPlaying(t, game)

	// a pile draw cannot re-trigger its own ability chain
	game.pile = deck.CardsFromString("13h")
	card, err := game.DrawFromPile("a")
	assert.NoError(t, err)
	assert.Equal(t, "K♡", card.String())

	ability, err := game.DiscardPickedUp("a")
	assert.NoError(t, err)
	assert.Equal(t, AbilityNone, ability)
	assert.Equal(t, "b", game.activePlayerID)
}

func TestGame_SwapPickedUpIntoHand(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})
	startPlaying(t, game)

	picked, err := game.DrawFromDeck("a")
	assert.NoError(t, err)

	_, err = game.SwapPickedUpIntoHand("a", 17)
	assert.Equal(t, ErrCardNotFound, err)

	alice := game.players[0]
	replaced := alice.cardAt(2)

	got, err := game.SwapPickedUpIntoHand("a", 2)
	assert.NoError(t, err)
	assert.Equal(t, replaced, got)
	assert.Equal(t, picked, alice.cardAt(2))
	assert.Equal(t, replaced, game.topCard())

	// swapping always ends the turn, even for ability ranks
	assert.Equal(t, "b", game.activePlayerID)
	assert.Equal(t, AbilityNone, game.activeAbility)

	assertConservation(t, game)
}

func TestGame_DeckRecycling(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})
	startPlaying(t, game)

	// rig the deck down to a single card with a 4-card pile
	game.pile = append(game.pile, game.deck.Cards[1:5]...)
	game.deck.Cards = game.deck.Cards[0:1]

	pileTop := game.topCard()

	_, err := game.DrawFromDeck("a")
	assert.NoError(t, err)

	// the pile below the top card became the new deck
	assert.Equal(t, 3, game.deck.CardsLeft())
	assert.Len(t, game.pile, 1)
	assert.Equal(t, pileTop, game.topCard())
}

func TestGame_DeckRecycling_nothingToRecycle(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})
	startPlaying(t, game)

	game.pile = []*deck.Card{game.deck.Cards[0]}
	game.deck.Cards = game.deck.Cards[1:2]

	// the pop empties the deck and there is nothing below the pile top
	_, err := game.DrawFromDeck("a")
	assert.NoError(t, err)
	assert.Equal(t, 0, game.deck.CardsLeft())

	_, err = game.DiscardPickedUp("a")
	assert.NoError(t, err)

	_, err = game.DrawFromDeck("b")
	assert.Equal(t, ErrEmptyDeck, err)
}

func TestGame_CallGabo(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})
	startPlaying(t, game)

	assert.Equal(t, ErrNotYourTurn, game.CallGabo("b"))
	assert.NoError(t, game.CallGabo("a"))
	assert.True(t, game.players[0].calledGabo)
}

func TestGame_GaboEndsRound(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})
	startPlaying(t, game)

	assert.NoError(t, game.CallGabo("a"))

	// a finishes their turn; b is next
	game.pickedUpCard = deck.CardFromString("2c")
	_, err := game.DiscardPickedUp("a")
	assert.NoError(t, err)
	assert.Equal(t, "b", game.activePlayerID)
	assert.Equal(t, statePlaying, game.state)

	// the upcoming player called gabo, so the round ends instead of the turn
	// passing back to a
	game.pickedUpCard = deck.CardFromString("3c")
	_, err = game.DiscardPickedUp("b")
	assert.NoError(t, err)
	assert.Equal(t, stateFinished, game.state)
	assert.Equal(t, "", game.activePlayerID)

	// and the next round can start again
	assert.NoError(t, game.StartRound())
	assert.Equal(t, stateSetup, game.state)
}

func TestGame_RemovePlayer(t *testing.T) {
	game := NewGame(logrus.StandardLogger(), "test", Options{HandSize: 4, PlayerLimit: 3})
	assert.NoError(t, game.AddPlayer("a", "Alice"))
	assert.NoError(t, game.AddPlayer("b", "Bob"))
	assert.NoError(t, game.AddPlayer("c", "Carol"))
	assert.NoError(t, game.StartRound())
	startPlaying(t, game)

	assert.Equal(t, ErrPlayerNotFound, game.RemovePlayer("nobody"))

	deckSize := game.deck.CardsLeft()

	// removing the active player advances the turn and returns their cards
	assert.NoError(t, game.RemovePlayer("a"))
	assert.Equal(t, "b", game.activePlayerID)
	assert.Len(t, game.players, 2)
	assert.Equal(t, deckSize+4, game.deck.CardsLeft())

	assertConservation(t, game)

	assert.NoError(t, game.RemovePlayer("c"))
	assert.NoError(t, game.RemovePlayer("b"))
	assert.Len(t, game.players, 0)
	assert.Equal(t, "", game.activePlayerID)
	assert.Equal(t, deck.CardsInDeck, game.deck.CardsLeft())
}

func TestGame_RemoveSpectator(t *testing.T) {
	game := NewGame(logrus.StandardLogger(), "test", DefaultOptions())
	assert.NoError(t, game.AddSpectator("s1", "Sam"))
	assert.NoError(t, game.AddSpectator("s2", "Sue"))

	game.RemoveSpectator("s1")
	assert.Len(t, game.spectators, 1)

	// unknown ids are ignored
	game.RemoveSpectator("s1")
	assert.Len(t, game.spectators, 1)
}

func TestGame_CardConservation(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})
	startPlaying(t, game)

	// a full turn each: draw, swap / discard
	_, err := game.DrawFromDeck("a")
	assert.NoError(t, err)
	assertConservation(t, game)

	_, err = game.SwapPickedUpIntoHand("a", 0)
	assert.NoError(t, err)
	assertConservation(t, game)

	_, err = game.DrawFromDeck("b")
	assert.NoError(t, err)
	_, err = game.DiscardPickedUp("b")
	assert.NoError(t, err)
	assertConservation(t, game)

	// a mismatched flip draws a punishment card
	top := game.topCard()
	var wrongSlot int
	for slot, card := range game.players[0].hand {
		if card.Rank != top.Rank {
			wrongSlot = slot
			break
		}
	}

	_, err = game.AttemptMatch("a", "a", wrongSlot)
	assert.NoError(t, err)
	assertConservation(t, game)

	// ending the round keeps every card accounted for
	assert.NoError(t, game.EndRound())
	assertConservation(t, game)
}

func TestGame_GetPlayerState(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})

	res, err := game.GetPlayerState("a")
	assert.NoError(t, err)

	state, ok := res.Data.(*State)
	assert.True(t, ok)
	assert.Equal(t, stateSetup, state.GameState.State)
	assert.Equal(t, 45, state.GameState.DeckSize)
	assert.Equal(t, []Action{ActionPeek}, state.Actions)

	// hidden hands are projected as slots only
	for _, p := range state.GameState.Players {
		assert.Equal(t, []int{0, 1, 2, 3}, p.Slots)
		assert.Equal(t, 4, p.CardCount)
	}
}

func TestGame_GetEndOfGameDetails(t *testing.T) {
	game := setupGame(t, Options{HandSize: 4, PlayerLimit: 2})

	details, over := game.GetEndOfGameDetails()
	assert.False(t, over)
	assert.Nil(t, details)

	startPlaying(t, game)
	assert.NoError(t, game.EndRound())

	details, over = game.GetEndOfGameDetails()
	assert.True(t, over)
	assert.Equal(t, game.players[0].score, details.Scores["a"])
	assert.Equal(t, game.players[1].score, details.Scores["b"])
}
