package gabo

import (
	"sync"

	"gabo-server/pkg/deck"
	"gabo-server/pkg/playable"

	"github.com/sirupsen/logrus"
)

type gameState string

const (
	stateWaiting  gameState = "waiting"
	stateSetup    gameState = "setup"
	statePlaying  gameState = "playing"
	stateFinished gameState = "finished"
)

// seed of -1 means truly crypto-random shuffle
// setting to a global so we can override in a test
var seed int64 = -1

// spectator is an unseated participant waiting for the next round
type spectator struct {
	ID   string `json:"playerId"`
	Name string `json:"name"`
}

// Game is a game of Gabo. It is the single owner of the deck, the pile, every
// player's hand and the in-flight picked-up card. All exported operations on
// one game are serialized by its mutex; give-window countdowns re-enter the
// same mutex, so a consume and an expiry for the same reaction resolve to
// exactly one outcome.
type Game struct {
	mu sync.Mutex

	name    string
	options Options
	logger  logrus.FieldLogger
	logChan chan []*playable.LogMessage

	state      gameState
	players    []*Player
	idToPlayer map[string]*Player
	spectators []spectator

	deck *deck.Deck
	pile []*deck.Card // pile[len-1] is the top

	activePlayerID     string
	activeAbility      Ability
	hasRevealedForSwap bool
	pickedUpCard       *deck.Card
	pickedFromPile     bool

	// pendingUpdate is set by countdown callbacks and consumed by Tick
	pendingUpdate bool
}

// NewGame returns a new game of Gabo in the waiting state. Out-of-range
// options are clamped rather than rejected.
func NewGame(logger logrus.FieldLogger, name string, options Options) *Game {
	return &Game{
		name:       name,
		options:    options.clamped(),
		logger:     logger,
		logChan:    make(chan []*playable.LogMessage, 256),
		state:      stateWaiting,
		idToPlayer: make(map[string]*Player),
	}
}

// AddPlayer seats a participant. Players may only be seated between rounds;
// mid-round joiners come in as spectators.
func (g *Game) AddPlayer(id, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateWaiting && g.state != stateFinished {
		return ErrWrongState
	}

	if g.isJoined(id) {
		return ErrAlreadyJoined
	}

	if len(g.players) >= g.options.PlayerLimit {
		return ErrGameFull
	}

	g.seatPlayer(id, name)
	g.sendLog(playable.SimpleLogMessage(id, "{} joined the game"))
	return nil
}

// AddSpectator adds an unseated participant. Spectators are promoted to
// players in first-come order when a round starts.
func (g *Game) AddSpectator(id, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isJoined(id) {
		return ErrAlreadyJoined
	}

	g.spectators = append(g.spectators, spectator{ID: id, Name: name})
	g.sendLog(playable.SimpleLogMessage(id, "{} is watching"))
	return nil
}

// RemoveSpectator removes a spectator. Unknown ids are ignored.
func (g *Game) RemoveSpectator(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, s := range g.spectators {
		if s.ID == id {
			g.spectators = append(g.spectators[:i], g.spectators[i+1:]...)
			return
		}
	}
}

// RemovePlayer removes a seated player. Their hand cards (and a held
// picked-up card, if they were mid-turn) return to the bottom of the deck so
// they stay in the drawable pool. If the removed player was active, the turn
// passes to the next player without the usual end-of-turn side effects.
func (g *Game) RemovePlayer(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	index := -1
	for i, p := range g.players {
		if p.PlayerID == id {
			index = i
			break
		}
	}

	if index < 0 {
		return ErrPlayerNotFound
	}

	p := g.players[index]
	p.cancelGives()

	cards := p.cards()
	if g.activePlayerID == id {
		if g.pickedUpCard != nil {
			cards = append(cards, g.pickedUpCard)
			g.pickedUpCard = nil
		}

		g.activeAbility = AbilityNone
		g.pickedFromPile = false
		g.hasRevealedForSwap = false

		if len(g.players) > 1 {
			g.activePlayerID = g.players[(index+1)%len(g.players)].PlayerID
		} else {
			g.activePlayerID = ""
		}
	}

	if g.deck != nil {
		g.deck.ReturnToBottom(cards)
	}

	g.players = append(g.players[:index], g.players[index+1:]...)
	delete(g.idToPlayer, id)
	g.sendLog(playable.SimpleLogMessage(id, "{} left the game"))
	return nil
}

/// StartRound begins a new round from the waiting or finished state: fresh
// shuffled deck, spectators promoted until the table is full, hands dealt,
// first player active. With zero participants the call is a silent no-op.
func (g *Game) StartRound() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateWaiting && g.state != stateFinished {
		return ErrWrongState
	}

	for len(g.players) < g.options.PlayerLimit && len(g.spectators) > 0 {
		next := g.spectators[0]
		g.spectators = g.spectators[1:]
		g.seatPlayer(next.ID, next.Name)
	}

	if len(g.players) == 0 {
		return nil
	}

	d := deck.New()
	if seed >= 0 {
		d.SetSeed(seed)
	}
	d.Shuffle()
	g.deck = d
	g.pile = []*deck.Card{}

	for _, p := range g.players {
		p.resetForRound()
	}

	if err := g.dealHands(g.options.HandSize); err != nil {
		return err
	}

	g.activePlayerID = g.players[0].PlayerID
	g.activeAbility = AbilityNone
	g.pickedUpCard = nil
	g.pickedFromPile = false
	g.hasRevealedForSwap = false
	g.state = stateSetup

	g.sendLog(playable.SimpleLogMessage("", "New round started (%d players)", len(g.players)))
	return nil
}

// EndRound settles the round immediately. Normally the round ends on its own
// through the gabo check in endTurn.
func (g *Game) EndRound() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != statePlaying && g.state != stateSetup {
		return ErrWrongState
	}

	g.endRound()
	return nil
}

// StartPeek reveals one of the player's own cards during setup, consuming one
// of their start peeks. The instant every player has used both peeks, play
// begins automatically.
func (g *Game) StartPeek(playerID string, slot int) (*deck.Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateSetup {
		return nil, ErrWrongState
	}

	p, ok := g.idToPlayer[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	if p.startPeeksRemaining <= 0 {
		return nil, ErrWrongState
	}

	card := p.cardAt(slot)
	if card == nil {
		return nil, ErrCardNotFound
	}

	p.startPeeksRemaining--

	if g.everyoneHasPeeked() {
		g.state = statePlaying
		g.sendLog(playable.SimpleLogMessage("", "Everyone has looked at their cards. Play begins!"))
	}

	return card, nil
}

// DrawFromDeck picks up the top card of the deck. Only the active player may
// draw, and only with no other card in flight.
func (g *Game) DrawFromDeck(playerID string) (*deck.Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireTurnWithoutPickup(playerID); err != nil {
		return nil, err
	}

	card, err := g.drawCard()
	if err != nil {
		return nil, err
	}

	g.pickedUpCard = card
	g.pickedFromPile = false
	return card, nil
}

// DrawFromPile picks up the top card of the pile. A card picked up this way
// will not trigger an ability when discarded again.
func (g *Game) DrawFromPile(playerID string) (*deck.Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireTurnWithoutPickup(playerID); err != nil {
		return nil, err
	}

	if len(g.pile) == 0 {
		return nil, ErrEmptyPile
	}

	card := g.pile[len(g.pile)-1]
	g.pile = g.pile[:len(g.pile)-1]
	g.pickedUpCard = card
	g.pickedFromPile = true
	return card, nil
}

// DiscardPickedUp discards the picked-up card onto the pile. A bare discard
// from the deck unlocks the rank's ability; a card that came from the pile
// ends the turn immediately.
func (g *Game) DiscardPickedUp(playerID string) (Ability, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireTurnWithPickup(playerID); err != nil {
		return AbilityNone, err
	}

	card := g.pickedUpCard
	g.pile = append(g.pile, card)
	g.pickedUpCard = nil

	if g.pickedFromPile {
		g.sendLog(playable.SimpleLogMessage(playerID, "{} put %s back on the pile", card.String()))
		g.endTurn()
		return AbilityNone, nil
	}

	ability := abilityForRank(card.Rank)
	if ability == AbilityNone {
		g.sendLog(playable.SimpleLogMessage(playerID, "{} discarded %s", card.String()))
		g.endTurn()
		return AbilityNone, nil
	}

	g.activeAbility = ability
	g.hasRevealedForSwap = false
	g.sendLog(playable.SimpleLogMessage(playerID, "{} discarded %s and unlocked an ability", card.String()))
	return ability, nil
}

// SwapPickedUpIntoHand replaces one of the active player's own cards with the
// picked-up card. The replaced card goes face-up onto the pile and the turn
// ends; a hand swap never triggers an ability.
func (g *Game) SwapPickedUpIntoHand(playerID string, slot int) (*deck.Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireTurnWithPickup(playerID); err != nil {
		return nil, err
	}

	p := g.idToPlayer[playerID]
	replaced := p.cardAt(slot)
	if replaced == nil {
		return nil, ErrCardNotFound
	}

	p.removeCard(slot)
	p.placeCard(slot, g.pickedUpCard)
	g.pile = append(g.pile, replaced)
	g.pickedUpCard = nil

	g.sendLog(playable.SimpleLogMessage(playerID, "{} swapped the card into their hand, discarding %s", replaced.String()))
	g.endTurn()
	return replaced, nil
}

// CallGabo declares the final round. The round ends the moment the caller's
// next turn would begin.
func (g *Game) CallGabo(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != statePlaying {
		return ErrWrongState
	}

	if g.activePlayerID != playerID {
		return ErrNotYourTurn
	}

	g.idToPlayer[playerID].calledGabo = true
	g.sendLog(playable.SimpleLogMessage(playerID, "{} called gabo!"))
	return nil
}

// endTurn advances to the next player, or ends the round if the upcoming
// player has called gabo. Callers must hold the lock.
func (g *Game) endTurn() {
	index := g.playerIndex(g.activePlayerID)
	if index < 0 {
		return
	}

	next := g.players[(index+1)%len(g.players)]
	if next.calledGabo {
		g.endRound()
		return
	}

	g.activePlayerID = next.PlayerID
	g.activeAbility = AbilityNone
	g.pickedUpCard = nil
	g.pickedFromPile = false
	g.hasRevealedForSwap = false
}

// endRound scores every hand and freezes the game until the next StartRound.
// Callers must hold the lock.
func (g *Game) endRound() {
	// a card still in flight is returned to the pile so no card is lost
	if g.pickedUpCard != nil {
		g.pile = append(g.pile, g.pickedUpCard)
		g.pickedUpCard = nil
	}

	for _, p := range g.players {
		p.cancelGives()
	}

	g.applyScores()

	g.activePlayerID = ""
	g.activeAbility = AbilityNone
	g.pickedFromPile = false
	g.hasRevealedForSwap = false
	g.state = stateFinished
	g.pendingUpdate = true

	g.sendLog(playable.SimpleLogMessage("", "The round is over"))
}

// dealHands deals n cards to each player in turn order at slots 0..n-1
func (g *Game) dealHands(n int) error {
	for _, p := range g.players {
		for slot := 0; slot < n; slot++ {
			card, err := g.deck.Draw()
			if err != nil {
				return ErrEmptyDeck
			}

			p.placeCard(slot, card)
		}
	}

	return nil
}

// drawCard pops the deck top. If the pop empties the deck, everything in the
// pile except its top card is shuffled into a new deck. A draw from an
// already-empty deck fails with ErrEmptyDeck.
func (g *Game) drawCard() (*deck.Card, error) {
	card, err := g.deck.Draw()
	if err != nil {
		return nil, ErrEmptyDeck
	}

	if g.deck.CardsLeft() == 0 && len(g.pile) > 1 {
		top := g.pile[len(g.pile)-1]
		g.deck.ShuffleDiscards(g.pile[:len(g.pile)-1])
		g.pile = []*deck.Card{top}
	}

	return card, nil
}

func (g *Game) requireTurnWithoutPickup(playerID string) error {
	if g.state != statePlaying || g.activeAbility != AbilityNone {
		return ErrWrongState
	}

	if g.activePlayerID != playerID {
		return ErrNotYourTurn
	}

	if g.pickedUpCard != nil {
		return ErrWrongState
	}

	return nil
}

func (g *Game) requireTurnWithPickup(playerID string) error {
	if g.state != statePlaying {
		return ErrWrongState
	}

	if g.activePlayerID != playerID {
		return ErrNotYourTurn
	}

	if g.pickedUpCard == nil {
		return ErrWrongState
	}

	return nil
}

func (g *Game) seatPlayer(id, name string) {
	p := newPlayer(id, name)

	// late joiners start from the table's highest score so they gain nothing
	// by hopping in mid-game
	p.score = g.highestScore()

	g.players = append(g.players, p)
	g.idToPlayer[id] = p
}

// HasPlayer returns true if the player is seated
func (g *Game) HasPlayer(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.idToPlayer[id]
	return ok
}

func (g *Game) isJoined(id string) bool {
	if _, ok := g.idToPlayer[id]; ok {
		return true
	}

	for _, s := range g.spectators {
		if s.ID == id {
			return true
		}
	}

	return false
}

func (g *Game) playerIndex(id string) int {
	for i, p := range g.players {
		if p.PlayerID == id {
			return i
		}
	}

	return -1
}

func (g *Game) topCard() *deck.Card {
	if len(g.pile) == 0 {
		return nil
	}

	return g.pile[len(g.pile)-1]
}

func (g *Game) highestScore() int {
	score := 0
	for _, p := range g.players {
		if p.score > score {
			score = p.score
		}
	}

	return score
}

func (g *Game) everyoneHasPeeked() bool {
	for _, p := range g.players {
		if p.startPeeksRemaining > 0 {
			return false
		}
	}

	return true
}

func (g *Game) sendLog(messages ...*playable.LogMessage) {
	select {
	case g.logChan <- messages:
	default:
		g.logger.Warn("log channel is full; dropping message")
	}
}
