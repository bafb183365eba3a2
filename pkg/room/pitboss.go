package room

import (
	"errors"
	"sort"
	"sync"
	"time"

	"gabo-server/pkg/playable"
	"gabo-server/pkg/room/gamefactory"
	"gabo-server/pkg/token"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrGameNotFound is returned when looking up a game that does not exist
var ErrGameNotFound = errors.New("game not found")

const joinCodeLength = 6

// GameInfo is the directory listing for an active game
type GameInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	GameType  string    `json:"gameType"`
	Code      string    `json:"code"`
	Clients   int       `json:"clients"`
	CreatedAt time.Time `json:"createdAt"`
}

// PitBoss keeps the registry of active games and dispatches players to them
type PitBoss struct {
	lock    sync.RWMutex
	dealers map[string]*Dealer
	byCode  map[string]string

	connect    chan *Client
	disconnect chan *Client

	idleTimeout time.Duration
	idleTimers  map[string]*time.Timer
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(idleTimeout time.Duration) *PitBoss {
	return &PitBoss{
		dealers:     make(map[string]*Dealer),
		byCode:      make(map[string]string),
		connect:     make(chan *Client, 256),
		disconnect:  make(chan *Client, 256),
		idleTimeout: idleTimeout,
		idleTimers:  make(map[string]*time.Timer),
	}
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

// CreateGame creates a new game of the named type and registers it in the
// directory. Clients connect to it over websockets afterwards.
func (p *PitBoss) CreateGame(name, gameType string, additionalData playable.AdditionalData) (*Dealer, error) {
	factory, err := gamefactory.Get(gameType)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	code, err := token.Generate(joinCodeLength)
	if err != nil {
		return nil, err
	}

	logger := logrus.WithFields(logrus.Fields{"game": id, "gameType": gameType})
	game, err := factory.CreateGame(logger, name, additionalData)
	if err != nil {
		return nil, err
	}

	dealer := NewDealer(p, id, name, code, gameType, game)
	dealer.StartShift()

	p.lock.Lock()
	p.dealers[id] = dealer
	p.byCode[code] = id
	p.lock.Unlock()

	// an unvisited game should not linger in the directory forever
	p.scheduleIdleExpiry(dealer)

	logger.WithField("name", name).Info("created game")
	return dealer, nil
}

// Dealer finds a game by its ID or its join code
func (p *PitBoss) Dealer(idOrCode string) (*Dealer, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	if id, ok := p.byCode[idOrCode]; ok {
		idOrCode = id
	}

	dealer, ok := p.dealers[idOrCode]
	if !ok {
		return nil, ErrGameNotFound
	}

	return dealer, nil
}

// Games lists the active games, newest first
func (p *PitBoss) Games() []GameInfo {
	p.lock.RLock()
	defer p.lock.RUnlock()

	games := make([]GameInfo, 0, len(p.dealers))
	for _, dealer := range p.dealers {
		games = append(games, GameInfo{
			ID:        dealer.ID(),
			Name:      dealer.Name(),
			GameType:  dealer.GameType(),
			Code:      dealer.Code(),
			Clients:   dealer.ClientCount(),
			CreatedAt: dealer.CreatedAt(),
		})
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})

	return games
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("player", client.String()).Debug("client connected")

			dealer, err := p.Dealer(client.gameID)
			if err != nil {
				client.Send <- newErrorResponse("", err)
				close(client.Close)
				continue
			}

			p.cancelIdleExpiry(dealer.ID())
			dealer.AddClient(client)
		case client := <-p.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")

			dealer, err := p.Dealer(client.gameID)
			if err != nil {
				continue
			}

			if dealer.RemoveClient(client) {
				// keep the empty game around for a bit so players can return
				p.scheduleIdleExpiry(dealer)
			}
		}
	}
}

func (p *PitBoss) scheduleIdleExpiry(dealer *Dealer) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if timer, ok := p.idleTimers[dealer.ID()]; ok {
		timer.Stop()
	}

	p.idleTimers[dealer.ID()] = time.AfterFunc(p.idleTimeout, func() {
		p.expireIfIdle(dealer)
	})
}

func (p *PitBoss) cancelIdleExpiry(id string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if timer, ok := p.idleTimers[id]; ok {
		timer.Stop()
		delete(p.idleTimers, id)
	}
}

func (p *PitBoss) expireIfIdle(dealer *Dealer) {
	if dealer.ClientCount() > 0 {
		return
	}

	p.lock.Lock()
	delete(p.dealers, dealer.ID())
	delete(p.byCode, dealer.Code())
	delete(p.idleTimers, dealer.ID())
	p.lock.Unlock()

	dealer.EndShift()
	logrus.WithField("game", dealer.ID()).Info("removed idle game")
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}
