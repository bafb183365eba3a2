package room

import (
	"errors"
	"sync"
	"time"

	"gabo-server/pkg/playable"
	"gabo-server/pkg/playable/gabo"

	"github.com/sirupsen/logrus"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
	stateGameEnded
)

// Seating is a game that manages its own roster. Connected clients are seated
// or spectate through it.
type Seating interface {
	AddPlayer(id, name string) error
	AddSpectator(id, name string) error
	RemovePlayer(id string) error
	RemoveSpectator(id string)
	HasPlayer(id string) bool
}

// Dealer is responsible for running a single game
type Dealer struct {
	pitBoss   *PitBoss
	id        string
	name      string
	code      string
	gameType  string
	createdAt time.Time

	clients map[*Client]bool
	lock    sync.RWMutex

	game    playable.Playable
	seating Seating

	// the following are only touched from the run loop
	logMessages     []*playable.LogMessage
	announcedScores bool

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
}

// NewDealer creates a new dealer for the game
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, id, name, code, gameType string, game playable.Playable) *Dealer {
	seating, _ := game.(Seating)

	return &Dealer{
		pitBoss:       pitBoss,
		id:            id,
		name:          name,
		code:          code,
		gameType:      gameType,
		createdAt:     time.Now(),
		clients:       make(map[*Client]bool),
		game:          game,
		seating:       seating,
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
	}
}

// ID returns the unique identifier for the game
func (d *Dealer) ID() string {
	return d.id
}

// Name returns the display name of the game
func (d *Dealer) Name() string {
	return d.name
}

// Code returns the short join code for the game
func (d *Dealer) Code() string {
	return d.code
}

// GameType returns the game type identifier
func (d *Dealer) GameType() string {
	return d.gameType
}

// CreatedAt returns when the game was created
func (d *Dealer) CreatedAt() time.Time {
	return d.createdAt
}

// ClientCount returns the number of connected clients
func (d *Dealer) ClientCount() int {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return len(d.clients)
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	log := logrus.WithFields(logrus.Fields{
		"game": d.id,
		"name": d.name,
	})

	log.Debug("creating dealer run loop")

	var tick <-chan time.Time
	if tickable, ok := d.game.(playable.Tickable); ok {
		ticker := time.NewTicker(tickable.Delay())
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendPlayerData()
			case stateGameEvent:
				d.sendGameData()
			case stateGameEnded:
				d.sendGameData()
				d.sendPlayerData()
			}
		case messages := <-d.game.LogChan():
			d.addLogMessages(messages)
			for _, client := range d.Clients() {
				client.Send <- &playable.Response{Key: "logs", Data: messages}
			}
		case <-tick:
			update, err := d.game.(playable.Tickable).Tick()
			if err != nil {
				log.WithError(err).Error("tick failed")
				continue
			}

			if update {
				d.sendGameData()
			}
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			log.Debug("terminating dealer run loop")
			return
		}
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		d.seatClient(client)
		d.sendPlayerData()
		d.sendGameData()

		if len(d.logMessages) > 0 {
			client.Send <- &playable.Response{Key: "logs", Data: d.logMessages}
		}
	}
}

// seatClient seats the player, falling back to spectating when the table has
// no room mid-round. Reconnects of an already-joined player are fine.
// NOTE: must only be called from the run loop
func (d *Dealer) seatClient(client *Client) {
	if d.seating == nil {
		return
	}

	p := client.player
	err := d.seating.AddPlayer(p.ID, p.Name)
	if err == nil || errors.Is(err, gabo.ErrAlreadyJoined) {
		return
	}

	if err := d.seating.AddSpectator(p.ID, p.Name); err != nil && !errors.Is(err, gabo.ErrAlreadyJoined) {
		logrus.WithError(err).WithField("client", client.String()).Error("could not seat client")
		client.Send <- newErrorResponse("", err)
	}
}

// RemoveClient removes a client
// Seated players keep their seat so they can reconnect mid-round; spectators
// are dropped from the roster immediately.
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	stillConnected := false
	for c := range d.clients {
		if c.player.ID == client.player.ID {
			stillConnected = true
			break
		}
	}
	nClients := len(d.clients)
	d.lock.Unlock()

	if !stillConnected && d.seating != nil {
		d.execInRunLoop <- func() {
			if !d.seating.HasPlayer(client.player.ID) {
				d.seating.RemoveSpectator(client.player.ID)
			}

			d.sendPlayerData()
		}
	}

	return nClients == 0
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	for _, client := range d.Clients() {
		data, err := d.game.GetPlayerState(client.player.ID)
		if err != nil {
			logrus.WithError(err).Error("could not get player state")
			continue
		}

		client.Send <- data
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendPlayerData() {
	csPlayers := make(map[string]*clientStatePlayers)
	for _, client := range d.Clients() {
		p := client.player
		csPlayers[p.ID] = &clientStatePlayers{
			Player:      p,
			IsConnected: true,
			IsSeated:    d.seating != nil && d.seating.HasPlayer(p.ID),
		}
	}

	for _, client := range d.Clients() {
		client.Send <- &playable.Response{
			Key:  "clientState",
			Data: csPlayers,
		}
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	switch msg.Action {
	case "leave":
		d.execInRunLoop <- func() {
			if d.seating == nil {
				return
			}

			if d.seating.HasPlayer(c.player.ID) {
				if err := d.seating.RemovePlayer(c.player.ID); err != nil {
					c.Send <- newErrorResponse(msg.Context, err)
					return
				}
			} else {
				d.seating.RemoveSpectator(c.player.ID)
			}

			c.Send <- playable.OK(msg.Context)
			d.sendPlayerData()
			d.sendGameData()
		}
	default:
		action, updateState, err := d.game.Action(c.player.ID, msg)
		if err != nil {
			logrus.WithError(err).WithField("client", c.String()).Debug("could not perform action")
			c.Send <- newErrorResponse(msg.Context, err)
			return
		}

		if action != nil {
			action.Context = msg.Context
			c.Send <- action
		}

		if updateState {
			d.stateChanged <- stateGameEvent
		}

		details, isOver := d.game.GetEndOfGameDetails()
		d.execInRunLoop <- func() {
			if !isOver {
				d.announcedScores = false
				return
			}

			if d.announcedScores {
				return
			}

			d.announcedScores = true
			for _, client := range d.Clients() {
				client.Send <- &playable.Response{
					Key:  "gameEnded",
					Data: details.Scores,
				}
			}
		}
	}
}
