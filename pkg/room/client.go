package room

import (
	"fmt"

	"gabo-server/pkg/playable"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Player identifies a connected guest
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// Send is a channel for sending messages to the client
	Send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer *Dealer

	player *Player
	gameID string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, player *Player, gameID string) *Client {
	return &Client{
		Send:   make(chan interface{}, 256),
		Close:  make(chan string),
		Conn:   conn,
		player: player,
		gameID: gameID,
	}
}

// Player returns the identity of the connected player
func (c *Client) Player() *Player {
	return c.player
}

// GameID returns the ID of the game the client connected to
func (c *Client) GameID() string {
	return c.gameID
}

// String returns a traceable identifier for the player and game
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.player.ID, c.gameID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	if c.dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}
