package room

import (
	"testing"
	"time"

	"gabo-server/pkg/playable"

	"github.com/stretchr/testify/assert"
)

func testPitBoss() *PitBoss {
	p := NewPitBoss(time.Hour)
	p.StartShift()
	return p
}

// receive waits for the next message sent to the client
func receive(t *testing.T, c *Client) interface{} {
	t.Helper()

	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}

// receiveResponse skips ahead to the next *playable.Response with the key
func receiveResponse(t *testing.T, c *Client, key string) *playable.Response {
	t.Helper()

	for i := 0; i < 20; i++ {
		if res, ok := receive(t, c).(*playable.Response); ok && res.Key == key {
			return res
		}
	}

	t.Fatalf("never received a response with key %q", key)
	return nil
}

func TestDealer_AddClient(t *testing.T) {
	pitBoss := testPitBoss()
	dealer, err := pitBoss.CreateGame("friday night", "gabo", nil)
	assert.NoError(t, err)

	client := NewClient(nil, &Player{ID: "a", Name: "Alice"}, dealer.ID())
	pitBoss.ClientConnected(client)

	res := receiveResponse(t, client, "clientState")
	players := res.Data.(map[string]*clientStatePlayers)
	assert.True(t, players["a"].IsConnected)
	assert.True(t, players["a"].IsSeated)

	// the new client gets the game state
	receiveResponse(t, client, "game")

	assert.Equal(t, 1, dealer.ClientCount())
}

func TestDealer_ReceivedMessage(t *testing.T) {
	pitBoss := testPitBoss()
	dealer, err := pitBoss.CreateGame("friday night", "gabo", nil)
	assert.NoError(t, err)

	alice := NewClient(nil, &Player{ID: "a", Name: "Alice"}, dealer.ID())
	bob := NewClient(nil, &Player{ID: "b", Name: "Bob"}, dealer.ID())
	pitBoss.ClientConnected(alice)
	pitBoss.ClientConnected(bob)
	receiveResponse(t, alice, "game")
	receiveResponse(t, bob, "game")

	// a bad action comes back as an error response
	alice.ReceivedMessage(&playable.PayloadIn{Action: "nope", Context: "ctx-1"})
	res := receiveResponse(t, alice, "error")
	assert.Equal(t, "ctx-1", res.Context)

	// starting the round succeeds and fans out new game state
	alice.ReceivedMessage(&playable.PayloadIn{Action: "start", Context: "ctx-2"})
	res = receiveResponse(t, alice, "status")
	assert.Equal(t, "OK", res.Value)
	assert.Equal(t, "ctx-2", res.Context)

	receiveResponse(t, bob, "game")
}

func TestDealer_leave(t *testing.T) {
	pitBoss := testPitBoss()
	dealer, err := pitBoss.CreateGame("friday night", "gabo", nil)
	assert.NoError(t, err)

	alice := NewClient(nil, &Player{ID: "a", Name: "Alice"}, dealer.ID())
	pitBoss.ClientConnected(alice)
	receiveResponse(t, alice, "game")

	alice.ReceivedMessage(&playable.PayloadIn{Action: "leave", Context: "ctx-1"})
	res := receiveResponse(t, alice, "status")
	assert.Equal(t, "OK", res.Value)

	// left the seat but is still connected
	res = receiveResponse(t, alice, "clientState")
	players := res.Data.(map[string]*clientStatePlayers)
	assert.True(t, players["a"].IsConnected)
	assert.False(t, players["a"].IsSeated)
}

func TestDealer_spectatorOverflow(t *testing.T) {
	pitBoss := testPitBoss()
	dealer, err := pitBoss.CreateGame("friday night", "gabo", playable.AdditionalData{
		"playerLimit": float64(1),
	})
	assert.NoError(t, err)

	alice := NewClient(nil, &Player{ID: "a", Name: "Alice"}, dealer.ID())
	pitBoss.ClientConnected(alice)
	receiveResponse(t, alice, "game")

	// the table only has one seat; bob spectates
	bob := NewClient(nil, &Player{ID: "b", Name: "Bob"}, dealer.ID())
	pitBoss.ClientConnected(bob)

	res := receiveResponse(t, bob, "clientState")
	players := res.Data.(map[string]*clientStatePlayers)
	assert.True(t, players["b"].IsConnected)
	assert.False(t, players["b"].IsSeated)
	assert.True(t, players["a"].IsSeated)
}
