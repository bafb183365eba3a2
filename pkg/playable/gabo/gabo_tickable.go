package gabo

import "time"

// Delay specifies how frequently a Tick() should happen
func (g *Game) Delay() time.Duration {
	return g.options.GiveInterval
}

// Tick is called every Delay() to progress the state of the game.
// Gabo advances on player actions alone; the tick only reports whether a give
// countdown changed something since the last broadcast.
func (g *Game) Tick() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pendingUpdate {
		g.pendingUpdate = false
		return true, nil
	}

	return false, nil
}
