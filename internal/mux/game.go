package mux

import (
	"errors"
	"net/http"

	"gabo-server/pkg/playable"
	"gabo-server/pkg/room"
	"gabo-server/pkg/room/gamefactory"
)

type postGamePayload struct {
	Name     string                  `json:"name"`
	GameType string                  `json:"gameType"`
	Options  playable.AdditionalData `json:"options"`
}

// getGame lists the active games
func (m *Mux) getGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.pitBoss.Games())
	}
}

// postGame creates a new game and returns its directory entry
func (m *Mux) postGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postGamePayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		gameType := payload.GameType
		if gameType == "" {
			gameType = "gabo"
		}

		factory, err := gamefactory.Get(gameType)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		name := payload.Name
		if name == "" {
			if name, err = factory.Details(payload.Options); err != nil {
				writeJSONError(w, http.StatusBadRequest, err)
				return
			}
		}

		dealer, err := m.pitBoss.CreateGame(name, gameType, payload.Options)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, room.GameInfo{
			ID:        dealer.ID(),
			Name:      dealer.Name(),
			GameType:  dealer.GameType(),
			Code:      dealer.Code(),
			CreatedAt: dealer.CreatedAt(),
		})
	}
}

func (m *Mux) lookupDealer(w http.ResponseWriter, idOrCode string) *room.Dealer {
	dealer, err := m.pitBoss.Dealer(idOrCode)
	if err != nil {
		if errors.Is(err, room.ErrGameNotFound) {
			writeJSONError(w, http.StatusNotFound, err)
		} else {
			writeJSONError(w, http.StatusInternalServerError, err)
		}

		return nil
	}

	return dealer
}
