package mux

import (
	"errors"
	"net/http"
	"regexp"

	"gabo-server/internal/jwt"
	"gabo-server/internal/util"
	"gabo-server/pkg/room"

	"github.com/google/uuid"
)

type playerPayload struct {
	DisplayName string `json:"displayName"`
}

type postPlayerResponse struct {
	JWT    string       `json:"jwt"`
	Player *room.Player `json:"player"`
}

var validDisplayNameRx = regexp.MustCompile(`^[\p{L}\p{N} ]{0,40}\z`)

// postPlayer creates a guest identity. There are no accounts; the returned
// token is the only proof of who the player is.
func (m *Mux) postPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp playerPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if !validDisplayNameRx.MatchString(pp.DisplayName) {
			writeJSONError(w, http.StatusBadRequest, errors.New("display name must only contain letters, numbers, and spaces, and be 40 characters or less"))
			return
		}

		displayName := pp.DisplayName
		if displayName == "" {
			displayName = util.GetRandomName()
		}

		player := &room.Player{
			ID:   uuid.New().String(),
			Name: displayName,
		}

		signedToken, err := jwt.Sign(player.ID, player.Name)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, postPlayerResponse{
			JWT:    signedToken,
			Player: player,
		})
	}
}
