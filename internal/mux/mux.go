package mux

import (
	"context"
	"net/http"
	"strings"
	"time"

	"gabo-server/internal/config"
	"gabo-server/internal/jwt"
	"gabo-server/pkg/room"

	gmux "github.com/gorilla/mux"
)

type ctxKey int

const ctxPlayerKey ctxKey = iota

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string) *Mux {
	idleTimeout := time.Second * time.Duration(config.Instance().GameIdleTimeout)
	pitBoss := room.NewPitBoss(idleTimeout)
	pitBoss.StartShift()

	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/player").Handler(this.postPlayer())
	}

	// requires bearer authorization
	{
		r := this.authRouter
		r.Methods(http.MethodGet).Path("/game").Handler(this.getGame())
		r.Methods(http.MethodPost).Path("/game").Handler(this.postGame())
		r.Methods(http.MethodGet).Path("/game/{id}/ws").Handler(this.getGameIDWS())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		id, name, err := jwt.Validate(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		player := &room.Player{ID: id, Name: name}
		newCtx := context.WithValue(r.Context(), ctxPlayerKey, player)
		w.Header().Set("Gabo-PlayerID", player.ID)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
