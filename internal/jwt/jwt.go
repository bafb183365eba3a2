package jwt

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"gabo-server/internal/config"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Issuer issues the JWT
const Issuer = "gabo-server"

// Audience is the intended JWT audience
const Audience = "gabo"

var signingKey []byte

// guestClaims are the claims in a guest session token
type guestClaims struct {
	jwtgo.RegisteredClaims
	Name string `json:"name"`
}

// LoadSigningKey will load the signing key from the configuration
// this method should only be called once.
func LoadSigningKey() {
	if key := config.Instance().JWT.SigningKey; key != "" {
		signingKey = []byte(key)
		return
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		logrus.WithError(err).Fatal("could not generate a signing key")
	}

	signingKey = key
	logrus.Warn("no JWT signing key configured; sessions will not survive a restart")
}

// SetSigningKey overrides the signing key, primarily for tests
func SetSigningKey(key []byte) {
	signingKey = key
}

// Sign will sign a guest session token for the player
func Sign(playerID, name string) (string, error) {
	if signingKey == nil {
		panic("LoadSigningKey() not called")
	}

	token := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, guestClaims{
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience: jwtgo.ClaimStrings{Audience},
			ID:       uuid.New().String(),
			IssuedAt: jwtgo.NewNumericDate(time.Now()),
			Issuer:   Issuer,
			Subject:  playerID,
		},
		Name: name,
	})

	return token.SignedString(signingKey)
}

// Validate will validate a signed token and return the player ID and display name
func Validate(signedString string) (playerID, name string, err error) {
	if signingKey == nil {
		panic("LoadSigningKey() not called")
	}

	token, err := jwtgo.ParseWithClaims(signedString, &guestClaims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, errors.New("expected HS256 signing method")
		}

		return signingKey, nil
	})

	if err != nil {
		return "", "", err
	}

	if token.Valid {
		if claims, ok := token.Claims.(*guestClaims); ok {
			if !containsAudience(claims.Audience, Audience) {
				return "", "", errors.New("invalid audience")
			}

			if claims.Issuer != Issuer {
				return "", "", errors.New("invalid issuer")
			}

			if claims.Subject == "" {
				return "", "", errors.New("missing subject")
			}

			return claims.Subject, claims.Name, nil
		}

		return "", "", fmt.Errorf("expected guestClaims, got %T", token.Claims)
	}

	logrus.Warn("token claims were not valid. did not expect to reach this code")
	return "", "", errors.New("claims were not valid")
}

func containsAudience(audiences jwtgo.ClaimStrings, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}
