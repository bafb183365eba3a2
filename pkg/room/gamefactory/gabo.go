package gamefactory

import (
	"fmt"

	"gabo-server/pkg/playable"
	"gabo-server/pkg/playable/gabo"

	"github.com/sirupsen/logrus"
)

type gaboFactory struct{}

func (g gaboFactory) CreateGame(logger logrus.FieldLogger, name string, additionalData playable.AdditionalData) (playable.Playable, error) {
	return gabo.NewGame(logger, name, optionsFromData(additionalData)), nil
}

func (g gaboFactory) Details(additionalData playable.AdditionalData) (string, error) {
	opts := optionsFromData(additionalData)
	return fmt.Sprintf("Gabo (%d cards)", opts.HandSize), nil
}

func optionsFromData(additionalData playable.AdditionalData) gabo.Options {
	opts := gabo.DefaultOptions()
	if handSize, ok := additionalData.GetInt("handSize"); ok {
		opts.HandSize = handSize
	}

	if playerLimit, ok := additionalData.GetInt("playerLimit"); ok {
		opts.PlayerLimit = playerLimit
	}

	return opts
}
