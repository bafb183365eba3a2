package gabo

import "errors"

// ErrNotYourTurn is returned when a player acts out of turn
var ErrNotYourTurn = errors.New("it is not your turn")

// ErrWrongState is returned when the action is not valid for the current game or ability state
var ErrWrongState = errors.New("you cannot perform that action right now")

// ErrEmptyDeck is returned when a draw is attempted and no cards remain anywhere to draw
var ErrEmptyDeck = errors.New("the deck is empty")

// ErrEmptyPile is returned when a pile draw is attempted on an empty pile
var ErrEmptyPile = errors.New("the pile is empty")

// ErrCardNotFound is returned when the named slot has no card
var ErrCardNotFound = errors.New("no card at that slot")

// ErrInvalidTarget is returned when the named target is not allowed, such as
// looking at your own card with a look-other ability
var ErrInvalidTarget = errors.New("invalid target")

// ErrGameFull is returned when the game has reached its player limit
var ErrGameFull = errors.New("the game is full")

// ErrAlreadyJoined is returned when the participant is already in the game
var ErrAlreadyJoined = errors.New("you already joined this game")

// ErrPlayerNotFound is returned when the named player is not in the game
var ErrPlayerNotFound = errors.New("player not found with that ID")
