package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrWalletTaken    = errors.New("wallet address already registered")

	// Game catalog errors
	ErrGameNotFound     = errors.New("game not found")
	ErrGameModeNotFound = errors.New("game mode not found")

	// Lobby errors
	ErrLobbyNotFound   = errors.New("lobby not found")
	ErrLobbyNotWaiting = errors.New("lobby is not accepting players")
	ErrAlreadyInLobby  = errors.New("player is already in lobby")
	ErrNotInLobby      = errors.New("player is not in lobby")
	ErrNotHost         = errors.New("player is not the host")
	ErrPlayersNotReady = errors.New("not all players are ready")
	ErrLobbyStarted    = errors.New("lobby has already started")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionEnded    = errors.New("session has already ended")

	// Storage errors
	ErrConflict = errors.New("concurrent modification")
)

// ValidationError is a rejected input. Message is safe to show to the caller.
type ValidationError struct {
	Message string
	Err     error // optional sentinel for errors.Is matching
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError with a formatted message
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
