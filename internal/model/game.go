package model

import "time"

// GameID uniquely identifies a catalog game
type GameID string

// ModeID identifies a mode within a game
type ModeID string

// GameStatus is the availability of a catalog game
type GameStatus string

const (
	GameStatusActive      GameStatus = "active"
	GameStatusMaintenance GameStatus = "maintenance"
	GameStatusDeprecated  GameStatus = "deprecated"
)

// Valid returns true if the status is one of the known values
func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusActive, GameStatusMaintenance, GameStatusDeprecated:
		return true
	default:
		return false
	}
}

// GameMode is a named ruleset variant of a game
type GameMode struct {
	ID          ModeID
	Name        string
	Description string
	Players     int     // players per match in this mode
	MinWager    float64 // lowest stake a lobby in this mode may set
}

// Game is a catalog entry
type Game struct {
	ID          GameID
	Name        string
	Description string
	Thumbnail   string
	Modes       []GameMode
	Status      GameStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GetMode returns the mode with the given ID, or nil if not found
func (g *Game) GetMode(id ModeID) *GameMode {
	for i := range g.Modes {
		if g.Modes[i].ID == id {
			return &g.Modes[i]
		}
	}
	return nil
}

// Clone returns a copy of the game that shares no mutable state
func (g *Game) Clone() *Game {
	c := *g
	c.Modes = append([]GameMode(nil), g.Modes...)
	return &c
}
