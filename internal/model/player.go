package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// PlayerStats holds the running totals updated when sessions end
type PlayerStats struct {
	GamesPlayed  int     `json:"gamesPlayed"`
	GamesWon     int     `json:"gamesWon"`
	TotalWagered float64 `json:"totalWagered"`
	TotalWon     float64 `json:"totalWon"`
}

// Player is an identity record plus its stats.
// Email and WalletAddress are each unique across players when set.
type Player struct {
	ID            PlayerID
	Name          string
	Email         string // empty if the player authenticated with a wallet only
	PasswordHash  string // bcrypt hash, never exposed through the API
	WalletAddress string
	Stats         PlayerStats
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPassword returns true if the player can log in with email and password
func (p *Player) HasPassword() bool {
	return p.PasswordHash != ""
}

// Outcome is the per-player effect of a finished session
type Outcome struct {
	Won     bool
	Wagered float64
	Reward  float64
}

// Apply adds the outcome to the stats
func (s *PlayerStats) Apply(o Outcome) {
	s.GamesPlayed++
	if o.Won {
		s.GamesWon++
	}
	s.TotalWagered += o.Wagered
	s.TotalWon += o.Reward
}

// Clone returns a copy of the player that shares no mutable state
func (p *Player) Clone() *Player {
	c := *p
	return &c
}
