package model

import (
	"encoding/json"
	"time"
)

// SessionID uniquely identifies a game session
type SessionID string

// InitialSessionState is the state blob a new session starts with
var InitialSessionState = json.RawMessage(`{"status":"initializing"}`)

// SessionPlayer is a participant snapshot
type SessionPlayer struct {
	ID   PlayerID
	Name string
}

// PlayerScore is a per-player score in session results
type PlayerScore struct {
	PlayerID PlayerID
	Score    float64
}

// PlayerReward is a per-player payout in session results
type PlayerReward struct {
	PlayerID PlayerID
	Amount   float64
}

// SessionResults is the outcome reported when a session ends
type SessionResults struct {
	Winner  PlayerID // empty if no winner was declared
	Scores  []PlayerScore
	Rewards []PlayerReward
}

// RewardFor returns the reward for the player, if any
func (r *SessionResults) RewardFor(playerID PlayerID) (float64, bool) {
	for _, rw := range r.Rewards {
		if rw.PlayerID == playerID {
			return rw.Amount, true
		}
	}
	return 0, false
}

// Session is a single started or finished game instance.
// State is opaque to the server: each game type defines its own shape.
type Session struct {
	ID        SessionID
	GameID    GameID
	LobbyID   LobbyID // empty when created without a lobby
	Players   []SessionPlayer
	Wager     float64
	State     json.RawMessage
	Results   *SessionResults
	StartedAt time.Time
	EndedAt   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasEnded returns true once results have been recorded
func (s *Session) HasEnded() bool {
	return s.EndedAt != nil
}

// HasPlayer returns true if the player participates in the session
func (s *Session) HasPlayer(playerID PlayerID) bool {
	for _, p := range s.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// Clone returns a copy of the session that shares no mutable state
func (s *Session) Clone() *Session {
	c := *s
	c.Players = append([]SessionPlayer(nil), s.Players...)
	c.State = append(json.RawMessage(nil), s.State...)
	if s.Results != nil {
		r := *s.Results
		r.Scores = append([]PlayerScore(nil), s.Results.Scores...)
		r.Rewards = append([]PlayerReward(nil), s.Results.Rewards...)
		c.Results = &r
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	return &c
}
