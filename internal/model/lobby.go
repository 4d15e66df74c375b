package model

import "time"

// LobbyID uniquely identifies a lobby
type LobbyID string

// LobbyStatus represents the current state of a lobby
type LobbyStatus string

const (
	LobbyStatusWaiting    LobbyStatus = "waiting"     // Open for joins
	LobbyStatusFull       LobbyStatus = "full"        // Member count reached MaxPlayers
	LobbyStatusInProgress LobbyStatus = "in-progress" // Started by the host, terminal
)

// Valid returns true if the status is one of the known values
func (s LobbyStatus) Valid() bool {
	switch s {
	case LobbyStatusWaiting, LobbyStatusFull, LobbyStatusInProgress:
		return true
	default:
		return false
	}
}

// LobbyMember is a player waiting in a lobby
type LobbyMember struct {
	ID      PlayerID
	Name    string
	IsReady bool
}

// Lobby is a pre-game waiting room for one mode of a game.
// GameModeName is copied from the catalog at creation and never refreshed.
type Lobby struct {
	ID           LobbyID
	GameID       GameID
	HostID       PlayerID
	HostName     string
	GameMode     ModeID
	GameModeName string
	MaxPlayers   int
	Wager        float64
	Players      []LobbyMember // join order, host first at creation
	Status       LobbyStatus
	SessionID    SessionID // minted by start, empty before
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GetMember returns the member with the given player ID, or nil if not found
func (l *Lobby) GetMember(playerID PlayerID) *LobbyMember {
	for i := range l.Players {
		if l.Players[i].ID == playerID {
			return &l.Players[i]
		}
	}
	return nil
}

// RemoveMember drops the member with the given ID and reports whether it was present
func (l *Lobby) RemoveMember(playerID PlayerID) bool {
	for i, m := range l.Players {
		if m.ID == playerID {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			return true
		}
	}
	return false
}

// AllReady returns true if every member is ready
func (l *Lobby) AllReady() bool {
	for _, m := range l.Players {
		if !m.IsReady {
			return false
		}
	}
	return true
}

// IsFull returns true if membership has reached MaxPlayers
func (l *Lobby) IsFull() bool {
	return len(l.Players) >= l.MaxPlayers
}

// SyncStatus recomputes waiting/full from membership. In-progress is left alone.
func (l *Lobby) SyncStatus() {
	if l.Status == LobbyStatusInProgress {
		return
	}
	if l.IsFull() {
		l.Status = LobbyStatusFull
	} else {
		l.Status = LobbyStatusWaiting
	}
}

// Clone returns a copy of the lobby that shares no mutable state
func (l *Lobby) Clone() *Lobby {
	c := *l
	c.Players = append([]LobbyMember(nil), l.Players...)
	return &c
}
