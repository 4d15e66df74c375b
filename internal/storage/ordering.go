package storage

import (
	"sort"

	"github.com/mcoot/gamehub/internal/model"
)

// RankPlayers orders players for the leaderboard: most wins first, then earliest
// created, then by ID so equal records always come out the same way.
func RankPlayers(players []*model.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.Stats.GamesWon != b.Stats.GamesWon {
			return a.Stats.GamesWon > b.Stats.GamesWon
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// SortLobbiesNewest orders lobbies by creation time, newest first
func SortLobbiesNewest(lobbies []*model.Lobby) {
	sort.SliceStable(lobbies, func(i, j int) bool {
		if !lobbies[i].CreatedAt.Equal(lobbies[j].CreatedAt) {
			return lobbies[i].CreatedAt.After(lobbies[j].CreatedAt)
		}
		return lobbies[i].ID < lobbies[j].ID
	})
}

// SortSessionsRecent orders sessions by start time, most recent first
func SortSessionsRecent(sessions []*model.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.After(sessions[j].StartedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})
}

// MatchLobby reports whether the lobby passes the filter
func (f LobbyFilter) MatchLobby(l *model.Lobby) bool {
	if f.GameID != "" && l.GameID != f.GameID {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	return true
}
