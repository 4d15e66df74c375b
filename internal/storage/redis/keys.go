package redis

import (
	"fmt"

	"github.com/mcoot/gamehub/internal/model"
)

// Key prefix for all platform data
const keyPrefix = "gamehub"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> player_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// walletIndexKey returns the Redis key for the wallet -> player_id index
func walletIndexKey(wallet string) string {
	return fmt.Sprintf("%s:idx:wallet:%s", keyPrefix, wallet)
}

// leaderboardKey returns the Redis key for the ZSET of player IDs scored by games won
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}

// gameKey returns the Redis key for a catalog Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of all game IDs
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// lobbyKey returns the Redis key for a Lobby
func lobbyKey(id model.LobbyID) string {
	return fmt.Sprintf("%s:lobby:%s", keyPrefix, id)
}

// lobbiesIndexKey returns the Redis key for the SET of all lobby IDs
func lobbiesIndexKey() string {
	return fmt.Sprintf("%s:idx:lobbies", keyPrefix)
}

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// playerSessionsIndexKey returns the Redis key for the ZSET of a player's sessions scored by start time
func playerSessionsIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_sessions:%s", keyPrefix, playerID)
}
