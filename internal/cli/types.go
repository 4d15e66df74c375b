package cli

import (
	"encoding/json"
	"time"
)

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Stats response type
type Stats struct {
	GamesPlayed  int     `json:"gamesPlayed"`
	GamesWon     int     `json:"gamesWon"`
	TotalWagered float64 `json:"totalWagered"`
	TotalWon     float64 `json:"totalWon"`
}

// Player response type (matches API)
type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
	Stats         Stats  `json:"stats"`
}

// AuthResult combines player and token
type AuthResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Player  Player `json:"player"`
}

// PlayerResult wraps a single player
type PlayerResult struct {
	Message string `json:"message,omitempty"`
	Player  Player `json:"player"`
}

// StatsResult response type
type StatsResult struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Stats      Stats  `json:"stats"`
}

// TopPlayersResult response type
type TopPlayersResult struct {
	TopPlayers []Player `json:"topPlayers"`
}

// GameMode response type
type GameMode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Players     int     `json:"players"`
	MinWager    float64 `json:"minWager"`
}

// Game response type
type Game struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Modes       []GameMode `json:"modes"`
	Status      string     `json:"status"`
}

// GameList response type
type GameList struct {
	Games []Game `json:"games"`
}

// GameResult response type
type GameResult struct {
	Message string `json:"message,omitempty"`
	Game    Game   `json:"game"`
}

// LobbyMember response type
type LobbyMember struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsReady bool   `json:"isReady"`
}

// Lobby response type
type Lobby struct {
	ID           string        `json:"id"`
	GameID       string        `json:"gameId"`
	HostID       string        `json:"hostId"`
	HostName     string        `json:"hostName"`
	GameMode     string        `json:"gameMode"`
	GameModeName string        `json:"gameModeName"`
	MaxPlayers   int           `json:"maxPlayers"`
	Wager        float64       `json:"wager"`
	Players      []LobbyMember `json:"players"`
	Status       string        `json:"status"`
	SessionID    string        `json:"sessionId,omitempty"`
}

// LobbyList response type
type LobbyList struct {
	Lobbies []Lobby `json:"lobbies"`
}

// LobbyResult covers every single-lobby response, including deletion and start
type LobbyResult struct {
	Message   string `json:"message,omitempty"`
	Lobby     *Lobby `json:"lobby,omitempty"`
	LobbyID   string `json:"lobbyId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// SessionPlayer response type
type SessionPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerScore response type
type PlayerScore struct {
	PlayerID string  `json:"playerId"`
	Score    float64 `json:"score"`
}

// PlayerReward response type
type PlayerReward struct {
	PlayerID string  `json:"playerId"`
	Amount   float64 `json:"amount"`
}

// Results response type
type Results struct {
	Winner  string         `json:"winner,omitempty"`
	Scores  []PlayerScore  `json:"scores"`
	Rewards []PlayerReward `json:"rewards"`
}

// Session response type
type Session struct {
	ID        string          `json:"id"`
	GameID    string          `json:"gameId"`
	LobbyID   string          `json:"lobbyId,omitempty"`
	Players   []SessionPlayer `json:"players"`
	Wager     float64         `json:"wager"`
	State     json.RawMessage `json:"state"`
	Results   *Results        `json:"results,omitempty"`
	StartedAt time.Time       `json:"startedAt"`
	EndedAt   *time.Time      `json:"endedAt,omitempty"`
}

// SessionList response type
type SessionList struct {
	Sessions []Session `json:"sessions"`
}

// SessionResult covers every single-session response
type SessionResult struct {
	Message   string   `json:"message,omitempty"`
	SessionID string   `json:"sessionId,omitempty"`
	Session   *Session `json:"session,omitempty"`
	Results   *Results `json:"results,omitempty"`
}
