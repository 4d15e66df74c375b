package response

import (
	"encoding/json"
	"time"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/player"
)

// Stats represents player stats in API responses
type Stats struct {
	GamesPlayed  int     `json:"gamesPlayed"`
	GamesWon     int     `json:"gamesWon"`
	TotalWagered float64 `json:"totalWagered"`
	TotalWon     float64 `json:"totalWon"`
}

// StatsFromModel converts model.PlayerStats
func StatsFromModel(s model.PlayerStats) Stats {
	return Stats(s)
}

// Player is a player as seen by its owner. The password hash never appears here.
type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
	Stats         Stats  `json:"stats"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:            string(p.ID),
		Name:          p.Name,
		Email:         p.Email,
		WalletAddress: p.WalletAddress,
		Stats:         StatsFromModel(p.Stats),
	}
}

// PublicPlayer is a player as seen by anyone
type PublicPlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stats Stats  `json:"stats"`
}

// PublicPlayerFromProfile converts a player.Profile
func PublicPlayerFromProfile(p *player.Profile) PublicPlayer {
	return PublicPlayer{
		ID:    string(p.ID),
		Name:  p.Name,
		Stats: StatsFromModel(p.Stats),
	}
}

// AuthResponse is the response for register, login and wallet sign-in
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Player  Player `json:"player"`
}

// PlayerResponse wraps a single player
type PlayerResponse struct {
	Player any `json:"player"`
}

// PlayerUpdatedResponse is the response for a profile update
type PlayerUpdatedResponse struct {
	Message string `json:"message"`
	Player  Player `json:"player"`
}

// StatsResponse is the response for a player's stats
type StatsResponse struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Stats      Stats  `json:"stats"`
}

// TopPlayersResponse is the leaderboard
type TopPlayersResponse struct {
	TopPlayers []PublicPlayer `json:"topPlayers"`
}

// GameMode represents a game mode
type GameMode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Players     int     `json:"players"`
	MinWager    float64 `json:"minWager"`
}

// Game represents a catalog game
type Game struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Thumbnail   string     `json:"thumbnail"`
	Modes       []GameMode `json:"modes"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// GameFromModel converts a model.Game
func GameFromModel(g *model.Game) Game {
	modes := make([]GameMode, len(g.Modes))
	for i, m := range g.Modes {
		modes[i] = GameMode{
			ID:          string(m.ID),
			Name:        m.Name,
			Description: m.Description,
			Players:     m.Players,
			MinWager:    m.MinWager,
		}
	}
	return Game{
		ID:          string(g.ID),
		Name:        g.Name,
		Description: g.Description,
		Thumbnail:   g.Thumbnail,
		Modes:       modes,
		Status:      string(g.Status),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// GamesResponse lists games
type GamesResponse struct {
	Games []Game `json:"games"`
}

// GameResponse wraps a single game
type GameResponse struct {
	Message string `json:"message,omitempty"`
	Game    Game   `json:"game"`
}

// LobbyMember represents a lobby member
type LobbyMember struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsReady bool   `json:"isReady"`
}

// Lobby represents a lobby in API responses
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
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// LobbyFromModel converts a model.Lobby
func LobbyFromModel(l *model.Lobby) Lobby {
	members := make([]LobbyMember, len(l.Players))
	for i, m := range l.Players {
		members[i] = LobbyMember{ID: string(m.ID), Name: m.Name, IsReady: m.IsReady}
	}
	return Lobby{
		ID:           string(l.ID),
		GameID:       string(l.GameID),
		HostID:       string(l.HostID),
		HostName:     l.HostName,
		GameMode:     string(l.GameMode),
		GameModeName: l.GameModeName,
		MaxPlayers:   l.MaxPlayers,
		Wager:        l.Wager,
		Players:      members,
		Status:       string(l.Status),
		SessionID:    string(l.SessionID),
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// LobbiesResponse lists lobbies
type LobbiesResponse struct {
	Lobbies []Lobby `json:"lobbies"`
}

// LobbyResponse wraps a single lobby, with a message after mutations
type LobbyResponse struct {
	Message string `json:"message,omitempty"`
	Lobby   Lobby  `json:"lobby"`
}

// LobbyDeletedResponse is returned when the last member leaves
type LobbyDeletedResponse struct {
	Message string `json:"message"`
	LobbyID string `json:"lobbyId"`
}

// GameStartedResponse is returned when the host starts a lobby
type GameStartedResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	Lobby     Lobby  `json:"lobby"`
}

// SessionPlayer represents a session participant
type SessionPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerScore is a score entry
type PlayerScore struct {
	PlayerID string  `json:"playerId"`
	Score    float64 `json:"score"`
}

// PlayerReward is a reward entry
type PlayerReward struct {
	PlayerID string  `json:"playerId"`
	Amount   float64 `json:"amount"`
}

// Results are session results
type Results struct {
	Winner  string         `json:"winner,omitempty"`
	Scores  []PlayerScore  `json:"scores"`
	Rewards []PlayerReward `json:"rewards"`
}

// ResultsFromModel converts model.SessionResults, returning nil for nil
func ResultsFromModel(r *model.SessionResults) *Results {
	if r == nil {
		return nil
	}
	out := &Results{
		Winner:  string(r.Winner),
		Scores:  make([]PlayerScore, len(r.Scores)),
		Rewards: make([]PlayerReward, len(r.Rewards)),
	}
	for i, s := range r.Scores {
		out.Scores[i] = PlayerScore{PlayerID: string(s.PlayerID), Score: s.Score}
	}
	for i, rw := range r.Rewards {
		out.Rewards[i] = PlayerReward{PlayerID: string(rw.PlayerID), Amount: rw.Amount}
	}
	return out
}

// Session represents a game session
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
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// SessionFromModel converts a model.Session
func SessionFromModel(s *model.Session) Session {
	players := make([]SessionPlayer, len(s.Players))
	for i, p := range s.Players {
		players[i] = SessionPlayer{ID: string(p.ID), Name: p.Name}
	}
	state := s.State
	if len(state) == 0 {
		state = json.RawMessage("null")
	}
	return Session{
		ID:        string(s.ID),
		GameID:    string(s.GameID),
		LobbyID:   string(s.LobbyID),
		Players:   players,
		Wager:     s.Wager,
		State:     state,
		Results:   ResultsFromModel(s.Results),
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SessionCreatedResponse is returned by session create
type SessionCreatedResponse struct {
	Message   string  `json:"message"`
	SessionID string  `json:"sessionId"`
	Session   Session `json:"session"`
}

// SessionResponse wraps a single session
type SessionResponse struct {
	Session Session `json:"session"`
}

// SessionsResponse lists sessions
type SessionsResponse struct {
	Sessions []Session `json:"sessions"`
}

// SessionStateResponse is returned after a state replace
type SessionStateResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// SessionEndedResponse is returned after settlement
type SessionEndedResponse struct {
	Message   string   `json:"message"`
	SessionID string   `json:"sessionId"`
	Results   *Results `json:"results"`
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status string `json:"status"`
}
