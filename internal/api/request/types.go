package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/gamehub/internal/api/apierr"
	"github.com/mcoot/gamehub/internal/model"
)

// maxBodyBytes bounds request bodies; session state documents are the largest payloads
const maxBodyBytes = 1 << 20

// Decode reads a JSON body into v. An empty body leaves v untouched.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apierr.NewInvalidRequestError("Invalid request body")
	}
	return nil
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	WalletAddress string `json:"walletAddress"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// WalletAuthRequest is the request body for wallet sign-in
type WalletAuthRequest struct {
	WalletAddress string `json:"walletAddress"`
	Signature     string `json:"signature"`
}

// UpdatePlayerRequest is the request body for updating the caller's profile.
// Fields other than name are ignored.
type UpdatePlayerRequest struct {
	Name *string `json:"name"`
}

// GameMode is a mode in game create and update requests
type GameMode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Players     int     `json:"players"`
	MinWager    float64 `json:"minWager"`
}

// ModesToModel converts the request modes
func ModesToModel(modes []GameMode) []model.GameMode {
	if modes == nil {
		return nil
	}
	out := make([]model.GameMode, len(modes))
	for i, m := range modes {
		out[i] = model.GameMode{
			ID:          model.ModeID(m.ID),
			Name:        m.Name,
			Description: m.Description,
			Players:     m.Players,
			MinWager:    m.MinWager,
		}
	}
	return out
}

// CreateGameRequest is the request body for adding a catalog game
type CreateGameRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Thumbnail   string     `json:"thumbnail"`
	Modes       []GameMode `json:"modes"`
}

// UpdateGameRequest is the request body for patching a catalog game
type UpdateGameRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Thumbnail   string     `json:"thumbnail"`
	Modes       []GameMode `json:"modes"`
	Status      string     `json:"status"`
}

// CreateLobbyRequest is the request body for creating a lobby.
// HostID and HostName default to the authenticated caller.
type CreateLobbyRequest struct {
	GameID     string  `json:"gameId"`
	HostID     string  `json:"hostId"`
	HostName   string  `json:"hostName"`
	GameMode   string  `json:"gameMode"`
	MaxPlayers int     `json:"maxPlayers"`
	Wager      float64 `json:"wager"`
}

// JoinLobbyRequest is the request body for joining a lobby
type JoinLobbyRequest struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// LeaveLobbyRequest is the request body for leaving a lobby
type LeaveLobbyRequest struct {
	PlayerID string `json:"playerId"`
}

// ReadyRequest is the request body for the ready flag. A missing isReady toggles.
type ReadyRequest struct {
	PlayerID string `json:"playerId"`
	IsReady  *bool  `json:"isReady"`
}

// StartLobbyRequest is the request body for starting a lobby
type StartLobbyRequest struct {
	HostID string `json:"hostId"`
}

// SessionPlayer is a participant in a session create request
type SessionPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	GameID  string          `json:"gameId"`
	LobbyID string          `json:"lobbyId"`
	Players []SessionPlayer `json:"players"`
	Wager   float64         `json:"wager"`
}

// UpdateStateRequest is the request body for replacing session state
type UpdateStateRequest struct {
	State json.RawMessage `json:"state"`
}

// PlayerScore is a score entry in session results
type PlayerScore struct {
	PlayerID string  `json:"playerId"`
	Score    float64 `json:"score"`
}

// PlayerReward is a reward entry in session results
type PlayerReward struct {
	PlayerID string  `json:"playerId"`
	Amount   float64 `json:"amount"`
}

// Results are the reported outcome of a session
type Results struct {
	Winner  string         `json:"winner"`
	Scores  []PlayerScore  `json:"scores"`
	Rewards []PlayerReward `json:"rewards"`
}

// ToModel converts the results
func (r *Results) ToModel() *model.SessionResults {
	if r == nil {
		return nil
	}
	out := &model.SessionResults{
		Winner:  model.PlayerID(r.Winner),
		Scores:  make([]model.PlayerScore, len(r.Scores)),
		Rewards: make([]model.PlayerReward, len(r.Rewards)),
	}
	for i, s := range r.Scores {
		out.Scores[i] = model.PlayerScore{PlayerID: model.PlayerID(s.PlayerID), Score: s.Score}
	}
	for i, rw := range r.Rewards {
		out.Rewards[i] = model.PlayerReward{PlayerID: model.PlayerID(rw.PlayerID), Amount: rw.Amount}
	}
	return out
}

// EndSessionRequest is the request body for ending a session
type EndSessionRequest struct {
	Results *Results `json:"results"`
}
