package storage

import (
	"context"
	"errors"

	"github.com/mcoot/gamehub/internal/model"
)

// ErrDelete may be returned from a lobby mutation to remove the lobby instead of saving it
var ErrDelete = errors.New("delete document")

// LobbyFilter narrows ListLobbies. Zero values match everything.
type LobbyFilter struct {
	GameID model.GameID
	Status model.LobbyStatus
}

// Storage defines the interface for data persistence.
//
// The Update* operations run fn against the current document and persist the result atomically
// with respect to other updates of the same document. If fn returns an error nothing is written
// and the error is returned unchanged, except ErrDelete for lobbies.
type Storage interface {
	// Player operations
	CreatePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error)
	GetPlayerByWallet(ctx context.Context, wallet string) (*model.Player, error)
	UpdatePlayer(ctx context.Context, id model.PlayerID, fn func(*model.Player) error) (*model.Player, error)
	TopPlayers(ctx context.Context, limit int) ([]*model.Player, error)

	// Game catalog operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)

	// Lobby operations
	SaveLobby(ctx context.Context, lobby *model.Lobby) error
	GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error)
	ListLobbies(ctx context.Context, filter LobbyFilter) ([]*model.Lobby, error)
	// UpdateLobby returns the mutated lobby. When fn returns ErrDelete the lobby is removed
	// and the mutated value is still returned with a nil error.
	UpdateLobby(ctx context.Context, id model.LobbyID, fn func(*model.Lobby) error) (*model.Lobby, error)

	// Session operations
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	UpdateSession(ctx context.Context, id model.SessionID, fn func(*model.Session) error) (*model.Session, error)
	ListSessionsForPlayer(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.Session, error)
}
