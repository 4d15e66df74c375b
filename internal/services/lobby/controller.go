package lobby

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/catalog"
	"github.com/mcoot/gamehub/internal/storage"
)

// DefaultPlayerName is used when a host or joiner gives no display name
const DefaultPlayerName = "Anonymous"

// CreateInput holds the fields of a new lobby
type CreateInput struct {
	GameID     model.GameID
	HostID     model.PlayerID
	HostName   string
	GameMode   model.ModeID
	MaxPlayers int
	Wager      float64
}

// LeaveResult is the outcome of a leave. Deleted is set when the last member left.
type LeaveResult struct {
	Lobby   *model.Lobby
	Deleted bool
}

// Controller manages the lobby state machine and its members
type Controller struct {
	storage storage.Storage
	catalog *catalog.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new lobby Controller
func NewController(
	storage storage.Storage,
	catalog *catalog.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		catalog: catalog,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// List returns lobbies matching the filter, newest first
func (c *Controller) List(ctx context.Context, filter storage.LobbyFilter) ([]*model.Lobby, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, model.NewValidationError("Invalid lobby status: %s", filter.Status)
	}
	return c.storage.ListLobbies(ctx, filter)
}

// Get retrieves a lobby by ID
func (c *Controller) Get(ctx context.Context, id model.LobbyID) (*model.Lobby, error) {
	return c.storage.GetLobby(ctx, id)
}

// Create opens a lobby for a mode of a catalog game with the host as its first, ready member
func (c *Controller) Create(ctx context.Context, in CreateInput) (*model.Lobby, error) {
	if in.GameID == "" || in.HostID == "" || in.GameMode == "" || in.MaxPlayers < 1 {
		return nil, model.NewValidationError("Missing required lobby information")
	}
	if in.Wager < 0 {
		return nil, model.NewValidationError("Wager cannot be negative")
	}

	game, err := c.catalog.Get(ctx, in.GameID)
	if err != nil {
		return nil, err
	}
	mode := game.GetMode(in.GameMode)
	if mode == nil {
		return nil, model.ErrGameModeNotFound
	}

	hostName := in.HostName
	if hostName == "" {
		hostName = DefaultPlayerName
	}

	now := c.clock.Now()
	lobby := &model.Lobby{
		ID:           model.LobbyID(c.random.ID()),
		GameID:       game.ID,
		HostID:       in.HostID,
		HostName:     hostName,
		GameMode:     mode.ID,
		GameModeName: mode.Name,
		MaxPlayers:   in.MaxPlayers,
		Wager:        in.Wager,
		Players: []model.LobbyMember{
			{ID: in.HostID, Name: hostName, IsReady: true},
		},
		Status:    model.LobbyStatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	lobby.SyncStatus()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}

	c.logger.Info("lobby created", "lobby_id", lobby.ID, "game_id", lobby.GameID, "host_id", lobby.HostID)
	return lobby, nil
}

// Join adds a player to a waiting lobby
func (c *Controller) Join(ctx context.Context, id model.LobbyID, playerID model.PlayerID, playerName string) (*model.Lobby, error) {
	if playerID == "" {
		return nil, model.NewValidationError("Player ID is required")
	}
	if playerName == "" {
		playerName = DefaultPlayerName
	}

	return c.storage.UpdateLobby(ctx, id, func(l *model.Lobby) error {
		if l.Status != model.LobbyStatusWaiting {
			return &model.ValidationError{
				Message: "Cannot join lobby: " + string(l.Status),
				Err:     model.ErrLobbyNotWaiting,
			}
		}
		if l.GetMember(playerID) != nil {
			return model.ErrAlreadyInLobby
		}

		l.Players = append(l.Players, model.LobbyMember{ID: playerID, Name: playerName})
		l.SyncStatus()
		l.UpdatedAt = c.clock.Now()
		return nil
	})
}

// Leave removes a player. A departing host hands over to the earliest remaining member,
// who becomes ready; the last member leaving deletes the lobby.
func (c *Controller) Leave(ctx context.Context, id model.LobbyID, playerID model.PlayerID) (*LeaveResult, error) {
	if playerID == "" {
		return nil, model.NewValidationError("Player ID is required")
	}

	deleted := false
	lobby, err := c.storage.UpdateLobby(ctx, id, func(l *model.Lobby) error {
		deleted = false
		if !l.RemoveMember(playerID) {
			return model.ErrNotInLobby
		}

		if len(l.Players) == 0 {
			deleted = true
			return storage.ErrDelete
		}

		if playerID == l.HostID {
			next := &l.Players[0]
			l.HostID = next.ID
			l.HostName = next.Name
			next.IsReady = true
		}

		l.SyncStatus()
		l.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if deleted {
		c.logger.Info("lobby deleted", "lobby_id", id)
	}
	return &LeaveResult{Lobby: lobby, Deleted: deleted}, nil
}

// SetReady sets a member's ready flag, or toggles it when ready is nil
func (c *Controller) SetReady(ctx context.Context, id model.LobbyID, playerID model.PlayerID, ready *bool) (*model.Lobby, error) {
	if playerID == "" {
		return nil, model.NewValidationError("Player ID is required")
	}

	return c.storage.UpdateLobby(ctx, id, func(l *model.Lobby) error {
		member := l.GetMember(playerID)
		if member == nil {
			return model.ErrNotInLobby
		}

		if ready != nil {
			member.IsReady = *ready
		} else {
			member.IsReady = !member.IsReady
		}
		l.UpdatedAt = c.clock.Now()
		return nil
	})
}

// Start moves the lobby to in-progress and mints the session ID players will use.
// Only the host may start, and only once every member is ready.
func (c *Controller) Start(ctx context.Context, id model.LobbyID, hostID model.PlayerID) (*model.Lobby, error) {
	if hostID == "" {
		return nil, model.NewValidationError("Host ID is required")
	}

	lobby, err := c.storage.UpdateLobby(ctx, id, func(l *model.Lobby) error {
		if l.HostID != hostID {
			return model.ErrNotHost
		}
		if l.Status == model.LobbyStatusInProgress {
			return model.ErrLobbyStarted
		}
		if !l.AllReady() {
			return model.ErrPlayersNotReady
		}

		if l.SessionID == "" {
			l.SessionID = model.SessionID(c.random.ID())
		}
		l.Status = model.LobbyStatusInProgress
		l.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotHost) {
			c.logger.Warn("non-host tried to start lobby", "lobby_id", id, "player_id", hostID)
		}
		return nil, err
	}

	c.logger.Info("lobby started", "lobby_id", lobby.ID, "session_id", lobby.SessionID)
	return lobby, nil
}
