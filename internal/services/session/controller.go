package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/player"
	"github.com/mcoot/gamehub/internal/storage"
)

// DefaultListLimit is the number of sessions returned for a player when no limit is given
const DefaultListLimit = 10

// DefaultPlayerName is used for participants listed without a name
const DefaultPlayerName = "Anonymous"

// ErrSettlementIncomplete is returned by End when results were stored but some stats could not be applied
var ErrSettlementIncomplete = errors.New("session settlement incomplete")

// CreateInput holds the fields of a new session
type CreateInput struct {
	GameID  model.GameID
	LobbyID model.LobbyID
	Players []model.SessionPlayer
	Wager   float64 // zero means inherit the lobby's wager, if any
}

// Controller runs sessions from creation through settlement
type Controller struct {
	storage storage.Storage
	players *player.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new session Controller
func NewController(
	storage storage.Storage,
	players *player.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		players: players,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Create starts a session. A lobby that was started already carries the session ID to use.
// The game and lobby are not required to exist.
func (c *Controller) Create(ctx context.Context, in CreateInput) (*model.Session, error) {
	if in.GameID == "" || len(in.Players) == 0 {
		return nil, model.NewValidationError("Missing required session information")
	}
	if in.Wager < 0 {
		return nil, model.NewValidationError("Wager cannot be negative")
	}

	players := make([]model.SessionPlayer, 0, len(in.Players))
	seen := make(map[model.PlayerID]bool, len(in.Players))
	for _, p := range in.Players {
		if p.ID == "" {
			return nil, model.NewValidationError("Every session player needs an id")
		}
		if seen[p.ID] {
			return nil, model.NewValidationError("Duplicate session player: %s", p.ID)
		}
		seen[p.ID] = true
		if p.Name == "" {
			p.Name = DefaultPlayerName
		}
		players = append(players, p)
	}

	sessionID := model.SessionID("")
	wager := in.Wager
	if in.LobbyID != "" {
		// Games and lobbies are soft references. A lobby that is gone just leaves no ID to adopt.
		lobby, err := c.storage.GetLobby(ctx, in.LobbyID)
		switch {
		case err == nil:
			sessionID = lobby.SessionID
			if wager == 0 {
				wager = lobby.Wager
			}
		case !errors.Is(err, model.ErrLobbyNotFound):
			return nil, err
		}
	}
	if sessionID == "" {
		sessionID = model.SessionID(c.random.ID())
	}

	now := c.clock.Now()
	session := &model.Session{
		ID:        sessionID,
		GameID:    in.GameID,
		LobbyID:   in.LobbyID,
		Players:   players,
		Wager:     wager,
		State:     append(json.RawMessage(nil), model.InitialSessionState...),
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session created", "session_id", session.ID, "game_id", session.GameID, "players", len(players))
	return session, nil
}

// Get retrieves a session by ID
func (c *Controller) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// UpdateState replaces the state document of a running session
func (c *Controller) UpdateState(ctx context.Context, id model.SessionID, state json.RawMessage) (*model.Session, error) {
	trimmed := bytes.TrimSpace(state)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, model.NewValidationError("State is required")
	}
	if !json.Valid(trimmed) {
		return nil, model.NewValidationError("State must be valid JSON")
	}

	return c.storage.UpdateSession(ctx, id, func(s *model.Session) error {
		if s.HasEnded() {
			return model.ErrSessionEnded
		}
		s.State = append(json.RawMessage(nil), trimmed...)
		s.UpdatedAt = c.clock.Now()
		return nil
	})
}

// End records results and settles player stats.
//
// Results are stored before any stats change, so a session can only be settled once.
// Stats are then applied one player at a time, and a winner who did not take part only
// gains the win. Players without a record are skipped. Any other failure is logged and
// reported through ErrSettlementIncomplete once the remaining players have been settled.
func (c *Controller) End(ctx context.Context, id model.SessionID, results *model.SessionResults) (*model.Session, error) {
	if results == nil {
		return nil, model.NewValidationError("Results are required")
	}

	session, err := c.storage.UpdateSession(ctx, id, func(s *model.Session) error {
		if s.HasEnded() {
			return model.ErrSessionEnded
		}
		now := c.clock.Now()
		stored := *results
		s.Results = &stored
		s.EndedAt = &now
		s.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	var errs []error
	settle := func(playerID model.PlayerID, err error) {
		if err == nil {
			return
		}
		if errors.Is(err, model.ErrPlayerNotFound) {
			c.logger.Debug("skipping stats for unknown player", "session_id", id, "player_id", playerID)
			return
		}
		c.logger.Error("failed to settle player", "session_id", id, "player_id", playerID, "error", err)
		errs = append(errs, fmt.Errorf("player %s: %w", playerID, err))
	}

	winner := session.Results.Winner
	for _, p := range session.Players {
		reward, _ := session.Results.RewardFor(p.ID)
		outcome := model.Outcome{
			Won:     p.ID == winner,
			Wagered: session.Wager,
			Reward:  reward,
		}
		settle(p.ID, c.players.RecordOutcome(ctx, p.ID, outcome))
	}

	// A declared winner outside the participant list is still credited the win
	if winner != "" && !session.HasPlayer(winner) {
		settle(winner, c.players.RecordWin(ctx, winner))
	}

	if len(errs) > 0 {
		return session, fmt.Errorf("%w: %w", ErrSettlementIncomplete, errors.Join(errs...))
	}

	c.logger.Info("session ended", "session_id", id, "winner", session.Results.Winner)
	return session, nil
}

// ListForPlayer returns a player's sessions, most recently started first
func (c *Controller) ListForPlayer(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.Session, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return c.storage.ListSessionsForPlayer(ctx, playerID, limit)
}
