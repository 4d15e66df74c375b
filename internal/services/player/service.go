package player

import (
	"context"
	"log/slog"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

// DefaultTopLimit is the leaderboard size when the caller gives none
const DefaultTopLimit = 10

// Profile is the public view of a player
type Profile struct {
	ID    model.PlayerID
	Name  string
	Stats model.PlayerStats
}

// Update is a profile patch. Nil fields are left alone.
type Update struct {
	Name *string
}

// Service handles player profiles and stats
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new player Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// GetProfile returns the public profile of a player
func (s *Service) GetProfile(ctx context.Context, id model.PlayerID) (*Profile, error) {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Profile{ID: player.ID, Name: player.Name, Stats: player.Stats}, nil
}

// GetStats returns the profile; callers render it as stats
func (s *Service) GetStats(ctx context.Context, id model.PlayerID) (*Profile, error) {
	return s.GetProfile(ctx, id)
}

// UpdateProfile applies a patch to the caller's own record. Only the name is writable.
func (s *Service) UpdateProfile(ctx context.Context, id model.PlayerID, update Update) (*model.Player, error) {
	if update.Name != nil && *update.Name == "" {
		return nil, model.NewValidationError("Name cannot be empty")
	}

	return s.storage.UpdatePlayer(ctx, id, func(p *model.Player) error {
		if update.Name != nil {
			p.Name = *update.Name
		}
		p.UpdatedAt = s.clock.Now()
		return nil
	})
}

// TopPlayers returns the leaderboard by games won. A non-positive limit means DefaultTopLimit.
func (s *Service) TopPlayers(ctx context.Context, limit int) ([]*Profile, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	players, err := s.storage.TopPlayers(ctx, limit)
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, len(players))
	for i, p := range players {
		profiles[i] = &Profile{ID: p.ID, Name: p.Name, Stats: p.Stats}
	}
	return profiles, nil
}

// RecordOutcome adds one finished game to a player's stats atomically
func (s *Service) RecordOutcome(ctx context.Context, id model.PlayerID, outcome model.Outcome) error {
	_, err := s.storage.UpdatePlayer(ctx, id, func(p *model.Player) error {
		p.Stats.Apply(outcome)
		p.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("player outcome recorded", "player_id", id, "won", outcome.Won, "reward", outcome.Reward)
	return nil
}

// RecordWin credits a win without counting a game played
func (s *Service) RecordWin(ctx context.Context, id model.PlayerID) error {
	_, err := s.storage.UpdatePlayer(ctx, id, func(p *model.Player) error {
		p.Stats.GamesWon++
		p.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("player win recorded", "player_id", id)
	return nil
}
