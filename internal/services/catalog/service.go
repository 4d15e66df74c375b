package catalog

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

// CreateInput holds the fields of a new catalog entry. All are required.
type CreateInput struct {
	Name        string
	Description string
	Thumbnail   string
	Modes       []model.GameMode
}

// Update is a catalog patch. Empty or zero fields are left alone.
type Update struct {
	Name        string
	Description string
	Thumbnail   string
	Modes       []model.GameMode
	Status      model.GameStatus
}

// Service manages the game catalog
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new catalog Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// List returns games sorted by name, optionally only those with the given status
func (s *Service) List(ctx context.Context, status model.GameStatus) ([]*model.Game, error) {
	if status != "" && !status.Valid() {
		return nil, model.NewValidationError("Invalid game status: %s", status)
	}

	all, err := s.storage.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(all))
	for _, g := range all {
		if status == "" || g.Status == status {
			games = append(games, g)
		}
	}
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Name != games[j].Name {
			return games[i].Name < games[j].Name
		}
		return games[i].ID < games[j].ID
	})
	return games, nil
}

// Get returns a single game
func (s *Service) Get(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.storage.GetGame(ctx, id)
}

// Create adds a game to the catalog with status active
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Game, error) {
	if in.Name == "" || in.Description == "" || in.Thumbnail == "" || len(in.Modes) == 0 {
		return nil, model.NewValidationError("Missing required game information")
	}

	modes, err := s.prepareModes(in.Modes)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	game := &model.Game{
		ID:          model.GameID(s.random.ID()),
		Name:        in.Name,
		Description: in.Description,
		Thumbnail:   in.Thumbnail,
		Modes:       modes,
		Status:      model.GameStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game created", "game_id", game.ID, "name", game.Name)
	return game, nil
}

// Update applies the non-empty fields of the patch
func (s *Service) Update(ctx context.Context, id model.GameID, update Update) (*model.Game, error) {
	if update.Status != "" && !update.Status.Valid() {
		return nil, model.NewValidationError("Invalid game status: %s", update.Status)
	}

	var modes []model.GameMode
	if len(update.Modes) > 0 {
		var err error
		if modes, err = s.prepareModes(update.Modes); err != nil {
			return nil, err
		}
	}

	game, err := s.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		game.Name = update.Name
	}
	if update.Description != "" {
		game.Description = update.Description
	}
	if update.Thumbnail != "" {
		game.Thumbnail = update.Thumbnail
	}
	if modes != nil {
		game.Modes = modes
	}
	if update.Status != "" {
		game.Status = update.Status
	}
	game.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// prepareModes validates modes and fills in missing IDs
func (s *Service) prepareModes(in []model.GameMode) ([]model.GameMode, error) {
	modes := make([]model.GameMode, len(in))
	seen := make(map[model.ModeID]bool, len(in))
	for i, m := range in {
		if m.Name == "" {
			return nil, model.NewValidationError("Game mode name is required")
		}
		if m.Players < 1 {
			return nil, model.NewValidationError("Game mode %q must allow at least 1 player", m.Name)
		}
		if m.MinWager < 0 {
			return nil, model.NewValidationError("Game mode %q has a negative minimum wager", m.Name)
		}
		if m.ID == "" {
			m.ID = model.ModeID(s.random.ID())
		}
		if seen[m.ID] {
			return nil, model.NewValidationError("Duplicate game mode id: %s", m.ID)
		}
		seen[m.ID] = true
		modes[i] = m
	}
	return modes, nil
}
