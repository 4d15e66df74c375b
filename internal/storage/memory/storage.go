package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Documents are copied on the way in and out so callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	players     map[model.PlayerID]*model.Player
	emailIndex  map[string]model.PlayerID
	walletIndex map[string]model.PlayerID
	games       map[model.GameID]*model.Game
	lobbies     map[model.LobbyID]*model.Lobby
	sessions    map[model.SessionID]*model.Session
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:     make(map[model.PlayerID]*model.Player),
		emailIndex:  make(map[string]model.PlayerID),
		walletIndex: make(map[string]model.PlayerID),
		games:       make(map[model.GameID]*model.Game),
		lobbies:     make(map[model.LobbyID]*model.Lobby),
		sessions:    make(map[model.SessionID]*model.Session),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player.Email != "" {
		if _, ok := s.emailIndex[player.Email]; ok {
			return model.ErrEmailTaken
		}
	}
	if player.WalletAddress != "" {
		if _, ok := s.walletIndex[player.WalletAddress]; ok {
			return model.ErrWalletTaken
		}
	}

	s.players[player.ID] = player.Clone()
	if player.Email != "" {
		s.emailIndex[player.Email] = player.ID
	}
	if player.WalletAddress != "" {
		s.walletIndex[player.WalletAddress] = player.ID
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error) {
	s.mu.RLock()
	id, ok := s.emailIndex[email]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return s.GetPlayer(ctx, id)
}

func (s *Storage) GetPlayerByWallet(ctx context.Context, wallet string) (*model.Player, error) {
	s.mu.RLock()
	id, ok := s.walletIndex[wallet]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return s.GetPlayer(ctx, id)
}

// UpdatePlayer mutates a player under the write lock. Email and wallet are fixed at creation.
func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, fn func(*model.Player) error) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.Email = current.Email
	updated.WalletAddress = current.WalletAddress
	s.players[id] = updated
	return updated.Clone(), nil
}

func (s *Storage) TopPlayers(ctx context.Context, limit int) ([]*model.Player, error) {
	s.mu.RLock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p.Clone())
	}
	s.mu.RUnlock()

	storage.RankPlayers(players)
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// Game catalog operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g.Clone())
	}
	return games, nil
}

// Lobby operations

func (s *Storage) SaveLobby(ctx context.Context, lobby *model.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[lobby.ID] = lobby.Clone()
	return nil
}

func (s *Storage) GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lobby, ok := s.lobbies[id]
	if !ok {
		return nil, model.ErrLobbyNotFound
	}
	return lobby.Clone(), nil
}

func (s *Storage) ListLobbies(ctx context.Context, filter storage.LobbyFilter) ([]*model.Lobby, error) {
	s.mu.RLock()
	lobbies := make([]*model.Lobby, 0, len(s.lobbies))
	for _, l := range s.lobbies {
		if filter.MatchLobby(l) {
			lobbies = append(lobbies, l.Clone())
		}
	}
	s.mu.RUnlock()

	storage.SortLobbiesNewest(lobbies)
	return lobbies, nil
}

func (s *Storage) UpdateLobby(ctx context.Context, id model.LobbyID, fn func(*model.Lobby) error) (*model.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.lobbies[id]
	if !ok {
		return nil, model.ErrLobbyNotFound
	}
	updated := current.Clone()
	if err := fn(updated); err != nil {
		if errors.Is(err, storage.ErrDelete) {
			delete(s.lobbies, id)
			return updated, nil
		}
		return nil, err
	}
	s.lobbies[id] = updated
	return updated.Clone(), nil
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return model.ErrSessionExists
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *Storage) UpdateSession(ctx context.Context, id model.SessionID, fn func(*model.Session) error) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.Players = current.Players
	s.sessions[id] = updated
	return updated.Clone(), nil
}

func (s *Storage) ListSessionsForPlayer(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.Session, error) {
	s.mu.RLock()
	var sessions []*model.Session
	for _, sess := range s.sessions {
		if sess.HasPlayer(playerID) {
			sessions = append(sessions, sess.Clone())
		}
	}
	s.mu.RUnlock()

	storage.SortSessionsRecent(sessions)
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	if sessions == nil {
		sessions = []*model.Session{}
	}
	return sessions, nil
}
