package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// watch runs txf inside WATCH on keys, retrying when a concurrent writer touches them first
func (s *Storage) watch(ctx context.Context, txf func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < s.cfg.MaxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return model.ErrConflict
}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// getJSON loads and decodes one document, mapping a missing key to notFound
func getJSON[T any](ctx context.Context, c getter, key string, notFound error) (*T, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// mgetJSON loads many documents at once. Missing or undecodable entries are skipped
// and their positions returned so stale index entries can be cleaned up.
func mgetJSON[T any](ctx context.Context, c *redis.Client, keys []string) ([]*T, []int, error) {
	if len(keys) == 0 {
		return []*T{}, nil, nil
	}

	values, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, err
	}

	docs := make([]*T, 0, len(values))
	var missing []int
	for i, val := range values {
		str, ok := val.(string)
		if !ok {
			missing = append(missing, i) // Document may have expired
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(str), &v); err != nil {
			continue // Skip invalid data
		}
		docs = append(docs, &v)
	}
	return docs, missing, nil
}

// Player operations

// CreatePlayer claims the email and wallet indexes with SETNX before writing the record,
// releasing any claim already taken if a later one fails.
func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	var claimed []string
	release := func() {
		if len(claimed) > 0 {
			s.client.Del(context.WithoutCancel(ctx), claimed...)
		}
	}

	if player.Email != "" {
		ok, err := s.client.SetNX(ctx, emailIndexKey(player.Email), string(player.ID), 0).Result()
		if err != nil {
			return err
		}
		if !ok {
			return model.ErrEmailTaken
		}
		claimed = append(claimed, emailIndexKey(player.Email))
	}
	if player.WalletAddress != "" {
		ok, err := s.client.SetNX(ctx, walletIndexKey(player.WalletAddress), string(player.ID), 0).Result()
		if err != nil {
			release()
			return err
		}
		if !ok {
			release()
			return model.ErrWalletTaken
		}
		claimed = append(claimed, walletIndexKey(player.WalletAddress))
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, playerKey(player.ID), data, 0)
		pipe.ZAdd(ctx, leaderboardKey(), redis.Z{Score: float64(player.Stats.GamesWon), Member: string(player.ID)})
		return nil
	})
	if err != nil {
		release()
		return err
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return getJSON[model.Player](ctx, s.client, playerKey(id), model.ErrPlayerNotFound)
}

func (s *Storage) getPlayerByIndex(ctx context.Context, indexKey string) (*model.Player, error) {
	playerID, err := s.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetPlayer(ctx, model.PlayerID(playerID))
}

func (s *Storage) GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error) {
	return s.getPlayerByIndex(ctx, emailIndexKey(email))
}

func (s *Storage) GetPlayerByWallet(ctx context.Context, wallet string) (*model.Player, error) {
	return s.getPlayerByIndex(ctx, walletIndexKey(wallet))
}

func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, fn func(*model.Player) error) (*model.Player, error) {
	key := playerKey(id)
	var result *model.Player

	err := s.watch(ctx, func(tx *redis.Tx) error {
		current, err := getJSON[model.Player](ctx, tx, key, model.ErrPlayerNotFound)
		if err != nil {
			return err
		}
		email, wallet := current.Email, current.WalletAddress
		if err := fn(current); err != nil {
			return err
		}
		current.ID = id
		current.Email = email
		current.WalletAddress = wallet

		data, err := json.Marshal(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, leaderboardKey(), redis.Z{Score: float64(current.Stats.GamesWon), Member: string(id)})
			return nil
		})
		if err != nil {
			return err
		}
		result = current
		return nil
	}, key)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TopPlayers reads the leaderboard ZSET. Every member tied with the last place is loaded
// so that ties are broken the same way as the in-memory backend.
func (s *Storage) TopPlayers(ctx context.Context, limit int) ([]*model.Player, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ranked, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return []*model.Player{}, nil
	}

	threshold := strconv.FormatFloat(ranked[len(ranked)-1].Score, 'f', -1, 64)
	ids, err := s.client.ZRangeByScore(ctx, leaderboardKey(), &redis.ZRangeBy{Min: threshold, Max: "+inf"}).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}
	players, _, err := mgetJSON[model.Player](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}

	storage.RankPlayers(players)
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// Game catalog operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	pipe.SAdd(ctx, gamesIndexKey(), string(game.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return getJSON[model.Game](ctx, s.client, gameKey(id), model.ErrGameNotFound)
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	ids, err := s.client.SMembers(ctx, gamesIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}
	games, _, err := mgetJSON[model.Game](ctx, s.client, keys)
	return games, err
}

// Lobby operations

func (s *Storage) SaveLobby(ctx context.Context, lobby *model.Lobby) error {
	data, err := json.Marshal(lobby)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, lobbyKey(lobby.ID), data, s.cfg.LobbyTTL)
	pipe.SAdd(ctx, lobbiesIndexKey(), string(lobby.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error) {
	return getJSON[model.Lobby](ctx, s.client, lobbyKey(id), model.ErrLobbyNotFound)
}

func (s *Storage) ListLobbies(ctx context.Context, filter storage.LobbyFilter) ([]*model.Lobby, error) {
	ids, err := s.client.SMembers(ctx, lobbiesIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = lobbyKey(model.LobbyID(id))
	}
	all, missing, err := mgetJSON[model.Lobby](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}

	// Expired lobbies leave their ID behind in the index
	if len(missing) > 0 {
		stale := make([]interface{}, len(missing))
		for i, idx := range missing {
			stale[i] = ids[idx]
		}
		s.client.SRem(ctx, lobbiesIndexKey(), stale...)
	}

	lobbies := make([]*model.Lobby, 0, len(all))
	for _, l := range all {
		if filter.MatchLobby(l) {
			lobbies = append(lobbies, l)
		}
	}
	storage.SortLobbiesNewest(lobbies)
	return lobbies, nil
}

func (s *Storage) UpdateLobby(ctx context.Context, id model.LobbyID, fn func(*model.Lobby) error) (*model.Lobby, error) {
	key := lobbyKey(id)
	var result *model.Lobby

	err := s.watch(ctx, func(tx *redis.Tx) error {
		current, err := getJSON[model.Lobby](ctx, tx, key, model.ErrLobbyNotFound)
		if err != nil {
			return err
		}

		fnErr := fn(current)
		if fnErr != nil && !errors.Is(fnErr, storage.ErrDelete) {
			return fnErr
		}
		current.ID = id

		if fnErr != nil {
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				pipe.SRem(ctx, lobbiesIndexKey(), string(id))
				return nil
			})
		} else {
			data, merr := json.Marshal(current)
			if merr != nil {
				return merr
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, redis.KeepTTL)
				return nil
			})
		}
		if err != nil {
			return err
		}
		result = current
		return nil
	}, key)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	key := sessionKey(session.ID)

	return s.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return model.ErrSessionExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			score := float64(session.StartedAt.UnixMilli())
			for _, p := range session.Players {
				pipe.ZAdd(ctx, playerSessionsIndexKey(p.ID), redis.Z{Score: score, Member: string(session.ID)})
			}
			return nil
		})
		return err
	}, key)
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return getJSON[model.Session](ctx, s.client, sessionKey(id), model.ErrSessionNotFound)
}

func (s *Storage) UpdateSession(ctx context.Context, id model.SessionID, fn func(*model.Session) error) (*model.Session, error) {
	key := sessionKey(id)
	var result *model.Session

	err := s.watch(ctx, func(tx *redis.Tx) error {
		current, err := getJSON[model.Session](ctx, tx, key, model.ErrSessionNotFound)
		if err != nil {
			return err
		}
		players := current.Players
		if err := fn(current); err != nil {
			return err
		}
		current.ID = id
		current.Players = players

		data, err := json.Marshal(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		result = current
		return nil
	}, key)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Storage) ListSessionsForPlayer(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.Session, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.client.ZRevRange(ctx, playerSessionsIndexKey(playerID), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(model.SessionID(id))
	}
	sessions, _, err := mgetJSON[model.Session](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}
	storage.SortSessionsRecent(sessions)
	return sessions, nil
}
