package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
	s.now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
}

// Player tests

func (s *StorageSuite) TestCreateAndGetPlayer() {
	player := &model.Player{
		ID:        "player-1",
		Name:      "Alice",
		Email:     "alice@example.com",
		CreatedAt: s.now,
	}

	err := s.storage.CreatePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.Name)

	byEmail, err := s.storage.GetPlayerByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(player.ID, byEmail.ID)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.storage.GetPlayerByWallet(s.ctx, "0xnothing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestCreatePlayerDuplicateEmail() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, &model.Player{ID: "p1", Email: "a@b.co"}))

	err := s.storage.CreatePlayer(s.ctx, &model.Player{ID: "p2", Email: "a@b.co"})
	s.ErrorIs(err, model.ErrEmailTaken)

	_, err = s.storage.GetPlayer(s.ctx, "p2")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestCreatePlayerDuplicateWallet() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, &model.Player{ID: "p1", WalletAddress: "0xabc"}))

	err := s.storage.CreatePlayer(s.ctx, &model.Player{ID: "p2", WalletAddress: "0xabc"})
	s.ErrorIs(err, model.ErrWalletTaken)
}

func (s *StorageSuite) TestReturnedPlayerIsACopy() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, &model.Player{ID: "p1", Name: "Alice"}))

	p, _ := s.storage.GetPlayer(s.ctx, "p1")
	p.Name = "Mallory"

	again, _ := s.storage.GetPlayer(s.ctx, "p1")
	s.Equal("Alice", again.Name)
}

func (s *StorageSuite) TestUpdatePlayer() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, &model.Player{ID: "p1", Name: "Alice", Email: "a@b.co"}))

	updated, err := s.storage.UpdatePlayer(s.ctx, "p1", func(p *model.Player) error {
		p.Stats.GamesWon++
		p.Email = "other@b.co"
		return nil
	})
	s.Require().NoError(err)
	s.Equal(1, updated.Stats.GamesWon)
	s.Equal("a@b.co", updated.Email)
}

func (s *StorageSuite) TestUpdatePlayerErrorLeavesRecordUnchanged() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, &model.Player{ID: "p1", Name: "Alice"}))
	boom := errors.New("boom")

	_, err := s.storage.UpdatePlayer(s.ctx, "p1", func(p *model.Player) error {
		p.Name = "Changed"
		return boom
	})
	s.ErrorIs(err, boom)

	p, _ := s.storage.GetPlayer(s.ctx, "p1")
	s.Equal("Alice", p.Name)
}

func (s *StorageSuite) TestUpdatePlayerConcurrentIncrements() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, &model.Player{ID: "p1"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.storage.UpdatePlayer(s.ctx, "p1", func(p *model.Player) error {
				p.Stats.GamesPlayed++
				return nil
			})
		}()
	}
	wg.Wait()

	p, _ := s.storage.GetPlayer(s.ctx, "p1")
	s.Equal(50, p.Stats.GamesPlayed)
}

func (s *StorageSuite) TestTopPlayersOrderingAndTies() {
	players := []*model.Player{
		{ID: "c", Stats: model.PlayerStats{GamesWon: 3}, CreatedAt: s.now},
		{ID: "b", Stats: model.PlayerStats{GamesWon: 5}, CreatedAt: s.now},
		{ID: "a", Stats: model.PlayerStats{GamesWon: 3}, CreatedAt: s.now.Add(time.Minute)},
		{ID: "d", Stats: model.PlayerStats{GamesWon: 0}, CreatedAt: s.now},
	}
	for _, p := range players {
		s.Require().NoError(s.storage.CreatePlayer(s.ctx, p))
	}

	top, err := s.storage.TopPlayers(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Equal(model.PlayerID("b"), top[0].ID)
	s.Equal(model.PlayerID("c"), top[1].ID)
	s.Equal(model.PlayerID("a"), top[2].ID)
}

// Game tests

func (s *StorageSuite) TestSaveGetListGames() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "g1", Name: "Chess"}))
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "g2", Name: "Poker"}))

	g, err := s.storage.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal("Chess", g.Name)

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 2)

	_, err = s.storage.GetGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Lobby tests

func (s *StorageSuite) TestListLobbiesFiltersAndSorts() {
	s.Require().NoError(s.storage.SaveLobby(s.ctx, &model.Lobby{ID: "l1", GameID: "g1", Status: model.LobbyStatusWaiting, CreatedAt: s.now}))
	s.Require().NoError(s.storage.SaveLobby(s.ctx, &model.Lobby{ID: "l2", GameID: "g1", Status: model.LobbyStatusFull, CreatedAt: s.now.Add(time.Second)}))
	s.Require().NoError(s.storage.SaveLobby(s.ctx, &model.Lobby{ID: "l3", GameID: "g2", Status: model.LobbyStatusWaiting, CreatedAt: s.now.Add(2 * time.Second)}))

	all, err := s.storage.ListLobbies(s.ctx, storage.LobbyFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(model.LobbyID("l3"), all[0].ID)
	s.Equal(model.LobbyID("l1"), all[2].ID)

	g1, _ := s.storage.ListLobbies(s.ctx, storage.LobbyFilter{GameID: "g1"})
	s.Len(g1, 2)

	waitingG1, _ := s.storage.ListLobbies(s.ctx, storage.LobbyFilter{GameID: "g1", Status: model.LobbyStatusWaiting})
	s.Require().Len(waitingG1, 1)
	s.Equal(model.LobbyID("l1"), waitingG1[0].ID)
}

func (s *StorageSuite) TestUpdateLobbyDelete() {
	s.Require().NoError(s.storage.SaveLobby(s.ctx, &model.Lobby{ID: "l1"}))

	l, err := s.storage.UpdateLobby(s.ctx, "l1", func(l *model.Lobby) error {
		l.Players = nil
		return storage.ErrDelete
	})
	s.Require().NoError(err)
	s.Equal(model.LobbyID("l1"), l.ID)

	_, err = s.storage.GetLobby(s.ctx, "l1")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

func (s *StorageSuite) TestUpdateLobbyNotFound() {
	_, err := s.storage.UpdateLobby(s.ctx, "missing", func(l *model.Lobby) error { return nil })
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

// Session tests

func (s *StorageSuite) TestCreateSessionDuplicate() {
	sess := &model.Session{ID: "s1", Players: []model.SessionPlayer{{ID: "p1"}}}
	s.Require().NoError(s.storage.CreateSession(s.ctx, sess))

	err := s.storage.CreateSession(s.ctx, sess)
	s.ErrorIs(err, model.ErrSessionExists)
}

func (s *StorageSuite) TestListSessionsForPlayer() {
	for i, id := range []model.SessionID{"s1", "s2", "s3"} {
		s.Require().NoError(s.storage.CreateSession(s.ctx, &model.Session{
			ID:        id,
			Players:   []model.SessionPlayer{{ID: "p1"}},
			StartedAt: s.now.Add(time.Duration(i) * time.Minute),
		}))
	}
	s.Require().NoError(s.storage.CreateSession(s.ctx, &model.Session{ID: "other", Players: []model.SessionPlayer{{ID: "p2"}}}))

	sessions, err := s.storage.ListSessionsForPlayer(s.ctx, "p1", 2)
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal(model.SessionID("s3"), sessions[0].ID)
	s.Equal(model.SessionID("s2"), sessions[1].ID)

	none, err := s.storage.ListSessionsForPlayer(s.ctx, "nobody", 10)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *StorageSuite) TestUpdateSession() {
	s.Require().NoError(s.storage.CreateSession(s.ctx, &model.Session{ID: "s1", State: model.InitialSessionState}))

	updated, err := s.storage.UpdateSession(s.ctx, "s1", func(sess *model.Session) error {
		sess.State = []byte(`{"turn":2}`)
		return nil
	})
	s.Require().NoError(err)
	s.JSONEq(`{"turn":2}`, string(updated.State))

	_, err = s.storage.UpdateSession(s.ctx, "missing", func(sess *model.Session) error { return nil })
	s.ErrorIs(err, model.ErrSessionNotFound)
}
