package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamehub/internal/dependencies/mocks"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/player"
	"github.com/mcoot/gamehub/internal/storage/memory"
	"github.com/mcoot/gamehub/internal/testutil"
)

// flakyStorage fails player updates for selected IDs
type flakyStorage struct {
	*memory.Storage
	failFor map[model.PlayerID]bool
}

var errStorageDown = errors.New("storage down")

func (f *flakyStorage) UpdatePlayer(ctx context.Context, id model.PlayerID, fn func(*model.Player) error) (*model.Player, error) {
	if f.failFor[id] {
		return nil, errStorageDown
	}
	return f.Storage.UpdatePlayer(ctx, id, fn)
}

type ControllerSuite struct {
	suite.Suite
	storage    *flakyStorage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = &flakyStorage{Storage: memory.New(), failFor: map[model.PlayerID]bool{}}
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	players := player.New(s.storage, s.clock, logger)
	s.controller = NewController(s.storage, players, s.clock, s.random, logger)
	s.ctx = context.Background()

	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "chess", Name: "Chess", Status: model.GameStatusActive}))
	for _, id := range []model.PlayerID{"p1", "p2", "p3"} {
		s.Require().NoError(s.storage.CreatePlayer(s.ctx, &model.Player{ID: id, Name: string(id), CreatedAt: s.clock.Now()}))
	}
}

func (s *ControllerSuite) createSession(ids ...model.PlayerID) *model.Session {
	players := make([]model.SessionPlayer, len(ids))
	for i, id := range ids {
		players[i] = model.SessionPlayer{ID: id, Name: string(id)}
	}
	session, err := s.controller.Create(s.ctx, CreateInput{GameID: "chess", Players: players, Wager: 5})
	s.Require().NoError(err)
	return session
}

func (s *ControllerSuite) stats(id model.PlayerID) model.PlayerStats {
	p, err := s.storage.GetPlayer(s.ctx, id)
	s.Require().NoError(err)
	return p.Stats
}

// Create tests

func (s *ControllerSuite) TestCreateSucceeds() {
	s.random.QueueID("session-1")

	session := s.createSession("p1", "p2")

	s.Equal(model.SessionID("session-1"), session.ID)
	s.JSONEq(`{"status":"initializing"}`, string(session.State))
	s.Equal(s.clock.Now(), session.StartedAt)
	s.False(session.HasEnded())
}

func (s *ControllerSuite) TestCreateDefaultsPlayerName() {
	session, err := s.controller.Create(s.ctx, CreateInput{GameID: "chess", Players: []model.SessionPlayer{{ID: "p1"}}})
	s.Require().NoError(err)
	s.Equal(DefaultPlayerName, session.Players[0].Name)
}

func (s *ControllerSuite) TestCreateValidation() {
	_, err := s.controller.Create(s.ctx, CreateInput{GameID: "chess"})
	var ve *model.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal("Missing required session information", ve.Message)

	_, err = s.controller.Create(s.ctx, CreateInput{GameID: "chess", Players: []model.SessionPlayer{{Name: "nameless"}}})
	s.ErrorAs(err, &ve)

	_, err = s.controller.Create(s.ctx, CreateInput{GameID: "chess", Players: []model.SessionPlayer{{ID: "p1"}, {ID: "p1"}}})
	s.ErrorAs(err, &ve)
}

func (s *ControllerSuite) TestCreateForGameOutsideCatalog() {
	s.random.QueueID("s-1")

	session, err := s.controller.Create(s.ctx, CreateInput{GameID: "tictactoe", Players: []model.SessionPlayer{{ID: "p1"}}})
	s.Require().NoError(err)
	s.Equal(model.SessionID("s-1"), session.ID)
	s.Equal(model.GameID("tictactoe"), session.GameID)
}

func (s *ControllerSuite) TestCreateAdoptsStartedLobbySession() {
	s.Require().NoError(s.storage.SaveLobby(s.ctx, &model.Lobby{
		ID:        "lobby-1",
		GameID:    "chess",
		Wager:     2.5,
		Status:    model.LobbyStatusInProgress,
		SessionID: "minted",
	}))
	in := CreateInput{GameID: "chess", LobbyID: "lobby-1", Players: []model.SessionPlayer{{ID: "p1"}}}

	session, err := s.controller.Create(s.ctx, in)
	s.Require().NoError(err)
	s.Equal(model.SessionID("minted"), session.ID)
	s.Equal(2.5, session.Wager)

	_, err = s.controller.Create(s.ctx, in)
	s.ErrorIs(err, model.ErrSessionExists)
}

func (s *ControllerSuite) TestCreateAfterLobbyIsGone() {
	s.random.QueueID("fresh")

	session, err := s.controller.Create(s.ctx, CreateInput{
		GameID:  "chess",
		LobbyID: "gone-lobby",
		Players: []model.SessionPlayer{{ID: "p1"}},
		Wager:   3,
	})
	s.Require().NoError(err)
	s.Equal(model.SessionID("fresh"), session.ID)
	s.Equal(model.LobbyID("gone-lobby"), session.LobbyID)
	s.Equal(3.0, session.Wager)
}

func (s *ControllerSuite) TestCreateIgnoresLobbyGame() {
	s.Require().NoError(s.storage.SaveLobby(s.ctx, &model.Lobby{ID: "lobby-1", GameID: "go", SessionID: "minted"}))

	session, err := s.controller.Create(s.ctx, CreateInput{GameID: "chess", LobbyID: "lobby-1", Players: []model.SessionPlayer{{ID: "p1"}}})
	s.Require().NoError(err)
	s.Equal(model.SessionID("minted"), session.ID)
}

// UpdateState tests

func (s *ControllerSuite) TestUpdateStateReplaces() {
	session := s.createSession("p1")

	updated, err := s.controller.UpdateState(s.ctx, session.ID, json.RawMessage(`{"board":[1,2,3]}`))
	s.Require().NoError(err)
	s.JSONEq(`{"board":[1,2,3]}`, string(updated.State))

	updated, err = s.controller.UpdateState(s.ctx, session.ID, json.RawMessage(`{"turn":4}`))
	s.Require().NoError(err)
	s.JSONEq(`{"turn":4}`, string(updated.State))
}

func (s *ControllerSuite) TestUpdateStateRequired() {
	session := s.createSession("p1")

	for _, state := range []string{"", "null", "  "} {
		_, err := s.controller.UpdateState(s.ctx, session.ID, json.RawMessage(state))
		var ve *model.ValidationError
		s.Require().ErrorAs(err, &ve)
		s.Equal("State is required", ve.Message)
	}
}

func (s *ControllerSuite) TestUpdateStateAfterEnd() {
	session := s.createSession("p1")
	_, err := s.controller.End(s.ctx, session.ID, &model.SessionResults{})
	s.Require().NoError(err)

	_, err = s.controller.UpdateState(s.ctx, session.ID, json.RawMessage(`{}`))
	s.ErrorIs(err, model.ErrSessionEnded)
}

func (s *ControllerSuite) TestUpdateStateNotFound() {
	_, err := s.controller.UpdateState(s.ctx, "missing", json.RawMessage(`{}`))
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// End tests

func (s *ControllerSuite) TestEndSettlesStats() {
	session := s.createSession("p1", "p2")
	s.clock.Advance(time.Minute)

	ended, err := s.controller.End(s.ctx, session.ID, &model.SessionResults{
		Winner:  "p1",
		Scores:  []model.PlayerScore{{PlayerID: "p1", Score: 10}, {PlayerID: "p2", Score: 3}},
		Rewards: []model.PlayerReward{{PlayerID: "p1", Amount: 9}},
	})
	s.Require().NoError(err)
	s.Require().NotNil(ended.EndedAt)
	s.Equal(s.clock.Now(), *ended.EndedAt)

	s.Equal(model.PlayerStats{GamesPlayed: 1, GamesWon: 1, TotalWagered: 5, TotalWon: 9}, s.stats("p1"))
	s.Equal(model.PlayerStats{GamesPlayed: 1, TotalWagered: 5}, s.stats("p2"))
	s.Equal(model.PlayerStats{}, s.stats("p3"))
}

func (s *ControllerSuite) TestEndWithoutWinner() {
	session := s.createSession("p1", "p2")

	_, err := s.controller.End(s.ctx, session.ID, &model.SessionResults{})
	s.Require().NoError(err)

	s.Equal(0, s.stats("p1").GamesWon)
	s.Equal(1, s.stats("p1").GamesPlayed)
	s.Equal(1, s.stats("p2").GamesPlayed)
}

func (s *ControllerSuite) TestEndRequiresResults() {
	session := s.createSession("p1")

	_, err := s.controller.End(s.ctx, session.ID, nil)
	var ve *model.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal("Results are required", ve.Message)
}

func (s *ControllerSuite) TestEndTwiceDoesNotDoubleCount() {
	session := s.createSession("p1")
	_, err := s.controller.End(s.ctx, session.ID, &model.SessionResults{Winner: "p1"})
	s.Require().NoError(err)

	_, err = s.controller.End(s.ctx, session.ID, &model.SessionResults{Winner: "p1"})
	s.ErrorIs(err, model.ErrSessionEnded)

	s.Equal(1, s.stats("p1").GamesWon)
	s.Equal(1, s.stats("p1").GamesPlayed)
}

func (s *ControllerSuite) TestEndCreditsWinnerOutsideParticipants() {
	session := s.createSession("p1", "p2")

	ended, err := s.controller.End(s.ctx, session.ID, &model.SessionResults{Winner: "p3"})
	s.Require().NoError(err)
	s.True(ended.HasEnded())

	s.Equal(1, s.stats("p3").GamesWon)
	s.Equal(0, s.stats("p3").GamesPlayed)
	s.Equal(0.0, s.stats("p3").TotalWagered)
	s.Equal(1, s.stats("p1").GamesPlayed)
	s.Equal(0, s.stats("p1").GamesWon)
	s.Equal(1, s.stats("p2").GamesPlayed)
}

func (s *ControllerSuite) TestEndSkipsUnknownOutsideWinner() {
	session := s.createSession("p1")

	_, err := s.controller.End(s.ctx, session.ID, &model.SessionResults{Winner: "nobody"})
	s.Require().NoError(err)
	s.Equal(1, s.stats("p1").GamesPlayed)
}

func (s *ControllerSuite) TestEndSkipsUnregisteredPlayers() {
	session, err := s.controller.Create(s.ctx, CreateInput{
		GameID:  "chess",
		Players: []model.SessionPlayer{{ID: "guest"}, {ID: "p1"}},
	})
	s.Require().NoError(err)

	_, err = s.controller.End(s.ctx, session.ID, &model.SessionResults{Winner: "guest"})
	s.Require().NoError(err)
	s.Equal(1, s.stats("p1").GamesPlayed)
}

func (s *ControllerSuite) TestEndPartialFailureSettlesOthers() {
	session := s.createSession("p1", "p2", "p3")
	s.storage.failFor["p2"] = true

	ended, err := s.controller.End(s.ctx, session.ID, &model.SessionResults{Winner: "p3"})
	s.ErrorIs(err, ErrSettlementIncomplete)
	s.ErrorIs(err, errStorageDown)
	s.Require().NotNil(ended)
	s.True(ended.HasEnded())

	s.Equal(1, s.stats("p1").GamesPlayed)
	s.Equal(0, s.stats("p2").GamesPlayed)
	s.Equal(1, s.stats("p3").GamesWon)
}

// List tests

func (s *ControllerSuite) TestListForPlayer() {
	first := s.createSession("p1", "p2")
	s.clock.Advance(time.Minute)
	second := s.createSession("p1")
	s.clock.Advance(time.Minute)
	_ = s.createSession("p2")

	sessions, err := s.controller.ListForPlayer(s.ctx, "p1", 0)
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal(second.ID, sessions[0].ID)
	s.Equal(first.ID, sessions[1].ID)

	limited, err := s.controller.ListForPlayer(s.ctx, "p1", 1)
	s.Require().NoError(err)
	s.Len(limited, 1)
}

// Leaderboard example: wins credited 2/1/0 order the top players accordingly
func (s *ControllerSuite) TestWinsDriveLeaderboard() {
	players := player.New(s.storage, s.clock, testutil.NopLogger())
	for _, winner := range []model.PlayerID{"p1", "p2", "p1"} {
		session := s.createSession("p1", "p2", "p3")
		_, err := s.controller.End(s.ctx, session.ID, &model.SessionResults{Winner: winner})
		s.Require().NoError(err)
	}

	top, err := players.TopPlayers(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Equal(model.PlayerID("p1"), top[0].ID)
	s.Equal(model.PlayerID("p2"), top[1].ID)
	s.Equal(model.PlayerID("p3"), top[2].ID)
}
