package player

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamehub/internal/dependencies/mocks"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage/memory"
	"github.com/mcoot/gamehub/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) createPlayer(id model.PlayerID, name string, won int) {
	err := s.storage.CreatePlayer(s.ctx, &model.Player{
		ID:        id,
		Name:      name,
		Email:     string(id) + "@example.com",
		Stats:     model.PlayerStats{GamesWon: won},
		CreatedAt: s.clock.Now(),
	})
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
}

func (s *ServiceSuite) TestGetProfile() {
	s.createPlayer("p1", "Alice", 2)

	profile, err := s.service.GetProfile(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alice", profile.Name)
	s.Equal(2, profile.Stats.GamesWon)
}

func (s *ServiceSuite) TestGetProfileNotFound() {
	_, err := s.service.GetStats(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestUpdateProfileChangesNameOnly() {
	s.createPlayer("p1", "Alice", 0)
	name := "Alicia"

	updated, err := s.service.UpdateProfile(s.ctx, "p1", Update{Name: &name})
	s.Require().NoError(err)
	s.Equal("Alicia", updated.Name)
	s.Equal("p1@example.com", updated.Email)
	s.Equal(s.clock.Now(), updated.UpdatedAt)
}

func (s *ServiceSuite) TestUpdateProfileEmptyPatch() {
	s.createPlayer("p1", "Alice", 0)

	updated, err := s.service.UpdateProfile(s.ctx, "p1", Update{})
	s.Require().NoError(err)
	s.Equal("Alice", updated.Name)
}

func (s *ServiceSuite) TestUpdateProfileRejectsEmptyName() {
	s.createPlayer("p1", "Alice", 0)
	empty := ""

	_, err := s.service.UpdateProfile(s.ctx, "p1", Update{Name: &empty})
	var ve *model.ValidationError
	s.ErrorAs(err, &ve)
}

func (s *ServiceSuite) TestTopPlayersDefaultLimit() {
	for i := 0; i < 12; i++ {
		s.createPlayer(model.PlayerID(fmt.Sprintf("p%02d", i)), "P", i)
	}

	top, err := s.service.TopPlayers(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(top, DefaultTopLimit)
	s.Equal(model.PlayerID("p11"), top[0].ID)

	for i := 1; i < len(top); i++ {
		s.GreaterOrEqual(top[i-1].Stats.GamesWon, top[i].Stats.GamesWon)
	}
}

func (s *ServiceSuite) TestTopPlayersTiesByCreation() {
	s.createPlayer("late", "Late", 3)
	s.createPlayer("later", "Later", 3)

	top, err := s.service.TopPlayers(s.ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(model.PlayerID("late"), top[0].ID)
}

func (s *ServiceSuite) TestRecordOutcome() {
	s.createPlayer("p1", "Alice", 0)

	s.Require().NoError(s.service.RecordOutcome(s.ctx, "p1", model.Outcome{Won: true, Wagered: 5, Reward: 9.5}))
	s.Require().NoError(s.service.RecordOutcome(s.ctx, "p1", model.Outcome{Wagered: 5}))

	p, _ := s.storage.GetPlayer(s.ctx, "p1")
	s.Equal(model.PlayerStats{GamesPlayed: 2, GamesWon: 1, TotalWagered: 10, TotalWon: 9.5}, p.Stats)
}

func (s *ServiceSuite) TestRecordOutcomeMissingPlayer() {
	err := s.service.RecordOutcome(s.ctx, "ghost", model.Outcome{Won: true})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestRecordWinLeavesGamesPlayed() {
	s.createPlayer("p1", "Alice", 2)

	s.Require().NoError(s.service.RecordWin(s.ctx, "p1"))

	p, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(3, p.Stats.GamesWon)
	s.Equal(0, p.Stats.GamesPlayed)

	s.ErrorIs(s.service.RecordWin(s.ctx, "ghost"), model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestRecordOutcomeConcurrent() {
	s.createPlayer("p1", "Alice", 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.service.RecordOutcome(s.ctx, "p1", model.Outcome{Won: true, Reward: 1})
		}()
	}
	wg.Wait()

	p, _ := s.storage.GetPlayer(s.ctx, "p1")
	s.Equal(20, p.Stats.GamesPlayed)
	s.Equal(20, p.Stats.GamesWon)
	s.Equal(20.0, p.Stats.TotalWon)
}
