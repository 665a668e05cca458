package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/oche-club/dartscore-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestPlayerTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		IsGuest:     false,
		CreatedAt:   time.Now().UTC(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGuestPlayerExpires() {
	player := &model.Player{ID: "guest-1", DisplayName: "Guest", IsGuest: true}
	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	s.mini.FastForward(2 * time.Hour)

	_, err = s.storage.GetPlayer(s.ctx, "guest-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestRegisteredPlayerDoesNotExpire() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
	}
	err := s.storage.SaveRegisteredPlayer(s.ctx, rp)
	s.Require().NoError(err)

	s.mini.FastForward(48 * time.Hour)

	retrieved, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.PlayerID)
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsernameNotFound() {
	_, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Leg tests

func (s *StorageSuite) TestSaveAndGetLeg() {
	leg := &model.LegData{
		MatchID:       "MATCH1",
		LegNumber:     1,
		StartingScore: 501,
		Winner:        model.SideHome,
		WinningDarts:  15,
		Throws: []model.DartThrow{
			{MatchID: "MATCH1", Side: model.SideHome, LegNumber: 1, TurnNumber: 1, DartNumber: 1, Score: 60},
		},
	}

	err := s.storage.SaveLeg(s.ctx, leg)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetLeg(s.ctx, "MATCH1", 1)
	s.Require().NoError(err)
	s.Equal(model.SideHome, retrieved.Winner)
	s.Require().Len(retrieved.Throws, 1)
	s.Equal(60, retrieved.Throws[0].Score)
}

func (s *StorageSuite) TestGetLegNotFound() {
	_, err := s.storage.GetLeg(s.ctx, "MATCH1", 1)
	s.ErrorIs(err, model.ErrLegNotFound)
}

func (s *StorageSuite) TestSaveLegIsIdempotentUpsert() {
	_ = s.storage.SaveLeg(s.ctx, &model.LegData{MatchID: "MATCH1", LegNumber: 1, Winner: model.SideHome})

	err := s.storage.SaveLeg(s.ctx, &model.LegData{MatchID: "MATCH1", LegNumber: 1, Winner: model.SideAway})
	s.Require().NoError(err)

	legs, err := s.storage.GetLegsForMatch(s.ctx, "MATCH1")
	s.Require().NoError(err)
	s.Require().Len(legs, 1)
	s.Equal(model.SideAway, legs[0].Winner)
}

func (s *StorageSuite) TestGetLegsForMatchOrderedByLegNumber() {
	_ = s.storage.SaveLeg(s.ctx, &model.LegData{MatchID: "MATCH1", LegNumber: 2})
	_ = s.storage.SaveLeg(s.ctx, &model.LegData{MatchID: "MATCH1", LegNumber: 1})
	_ = s.storage.SaveLeg(s.ctx, &model.LegData{MatchID: "MATCH2", LegNumber: 1})

	legs, err := s.storage.GetLegsForMatch(s.ctx, "MATCH1")
	s.Require().NoError(err)
	s.Require().Len(legs, 2)
	s.Equal(1, legs[0].LegNumber)
	s.Equal(2, legs[1].LegNumber)
}

// Match summary tests

func (s *StorageSuite) TestSaveAndGetMatchSummary() {
	summary := &model.MatchSummary{
		ID:     "MATCH1",
		Type:   model.MatchTypeLeague,
		Format: model.FormatBestOf5,
		Winner: model.SideHome,
	}

	err := s.storage.SaveMatchSummary(s.ctx, summary)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetMatchSummary(s.ctx, "MATCH1")
	s.Require().NoError(err)
	s.Equal(model.SideHome, retrieved.Winner)
	s.Equal(model.FormatBestOf5, retrieved.Format)
}

func (s *StorageSuite) TestGetMatchSummaryNotFound() {
	_, err := s.storage.GetMatchSummary(s.ctx, "MATCH1")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestListMatchSummariesOrderedByCompletion() {
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	_ = s.storage.SaveMatchSummary(s.ctx, &model.MatchSummary{ID: "M2", CompletedAt: base.Add(2 * time.Hour)})
	_ = s.storage.SaveMatchSummary(s.ctx, &model.MatchSummary{ID: "M1", CompletedAt: base})

	summaries, err := s.storage.ListMatchSummaries(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal(model.MatchID("M1"), summaries[0].ID)
	s.Equal(model.MatchID("M2"), summaries[1].ID)
}

// Player game stats tests

func (s *StorageSuite) TestSaveAndGetPlayerGameStats() {
	stats := &model.PlayerGameStats{
		MatchID:         "MATCH1",
		PlayerID:        "player-1",
		Average:         26.32,
		HighestCheckout: 120,
		GameWon:         true,
	}

	err := s.storage.SavePlayerGameStats(s.ctx, stats)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayerGameStats(s.ctx, "MATCH1", "player-1")
	s.Require().NoError(err)
	s.Equal(26.32, retrieved.Average)
	s.Equal(120, retrieved.HighestCheckout)
}

func (s *StorageSuite) TestGetPlayerGameStatsNotFound() {
	_, err := s.storage.GetPlayerGameStats(s.ctx, "MATCH1", "player-1")
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *StorageSuite) TestGetStatsForPlayerOrderedByDate() {
	base := time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC)
	_ = s.storage.SavePlayerGameStats(s.ctx, &model.PlayerGameStats{MatchID: "M2", PlayerID: "p1", GameDate: base.Add(24 * time.Hour)})
	_ = s.storage.SavePlayerGameStats(s.ctx, &model.PlayerGameStats{MatchID: "M1", PlayerID: "p1", GameDate: base})
	_ = s.storage.SavePlayerGameStats(s.ctx, &model.PlayerGameStats{MatchID: "M3", PlayerID: "p2", GameDate: base})

	results, err := s.storage.GetStatsForPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(model.MatchID("M1"), results[0].MatchID)
	s.Equal(model.MatchID("M2"), results[1].MatchID)
}
