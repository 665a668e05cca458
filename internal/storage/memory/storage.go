package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oche-club/dartscore-go/internal/model"
	"github.com/oche-club/dartscore-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	legs              map[legKey]*model.LegData
	summaries         map[model.MatchID]*model.MatchSummary
	playerStats       map[statsKey]*model.PlayerGameStats
}

type legKey struct {
	matchID   model.MatchID
	legNumber int
}

type statsKey struct {
	matchID  model.MatchID
	playerID model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		legs:              make(map[legKey]*model.LegData),
		summaries:         make(map[model.MatchID]*model.MatchSummary),
		playerStats:       make(map[statsKey]*model.PlayerGameStats),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = rp
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

// Leg operations

func (s *Storage) SaveLeg(ctx context.Context, leg *model.LegData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legs[legKey{matchID: leg.MatchID, legNumber: leg.LegNumber}] = leg
	return nil
}

func (s *Storage) GetLeg(ctx context.Context, matchID model.MatchID, legNumber int) (*model.LegData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	leg, ok := s.legs[legKey{matchID: matchID, legNumber: legNumber}]
	if !ok {
		return nil, model.ErrLegNotFound
	}
	return leg, nil
}

func (s *Storage) GetLegsForMatch(ctx context.Context, matchID model.MatchID) ([]*model.LegData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var legs []*model.LegData
	for key, leg := range s.legs {
		if key.matchID == matchID {
			legs = append(legs, leg)
		}
	}
	sort.Slice(legs, func(i, j int) bool {
		return legs[i].LegNumber < legs[j].LegNumber
	})
	return legs, nil
}

// Match summary operations

func (s *Storage) SaveMatchSummary(ctx context.Context, summary *model.MatchSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summary.ID] = summary
	return nil
}

func (s *Storage) GetMatchSummary(ctx context.Context, id model.MatchID) (*model.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.summaries[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return summary, nil
}

func (s *Storage) ListMatchSummaries(ctx context.Context) ([]*model.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]*model.MatchSummary, 0, len(s.summaries))
	for _, summary := range s.summaries {
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CompletedAt.Before(summaries[j].CompletedAt)
	})
	return summaries, nil
}

// Player game stats operations

func (s *Storage) SavePlayerGameStats(ctx context.Context, stats *model.PlayerGameStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerStats[statsKey{matchID: stats.MatchID, playerID: stats.PlayerID}] = stats
	return nil
}

func (s *Storage) GetPlayerGameStats(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.PlayerGameStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.playerStats[statsKey{matchID: matchID, playerID: playerID}]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	return stats, nil
}

func (s *Storage) GetStatsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.PlayerGameStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []*model.PlayerGameStats
	for key, stats := range s.playerStats {
		if key.playerID == playerID {
			results = append(results, stats)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].GameDate.Before(results[j].GameDate)
	})
	return results, nil
}
