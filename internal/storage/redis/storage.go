package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oche-club/dartscore-go/internal/model"
	"github.com/oche-club/dartscore-go/internal/storage"
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

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
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

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	key := playerKey(player.ID)

	// Apply TTL only for guest players
	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}

	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0) // No TTL
	pipe.Set(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	data, err := s.client.Get(ctx, registeredPlayerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	// Look up player ID from username index
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerIDStr))
}

// Leg operations

func (s *Storage) SaveLeg(ctx context.Context, leg *model.LegData) error {
	data, err := json.Marshal(leg)
	if err != nil {
		return err
	}

	lKey := legKey(leg.MatchID, leg.LegNumber)
	indexKey := legsForMatchIndexKey(leg.MatchID)

	// SET on a fixed key plus SADD makes the save an idempotent upsert
	pipe := s.client.Pipeline()
	pipe.Set(ctx, lKey, data, 0)
	pipe.SAdd(ctx, indexKey, lKey)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetLeg(ctx context.Context, matchID model.MatchID, legNumber int) (*model.LegData, error) {
	data, err := s.client.Get(ctx, legKey(matchID, legNumber)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrLegNotFound
		}
		return nil, err
	}

	var leg model.LegData
	if err := json.Unmarshal(data, &leg); err != nil {
		return nil, err
	}
	return &leg, nil
}

func (s *Storage) GetLegsForMatch(ctx context.Context, matchID model.MatchID) ([]*model.LegData, error) {
	indexKey := legsForMatchIndexKey(matchID)

	legKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(legKeys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, legKeys...).Result()
	if err != nil {
		return nil, err
	}

	legs := make([]*model.LegData, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var leg model.LegData
		if err := json.Unmarshal([]byte(val.(string)), &leg); err != nil {
			continue // Skip invalid data
		}
		legs = append(legs, &leg)
	}

	sort.Slice(legs, func(i, j int) bool {
		return legs[i].LegNumber < legs[j].LegNumber
	})
	return legs, nil
}

// Match summary operations

func (s *Storage) SaveMatchSummary(ctx context.Context, summary *model.MatchSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	key := matchSummaryKey(summary.ID)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, matchSummaryIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatchSummary(ctx context.Context, id model.MatchID) (*model.MatchSummary, error) {
	data, err := s.client.Get(ctx, matchSummaryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var summary model.MatchSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Storage) ListMatchSummaries(ctx context.Context) ([]*model.MatchSummary, error) {
	keys, err := s.client.SMembers(ctx, matchSummaryIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.MatchSummary{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.MatchSummary, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var summary model.MatchSummary
		if err := json.Unmarshal([]byte(val.(string)), &summary); err != nil {
			continue // Skip invalid data
		}
		summaries = append(summaries, &summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CompletedAt.Before(summaries[j].CompletedAt)
	})
	return summaries, nil
}

// Player game stats operations

func (s *Storage) SavePlayerGameStats(ctx context.Context, stats *model.PlayerGameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	key := playerStatsKey(stats.MatchID, stats.PlayerID)
	indexKey := statsForPlayerIndexKey(stats.PlayerID)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, indexKey, key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayerGameStats(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.PlayerGameStats, error) {
	data, err := s.client.Get(ctx, playerStatsKey(matchID, playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}

	var stats model.PlayerGameStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Storage) GetStatsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.PlayerGameStats, error) {
	keys, err := s.client.SMembers(ctx, statsForPlayerIndexKey(playerID)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*model.PlayerGameStats, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var stats model.PlayerGameStats
		if err := json.Unmarshal([]byte(val.(string)), &stats); err != nil {
			continue // Skip invalid data
		}
		results = append(results, &stats)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].GameDate.Before(results[j].GameDate)
	})
	return results, nil
}
