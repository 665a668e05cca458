package storage

import (
	"context"

	"github.com/oche-club/dartscore-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Leg operations. SaveLeg is an idempotent upsert keyed by
	// (match id, leg number); saving the same leg twice is not an error.
	SaveLeg(ctx context.Context, leg *model.LegData) error
	GetLeg(ctx context.Context, matchID model.MatchID, legNumber int) (*model.LegData, error)
	GetLegsForMatch(ctx context.Context, matchID model.MatchID) ([]*model.LegData, error)

	// Match summary operations
	SaveMatchSummary(ctx context.Context, summary *model.MatchSummary) error
	GetMatchSummary(ctx context.Context, id model.MatchID) (*model.MatchSummary, error)
	ListMatchSummaries(ctx context.Context) ([]*model.MatchSummary, error)

	// Player game stats, keyed by (match id, player id)
	SavePlayerGameStats(ctx context.Context, stats *model.PlayerGameStats) error
	GetPlayerGameStats(ctx context.Context, matchID model.MatchID, playerID model.PlayerID) (*model.PlayerGameStats, error)
	GetStatsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.PlayerGameStats, error)
}
