package redis

import (
	"fmt"

	"github.com/oche-club/dartscore-go/internal/model"
)

// Key prefix for all scoring data
const keyPrefix = "dartscore"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// legKey returns the Redis key for a LegData record.
// Keying by (match id, leg number) makes SaveLeg an idempotent upsert.
func legKey(matchID model.MatchID, legNumber int) string {
	return fmt.Sprintf("%s:leg:%s:%d", keyPrefix, matchID, legNumber)
}

// legsForMatchIndexKey returns the Redis key for the SET of legs in a match
func legsForMatchIndexKey(matchID model.MatchID) string {
	return fmt.Sprintf("%s:idx:legs_for_match:%s", keyPrefix, matchID)
}

// matchSummaryKey returns the Redis key for a MatchSummary
func matchSummaryKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match_summary:%s", keyPrefix, id)
}

// matchSummaryIndexKey returns the Redis key for the SET of all summaries
func matchSummaryIndexKey() string {
	return fmt.Sprintf("%s:idx:match_summaries", keyPrefix)
}

// playerStatsKey returns the Redis key for a PlayerGameStats record
func playerStatsKey(matchID model.MatchID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:player_stats:%s:%s", keyPrefix, matchID, playerID)
}

// statsForPlayerIndexKey returns the Redis key for the SET of a player's stats
func statsForPlayerIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:stats_for_player:%s", keyPrefix, playerID)
}
