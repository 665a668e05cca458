package model

import "time"

// MatchID uniquely identifies a match scoring session
type MatchID string

// MatchStatus represents the current phase of a match
type MatchStatus string

const (
	MatchStatusSetup    MatchStatus = "setup"    // Configured but no darts recorded
	MatchStatusPlaying  MatchStatus = "playing"  // Accepting scoring input
	MatchStatusPaused   MatchStatus = "paused"   // Scoring suspended, state preserved
	MatchStatusFinished MatchStatus = "finished" // Terminal
)

// MatchType distinguishes competitive from practice scoring
type MatchType string

const (
	MatchTypeLeague   MatchType = "league"
	MatchTypePractice MatchType = "practice"
	MatchTypeWarmup   MatchType = "warmup"
)

// Valid reports whether the match type is recognized
func (t MatchType) Valid() bool {
	switch t {
	case MatchTypeLeague, MatchTypePractice, MatchTypeWarmup:
		return true
	}
	return false
}

// LegFormat is the number of legs needed to decide the match
type LegFormat string

const (
	FormatSingle  LegFormat = "single"
	FormatBestOf3 LegFormat = "bo3"
	FormatBestOf5 LegFormat = "bo5"
	FormatBestOf7 LegFormat = "bo7"
)

// RequiredLegs returns the legs-won count that decides the match
func (f LegFormat) RequiredLegs() int {
	switch f {
	case FormatBestOf3:
		return 2
	case FormatBestOf5:
		return 3
	case FormatBestOf7:
		return 4
	default:
		return 1
	}
}

// Valid reports whether the format is recognized
func (f LegFormat) Valid() bool {
	switch f {
	case FormatSingle, FormatBestOf3, FormatBestOf5, FormatBestOf7:
		return true
	}
	return false
}

// StartingScores are the supported leg starting scores
var StartingScores = []int{301, 501, 701}

// ValidStartingScore reports whether the score is a supported leg start
func ValidStartingScore(score int) bool {
	for _, s := range StartingScores {
		if s == score {
			return true
		}
	}
	return false
}

// GameState is the authoritative record of an in-progress match.
// All fields are value types so that a shallow copy is a deep snapshot.
type GameState struct {
	MatchID       MatchID
	Status        MatchStatus
	Type          MatchType
	Format        LegFormat
	StartingScore int

	HomeName string
	AwayName string

	CurrentLeg int

	// Remaining scores
	HomeScore int
	AwayScore int

	HomeLegsWon int
	AwayLegsWon int

	CurrentThrower Side
	DartsThrown    int // committed darts in the current turn (0-2 before the third)

	// Per-leg double-start flags. Exposed state only; the engine does not
	// enforce a double-in rule.
	HomeStarted bool
	AwayStarted bool

	Complete bool
	Winner   Side

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Score returns the remaining score for a side
func (g *GameState) Score(side Side) int {
	if side == SideHome {
		return g.HomeScore
	}
	return g.AwayScore
}

// SetScore updates the remaining score for a side
func (g *GameState) SetScore(side Side, score int) {
	if side == SideHome {
		g.HomeScore = score
	} else {
		g.AwayScore = score
	}
}

// LegsWon returns the legs won by a side
func (g *GameState) LegsWon(side Side) int {
	if side == SideHome {
		return g.HomeLegsWon
	}
	return g.AwayLegsWon
}

// Started reports whether a side has opened the current leg
func (g *GameState) Started(side Side) bool {
	if side == SideHome {
		return g.HomeStarted
	}
	return g.AwayStarted
}

// Clone returns an independent copy of the state
func (g *GameState) Clone() *GameState {
	c := *g
	return &c
}

// MatchSummary is a lightweight record of a finished match
type MatchSummary struct {
	ID          MatchID
	Type        MatchType
	Format      LegFormat
	HomeName    string
	AwayName    string
	HomeLegsWon int
	AwayLegsWon int
	Winner      Side
	CompletedAt time.Time
}
