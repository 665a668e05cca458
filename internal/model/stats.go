package model

import "time"

// PlayerGameStats is the full aggregate for one player's game.
// A value object recomputed on demand; persisted only as a completed record.
type PlayerGameStats struct {
	MatchID    MatchID
	PlayerID   PlayerID
	PlayerName string
	GameWon    bool
	GameDate   time.Time

	LegsPlayed int
	LegsWon    int

	TotalDarts  int
	TotalPoints int
	Average     float64 // points per dart, 2dp

	// Cumulative turn-total buckets: a 180 counts in all four
	Scores80Plus  int
	Scores100Plus int
	Scores140Plus int
	Scores180     int

	DoubleAttempts   int
	DoubleHits       int
	DoublePercentage float64

	CheckoutAttempts   int
	CheckoutHits       int
	CheckoutPercentage float64

	HighestCheckout int
	HighestScore    int // best turn total, not best single dart

	// FinishPositions are the scores the player checked out from
	FinishPositions []int
}

// LegStats is the live aggregate for a single leg
type LegStats struct {
	TotalDarts    int
	TotalPoints   int
	Average       float64
	Scores80Plus  int
	Scores100Plus int
	Scores140Plus int
	Scores180     int
	HighestScore  int
}

// LegHighlight identifies a leg by number and dart count
type LegHighlight struct {
	LegNumber int
	Darts     int
}

// MatchStats summarizes a player's legs across one match
type MatchStats struct {
	TotalLegs         int
	LegsWon           int
	TotalDarts        int
	TotalPoints       int
	LegWinPercentage  float64
	AverageDartsPerLeg float64

	// Best and worst won legs by dart count; nil if no legs were won
	BestLeg  *LegHighlight
	WorstLeg *LegHighlight
}

// SeasonStats aggregates a player's stored game stats over a season
type SeasonStats struct {
	GamesPlayed   int
	GamesWon      int
	WinPercentage float64

	TotalDarts     int
	OverallAverage float64
	BestAverage    float64
	WorstAverage   float64

	Total180s int

	CheckoutPercentage float64
	DoublePercentage   float64
	HighestCheckout    int

	// FavouriteFinish is the most common checkout position, zero if none
	FavouriteFinish int
}

// Trend classifies recent form
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// StreakType classifies the current run of results
type StreakType string

const (
	StreakWinning StreakType = "winning"
	StreakLosing  StreakType = "losing"
	StreakNone    StreakType = "none"
)

// FormGuide summarizes a player's recent games
type FormGuide struct {
	RecentForm          []bool // true = win, ordered oldest first
	RecentWinPercentage float64
	RecentAverage       float64
	Trend               Trend
	StreakType          StreakType
	StreakLength        int
}
