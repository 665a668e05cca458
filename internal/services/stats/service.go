package stats

import (
	"math"

	"github.com/oche-club/dartscore-go/internal/model"
)

// Config holds tuning knobs for form analysis
type Config struct {
	// FormGames is how many recent games the form guide considers
	FormGames int

	// TrendThreshold is the one-dart average gap between the first and
	// second half of recent games needed to call a trend
	TrendThreshold float64
}

// DefaultConfig returns the standard form analysis settings
func DefaultConfig() Config {
	return Config{
		FormGames:      5,
		TrendThreshold: 1.0,
	}
}

// Service computes derived statistics from dart and leg history.
// All methods are pure transformations; empty input yields zeroed aggregates.
type Service struct {
	cfg Config
}

// New creates a new statistics service
func New(cfg Config) *Service {
	if cfg.FormGames == 0 {
		cfg.FormGames = DefaultConfig().FormGames
	}
	if cfg.TrendThreshold == 0 {
		cfg.TrendThreshold = DefaultConfig().TrendThreshold
	}
	return &Service{cfg: cfg}
}

// turnKey identifies a turn across legs
type turnKey struct {
	leg  int
	turn int
}

// turnBuckets holds turn-total classifications for a dart list
type turnBuckets struct {
	scores80Plus  int
	scores100Plus int
	scores140Plus int
	scores180     int
	highestScore  int
}

// GameStats computes the full aggregate for one player's game
func (s *Service) GameStats(
	playerID model.PlayerID,
	playerName string,
	darts []model.DartThrow,
	legs []model.LegData,
	gameWon bool,
) model.PlayerGameStats {
	stats := model.PlayerGameStats{
		PlayerID:   playerID,
		PlayerName: playerName,
		GameWon:    gameWon,
		LegsPlayed: len(legs),
		TotalDarts: len(darts),
	}

	for _, leg := range legs {
		if leg.Winner != "" && gameWonLeg(leg, darts) {
			stats.LegsWon++
		}
	}

	for _, d := range darts {
		stats.TotalPoints += d.Score
		if d.IsDoubleAttempt {
			stats.DoubleAttempts++
			if d.Score > 0 {
				stats.DoubleHits++
			}
		}
		if d.IsCheckoutAttempt {
			stats.CheckoutAttempts++
		}
		if d.CheckoutSuccessful {
			stats.CheckoutHits++
			value := s.checkoutValue(d, darts)
			stats.FinishPositions = append(stats.FinishPositions, value)
			if value > stats.HighestCheckout {
				stats.HighestCheckout = value
			}
		}
	}

	if stats.TotalDarts > 0 {
		stats.Average = round2(float64(stats.TotalPoints) / float64(stats.TotalDarts))
	}

	buckets := s.turnStatistics(darts)
	stats.Scores80Plus = buckets.scores80Plus
	stats.Scores100Plus = buckets.scores100Plus
	stats.Scores140Plus = buckets.scores140Plus
	stats.Scores180 = buckets.scores180
	stats.HighestScore = buckets.highestScore

	if stats.DoubleAttempts > 0 {
		stats.DoublePercentage = round2(float64(stats.DoubleHits) / float64(stats.DoubleAttempts) * 100)
	}
	if stats.CheckoutAttempts > 0 {
		stats.CheckoutPercentage = round2(float64(stats.CheckoutHits) / float64(stats.CheckoutAttempts) * 100)
	}

	return stats
}

// gameWonLeg reports whether the leg was won by the player whose darts are
// given; the player's winning dart carries the CheckoutSuccessful flag
func gameWonLeg(leg model.LegData, darts []model.DartThrow) bool {
	for _, d := range darts {
		if d.LegNumber == leg.LegNumber && d.CheckoutSuccessful {
			return true
		}
	}
	return false
}

// turnStatistics groups darts by (leg, turn) and classifies the turn totals.
// Buckets are cumulative: a 180 counts in all four.
func (s *Service) turnStatistics(darts []model.DartThrow) turnBuckets {
	totals := make(map[turnKey]int)
	for _, d := range darts {
		totals[turnKey{leg: d.LegNumber, turn: d.TurnNumber}] += d.Score
	}

	var b turnBuckets
	for _, total := range totals {
		if total >= 80 {
			b.scores80Plus++
		}
		if total >= 100 {
			b.scores100Plus++
		}
		if total >= 140 {
			b.scores140Plus++
		}
		if total == 180 {
			b.scores180++
		}
		if total > b.highestScore {
			b.highestScore = total
		}
	}
	return b
}

// checkoutValue is the score the player finished from: the sum of every dart
// in the finishing turn up to and including the successful dart. A checkout
// always completes within a single turn's darts.
func (s *Service) checkoutValue(checkoutDart model.DartThrow, all []model.DartThrow) int {
	value := 0
	for _, d := range all {
		if d.LegNumber == checkoutDart.LegNumber &&
			d.TurnNumber == checkoutDart.TurnNumber &&
			d.DartNumber <= checkoutDart.DartNumber {
			value += d.Score
		}
	}
	return value
}

// LegStats computes the live aggregate for one leg of a dart history
func (s *Service) LegStats(darts []model.DartThrow, legNumber int) model.LegStats {
	var legDarts []model.DartThrow
	for _, d := range darts {
		if d.LegNumber == legNumber {
			legDarts = append(legDarts, d)
		}
	}

	var stats model.LegStats
	stats.TotalDarts = len(legDarts)
	for _, d := range legDarts {
		stats.TotalPoints += d.Score
	}
	if stats.TotalDarts > 0 {
		stats.Average = round2(float64(stats.TotalPoints) / float64(stats.TotalDarts))
	}

	buckets := s.turnStatistics(legDarts)
	stats.Scores80Plus = buckets.scores80Plus
	stats.Scores100Plus = buckets.scores100Plus
	stats.Scores140Plus = buckets.scores140Plus
	stats.Scores180 = buckets.scores180
	stats.HighestScore = buckets.highestScore

	return stats
}

// MatchStats summarizes one side's legs across a match
func (s *Service) MatchStats(legs []model.LegData, side model.Side) model.MatchStats {
	var stats model.MatchStats
	stats.TotalLegs = len(legs)

	for _, leg := range legs {
		throws := leg.ThrowsFor(side)
		stats.TotalDarts += len(throws)
		for _, t := range throws {
			stats.TotalPoints += t.Score
		}

		if leg.Winner != side {
			continue
		}
		stats.LegsWon++

		highlight := model.LegHighlight{LegNumber: leg.LegNumber, Darts: leg.WinningDarts}
		if stats.BestLeg == nil || highlight.Darts < stats.BestLeg.Darts {
			best := highlight
			stats.BestLeg = &best
		}
		if stats.WorstLeg == nil || highlight.Darts > stats.WorstLeg.Darts {
			worst := highlight
			stats.WorstLeg = &worst
		}
	}

	if stats.TotalLegs > 0 {
		stats.LegWinPercentage = round2(float64(stats.LegsWon) / float64(stats.TotalLegs) * 100)
		stats.AverageDartsPerLeg = round2(float64(stats.TotalDarts) / float64(stats.TotalLegs))
	}

	return stats
}

// SeasonStats aggregates stored per-game stats across a season
func (s *Service) SeasonStats(games []model.PlayerGameStats) model.SeasonStats {
	var season model.SeasonStats
	season.GamesPlayed = len(games)

	var (
		totalPoints      int
		checkoutAttempts int
		checkoutHits     int
		doubleAttempts   int
		doubleHits       int
	)
	finishCounts := make(map[int]int)

	for _, g := range games {
		if g.GameWon {
			season.GamesWon++
		}
		season.TotalDarts += g.TotalDarts
		totalPoints += g.TotalPoints
		season.Total180s += g.Scores180

		checkoutAttempts += g.CheckoutAttempts
		checkoutHits += g.CheckoutHits
		doubleAttempts += g.DoubleAttempts
		doubleHits += g.DoubleHits

		if g.Average > 0 {
			if season.BestAverage == 0 || g.Average > season.BestAverage {
				season.BestAverage = g.Average
			}
			if season.WorstAverage == 0 || g.Average < season.WorstAverage {
				season.WorstAverage = g.Average
			}
		}

		if g.HighestCheckout > season.HighestCheckout {
			season.HighestCheckout = g.HighestCheckout
		}
		for _, finish := range g.FinishPositions {
			finishCounts[finish]++
		}
	}

	if season.GamesPlayed > 0 {
		season.WinPercentage = round2(float64(season.GamesWon) / float64(season.GamesPlayed) * 100)
	}
	if season.TotalDarts > 0 {
		season.OverallAverage = round2(float64(totalPoints) / float64(season.TotalDarts))
	}
	if checkoutAttempts > 0 {
		season.CheckoutPercentage = round2(float64(checkoutHits) / float64(checkoutAttempts) * 100)
	}
	if doubleAttempts > 0 {
		season.DoublePercentage = round2(float64(doubleHits) / float64(doubleAttempts) * 100)
	}

	best := 0
	for finish, count := range finishCounts {
		if count > best || (count == best && finish > season.FavouriteFinish) {
			best = count
			season.FavouriteFinish = finish
		}
	}

	return season
}

// FormGuide analyses a player's recent games, ordered oldest first
func (s *Service) FormGuide(games []model.PlayerGameStats) model.FormGuide {
	recent := games
	if len(recent) > s.cfg.FormGames {
		recent = recent[len(recent)-s.cfg.FormGames:]
	}

	guide := model.FormGuide{
		Trend:      model.TrendStable,
		StreakType: model.StreakNone,
	}

	wins := 0
	var totalDarts, totalPoints int
	for _, g := range recent {
		guide.RecentForm = append(guide.RecentForm, g.GameWon)
		if g.GameWon {
			wins++
		}
		totalDarts += g.TotalDarts
		totalPoints += g.TotalPoints
	}

	if len(recent) > 0 {
		guide.RecentWinPercentage = round2(float64(wins) / float64(len(recent)) * 100)
	}
	if totalDarts > 0 {
		guide.RecentAverage = round2(float64(totalPoints) / float64(totalDarts))
	}

	// Trend: compare one-dart averages of the earlier and later halves.
	// A heuristic, not a significance test.
	if len(recent) >= 4 {
		half := len(recent) / 2
		firstHalf := averageForGames(recent[:half])
		secondHalf := averageForGames(recent[half:])

		if secondHalf > firstHalf+s.cfg.TrendThreshold {
			guide.Trend = model.TrendImproving
		} else if firstHalf > secondHalf+s.cfg.TrendThreshold {
			guide.Trend = model.TrendDeclining
		}
	}

	// Current streak from the latest game backwards
	if len(recent) > 0 {
		last := recent[len(recent)-1].GameWon
		length := 0
		for i := len(recent) - 1; i >= 0; i-- {
			if recent[i].GameWon != last {
				break
			}
			length++
		}
		guide.StreakLength = length
		if length > 1 {
			if last {
				guide.StreakType = model.StreakWinning
			} else {
				guide.StreakType = model.StreakLosing
			}
		}
	}

	return guide
}

func averageForGames(games []model.PlayerGameStats) float64 {
	var darts, points int
	for _, g := range games {
		darts += g.TotalDarts
		points += g.TotalPoints
	}
	if darts == 0 {
		return 0
	}
	return float64(points) / float64(darts)
}

// round2 rounds to 2 decimal places, half away from zero
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Interface for dependency injection
type ServiceInterface interface {
	GameStats(playerID model.PlayerID, playerName string, darts []model.DartThrow, legs []model.LegData, gameWon bool) model.PlayerGameStats
	LegStats(darts []model.DartThrow, legNumber int) model.LegStats
	MatchStats(legs []model.LegData, side model.Side) model.MatchStats
	SeasonStats(games []model.PlayerGameStats) model.SeasonStats
	FormGuide(games []model.PlayerGameStats) model.FormGuide
}

var _ ServiceInterface = (*Service)(nil)
