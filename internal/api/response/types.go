package response

import (
	"time"

	"github.com/oche-club/dartscore-go/internal/model"
	"github.com/oche-club/dartscore-go/internal/services/auth"
	"github.com/oche-club/dartscore-go/internal/services/checkout"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// MatchState represents the live state of a match
type MatchState struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	Format        string `json:"format"`
	StartingScore int    `json:"starting_score"`

	HomeName string `json:"home_name"`
	AwayName string `json:"away_name"`

	CurrentLeg  int `json:"current_leg"`
	HomeScore   int `json:"home_score"`
	AwayScore   int `json:"away_score"`
	HomeLegsWon int `json:"home_legs_won"`
	AwayLegsWon int `json:"away_legs_won"`

	CurrentThrower string `json:"current_thrower"`
	DartsThrown    int    `json:"darts_thrown"`

	Complete bool    `json:"complete"`
	Winner   *string `json:"winner,omitempty"`

	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

// MatchStateFromModel converts a model.GameState
func MatchStateFromModel(g *model.GameState, canUndo, canRedo bool) MatchState {
	var winner *string
	if g.Winner != "" {
		w := string(g.Winner)
		winner = &w
	}
	return MatchState{
		ID:             string(g.MatchID),
		Status:         string(g.Status),
		Type:           string(g.Type),
		Format:         string(g.Format),
		StartingScore:  g.StartingScore,
		HomeName:       g.HomeName,
		AwayName:       g.AwayName,
		CurrentLeg:     g.CurrentLeg,
		HomeScore:      g.HomeScore,
		AwayScore:      g.AwayScore,
		HomeLegsWon:    g.HomeLegsWon,
		AwayLegsWon:    g.AwayLegsWon,
		CurrentThrower: string(g.CurrentThrower),
		DartsThrown:    g.DartsThrown,
		Complete:       g.Complete,
		Winner:         winner,
	}
}

// DartThrow represents one recorded dart
type DartThrow struct {
	Side               string    `json:"side"`
	LegNumber          int       `json:"leg_number"`
	TurnNumber         int       `json:"turn_number"`
	DartNumber         int       `json:"dart_number"`
	Score              int       `json:"score"`
	Display            string    `json:"display"`
	RunningScore       int       `json:"running_score"`
	IsDoubleAttempt    bool      `json:"is_double_attempt"`
	IsCheckoutAttempt  bool      `json:"is_checkout_attempt"`
	CheckoutSuccessful bool      `json:"checkout_successful"`
	Bust               bool      `json:"bust"`
	Timestamp          time.Time `json:"timestamp"`
}

// DartThrowFromModel converts a model.DartThrow
func DartThrowFromModel(t model.DartThrow) DartThrow {
	return DartThrow{
		Side:               string(t.Side),
		LegNumber:          t.LegNumber,
		TurnNumber:         t.TurnNumber,
		DartNumber:         t.DartNumber,
		Score:              t.Score,
		Display:            checkout.FormatDart(t.Score),
		RunningScore:       t.RunningScore,
		IsDoubleAttempt:    t.IsDoubleAttempt,
		IsCheckoutAttempt:  t.IsCheckoutAttempt,
		CheckoutSuccessful: t.CheckoutSuccessful,
		Bust:               t.Bust,
		Timestamp:          t.Timestamp,
	}
}

// DartThrowsFromModel converts a slice of darts
func DartThrowsFromModel(throws []model.DartThrow) []DartThrow {
	out := make([]DartThrow, len(throws))
	for i, t := range throws {
		out[i] = DartThrowFromModel(t)
	}
	return out
}

// Leg represents one leg of a match
type Leg struct {
	MatchID       string      `json:"match_id"`
	LegNumber     int         `json:"leg_number"`
	StartingScore int         `json:"starting_score"`
	Winner        *string     `json:"winner,omitempty"`
	HomeFinal     int         `json:"home_final_score"`
	AwayFinal     int         `json:"away_final_score"`
	WinningDarts  int         `json:"winning_darts"`
	TotalDarts    int         `json:"total_darts"`
	Throws        []DartThrow `json:"throws,omitempty"`
	StartedAt     time.Time   `json:"started_at"`
	EndedAt       time.Time   `json:"ended_at"`
}

// LegFromModel converts a model.LegData. Throws are included only when
// withThrows is set; list endpoints omit them to keep payloads small.
func LegFromModel(l *model.LegData, withThrows bool) Leg {
	var winner *string
	if l.Winner != "" {
		w := string(l.Winner)
		winner = &w
	}
	leg := Leg{
		MatchID:       string(l.MatchID),
		LegNumber:     l.LegNumber,
		StartingScore: l.StartingScore,
		Winner:        winner,
		HomeFinal:     l.HomeFinalScore,
		AwayFinal:     l.AwayFinalScore,
		WinningDarts:  l.WinningDarts,
		TotalDarts:    l.TotalDarts(),
		StartedAt:     l.StartedAt,
		EndedAt:       l.EndedAt,
	}
	if withThrows {
		leg.Throws = DartThrowsFromModel(l.Throws)
	}
	return leg
}

// MatchSummary represents a finished match record
type MatchSummary struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Format      string    `json:"format"`
	HomeName    string    `json:"home_name"`
	AwayName    string    `json:"away_name"`
	HomeLegsWon int       `json:"home_legs_won"`
	AwayLegsWon int       `json:"away_legs_won"`
	Winner      string    `json:"winner"`
	CompletedAt time.Time `json:"completed_at"`
}

// MatchSummaryFromModel converts a model.MatchSummary
func MatchSummaryFromModel(s *model.MatchSummary) MatchSummary {
	return MatchSummary{
		ID:          string(s.ID),
		Type:        string(s.Type),
		Format:      string(s.Format),
		HomeName:    s.HomeName,
		AwayName:    s.AwayName,
		HomeLegsWon: s.HomeLegsWon,
		AwayLegsWon: s.AwayLegsWon,
		Winner:      string(s.Winner),
		CompletedAt: s.CompletedAt,
	}
}

// CheckoutRoute is one ranked finishing sequence
type CheckoutRoute struct {
	Darts       []int  `json:"darts"`
	Description string `json:"description"`
	Difficulty  int    `json:"difficulty"`
}

// CheckoutRouteFromModel converts a model.CheckoutRoute
func CheckoutRouteFromModel(r model.CheckoutRoute) CheckoutRoute {
	return CheckoutRoute{
		Darts:       r.Darts,
		Description: r.Description,
		Difficulty:  r.Difficulty,
	}
}

// Checkout is the checkout advice for one score
type Checkout struct {
	Score       int             `json:"score"`
	Possible    bool            `json:"possible"`
	Recommended []CheckoutRoute `json:"recommended"`

	SingleDartRoutes int `json:"single_dart_routes"`
	TwoDartRoutes    int `json:"two_dart_routes"`
	ThreeDartRoutes  int `json:"three_dart_routes"`
}

// CheckoutFromModel converts a model.CheckoutData
func CheckoutFromModel(d *model.CheckoutData) Checkout {
	recommended := make([]CheckoutRoute, len(d.Recommended))
	for i, r := range d.Recommended {
		recommended[i] = CheckoutRouteFromModel(r)
	}
	return Checkout{
		Score:            d.Score,
		Possible:         d.Possible,
		Recommended:      recommended,
		SingleDartRoutes: len(d.SingleDart),
		TwoDartRoutes:    len(d.TwoDart),
		ThreeDartRoutes:  len(d.ThreeDart),
	}
}

// PlayerGameStats is one player's aggregate for a finished game
type PlayerGameStats struct {
	MatchID    string    `json:"match_id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	GameWon    bool      `json:"game_won"`
	GameDate   time.Time `json:"game_date"`

	LegsPlayed int `json:"legs_played"`
	LegsWon    int `json:"legs_won"`

	TotalDarts  int     `json:"total_darts"`
	TotalPoints int     `json:"total_points"`
	Average     float64 `json:"average"`

	Scores80Plus  int `json:"scores_80_plus"`
	Scores100Plus int `json:"scores_100_plus"`
	Scores140Plus int `json:"scores_140_plus"`
	Scores180     int `json:"scores_180"`

	DoubleAttempts   int     `json:"double_attempts"`
	DoubleHits       int     `json:"double_hits"`
	DoublePercentage float64 `json:"double_percentage"`

	CheckoutAttempts   int     `json:"checkout_attempts"`
	CheckoutHits       int     `json:"checkout_hits"`
	CheckoutPercentage float64 `json:"checkout_percentage"`

	HighestCheckout int `json:"highest_checkout"`
	HighestScore    int `json:"highest_score"`

	FinishPositions []int `json:"finish_positions,omitempty"`
}

// PlayerGameStatsFromModel converts model.PlayerGameStats
func PlayerGameStatsFromModel(s *model.PlayerGameStats) PlayerGameStats {
	return PlayerGameStats{
		MatchID:            string(s.MatchID),
		PlayerID:           string(s.PlayerID),
		PlayerName:         s.PlayerName,
		GameWon:            s.GameWon,
		GameDate:           s.GameDate,
		LegsPlayed:         s.LegsPlayed,
		LegsWon:            s.LegsWon,
		TotalDarts:         s.TotalDarts,
		TotalPoints:        s.TotalPoints,
		Average:            s.Average,
		Scores80Plus:       s.Scores80Plus,
		Scores100Plus:      s.Scores100Plus,
		Scores140Plus:      s.Scores140Plus,
		Scores180:          s.Scores180,
		DoubleAttempts:     s.DoubleAttempts,
		DoubleHits:         s.DoubleHits,
		DoublePercentage:   s.DoublePercentage,
		CheckoutAttempts:   s.CheckoutAttempts,
		CheckoutHits:       s.CheckoutHits,
		CheckoutPercentage: s.CheckoutPercentage,
		HighestCheckout:    s.HighestCheckout,
		HighestScore:       s.HighestScore,
		FinishPositions:    s.FinishPositions,
	}
}

// SeasonStats aggregates a player's stored games
type SeasonStats struct {
	GamesPlayed   int     `json:"games_played"`
	GamesWon      int     `json:"games_won"`
	WinPercentage float64 `json:"win_percentage"`

	TotalDarts     int     `json:"total_darts"`
	OverallAverage float64 `json:"overall_average"`
	BestAverage    float64 `json:"best_average"`
	WorstAverage   float64 `json:"worst_average"`

	Total180s int `json:"total_180s"`

	CheckoutPercentage float64 `json:"checkout_percentage"`
	DoublePercentage   float64 `json:"double_percentage"`
	HighestCheckout    int     `json:"highest_checkout"`
	FavouriteFinish    int     `json:"favourite_finish"`
}

// SeasonStatsFromModel converts model.SeasonStats
func SeasonStatsFromModel(s model.SeasonStats) SeasonStats {
	return SeasonStats{
		GamesPlayed:        s.GamesPlayed,
		GamesWon:           s.GamesWon,
		WinPercentage:      s.WinPercentage,
		TotalDarts:         s.TotalDarts,
		OverallAverage:     s.OverallAverage,
		BestAverage:        s.BestAverage,
		WorstAverage:       s.WorstAverage,
		Total180s:          s.Total180s,
		CheckoutPercentage: s.CheckoutPercentage,
		DoublePercentage:   s.DoublePercentage,
		HighestCheckout:    s.HighestCheckout,
		FavouriteFinish:    s.FavouriteFinish,
	}
}

// FormGuide summarizes a player's recent games
type FormGuide struct {
	RecentForm          []bool  `json:"recent_form"`
	RecentWinPercentage float64 `json:"recent_win_percentage"`
	RecentAverage       float64 `json:"recent_average"`
	Trend               string  `json:"trend"`
	StreakType          string  `json:"streak_type"`
	StreakLength        int     `json:"streak_length"`
}

// FormGuideFromModel converts model.FormGuide
func FormGuideFromModel(f model.FormGuide) FormGuide {
	return FormGuide{
		RecentForm:          f.RecentForm,
		RecentWinPercentage: f.RecentWinPercentage,
		RecentAverage:       f.RecentAverage,
		Trend:               string(f.Trend),
		StreakType:          string(f.StreakType),
		StreakLength:        f.StreakLength,
	}
}

// PlayerStats is the full stats view for one player
type PlayerStats struct {
	PlayerID string            `json:"player_id"`
	Season   SeasonStats       `json:"season"`
	Form     FormGuide         `json:"form"`
	Games    []PlayerGameStats `json:"games"`
}

// LegHighlight identifies a leg by number and dart count
type LegHighlight struct {
	LegNumber int `json:"leg_number"`
	Darts     int `json:"darts"`
}

// MatchStats summarizes one side's legs across a match
type MatchStats struct {
	TotalLegs          int           `json:"total_legs"`
	LegsWon            int           `json:"legs_won"`
	TotalDarts         int           `json:"total_darts"`
	TotalPoints        int           `json:"total_points"`
	LegWinPercentage   float64       `json:"leg_win_percentage"`
	AverageDartsPerLeg float64       `json:"average_darts_per_leg"`
	BestLeg            *LegHighlight `json:"best_leg,omitempty"`
	WorstLeg           *LegHighlight `json:"worst_leg,omitempty"`
}

// MatchStatsFromModel converts model.MatchStats
func MatchStatsFromModel(s model.MatchStats) MatchStats {
	out := MatchStats{
		TotalLegs:          s.TotalLegs,
		LegsWon:            s.LegsWon,
		TotalDarts:         s.TotalDarts,
		TotalPoints:        s.TotalPoints,
		LegWinPercentage:   s.LegWinPercentage,
		AverageDartsPerLeg: s.AverageDartsPerLeg,
	}
	if s.BestLeg != nil {
		out.BestLeg = &LegHighlight{LegNumber: s.BestLeg.LegNumber, Darts: s.BestLeg.Darts}
	}
	if s.WorstLeg != nil {
		out.WorstLeg = &LegHighlight{LegNumber: s.WorstLeg.LegNumber, Darts: s.WorstLeg.Darts}
	}
	return out
}
