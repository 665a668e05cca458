package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case MatchState:
		o.printMatchState(v)
	case []DartThrow:
		o.printDarts(v)
	case []Leg:
		o.printLegs(v)
	case Leg:
		o.printLeg(v)
	case []MatchSummary:
		o.printMatchSummaries(v)
	case Checkout:
		o.printCheckout(v)
	case []CheckoutRoute:
		o.printRoutes(v)
	case PlayerStats:
		o.printPlayerStats(v)
	case MatchStats:
		o.printMatchStats(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// MatchState response type
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

// DartThrow response type
type DartThrow struct {
	Side               string `json:"side"`
	LegNumber          int    `json:"leg_number"`
	TurnNumber         int    `json:"turn_number"`
	DartNumber         int    `json:"dart_number"`
	Score              int    `json:"score"`
	Display            string `json:"display"`
	RunningScore       int    `json:"running_score"`
	CheckoutSuccessful bool   `json:"checkout_successful"`
	Bust               bool   `json:"bust"`
}

// Leg response type
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
}

// MatchSummary response type
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

// CheckoutRoute response type
type CheckoutRoute struct {
	Darts       []int  `json:"darts"`
	Description string `json:"description"`
	Difficulty  int    `json:"difficulty"`
}

// Checkout response type
type Checkout struct {
	Score       int             `json:"score"`
	Possible    bool            `json:"possible"`
	Recommended []CheckoutRoute `json:"recommended"`
}

// SeasonStats response type
type SeasonStats struct {
	GamesPlayed        int     `json:"games_played"`
	GamesWon           int     `json:"games_won"`
	WinPercentage      float64 `json:"win_percentage"`
	TotalDarts         int     `json:"total_darts"`
	OverallAverage     float64 `json:"overall_average"`
	BestAverage        float64 `json:"best_average"`
	Total180s          int     `json:"total_180s"`
	CheckoutPercentage float64 `json:"checkout_percentage"`
	HighestCheckout    int     `json:"highest_checkout"`
	FavouriteFinish    int     `json:"favourite_finish"`
}

// FormGuide response type
type FormGuide struct {
	RecentForm          []bool  `json:"recent_form"`
	RecentWinPercentage float64 `json:"recent_win_percentage"`
	RecentAverage       float64 `json:"recent_average"`
	Trend               string  `json:"trend"`
	StreakType          string  `json:"streak_type"`
	StreakLength        int     `json:"streak_length"`
}

// PlayerStats response type
type PlayerStats struct {
	PlayerID string      `json:"player_id"`
	Season   SeasonStats `json:"season"`
	Form     FormGuide   `json:"form"`
}

// LegHighlight response type
type LegHighlight struct {
	LegNumber int `json:"leg_number"`
	Darts     int `json:"darts"`
}

// MatchStats response type
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

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printMatchState(m MatchState) {
	fmt.Printf("Match: %s (%s, %s, %d start)\n", m.ID, m.Type, m.Format, m.StartingScore)
	fmt.Printf("Status: %s\n", m.Status)
	fmt.Printf("Leg: %d\n", m.CurrentLeg)
	fmt.Println()

	homeMark := " "
	awayMark := " "
	if m.CurrentThrower == "home" {
		homeMark = "*"
	} else {
		awayMark = "*"
	}
	fmt.Printf(" %s %-20s %4d  (legs: %d)\n", homeMark, m.HomeName, m.HomeScore, m.HomeLegsWon)
	fmt.Printf(" %s %-20s %4d  (legs: %d)\n", awayMark, m.AwayName, m.AwayScore, m.AwayLegsWon)

	if m.DartsThrown > 0 {
		fmt.Printf("\nDarts this turn: %d\n", m.DartsThrown)
	}
	if m.Complete && m.Winner != nil {
		fmt.Printf("\nWinner: %s\n", *m.Winner)
	}
}

func (o *Output) printDarts(darts []DartThrow) {
	if len(darts) == 0 {
		fmt.Println("No darts recorded")
		return
	}
	for _, d := range darts {
		flags := ""
		if d.Bust {
			flags = " [bust]"
		}
		if d.CheckoutSuccessful {
			flags = " [checkout]"
		}
		fmt.Printf("  leg %d turn %2d dart %d  %-4s %-5s -> %d%s\n",
			d.LegNumber, d.TurnNumber, d.DartNumber, d.Side, d.Display, d.RunningScore, flags)
	}
}

func (o *Output) printLeg(l Leg) {
	winner := "in progress"
	if l.Winner != nil {
		winner = *l.Winner
	}
	fmt.Printf("Leg %d (from %d): %s\n", l.LegNumber, l.StartingScore, winner)
	if l.Winner != nil {
		fmt.Printf("Winning darts: %d\n", l.WinningDarts)
		fmt.Printf("Final scores: home %d, away %d\n", l.HomeFinal, l.AwayFinal)
	}
	if len(l.Throws) > 0 {
		fmt.Println("Throws:")
		o.printDarts(l.Throws)
	}
}

func (o *Output) printLegs(legs []Leg) {
	if len(legs) == 0 {
		fmt.Println("No completed legs")
		return
	}
	for _, l := range legs {
		winner := "in progress"
		if l.Winner != nil {
			winner = fmt.Sprintf("%s in %d darts", *l.Winner, l.WinningDarts)
		}
		fmt.Printf("  leg %d: %s\n", l.LegNumber, winner)
	}
}

func (o *Output) printMatchSummaries(summaries []MatchSummary) {
	if len(summaries) == 0 {
		fmt.Println("No completed matches")
		return
	}
	for _, s := range summaries {
		fmt.Printf("  %s  %s %d-%d %s  (%s, %s)\n",
			s.ID, s.HomeName, s.HomeLegsWon, s.AwayLegsWon, s.AwayName,
			s.Format, s.CompletedAt.Format("2006-01-02"))
	}
}

func (o *Output) printCheckout(c Checkout) {
	if !c.Possible {
		fmt.Printf("%d is a bogey number: no three-dart finish\n", c.Score)
		return
	}
	fmt.Printf("Checkout %d:\n", c.Score)
	o.printRoutes(c.Recommended)
}

func (o *Output) printRoutes(routes []CheckoutRoute) {
	if len(routes) == 0 {
		fmt.Println("No routes available")
		return
	}
	for i, r := range routes {
		fmt.Printf("  %d. %s (difficulty %d)\n", i+1, r.Description, r.Difficulty)
	}
}

func (o *Output) printPlayerStats(p PlayerStats) {
	s := p.Season
	fmt.Printf("Season stats for %s:\n", p.PlayerID)
	fmt.Printf("  Games: %d played, %d won (%.2f%%)\n", s.GamesPlayed, s.GamesWon, s.WinPercentage)
	fmt.Printf("  Average: %.2f (best %.2f)\n", s.OverallAverage, s.BestAverage)
	fmt.Printf("  180s: %d\n", s.Total180s)
	fmt.Printf("  Checkout: %.2f%%, highest %d\n", s.CheckoutPercentage, s.HighestCheckout)
	if s.FavouriteFinish > 0 {
		fmt.Printf("  Favourite finish: %d\n", s.FavouriteFinish)
	}

	f := p.Form
	if len(f.RecentForm) > 0 {
		marks := make([]string, len(f.RecentForm))
		for i, won := range f.RecentForm {
			if won {
				marks[i] = "W"
			} else {
				marks[i] = "L"
			}
		}
		fmt.Printf("\nForm: %s (%s)\n", strings.Join(marks, ""), f.Trend)
		if f.StreakType != "none" {
			fmt.Printf("Streak: %d %s\n", f.StreakLength, f.StreakType)
		}
	}
}

func (o *Output) printMatchStats(m MatchStats) {
	fmt.Printf("Legs: %d played, %d won (%.2f%%)\n", m.TotalLegs, m.LegsWon, m.LegWinPercentage)
	fmt.Printf("Darts: %d for %d points\n", m.TotalDarts, m.TotalPoints)
	fmt.Printf("Darts per leg: %.2f\n", m.AverageDartsPerLeg)
	if m.BestLeg != nil {
		fmt.Printf("Best leg: %d darts (leg %d)\n", m.BestLeg.Darts, m.BestLeg.LegNumber)
	}
	if m.WorstLeg != nil {
		fmt.Printf("Worst leg: %d darts (leg %d)\n", m.WorstLeg.Darts, m.WorstLeg.LegNumber)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
