package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match scoring commands",
	}

	cmd.AddCommand(newMatchCreateCmd())
	cmd.AddCommand(newMatchStartCmd())
	cmd.AddCommand(newMatchShowCmd())
	cmd.AddCommand(newMatchListCmd())
	cmd.AddCommand(newMatchDartCmd())
	cmd.AddCommand(newMatchTurnCmd())
	cmd.AddCommand(newMatchUndoCmd())
	cmd.AddCommand(newMatchRedoCmd())
	cmd.AddCommand(newMatchPauseCmd())
	cmd.AddCommand(newMatchResumeCmd())
	cmd.AddCommand(newMatchLegsCmd())
	cmd.AddCommand(newMatchStatsCmd())

	return cmd
}

func newMatchCreateCmd() *cobra.Command {
	var matchType, format, home, away, homeID, awayID, first string
	var startingScore int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new match",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"type":           matchType,
				"format":         format,
				"starting_score": startingScore,
				"home_name":      home,
				"away_name":      away,
			}
			if homeID != "" {
				req["home_player_id"] = homeID
			}
			if awayID != "" {
				req["away_player_id"] = awayID
			}
			if first != "" {
				req["first_thrower"] = first
			}

			var result MatchState
			if err := client.Post("/api/v1/matches", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&matchType, "type", "league", "Match type: league, practice, warmup")
	cmd.Flags().StringVar(&format, "format", "single", "Leg format: single, bo3, bo5, bo7")
	cmd.Flags().IntVar(&startingScore, "start", 501, "Starting score: 301, 501, 701")
	cmd.Flags().StringVar(&home, "home", "", "Home player name (required)")
	cmd.Flags().StringVar(&away, "away", "", "Away player name (required)")
	cmd.Flags().StringVar(&homeID, "home-id", "", "Registered home player ID for stats")
	cmd.Flags().StringVar(&awayID, "away-id", "", "Registered away player ID for stats")
	cmd.Flags().StringVar(&first, "first", "", "First thrower: home or away")
	_ = cmd.MarkFlagRequired("home")
	_ = cmd.MarkFlagRequired("away")

	return cmd
}

// matchAction builds a command that POSTs to a match subresource and
// prints the resulting state
func matchAction(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <match-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchState
			if err := client.Post("/api/v1/matches/"+args[0]+"/"+action, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchStartCmd() *cobra.Command {
	return matchAction("start", "Start a match", "start")
}

func newMatchUndoCmd() *cobra.Command {
	return matchAction("undo", "Undo the last scoring action", "undo")
}

func newMatchRedoCmd() *cobra.Command {
	return matchAction("redo", "Redo an undone scoring action", "redo")
}

func newMatchPauseCmd() *cobra.Command {
	return matchAction("pause", "Pause a match", "pause")
}

func newMatchResumeCmd() *cobra.Command {
	return matchAction("resume", "Resume a paused match", "resume")
}

func newMatchShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <match-id>",
		Short: "Show the current match state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchState
			if err := client.Get("/api/v1/matches/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List completed matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []MatchSummary
			if err := client.Get("/api/v1/matches", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchDartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dart <match-id> <score>",
		Short: "Record a dart for the current thrower",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("score must be an integer")
			}

			var result MatchState
			if err := client.Post("/api/v1/matches/"+args[0]+"/darts", map[string]int{"score": score}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchTurnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "turn <match-id>",
		Short: "Complete the current turn and hand over the oche",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchState
			if err := client.Post("/api/v1/matches/"+args[0]+"/complete-turn", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchLegsCmd() *cobra.Command {
	var legNumber int

	cmd := &cobra.Command{
		Use:   "legs <match-id>",
		Short: "Show the legs of a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if legNumber > 0 {
				var leg Leg
				if err := client.Get(fmt.Sprintf("/api/v1/matches/%s/legs/%d", args[0], legNumber), &leg); err != nil {
					return err
				}
				out.Print(leg)
				return nil
			}

			var result []Leg
			if err := client.Get("/api/v1/matches/"+args[0]+"/legs", &result); err != nil {
				return err
			}
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&legNumber, "leg", 0, "Show one leg in full, including throws")

	return cmd
}

func newMatchStatsCmd() *cobra.Command {
	var side string

	cmd := &cobra.Command{
		Use:   "stats <match-id>",
		Short: "Show one side's stats for a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchStats
			if err := client.Get("/api/v1/matches/"+args[0]+"/stats?side="+side, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&side, "side", "home", "Side to report: home or away")

	return cmd
}
