package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Checkout route lookup",
	}

	cmd.AddCommand(newCheckoutShowCmd())
	cmd.AddCommand(newCheckoutImpossibleCmd())

	return cmd
}

func newCheckoutShowCmd() *cobra.Command {
	var darts int

	cmd := &cobra.Command{
		Use:   "show <score>",
		Short: "Show recommended finishes for a score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("score must be an integer")
			}

			out := NewOutput(cfg.Output)

			if darts > 0 {
				var routes []CheckoutRoute
				path := fmt.Sprintf("/api/v1/checkouts/%d/routes?darts=%d", score, darts)
				if err := client.Get(path, &routes); err != nil {
					return err
				}
				out.Print(routes)
				return nil
			}

			var result Checkout
			if err := client.Get(fmt.Sprintf("/api/v1/checkouts/%d", score), &result); err != nil {
				return err
			}
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&darts, "darts", 0, "Limit routes to this many darts in hand (1-3)")

	return cmd
}

func newCheckoutImpossibleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "impossible",
		Short: "List the bogey numbers with no three-dart finish",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []int
			if err := client.Get("/api/v1/checkouts/impossible", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if cfg.Output == "json" {
				out.Print(result)
				return nil
			}
			for _, score := range result {
				fmt.Println(score)
			}
			return nil
		},
	}
}
