package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"esekoir/internal/infrastructure/ratesource"
	"esekoir/internal/usecase"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Fetch the rate table once and print the board",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		rates := usecase.NewRateUseCase(ratesource.New(cfg.RatesAPIURL, cfg.RatesTimeout, nil))
		board, err := rates.GetRates(cmd.Context())
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(board)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "CODE\tOFFICIAL\tSQUARE\tBUY\tSELL\t")
		for _, r := range board.Rates {
			fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\t%.0f\t\n",
				r.Code, r.OfficialRate, r.Derived.Square, r.Derived.SquareBuy, r.Derived.SquareSell)
		}
		return w.Flush()
	},
}

func init() {
	ratesCmd.Flags().Bool("json", false, "print the board as JSON")
}
