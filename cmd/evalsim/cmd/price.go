package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/evalsim/market"
)

var priceCmd = &cobra.Command{
	Use:   "price [symbol]",
	Short: "Draw a simulated quote",
	Long: `Print a synthetic bid/ask for one symbol, or for every symbol when none is given.

Example:
  evalsim price BANKNIFTY`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	symbols := market.SymbolNames
	if len(args) == 1 {
		s := strings.ToUpper(args[0])
		if !market.Known(s) {
			return fmt.Errorf("unknown symbol: %s", s)
		}
		symbols = []string{s}
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	for _, s := range symbols {
		q := sess.store.Quote(s)
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s bid %.5f  ask %.5f  mid %.5f\n", q.Symbol, q.Bid, q.Ask, q.Mid())
	}
	return nil
}
