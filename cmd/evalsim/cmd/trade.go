package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/market"
	"github.com/rustyeddy/evalsim/sim"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Execute a quick simulated trade on the selected account",
	Long: `Open and immediately close a trade on the selected account.

The trade moves 20-80 pips; --outcome forces the direction of the move.

Examples:
  evalsim trade --symbol NIFTY --type buy --lots 2
  evalsim trade --symbol XAUUSD --type sell --outcome loss`,
	Args: cobra.NoArgs,
	RunE: runTrade,
}

var positionCmd = &cobra.Command{
	Use:   "position",
	Short: "Open, close and check positions on the selected account",
}

var positionOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a position at the current price",
	Args:  cobra.NoArgs,
	RunE:  runPositionOpen,
}

var positionCloseCmd = &cobra.Command{
	Use:   "close <trade-id>",
	Short: "Close a position at the current price",
	Args:  cobra.ExactArgs(1),
	RunE:  runPositionClose,
}

var positionCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Close positions whose stop loss or take profit was reached",
	Args:  cobra.NoArgs,
	RunE:  runPositionCheck,
}

var (
	tradeSymbol    string
	tradeDirection string
	tradeLots      float64
	tradeOutcome   string
	tradeStop      float64
	tradeTarget    float64
)

func init() {
	rootCmd.AddCommand(tradeCmd, positionCmd)
	positionCmd.AddCommand(positionOpenCmd, positionCloseCmd, positionCheckCmd)

	for _, c := range []*cobra.Command{tradeCmd, positionOpenCmd} {
		c.Flags().StringVar(&tradeSymbol, "symbol", "", "symbol (default from config)")
		c.Flags().StringVar(&tradeDirection, "type", string(account.Buy), "buy or sell")
		c.Flags().Float64Var(&tradeLots, "lots", 0, "lots (default from config)")
	}
	tradeCmd.Flags().StringVar(&tradeOutcome, "outcome", string(sim.Random), "win, loss or random")
	positionOpenCmd.Flags().Float64Var(&tradeStop, "sl", 0, "stop loss price")
	positionOpenCmd.Flags().Float64Var(&tradeTarget, "tp", 0, "take profit price")
}

// orderDefaults fills symbol and lots from the config when not given.
func orderDefaults(sess *session) (string, float64) {
	symbol := strings.ToUpper(tradeSymbol)
	if symbol == "" {
		symbol = sess.cfg.Simulation.Symbol
	}
	lots := tradeLots
	if lots == 0 {
		lots = sess.cfg.Simulation.Lots
	}
	return symbol, lots
}

func runTrade(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	symbol, lots := orderDefaults(sess)
	res, err := sess.store.ExecuteTrade(cmd.Context(), sim.TradeRequest{
		Symbol:    symbol,
		Direction: account.Direction(tradeDirection),
		Lots:      lots,
		Outcome:   sim.Outcome(tradeOutcome),
	})
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func runPositionOpen(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	symbol, lots := orderDefaults(sess)
	req := sim.OpenRequest{
		Symbol:    symbol,
		Direction: account.Direction(tradeDirection),
		Lots:      lots,
	}
	if cmd.Flags().Changed("sl") {
		req.StopLoss = &tradeStop
	}
	if cmd.Flags().Changed("tp") {
		req.TakeProfit = &tradeTarget
	}

	res, err := sess.store.OpenTrade(cmd.Context(), req)
	if err != nil {
		return err
	}
	if res.Skipped {
		return printResult(cmd.OutOrStdout(), res)
	}
	t := res.Trade
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Opened %s %s %s %.2f lots @ %.5f\n", t.ID, t.Direction, t.Symbol, t.Lots, t.EntryPrice)
	return nil
}

func runPositionClose(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := sess.store.CloseTrade(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func runPositionCheck(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	results := sess.store.CheckTriggers(cmd.Context())
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No positions triggered.")
		return nil
	}
	for _, res := range results {
		if err := printResult(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	}
	return nil
}

func printResult(w io.Writer, res sim.Result) error {
	if res.Skipped {
		_, err := fmt.Fprintf(w, "Skipped: %s\n", res.Reason)
		return err
	}
	if res.Trade == nil {
		return nil
	}
	t := res.Trade
	exit := 0.0
	if t.ExitPrice != nil {
		exit = *t.ExitPrice
	}
	fmt.Fprintf(w, "%s %s %.2f lots  %.5f -> %.5f  %+.1f pips  %s  held %s\n",
		strings.ToUpper(string(t.Direction)), t.Symbol, t.Lots, t.EntryPrice, exit, t.Pips,
		market.FormatINR(t.PnL), t.Duration().Round(time.Second))
	if res.AdvancedPhase {
		fmt.Fprintln(w, "★ Phase 1 passed, now in phase 2")
	}
	if res.StatusChanged() {
		fmt.Fprintf(w, "★ Account %s", res.Decision.Status)
		if reason := res.Decision.Reason(); reason != "" {
			fmt.Fprintf(w, ": %s", reason)
		}
		fmt.Fprintln(w)
	}
	return nil
}
