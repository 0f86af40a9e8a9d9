package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/market"
	"github.com/rustyeddy/evalsim/risk"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Create and manage evaluation accounts",
	Long: `Manage the evaluation accounts of the current session.

Subcommands:
  create - Buy a new challenge account (and select it)
  list   - List all accounts
  select - Select the account trades go to
  delete - Delete an account
  show   - Show an account's ledger and progress

Examples:
  evalsim account create --size 100000 --type two-step
  evalsim account select 01HZX...
  evalsim account show`,
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a challenge account",
	Args:  cobra.NoArgs,
	RunE:  runAccountCreate,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Args:  cobra.NoArgs,
	RunE:  runAccountList,
}

var accountSelectCmd = &cobra.Command{
	Use:   "select <account-id>",
	Short: "Select the working account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountSelect,
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete <account-id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountDelete,
}

var accountShowCmd = &cobra.Command{
	Use:   "show [account-id]",
	Short: "Show an account (the selected one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAccountShow,
}

var (
	accountSize string
	accountType string
	accountName string
)

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountCreateCmd, accountListCmd, accountSelectCmd, accountDeleteCmd, accountShowCmd)

	accountCreateCmd.Flags().StringVarP(&accountSize, "size", "s", "100000", "account size in rupees ("+planSizes()+")")
	accountCreateCmd.Flags().StringVarP(&accountType, "type", "t", string(account.OneStep), "challenge type (one-step or two-step)")
	accountCreateCmd.Flags().StringVarP(&accountName, "name", "n", "", "display name")
}

// planSizes lists the offered account sizes, e.g. "50000, 100000, ...".
func planSizes() string {
	sizes := account.Sizes()
	out := make([]string, len(sizes))
	for i, s := range sizes {
		out[i] = fmt.Sprintf("%d", s.Decimal().IntPart())
	}
	return strings.Join(out, ", ")
}

func runAccountCreate(cmd *cobra.Command, args []string) error {
	size, err := market.ParseCash(accountSize)
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	a, err := sess.store.CreateAccount(cmd.Context(), size, account.ChallengeType(accountType), accountName)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created %s (%s)\n", a.Name, a.ID)
	fmt.Fprintf(out, "  Fee: %s  Target: %s  Daily loss: %s  Max loss: %s\n",
		market.FormatINR(a.Fee), market.FormatINR(a.ProfitTarget),
		market.FormatINR(a.MaxDailyLoss), market.FormatINR(a.MaxTotalLoss))
	return nil
}

func runAccountList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	st := sess.store.State(cmd.Context())
	if len(st.Accounts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No accounts.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tSTATUS\tPHASE\tBALANCE\tP&L")
	for _, a := range st.Accounts {
		mark := ""
		if st.SelectedAccountID != nil && *st.SelectedAccountID == a.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n", mark, a.ID, a.Name, a.Status, a.Phase,
			market.FormatINR(a.Balance), market.FormatINR(a.PnL))
	}
	return tw.Flush()
}

func runAccountSelect(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.store.SelectAccount(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Selected %s\n", args[0])
	return nil
}

func runAccountDelete(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.store.DeleteAccount(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
	return nil
}

func runAccountShow(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	var a account.TradingAccount
	if len(args) == 1 {
		a, err = sess.store.Account(cmd.Context(), args[0])
		if err != nil {
			return err
		}
	} else {
		var ok bool
		if a, ok = sess.store.Selected(cmd.Context()); !ok {
			return errNoSelection
		}
	}

	printAccount(cmd.OutOrStdout(), a)
	return nil
}

func printAccount(w io.Writer, a account.TradingAccount) {
	p := risk.ComputeProgress(a)
	h := risk.RemainingHeadroom(a)

	fmt.Fprintf(w, "%s (%s)\n", a.Name, a.ID)
	fmt.Fprintf(w, "  Status:        %s (phase %d)\n", a.Status, a.Phase)
	if a.BreachReason != "" {
		fmt.Fprintf(w, "  Breach:        %s\n", a.BreachReason)
	}
	fmt.Fprintf(w, "  Balance:       %s\n", market.FormatINR(a.Balance))
	fmt.Fprintf(w, "  P&L:           %s (today %s)\n", market.FormatINR(a.PnL), market.FormatINR(a.DailyPnL))
	fmt.Fprintf(w, "  Target:        %s  %5.1f%%\n", market.FormatINR(a.ProfitTarget), p.Profit)
	fmt.Fprintf(w, "  Daily loss:    %s  %5.1f%% used, %s left\n", market.FormatINR(a.MaxDailyLoss), p.DailyLossUsed, market.FormatINR(h.Daily))
	fmt.Fprintf(w, "  Max loss:      %s  %5.1f%% used, %s left\n", market.FormatINR(a.MaxTotalLoss), p.TotalLossUsed, market.FormatINR(h.Total))
	fmt.Fprintf(w, "  Trading days:  %d/%d\n", a.TradingDaysCompleted, a.MinTradingDays)
	fmt.Fprintf(w, "  Trades:        %d (%d won, %.1f%% win rate)\n", a.TotalTrades, a.WinningTrades, a.WinRate())
	if open := a.OpenTrades(); len(open) > 0 {
		fmt.Fprintf(w, "  Open:\n")
		for _, t := range open {
			fmt.Fprintf(w, "    %s %s %s %.2f @ %.5f\n", t.ID, t.Direction, t.Symbol, t.Lots, t.EntryPrice)
		}
	}
}
