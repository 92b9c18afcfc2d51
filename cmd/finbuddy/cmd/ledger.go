package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"finbuddy/internal/cli"
	"finbuddy/internal/core"
	"finbuddy/internal/ledger"
	"finbuddy/internal/metrics"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	overStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	underStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a")).Bold(true)
)

var (
	addDate     string
	addName     string
	addCategory string
	addAmount   string
	rmYes       bool
	resetYes    bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show budget, spent and remaining",
	Args:  cobra.NoArgs,
	RunE: withLedger(func(cmd *cobra.Command, _ []string, env *cli.Env) error {
		printStatus(cmd, env.Ledger.Snapshot())
		return nil
	}),
}

var budgetCmd = &cobra.Command{
	Use:   "budget AMOUNT",
	Short: "Set the monthly budget",
	Long:  "Set the monthly budget. Input that is not a number sets the budget to zero.",
	Args:  cobra.ExactArgs(1),
	RunE: withLedger(func(cmd *cobra.Command, args []string, env *cli.Env) error {
		budget := core.ParseBudget(args[0])
		if err := env.Ledger.SetBudget(cmd.Context(), budget); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Budget set to %s\n", budget.Rupees())
		printStatus(cmd, env.Ledger.Snapshot())
		return nil
	}),
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Example: `  finbuddy add --name Coffee --amount 150 --category Food
  finbuddy add --date 2024-01-31 --name Rent --amount 12000`,
	Args: cobra.NoArgs,
	RunE: withLedger(func(cmd *cobra.Command, _ []string, env *cli.Env) error {
		e, err := env.Ledger.AddExpense(cmd.Context(), addDate, addName, addCategory, addAmount)
		if err != nil {
			if core.IsValidation(err) {
				return fmt.Errorf("please fill date, name and a valid amount: %w", err)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %s) on %s\n", e.Name, e.Category, e.Amount.Rupees(), e.Date)
		return nil
	}),
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List expenses in date order",
	Args:    cobra.NoArgs,
	RunE: withLedger(func(cmd *cobra.Command, _ []string, env *cli.Env) error {
		snap := env.Ledger.Snapshot()
		if len(snap.Expenses) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No expenses yet."))
			return nil
		}
		for i, e := range snap.Expenses {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d. %s  %-24s %-12s %12s\n", i+1, e.Date, e.Name, e.Category, e.Amount.Rupees())
		}
		return nil
	}),
}

var rmCmd = &cobra.Command{
	Use:   "rm N",
	Short: "Remove the Nth expense shown by list",
	Args:  cobra.ExactArgs(1),
	RunE: withLedger(func(cmd *cobra.Command, args []string, env *cli.Env) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid expense number %q", args[0])
		}
		if !rmYes {
			return errors.New("removal not confirmed, pass --yes")
		}
		e, err := env.Ledger.DeleteExpense(cmd.Context(), n-1)
		if errors.Is(err, ledger.ErrIndexOutOfRange) {
			return fmt.Errorf("no expense number %d", n)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%s)\n", e.Name, e.Amount.Rupees())
		return nil
	}),
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the budget and all expenses",
	Args:  cobra.NoArgs,
	RunE: withLedger(func(cmd *cobra.Command, _ []string, env *cli.Env) error {
		if !resetYes {
			return errors.New("reset not confirmed, pass --yes")
		}
		if err := env.Ledger.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
		return nil
	}),
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", time.Now().Format(core.DateLayout), "expense date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addName, "name", "", "what the money was spent on")
	addCmd.Flags().StringVar(&addCategory, "category", "", "category (default \"Other\")")
	addCmd.Flags().StringVar(&addAmount, "amount", "", "amount in rupees")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("amount")

	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "confirm removal")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "confirm reset")
}

// withLedger opens the configured ledger around fn. Changes made by fn are
// logged and, when AMQP is configured, published like those made in the UI.
func withLedger(fn func(cmd *cobra.Command, args []string, env *cli.Env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := validConfig()
		if err != nil {
			return err
		}
		opts, publisher, err := cli.LedgerObservers(cfg, metrics.New(), logger)
		if err != nil {
			return err
		}
		if publisher != nil {
			defer publisher.Close()
		}
		env, err := cli.OpenLedger(cmd.Context(), cfg, opts...)
		if err != nil {
			return err
		}
		defer env.Close()
		return fn(cmd, args, env)
	}
}

func printStatus(cmd *cobra.Command, snap ledger.Snapshot) {
	st := snap.Status()
	if snap.Budget.Cents == 0 && len(snap.Expenses) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No budget set yet."))
		return
	}
	remaining := underStyle
	if st.Over() {
		remaining = overStyle
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s  |  %s %s  |  %s %s\n",
		titleStyle.Render("Budget:"), st.Budget.Rupees(),
		titleStyle.Render("Spent:"), st.Spent.Rupees(),
		titleStyle.Render("Remaining:"), remaining.Render(st.Remaining.Rupees()))
}
