package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"finbuddy/internal/calc"
	"finbuddy/internal/chat"
	"finbuddy/internal/cli"
	"finbuddy/internal/core"
	"finbuddy/internal/preview"
)

var (
	sipMonthly   string
	sipRate      string
	sipYears     string
	previewLimit int
)

var sipCmd = &cobra.Command{
	Use:   "sip",
	Short: "Estimate the future value of a monthly SIP",
	Example: `  finbuddy sip --monthly 5000 --years 10
  finbuddy sip --monthly 5000 --rate 8 --years 15`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, err := calc.ParseSIP(sipMonthly, sipRate, sipYears)
		if err != nil {
			return fmt.Errorf("enter SIP amount and years: %w", err)
		}
		res, err := calc.SIP(in)
		if err != nil {
			return fmt.Errorf("enter SIP amount and years: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", titleStyle.Render("Future value (approx):"), core.FormatRupees(res.FutureValue))
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("Invested %s, gains %s at %v%% a year",
			core.FormatRupees(res.Invested), core.FormatRupees(res.Gains), in.AnnualRate)))
		return nil
	},
}

var taxCmd = &cobra.Command{
	Use:   "tax INCOME",
	Short: "Estimate income tax with demo slabs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := calc.ParseTax(args[0])
		if err != nil {
			return fmt.Errorf("enter income: %w", err)
		}
		res, err := calc.Tax(in)
		if err != nil {
			return fmt.Errorf("enter income: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", titleStyle.Render("Estimated tax (demo):"), core.FormatRupees(res.Tax))
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Show the non-empty lines of a bank statement CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("please select a CSV file: %w", err)
		}
		defer f.Close()

		res, err := preview.Read(filepath.Base(args[0]), f, previewLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		summary := fmt.Sprintf("%s: showing %d of %d lines", res.Name, len(res.Lines), res.Total)
		if res.Cut {
			summary += fmt.Sprintf(" (file cut at %d MiB)", preview.MaxUpload>>20)
		} else if res.Truncated {
			summary += " (truncated)"
		}
		fmt.Fprintln(out, mutedStyle.Render(summary))
		for _, line := range res.Lines {
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat MESSAGE...",
	Short: "Ask the demo assistant",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := cli.NewResponder(cfg)
		if err != nil {
			return err
		}
		msg := strings.Join(args, " ")
		if strings.TrimSpace(msg) == "" {
			return errors.New("nothing to ask")
		}
		return askChat(cmd, r, msg)
	},
}

func init() {
	sipCmd.Flags().StringVar(&sipMonthly, "monthly", "", "monthly investment")
	sipCmd.Flags().StringVar(&sipRate, "rate", "", "expected annual return in percent (default 12)")
	sipCmd.Flags().StringVar(&sipYears, "years", "", "investment period in years")
	previewCmd.Flags().IntVar(&previewLimit, "limit", preview.DefaultLimit, "maximum lines to show")
}

// askChat prints the reply progressively, the way the web UI reveals it.
func askChat(cmd *cobra.Command, r *chat.Responder, msg string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	reply, err := r.Respond(ctx, msg)
	if err != nil {
		return err
	}
	printed := 0
	err = r.Reveal(ctx, reply, func(partial string) error {
		_, err := fmt.Fprint(out, partial[printed:])
		printed = len(partial)
		return err
	})
	fmt.Fprintln(out)
	return err
}
