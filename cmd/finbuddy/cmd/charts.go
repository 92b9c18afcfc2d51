package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"finbuddy/internal/charts"
	"finbuddy/internal/cli"
)

var (
	chartsOut    string
	chartsFormat string
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Write the spend-by-date and spend-by-category charts to files",
	Args:  cobra.NoArgs,
	RunE: withLedger(func(cmd *cobra.Command, _ []string, env *cli.Env) error {
		f, err := charts.ParseFormat(chartsFormat)
		if err != nil {
			return err
		}
		pair, err := charts.NewRenderer().RenderBoth(cmd.Context(), env.Ledger.Snapshot(), f)
		if errors.Is(err, charts.ErrNoData) {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Nothing to chart yet."))
			return nil
		}
		if err != nil {
			return err
		}
		if err := os.MkdirAll(chartsOut, 0o755); err != nil {
			return err
		}
		for name, b := range map[charts.Kind][]byte{charts.ByDate: pair.Date, charts.ByCategory: pair.Category} {
			path := filepath.Join(chartsOut, fmt.Sprintf("%s.%s", name, f))
			if err := os.WriteFile(path, b, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
		}
		return nil
	}),
}

func init() {
	chartsCmd.Flags().StringVarP(&chartsOut, "out", "o", ".", "output directory")
	chartsCmd.Flags().StringVarP(&chartsFormat, "format", "f", "svg", "image format: svg or png")
}
