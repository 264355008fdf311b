package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"BorsaLens/internal/calculator"
	"BorsaLens/internal/collector"
	"BorsaLens/internal/model"
)

var computeCmd = &cobra.Command{
	Use:   "compute SYMBOL",
	Short: "print an indicator (or the full summary without --kind) for one symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompute,
}

func init() {
	computeCmd.Flags().String("kind", "", "indicator kind: ma, rsi or macd")
	computeCmd.Flags().Int("period", 0, "MA/RSI period, 0 for the default")
	computeCmd.Flags().String("range", "", "history range (1mo, 3mo, 6mo, 1y, 2y, 5y)")
	computeCmd.Flags().Int("last", 20, "rows to print, 0 for all")
	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	col := newCollector(cmd, cfg)
	if raw, _ := cmd.Flags().GetString("range"); raw != "" {
		rng, err := collector.ParseRange(raw)
		if err != nil {
			return err
		}
		col = col.WithRange(rng)
	}

	symbol := collector.FormatSymbol(args[0], cfg.DataSource.Suffix)
	series, err := col.Collect(cmd.Context(), symbol)
	if err != nil {
		return err
	}

	rawKind, _ := cmd.Flags().GetString("kind")
	kind, err := model.ParseIndicatorKind(rawKind)
	if err != nil {
		return err
	}
	if kind == model.KindNone {
		a, err := collector.Analyze(series, cfg.Indicators)
		if err != nil {
			return err
		}
		renderSummary(os.Stdout, a)
		return nil
	}

	period, _ := cmd.Flags().GetInt("period")
	res, err := calculator.Compute(series, calculator.Request{Kind: kind, Period: period, MACD: cfg.Indicators.MACD})
	if err != nil {
		return fmt.Errorf("compute %s for %s: %w", kind, symbol, err)
	}
	last, _ := cmd.Flags().GetInt("last")
	renderIndicator(os.Stdout, series, res, last)
	return nil
}
