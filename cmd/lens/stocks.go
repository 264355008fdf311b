package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"BorsaLens/internal/model"
)

var stocksCmd = &cobra.Command{
	Use:   "stocks",
	Short: "list tracked stocks",
	RunE:  runStocks,
}

func init() {
	stocksCmd.Flags().Bool("quotes", false, "fetch the latest quote of every stock")
	rootCmd.AddCommand(stocksCmd)
}

func runStocks(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var quotes map[string]*model.Quote
	if withQuotes, _ := cmd.Flags().GetBool("quotes"); withQuotes {
		col := newCollector(cmd, cfg)
		quotes = make(map[string]*model.Quote, len(cfg.Stocks))
		for _, s := range cfg.Stocks {
			q, err := col.Quote(cmd.Context(), s.Symbol)
			if err != nil {
				log.WithError(err).Warnf("quote for %s unavailable", s.Symbol)
				continue
			}
			quotes[s.Symbol] = q
		}
	}
	renderStocks(os.Stdout, cfg.Stocks, quotes)
	return nil
}
