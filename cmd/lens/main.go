package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"BorsaLens/internal/collector"
	"BorsaLens/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "lens",
	Short: "BorsaLens technical indicator service",
	Long:  "Fetches daily prices for Borsa Istanbul stocks and computes MA, RSI and MACD.",

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs/config.yaml", "config file")
	rootCmd.PersistentFlags().Bool("debug", false, "debug logging")
	rootCmd.PersistentFlags().Bool("mock", false, "use generated prices instead of a live data source")
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads and validates the config named by --config and applies the log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if v := os.Getenv("CONFIG_PATH"); v != "" && !cmd.Flags().Changed("config") {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.WithError(err).Warn("invalid log level, using info")
		level = log.InfoLevel
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	return cfg, nil
}

// newFetcher picks the data source: generated data with --mock, the REST source when a
// base URL is configured, Yahoo otherwise.
func newFetcher(cmd *cobra.Command, cfg *config.Config) collector.Fetcher {
	if mock, _ := cmd.Flags().GetBool("mock"); mock {
		return &collector.MockFetcher{Price: 100}
	}
	if cfg.DataSource.BaseURL != "" {
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	}
	return collector.NewYahooFetcher(cfg.Proxy)
}

func newCollector(cmd *cobra.Command, cfg *config.Config) *collector.Collector {
	fetcher := newFetcher(cmd, cfg)
	log.Infof("data source: %s", fetcher.Name())
	return collector.NewCollector(fetcher, cfg.Indicators, cfg.Range())
}
