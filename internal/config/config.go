package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"BorsaLens/internal/calculator"
	"BorsaLens/internal/collector"
	"BorsaLens/internal/model"
	"BorsaLens/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Range   string `yaml:"range"`
		Suffix  string `yaml:"symbol_suffix"`
	} `yaml:"data_source"`
	Stocks     []model.Stock     `yaml:"stocks"`
	Indicators calculator.Params `yaml:"indicators"`
	Signals    struct {
		// nil means unset; 0 is a valid oversold level.
		Overbought *float64 `yaml:"overbought"`
		Oversold   *float64 `yaml:"oversold"`
		MAPeriod   int      `yaml:"ma_period"`
	} `yaml:"signals"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Preference struct {
		File    string `yaml:"file"`
		Default string `yaml:"default"`
	} `yaml:"preference"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	// .env is optional.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("DATA_RANGE"); v != "" {
		cfg.DataSource.Range = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("STOCKS"); v != "" {
		cfg.Stocks = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Stocks = append(cfg.Stocks, model.Stock{Symbol: s})
			}
		}
	}
	if v := os.Getenv("RSI_PERIOD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indicators.RSIPeriod = n
		}
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PREFERENCE_FILE"); v != "" {
		cfg.Preference.File = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Range == "" {
		c.DataSource.Range = string(collector.DefaultRange)
	}
	if c.DataSource.Suffix == "" {
		c.DataSource.Suffix = ".IS"
	}
	if len(c.Stocks) == 0 {
		c.Stocks = append([]model.Stock(nil), model.DefaultStocks...)
	}
	for i := range c.Stocks {
		c.Stocks[i].Symbol = collector.FormatSymbol(c.Stocks[i].Symbol, c.DataSource.Suffix)
	}
	def := calculator.DefaultParams()
	if len(c.Indicators.MAPeriods) == 0 {
		c.Indicators.MAPeriods = def.MAPeriods
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = def.RSIPeriod
	}
	if c.Indicators.MACD == (calculator.MACDParams{}) {
		c.Indicators.MACD = def.MACD
	}
	if c.Signals.Overbought == nil {
		v := strategy.DefaultThresholds.Overbought
		c.Signals.Overbought = &v
	}
	if c.Signals.Oversold == nil {
		v := strategy.DefaultThresholds.Oversold
		c.Signals.Oversold = &v
	}
	if c.Signals.MAPeriod == 0 {
		c.Signals.MAPeriod = c.Indicators.MAPeriods[0]
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 30 18 * * 1-5"
	}
	if c.Preference.File == "" {
		c.Preference.File = "data/preference.json"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/borsalens.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Symbols returns the tracked symbols in config order.
func (c *Config) Symbols() []string {
	out := make([]string, len(c.Stocks))
	for i, s := range c.Stocks {
		out[i] = s.Symbol
	}
	return out
}

// Range returns the parsed data range.
func (c *Config) Range() collector.Range {
	r, err := collector.ParseRange(c.DataSource.Range)
	if err != nil {
		return collector.DefaultRange
	}
	return r
}

// DefaultKind returns the configured fallback indicator selection.
func (c *Config) DefaultKind() model.IndicatorKind {
	k, _ := model.ParseIndicatorKind(c.Preference.Default)
	return k
}

// Thresholds returns the RSI signal zones.
func (c *Config) Thresholds() strategy.Thresholds {
	th := strategy.DefaultThresholds
	if c.Signals.Overbought != nil {
		th.Overbought = *c.Signals.Overbought
	}
	if c.Signals.Oversold != nil {
		th.Oversold = *c.Signals.Oversold
	}
	return th
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all fields are consistent.
func (c *Config) Validate() error {
	if err := c.Indicators.Validate(); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}
	if _, err := collector.ParseRange(c.DataSource.Range); err != nil {
		return fmt.Errorf("data_source.range: %w", err)
	}
	if _, err := model.ParseIndicatorKind(c.Preference.Default); err != nil {
		return fmt.Errorf("preference.default: %w", err)
	}
	th := c.Thresholds()
	if th.Oversold < 0 || th.Overbought > 100 {
		return fmt.Errorf("signals thresholds must lie within 0..100")
	}
	if th.Oversold >= th.Overbought {
		return fmt.Errorf("signals.oversold must be below signals.overbought")
	}
	if c.Signals.MAPeriod <= 0 {
		return fmt.Errorf("signals.ma_period must be positive")
	}
	if !slices.Contains(c.Indicators.MAPeriods, c.Signals.MAPeriod) {
		return fmt.Errorf("signals.ma_period %d is not one of indicators.ma_periods %v", c.Signals.MAPeriod, c.Indicators.MAPeriods)
	}
	if c.Schedule.DailyCron == "" {
		return fmt.Errorf("schedule.daily_cron is required")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
