package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BorsaLens/internal/calculator"
	"BorsaLens/internal/collector"
	"BorsaLens/internal/model"
	"BorsaLens/internal/strategy"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DATA_RANGE", "STOCKS", "RSI_PERIOD", "LISTEN_ADDR", "CRON_DAILY"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"GARAN.IS", "AKBNK.IS", "THYAO.IS"}, cfg.Symbols())
	assert.Equal(t, collector.Range2Y, cfg.Range())
	assert.Equal(t, calculator.DefaultParams(), cfg.Indicators)
	assert.Equal(t, strategy.Thresholds{Overbought: 70, Oversold: 30}, cfg.Thresholds())
	assert.Equal(t, 20, cfg.Signals.MAPeriod)
	assert.Equal(t, model.KindNone, cfg.DefaultKind())
	assert.False(t, cfg.TelegramEnabled())
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
data_source:
  range: 1y
stocks:
  - symbol: garan
    name: Garanti BBVA
  - symbol: asels.is
indicators:
  ma_periods: [10, 30]
  rsi_period: 9
  macd:
    short: 5
    long: 35
    signal: 5
preference:
  default: rsi
`)
	t.Setenv("RSI_PERIOD", "21")
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"GARAN.IS", "ASELS.IS"}, cfg.Symbols())
	assert.Equal(t, "Garanti BBVA", cfg.Stocks[0].Name)
	assert.Equal(t, collector.Range1Y, cfg.Range())
	assert.Equal(t, []int{10, 30}, cfg.Indicators.MAPeriods)
	assert.Equal(t, 21, cfg.Indicators.RSIPeriod)
	assert.Equal(t, calculator.MACDParams{Short: 5, Long: 35, Signal: 5}, cfg.Indicators.MACD)
	assert.Equal(t, 10, cfg.Signals.MAPeriod)
	assert.Equal(t, model.KindRSI, cfg.DefaultKind())
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoad_StocksFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOCKS", "thyao, akbnk ,")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"THYAO.IS", "AKBNK.IS"}, cfg.Symbols())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "stocks: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"macd short above long", "indicators:\n  macd: {short: 30, long: 10, signal: 9}\n"},
		{"negative ma period", "indicators:\n  ma_periods: [20, -5]\n"},
		{"unknown range", "data_source:\n  range: 10y\n"},
		{"unknown default kind", "preference:\n  default: BOLL\n"},
		{"inverted rsi zones", "signals:\n  overbought: 20\n  oversold: 80\n"},
		{"half telegram", "telegram:\n  bot_token: abc\n"},
		{"signal ma period not computed", "signals:\n  ma_period: 30\n"},
		{"overbought above 100", "signals:\n  overbought: 120\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load(writeConfig(t, tt.body))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_ZeroOversoldIsKept(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "signals:\n  oversold: 0\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, strategy.Thresholds{Overbought: 70, Oversold: 0}, cfg.Thresholds())
}

func TestValidate_SignalMAPeriodAmongComputed(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "indicators:\n  ma_periods: [10, 30]\nsignals:\n  ma_period: 30\n"))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())

	cfg.Signals.MAPeriod = 20
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signals.ma_period")
}
