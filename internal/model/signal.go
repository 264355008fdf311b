package model

// SignalType indicates what produced the signal.
type SignalType string

const (
	SignalMACDCrossUp   SignalType = "MACD_CROSS_UP"
	SignalMACDCrossDown SignalType = "MACD_CROSS_DOWN"
	SignalRSIOverbought SignalType = "RSI_OVERBOUGHT"
	SignalRSIOversold   SignalType = "RSI_OVERSOLD"
	SignalPriceAboveMA  SignalType = "PRICE_CROSS_ABOVE_MA"
	SignalPriceBelowMA  SignalType = "PRICE_CROSS_BELOW_MA"
)

// Signal is a notable event on the most recent bar of a symbol.
type Signal struct {
	Symbol    string     `json:"symbol"`
	Type      SignalType `json:"type"`
	Timestamp int64      `json:"timestamp"`
	Value     float64    `json:"value"`
	Message   string     `json:"message"`
}

// Stock describes a tracked symbol.
type Stock struct {
	Symbol      string `yaml:"symbol" json:"symbol"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// DefaultStocks are tracked when the config lists none.
var DefaultStocks = []Stock{
	{Symbol: "GARAN.IS", Name: "Garanti BBVA", Description: "Türkiye Garanti Bankası A.Ş."},
	{Symbol: "AKBNK.IS", Name: "Akbank", Description: "Akbank T.A.Ş."},
	{Symbol: "THYAO.IS", Name: "Türk Hava Yolları", Description: "Türk Hava Yolları A.O."},
}
