package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"BorsaLens/internal/model"
)

// RESTFetcher implements Fetcher against a JSON bar service.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Now     func() time.Time
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
		Now:     time.Now,
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape; timestamp is in seconds.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *RESTFetcher) FetchDailyBars(ctx context.Context, symbol string, rng Range) ([]model.Bar, error) {
	now := f.Now()
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", fmt.Sprint(now.Add(-rng.Duration()).Unix()))
	q.Set("to", fmt.Sprint(now.Unix()))

	var raw []restBar
	if err := f.get(ctx, "/api/v1/bars/daily?"+q.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	bars := make([]model.Bar, len(raw))
	for i, rb := range raw {
		bars[i] = model.Bar{
			Timestamp: rb.Timestamp * 1000,
			Open:      rb.Open,
			High:      rb.High,
			Low:       rb.Low,
			Close:     rb.Close,
			Volume:    rb.Volume,
		}
	}
	return model.NewPriceSeries(symbol, bars).Bars(), nil
}

func (f *RESTFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	var result struct {
		Price         float64 `json:"price"`
		PreviousClose float64 `json:"previous_close"`
		High          float64 `json:"high"`
		Low           float64 `json:"low"`
		Volume        float64 `json:"volume"`
	}
	if err := f.get(ctx, "/api/v1/quote?symbol="+url.QueryEscape(symbol), &result); err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	return newQuote(symbol, result.Price, result.PreviousClose, result.High, result.Low, result.Volume), nil
}

func (f *RESTFetcher) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{Source: f.Name(), Code: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
