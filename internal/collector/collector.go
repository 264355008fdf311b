package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"BorsaLens/internal/calculator"
	"BorsaLens/internal/metrics"
	"BorsaLens/internal/model"
)

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Params  calculator.Params
	Range   Range
	Limiter *rate.Limiter
	// MaxRetries bounds retries of transient fetch failures.
	MaxRetries uint64
	// RetryInterval is the initial backoff between retries.
	RetryInterval time.Duration
}

// NewCollector creates a new Collector with a 5 req/s provider limit.
func NewCollector(fetcher Fetcher, params calculator.Params, rng Range) *Collector {
	return &Collector{
		Fetcher:       fetcher,
		Params:        params,
		Range:         rng,
		Limiter:       rate.NewLimiter(rate.Limit(5), 5),
		MaxRetries:    3,
		RetryInterval: 500 * time.Millisecond,
	}
}

// WithRange returns a copy of c that fetches rng of history. The limiter is shared.
func (c *Collector) WithRange(rng Range) *Collector {
	cp := *c
	cp.Range = rng
	return &cp
}

func (c *Collector) retry(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.RetryInterval
	return backoff.Retry(func() error {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		err := op()
		if err == nil || temporary(err) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, c.MaxRetries), ctx))
}

func temporary(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// Collect fetches daily bars for symbol and builds a PriceSeries.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	source := c.Fetcher.Name()
	timer := prometheus.NewTimer(metrics.FetchDuration.WithLabelValues(source))
	defer timer.ObserveDuration()

	var bars []model.Bar
	err := c.retry(ctx, func() (err error) {
		bars, err = c.Fetcher.FetchDailyBars(ctx, symbol, c.Range)
		if err != nil {
			log.WithError(err).WithField("symbol", symbol).Warnf("fetch daily bars from %s failed", source)
		}
		return err
	})
	if err != nil {
		metrics.FetchTotal.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("fetch daily bars for %s: %w", symbol, err)
	}
	metrics.FetchTotal.WithLabelValues(source, "ok").Inc()

	series := model.NewPriceSeries(symbol, bars)
	log.Debugf("fetched %d bars for %s from %s", series.Len(), symbol, source)
	return series, nil
}

// CollectMany fetches all symbols in parallel. Any failure fails the whole call.
func (c *Collector) CollectMany(ctx context.Context, symbols []string) (map[string]*model.PriceSeries, error) {
	var mu sync.Mutex
	out := make(map[string]*model.PriceSeries, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			series, err := c.Collect(gctx, symbol)
			if err != nil {
				return err
			}
			mu.Lock()
			out[symbol] = series
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Quote fetches the latest quote for symbol.
func (c *Collector) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	var q *model.Quote
	err := c.retry(ctx, func() (err error) {
		q, err = c.Fetcher.FetchQuote(ctx, symbol)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	return q, nil
}

// Analyze fetches symbol and computes every configured indicator.
func (c *Collector) Analyze(ctx context.Context, symbol string) (*model.Analysis, error) {
	series, err := c.Collect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return Analyze(series, c.Params)
}

// Analyze computes the indicator set for an already collected series. Indicators that lack
// history are left empty with a warning instead of failing the whole analysis.
func Analyze(series *model.PriceSeries, params calculator.Params) (*model.Analysis, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	last, ok := series.Last()
	if !ok {
		return nil, fmt.Errorf("%w: no bars for %s", calculator.ErrInsufficientData, series.Symbol)
	}

	a := &model.Analysis{
		Symbol: series.Symbol,
		Series: series,
		MA:     make(map[int][]model.IndicatorPoint, len(params.MAPeriods)),
		Summary: model.Summary{
			LastClose: last.Close,
			MA:        make(map[int]model.Value, len(params.MAPeriods)),
		},
	}
	logger := log.WithField("symbol", series.Symbol)

	// MA
	maTimer := prometheus.NewTimer(metrics.ComputeDuration.WithLabelValues(string(model.KindMA)))
	for _, p := range params.MAPeriods {
		line, err := calculator.ComputeMA(series, p)
		if err != nil {
			return nil, err
		}
		a.MA[p] = line
		a.Summary.MA[p] = model.LastValue(line)
		if !a.Summary.MA[p].Valid {
			logger.Debugf("MA%d undefined: only %d bars", p, series.Len())
		}
	}
	maTimer.ObserveDuration()

	// RSI
	rsiTimer := prometheus.NewTimer(metrics.ComputeDuration.WithLabelValues(string(model.KindRSI)))
	if rsi, err := calculator.ComputeRSI(series, params.RSIPeriod); err != nil {
		logger.WithError(err).Warn("RSI calculation skipped")
	} else {
		a.RSI = rsi
		a.Summary.RSI = model.LastValue(rsi)
	}
	rsiTimer.ObserveDuration()

	// MACD
	macdTimer := prometheus.NewTimer(metrics.ComputeDuration.WithLabelValues(string(model.KindMACD)))
	if macd, err := calculator.ComputeMACD(series, params.MACD); err != nil {
		logger.WithError(err).Warn("MACD calculation skipped")
	} else {
		a.MACD = macd
		a.Summary.MACD = macd[len(macd)-1]
	}
	macdTimer.ObserveDuration()

	// Change versus the previous session
	if n := series.Len(); n > 1 {
		a.Summary.PrevClose = series.Bar(n - 2).Close
		a.Summary.Change = last.Close - a.Summary.PrevClose
		a.Summary.ChangePercent = calculator.PriceChange(last.Close, a.Summary.PrevClose)
	}

	// 52-week range
	if h, l, err := calculator.PeriodRange(series, calculator.TradingDays52w); err != nil {
		logger.WithError(err).Warn("52-week range calculation failed")
	} else {
		a.Summary.High52w = h
		a.Summary.Low52w = l
		if pos, err := calculator.RangePosition(last.Close, h, l); err != nil {
			logger.WithError(err).Warn("52-week position calculation failed")
			a.Summary.Position52w = 0.5
		} else {
			a.Summary.Position52w = pos
		}
	}

	return a, nil
}
