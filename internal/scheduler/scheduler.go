package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"BorsaLens/internal/collector"
	"BorsaLens/internal/metrics"
	"BorsaLens/internal/model"
	"BorsaLens/internal/notifier"
	"BorsaLens/internal/preference"
	"BorsaLens/internal/recorder"
	"BorsaLens/internal/strategy"
)

// Scheduler manages the cron tasks and answers chat commands.
type Scheduler struct {
	Cron        *cron.Cron
	Collector   *collector.Collector
	Preferences preference.Store
	Notifier    notifier.Notifier
	Recorder    recorder.Recorder
	Stocks      []model.Stock
	// DefaultKind is shown when no preference has been stored.
	DefaultKind model.IndicatorKind
	Thresholds  strategy.Thresholds
	// MAPeriod is the MA line watched for price crossings.
	MAPeriod int
	// Suffix is appended to bare symbols given in /report.
	Suffix string
	Now    func() time.Time
	Ctx    context.Context

	// wg tracks reports started from chat commands.
	wg sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, prefs preference.Store, n notifier.Notifier, rec recorder.Recorder, stocks []model.Stock) *Scheduler {
	maPeriod := 20
	if len(col.Params.MAPeriods) > 0 {
		maPeriod = col.Params.MAPeriods[0]
	}
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Collector:   col,
		Preferences: prefs,
		Notifier:    n,
		Recorder:    rec,
		Stocks:      stocks,
		Thresholds:  strategy.DefaultThresholds,
		MAPeriod:    maPeriod,
		Suffix:      ".IS",
		Now:         time.Now,
		Ctx:         ctx,
	}
}

// RegisterAll registers the daily report task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Info("scheduler stopped")
}

// RunNow executes the daily task immediately (manual trigger or run on start).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	if _, err := s.RunDaily(s.Ctx); err != nil {
		log.WithError(err).Error("daily task failed")
	}
}

// RunDaily fetches every tracked stock, records indicator snapshots and signals, and sends
// the report. It returns the signals fired on the latest bar.
func (s *Scheduler) RunDaily(ctx context.Context) ([]model.Signal, error) {
	runID := uuid.NewString()
	logger := log.WithField("run_id", runID)
	logger.Info("running daily task")

	symbols := make([]string, len(s.Stocks))
	for i, st := range s.Stocks {
		symbols[i] = st.Symbol
	}
	series, err := s.Collector.CollectMany(ctx, symbols)
	if err != nil {
		s.trySend(ctx, notifier.FormatError("daily data collection failed", err))
		return nil, fmt.Errorf("collect: %w", err)
	}

	var (
		analyses []*model.Analysis
		signals  []model.Signal
	)
	for _, symbol := range symbols {
		a, err := collector.Analyze(series[symbol], s.Collector.Params)
		if err != nil {
			logger.WithError(err).WithField("symbol", symbol).Warn("analysis skipped")
			continue
		}
		analyses = append(analyses, a)
		if err := s.Recorder.RecordSnapshot(&recorder.Snapshot{RunID: runID, Analysis: a}); err != nil {
			logger.WithError(err).Error("record snapshot")
		}

		for _, sig := range strategy.Evaluate(a, s.Thresholds, s.MAPeriod) {
			signals = append(signals, sig)
			metrics.SignalsTotal.WithLabelValues(string(sig.Type)).Inc()
			if err := s.Recorder.RecordSignal(&recorder.SignalEvent{RunID: runID, Signal: sig}); err != nil {
				logger.WithError(err).Error("record signal")
			}
		}
	}

	kind := preference.LoadOr(ctx, s.Preferences, s.DefaultKind)
	s.trySend(ctx, notifier.FormatReport(analyses, kind, signals, s.Now()))
	logger.Infof("daily task done: %d symbols, %d signals", len(analyses), len(signals))
	return signals, nil
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Commands sent in groups carry the bot name: /rsi@borsa_bot.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/ma", "/rsi", "/macd":
		kind, _ := model.ParseIndicatorKind(strings.TrimPrefix(name, "/"))
		if err := s.Preferences.Save(ctx, kind); err != nil {
			log.WithError(err).Error("save preference")
			return "❌ could not save the selection"
		}
		return fmt.Sprintf("Indicator set to %s", kind)
	case "/off":
		// Stored explicitly so a configured default kind does not come back.
		if err := s.Preferences.Save(ctx, model.KindNone); err != nil {
			log.WithError(err).Error("save preference")
			return "❌ could not clear the selection"
		}
		return "Indicator display turned off"
	case "/status":
		return fmt.Sprintf("Current indicator: %s", preference.LoadOr(ctx, s.Preferences, s.DefaultKind))
	case "/stocks":
		return notifier.FormatStocks(s.Stocks)
	case "/report":
		if len(fields) > 1 {
			return s.report(ctx, collector.FormatSymbol(fields[1], s.Suffix))
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if _, err := s.RunDaily(ctx); err != nil {
				log.WithError(err).Error("daily report from command failed")
			}
		}()
		return "Running the daily report..."
	default:
		return helpText
	}
}

func (s *Scheduler) report(ctx context.Context, symbol string) string {
	a, err := s.Collector.Analyze(ctx, symbol)
	if err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("report failed")
		return notifier.FormatError(symbol, err)
	}
	kind := preference.LoadOr(ctx, s.Preferences, s.DefaultKind)
	out := notifier.FormatAnalysis(a, kind)
	if sigs := strategy.Evaluate(a, s.Thresholds, s.MAPeriod); len(sigs) > 0 {
		out += "\n" + notifier.FormatSignals(sigs)
	}
	return out
}

const helpText = `Available commands:
/ma /rsi /macd - choose the indicator shown in reports
/off - hide indicators
/status - show the current choice
/report [SYMBOL] - run the report now
/stocks - list tracked stocks`

type retrySender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	var err error
	if r, ok := s.Notifier.(retrySender); ok {
		err = r.SendWithRetry(ctx, text, 3)
	} else {
		err = s.Notifier.Send(ctx, text)
	}
	if err != nil {
		log.WithError(err).Error("send notification")
	}
}
