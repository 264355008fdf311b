package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"BorsaLens/internal/notifier"
	"BorsaLens/internal/preference"
	"BorsaLens/internal/recorder"
	"BorsaLens/internal/scheduler"
	"BorsaLens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the HTTP API, the daily report job and the Telegram bot",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("run-on-start", false, "run the daily report once at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log.Info("BorsaLens starting...")

	col := newCollector(cmd, cfg)

	prefs, err := preference.NewFileStore(cfg.Preference.File)
	if err != nil {
		return err
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.WithError(err).Warn("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	var (
		n  notifier.Notifier = notifier.NoopNotifier{}
		tn *notifier.TelegramNotifier
	)
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		log.Warn("telegram not configured, reports are only logged")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, col, prefs, n, rec, cfg.Stocks)
	sched.DefaultKind = cfg.DefaultKind()
	sched.Thresholds = cfg.Thresholds()
	sched.MAPeriod = cfg.Signals.MAPeriod
	sched.Suffix = cfg.DataSource.Suffix
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	srv := server.NewServer(col, prefs, cfg.Stocks)
	srv.DefaultKind = cfg.DefaultKind()
	srv.Suffix = cfg.DataSource.Suffix

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(cfg.Server.Addr) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if tn != nil {
		g.Go(func() error {
			tn.StartPolling(gctx, sched.HandleCommand)
			return nil
		})
		log.Info("telegram polling started")
	}

	if runOnStart, _ := cmd.Flags().GetBool("run-on-start"); runOnStart {
		log.Info("run-on-start enabled, executing daily report now")
		go sched.RunNow()
	}

	log.Info("BorsaLens is running. Press Ctrl+C to stop.")
	err = g.Wait()
	log.Info("BorsaLens stopped")
	return err
}
