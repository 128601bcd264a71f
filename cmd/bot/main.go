package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"FxSentinel/internal/collector"
	"FxSentinel/internal/config"
	"FxSentinel/internal/ledger"
	"FxSentinel/internal/logger"
	"FxSentinel/internal/notifier"
	"FxSentinel/internal/recorder"
	"FxSentinel/internal/scheduler"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("config validation", zap.Error(err))
	}
	log.Info("FxSentinel starting", zap.Strings("pairs", cfg.Trading.Pairs))

	// Init provider chain
	col := collector.NewCollector(log, buildProviders(cfg, log)...)
	if len(col.Providers) == 0 {
		log.Fatal("no usable data provider configured")
	}
	log.Info("data providers", zap.Strings("order", col.Names()))

	sessions, err := cfg.SessionWindows()
	if err != nil {
		log.Fatal("session windows", zap.Error(err))
	}

	// Init notifier
	var note notifier.Notifier = &notifier.LogNotifier{Log: log}
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		if err != nil {
			log.Warn("init telegram failed, alerts go to the log", zap.Error(err))
		} else {
			note = tn
		}
	} else {
		log.Warn("telegram not configured, alerts go to the log")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, ledger.New(), note, rec, scheduler.Options{
		Pairs:           cfg.Trading.Pairs,
		MaxPerSession:   cfg.Trading.MaxTradesPerSession,
		Params:          cfg.Strategy,
		Sessions:        sessions,
		SplitTimeframes: cfg.Trading.SplitTimeframes,
		SendRetries:     cfg.Telegram.SendRetries,
	}, log)
	if err := sched.Register(cfg.Trading.PollInterval); err != nil {
		log.Fatal("register cycle", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	if cfg.Trading.RunOnStart {
		log.Info("run_on_start enabled, running a cycle now")
		go sched.RunCycle(ctx)
	}

	log.Info("FxSentinel is running, press Ctrl+C to stop")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping")
	cancel()
}

// buildProviders creates providers in the configured order, leaving out those
// that need an API key which is not set.
func buildProviders(cfg *config.Config, log *zap.Logger) []collector.Provider {
	var providers []collector.Provider
	for _, name := range cfg.Providers.Order {
		switch name {
		case config.ProviderTwelveData:
			if cfg.Providers.TwelveDataKey == "" {
				log.Info("twelvedata disabled, no api key")
				continue
			}
			providers = append(providers, collector.NewTwelveDataProvider(cfg.Providers.TwelveDataKey, cfg.Providers.OutputSize, cfg.Proxy))
		case config.ProviderAlphaVantage:
			if cfg.Providers.AlphaVantageKey == "" {
				log.Info("alphavantage disabled, no api key")
				continue
			}
			providers = append(providers, collector.NewAlphaVantageProvider(cfg.Providers.AlphaVantageKey, cfg.Proxy))
		case config.ProviderYahoo:
			providers = append(providers, collector.NewYahooProvider(cfg.Proxy))
		case config.ProviderFrankfurter:
			providers = append(providers, collector.NewFrankfurterProvider(cfg.Proxy))
		}
	}
	return providers
}
