package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TaifexDaily/internal/config"
	"TaifexDaily/internal/fetcher"
	"TaifexDaily/internal/pipeline"
	"TaifexDaily/internal/recorder"
	"TaifexDaily/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TaifexDaily starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	clientOpts := fetcher.ClientOptions{
		Timeout:    time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.HTTP.MaxRetries,
		Backoff:    time.Duration(cfg.HTTP.BackoffSeconds) * time.Second,
		PerMinute:  cfg.HTTP.RatePerMinute,
		Proxy:      cfg.Proxy,
		UserAgent:  cfg.HTTP.UserAgent,
	}

	// Init fetchers
	quote := fetcher.NewTaifexQuote(fetcher.QuoteConfig{
		URL:          cfg.Endpoints.QuoteURL,
		CommodityID:  cfg.Instrument.CommodityID,
		MarketCode:   cfg.Endpoints.MarketCode,
		Instrument:   cfg.Instrument.Name,
		ExcludeLabel: cfg.Instrument.AfterHoursLabel,
	}, clientOpts)
	position := fetcher.NewTaifexPosition(fetcher.PositionConfig{
		URL:          cfg.Endpoints.PositionURL,
		QueryType:    cfg.Endpoints.PositionMode,
		Instrument:   cfg.Instrument.Name,
		Counterparty: cfg.Instrument.Counterparty,
	}, clientOpts)
	pressure := fetcher.NewTwsePressure(fetcher.PressureConfig{
		URL:         cfg.Endpoints.PressureURL,
		Cutoff:      cfg.Pressure.Cutoff,
		ValueColumn: cfg.Pressure.ValueColumn,
		UnitScale:   cfg.Pressure.UnitScale,
	}, clientOpts)
	log.Printf("[INFO] sources: %s, %s, %s", quote.Name(), position.Name(), pressure.Name())

	// Init store
	var store recorder.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := recorder.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using noop: %v", err)
			store = recorder.NewNoopStore()
		} else {
			store = ss
			defer ss.Close()
		}
	} else {
		store = recorder.NewNoopStore()
	}

	cal := pipeline.NewTradingCalendar(cfg.Calendar.MIC, cfg.Calendar.Timezone)
	pipe := pipeline.New(quote, position, pressure, store, cal, pipeline.ContractScale{
		NotionalUnit: cfg.Contract.NotionalUnit,
		PointValue:   cfg.Contract.PointValue,
	})

	if os.Getenv("DAEMON_MODE") == "true" {
		runDaemon(pipe, cfg)
		return
	}

	// Default: one run for today (or TARGET_DATE), then exit. Wrote,
	// skipped, and aborted all exit 0; the outcome lives in the log output.
	date := time.Now()
	if loc, err := time.LoadLocation(cfg.Calendar.Timezone); err == nil {
		date = date.In(loc)
	}
	if v := os.Getenv("TARGET_DATE"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			log.Fatalf("[FATAL] parse TARGET_DATE %q: %v", v, err)
		}
		date = d
	}

	outcome, err := pipe.Run(date)
	if err != nil {
		log.Printf("[ERROR] run finished: %s: %v", outcome, err)
		return
	}
	log.Printf("[INFO] run finished: %s", outcome)
}

// runDaemon keeps the process alive and triggers the pipeline on a daily
// cron schedule, for hosts without an external scheduler.
func runDaemon(pipe *pipeline.Pipeline, cfg *config.Config) {
	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		log.Printf("[WARN] load timezone: %v, using UTC", err)
		loc = time.UTC
	}

	sched := scheduler.NewScheduler(pipe, loc)
	if err := sched.RegisterDaily(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Println("[INFO] TaifexDaily daemon running. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("[INFO] shutdown signal received, stopping...")
}
