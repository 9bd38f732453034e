package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/freydema/spacetrader-agent/internal/agent"
	"github.com/freydema/spacetrader-agent/internal/api"
	"github.com/freydema/spacetrader-agent/internal/config"
	"github.com/freydema/spacetrader-agent/internal/notifier"
	"github.com/freydema/spacetrader-agent/internal/recorder"
	"github.com/freydema/spacetrader-agent/internal/reporter"
	"github.com/freydema/spacetrader-agent/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] spacetrader-agent starting...")

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

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

	runID := uuid.NewString()
	log.Printf("[INFO] run id: %s", runID)

	// Init API client
	client := api.NewHTTPClient(cfg.API.BaseURL, cfg.API.Token, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, runID)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier
	var notif notifier.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		notif = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		log.Println("[INFO] Telegram notifications enabled")
	} else {
		notif = notifier.NewNoopNotifier()
	}

	// Init controller
	params := agent.StrategyParams{
		SafetyCreditReserve:     cfg.Strategy.SafetyCreditReserve,
		FleetExpansionThreshold: cfg.Strategy.FleetExpansionThreshold,
		AcquireCooldown:         cfg.AcquireCooldown(),
		MaxShips:                cfg.Strategy.MaxShips,
		MinProfitMargin:         cfg.Strategy.MinProfitMargin,
	}
	run := agent.NewRunContext(client, params)
	ctrl := agent.NewController(run, rec, notif, agent.Options{
		IterationPause: cfg.IterationPause(),
		RecoveryDelay:  cfg.RecoveryDelay(),
	})

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init report scheduler
	rep := reporter.New(ctrl, notif, rec, cfg.Report.Cron)
	if err := rep.Start(ctx); err != nil {
		log.Fatalf("[FATAL] start report scheduler: %v", err)
	}
	defer rep.Stop()

	// Optional status server
	if cfg.Server.StatusAddr != "" {
		srv := server.New(cfg.Server.StatusAddr, ctrl)
		srv.Start()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("[ERROR] status server shutdown: %v", err)
			}
		}()
	}

	// Run the agent loop
	done := make(chan struct{})
	go func() {
		ctrl.Run(ctx)
		close(done)
	}()

	log.Println("[INFO] spacetrader-agent is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	<-done
	log.Println("[INFO] spacetrader-agent stopped")
}
