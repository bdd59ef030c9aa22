package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"smmdesk/internal/bootstrap"
	"smmdesk/internal/config"
	cronpkg "smmdesk/internal/cron"
	"smmdesk/internal/middleware"
	"smmdesk/internal/notify"
	"smmdesk/internal/repository"
	"smmdesk/internal/router"
	"smmdesk/internal/ticket"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if hasArg("--bootstrap-db") {
		if err := runDBBootstrap(logger); err != nil {
			logger.Fatal("Database bootstrap failed", zap.Error(err))
		}
		logger.Info("Database bootstrap completed")
		return
	}

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.MigrateAndSeed(db); err != nil {
		logger.Fatal("Failed to bootstrap database schema", zap.Error(err))
	}

	// --- Admin notifier (Telegram, optional) ---
	var notifier notify.Notifier = notify.Nop{}
	if cfg.Bot.Token != "" && cfg.Bot.AdminChatID != "" {
		tg, err := notify.NewTelegram(cfg.Bot.Token, cfg.Bot.AdminChatID)
		if err != nil {
			logger.Warn("Telegram notifier disabled", zap.Error(err))
		} else {
			notifier = tg
		}
	}

	// --- Submission deduper (Redis with in-memory fallback) ---
	deduper, dedupeErr := middleware.NewSubmissionDeduper(
		cfg.Redis.Addr,
		cfg.Redis.Pass,
		cfg.Redis.DB,
		cfg.Tickets.DedupWindow,
	)
	if dedupeErr != nil {
		logger.Warn("Redis unavailable for ticket dedup, using in-memory fallback", zap.Error(dedupeErr))
	}

	// --- Ticket processing ---
	procRepos := &ticket.ProcessorRepos{
		Order:    repository.NewOrderRepository(db),
		Service:  repository.NewServiceRepository(db),
		User:     repository.NewUserRepository(db),
		Request:  repository.NewRequestRepository(db),
		Provider: repository.NewProviderRepository(db),
	}
	processor := ticket.NewProcessor(procRepos, nil, notifier, logger)
	ticketSvc := ticket.NewService(
		repository.NewTicketRepository(db),
		procRepos.Order,
		procRepos.User,
		repository.NewSettingRepository(db),
		processor,
		notifier,
		deduper,
		logger,
	)

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true

	// --- Routes ---
	router.Setup(e, db, ticketSvc, logger, cfg.API.Key)

	// --- Cron Scheduler ---
	cronRepos := &cronpkg.CronRepos{
		Order:    procRepos.Order,
		Provider: procRepos.Provider,
		Request:  procRepos.Request,
		Ticket:   repository.NewTicketRepository(db),
	}
	scheduler := cronpkg.New(cronRepos, nil, notifier, logger)
	scheduler.Start()

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting SMM Desk server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	// Stop cron
	scheduler.Stop()

	// Stop HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func hasArg(name string) bool {
	for _, arg := range os.Args[1:] {
		if arg == name {
			return true
		}
	}
	return false
}

func runDBBootstrap(logger *zap.Logger) error {
	dbCfg, err := config.LoadDatabaseOnly()
	if err != nil {
		return err
	}
	db, err := config.NewDatabase(dbCfg)
	if err != nil {
		return err
	}
	if err := bootstrap.MigrateAndSeed(db); err != nil {
		return err
	}
	logger.Info("Schema migration and default seed completed")
	return nil
}
