package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/app"
	"github.com/procrastinate-app/procrastinate_bot/internal/backend"
	"github.com/procrastinate-app/procrastinate_bot/internal/config"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller"
	"github.com/procrastinate-app/procrastinate_bot/internal/repository"
	"github.com/procrastinate-app/procrastinate_bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting ProcrastiNATE bot",
		zap.String("environment", cfg.Environment),
		zap.String("backend_url", cfg.BackendURL))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// База данных: сессии чатов
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, "migrations")
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Слои приложения
	sessionRepo := repository.NewSessionRepository(pool)
	client := backend.NewClient(cfg.BackendURL, logger)

	scheduleService := service.NewScheduleService(client, logger)
	accountService := service.NewAccountService(client, sessionRepo, scheduleService, logger)
	plannerService := service.NewPlannerService(client, scheduleService, logger)

	// Telegram бот
	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, accountService, scheduleService, plannerService, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Фоновая синхронизация кэшей расписаний
	scheduler := app.NewScheduler(scheduleService, sessionRepo, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("Bot is running, press Ctrl+C to stop")
	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
