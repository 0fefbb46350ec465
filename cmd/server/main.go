package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub-backend/internal/app"
	"github.com/tutorhub/tutorhub-backend/internal/cache"
	"github.com/tutorhub/tutorhub-backend/internal/config"
	httpctrl "github.com/tutorhub/tutorhub-backend/internal/controller/http"
	"github.com/tutorhub/tutorhub-backend/internal/repository"
	"github.com/tutorhub/tutorhub-backend/internal/repository/base"
	"github.com/tutorhub/tutorhub-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting tutorhub backend",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.HTTPPort),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, "migrations", logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	tierRepo := repository.NewTierRepository(pool)
	offeringRepo := repository.NewOfferingRepository(pool)
	packageRepo := repository.NewPackageRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	txManager := base.NewTxManager(pool)

	meetCache := cache.NewMeetLinkCache(cfg.MeetCacheSize, cfg.MeetTokenTTL)
	notifier := service.NewLogNotifier(logger)

	// Сервисы
	pricingService := service.NewPricingService(tierRepo, logger)
	userService := service.NewUserService(userRepo, logger)
	tutorService := service.NewTutorService(userRepo, slotRepo, subjectRepo, tierRepo, offeringRepo, availabilityRepo, logger)
	packageService := service.NewPackageService(txManager, userRepo, slotRepo, offeringRepo, packageRepo, pricingService, meetCache, notifier, cfg.MeetBaseURL, logger)
	bookingService := service.NewBookingService(txManager, userRepo, subjectRepo, slotRepo, bookingRepo, pricingService, notifier, logger)

	// Фоновая генерация слотов по шаблонам доступности
	scheduler := app.NewScheduler(tutorService, cfg.SlotWeeks, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := httpctrl.NewServer(userService, tutorService, packageService, bookingService, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Listen(":" + cfg.HTTPPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
		if err := server.Shutdown(); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}

	logger.Info("Stopped")
}
