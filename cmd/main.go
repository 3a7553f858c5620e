package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"readmore/referral/internal/config"
	"readmore/referral/internal/handler"
	"readmore/referral/internal/model"
	"readmore/referral/internal/repository"
	"readmore/referral/internal/service"
	jwtpkg "readmore/referral/pkg/jwt"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	var logger *zap.Logger
	if cfg.Log.Format == "json" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// 3. Connect to PostgreSQL
	db, err := config.NewPostgresDB(cfg.Database.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.Postgres.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	// 5. Initialize cache (Redis or in-memory)
	var cache repository.Cache
	switch cfg.Cache.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		cache = repository.NewRedisCache(redisClient)
		logger.Info("using Redis cache")
	case "memory":
		cache = repository.NewMemoryCache()
		logger.Info("using in-memory cache")
	default:
		logger.Fatal("unknown cache backend", zap.String("backend", cfg.Cache.Backend))
	}

	// 6. Initialize repositories
	campaignRepo := repository.NewPGCampaignRepository(db)
	ticketRepo := repository.NewPGTicketRepository(db)
	unlockRepo := repository.NewPGUnlockRepository(db)
	userRepo := repository.NewPGUserRepository(db)
	bookRepo := repository.NewCachedBookRepository(
		repository.NewPGBookRepository(db), cache, cfg.Cache.BookTTL,
	)

	// 7. Initialize JWT manager
	jwtManager := jwtpkg.NewManager(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.TokenTTL)

	// 8. Initialize services
	unlockService := service.NewUnlockService(unlockRepo, logger)
	ticketService := service.NewTicketService(ticketRepo, campaignRepo, userRepo, unlockService, logger)
	campaignService := service.NewCampaignService(campaignRepo, ticketRepo, bookRepo, logger)

	// 9. Initialize handlers
	ticketHandler := handler.NewTicketHandler(ticketService)
	campaignHandler := handler.NewCampaignHandler(campaignService)

	// 10. Setup router
	router := handler.SetupRouter(cfg, logger, jwtManager, ticketHandler, campaignHandler)

	// 11. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 12. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
