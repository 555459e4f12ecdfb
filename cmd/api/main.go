package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/auth"
	"github.com/northlight-studio/agency-api/internal/cache"
	"github.com/northlight-studio/agency-api/internal/config"
	"github.com/northlight-studio/agency-api/internal/database"
	"github.com/northlight-studio/agency-api/internal/estimator"
	"github.com/northlight-studio/agency-api/internal/http/handler"
	"github.com/northlight-studio/agency-api/internal/http/middleware"
	"github.com/northlight-studio/agency-api/internal/http/router"
	"github.com/northlight-studio/agency-api/internal/jobs"
	"github.com/northlight-studio/agency-api/internal/llm"
	"github.com/northlight-studio/agency-api/internal/logger"
	"github.com/northlight-studio/agency-api/internal/notify"
	"github.com/northlight-studio/agency-api/internal/repository"
	"github.com/northlight-studio/agency-api/internal/service"
	"github.com/northlight-studio/agency-api/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Basic configuration first, for logging setup
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Environment variables in development, Azure Key Vault in staging/production
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Warn("Database auto-migrated from models; use cmd/migrate outside development")
	}

	// The quote cache is optional; the API keeps working straight from the database without it
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, continuing without quote cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info("Quote cache enabled", zap.Duration("ttl", cfg.Redis.CacheTTLDuration()))
		}
	}
	var quoteCache *cache.QuoteCache
	if redisClient != nil {
		quoteCache = cache.NewQuoteCache(redisClient, cfg.Redis.CacheTTLDuration(), log)
	}

	sender, err := notify.New(ctx, &cfg.Email, log)
	if err != nil {
		return fmt.Errorf("failed to initialize email: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	estimatorOpts := []estimator.Option{estimator.WithRemoteTimeout(cfg.Quotes.RemoteTimeoutDuration())}
	if llmClient := llm.NewClient(&cfg.LLM, log); llmClient.Enabled() {
		estimatorOpts = append(estimatorOpts, estimator.WithGenerator(llmClient))
		log.Info("Remote estimator enabled", zap.String("model", cfg.LLM.Model))
	} else {
		log.Info("Remote estimator disabled, quotes use the deterministic path")
	}
	est := estimator.New(log, estimatorOpts...)

	// Repositories
	quoteRepo := repository.NewQuoteRepository(db)
	clientRepo := repository.NewClientRepository(db)
	contactRepo := repository.NewContactRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	blogRepo := repository.NewBlogPostRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)

	// Services
	quoteService := service.NewQuoteService(est, quoteRepo, clientRepo, quoteCache, sender,
		service.QuoteNotifications{
			PublicURL:    cfg.App.PublicURL,
			AdminEmail:   cfg.Email.AdminEmail,
			NotifyClient: cfg.Quotes.NotifyClient,
			NotifyAdmin:  cfg.Quotes.NotifyAdmin,
		},
		log,
	)
	clientService := service.NewClientService(clientRepo, quoteRepo, log)
	contactService := service.NewContactService(contactRepo, clientRepo, log)
	projectService := service.NewProjectService(projectRepo, clientRepo, log)
	blogService := service.NewBlogService(blogRepo, log)
	portfolioService := service.NewPortfolioService(portfolioRepo, fileStorage, log)

	// Middleware
	tokens := auth.NewTokenIssuer(&cfg.Auth)
	authMiddleware := auth.NewMiddleware(&cfg.Auth, tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		redisClient,
		authMiddleware,
		rateLimiter,
		handler.NewQuoteHandler(quoteService, log),
		handler.NewPortalHandler(quoteService, log),
		handler.NewClientHandler(clientService, contactService, log),
		handler.NewContactHandler(contactService, log),
		handler.NewProjectHandler(projectService, log),
		handler.NewBlogHandler(blogService, log),
		handler.NewPortfolioHandler(portfolioService, cfg.Storage.MaxUploadSizeMB, log),
		handler.NewAuthHandler(tokens, log),
	)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		expiry := jobs.NewQuoteExpiryJob(quoteService, log, time.Minute)
		if err := expiry.Register(scheduler, cfg.Jobs.QuoteExpirySchedule); err != nil {
			log.Error("Failed to register quote expiry job", zap.Error(err))
			scheduler = nil
		} else {
			// catch up on anything that lapsed while the service was down
			go expiry.Run()
			scheduler.Start()
		}
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           rt.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeoutDuration(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
