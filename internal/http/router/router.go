package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/northlight-studio/agency-api/internal/auth"
	"github.com/northlight-studio/agency-api/internal/config"
	"github.com/northlight-studio/agency-api/internal/database"
	"github.com/northlight-studio/agency-api/internal/http/handler"
	"github.com/northlight-studio/agency-api/internal/http/middleware"
	"github.com/northlight-studio/agency-api/internal/metrics"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	redis            *redis.Client
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	quoteHandler     *handler.QuoteHandler
	portalHandler    *handler.PortalHandler
	clientHandler    *handler.ClientHandler
	contactHandler   *handler.ContactHandler
	projectHandler   *handler.ProjectHandler
	blogHandler      *handler.BlogHandler
	portfolioHandler *handler.PortfolioHandler
	authHandler      *handler.AuthHandler
}

// NewRouter wires the handlers into a router. redisClient may be nil when caching is disabled.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	quoteHandler *handler.QuoteHandler,
	portalHandler *handler.PortalHandler,
	clientHandler *handler.ClientHandler,
	contactHandler *handler.ContactHandler,
	projectHandler *handler.ProjectHandler,
	blogHandler *handler.BlogHandler,
	portfolioHandler *handler.PortfolioHandler,
	authHandler *handler.AuthHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		redis:            redisClient,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		quoteHandler:     quoteHandler,
		portalHandler:    portalHandler,
		clientHandler:    clientHandler,
		contactHandler:   contactHandler,
		projectHandler:   projectHandler,
		blogHandler:      blogHandler,
		portfolioHandler: portfolioHandler,
		authHandler:      authHandler,
	}
}

func writeHealth(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.PublicURL, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)
	if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		writeHealth(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check (database plus cache when configured)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{"status": "healthy"}
		}

		if rt.redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := rt.redis.Ping(ctx).Err()
			cancel()
			// the cache is optional; a failing redis degrades but does not fail readiness
			if err != nil {
				rt.logger.Warn("Redis health check failed", zap.Error(err))
				checks["redis"] = map[string]interface{}{"status": "degraded", "error": err.Error()}
			} else {
				checks["redis"] = map[string]interface{}{"status": "healthy"}
			}
		}

		status, code := "healthy", http.StatusOK
		if !allHealthy {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		writeHealth(w, code, map[string]interface{}{"status": status, "checks": checks})
	})

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Route("/quotes", func(r chi.Router) {
			r.With(rt.rateLimiter.LimitQuoteSubmissions).Post("/", rt.quoteHandler.Create)
			r.Get("/catalog", rt.quoteHandler.Catalog)
		})

		r.Route("/portal/quotes/{token}", func(r chi.Router) {
			r.Get("/", rt.portalHandler.Get)
			r.Post("/accept", rt.portalHandler.Accept)
			r.Post("/decline", rt.portalHandler.Decline)
		})

		r.Get("/blog", rt.blogHandler.ListPublished)
		r.Get("/blog/{slug}", rt.blogHandler.GetBySlug)

		r.Get("/portfolio", rt.portfolioHandler.ListPublished)
		r.Get("/portfolio/{slug}", rt.portfolioHandler.GetBySlug)
		r.Get("/portfolio/{slug}/cover", rt.portfolioHandler.Cover)

		// Back office
		r.Route("/admin", func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.LimitByUser)

			adminOnly := rt.authMiddleware.RequireRole(auth.RoleAdmin)

			r.Get("/auth/me", rt.authHandler.Me)
			r.With(adminOnly).Post("/auth/tokens", rt.authHandler.IssueToken)

			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", rt.quoteHandler.List)
				r.Post("/preview", rt.quoteHandler.Preview)
				r.Get("/stats", rt.quoteHandler.Stats)
				r.With(adminOnly).Post("/expire", rt.quoteHandler.Expire)
				r.Get("/{id}", rt.quoteHandler.GetByID)
				r.With(adminOnly).Delete("/{id}", rt.quoteHandler.Delete)
			})

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.List)
				r.Post("/", rt.clientHandler.Create)
				r.Get("/{id}", rt.clientHandler.GetByID)
				r.Put("/{id}", rt.clientHandler.Update)
				r.With(adminOnly).Delete("/{id}", rt.clientHandler.Delete)
				r.Get("/{id}/contacts", rt.clientHandler.ListContacts)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", rt.contactHandler.List)
				r.Post("/", rt.contactHandler.Create)
				r.Get("/{id}", rt.contactHandler.GetByID)
				r.Put("/{id}", rt.contactHandler.Update)
				r.With(adminOnly).Delete("/{id}", rt.contactHandler.Delete)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", rt.projectHandler.List)
				r.Post("/", rt.projectHandler.Create)
				r.Get("/{id}", rt.projectHandler.GetByID)
				r.Put("/{id}", rt.projectHandler.Update)
				r.Put("/{id}/status", rt.projectHandler.UpdateStatus)
				r.With(adminOnly).Delete("/{id}", rt.projectHandler.Delete)
			})

			r.Route("/blog", func(r chi.Router) {
				r.Get("/", rt.blogHandler.List)
				r.Post("/", rt.blogHandler.Create)
				r.Get("/{id}", rt.blogHandler.GetByID)
				r.Put("/{id}", rt.blogHandler.Update)
				r.Post("/{id}/publish", rt.blogHandler.Publish)
				r.Post("/{id}/unpublish", rt.blogHandler.Unpublish)
				r.With(adminOnly).Delete("/{id}", rt.blogHandler.Delete)
			})

			r.Route("/portfolio", func(r chi.Router) {
				r.Get("/", rt.portfolioHandler.List)
				r.Post("/", rt.portfolioHandler.Create)
				r.Get("/{id}", rt.portfolioHandler.GetByID)
				r.Put("/{id}", rt.portfolioHandler.Update)
				r.Post("/{id}/cover", rt.portfolioHandler.UploadCover)
				r.With(adminOnly).Delete("/{id}", rt.portfolioHandler.Delete)
			})
		})
	})

	return r
}
