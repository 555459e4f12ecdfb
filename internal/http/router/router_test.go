package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/auth"
	"github.com/northlight-studio/agency-api/internal/config"
	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/estimator"
	"github.com/northlight-studio/agency-api/internal/http/handler"
	"github.com/northlight-studio/agency-api/internal/http/middleware"
	"github.com/northlight-studio/agency-api/internal/http/router"
	"github.com/northlight-studio/agency-api/internal/notify"
	"github.com/northlight-studio/agency-api/internal/repository"
	"github.com/northlight-studio/agency-api/internal/service"
	"github.com/northlight-studio/agency-api/internal/storage"
	"github.com/northlight-studio/agency-api/internal/testutil"
)

func newServer(t *testing.T, redisClient *redis.Client) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	db := testutil.SetupTestDB(t)

	cfg := &config.Config{
		App: config.AppConfig{Environment: "test", PublicURL: "https://northlight.studio"},
		Auth: config.AuthConfig{
			APIKey:       "router-key",
			JWTSecret:    "router-test-secret-0123456789abcdef",
			JWTIssuer:    "agency-api",
			TokenTTLHour: 1,
		},
		Security: config.SecurityConfig{ContentTypeNosniff: true},
		RateLimit: config.RateLimitConfig{
			Enabled:               true,
			RequestsPerMinute:     1000,
			RequestsPerMinuteAuth: 1000,
			QuoteRequestsPerHour:  1,
		},
	}

	quoteRepo := repository.NewQuoteRepository(db)
	clientRepo := repository.NewClientRepository(db)
	contactRepo := repository.NewContactRepository(db)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	quoteService := service.NewQuoteService(
		estimator.New(logger), quoteRepo, clientRepo, nil, notify.NewLogSender(logger),
		service.QuoteNotifications{PublicURL: cfg.App.PublicURL}, logger,
	)
	clientService := service.NewClientService(clientRepo, quoteRepo, logger)
	contactService := service.NewContactService(contactRepo, clientRepo, logger)

	tokens := auth.NewTokenIssuer(&cfg.Auth)

	rt := router.NewRouter(
		cfg, logger, db, redisClient,
		auth.NewMiddleware(&cfg.Auth, tokens, logger),
		middleware.NewRateLimiter(&cfg.RateLimit, logger),
		handler.NewQuoteHandler(quoteService, logger),
		handler.NewPortalHandler(quoteService, logger),
		handler.NewClientHandler(clientService, contactService, logger),
		handler.NewContactHandler(contactService, logger),
		handler.NewProjectHandler(service.NewProjectService(repository.NewProjectRepository(db), clientRepo, logger), logger),
		handler.NewBlogHandler(service.NewBlogService(repository.NewBlogPostRepository(db), logger), logger),
		handler.NewPortfolioHandler(service.NewPortfolioService(repository.NewPortfolioRepository(db), store, logger), 5, logger),
		handler.NewAuthHandler(tokens, logger),
	)
	return rt.Setup()
}

func serve(h http.Handler, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.RemoteAddr = "198.51.100.7:4000"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h := newServer(t, nil)

	rec := serve(h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = serve(h, http.MethodGet, "/health/db", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/health/ready", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	checks := body["checks"].(map[string]interface{})
	assert.Contains(t, checks, "database")
	assert.NotContains(t, checks, "redis")
}

func TestRouter_ReadyWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := newServer(t, client)

	rec := serve(h, http.MethodGet, "/health/ready", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Checks map[string]map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Checks["redis"]["status"])

	mr.Close()
	rec = serve(h, http.MethodGet, "/health/ready", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Checks["redis"]["status"])
}

func TestRouter_Metrics(t *testing.T) {
	h := newServer(t, nil)

	serve(h, http.MethodGet, "/api/v1/blog", nil, nil)
	rec := serve(h, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "agency_http_request_duration_seconds")
}

func TestRouter_AdminRequiresAuth(t *testing.T) {
	h := newServer(t, nil)

	rec := serve(h, http.MethodGet, "/api/v1/admin/quotes", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = serve(h, http.MethodGet, "/api/v1/admin/quotes", nil, map[string]string{"x-api-key": "router-key"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_QuoteSubmissionLimit(t *testing.T) {
	h := newServer(t, nil)

	payload, err := json.Marshal(domain.CreateQuoteRequest{
		Name:        "Grace Hopper",
		Email:       "grace@example.com",
		ProjectType: "landing-page",
		Timeline:    "1-month",
	})
	require.NoError(t, err)
	headers := map[string]string{"Content-Type": "application/json"}

	rec := serve(h, http.MethodPost, "/api/v1/quotes", payload, headers)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.QuoteDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = serve(h, http.MethodPost, "/api/v1/quotes", payload, headers)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// reading the catalogue and the portal are not part of the submission budget
	rec = serve(h, http.MethodGet, "/api/v1/quotes/catalog", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/api/v1/portal/quotes/"+created.Token, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
