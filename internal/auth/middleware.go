package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/config"
	"github.com/northlight-studio/agency-api/internal/domain"
)

// Middleware handles authentication for the staff API
type Middleware struct {
	tokens *TokenIssuer
	apiKey string
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.AuthConfig, tokens *TokenIssuer, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

// systemUser is the identity behind a valid API key
var systemUser = UserContext{
	Subject:     "system",
	DisplayName: "System",
	Email:       "system@localhost",
	Roles:       []Role{RoleAdmin},
	AuthType:    "api_key",
}

// Authenticate accepts either an x-api-key header or a bearer token
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if apiKey := r.Header.Get("x-api-key"); apiKey != "" {
			if !m.validateAPIKey(apiKey) {
				m.logger.Warn("invalid API key attempt",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				respondAuthError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			user := systemUser
			m.authenticated(w, r, next, &user, start)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondAuthError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondAuthError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		user, err := m.tokens.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			respondAuthError(w, http.StatusUnauthorized, err.Error())
			return
		}

		m.authenticated(w, r, next, user, start)
	})
}

func (m *Middleware) authenticated(w http.ResponseWriter, r *http.Request, next http.Handler, user *UserContext, start time.Time) {
	m.logger.Debug("request authenticated",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("auth_type", user.AuthType),
		zap.String("subject", user.Subject),
		zap.Strings("roles", user.RolesAsStrings()),
		zap.Duration("auth_duration", time.Since(start)),
	)
	next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), user)))
}

// RequireRole middleware ensures user has one of the given roles
func (m *Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := FromContext(r.Context())
			if !ok {
				respondAuthError(w, http.StatusForbidden, "no user context")
				return
			}
			if !user.HasAnyRole(roles...) {
				respondAuthError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}

func respondAuthError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="agency-api"`)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.NewAPIError(status, detail))
}
