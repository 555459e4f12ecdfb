package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/auth"
	"github.com/northlight-studio/agency-api/internal/config"
	"github.com/northlight-studio/agency-api/internal/domain"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		APIKey:       "test-api-key",
		JWTSecret:    "0123456789abcdef0123456789abcdef",
		JWTIssuer:    "agency-api",
		TokenTTLHour: 1,
	}
}

// echoUser writes the authenticated subject so tests can see what reached the handler
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(user.Subject))
})

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	issuer := auth.NewTokenIssuer(testAuthConfig())

	token, expiresAt, err := issuer.Issue("u-1", "Ada Lovelace", "ada@example.com", []auth.Role{auth.RoleStaff})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	user, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.Subject)
	assert.Equal(t, "Ada Lovelace", user.DisplayName)
	assert.Equal(t, "jwt", user.AuthType)
	assert.True(t, user.HasRole(auth.RoleStaff))
	assert.False(t, user.IsAdmin())
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := auth.NewTokenIssuer(testAuthConfig())
	issued := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	issuer.SetClock(func() time.Time { return issued })

	token, _, err := issuer.Issue("u-1", "Ada", "ada@example.com", []auth.Role{auth.RoleAdmin})
	require.NoError(t, err)

	issuer.SetClock(func() time.Time { return issued.Add(2 * time.Hour) })
	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	other := testAuthConfig()
	other.JWTSecret = "a-completely-different-secret-value"
	token, _, err := auth.NewTokenIssuer(other).Issue("u-1", "Ada", "ada@example.com", []auth.Role{auth.RoleAdmin})
	require.NoError(t, err)

	_, err = auth.NewTokenIssuer(testAuthConfig()).Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenIssuer_RequiresSecretAndRoles(t *testing.T) {
	cfg := testAuthConfig()
	_, _, err := auth.NewTokenIssuer(cfg).Issue("u-1", "Ada", "ada@example.com", nil)
	assert.ErrorIs(t, err, auth.ErrNoRoles)

	cfg.JWTSecret = ""
	_, _, err = auth.NewTokenIssuer(cfg).Issue("u-1", "Ada", "ada@example.com", []auth.Role{auth.RoleAdmin})
	assert.ErrorIs(t, err, auth.ErrNoSecret)
}

func TestParseRoles(t *testing.T) {
	roles := auth.ParseRoles([]string{"staff", "root", "admin", "staff"})
	assert.Equal(t, []auth.Role{auth.RoleStaff, auth.RoleAdmin}, roles)
}

func TestAuthenticate(t *testing.T) {
	cfg := testAuthConfig()
	issuer := auth.NewTokenIssuer(cfg)
	mw := auth.NewMiddleware(cfg, issuer, zap.NewNop())
	handler := mw.Authenticate(echoUser)

	token, _, err := issuer.Issue("u-7", "Grace", "grace@example.com", []auth.Role{auth.RoleStaff})
	require.NoError(t, err)

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{"api key", map[string]string{"x-api-key": "test-api-key"}, http.StatusOK, "system"},
		{"wrong api key", map[string]string{"x-api-key": "nope"}, http.StatusUnauthorized, ""},
		{"bearer token", map[string]string{"Authorization": "Bearer " + token}, http.StatusOK, "u-7"},
		{"lower-case scheme", map[string]string{"Authorization": "bearer " + token}, http.StatusOK, "u-7"},
		{"garbage token", map[string]string{"Authorization": "Bearer abc.def.ghi"}, http.StatusUnauthorized, ""},
		{"basic scheme", map[string]string{"Authorization": "Basic dXNlcjpwYXNz"}, http.StatusUnauthorized, ""},
		{"no credentials", nil, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/quotes", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rr.Body.String())
			}
			if rr.Code == http.StatusUnauthorized {
				var problem domain.APIError
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
				assert.Equal(t, domain.ErrorTypeUnauthorized, problem.Type)
			}
		})
	}
}

func TestAuthenticate_NoAPIKeyConfigured(t *testing.T) {
	cfg := testAuthConfig()
	cfg.APIKey = ""
	handler := auth.NewMiddleware(cfg, auth.NewTokenIssuer(cfg), zap.NewNop()).Authenticate(echoUser)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-api-key", "anything")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireRole(t *testing.T) {
	cfg := testAuthConfig()
	issuer := auth.NewTokenIssuer(cfg)
	mw := auth.NewMiddleware(cfg, issuer, zap.NewNop())
	handler := mw.Authenticate(mw.RequireRole(auth.RoleAdmin)(echoUser))

	staffToken, _, err := issuer.Issue("s-1", "Staff", "staff@example.com", []auth.Role{auth.RoleStaff})
	require.NoError(t, err)
	adminToken, _, err := issuer.Issue("a-1", "Admin", "admin@example.com", []auth.Role{auth.RoleAdmin})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "a-1", rr.Body.String())
}
