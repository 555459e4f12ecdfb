package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/auth"
	"github.com/northlight-studio/agency-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

type AuthHandler struct {
	tokens *auth.TokenIssuer
	logger *zap.Logger
}

func NewAuthHandler(tokens *auth.TokenIssuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
		logger: logger,
	}
}

// meResponse describes the caller
type meResponse struct {
	Subject  string   `json:"subject"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	AuthType string   `json:"authType"`
}

// Me godoc
// @Summary Get current authenticated staff member
// @Tags Auth
// @Produce json
// @Success 200 {object} meResponse
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	respondJSON(w, http.StatusOK, meResponse{
		Subject:  user.Subject,
		Name:     user.DisplayName,
		Email:    user.Email,
		Roles:    user.RolesAsStrings(),
		AuthType: user.AuthType,
	})
}

// IssueToken godoc
// @Summary Issue a staff bearer token
// @Description Admin only. Signs an HS256 token for a staff member.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.IssueTokenRequest true "Token subject"
// @Success 201 {object} domain.TokenResponse
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/auth/tokens [post]
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req domain.IssueTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, expiresAt, err := h.tokens.Issue(req.Subject, req.Name, req.Email, auth.ParseRoles(req.Roles))
	if err != nil {
		if errors.Is(err, auth.ErrNoSecret) {
			respondWithError(w, http.StatusServiceUnavailable, "Token signing is not configured")
			return
		}
		h.logger.Error("failed to issue token", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if caller, ok := auth.FromContext(r.Context()); ok {
		h.logger.Info("staff token issued",
			zap.String("subject", req.Subject),
			zap.Strings("roles", req.Roles),
			zap.String("issued_by", caller.Subject))
	}

	respondJSON(w, http.StatusCreated, domain.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.UTC().Format(timestampLayout),
	})
}
