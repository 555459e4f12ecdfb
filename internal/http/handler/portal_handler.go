package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/service"
)

// PortalHandler serves the client portal, where a quote is addressed by its token
type PortalHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

func NewPortalHandler(quoteService *service.QuoteService, logger *zap.Logger) *PortalHandler {
	return &PortalHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// Get godoc
// @Summary View a quote
// @Tags Portal
// @Produce json
// @Param token path string true "Quote token"
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.APIError
// @Router /portal/quotes/{token} [get]
func (h *PortalHandler) Get(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quoteService.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get quote by token")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Accept godoc
// @Summary Accept a quote
// @Description Accepting opens a project for the client
// @Tags Portal
// @Produce json
// @Param token path string true "Quote token"
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Already accepted or declined"
// @Failure 410 {object} domain.APIError "Expired"
// @Router /portal/quotes/{token}/accept [post]
func (h *PortalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quoteService.Accept(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to accept quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Decline godoc
// @Summary Decline a quote
// @Tags Portal
// @Accept json
// @Produce json
// @Param token path string true "Quote token"
// @Param request body domain.DeclineQuoteRequest false "Optional reason"
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 410 {object} domain.APIError
// @Router /portal/quotes/{token}/decline [post]
func (h *PortalHandler) Decline(w http.ResponseWriter, r *http.Request) {
	var req domain.DeclineQuoteRequest
	if r.ContentLength != 0 {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBodyBytes))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
				return
			}
			if err := validate.Struct(req); err != nil {
				respondValidationError(w, err)
				return
			}
		}
	}

	quote, err := h.quoteService.Decline(r.Context(), chi.URLParam(r, "token"), req.Reason)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to decline quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}
