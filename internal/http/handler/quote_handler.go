package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/service"
)

type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// Create godoc
// @Summary Request a quote
// @Description Submit the onboarding wizard. The project is estimated, stored under a quote token and the client is e-mailed a portal link.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.CreateQuoteRequest true "Wizard submission"
// @Success 201 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 429 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /quotes [post]
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quote, err := h.quoteService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create quote")
		return
	}

	respondJSON(w, http.StatusCreated, quote)
}

// Catalog godoc
// @Summary Wizard catalogue
// @Description Project types, timelines and features offered by the onboarding wizard
// @Tags Quotes
// @Produce json
// @Success 200 {object} domain.CatalogueDTO
// @Router /quotes/catalog [get]
func (h *QuoteHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.quoteService.Catalogue())
}

// Preview godoc
// @Summary Preview an estimate
// @Description Run the estimator for a project request without storing anything
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.PreviewQuoteRequest true "Project request"
// @Success 200 {object} estimator.QuoteBreakdown
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotes/preview [post]
func (h *QuoteHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req domain.PreviewQuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	respondJSON(w, http.StatusOK, h.quoteService.Preview(r.Context(), &req))
}

// List godoc
// @Summary List quotes
// @Tags Quotes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(pending, sent, accepted, declined, expired)
// @Param complexity query string false "Filter by complexity" Enums(simple, moderate, complex, enterprise)
// @Param clientId query string false "Filter by client ID" format(uuid)
// @Param email query string false "Filter by client e-mail"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.QuoteSummaryDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	clientID, ok := parseOptionalUUIDQuery(w, r, "clientId")
	if !ok {
		return
	}

	q := r.URL.Query()
	result, err := h.quoteService.List(r.Context(), page, pageSize, service.QuoteListFilters{
		Status:     q.Get("status"),
		Complexity: q.Get("complexity"),
		ClientID:   clientID,
		Email:      q.Get("email"),
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list quotes")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get quote
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID" format(uuid)
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotes/{id} [get]
func (h *QuoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	quote, err := h.quoteService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Delete godoc
// @Summary Delete quote
// @Tags Quotes
// @Param id path string true "Quote ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotes/{id} [delete]
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.quoteService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete quote")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats godoc
// @Summary Quote counts per status
// @Tags Quotes
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotes/stats [get]
func (h *QuoteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.quoteService.StatusCounts(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to count quotes")
		return
	}

	respondJSON(w, http.StatusOK, counts)
}

// Expire godoc
// @Summary Expire stale quotes now
// @Description Runs the quote expiry job on demand
// @Tags Quotes
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotes/expire [post]
func (h *QuoteHandler) Expire(w http.ResponseWriter, r *http.Request) {
	n, err := h.quoteService.ExpireStale(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to expire quotes")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"expired": n})
}
