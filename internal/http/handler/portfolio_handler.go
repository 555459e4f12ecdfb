package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/service"
)

type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	maxUploadMB      int64
	logger           *zap.Logger
}

func NewPortfolioHandler(portfolioService *service.PortfolioService, maxUploadMB int64, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		maxUploadMB:      maxUploadMB,
		logger:           logger,
	}
}

// ListPublished godoc
// @Summary List published portfolio items
// @Description Featured items first, then by sort order
// @Tags Portfolio
// @Produce json
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.PortfolioItemDTO}
// @Router /portfolio [get]
func (h *PortfolioHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// List godoc
// @Summary List all portfolio items
// @Tags Portfolio
// @Produce json
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.PortfolioItemDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/portfolio [get]
func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *PortfolioHandler) list(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	page, pageSize := pagination(r)
	result, err := h.portfolioService.List(r.Context(), page, pageSize, publishedOnly)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list portfolio items")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetBySlug godoc
// @Summary Get a published portfolio item
// @Tags Portfolio
// @Produce json
// @Param slug path string true "Item slug"
// @Success 200 {object} domain.PortfolioItemDTO
// @Failure 404 {object} domain.APIError
// @Router /portfolio/{slug} [get]
func (h *PortfolioHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	item, err := h.portfolioService.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get portfolio item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// Cover godoc
// @Summary Cover image of a published portfolio item
// @Tags Portfolio
// @Produce image/jpeg,image/png,image/webp,image/gif
// @Param slug path string true "Item slug"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Router /portfolio/{slug}/cover [get]
func (h *PortfolioHandler) Cover(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.portfolioService.OpenCover(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to open cover image")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("failed to stream cover image", zap.Error(err))
	}
}

func (h *PortfolioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePortfolioItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.portfolioService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create portfolio item")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (h *PortfolioHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.portfolioService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get portfolio item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (h *PortfolioHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdatePortfolioItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.portfolioService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update portfolio item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// UploadCover godoc
// @Summary Upload cover image
// @Description Replaces the item's cover image. Accepts JPEG, PNG, WebP and GIF.
// @Tags Portfolio
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Param file formData file true "Image"
// @Success 200 {object} domain.PortfolioItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/portfolio/{id}/cover [post]
func (h *PortfolioHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	limit := h.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	item, err := h.portfolioService.UploadCover(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to upload cover image")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (h *PortfolioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.portfolioService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete portfolio item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
