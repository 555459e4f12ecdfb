package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/service"
)

type BlogHandler struct {
	blogService *service.BlogService
	logger      *zap.Logger
}

func NewBlogHandler(blogService *service.BlogService, logger *zap.Logger) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		logger:      logger,
	}
}

// ListPublished godoc
// @Summary List published blog posts
// @Tags Blog
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.BlogPostDTO}
// @Router /blog [get]
func (h *BlogHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	result, err := h.blogService.ListPublished(r.Context(), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list published posts")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetBySlug godoc
// @Summary Get a published blog post
// @Tags Blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} domain.BlogPostDTO
// @Failure 404 {object} domain.APIError
// @Router /blog/{slug} [get]
func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.blogService.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get blog post")
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// List godoc
// @Summary List blog posts, drafts included
// @Tags Blog
// @Produce json
// @Param status query string false "Filter by status" Enums(draft, published)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.BlogPostDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/blog [get]
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	result, err := h.blogService.List(r.Context(), page, pageSize, r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list blog posts")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create blog post
// @Description The slug is derived from the title unless given; clashes get a numeric suffix
// @Tags Blog
// @Accept json
// @Produce json
// @Param request body domain.CreateBlogPostRequest true "Post"
// @Success 201 {object} domain.BlogPostDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/blog [post]
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBlogPostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.blogService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create blog post")
		return
	}

	respondJSON(w, http.StatusCreated, post)
}

func (h *BlogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	post, err := h.blogService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get blog post")
		return
	}

	respondJSON(w, http.StatusOK, post)
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateBlogPostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.blogService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update blog post")
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// Publish godoc
// @Summary Publish blog post
// @Tags Blog
// @Produce json
// @Param id path string true "Post ID" format(uuid)
// @Success 200 {object} domain.BlogPostDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/blog/{id}/publish [post]
func (h *BlogHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

// Unpublish godoc
// @Summary Return blog post to draft
// @Tags Blog
// @Produce json
// @Param id path string true "Post ID" format(uuid)
// @Success 200 {object} domain.BlogPostDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/blog/{id}/unpublish [post]
func (h *BlogHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *BlogHandler) setPublished(w http.ResponseWriter, r *http.Request, publish bool) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	post, err := h.blogService.SetPublished(r.Context(), id, publish)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to change blog post status")
		return
	}

	respondJSON(w, http.StatusOK, post)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.blogService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete blog post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
