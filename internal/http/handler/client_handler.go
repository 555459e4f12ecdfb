package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/service"
)

type ClientHandler struct {
	clientService  *service.ClientService
	contactService *service.ContactService
	logger         *zap.Logger
}

func NewClientHandler(clientService *service.ClientService, contactService *service.ContactService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService:  clientService,
		contactService: contactService,
		logger:         logger,
	}
}

// List godoc
// @Summary List clients
// @Tags Clients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search in name, company and e-mail"
// @Param status query string false "Filter by status" Enums(lead, active, inactive, archived)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ClientDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	result, err := h.clientService.List(r.Context(), page, pageSize, r.URL.Query().Get("search"), r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list clients")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body domain.CreateClientRequest true "Client data"
// @Success 201 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "E-mail already registered"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clientService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create client")
		return
	}

	w.Header().Set("Location", "/api/v1/admin/clients/"+client.ID.String())
	respondJSON(w, http.StatusCreated, client)
}

// GetByID godoc
// @Summary Get client with contacts, projects and recent quotes
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Success 200 {object} domain.ClientWithDetailsDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/clients/{id} [get]
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetWithDetails(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get client")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// Update godoc
// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Param request body domain.UpdateClientRequest true "Client data"
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/clients/{id} [put]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clientService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update client")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// Delete godoc
// @Summary Delete client
// @Tags Clients
// @Param id path string true "Client ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete client")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListContacts godoc
// @Summary List a client's contacts
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ContactDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/clients/{id}/contacts [get]
func (h *ClientHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.clientService.GetByID(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to get client")
		return
	}

	page, pageSize := pagination(r)
	result, err := h.contactService.List(r.Context(), page, pageSize, &id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list client contacts")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
