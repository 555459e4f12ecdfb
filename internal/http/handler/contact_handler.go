package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/service"
)

type ContactHandler struct {
	contactService *service.ContactService
	logger         *zap.Logger
}

func NewContactHandler(contactService *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// List godoc
// @Summary List contacts
// @Tags Contacts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param clientId query string false "Filter by client ID" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ContactDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/contacts [get]
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseOptionalUUIDQuery(w, r, "clientId")
	if !ok {
		return
	}

	page, pageSize := pagination(r)
	result, err := h.contactService.List(r.Context(), page, pageSize, clientID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list contacts")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param request body domain.CreateContactRequest true "Contact data"
// @Success 201 {object} domain.ContactDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Client not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/contacts [post]
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contact, err := h.contactService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create contact")
		return
	}

	respondJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	contact, err := h.contactService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get contact")
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// Update godoc
// @Summary Update contact
// @Description Marking a contact primary demotes the client's other contacts
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Param request body domain.UpdateContactRequest true "Contact data"
// @Success 200 {object} domain.ContactDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/contacts/{id} [put]
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contact, err := h.contactService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update contact")
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete contact")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
