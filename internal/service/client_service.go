package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/mapper"
	"github.com/northlight-studio/agency-api/internal/repository"
)

const recentQuotesLimit = 20

type ClientService struct {
	clientRepo *repository.ClientRepository
	quoteRepo  *repository.QuoteRepository
	logger     *zap.Logger
}

func NewClientService(
	clientRepo *repository.ClientRepository,
	quoteRepo *repository.QuoteRepository,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		quoteRepo:  quoteRepo,
		logger:     logger,
	}
}

func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	status := req.Status
	if status == "" {
		status = domain.ClientStatusActive
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	source := req.Source
	if source == "" {
		source = domain.ClientSourceManual
	}

	client := &domain.Client{
		Name:    strings.TrimSpace(req.Name),
		Company: strings.TrimSpace(req.Company),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   req.Phone,
		Website: req.Website,
		Status:  status,
		Source:  source,
		Notes:   req.Notes,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrClientEmailTaken
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

// GetWithDetails returns the client with contacts, projects and recent quotes
func (s *ClientService) GetWithDetails(ctx context.Context, id uuid.UUID) (*domain.ClientWithDetailsDTO, error) {
	client, err := s.clientRepo.GetWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	quotes, err := s.quoteRepo.ListByClient(ctx, id, recentQuotesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list client quotes: %w", err)
	}

	dto := &domain.ClientWithDetailsDTO{
		ClientDTO: mapper.ToClientDTO(client),
		Contacts:  make([]domain.ContactDTO, len(client.Contacts)),
		Projects:  make([]domain.ProjectDTO, len(client.Projects)),
		Quotes:    make([]domain.QuoteSummaryDTO, len(quotes)),
	}
	for i := range client.Contacts {
		dto.Contacts[i] = mapper.ToContactDTO(&client.Contacts[i])
	}
	for i := range client.Projects {
		dto.Projects[i] = mapper.ToProjectDTO(&client.Projects[i])
		dto.Projects[i].ClientName = client.Name
	}
	for i := range quotes {
		dto.Quotes[i] = mapper.ToQuoteSummaryDTO(&quotes[i])
	}
	return dto, nil
}

func (s *ClientService) List(ctx context.Context, page, pageSize int, search, status string) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPagination(page, pageSize)

	var statusFilter *domain.ClientStatus
	if status != "" {
		st := domain.ClientStatus(status)
		if !st.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
		statusFilter = &st
	}

	clients, total, err := s.clientRepo.List(ctx, page, pageSize, search, statusFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]domain.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = mapper.ToClientDTO(&clients[i])
	}
	return paginated(dtos, total, page, pageSize), nil
}

func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateClientRequest) (*domain.ClientDTO, error) {
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	client.Name = strings.TrimSpace(req.Name)
	client.Company = strings.TrimSpace(req.Company)
	client.Email = strings.ToLower(strings.TrimSpace(req.Email))
	client.Phone = req.Phone
	client.Website = req.Website
	client.Status = req.Status
	client.Notes = req.Notes

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrClientEmailTaken
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to get client: %w", err)
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.logger.Info("client deleted", zap.String("client_id", id.String()))
	return nil
}
