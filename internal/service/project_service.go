package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/mapper"
	"github.com/northlight-studio/agency-api/internal/repository"
)

type ProjectService struct {
	projectRepo *repository.ProjectRepository
	clientRepo  *repository.ClientRepository
	logger      *zap.Logger
}

func NewProjectService(
	projectRepo *repository.ProjectRepository,
	clientRepo *repository.ClientRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		logger:      logger,
	}
}

func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	startDate, dueDate, err := parseProjectDates(req.StartDate, req.DueDate)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		Name:        req.Name,
		Description: req.Description,
		ClientID:    client.ID,
		QuoteID:     req.QuoteID,
		Status:      domain.ProjectStatusPlanning,
		Budget:      req.Budget,
		StartDate:   startDate,
		DueDate:     dueDate,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	project.Client = client

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func parseProjectDates(start, due string) (*time.Time, *time.Time, error) {
	startDate, err := mapper.ParseDate(start)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid start date", ErrInvalidInput)
	}
	dueDate, err := mapper.ParseDate(due)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid due date", ErrInvalidInput)
	}
	if startDate != nil && dueDate != nil && dueDate.Before(*startDate) {
		return nil, nil, fmt.Errorf("%w: due date is before start date", ErrInvalidInput)
	}
	return startDate, dueDate, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func (s *ProjectService) getProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, page, pageSize int, clientID *uuid.UUID, status, search string) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPagination(page, pageSize)

	var statusFilter *domain.ProjectStatus
	if status != "" {
		st := domain.ProjectStatus(status)
		if !st.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
		statusFilter = &st
	}

	projects, total, err := s.projectRepo.List(ctx, page, pageSize, clientID, statusFilter, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	dtos := make([]domain.ProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = mapper.ToProjectDTO(&projects[i])
	}
	return paginated(dtos, total, page, pageSize), nil
}

func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProjectRequest) (*domain.ProjectDTO, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}

	startDate, dueDate, err := parseProjectDates(req.StartDate, req.DueDate)
	if err != nil {
		return nil, err
	}

	project.Name = req.Name
	project.Description = req.Description
	project.Budget = req.Budget
	project.StartDate = startDate
	project.DueDate = dueDate

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// UpdateStatus moves the project along its workflow. Completing a project stamps CompletedAt.
func (s *ProjectService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus) (*domain.ProjectDTO, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if project.Status == status {
		dto := mapper.ToProjectDTO(project)
		return &dto, nil
	}
	if !project.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, project.Status, status)
	}

	project.Status = status
	if status == domain.ProjectStatusCompleted {
		now := time.Now().UTC()
		project.CompletedAt = &now
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}

	s.logger.Info("project status changed",
		zap.String("project_id", id.String()),
		zap.String("status", string(status)))

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getProject(ctx, id); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
