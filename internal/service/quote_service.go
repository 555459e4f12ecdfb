package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/northlight-studio/agency-api/internal/cache"
	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/estimator"
	applog "github.com/northlight-studio/agency-api/internal/logger"
	"github.com/northlight-studio/agency-api/internal/mapper"
	"github.com/northlight-studio/agency-api/internal/metrics"
	"github.com/northlight-studio/agency-api/internal/notify"
	"github.com/northlight-studio/agency-api/internal/repository"
)

// QuoteEstimator produces a breakdown for a project request
type QuoteEstimator interface {
	Estimate(ctx context.Context, req estimator.ProjectRequest) *estimator.QuoteBreakdown
}

// QuoteNotifications configures who hears about new quotes
type QuoteNotifications struct {
	// PublicURL is the base URL of the client-facing site
	PublicURL    string
	AdminEmail   string
	NotifyClient bool
	NotifyAdmin  bool
}

type QuoteService struct {
	estimator     QuoteEstimator
	quoteRepo     *repository.QuoteRepository
	clientRepo    *repository.ClientRepository
	cache         *cache.QuoteCache
	sender        notify.Sender
	notifications QuoteNotifications
	now           func() time.Time
	logger        *zap.Logger
}

func NewQuoteService(
	est QuoteEstimator,
	quoteRepo *repository.QuoteRepository,
	clientRepo *repository.ClientRepository,
	quoteCache *cache.QuoteCache,
	sender notify.Sender,
	notifications QuoteNotifications,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		estimator:     est,
		quoteRepo:     quoteRepo,
		clientRepo:    clientRepo,
		cache:         quoteCache,
		sender:        sender,
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logger,
	}
}

// SetClock replaces the time source
func (s *QuoteService) SetClock(now func() time.Time) {
	s.now = now
}

// Create estimates a wizard submission, stores it under a fresh token, links it to the
// client (creating a lead when the e-mail is new) and notifies the client and the studio
func (s *QuoteService) Create(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.QuoteDTO, error) {
	projectReq := req.ProjectRequest().Normalize()
	breakdown := s.estimator.Estimate(ctx, projectReq)

	now := s.now()
	rec, err := estimator.AssembleRecord(estimator.NewToken(now), req.Contact(), projectReq, breakdown, now)
	if err != nil {
		if errors.Is(err, estimator.ErrInvalidRequest) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to assemble quote: %w", err)
	}

	client, err := s.findOrCreateClient(ctx, rec.Client)
	if err != nil {
		return nil, err
	}

	quote := mapper.QuoteFromRecord(rec)
	quote.ClientID = &client.ID
	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: quote token collision", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	s.logger.Info("quote created",
		zap.String("token", quote.Token),
		zap.String("complexity", quote.Complexity),
		zap.Int64("total_price", quote.TotalPrice),
		zap.String("classifier", quote.ClassifierSource),
		zap.String("narrative", quote.NarrativeSource))

	if s.notify(ctx, rec, quote.ID) {
		if err := s.quoteRepo.MarkSent(ctx, quote.ID); err != nil {
			s.logger.Warn("failed to mark quote as sent", zap.String("token", quote.Token), zap.Error(err))
		} else {
			quote.Status = domain.QuoteStatusSent
		}
	}

	dto := mapper.ToQuoteDTO(quote)
	s.cache.Set(ctx, &dto)
	return &dto, nil
}

// notify sends the client and admin messages and reports whether the client message was delivered.
// Failures are logged and never returned.
func (s *QuoteService) notify(ctx context.Context, rec *estimator.Record, quoteID uuid.UUID) bool {
	if s.sender == nil {
		return false
	}

	log := applog.WithQuote(s.logger, rec.Token)
	delivered := false
	if s.notifications.NotifyClient {
		msg, err := notify.QuoteEmail(rec, s.portalURL(rec.Token))
		if err == nil {
			err = s.sender.Send(ctx, msg)
		}
		if err != nil {
			log.Warn("failed to send quote to client", zap.Error(err))
		} else {
			delivered = true
		}
	}

	if s.notifications.NotifyAdmin && s.notifications.AdminEmail != "" {
		adminURL := strings.TrimRight(s.notifications.PublicURL, "/") + "/admin/quotes/" + quoteID.String()
		msg, err := notify.AdminQuoteAlert(rec, s.notifications.AdminEmail, adminURL)
		if err == nil {
			err = s.sender.Send(ctx, msg)
		}
		if err != nil {
			log.Warn("failed to send admin quote alert", zap.Error(err))
		}
	}
	return delivered
}

func (s *QuoteService) portalURL(token string) string {
	return strings.TrimRight(s.notifications.PublicURL, "/") + "/quote/" + token
}

func (s *QuoteService) findOrCreateClient(ctx context.Context, contact estimator.ClientContact) (*domain.Client, error) {
	client, err := s.clientRepo.GetByEmail(ctx, contact.Email)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}

	client = &domain.Client{
		Name:    contact.Name,
		Company: contact.Company,
		Email:   strings.ToLower(contact.Email),
		Phone:   contact.Phone,
		Status:  domain.ClientStatusLead,
		Source:  domain.ClientSourceWizard,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.logger.Info("client created from quote request", zap.String("client_id", client.ID.String()))
	return client, nil
}

// Preview runs the estimator without persisting or notifying
func (s *QuoteService) Preview(ctx context.Context, req *domain.PreviewQuoteRequest) *estimator.QuoteBreakdown {
	return s.estimator.Estimate(ctx, req.ProjectRequest())
}

// Catalogue lists the choices offered by the onboarding wizard
func (s *QuoteService) Catalogue() domain.CatalogueDTO {
	return domain.CatalogueDTO{
		ProjectTypes: estimator.ProjectTypes,
		Timelines:    estimator.Timelines,
		Features:     estimator.Catalogue(),
	}
}

func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(quote)
	s.presentStatus(&dto)
	return &dto, nil
}

// GetByToken serves the client portal, reading through the cache
func (s *QuoteService) GetByToken(ctx context.Context, token string) (*domain.QuoteDTO, error) {
	if dto := s.cache.Get(ctx, token); dto != nil {
		s.presentStatus(dto)
		return dto, nil
	}

	quote, err := s.quoteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(quote)
	s.cache.Add(ctx, &dto)
	s.presentStatus(&dto)
	return &dto, nil
}

// presentStatus reports an open quote past its validity as expired before the expiry job has run
func (s *QuoteService) presentStatus(dto *domain.QuoteDTO) {
	if !dto.Status.IsOpen() {
		return
	}
	expiresAt, err := time.Parse(time.RFC3339, dto.ExpiresAt)
	if err == nil && !s.now().Before(expiresAt) {
		dto.Status = domain.QuoteStatusExpired
	}
}

// QuoteListFilters are the optional filters of the staff quote list
type QuoteListFilters struct {
	Status     string
	Complexity string
	ClientID   *uuid.UUID
	Email      string
}

func (s *QuoteService) List(ctx context.Context, page, pageSize int, filters QuoteListFilters) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPagination(page, pageSize)

	repoFilters := repository.QuoteFilters{ClientID: filters.ClientID, Email: strings.TrimSpace(filters.Email)}
	if filters.Status != "" {
		status := domain.QuoteStatus(filters.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filters.Status)
		}
		repoFilters.Status = &status
	}
	if filters.Complexity != "" {
		tier, ok := estimator.ParseComplexityTier(filters.Complexity)
		if !ok {
			return nil, fmt.Errorf("%w: unknown complexity %q", ErrInvalidInput, filters.Complexity)
		}
		repoFilters.Complexity = string(tier)
	}

	quotes, total, err := s.quoteRepo.List(ctx, page, pageSize, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	dtos := make([]domain.QuoteSummaryDTO, len(quotes))
	for i := range quotes {
		dtos[i] = mapper.ToQuoteSummaryDTO(&quotes[i])
	}
	return paginated(dtos, total, page, pageSize), nil
}

// Accept records the client's acceptance and opens a project for the work
func (s *QuoteService) Accept(ctx context.Context, token string) (*domain.QuoteDTO, error) {
	quote, err := s.openQuote(ctx, token)
	if err != nil {
		return nil, err
	}

	if quote.ClientID == nil {
		client, err := s.findOrCreateClient(ctx, estimator.ClientContact{
			Name: quote.ClientName, Email: quote.ClientEmail, Phone: quote.ClientPhone, Company: quote.ClientCompany,
		})
		if err != nil {
			return nil, err
		}
		quote.ClientID = &client.ID
	}

	now := s.now()
	quote.Status = domain.QuoteStatusAccepted
	quote.AcceptedAt = &now
	project := &domain.Project{
		Name:        projectName(quote),
		Description: quote.ProjectScope,
		ClientID:    *quote.ClientID,
		QuoteID:     &quote.ID,
		Status:      domain.ProjectStatusPlanning,
		Budget:      quote.TotalPrice,
	}

	dto, err := s.decide(ctx, quote, project)
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote accepted",
		zap.String("token", quote.Token),
		zap.String("project_id", project.ID.String()))
	return dto, nil
}

// Decline records the client's refusal with an optional reason
func (s *QuoteService) Decline(ctx context.Context, token, reason string) (*domain.QuoteDTO, error) {
	quote, err := s.openQuote(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	quote.Status = domain.QuoteStatusDeclined
	quote.DeclinedAt = &now
	quote.DeclineReason = strings.TrimSpace(reason)

	dto, err := s.decide(ctx, quote, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote declined", zap.String("token", quote.Token))
	return dto, nil
}

// openQuote loads a quote the client may still act on
func (s *QuoteService) openQuote(ctx context.Context, token string) (*domain.Quote, error) {
	quote, err := s.quoteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	switch {
	case quote.Status == domain.QuoteStatusAccepted || quote.Status == domain.QuoteStatusDeclined:
		return nil, ErrQuoteAlreadyDecided
	case quote.IsExpiredAt(s.now()):
		return nil, ErrQuoteExpired
	}
	return quote, nil
}

// decide commits the decision and then overwrites the cached copy with it. Portal reads
// only fill empty cache slots, so an open copy read before the commit cannot replace it.
func (s *QuoteService) decide(ctx context.Context, quote *domain.Quote, project *domain.Project) (*domain.QuoteDTO, error) {
	if err := s.quoteRepo.MarkDecided(ctx, quote, project); err != nil {
		s.cache.Invalidate(ctx, quote.Token)
		if errors.Is(err, repository.ErrQuoteNotOpen) {
			return nil, ErrQuoteAlreadyDecided
		}
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(quote)
	s.cache.Set(ctx, &dto)
	return &dto, nil
}

func projectName(q *domain.Quote) string {
	name := estimator.ProjectType(q.ProjectType).Label()
	owner := q.ClientCompany
	if owner == "" {
		owner = q.ClientName
	}
	return fmt.Sprintf("%s for %s", name, owner)
}

func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuoteNotFound
		}
		return fmt.Errorf("failed to get quote: %w", err)
	}

	if err := s.quoteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	s.cache.Invalidate(ctx, quote.Token)
	return nil
}

// ExpireStale marks open quotes past their validity as expired
func (s *QuoteService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.quoteRepo.ExpireStale(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire quotes: %w", err)
	}
	metrics.QuotesExpired.Add(float64(n))
	return n, nil
}

// StatusCounts returns the number of quotes per status
func (s *QuoteService) StatusCounts(ctx context.Context) (map[domain.QuoteStatus]int64, error) {
	counts, err := s.quoteRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count quotes: %w", err)
	}
	return counts, nil
}
