package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/northlight-studio/agency-api/internal/domain"
)

// ErrQuoteNotOpen is returned when a state change targets a quote that is no longer pending or sent
var ErrQuoteNotOpen = errors.New("quote is not open")

var openQuoteStatuses = []domain.QuoteStatus{domain.QuoteStatusPending, domain.QuoteStatusSent}

// QuoteFilters narrows a quote listing
type QuoteFilters struct {
	Status     *domain.QuoteStatus
	Complexity string
	ClientID   *uuid.UUID
	Email      string
}

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Omit("Client").Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).First(&quote, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) GetByToken(ctx context.Context, token string) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).First(&quote, "token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Quote{}, "id = ?", id).Error
}

func (r *QuoteRepository) List(ctx context.Context, page, pageSize int, filters QuoteFilters) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.Quote{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&quotes).Error

	return quotes, total, err
}

// ListByClient returns the most recent quotes linked to a client
func (r *QuoteRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]domain.Quote, error) {
	var quotes []domain.Quote
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&quotes).Error
	return quotes, err
}

// MarkDecided moves an open quote to accepted or declined. When project is non-nil it is
// created in the same transaction and linked to the quote. Returns ErrQuoteNotOpen when the
// quote was decided or expired concurrently.
func (r *QuoteRepository) MarkDecided(ctx context.Context, quote *domain.Quote, project *domain.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         quote.Status,
			"accepted_at":    quote.AcceptedAt,
			"declined_at":    quote.DeclinedAt,
			"decline_reason": quote.DeclineReason,
			"client_id":      quote.ClientID,
		}

		if project != nil {
			if err := tx.Omit("Client").Create(project).Error; err != nil {
				return err
			}
			quote.ProjectID = &project.ID
			updates["project_id"] = project.ID
		}

		result := tx.Model(&domain.Quote{}).
			Where("id = ? AND status IN ?", quote.ID, openQuoteStatuses).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrQuoteNotOpen
		}
		return nil
	})
}

// MarkSent flags a pending quote as delivered to the client
func (r *QuoteRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Quote{}).
		Where("id = ? AND status = ?", id, domain.QuoteStatusPending).
		Update("status", domain.QuoteStatusSent).Error
}

// ExpireStale marks every open quote whose validity ended at or before now as expired
func (r *QuoteRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Quote{}).
		Where("status IN ? AND expires_at <= ?", openQuoteStatuses, now).
		Updates(map[string]interface{}{
			"status":     domain.QuoteStatusExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// CountByStatus returns the number of quotes per status
func (r *QuoteRepository) CountByStatus(ctx context.Context) (map[domain.QuoteStatus]int64, error) {
	var rows []struct {
		Status domain.QuoteStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Quote{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.QuoteStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *QuoteRepository) applyFilters(query *gorm.DB, filters QuoteFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Complexity != "" {
		query = query.Where("complexity = ?", filters.Complexity)
	}
	if filters.ClientID != nil {
		query = query.Where("client_id = ?", *filters.ClientID)
	}
	if filters.Email != "" {
		query = query.Where("LOWER(client_email) = LOWER(?)", filters.Email)
	}
	return query
}
