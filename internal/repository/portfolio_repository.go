package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/northlight-studio/agency-api/internal/domain"
)

type PortfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) Create(ctx context.Context, item *domain.PortfolioItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PortfolioItem, error) {
	var item domain.PortfolioItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PortfolioRepository) GetBySlug(ctx context.Context, slug string) (*domain.PortfolioItem, error) {
	var item domain.PortfolioItem
	err := r.db.WithContext(ctx).First(&item, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PortfolioRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.PortfolioItem{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *PortfolioRepository) Update(ctx context.Context, item *domain.PortfolioItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *PortfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.PortfolioItem{}, "id = ?", id).Error
}

// List returns a page of items, featured first then by sort order
func (r *PortfolioRepository) List(ctx context.Context, page, pageSize int, publishedOnly bool) ([]domain.PortfolioItem, int64, error) {
	var items []domain.PortfolioItem
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.PortfolioItem{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("featured DESC, sort_order, created_at DESC").Offset(offset).Limit(pageSize).Find(&items).Error

	return items, total, err
}
