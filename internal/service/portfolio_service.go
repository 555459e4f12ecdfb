package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/mapper"
	"github.com/northlight-studio/agency-api/internal/repository"
	"github.com/northlight-studio/agency-api/internal/storage"
)

const coverPrefix = "portfolio"

var coverContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type PortfolioService struct {
	itemRepo *repository.PortfolioRepository
	storage  storage.Storage
	logger   *zap.Logger
}

func NewPortfolioService(itemRepo *repository.PortfolioRepository, store storage.Storage, logger *zap.Logger) *PortfolioService {
	return &PortfolioService{itemRepo: itemRepo, storage: store, logger: logger}
}

func (s *PortfolioService) Create(ctx context.Context, req *domain.CreatePortfolioItemRequest) (*domain.PortfolioItemDTO, error) {
	base := Slugify(req.Slug)
	if base == "" {
		base = Slugify(req.Title)
	}
	slug, err := uniqueSlug(ctx, base, nil, s.itemRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	item := &domain.PortfolioItem{
		Title:        strings.TrimSpace(req.Title),
		Slug:         slug,
		Summary:      req.Summary,
		Description:  req.Description,
		ClientName:   req.ClientName,
		ProjectURL:   req.ProjectURL,
		Technologies: normalizeTags(req.Technologies),
		Featured:     req.Featured,
		Published:    req.Published,
		SortOrder:    req.SortOrder,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create portfolio item: %w", err)
	}

	dto := mapper.ToPortfolioItemDTO(item)
	return &dto, nil
}

func (s *PortfolioService) getItem(ctx context.Context, id uuid.UUID) (*domain.PortfolioItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioItemNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio item: %w", err)
	}
	return item, nil
}

func (s *PortfolioService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PortfolioItemDTO, error) {
	item, err := s.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToPortfolioItemDTO(item)
	return &dto, nil
}

func (s *PortfolioService) getPublished(ctx context.Context, slug string) (*domain.PortfolioItem, error) {
	item, err := s.itemRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioItemNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio item: %w", err)
	}
	if !item.Published {
		return nil, ErrPortfolioItemNotFound
	}
	return item, nil
}

// GetPublishedBySlug returns a published item for the public site
func (s *PortfolioService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.PortfolioItemDTO, error) {
	item, err := s.getPublished(ctx, slug)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToPortfolioItemDTO(item)
	return &dto, nil
}

// List returns a page of items; publishedOnly restricts it to the public showcase
func (s *PortfolioService) List(ctx context.Context, page, pageSize int, publishedOnly bool) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPagination(page, pageSize)

	items, total, err := s.itemRepo.List(ctx, page, pageSize, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio items: %w", err)
	}

	dtos := make([]domain.PortfolioItemDTO, len(items))
	for i := range items {
		dtos[i] = mapper.ToPortfolioItemDTO(&items[i])
	}
	return paginated(dtos, total, page, pageSize), nil
}

func (s *PortfolioService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdatePortfolioItemRequest) (*domain.PortfolioItemDTO, error) {
	item, err := s.getItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Title = strings.TrimSpace(req.Title)
	item.Summary = req.Summary
	item.Description = req.Description
	item.ClientName = req.ClientName
	item.ProjectURL = req.ProjectURL
	item.Technologies = normalizeTags(req.Technologies)
	item.Featured = req.Featured
	item.Published = req.Published
	item.SortOrder = req.SortOrder

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update portfolio item: %w", err)
	}

	dto := mapper.ToPortfolioItemDTO(item)
	return &dto, nil
}

// UploadCover stores a new cover image and removes the previous one
func (s *PortfolioService) UploadCover(ctx context.Context, id uuid.UUID, filename, contentType string, data io.Reader) (*domain.PortfolioItemDTO, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !coverContentTypes[mediaType] {
		return nil, ErrUnsupportedMedia
	}

	item, err := s.getItem(ctx, id)
	if err != nil {
		return nil, err
	}

	key, size, err := s.storage.Upload(ctx, coverPrefix, filename, mediaType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store cover image: %w", err)
	}

	previous := item.CoverImageKey
	item.CoverImageKey = key
	if err := s.itemRepo.Update(ctx, item); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned cover image", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to update portfolio item: %w", err)
	}

	if previous != "" {
		if err := s.storage.Delete(ctx, previous); err != nil {
			s.logger.Warn("failed to remove previous cover image", zap.String("key", previous), zap.Error(err))
		}
	}

	s.logger.Info("portfolio cover uploaded",
		zap.String("item_id", id.String()),
		zap.String("key", key),
		zap.Int64("size", size))

	dto := mapper.ToPortfolioItemDTO(item)
	return &dto, nil
}

// OpenCover streams the cover image of a published item along with its content type
func (s *PortfolioService) OpenCover(ctx context.Context, slug string) (io.ReadCloser, string, error) {
	item, err := s.getPublished(ctx, slug)
	if err != nil {
		return nil, "", err
	}
	if item.CoverImageKey == "" {
		return nil, "", ErrPortfolioItemNotFound
	}

	rc, err := s.storage.Download(ctx, item.CoverImageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrPortfolioItemNotFound
		}
		return nil, "", fmt.Errorf("failed to open cover image: %w", err)
	}

	contentType := mime.TypeByExtension(path.Ext(item.CoverImageKey))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return rc, contentType, nil
}

func (s *PortfolioService) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.getItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete portfolio item: %w", err)
	}
	if item.CoverImageKey != "" {
		if err := s.storage.Delete(ctx, item.CoverImageKey); err != nil {
			s.logger.Warn("failed to remove cover image", zap.String("key", item.CoverImageKey), zap.Error(err))
		}
	}
	return nil
}
