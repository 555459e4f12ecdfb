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

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/mapper"
	"github.com/northlight-studio/agency-api/internal/repository"
)

type BlogService struct {
	postRepo *repository.BlogPostRepository
	logger   *zap.Logger
}

func NewBlogService(postRepo *repository.BlogPostRepository, logger *zap.Logger) *BlogService {
	return &BlogService{postRepo: postRepo, logger: logger}
}

func (s *BlogService) Create(ctx context.Context, req *domain.CreateBlogPostRequest) (*domain.BlogPostDTO, error) {
	base := Slugify(req.Slug)
	if base == "" {
		base = Slugify(req.Title)
	}
	slug, err := uniqueSlug(ctx, base, nil, s.postRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	post := &domain.BlogPost{
		Title:      strings.TrimSpace(req.Title),
		Slug:       slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		Author:     req.Author,
		Tags:       normalizeTags(req.Tags),
		CoverImage: req.CoverImage,
		Status:     domain.BlogPostStatusDraft,
	}
	if req.Publish {
		now := time.Now().UTC()
		post.Status = domain.BlogPostStatusPublished
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}

	dto := mapper.ToBlogPostDTO(post)
	return &dto, nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func (s *BlogService) getPost(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	return post, nil
}

func (s *BlogService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BlogPostDTO, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToBlogPostDTO(post)
	return &dto, nil
}

// GetPublishedBySlug returns a post for the public site; drafts are reported as not found
func (s *BlogService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.BlogPostDTO, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	if post.Status != domain.BlogPostStatusPublished {
		return nil, ErrBlogPostNotFound
	}

	dto := mapper.ToBlogPostDTO(post)
	return &dto, nil
}

// List returns posts in any state for staff; status may be empty
func (s *BlogService) List(ctx context.Context, page, pageSize int, status string) (*domain.PaginatedResponse, error) {
	var filter *domain.BlogPostStatus
	if status != "" {
		st := domain.BlogPostStatus(status)
		if st != domain.BlogPostStatusDraft && st != domain.BlogPostStatusPublished {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
		filter = &st
	}
	return s.list(ctx, page, pageSize, filter)
}

// ListPublished returns published posts, newest first
func (s *BlogService) ListPublished(ctx context.Context, page, pageSize int) (*domain.PaginatedResponse, error) {
	published := domain.BlogPostStatusPublished
	return s.list(ctx, page, pageSize, &published)
}

func (s *BlogService) list(ctx context.Context, page, pageSize int, status *domain.BlogPostStatus) (*domain.PaginatedResponse, error) {
	page, pageSize = clampPagination(page, pageSize)

	posts, total, err := s.postRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}

	dtos := make([]domain.BlogPostDTO, len(posts))
	for i := range posts {
		dtos[i] = mapper.ToBlogPostDTO(&posts[i])
	}
	return paginated(dtos, total, page, pageSize), nil
}

func (s *BlogService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateBlogPostRequest) (*domain.BlogPostDTO, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Excerpt = req.Excerpt
	post.Content = req.Content
	post.Author = req.Author
	post.Tags = normalizeTags(req.Tags)
	post.CoverImage = req.CoverImage

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}

	dto := mapper.ToBlogPostDTO(post)
	return &dto, nil
}

// SetPublished publishes or unpublishes a post. The first publication date is kept on republish.
func (s *BlogService) SetPublished(ctx context.Context, id uuid.UUID, publish bool) (*domain.BlogPostDTO, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if publish {
		post.Status = domain.BlogPostStatusPublished
		if post.PublishedAt == nil {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
	} else {
		post.Status = domain.BlogPostStatusDraft
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}

	dto := mapper.ToBlogPostDTO(post)
	return &dto, nil
}

func (s *BlogService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getPost(ctx, id); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}
	return nil
}
