package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ethidata/internal/domain"
	apperrors "ethidata/pkg/errors"
)

// BlogService handles the public insights listings.
type BlogService struct {
	db *gorm.DB
}

// NewBlogService creates a new blog service
func NewBlogService(db *gorm.DB) *BlogService {
	return &BlogService{db: db}
}

// List returns published posts matching the filters, most recently published
// first.
func (s *BlogService) List(ctx context.Context, category, tag, search string, page, limit int) ([]domain.BlogPost, int64, error) {
	query := s.db.WithContext(ctx).Model(&domain.BlogPost{}).Where("is_published = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if tag != "" {
		query = query.Where("tags LIKE ?", "%"+tag+"%")
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR excerpt LIKE ? OR content LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []domain.BlogPost
	err := query.Omit("content").
		Order("published_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return posts, total, nil
}

// GetBySlug returns a published post and bumps its view counter. The counter
// moves by an atomic increment at the storage layer, not read-modify-write.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	var post domain.BlogPost
	err := s.db.WithContext(ctx).Where("slug = ? AND is_published = ?", slug, true).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Post not found")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&domain.BlogPost{}).
		Where("id = ?", post.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update view count: %w", err)
	}
	post.ViewCount++

	return &post, nil
}
