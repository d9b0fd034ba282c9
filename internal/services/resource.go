package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"ethidata/internal/domain"
	"ethidata/internal/metrics"
	"ethidata/internal/notify"
	"ethidata/internal/rules"
	"ethidata/internal/store"
	"ethidata/internal/validation"
	apperrors "ethidata/pkg/errors"
)

// ResourceTypes enumerates the resource type filter values.
var ResourceTypes = []string{"whitepaper", "ebook", "template", "guide"}

// ResourceService handles the resource library and download requests.
type ResourceService struct {
	db       *gorm.DB
	rules    *rules.Engine
	store    *store.Store
	notifier *notify.Notifier
}

// NewResourceService creates a new resource service
func NewResourceService(db *gorm.DB, engine *rules.Engine, st *store.Store, notifier *notify.Notifier) *ResourceService {
	return &ResourceService{db: db, rules: engine, store: st, notifier: notifier}
}

// DownloadResult is the public payload for a download request. DownloadURL is
// present only for ungated resources; gated downloads go out by email.
type DownloadResult struct {
	DownloadURL *string `json:"downloadUrl,omitempty"`
	Message     string  `json:"message"`
}

// Download runs the download workflow: validate, enforce gating, bump the
// counter, record identity when given, and mail the link for gated content.
func (s *ResourceService) Download(ctx context.Context, resourceID uint, in *validation.ResourceDownloadInput) (*DownloadResult, error) {
	log.Printf("[RESOURCE] Download request: resource=%d", resourceID)

	if errs := validation.ValidateResourceDownload(in); len(errs) > 0 {
		log.Printf("[RESOURCE] Download failed: %d validation errors", len(errs))
		return nil, apperrors.NewValidation(errs)
	}

	resource, err := s.rules.CheckResourceDownload(ctx, resourceID, in.Email)
	if err != nil {
		log.Printf("[RESOURCE] Download rejected: %v", err)
		return nil, err
	}

	var name *string
	if in.Name != "" {
		n := in.Name
		name = &n
	}

	if _, err := s.store.RecordResourceDownload(ctx, resource.ID, in.Email, name); err != nil {
		log.Printf("[RESOURCE] Download failed: %v", err)
		return nil, err
	}

	log.Printf("[RESOURCE] Download successful: resource=%q, gated=%v", resource.Title, resource.IsGated)
	metrics.RecordResourceDownload()

	if in.Email != "" {
		email, requesterName := in.Email, in.Name
		go s.notifier.ResourceDownloadLink(email, requesterName, resource)
	}

	if resource.IsGated {
		return &DownloadResult{Message: "Download link has been sent to your email"}, nil
	}
	fileURL := resource.FileURL
	return &DownloadResult{DownloadURL: &fileURL, Message: "Download ready"}, nil
}

// List returns resources, optionally filtered by type, newest first.
func (s *ResourceService) List(ctx context.Context, resourceType string) ([]domain.Resource, error) {
	query := s.db.WithContext(ctx).Model(&domain.Resource{})
	if resourceType != "" {
		query = query.Where("type = ?", resourceType)
	}

	var resources []domain.Resource
	if err := query.Order("created_at DESC").Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch resources: %w", err)
	}
	return resources, nil
}

// GetBySlug returns a single resource.
func (s *ResourceService) GetBySlug(ctx context.Context, slug string) (*domain.Resource, error) {
	var resource domain.Resource
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&resource).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Resource not found")
		}
		return nil, fmt.Errorf("failed to load resource: %w", err)
	}
	return &resource, nil
}

// DownloadStats is the operator payload for a resource's download history.
type DownloadStats struct {
	TotalDownloads  int                       `json:"totalDownloads"`
	RecentDownloads []domain.ResourceDownload `json:"recentDownloads"`
}

// Stats returns a resource's download counter and recent identified
// downloads.
func (s *ResourceService) Stats(ctx context.Context, resourceID uint) (*DownloadStats, error) {
	var resource domain.Resource
	if err := s.db.WithContext(ctx).First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Resource not found")
		}
		return nil, fmt.Errorf("failed to load resource: %w", err)
	}

	var downloads []domain.ResourceDownload
	err := s.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("downloaded_at DESC").
		Limit(100).
		Find(&downloads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch downloads: %w", err)
	}

	return &DownloadStats{
		TotalDownloads:  resource.DownloadCount,
		RecentDownloads: downloads,
	}, nil
}
