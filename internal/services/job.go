package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ethidata/internal/domain"
	apperrors "ethidata/pkg/errors"
)

// JobService handles the public careers listings.
type JobService struct {
	db *gorm.DB
}

// NewJobService creates a new job service
func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db}
}

// JobFilters carries the distinct filter values shown on the careers page.
type JobFilters struct {
	Departments []string `json:"departments"`
	Locations   []string `json:"locations"`
}

// List returns active jobs matching the filters, newest first, together with
// the distinct departments and locations across all active jobs.
func (s *JobService) List(ctx context.Context, department, location, jobType, search string) ([]domain.Job, *JobFilters, error) {
	query := s.db.WithContext(ctx).Model(&domain.Job{}).Where("is_active = ?", true)
	if department != "" {
		query = query.Where("department = ?", department)
	}
	if location != "" {
		query = query.Where("location = ?", location)
	}
	if jobType != "" {
		query = query.Where("type = ?", jobType)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var jobs []domain.Job
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	filters := &JobFilters{}
	err := s.db.WithContext(ctx).Model(&domain.Job{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("department", &filters.Departments).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch departments: %w", err)
	}
	err = s.db.WithContext(ctx).Model(&domain.Job{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("location", &filters.Locations).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch locations: %w", err)
	}

	return jobs, filters, nil
}

// GetBySlug returns a single active job.
func (s *JobService) GetBySlug(ctx context.Context, slug string) (*domain.Job, error) {
	var job domain.Job
	err := s.db.WithContext(ctx).Where("slug = ? AND is_active = ?", slug, true).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Job not found")
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	return &job, nil
}
