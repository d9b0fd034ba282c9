package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strconv"

	"gorm.io/gorm"

	"ethidata/internal/domain"
	"ethidata/internal/metrics"
	"ethidata/internal/notify"
	"ethidata/internal/rules"
	"ethidata/internal/store"
	"ethidata/internal/upload"
	"ethidata/internal/validation"
	apperrors "ethidata/pkg/errors"
)

// ApplicationService handles job applications and the operator-facing review
// pipeline.
type ApplicationService struct {
	db       *gorm.DB
	rules    *rules.Engine
	store    *store.Store
	uploads  *upload.Service
	notifier *notify.Notifier
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB, engine *rules.Engine, st *store.Store, uploads *upload.Service, notifier *notify.Notifier) *ApplicationService {
	return &ApplicationService{db: db, rules: engine, store: st, uploads: uploads, notifier: notifier}
}

// Submit runs the application workflow: validate the form fields, check the
// job accepts applications and a resume is attached, store the file, persist
// the application, then confirm by email best-effort.
func (s *ApplicationService) Submit(ctx context.Context, in *validation.ApplicationInput, resume *multipart.FileHeader) (*SubmitResult, error) {
	log.Printf("[APPLICATION] Submit request: jobId=%s, email=%s", in.JobID, in.Email)

	if errs := validation.ValidateApplication(in); len(errs) > 0 {
		log.Printf("[APPLICATION] Submit failed: %d validation errors", len(errs))
		return nil, apperrors.NewValidation(errs)
	}

	jobID, err := strconv.ParseUint(in.JobID, 10, 32)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "Job not found")
	}

	job, err := s.rules.CheckApplication(ctx, uint(jobID), resume != nil)
	if err != nil {
		log.Printf("[APPLICATION] Submit rejected: %v", err)
		return nil, err
	}

	resumeURL, err := s.uploads.SaveResume(resume)
	if err != nil {
		log.Printf("[APPLICATION] Submit failed: resume upload: %v", err)
		return nil, err
	}

	app := &domain.Application{
		JobID:     job.ID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		ResumeURL: resumeURL,
		Status:    domain.ApplicationStatusNew,
	}
	if in.CoverLetter != "" {
		coverLetter := in.CoverLetter
		app.CoverLetter = &coverLetter
	}
	if in.LinkedIn != "" {
		linkedIn := in.LinkedIn
		app.LinkedIn = &linkedIn
	}

	if err := s.store.CreateApplication(ctx, app); err != nil {
		log.Printf("[APPLICATION] Submit failed: database error: %v", err)
		return nil, err
	}

	log.Printf("[APPLICATION] Submit successful: id=%d, job=%q", app.ID, job.Title)
	metrics.RecordApplication()

	go s.notifier.ApplicationReceived(app, job.Title)

	return &SubmitResult{
		ID:      app.ID,
		Message: "Your application has been submitted successfully!",
	}, nil
}

// List returns applications for operators, newest first, optionally filtered
// by job and status.
func (s *ApplicationService) List(ctx context.Context, jobID uint, status string, page, limit int) ([]domain.Application, int64, error) {
	query := s.db.WithContext(ctx).Model(&domain.Application{})
	if jobID != 0 {
		query = query.Where("job_id = ?", jobID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	var apps []domain.Application
	err := query.Preload("Job").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}
	return apps, total, nil
}

// GetByID returns a single application with its job.
func (s *ApplicationService) GetByID(ctx context.Context, id uint) (*domain.Application, error) {
	var app domain.Application
	if err := s.db.WithContext(ctx).Preload("Job").First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Application not found")
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	return &app, nil
}

// UpdateStatus moves an application through the hiring pipeline. Any status
// may follow any other, including out of terminal states.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uint, status string) (*domain.Application, error) {
	if !domain.ValidApplicationStatus(status) {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid status")
	}

	var app domain.Application
	if err := s.db.WithContext(ctx).First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Application not found")
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	app.Status = status
	if err := s.db.WithContext(ctx).Save(&app).Error; err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	log.Printf("[APPLICATION] Status updated: id=%d, status=%s", app.ID, app.Status)
	return &app, nil
}
