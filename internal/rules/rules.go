// Package rules decides whether a validated submission is currently allowed
// given persisted state. Every check re-reads the reference entity at call
// time; for capacity and uniqueness the atomic write in internal/store remains
// the final authority, and these checks exist to produce the friendly error in
// the common case.
package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ethidata/internal/domain"
	apperrors "ethidata/pkg/errors"
)

// Engine evaluates per-workflow invariants against current persisted state.
type Engine struct {
	db *gorm.DB
}

// NewEngine creates a rule engine backed by db.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// CheckApplication verifies the referenced job accepts applications and that a
// resume was attached. Resume presence is a domain rule rather than a
// validation rule: the file rides outside the form payload.
func (e *Engine) CheckApplication(ctx context.Context, jobID uint, hasResume bool) (*domain.Job, error) {
	var job domain.Job
	if err := e.db.WithContext(ctx).First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Job not found")
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if !job.IsActive {
		return nil, apperrors.New(apperrors.ErrCodeInactive, "This position is no longer accepting applications")
	}
	if !hasResume {
		return nil, apperrors.New(apperrors.ErrCodeMissingResume, "Resume is required")
	}
	return &job, nil
}

// CheckEventRegistration verifies the event is open for the given registrant:
// active, scheduled in the future, below capacity, and not already registered
// under this email. A missing and an inactive event are indistinguishable to
// the caller so that registration attempts cannot probe hidden events.
func (e *Engine) CheckEventRegistration(ctx context.Context, eventID uint, email string) (*domain.Event, error) {
	var event domain.Event
	if err := e.db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Event not found or no longer accepting registrations")
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if !event.IsActive {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "Event not found or no longer accepting registrations")
	}
	if event.Date.Before(time.Now()) {
		return nil, apperrors.New(apperrors.ErrCodeExpired, "This event has already passed")
	}
	if event.HasCapacity() && event.CurrentAttendees >= *event.MaxAttendees {
		return nil, apperrors.New(apperrors.ErrCodeCapacityExceeded, "This event is at full capacity")
	}

	var count int64
	err := e.db.WithContext(ctx).Model(&domain.EventRegistration{}).
		Where("event_id = ? AND email = ?", event.ID, email).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}
	if count > 0 {
		return nil, apperrors.New(apperrors.ErrCodeDuplicateRegistration, "You are already registered for this event")
	}

	return &event, nil
}

// CheckResourceDownload verifies the resource exists and that gated content
// comes with an email. Ungated resources never fail this check.
func (e *Engine) CheckResourceDownload(ctx context.Context, resourceID uint, email string) (*domain.Resource, error) {
	var resource domain.Resource
	if err := e.db.WithContext(ctx).First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Resource not found")
		}
		return nil, fmt.Errorf("failed to load resource: %w", err)
	}
	if resource.IsGated && email == "" {
		return nil, apperrors.New(apperrors.ErrCodeEmailRequired, "Email is required for this download")
	}
	return &resource, nil
}
