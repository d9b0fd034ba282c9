// Package store persists submission records. Counter updates on the reference
// entities are atomic conditional UPDATEs executed in the same transaction as
// the insert, so capacity and uniqueness hold under concurrent submissions
// regardless of what the pre-checks in internal/rules observed.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ethidata/internal/domain"
	apperrors "ethidata/pkg/errors"
)

// Store writes submission records and their implied counters.
type Store struct {
	db *gorm.DB
}

// New creates a submission store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateContact persists a contact submission.
func (s *Store) CreateContact(ctx context.Context, c *domain.Contact) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to save contact submission: %w", err)
	}
	return nil
}

// CreateApplication persists a job application.
func (s *Store) CreateApplication(ctx context.Context, a *domain.Application) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to save application: %w", err)
	}
	return nil
}

// CreateEventRegistration inserts the registration and takes one attendee slot
// in a single transaction. The slot is taken by a conditional increment that
// only succeeds while the event is active and below capacity, so two
// registrations racing for the last slot cannot both win. The unique
// (event_id, email) index turns a racing duplicate into ErrDuplicatedKey.
func (s *Store) CreateEventRegistration(ctx context.Context, reg *domain.EventRegistration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Event{}).
			Where("id = ? AND is_active = ?", reg.EventID, true).
			Where("max_attendees IS NULL OR max_attendees = 0 OR current_attendees < max_attendees").
			UpdateColumn("current_attendees", gorm.Expr("current_attendees + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to update attendee count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Either the event vanished/deactivated since the rule check, or
			// the last slot was taken. Re-read to tell the two apart.
			var event domain.Event
			err := tx.First(&event, reg.EventID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !event.IsActive) {
				return apperrors.New(apperrors.ErrCodeNotFound, "Event not found or no longer accepting registrations")
			}
			if err != nil {
				return fmt.Errorf("failed to load event: %w", err)
			}
			return apperrors.New(apperrors.ErrCodeCapacityExceeded, "This event is at full capacity")
		}

		if err := tx.Create(reg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.New(apperrors.ErrCodeDuplicateRegistration, "You are already registered for this event")
			}
			return fmt.Errorf("failed to save registration: %w", err)
		}
		return nil
	})
}

// RecordResourceDownload bumps the resource's download counter and, when the
// requester identified themselves, writes a download record. Ungated requests
// without an email move only the counter.
func (s *Store) RecordResourceDownload(ctx context.Context, resourceID uint, email string, name *string) (*domain.ResourceDownload, error) {
	var record *domain.ResourceDownload

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Resource{}).
			Where("id = ?", resourceID).
			UpdateColumn("download_count", gorm.Expr("download_count + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to update download count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.New(apperrors.ErrCodeNotFound, "Resource not found")
		}

		if email != "" {
			record = &domain.ResourceDownload{
				ResourceID: resourceID,
				Email:      email,
				Name:       name,
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to save download record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
