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
	"ethidata/internal/store"
	"ethidata/internal/validation"
	apperrors "ethidata/pkg/errors"
)

// ContactService handles contact form submissions and the operator-facing
// inbox.
type ContactService struct {
	db       *gorm.DB
	store    *store.Store
	notifier *notify.Notifier
}

// NewContactService creates a new contact service
func NewContactService(db *gorm.DB, st *store.Store, notifier *notify.Notifier) *ContactService {
	return &ContactService{db: db, store: st, notifier: notifier}
}

// SubmitResult is the public payload for contact and application submissions.
type SubmitResult struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

// Submit runs the contact workflow: validate, persist, notify best-effort.
func (s *ContactService) Submit(ctx context.Context, in *validation.ContactInput) (*SubmitResult, error) {
	log.Printf("[CONTACT] Submit request: name=%s, email=%s", in.Name, in.Email)

	if errs := validation.ValidateContact(in); len(errs) > 0 {
		log.Printf("[CONTACT] Submit failed: %d validation errors", len(errs))
		return nil, apperrors.NewValidation(errs)
	}

	contact := &domain.Contact{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
		Status:  domain.ContactStatusNew,
	}
	if in.Company != "" {
		company := in.Company
		contact.Company = &company
	}

	if err := s.store.CreateContact(ctx, contact); err != nil {
		log.Printf("[CONTACT] Submit failed: database error: %v", err)
		return nil, err
	}

	log.Printf("[CONTACT] Submit successful: id=%d, email=%s", contact.ID, contact.Email)
	metrics.RecordContactSubmission()

	// Notification is best-effort and never gates the response.
	go s.notifier.ContactReceived(contact)

	return &SubmitResult{
		ID:      contact.ID,
		Message: "Thank you for contacting us. We will get back to you soon!",
	}, nil
}

// List returns contact submissions for operators, newest first.
func (s *ContactService) List(ctx context.Context, status string, page, limit int) ([]domain.Contact, int64, error) {
	query := s.db.WithContext(ctx).Model(&domain.Contact{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	var contacts []domain.Contact
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	return contacts, total, nil
}

// UpdateStatus moves a contact submission through the operator workflow.
// Transitions are intentionally unconstrained.
func (s *ContactService) UpdateStatus(ctx context.Context, id uint, status string) (*domain.Contact, error) {
	if !domain.ValidContactStatus(status) {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid status")
	}

	var contact domain.Contact
	if err := s.db.WithContext(ctx).First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Contact not found")
		}
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}

	contact.Status = status
	if err := s.db.WithContext(ctx).Save(&contact).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	log.Printf("[CONTACT] Status updated: id=%d, status=%s", contact.ID, contact.Status)
	return &contact, nil
}
