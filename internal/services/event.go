package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"ethidata/internal/domain"
	"ethidata/internal/metrics"
	"ethidata/internal/notify"
	"ethidata/internal/rules"
	"ethidata/internal/store"
	"ethidata/internal/validation"
	apperrors "ethidata/pkg/errors"
)

// EventTypes enumerates the event type filter values.
var EventTypes = []string{"webinar", "workshop", "conference"}

// EventService handles event listings and public registrations.
type EventService struct {
	db       *gorm.DB
	rules    *rules.Engine
	store    *store.Store
	notifier *notify.Notifier
}

// NewEventService creates a new event service
func NewEventService(db *gorm.DB, engine *rules.Engine, st *store.Store, notifier *notify.Notifier) *EventService {
	return &EventService{db: db, rules: engine, store: st, notifier: notifier}
}

// RegistrationResult is the public payload for a successful registration.
type RegistrationResult struct {
	Message    string    `json:"message"`
	EventTitle string    `json:"eventTitle"`
	EventDate  time.Time `json:"eventDate"`
}

// Register runs the registration workflow. The rule engine's capacity and
// duplicate checks give the friendly error in the common case; the store's
// conditional increment and unique index decide races.
func (s *EventService) Register(ctx context.Context, eventID uint, in *validation.EventRegistrationInput) (*RegistrationResult, error) {
	log.Printf("[EVENT] Register request: event=%d, email=%s", eventID, in.Email)

	if errs := validation.ValidateEventRegistration(in); len(errs) > 0 {
		log.Printf("[EVENT] Register failed: %d validation errors", len(errs))
		return nil, apperrors.NewValidation(errs)
	}

	event, err := s.rules.CheckEventRegistration(ctx, eventID, in.Email)
	if err != nil {
		log.Printf("[EVENT] Register rejected: %v", err)
		return nil, err
	}

	reg := &domain.EventRegistration{
		EventID: event.ID,
		Name:    in.Name,
		Email:   in.Email,
	}
	if in.Company != "" {
		company := in.Company
		reg.Company = &company
	}

	if err := s.store.CreateEventRegistration(ctx, reg); err != nil {
		log.Printf("[EVENT] Register failed: %v", err)
		return nil, err
	}

	log.Printf("[EVENT] Register successful: event=%q, email=%s", event.Title, reg.Email)
	metrics.RecordEventRegistration()

	go s.notifier.EventRegistrationConfirmed(reg, event)

	return &RegistrationResult{
		Message:    "Successfully registered for the event!",
		EventTitle: event.Title,
		EventDate:  event.Date,
	}, nil
}

// List returns active events, optionally filtered by type and upcoming/past.
// Upcoming events sort soonest first, past events most recent first.
func (s *EventService) List(ctx context.Context, eventType string, upcoming *bool) ([]domain.Event, error) {
	query := s.db.WithContext(ctx).Model(&domain.Event{}).Where("is_active = ?", true)
	if eventType != "" {
		query = query.Where("type = ?", eventType)
	}

	order := "date ASC"
	if upcoming != nil {
		now := time.Now()
		if *upcoming {
			query = query.Where("date >= ?", now)
		} else {
			query = query.Where("date < ?", now)
			order = "date DESC"
		}
	}

	var events []domain.Event
	if err := query.Order(order).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}

// GetBySlug returns a single active event.
func (s *EventService) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	var event domain.Event
	err := s.db.WithContext(ctx).Where("slug = ? AND is_active = ?", slug, true).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Event not found")
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return &event, nil
}

// Registrations returns an event's registrations for operators, newest first.
func (s *EventService) Registrations(ctx context.Context, eventID uint) ([]domain.EventRegistration, error) {
	var regs []domain.EventRegistration
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registrations: %w", err)
	}
	return regs, nil
}
