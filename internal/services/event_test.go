package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethidata/internal/domain"
	"ethidata/internal/validation"
	apperrors "ethidata/pkg/errors"
)

func TestEventRegister(t *testing.T) {
	db, st, engine, notifier := newTestEnv(t, &recordingSender{})
	svc := NewEventService(db, engine, st, notifier)
	max := 50
	event := seedEvent(t, db, "webinar", &max)

	result, err := svc.Register(context.Background(), event.ID, &validation.EventRegistrationInput{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Company: "Acme Corp",
	})
	require.NoError(t, err)
	assert.Equal(t, "Successfully registered for the event!", result.Message)
	assert.Equal(t, event.Title, result.EventTitle)

	var got domain.Event
	require.NoError(t, db.First(&got, event.ID).Error)
	assert.Equal(t, 1, got.CurrentAttendees)
}

func TestEventRegister_LastSlot(t *testing.T) {
	db, st, engine, notifier := newTestEnv(t, &recordingSender{})
	svc := NewEventService(db, engine, st, notifier)
	max := 2
	event := seedEvent(t, db, "small-webinar", &max)
	require.NoError(t, db.Model(&domain.Event{}).Where("id = ?", event.ID).
		UpdateColumn("current_attendees", 1).Error)
	ctx := context.Background()

	// One seat left: the first registration takes it, the next is rejected.
	_, err := svc.Register(ctx, event.ID, &validation.EventRegistrationInput{
		Name: "Jane", Email: "jane@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, event.ID, &validation.EventRegistrationInput{
		Name: "John", Email: "john@example.com",
	})
	assert.Equal(t, apperrors.ErrCodeCapacityExceeded, apperrors.Code(err))

	var got domain.Event
	require.NoError(t, db.First(&got, event.ID).Error)
	assert.Equal(t, 2, got.CurrentAttendees)
}

func TestEventRegister_DuplicateEmail(t *testing.T) {
	db, st, engine, notifier := newTestEnv(t, &recordingSender{})
	svc := NewEventService(db, engine, st, notifier)
	event := seedEvent(t, db, "webinar", nil)
	ctx := context.Background()

	in := &validation.EventRegistrationInput{Name: "Jane", Email: "jane@example.com"}
	_, err := svc.Register(ctx, event.ID, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, event.ID, &validation.EventRegistrationInput{
		Name: "Jane Again", Email: "jane@example.com",
	})
	assert.Equal(t, apperrors.ErrCodeDuplicateRegistration, apperrors.Code(err))

	// Email matching is case-insensitive because inputs are normalized.
	_, err = svc.Register(ctx, event.ID, &validation.EventRegistrationInput{
		Name: "Jane Again", Email: "JANE@Example.com",
	})
	assert.Equal(t, apperrors.ErrCodeDuplicateRegistration, apperrors.Code(err))
}

func TestEventRegister_SucceedsWhenTransportIsDown(t *testing.T) {
	db, st, engine, notifier := newTestEnv(t, &recordingSender{fail: true})
	svc := NewEventService(db, engine, st, notifier)
	event := seedEvent(t, db, "webinar", nil)

	result, err := svc.Register(context.Background(), event.ID, &validation.EventRegistrationInput{
		Name: "Jane", Email: "jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Successfully registered for the event!", result.Message)
}

func TestEventList(t *testing.T) {
	db, st, engine, notifier := newTestEnv(t, &recordingSender{})
	svc := NewEventService(db, engine, st, notifier)
	ctx := context.Background()

	seedEvent(t, db, "upcoming-webinar", nil)
	past := seedEvent(t, db, "past-conference", nil)
	require.NoError(t, db.Model(&domain.Event{}).Where("id = ?", past.ID).
		Updates(map[string]any{"date": time.Now().Add(-72 * time.Hour), "type": "conference"}).Error)
	hidden := seedEvent(t, db, "hidden-webinar", nil)
	require.NoError(t, db.Model(&domain.Event{}).Where("id = ?", hidden.ID).
		UpdateColumn("is_active", false).Error)

	events, err := svc.List(ctx, "", nil)
	require.NoError(t, err)
	assert.Len(t, events, 2, "inactive events are never listed")

	upcoming := true
	events, err = svc.List(ctx, "", &upcoming)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "upcoming-webinar", events[0].Slug)

	upcoming = false
	events, err = svc.List(ctx, "conference", &upcoming)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "past-conference", events[0].Slug)
}

func TestEventGetBySlug(t *testing.T) {
	db, st, engine, notifier := newTestEnv(t, &recordingSender{})
	svc := NewEventService(db, engine, st, notifier)
	event := seedEvent(t, db, "webinar", nil)
	ctx := context.Background()

	got, err := svc.GetBySlug(ctx, "webinar")
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)

	_, err = svc.GetBySlug(ctx, "missing")
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.Code(err))

	require.NoError(t, db.Model(&domain.Event{}).Where("id = ?", event.ID).
		UpdateColumn("is_active", false).Error)
	_, err = svc.GetBySlug(ctx, "webinar")
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.Code(err))
}
