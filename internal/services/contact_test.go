package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethidata/internal/domain"
	"ethidata/internal/validation"
	apperrors "ethidata/pkg/errors"
)

func TestContactSubmit(t *testing.T) {
	sender := &recordingSender{}
	db, st, _, notifier := newTestEnv(t, sender)
	svc := NewContactService(db, st, notifier)
	ctx := context.Background()

	result, err := svc.Submit(ctx, &validation.ContactInput{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Company: "Acme Corp",
		Subject: "Partnership inquiry",
		Message: "We would like to discuss a partnership.",
	})
	require.NoError(t, err)
	assert.NotZero(t, result.ID)
	assert.Equal(t, "Thank you for contacting us. We will get back to you soon!", result.Message)

	var contact domain.Contact
	require.NoError(t, db.First(&contact, result.ID).Error)
	assert.Equal(t, domain.ContactStatusNew, contact.Status)
	require.NotNil(t, contact.Company)
	assert.Equal(t, "Acme Corp", *contact.Company)
}

func TestContactSubmit_ReportsEveryValidationError(t *testing.T) {
	db, st, _, notifier := newTestEnv(t, &recordingSender{})
	svc := NewContactService(db, st, notifier)

	_, err := svc.Submit(context.Background(), &validation.ContactInput{
		Name:    "J",
		Email:   "not-an-email",
		Subject: "Hi",
		Message: "short",
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Len(t, appErr.Details, 4)

	// Nothing may be persisted when validation fails.
	var count int64
	require.NoError(t, db.Model(&domain.Contact{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestContactSubmit_SucceedsWhenTransportIsDown(t *testing.T) {
	db, st, _, notifier := newTestEnv(t, &recordingSender{fail: true})
	svc := NewContactService(db, st, notifier)

	result, err := svc.Submit(context.Background(), &validation.ContactInput{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Subject: "Partnership inquiry",
		Message: "We would like to discuss a partnership.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Thank you for contacting us. We will get back to you soon!", result.Message)

	var count int64
	require.NoError(t, db.Model(&domain.Contact{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestContactList_FiltersByStatus(t *testing.T) {
	db, st, _, notifier := newTestEnv(t, &recordingSender{})
	svc := NewContactService(db, st, notifier)
	ctx := context.Background()

	for _, status := range []string{domain.ContactStatusNew, domain.ContactStatusNew, domain.ContactStatusRead} {
		require.NoError(t, db.Create(&domain.Contact{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Subject: "Hello there",
			Message: "A long enough message.",
			Status:  status,
		}).Error)
	}

	contacts, total, err := svc.List(ctx, domain.ContactStatusNew, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, contacts, 2)

	contacts, total, err = svc.List(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, contacts, 3)
}

func TestContactUpdateStatus(t *testing.T) {
	db, st, _, notifier := newTestEnv(t, &recordingSender{})
	svc := NewContactService(db, st, notifier)
	ctx := context.Background()

	contact := &domain.Contact{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Subject: "Hello there",
		Message: "A long enough message.",
		Status:  domain.ContactStatusNew,
	}
	require.NoError(t, db.Create(contact).Error)

	updated, err := svc.UpdateStatus(ctx, contact.ID, domain.ContactStatusReplied)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusReplied, updated.Status)

	_, err = svc.UpdateStatus(ctx, contact.ID, "archived")
	assert.Equal(t, apperrors.ErrCodeBadRequest, apperrors.Code(err))

	_, err = svc.UpdateStatus(ctx, 9999, domain.ContactStatusRead)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.Code(err))
}
